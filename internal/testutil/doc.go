// Package testutil provides deterministic stand-ins for wall time, tick
// sources and id generation.
package testutil
