package exercise

import "time"

// TickerFunc starts a tick source with period d. It returns the tick channel
// and a function that stops the source.
type TickerFunc func(d time.Duration) (ticks <-chan time.Time, stop func())

// RealTicker is a TickerFunc backed by time.Ticker.
func RealTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}
