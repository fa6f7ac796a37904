// Command presente is a personal self-help journal for social anxiety.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/presente/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, &cli.RootOptions{}, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
