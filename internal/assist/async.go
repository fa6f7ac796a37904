package assist

import (
	"context"
	"time"
)

// Async runs fn in its own goroutine and returns a channel that receives
// exactly one value: fn's result, or fallback if fn has not returned
// within timeout (or ctx ends first). The channel is buffered, so a late
// fn never blocks.
func Async(ctx context.Context, timeout time.Duration, fallback string, fn func(ctx context.Context) string) <-chan string {
	out := make(chan string, 1)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		result := make(chan string, 1)
		go func() { result <- fn(ctx) }()

		select {
		case r := <-result:
			out <- r
		case <-ctx.Done():
			out <- fallback
		}
	}()
	return out
}
