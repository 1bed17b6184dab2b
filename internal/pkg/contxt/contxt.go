package contxt

import (
	"context"
	"time"
)

// NewContext returns a context that gives one poll cycle a bounded lifetime.
func NewContext(timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ctx
}
