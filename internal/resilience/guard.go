package resilience

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// Guard bundles the policy applied to every call to one upstream: each
// attempt gets its own deadline, transient failures are retried, and the
// breaker fails fast after repeated failures.
type Guard struct {
	Name    string
	Timeout time.Duration
	Backoff Backoff
	Breaker *Breaker
}

// Policy is the plain configuration a Guard is built from.
type Policy struct {
	Timeout          time.Duration
	Attempts         int
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// NewGuard builds a guard for the named upstream.
func NewGuard(name string, p Policy) *Guard {
	b := DefaultBackoff()
	b.Attempts = p.Attempts
	if p.InitialBackoff > 0 {
		b.Initial = p.InitialBackoff
	}
	if p.MaxBackoff > 0 {
		b.Max = p.MaxBackoff
	}
	b.OnRetry = LogRetry(name)
	return &Guard{
		Name:    name,
		Timeout: p.Timeout,
		Backoff: b,
		Breaker: NewBreaker(p.BreakerThreshold, p.BreakerCooldown),
	}
}

// Call runs fn under g. A nil guard calls fn directly.
func Call[T any](ctx context.Context, g *Guard, op string, fn func(context.Context) (T, error)) (T, error) {
	if g == nil {
		return fn(ctx)
	}
	v, err := Retry(ctx, g.Backoff, func(ctx context.Context) (T, error) {
		return Do(g.Breaker, func() (T, error) {
			attemptCtx, cancel := g.attemptContext(ctx)
			defer cancel()
			return fn(attemptCtx)
		})
	})
	if err != nil {
		var zero T
		return zero, eris.Wrapf(err, "%s: %s", g.Name, op)
	}
	return v, nil
}

func (g *Guard) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.Timeout)
}
