package letterboxd

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a minimum interval between outgoing scrape requests.
// It is shared across all scrapes in the process so concurrent comparison
// requests don't hammer the site together. The clock and sleep functions
// are injectable for tests.
type Limiter struct {
	Interval time.Duration

	mu   sync.Mutex
	last time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{
		Interval: interval,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Acquire blocks until at least Interval has passed since the previous
// acquisition, or the context is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	now := l.now()
	wait := l.Interval - now.Sub(l.last)
	if wait < 0 {
		wait = 0
	}
	// Reserve our slot before sleeping so concurrent callers queue up
	// behind each other instead of all waking at once.
	l.last = now.Add(wait)
	l.mu.Unlock()

	if wait == 0 {
		return ctx.Err()
	}
	return l.sleep(ctx, wait)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
