package retry

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var ErrTooManyAttempts = errors.New("too many retry attempts")

type Callable func(attempt int) error

type Attempts interface {
	Next() (time.Duration, bool)
	Current() int
}

func Start(ctx context.Context, a Attempts, cb Callable) error {
	for {
		err := cb(a.Current())
		if err == nil {
			return nil
		}

		next, stop := a.Next()
		if stop {
			return errors.Wrapf(ErrTooManyAttempts, "last error: %s", err.Error())
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(next):
			continue
		}
	}
}

// Incremental retries cb with a linearly growing pause between attempts.
func Incremental(ctx context.Context, step time.Duration, maxAttempts int, cb Callable) error {
	return Start(ctx, IncrementalAttempts(step, maxAttempts), cb)
}

type incrementalAttempts struct {
	sync.RWMutex
	prev time.Duration
	step time.Duration
	max  int
	curr int
}

func (a *incrementalAttempts) Next() (time.Duration, bool) {
	a.Lock()
	defer a.Unlock()

	a.curr++
	if a.curr > a.max {
		return 0, true
	}

	next := a.prev + a.step
	a.prev = next

	return next, false
}

func (a *incrementalAttempts) Current() int {
	a.RLock()
	defer a.RUnlock()
	return a.curr
}

func IncrementalAttempts(step time.Duration, max int) Attempts {
	return &incrementalAttempts{
		prev: 0,
		step: step,
		max:  max,
		curr: 1,
	}
}
