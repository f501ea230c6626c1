package retry

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_ItSucceedsOnFirstAttempt(t *testing.T) {
	var calls int

	err := Incremental(context.Background(), 1*time.Millisecond, 3, func(attempt int) error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func Test_ItRetriesUntilSuccess(t *testing.T) {
	var calls int

	err := Incremental(context.Background(), 1*time.Millisecond, 5, func(attempt int) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func Test_ItGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int

	err := Incremental(context.Background(), 1*time.Millisecond, 3, func(attempt int) error {
		calls++
		return errors.New("always failing")
	})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooManyAttempts))
	assert.Equal(t, 3, calls)
}

func Test_ItStopsWhenContextIsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Incremental(ctx, 10*time.Millisecond, 10, func(attempt int) error {
		return errors.New("failing")
	})

	assert.Equal(t, context.Canceled, err)
}
