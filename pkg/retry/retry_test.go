package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoll_SuccessImmediate(t *testing.T) {
	var calls int
	err := Poll(context.Background(), 5*time.Millisecond, func() error {
		calls++
		return nil
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPoll_RetryThenSuccess(t *testing.T) {
	var calls, retries int
	err := Poll(context.Background(), 2*time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, func(err error, next time.Duration) {
		retries++
		assert.Error(t, err)
		assert.Equal(t, 2*time.Millisecond, next)
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestPoll_PermanentStops(t *testing.T) {
	boom := errors.New("reverted")
	var calls int
	err := Poll(context.Background(), 2*time.Millisecond, func() error {
		calls++
		return Permanent(boom)
	}, nil)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestPoll_DeadlineReturnsContextError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var calls int
	err := Poll(ctx, 5*time.Millisecond, func() error {
		calls++
		return errors.New("not yet")
	}, nil)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, calls, 1)
}
