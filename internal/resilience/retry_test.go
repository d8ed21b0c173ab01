package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff(attempts int) Backoff {
	return Backoff{Attempts: attempts, Initial: time.Millisecond, Max: 2 * time.Millisecond}
}

func TestRetry_SucceedsFirstTry(t *testing.T) {
	t.Parallel()
	calls := 0
	v, err := Retry(context.Background(), fastBackoff(3), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 1, calls)
}

func TestRetry_RetriesTransient(t *testing.T) {
	t.Parallel()
	calls := 0
	var hooks []int
	b := fastBackoff(3)
	b.OnRetry = func(attempt int, _ error) { hooks = append(hooks, attempt) }

	v, err := Retry(context.Background(), b, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, Transient(errors.New("busy"), 503)
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, hooks)
}

func TestRetry_Exhausted(t *testing.T) {
	t.Parallel()
	calls := 0
	_, err := Retry(context.Background(), fastBackoff(2), func(context.Context) (int, error) {
		calls++
		return 0, Transient(errors.New("down"), 500)
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "down")
}

func TestRetry_PermanentErrorStops(t *testing.T) {
	t.Parallel()
	calls := 0
	_, err := Retry(context.Background(), fastBackoff(5), func(context.Context) (int, error) {
		calls++
		return 0, errors.New("schema mismatch")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	b := Backoff{Attempts: 5, Initial: time.Second, Max: time.Second}
	_, err := Retry(ctx, b, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, Transient(errors.New("busy"), 503)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestBackoff_DelayCapped(t *testing.T) {
	t.Parallel()
	b := Backoff{Attempts: 5, Initial: 10 * time.Millisecond, Max: 25 * time.Millisecond}.normalized()
	assert.Equal(t, 10*time.Millisecond, b.delay(0))
	assert.Equal(t, 20*time.Millisecond, b.delay(1))
	assert.Equal(t, 25*time.Millisecond, b.delay(4))
}

func TestBackoff_JitterStaysInRange(t *testing.T) {
	t.Parallel()
	b := Backoff{Attempts: 2, Initial: 100 * time.Millisecond, Max: time.Second, Jitter: 0.5}.normalized()
	for range 50 {
		d := b.delay(0)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}
