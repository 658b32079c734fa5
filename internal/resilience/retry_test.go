package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestDoVal_SucceedsFirstTry(t *testing.T) {
	calls := 0
	v, err := DoVal(context.Background(), fastRetryConfig(3), func(context.Context) (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestDoVal_RetriesTransient(t *testing.T) {
	calls := 0
	v, err := DoVal(context.Background(), fastRetryConfig(3), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", NewTransientError(eris.New("service unavailable"), 503)
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, calls)
}

func TestDoVal_StopsOnPermanent(t *testing.T) {
	calls := 0
	_, err := DoVal(context.Background(), fastRetryConfig(3), func(context.Context) (int, error) {
		calls++
		return 0, eris.New("bad request")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoVal_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := DoVal(context.Background(), fastRetryConfig(3), func(context.Context) (int, error) {
		calls++
		return 0, NewTransientError(eris.New("timeout"), 504)
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoVal_ContextCancelStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := DoVal(ctx, fastRetryConfig(5), func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, NewTransientError(eris.New("reset"), 0)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoVal_OnRetryCallback(t *testing.T) {
	var attempts []int
	cfg := fastRetryConfig(3)
	cfg.OnRetry = func(attempt int, _ error) {
		attempts = append(attempts, attempt)
	}

	_, _ = DoVal(context.Background(), cfg, func(context.Context) (int, error) {
		return 0, NewTransientError(eris.New("flaky"), 500)
	})
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestComputeBackoff_GrowsAndCaps(t *testing.T) {
	cfg := applyDefaults(RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     300 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0,
	})

	assert.Equal(t, 100*time.Millisecond, computeBackoff(0, cfg))
	assert.Equal(t, 200*time.Millisecond, computeBackoff(1, cfg))
	assert.Equal(t, 300*time.Millisecond, computeBackoff(2, cfg))
	assert.Equal(t, 300*time.Millisecond, computeBackoff(5, cfg))
}
