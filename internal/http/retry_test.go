package http

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realworks-io/fub-client/pkg/fub"
)

func fastRetryPolicy(t *testing.T, maxRetries int) (*RetryPolicy, *SessionManager) {
	t.Helper()

	session := NewSessionManager(SessionConfig{})
	t.Cleanup(func() { _ = session.Close() })

	policy := NewRetryPolicy(maxRetries, 1.0, session, nil)
	policy.sleep = func(context.Context, time.Duration) error { return nil }

	return policy, session
}

func TestRetryPolicy_SucceedsAfterAuthFailures(t *testing.T) {
	t.Parallel()

	policy, session := fastRetryPolicy(t, 3)

	attempts := 0

	resp, err := policy.Do(context.Background(), func() (*Response, error) {
		attempts++
		if attempts <= 2 {
			return nil, fub.Classify(401, "Invalid credentials", nil)
		}

		return &Response{StatusCode: 200}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 3, attempts)

	// One session reinitialization per auth failure.
	assert.Equal(t, int64(2), session.Stats().SessionTimeoutCount)
}

func TestRetryPolicy_ExhaustsAuthRetries(t *testing.T) {
	t.Parallel()

	policy, session := fastRetryPolicy(t, 3)

	attempts := 0

	_, err := policy.Do(context.Background(), func() (*Response, error) {
		attempts++

		return nil, fub.Classify(401, "Invalid credentials", nil)
	})
	require.ErrorIs(t, err, fub.ErrAuthRetriesExhausted)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, int64(3), session.Stats().SessionTimeoutCount)
}

func TestRetryPolicy_NonAuthErrorsPropagateImmediately(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
	}{
		{"rate limit", 429},
		{"not found", 404},
		{"validation", 422},
		{"server error", 500},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			policy, session := fastRetryPolicy(t, 3)

			attempts := 0

			_, err := policy.Do(context.Background(), func() (*Response, error) {
				attempts++

				return nil, fub.Classify(tt.statusCode, "failed", nil)
			})
			require.Error(t, err)
			assert.Equal(t, 1, attempts)
			assert.Equal(t, int64(0), session.Stats().SessionTimeoutCount)
		})
	}
}

func TestRetryPolicy_BackoffGrowsExponentially(t *testing.T) {
	t.Parallel()

	policy, _ := fastRetryPolicy(t, 3)

	var waits []time.Duration

	policy.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)

		return nil
	}

	_, err := policy.Do(context.Background(), func() (*Response, error) {
		return nil, fub.Classify(401, "Invalid credentials", nil)
	})
	require.ErrorIs(t, err, fub.ErrAuthRetriesExhausted)
	require.Len(t, waits, 3)
	assert.Equal(t, 1*time.Second, waits[0])
	assert.Equal(t, 2*time.Second, waits[1])
	assert.Equal(t, 4*time.Second, waits[2])
}

func TestRetryPolicy_CancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	session := NewSessionManager(SessionConfig{})
	t.Cleanup(func() { _ = session.Close() })

	policy := NewRetryPolicy(3, 1.0, session, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := policy.Do(ctx, func() (*Response, error) {
		return nil, fub.Classify(401, "Invalid credentials", nil)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
