package http

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realworks-io/fub-client/pkg/fub"
)

func TestSessionManager_AcquireAfterClose(t *testing.T) {
	t.Parallel()

	session := NewSessionManager(SessionConfig{})

	client, err := session.Acquire()
	require.NoError(t, err)
	assert.NotNil(t, client)

	require.NoError(t, session.Close())

	_, err = session.Acquire()
	assert.ErrorIs(t, err, fub.ErrSessionClosed)

	// Close is idempotent.
	assert.NoError(t, session.Close())
}

func TestSessionManager_ReinitializeReplacesClient(t *testing.T) {
	t.Parallel()

	session := NewSessionManager(SessionConfig{})
	t.Cleanup(func() { _ = session.Close() })

	before, err := session.Acquire()
	require.NoError(t, err)

	require.NoError(t, session.Reinitialize(context.Background()))

	after, err := session.Acquire()
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, int64(1), session.Stats().SessionTimeoutCount)
}

func TestSessionManager_ReinitializeAfterClose(t *testing.T) {
	t.Parallel()

	session := NewSessionManager(SessionConfig{})
	require.NoError(t, session.Close())

	err := session.Reinitialize(context.Background())
	assert.ErrorIs(t, err, fub.ErrSessionClosed)
}

func TestSessionManager_Stats(t *testing.T) {
	t.Parallel()

	session := NewSessionManager(SessionConfig{})
	t.Cleanup(func() { _ = session.Close() })

	session.RecordRequest()
	session.RecordRequest()
	session.RecordRequest()
	session.RecordRequest()
	session.RecordError()

	stats := session.Stats()
	assert.Equal(t, int64(4), stats.RequestCount)
	assert.Equal(t, int64(1), stats.ErrorCount)
	assert.InDelta(t, 0.25, stats.ErrorRate, 0.001)
	assert.False(t, stats.LastRequestTime.IsZero())
}

func TestRateLimiter_EnforcesSpacing(t *testing.T) {
	t.Parallel()

	limiter := newRateLimiter(100 * time.Millisecond)

	current := time.Unix(0, 0)
	limiter.now = func() time.Time { return current }

	var slept []time.Duration

	limiter.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)

		return nil
	}

	// First request passes immediately.
	require.NoError(t, limiter.Wait(context.Background()))
	assert.Empty(t, slept)

	// An immediate second request waits out the full interval.
	require.NoError(t, limiter.Wait(context.Background()))
	require.Len(t, slept, 1)
	assert.Equal(t, 100*time.Millisecond, slept[0])

	// After the interval has passed, no wait.
	current = current.Add(250 * time.Millisecond)
	require.NoError(t, limiter.Wait(context.Background()))
	assert.Len(t, slept, 1)
}

func TestRateLimiter_CancelledContext(t *testing.T) {
	t.Parallel()

	limiter := newRateLimiter(time.Hour)

	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
