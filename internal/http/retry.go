package http

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/realworks-io/fub-client/internal/constants"
	"github.com/realworks-io/fub-client/pkg/fub"
)

// RetryPolicy retries authentication-classified failures after session
// reinitialization. All other failures propagate on the first occurrence:
// validation and not-found errors never recover by retrying, and rate-limit
// handling belongs to the pagination layer.
type RetryPolicy struct {
	maxRetries    int
	backoffFactor float64
	session       *SessionManager
	logger        fub.Logger

	// sleep is injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy creates a policy bound to a session manager.
func NewRetryPolicy(maxRetries int, backoffFactor float64, session *SessionManager, logger fub.Logger) *RetryPolicy {
	if maxRetries <= 0 {
		maxRetries = constants.DefaultMaxRetries
	}

	if backoffFactor <= 0 {
		backoffFactor = constants.DefaultBackoffFactor
	}

	if logger == nil {
		logger = fub.NoopLogger{}
	}

	return &RetryPolicy{
		maxRetries:    maxRetries,
		backoffFactor: backoffFactor,
		session:       session,
		logger:        logger,
		sleep:         sleepContext,
	}
}

// Do invokes op at most maxRetries times. After an auth failure it waits
// backoffFactor * 2^attempt seconds, reinitializes the session, and tries
// again. Exhaustion yields ErrAuthRetriesExhausted carrying the last
// underlying failure.
func (p *RetryPolicy) Do(ctx context.Context, op func() (*Response, error)) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt < p.maxRetries; attempt++ {
		resp, err := op()
		if err == nil {
			return resp, nil
		}

		if !fub.IsAuthError(err) {
			return resp, err
		}

		lastErr = err

		wait := time.Duration(p.backoffFactor * math.Pow(2, float64(attempt)) * float64(time.Second))

		p.logger.Warn("authentication failed, reinitializing session", map[string]interface{}{
			"attempt": attempt + 1,
			"max":     p.maxRetries,
			"wait":    wait.String(),
			"error":   err.Error(),
		})

		if sleepErr := p.sleep(ctx, wait); sleepErr != nil {
			return nil, sleepErr
		}

		if reinitErr := p.session.Reinitialize(ctx); reinitErr != nil {
			return nil, fmt.Errorf("reinitializing session: %w", reinitErr)
		}
	}

	return nil, fmt.Errorf("%w after %d retries: %v", fub.ErrAuthRetriesExhausted, p.maxRetries, lastErr)
}
