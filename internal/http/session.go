package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/realworks-io/fub-client/internal/constants"
	"github.com/realworks-io/fub-client/pkg/fub"
)

// SessionConfig controls how sessions are built.
type SessionConfig struct {
	Timeout  time.Duration
	PoolSize int

	// RetryMax enables transport-level retry of 429/5xx responses. Zero
	// disables it, so rate-limit errors surface to the caller immediately.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	Logger fub.Logger
}

func (c *SessionConfig) withDefaults() SessionConfig {
	cfg := *c
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultHTTPTimeout
	}

	if cfg.PoolSize <= 0 {
		cfg.PoolSize = constants.DefaultPoolSize
	}

	if cfg.RetryWaitMin <= 0 {
		cfg.RetryWaitMin = constants.DefaultRetryWaitMin
	}

	if cfg.RetryWaitMax <= 0 {
		cfg.RetryWaitMax = constants.DefaultRetryWaitMax
	}

	if cfg.Logger == nil {
		cfg.Logger = fub.NoopLogger{}
	}

	return cfg
}

// SessionManager owns the HTTP connection pool and the per-session counters.
// Reinitialize discards the pool and builds a fresh one; the retry layer
// calls it after an authentication failure, because stale pooled connections
// are the most common cause of spurious token-expiry responses.
type SessionManager struct {
	cfg SessionConfig

	mu     sync.Mutex
	client *retryablehttp.Client
	closed bool

	requestCount        int64
	errorCount          int64
	sessionTimeoutCount int64
	lastRequestTime     time.Time
}

// NewSessionManager creates a manager with an initialized session.
func NewSessionManager(cfg SessionConfig) *SessionManager {
	manager := &SessionManager{cfg: cfg.withDefaults()}
	manager.client = manager.buildClient()

	return manager
}

func (m *SessionManager) buildClient() *retryablehttp.Client {
	transport := &http.Transport{
		MaxIdleConns:        m.cfg.PoolSize,
		MaxIdleConnsPerHost: m.cfg.PoolSize,
		IdleConnTimeout:     constants.IdleConnTimeout,
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   m.cfg.Timeout,
	}
	client.RetryMax = m.cfg.RetryMax
	client.RetryWaitMin = m.cfg.RetryWaitMin
	client.RetryWaitMax = m.cfg.RetryWaitMax
	client.Logger = nil

	return client
}

// Acquire returns the current session client.
func (m *SessionManager) Acquire() (*retryablehttp.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fub.ErrSessionClosed
	}

	return m.client, nil
}

// Reinitialize discards the current connection pool and creates a fresh
// session. Safe to call concurrently; in-flight requests on the old pool
// complete against it.
func (m *SessionManager) Reinitialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fub.ErrSessionClosed
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("session reinitialization cancelled: %w", err)
	}

	m.client.HTTPClient.CloseIdleConnections()
	m.client = m.buildClient()
	m.sessionTimeoutCount++
	sessionReinitsTotal.Inc()

	m.cfg.Logger.Info("session reinitialized", map[string]interface{}{
		"reinit_count": m.sessionTimeoutCount,
	})

	return nil
}

// RecordRequest updates the request counters.
func (m *SessionManager) RecordRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requestCount++
	m.lastRequestTime = time.Now()
}

// RecordError updates the error counter.
func (m *SessionManager) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errorCount++
}

// Stats returns a snapshot of the session counters.
func (m *SessionManager) Stats() fub.SessionStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := fub.SessionStats{
		RequestCount:        m.requestCount,
		ErrorCount:          m.errorCount,
		SessionTimeoutCount: m.sessionTimeoutCount,
		LastRequestTime:     m.lastRequestTime,
	}

	if m.requestCount > 0 {
		stats.ErrorRate = float64(m.errorCount) / float64(m.requestCount)
	}

	return stats
}

// Close releases the connection pool. Idempotent.
func (m *SessionManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.client.HTTPClient.CloseIdleConnections()
	m.closed = true

	return nil
}

// rateLimiter enforces a fixed minimum interval between requests. The API's
// published limit is 10 requests per second; a fixed 100ms spacing honors it
// without bursts.
type rateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	if interval <= 0 {
		interval = constants.MinRequestInterval
	}

	return &rateLimiter{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait blocks until the next request slot, honoring context cancellation.
func (r *rateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()

	now := r.now()
	wait := r.interval - now.Sub(r.last)

	if wait > 0 {
		r.last = now.Add(wait)
	} else {
		r.last = now
		wait = 0
	}

	r.mu.Unlock()

	if wait == 0 {
		return nil
	}

	return r.sleep(ctx, wait)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limit wait interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
