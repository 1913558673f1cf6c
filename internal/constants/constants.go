package constants

import "time"

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// IdleConnTimeout is how long pooled connections stay idle before closing.
	IdleConnTimeout = 90 * time.Second
)

// Retry configuration.
const (
	// DefaultMaxRetries is the default number of auth-failure retries.
	DefaultMaxRetries = 3

	// DefaultBackoffFactor multiplies the exponential backoff (seconds).
	DefaultBackoffFactor = 1.0

	// DefaultRetryWaitMin is the minimum wait between transport-level retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between transport-level retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Session and rate limiting.
const (
	// DefaultPoolSize bounds the pooled connection count per session.
	DefaultPoolSize = 10

	// MinRequestInterval is the fixed spacing enforced between requests.
	MinRequestInterval = 100 * time.Millisecond
)

// Pagination limits imposed by the Follow Up Boss API.
const (
	// OffsetCap is the deep-pagination ceiling; offset requests at or beyond
	// this value are rejected by the service.
	OffsetCap = 2000

	// DefaultPageLimit is the standard page size for offset pagination.
	DefaultPageLimit = 100

	// NextLinkPageLimit is the smaller initial page size used when probing
	// for nextLink support.
	NextLinkPageLimit = 50

	// MaxNextLinkRequests caps nextLink traversal to prevent infinite loops.
	MaxNextLinkRequests = 1000

	// DefaultDateRangeDays is the default historical window for date-range
	// chunked extraction (two years).
	DefaultDateRangeDays = 730

	// DefaultChunkDays is the size of one date-range window.
	DefaultChunkDays = 30

	// ConcurrentChunkSize is the per-request item count for parallel offset
	// chunk fetching.
	ConcurrentChunkSize = 100

	// DefaultMaxWorkers bounds the concurrent fetch worker pool.
	DefaultMaxWorkers = 5
)

// Pond verification thresholds.
const (
	// VerificationSampleSize is how many items are membership-checked.
	VerificationSampleSize = 10

	// StrictVerifyThreshold is the required match ratio in strict mode.
	StrictVerifyThreshold = 0.9

	// LenientVerifyThreshold is the required match ratio in lenient mode.
	LenientVerifyThreshold = 0.5

	// AccuracyThreshold is the extraction accuracy required against an
	// expected count for verification to pass.
	AccuracyThreshold = 0.95
)
