package fub

import (
	"context"
	"strings"
	"time"
)

// Config holds the configuration for creating a client.
type Config struct {
	// APIKey is the account API key. It is sent as the basic-auth username
	// with an empty password.
	APIKey string

	// BaseURL is the API root. Defaults to the production endpoint.
	BaseURL string

	// XSystem identifies the integrating system (X-System header).
	XSystem string

	// XSystemKey is the registered system key (X-System-Key header).
	XSystemKey string

	// CustomHeaders are added to every request. Protected headers
	// (Authorization, Content-Length) are ignored.
	CustomHeaders map[string]string

	// UserAgent overrides the default User-Agent.
	UserAgent string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// MaxRetries bounds automatic retries of auth-classified failures.
	MaxRetries int

	// BackoffFactor scales the exponential backoff between auth retries.
	BackoffFactor float64

	// TransportRetryMax enables transport-level retry of 429/5xx responses
	// when greater than zero. Off by default so rate-limit errors surface
	// to the caller immediately.
	TransportRetryMax int

	// RetryWaitMin and RetryWaitMax bound the transport retry backoff.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// PoolSize sets the connection pool size.
	PoolSize int

	// MinRequestInterval is the minimum spacing between requests. Defaults
	// to 100ms (10 requests per second).
	MinRequestInterval time.Duration

	// Logger receives structured log output. Nil disables logging.
	Logger Logger

	// Debug enables request/response logging interceptors.
	Debug bool
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c == nil || c.APIKey == "" {
		return ErrAPIKeyRequired
	}

	return nil
}

// protectedHeaders cannot be overridden through CustomHeaders.
var protectedHeaders = map[string]struct{}{
	"authorization":  {},
	"content-length": {},
}

// IsProtectedHeader reports whether a header name is managed by the client
// and must not be overridden by callers.
func IsProtectedHeader(name string) bool {
	_, ok := protectedHeaders[strings.ToLower(name)]

	return ok
}

// Client is the top-level API client interface.
type Client interface {
	People() PeopleClient
	Deals() DealsClient
	Notes() NotesClient
	Calls() CallsClient
	Tasks() TasksClient
	Events() EventsClient
	Ponds() PondsClient
	Identity() IdentityClient
	Webhooks() WebhooksClient

	// Stats returns session counters since creation or the last
	// reinitialization.
	Stats() SessionStats

	// Close releases the underlying connection pool. The client is unusable
	// afterwards.
	Close() error
}

// ListOptions configures a complete-extraction call.
type ListOptions struct {
	// Params are the list parameters for the first request.
	Params *QueryParams

	// MaxWorkers bounds parallel page fetching for concurrent extraction.
	MaxWorkers int
}

// PeopleClient manages people (contacts).
type PeopleClient interface {
	List(ctx context.Context, params *QueryParams) (Page, error)
	ListAll(ctx context.Context, params *QueryParams) ([]Item, error)
	ListAllConcurrent(ctx context.Context, opts ListOptions) ([]Item, error)
	ListByPond(ctx context.Context, pondID int, params *QueryParams) ([]Item, error)
	VerifyPondExtraction(ctx context.Context, pondID, expectedCount int) (*VerificationReport, error)
	Get(ctx context.Context, personID int) (Item, error)
	Create(ctx context.Context, person map[string]interface{}) (Item, error)
	Update(ctx context.Context, personID int, updates map[string]interface{}) (Item, error)
	Delete(ctx context.Context, personID int) error
	UploadAttachment(ctx context.Context, personID int, filename string, data []byte) (Item, error)
}

// DealsClient manages deals.
type DealsClient interface {
	List(ctx context.Context, params *QueryParams) (Page, error)
	ListAll(ctx context.Context, params *QueryParams) ([]Item, error)
	Get(ctx context.Context, dealID int) (Item, error)
	Create(ctx context.Context, deal map[string]interface{}) (Item, error)
	Update(ctx context.Context, dealID int, updates map[string]interface{}) (Item, error)
	Delete(ctx context.Context, dealID int) error
}

// NotesClient manages notes.
type NotesClient interface {
	List(ctx context.Context, params *QueryParams) (Page, error)
	ListAll(ctx context.Context, params *QueryParams) ([]Item, error)
	Get(ctx context.Context, noteID int) (Item, error)
	Create(ctx context.Context, note map[string]interface{}) (Item, error)
	Update(ctx context.Context, noteID int, updates map[string]interface{}) (Item, error)
	Delete(ctx context.Context, noteID int) error
}

// CallsClient manages call records.
type CallsClient interface {
	List(ctx context.Context, params *QueryParams) (Page, error)
	ListAll(ctx context.Context, params *QueryParams) ([]Item, error)
	Get(ctx context.Context, callID int) (Item, error)
	Create(ctx context.Context, call map[string]interface{}) (Item, error)
}

// TasksClient manages tasks.
type TasksClient interface {
	List(ctx context.Context, params *QueryParams) (Page, error)
	ListAll(ctx context.Context, params *QueryParams) ([]Item, error)
	Get(ctx context.Context, taskID int) (Item, error)
	Create(ctx context.Context, task map[string]interface{}) (Item, error)
	Update(ctx context.Context, taskID int, updates map[string]interface{}) (Item, error)
	Delete(ctx context.Context, taskID int) error
}

// EventsClient manages lead events.
type EventsClient interface {
	List(ctx context.Context, params *QueryParams) (Page, error)
	ListAll(ctx context.Context, params *QueryParams) ([]Item, error)
	Get(ctx context.Context, eventID int) (Item, error)
	Create(ctx context.Context, event map[string]interface{}) (Item, error)
}

// PondsClient manages ponds (shared lead pools).
type PondsClient interface {
	List(ctx context.Context, params *QueryParams) (Page, error)
	ListAll(ctx context.Context, params *QueryParams) ([]Item, error)
	Get(ctx context.Context, pondID int) (Item, error)
}

// IdentityClient reads account identity.
type IdentityClient interface {
	Me(ctx context.Context) (Item, error)
}

// WebhooksClient manages webhook registrations.
type WebhooksClient interface {
	List(ctx context.Context, params *QueryParams) (Page, error)
	Get(ctx context.Context, webhookID int) (Item, error)
	Create(ctx context.Context, webhook map[string]interface{}) (Item, error)
	Update(ctx context.Context, webhookID int, updates map[string]interface{}) (Item, error)
	Delete(ctx context.Context, webhookID int) error
}
