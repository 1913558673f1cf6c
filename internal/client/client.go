// Package client implements the fub.Client interface over the HTTP
// transport.
package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/realworks-io/fub-client/internal/http"
	"github.com/realworks-io/fub-client/pkg/fub"
)

// Client implements the fub.Client interface.
type Client struct {
	httpClient *http.Client
	logger     fub.Logger

	// Resource clients
	people   fub.PeopleClient
	deals    fub.DealsClient
	notes    fub.NotesClient
	calls    fub.CallsClient
	tasks    fub.TasksClient
	events   fub.EventsClient
	ponds    fub.PondsClient
	identity fub.IdentityClient
	webhooks fub.WebhooksClient
}

// New creates a client from the configuration.
func New(config *fub.Config) (*Client, error) {
	httpClient, err := http.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = fub.NoopLogger{}
	}

	client := &Client{
		httpClient: httpClient,
		logger:     logger,
	}

	client.people = NewPeopleClient(httpClient, logger)
	client.deals = NewDealsClient(httpClient, logger)
	client.notes = NewNotesClient(httpClient)
	client.calls = NewCallsClient(httpClient)
	client.tasks = NewTasksClient(httpClient)
	client.events = NewEventsClient(httpClient, logger)
	client.ponds = NewPondsClient(httpClient)
	client.identity = NewIdentityClient(httpClient)
	client.webhooks = NewWebhooksClient(httpClient)

	return client, nil
}

// People implements fub.Client.People.
func (c *Client) People() fub.PeopleClient { return c.people }

// Deals implements fub.Client.Deals.
func (c *Client) Deals() fub.DealsClient { return c.deals }

// Notes implements fub.Client.Notes.
func (c *Client) Notes() fub.NotesClient { return c.notes }

// Calls implements fub.Client.Calls.
func (c *Client) Calls() fub.CallsClient { return c.calls }

// Tasks implements fub.Client.Tasks.
func (c *Client) Tasks() fub.TasksClient { return c.tasks }

// Events implements fub.Client.Events.
func (c *Client) Events() fub.EventsClient { return c.events }

// Ponds implements fub.Client.Ponds.
func (c *Client) Ponds() fub.PondsClient { return c.ponds }

// Identity implements fub.Client.Identity.
func (c *Client) Identity() fub.IdentityClient { return c.identity }

// Webhooks implements fub.Client.Webhooks.
func (c *Client) Webhooks() fub.WebhooksClient { return c.webhooks }

// Stats implements fub.Client.Stats.
func (c *Client) Stats() fub.SessionStats {
	return c.httpClient.Session().Stats()
}

// Close implements fub.Client.Close.
func (c *Client) Close() error {
	return c.httpClient.Session().Close()
}

// queryValues encodes optional query parameters.
func queryValues(params *fub.QueryParams) url.Values {
	if params == nil {
		return url.Values{}
	}

	return params.ToValues()
}

// listPage fetches a single page for an endpoint.
func listPage(ctx context.Context, httpClient *http.Client, endpoint string, params *fub.QueryParams) (fub.Page, error) {
	page, err := httpClient.GetPage(ctx, endpoint, queryValues(params))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", endpoint, err)
	}

	return page, nil
}

// listAll extracts the complete result set for an endpoint through the
// strategy-driven paginator.
func listAll(ctx context.Context, httpClient *http.Client, endpoint string, params *fub.QueryParams, logger fub.Logger) ([]fub.Item, error) {
	if logger == nil {
		logger = fub.NoopLogger{}
	}

	paginator := fub.NewSmartPaginator(httpClient, endpoint, queryValues(params), fub.WithPaginatorLogger(logger))

	items, err := paginator.PaginateAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("extracting all %s: %w", endpoint, err)
	}

	return items, nil
}
