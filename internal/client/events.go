package client

import (
	"context"
	"fmt"

	"github.com/realworks-io/fub-client/internal/http"
	"github.com/realworks-io/fub-client/pkg/fub"
)

// EventsClient implements fub.EventsClient. Events are the highest-volume
// collection, so ListAll routinely exercises the dateRange strategy.
type EventsClient struct {
	httpClient *http.Client
	logger     fub.Logger
}

// NewEventsClient creates a new events client.
func NewEventsClient(httpClient *http.Client, logger fub.Logger) *EventsClient {
	if logger == nil {
		logger = fub.NoopLogger{}
	}

	return &EventsClient{httpClient: httpClient, logger: logger}
}

// List implements fub.EventsClient.List.
func (c *EventsClient) List(ctx context.Context, params *fub.QueryParams) (fub.Page, error) {
	return listPage(ctx, c.httpClient, "events", params)
}

// ListAll implements fub.EventsClient.ListAll.
func (c *EventsClient) ListAll(ctx context.Context, params *fub.QueryParams) ([]fub.Item, error) {
	return listAll(ctx, c.httpClient, "events", params, c.logger)
}

// Get implements fub.EventsClient.Get.
func (c *EventsClient) Get(ctx context.Context, eventID int) (fub.Item, error) {
	item, err := c.httpClient.GetItem(ctx, fmt.Sprintf("events/%d", eventID))
	if err != nil {
		return nil, fmt.Errorf("getting event %d: %w", eventID, err)
	}

	return item, nil
}

// Create implements fub.EventsClient.Create.
func (c *EventsClient) Create(ctx context.Context, event map[string]interface{}) (fub.Item, error) {
	item, err := c.httpClient.PostItem(ctx, "events", event)
	if err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}

	return item, nil
}
