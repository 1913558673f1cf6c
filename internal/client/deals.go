package client

import (
	"context"
	"fmt"

	"github.com/realworks-io/fub-client/internal/http"
	"github.com/realworks-io/fub-client/pkg/fub"
)

// DealsClient implements fub.DealsClient.
type DealsClient struct {
	httpClient *http.Client
	logger     fub.Logger
}

// NewDealsClient creates a new deals client.
func NewDealsClient(httpClient *http.Client, logger fub.Logger) *DealsClient {
	if logger == nil {
		logger = fub.NoopLogger{}
	}

	return &DealsClient{httpClient: httpClient, logger: logger}
}

// List implements fub.DealsClient.List.
func (c *DealsClient) List(ctx context.Context, params *fub.QueryParams) (fub.Page, error) {
	return listPage(ctx, c.httpClient, "deals", params)
}

// ListAll implements fub.DealsClient.ListAll.
func (c *DealsClient) ListAll(ctx context.Context, params *fub.QueryParams) ([]fub.Item, error) {
	return listAll(ctx, c.httpClient, "deals", params, c.logger)
}

// Get implements fub.DealsClient.Get.
func (c *DealsClient) Get(ctx context.Context, dealID int) (fub.Item, error) {
	item, err := c.httpClient.GetItem(ctx, fmt.Sprintf("deals/%d", dealID))
	if err != nil {
		return nil, fmt.Errorf("getting deal %d: %w", dealID, err)
	}

	return item, nil
}

// Create implements fub.DealsClient.Create. Commission fields must be
// top-level parameters; validation failures carry guidance in the error
// message.
func (c *DealsClient) Create(ctx context.Context, deal map[string]interface{}) (fub.Item, error) {
	item, err := c.httpClient.PostItem(ctx, "deals", deal)
	if err != nil {
		return nil, fmt.Errorf("creating deal: %w", err)
	}

	return item, nil
}

// Update implements fub.DealsClient.Update.
func (c *DealsClient) Update(ctx context.Context, dealID int, updates map[string]interface{}) (fub.Item, error) {
	item, err := c.httpClient.PutItem(ctx, fmt.Sprintf("deals/%d", dealID), updates)
	if err != nil {
		return nil, fmt.Errorf("updating deal %d: %w", dealID, err)
	}

	return item, nil
}

// Delete implements fub.DealsClient.Delete.
func (c *DealsClient) Delete(ctx context.Context, dealID int) error {
	if err := c.httpClient.Delete(ctx, fmt.Sprintf("deals/%d", dealID)); err != nil {
		return fmt.Errorf("deleting deal %d: %w", dealID, err)
	}

	return nil
}
