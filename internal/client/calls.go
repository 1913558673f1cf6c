package client

import (
	"context"
	"fmt"

	"github.com/realworks-io/fub-client/internal/http"
	"github.com/realworks-io/fub-client/pkg/fub"
)

// CallsClient implements fub.CallsClient.
type CallsClient struct {
	httpClient *http.Client
}

// NewCallsClient creates a new calls client.
func NewCallsClient(httpClient *http.Client) *CallsClient {
	return &CallsClient{httpClient: httpClient}
}

// List implements fub.CallsClient.List.
func (c *CallsClient) List(ctx context.Context, params *fub.QueryParams) (fub.Page, error) {
	return listPage(ctx, c.httpClient, "calls", params)
}

// ListAll implements fub.CallsClient.ListAll.
func (c *CallsClient) ListAll(ctx context.Context, params *fub.QueryParams) ([]fub.Item, error) {
	return listAll(ctx, c.httpClient, "calls", params, nil)
}

// Get implements fub.CallsClient.Get.
func (c *CallsClient) Get(ctx context.Context, callID int) (fub.Item, error) {
	item, err := c.httpClient.GetItem(ctx, fmt.Sprintf("calls/%d", callID))
	if err != nil {
		return nil, fmt.Errorf("getting call %d: %w", callID, err)
	}

	return item, nil
}

// Create implements fub.CallsClient.Create.
func (c *CallsClient) Create(ctx context.Context, call map[string]interface{}) (fub.Item, error) {
	item, err := c.httpClient.PostItem(ctx, "calls", call)
	if err != nil {
		return nil, fmt.Errorf("creating call: %w", err)
	}

	return item, nil
}
