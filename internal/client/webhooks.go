package client

import (
	"context"
	"fmt"

	"github.com/realworks-io/fub-client/internal/http"
	"github.com/realworks-io/fub-client/pkg/fub"
)

// WebhooksClient implements fub.WebhooksClient.
type WebhooksClient struct {
	httpClient *http.Client
}

// NewWebhooksClient creates a new webhooks client.
func NewWebhooksClient(httpClient *http.Client) *WebhooksClient {
	return &WebhooksClient{httpClient: httpClient}
}

// List implements fub.WebhooksClient.List.
func (c *WebhooksClient) List(ctx context.Context, params *fub.QueryParams) (fub.Page, error) {
	return listPage(ctx, c.httpClient, "webhooks", params)
}

// Get implements fub.WebhooksClient.Get.
func (c *WebhooksClient) Get(ctx context.Context, webhookID int) (fub.Item, error) {
	item, err := c.httpClient.GetItem(ctx, fmt.Sprintf("webhooks/%d", webhookID))
	if err != nil {
		return nil, fmt.Errorf("getting webhook %d: %w", webhookID, err)
	}

	return item, nil
}

// Create implements fub.WebhooksClient.Create.
func (c *WebhooksClient) Create(ctx context.Context, webhook map[string]interface{}) (fub.Item, error) {
	item, err := c.httpClient.PostItem(ctx, "webhooks", webhook)
	if err != nil {
		return nil, fmt.Errorf("creating webhook: %w", err)
	}

	return item, nil
}

// Update implements fub.WebhooksClient.Update.
func (c *WebhooksClient) Update(ctx context.Context, webhookID int, updates map[string]interface{}) (fub.Item, error) {
	item, err := c.httpClient.PutItem(ctx, fmt.Sprintf("webhooks/%d", webhookID), updates)
	if err != nil {
		return nil, fmt.Errorf("updating webhook %d: %w", webhookID, err)
	}

	return item, nil
}

// Delete implements fub.WebhooksClient.Delete.
func (c *WebhooksClient) Delete(ctx context.Context, webhookID int) error {
	if err := c.httpClient.Delete(ctx, fmt.Sprintf("webhooks/%d", webhookID)); err != nil {
		return fmt.Errorf("deleting webhook %d: %w", webhookID, err)
	}

	return nil
}
