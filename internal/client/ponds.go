package client

import (
	"context"
	"fmt"

	"github.com/realworks-io/fub-client/internal/http"
	"github.com/realworks-io/fub-client/pkg/fub"
)

// PondsClient implements fub.PondsClient.
type PondsClient struct {
	httpClient *http.Client
}

// NewPondsClient creates a new ponds client.
func NewPondsClient(httpClient *http.Client) *PondsClient {
	return &PondsClient{httpClient: httpClient}
}

// List implements fub.PondsClient.List.
func (c *PondsClient) List(ctx context.Context, params *fub.QueryParams) (fub.Page, error) {
	return listPage(ctx, c.httpClient, "ponds", params)
}

// ListAll implements fub.PondsClient.ListAll. Ponds are a small collection;
// the offset strategy always completes.
func (c *PondsClient) ListAll(ctx context.Context, params *fub.QueryParams) ([]fub.Item, error) {
	paginator := fub.NewSmartPaginator(c.httpClient, "ponds", queryValues(params), fub.WithItemsKey("ponds"))

	items, err := paginator.PaginateAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("extracting all ponds: %w", err)
	}

	return items, nil
}

// Get implements fub.PondsClient.Get.
func (c *PondsClient) Get(ctx context.Context, pondID int) (fub.Item, error) {
	item, err := c.httpClient.GetItem(ctx, fmt.Sprintf("ponds/%d", pondID))
	if err != nil {
		return nil, fmt.Errorf("getting pond %d: %w", pondID, err)
	}

	return item, nil
}
