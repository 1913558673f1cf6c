package client

import (
	"context"
	"fmt"

	"github.com/realworks-io/fub-client/internal/http"
	"github.com/realworks-io/fub-client/pkg/fub"
)

// IdentityClient implements fub.IdentityClient.
type IdentityClient struct {
	httpClient *http.Client
}

// NewIdentityClient creates a new identity client.
func NewIdentityClient(httpClient *http.Client) *IdentityClient {
	return &IdentityClient{httpClient: httpClient}
}

// Me implements fub.IdentityClient.Me.
func (c *IdentityClient) Me(ctx context.Context) (fub.Item, error) {
	item, err := c.httpClient.GetItem(ctx, "me")
	if err != nil {
		return nil, fmt.Errorf("getting identity: %w", err)
	}

	return item, nil
}
