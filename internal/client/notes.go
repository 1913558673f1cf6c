package client

import (
	"context"
	"fmt"

	"github.com/realworks-io/fub-client/internal/http"
	"github.com/realworks-io/fub-client/pkg/fub"
)

// NotesClient implements fub.NotesClient.
type NotesClient struct {
	httpClient *http.Client
}

// NewNotesClient creates a new notes client.
func NewNotesClient(httpClient *http.Client) *NotesClient {
	return &NotesClient{httpClient: httpClient}
}

// List implements fub.NotesClient.List.
func (c *NotesClient) List(ctx context.Context, params *fub.QueryParams) (fub.Page, error) {
	return listPage(ctx, c.httpClient, "notes", params)
}

// ListAll implements fub.NotesClient.ListAll.
func (c *NotesClient) ListAll(ctx context.Context, params *fub.QueryParams) ([]fub.Item, error) {
	return listAll(ctx, c.httpClient, "notes", params, nil)
}

// Get implements fub.NotesClient.Get.
func (c *NotesClient) Get(ctx context.Context, noteID int) (fub.Item, error) {
	item, err := c.httpClient.GetItem(ctx, fmt.Sprintf("notes/%d", noteID))
	if err != nil {
		return nil, fmt.Errorf("getting note %d: %w", noteID, err)
	}

	return item, nil
}

// Create implements fub.NotesClient.Create.
func (c *NotesClient) Create(ctx context.Context, note map[string]interface{}) (fub.Item, error) {
	item, err := c.httpClient.PostItem(ctx, "notes", note)
	if err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}

	return item, nil
}

// Update implements fub.NotesClient.Update.
func (c *NotesClient) Update(ctx context.Context, noteID int, updates map[string]interface{}) (fub.Item, error) {
	item, err := c.httpClient.PutItem(ctx, fmt.Sprintf("notes/%d", noteID), updates)
	if err != nil {
		return nil, fmt.Errorf("updating note %d: %w", noteID, err)
	}

	return item, nil
}

// Delete implements fub.NotesClient.Delete.
func (c *NotesClient) Delete(ctx context.Context, noteID int) error {
	if err := c.httpClient.Delete(ctx, fmt.Sprintf("notes/%d", noteID)); err != nil {
		return fmt.Errorf("deleting note %d: %w", noteID, err)
	}

	return nil
}
