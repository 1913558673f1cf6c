package client

import (
	"context"
	"fmt"

	"github.com/realworks-io/fub-client/internal/http"
	"github.com/realworks-io/fub-client/pkg/fub"
)

// PeopleClient implements fub.PeopleClient.
type PeopleClient struct {
	httpClient *http.Client
	logger     fub.Logger
}

// NewPeopleClient creates a new people client.
func NewPeopleClient(httpClient *http.Client, logger fub.Logger) *PeopleClient {
	if logger == nil {
		logger = fub.NoopLogger{}
	}

	return &PeopleClient{httpClient: httpClient, logger: logger}
}

// List implements fub.PeopleClient.List.
func (c *PeopleClient) List(ctx context.Context, params *fub.QueryParams) (fub.Page, error) {
	return listPage(ctx, c.httpClient, "people", params)
}

// ListAll implements fub.PeopleClient.ListAll.
func (c *PeopleClient) ListAll(ctx context.Context, params *fub.QueryParams) ([]fub.Item, error) {
	return listAll(ctx, c.httpClient, "people", params, c.logger)
}

// ListAllConcurrent implements fub.PeopleClient.ListAllConcurrent.
func (c *PeopleClient) ListAllConcurrent(ctx context.Context, opts fub.ListOptions) ([]fub.Item, error) {
	paginator := fub.NewSmartPaginator(c.httpClient, "people", queryValues(opts.Params), fub.WithPaginatorLogger(c.logger))

	items, err := paginator.PaginateConcurrent(ctx, opts.MaxWorkers)
	if err != nil {
		return nil, fmt.Errorf("extracting people concurrently: %w", err)
	}

	return items, nil
}

// ListByPond implements fub.PeopleClient.ListByPond.
func (c *PeopleClient) ListByPond(ctx context.Context, pondID int, params *fub.QueryParams) ([]fub.Item, error) {
	paginator := fub.NewPondFilterPaginator(c.httpClient, pondID, queryValues(params), fub.WithPondLogger(c.logger))

	items, err := paginator.PaginateAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("extracting people for pond %d: %w", pondID, err)
	}

	return items, nil
}

// VerifyPondExtraction implements fub.PeopleClient.VerifyPondExtraction.
func (c *PeopleClient) VerifyPondExtraction(ctx context.Context, pondID, expectedCount int) (*fub.VerificationReport, error) {
	paginator := fub.NewPondFilterPaginator(c.httpClient, pondID, nil, fub.WithPondLogger(c.logger))

	report, err := paginator.Verify(ctx, expectedCount)
	if err != nil {
		return nil, fmt.Errorf("verifying pond %d extraction: %w", pondID, err)
	}

	return report, nil
}

// Get implements fub.PeopleClient.Get.
func (c *PeopleClient) Get(ctx context.Context, personID int) (fub.Item, error) {
	item, err := c.httpClient.GetItem(ctx, fmt.Sprintf("people/%d", personID))
	if err != nil {
		return nil, fmt.Errorf("getting person %d: %w", personID, err)
	}

	return item, nil
}

// Create implements fub.PeopleClient.Create.
func (c *PeopleClient) Create(ctx context.Context, person map[string]interface{}) (fub.Item, error) {
	item, err := c.httpClient.PostItem(ctx, "people", person)
	if err != nil {
		return nil, fmt.Errorf("creating person: %w", err)
	}

	return item, nil
}

// Update implements fub.PeopleClient.Update.
func (c *PeopleClient) Update(ctx context.Context, personID int, updates map[string]interface{}) (fub.Item, error) {
	item, err := c.httpClient.PutItem(ctx, fmt.Sprintf("people/%d", personID), updates)
	if err != nil {
		return nil, fmt.Errorf("updating person %d: %w", personID, err)
	}

	return item, nil
}

// Delete implements fub.PeopleClient.Delete.
func (c *PeopleClient) Delete(ctx context.Context, personID int) error {
	if err := c.httpClient.Delete(ctx, fmt.Sprintf("people/%d", personID)); err != nil {
		return fmt.Errorf("deleting person %d: %w", personID, err)
	}

	return nil
}

// UploadAttachment implements fub.PeopleClient.UploadAttachment.
func (c *PeopleClient) UploadAttachment(ctx context.Context, personID int, filename string, data []byte) (fub.Item, error) {
	item, err := c.httpClient.PostFile(ctx, fmt.Sprintf("personAttachments?personId=%d", personID), []http.File{
		{FieldName: "file", FileName: filename, Data: data},
	})
	if err != nil {
		return nil, fmt.Errorf("uploading attachment for person %d: %w", personID, err)
	}

	return item, nil
}
