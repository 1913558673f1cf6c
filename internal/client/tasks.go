package client

import (
	"context"
	"fmt"

	"github.com/realworks-io/fub-client/internal/http"
	"github.com/realworks-io/fub-client/pkg/fub"
)

// TasksClient implements fub.TasksClient.
type TasksClient struct {
	httpClient *http.Client
}

// NewTasksClient creates a new tasks client.
func NewTasksClient(httpClient *http.Client) *TasksClient {
	return &TasksClient{httpClient: httpClient}
}

// List implements fub.TasksClient.List.
func (c *TasksClient) List(ctx context.Context, params *fub.QueryParams) (fub.Page, error) {
	return listPage(ctx, c.httpClient, "tasks", params)
}

// ListAll implements fub.TasksClient.ListAll.
func (c *TasksClient) ListAll(ctx context.Context, params *fub.QueryParams) ([]fub.Item, error) {
	return listAll(ctx, c.httpClient, "tasks", params, nil)
}

// Get implements fub.TasksClient.Get.
func (c *TasksClient) Get(ctx context.Context, taskID int) (fub.Item, error) {
	item, err := c.httpClient.GetItem(ctx, fmt.Sprintf("tasks/%d", taskID))
	if err != nil {
		return nil, fmt.Errorf("getting task %d: %w", taskID, err)
	}

	return item, nil
}

// Create implements fub.TasksClient.Create.
func (c *TasksClient) Create(ctx context.Context, task map[string]interface{}) (fub.Item, error) {
	item, err := c.httpClient.PostItem(ctx, "tasks", task)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	return item, nil
}

// Update implements fub.TasksClient.Update.
func (c *TasksClient) Update(ctx context.Context, taskID int, updates map[string]interface{}) (fub.Item, error) {
	item, err := c.httpClient.PutItem(ctx, fmt.Sprintf("tasks/%d", taskID), updates)
	if err != nil {
		return nil, fmt.Errorf("updating task %d: %w", taskID, err)
	}

	return item, nil
}

// Delete implements fub.TasksClient.Delete.
func (c *TasksClient) Delete(ctx context.Context, taskID int) error {
	if err := c.httpClient.Delete(ctx, fmt.Sprintf("tasks/%d", taskID)); err != nil {
		return fmt.Errorf("deleting task %d: %w", taskID, err)
	}

	return nil
}
