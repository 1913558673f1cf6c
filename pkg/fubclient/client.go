// Package fubclient provides the main entry point for creating Follow Up
// Boss API clients.
package fubclient

import (
	"fmt"
	"strings"

	"github.com/realworks-io/fub-client/internal/client"
	"github.com/realworks-io/fub-client/pkg/fub"
)

// New creates a new API client from the configuration. The API key is the
// only required field; everything else falls back to sensible defaults.
func New(config *fub.Config) (fub.Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.BaseURL != "" {
		baseURL := strings.TrimSuffix(config.BaseURL, "/")
		if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
			baseURL = "https://" + baseURL
		}

		config.BaseURL = baseURL
	}

	apiClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}
