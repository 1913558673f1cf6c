package fub_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realworks-io/fub-client/pkg/fub"
)

func TestKindForStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		expected   fub.ErrorKind
	}{
		{"unauthorized", 401, fub.KindAuth},
		{"forbidden", 403, fub.KindAuth},
		{"not found", 404, fub.KindNotFound},
		{"rate limited", 429, fub.KindRateLimit},
		{"bad request", 400, fub.KindValidation},
		{"unprocessable", 422, fub.KindValidation},
		{"internal error", 500, fub.KindServer},
		{"bad gateway", 502, fub.KindServer},
		{"no status", 0, fub.KindGeneric},
		{"teapot", 418, fub.KindGeneric},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, fub.KindForStatus(tt.statusCode))
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	err := fub.Classify(404, "Person not found", nil)
	assert.Equal(t, "fub: [status 404] Person not found", err.Error())

	err = fub.Classify(0, "connection refused", nil)
	assert.Equal(t, "fub: connection refused", err.Error())
}

func TestIsAuthError(t *testing.T) {
	t.Parallel()

	t.Run("classified auth error", func(t *testing.T) {
		t.Parallel()

		err := fub.Classify(401, "Invalid credentials", nil)
		assert.True(t, fub.IsAuthError(err))
	})

	t.Run("wrapped auth error", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("fetching page: %w", fub.Classify(403, "Forbidden", nil))
		assert.True(t, fub.IsAuthError(err))
	})

	t.Run("message indicator without status", func(t *testing.T) {
		t.Parallel()

		assert.True(t, fub.IsAuthError(errors.New("access token has expired")))
		assert.True(t, fub.IsAuthError(errors.New("request failed: Authentication Failed")))
	})

	t.Run("unrelated errors", func(t *testing.T) {
		t.Parallel()

		assert.False(t, fub.IsAuthError(nil))
		assert.False(t, fub.IsAuthError(errors.New("connection reset")))
		assert.False(t, fub.IsAuthError(fub.Classify(500, "Internal Server Error", nil)))
	})
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, fub.IsNotFound(fub.Classify(404, "missing", nil)))
	assert.True(t, fub.IsRateLimited(fub.Classify(429, "slow down", nil)))
	assert.True(t, fub.IsValidation(fub.Classify(422, "bad field", nil)))
	assert.True(t, fub.IsServerError(fub.Classify(503, "unavailable", nil)))

	wrapped := fmt.Errorf("listing people: %w", fub.Classify(429, "slow down", nil))
	assert.True(t, fub.IsRateLimited(wrapped))
	assert.False(t, fub.IsNotFound(wrapped))
}

func TestIsDeepPaginationDisabled(t *testing.T) {
	t.Parallel()

	err := fub.Classify(400, "Deep pagination disabled, use nextLink instead", nil)
	assert.True(t, fub.IsDeepPaginationDisabled(err))
	assert.False(t, fub.IsDeepPaginationDisabled(fub.Classify(400, "invalid field", nil)))
	assert.False(t, fub.IsDeepPaginationDisabled(nil))
}

func TestClassify_PreservesResponseData(t *testing.T) {
	t.Parallel()

	data := map[string]interface{}{"title": "Invalid field", "errors": []interface{}{}}
	err := fub.Classify(400, "Invalid field", data)

	apiErr := &fub.APIError{}
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &apiErr)
	assert.Equal(t, data, apiErr.ResponseData)
	assert.Equal(t, fub.KindValidation, apiErr.Kind)
}
