package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realworks-io/fub-client/internal/client"
	"github.com/realworks-io/fub-client/pkg/fub"
)

func newTestClient(t *testing.T, handler http.Handler) *client.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	apiClient, err := client.New(&fub.Config{
		APIKey:             "test-key",
		BaseURL:            server.URL,
		MinRequestInterval: time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = apiClient.Close() })

	return apiClient
}

func writePeople(writer http.ResponseWriter, from, to int) {
	people := make([]interface{}, 0, to-from)
	for id := from; id < to; id++ {
		people = append(people, map[string]interface{}{
			"id":   id,
			"name": fmt.Sprintf("Person %d", id),
		})
	}

	_ = json.NewEncoder(writer).Encode(map[string]interface{}{"people": people})
}

func TestPeopleClient_ListAll(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "/people", request.URL.Path)

		offset, _ := strconv.Atoi(request.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(request.URL.Query().Get("limit"))

		end := offset + limit
		if end > 150 {
			end = 150
		}

		writePeople(writer, offset, end)
	}))

	people, err := apiClient.People().ListAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, people, 150)

	stats := apiClient.Stats()
	assert.Equal(t, int64(2), stats.RequestCount)
	assert.Equal(t, int64(0), stats.ErrorCount)
}

func TestPeopleClient_CRUD(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/people/42", func(writer http.ResponseWriter, request *http.Request) {
		switch request.Method {
		case http.MethodGet:
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{"id": 42, "name": "Jane Doe"})
		case http.MethodPut:
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{"id": 42, "name": "Jane Smith"})
		case http.MethodDelete:
			writer.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(writer, request)
		}
	})
	mux.HandleFunc("/people", func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodPost {
			http.NotFound(writer, request)

			return
		}

		var body map[string]interface{}

		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, "Jane Doe", body["name"])

		writer.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"id": 42, "name": "Jane Doe"})
	})

	apiClient := newTestClient(t, mux)
	ctx := context.Background()

	created, err := apiClient.People().Create(ctx, map[string]interface{}{"name": "Jane Doe"})
	require.NoError(t, err)

	id, ok := created.ID()
	require.True(t, ok)
	assert.Equal(t, "42", id)

	fetched, err := apiClient.People().Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", fetched["name"])

	updated, err := apiClient.People().Update(ctx, 42, map[string]interface{}{"name": "Jane Smith"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", updated["name"])

	require.NoError(t, apiClient.People().Delete(ctx, 42))
}

func TestPeopleClient_GetNotFound(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"title": "Person not found"})
	}))

	_, err := apiClient.People().Get(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, fub.IsNotFound(err))
}

func TestPeopleClient_ListByPond(t *testing.T) {
	t.Parallel()

	member := map[string]interface{}{
		"id":    1,
		"ponds": []interface{}{map[string]interface{}{"id": 134}},
	}

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "/people", request.URL.Path)

		if request.URL.Query().Get("pond") == "134" {
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{"people": []interface{}{member}})

			return
		}

		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"people": []interface{}{}})
	}))

	people, err := apiClient.People().ListByPond(context.Background(), 134, nil)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.True(t, fub.ItemInPond(people[0], 134))
}

func TestPondsClient_ListAll(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "/ponds", request.URL.Path)
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"ponds": []interface{}{
				map[string]interface{}{"id": 134, "name": "Nurture"},
				map[string]interface{}{"id": 135, "name": "Archive"},
			},
		})
	}))

	ponds, err := apiClient.Ponds().ListAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, ponds, 2)
}

func TestIdentityClient_Me(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "/me", request.URL.Path)
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"id": 1, "name": "Test Account"})
	}))

	identity, err := apiClient.Identity().Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Test Account", identity["name"])
}

func TestDealsClient_CreateValidationGuidance(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"title": "stageId is required"})
	}))

	_, err := apiClient.Deals().Create(context.Background(), map[string]interface{}{"name": "New Deal"})
	require.Error(t, err)
	assert.True(t, fub.IsValidation(err))
	assert.Contains(t, err.Error(), "DEAL CREATION GUIDANCE")
}

func TestWebhooksClient_Update(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/webhooks/9", func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodPut {
			http.NotFound(writer, request)

			return
		}

		var body map[string]interface{}

		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, "https://example.com/hooks/fub", body["url"])

		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"id":    9,
			"event": "peopleCreated",
			"url":   "https://example.com/hooks/fub",
		})
	})

	apiClient := newTestClient(t, mux)

	updated, err := apiClient.Webhooks().Update(context.Background(), 9, map[string]interface{}{
		"url": "https://example.com/hooks/fub",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/hooks/fub", updated["url"])
}
