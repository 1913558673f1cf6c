package fub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realworks-io/fub-client/pkg/fub"
)

func TestItem_ID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		item     fub.Item
		expected string
		ok       bool
	}{
		{"numeric id", fub.Item{"id": float64(42)}, "42", true},
		{"string id", fub.Item{"id": "abc-123"}, "abc-123", true},
		{"missing id", fub.Item{"name": "x"}, "", false},
		{"empty string id", fub.Item{"id": ""}, "", false},
		{"unsupported type", fub.Item{"id": []interface{}{}}, "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, ok := tt.item.ID()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestPage_Items(t *testing.T) {
	t.Parallel()

	page := fub.Page{
		"people": []interface{}{
			map[string]interface{}{"id": float64(1)},
			map[string]interface{}{"id": float64(2)},
		},
	}

	items := page.Items("people")
	require.Len(t, items, 2)

	id, ok := items[0].ID()
	require.True(t, ok)
	assert.Equal(t, "1", id)

	assert.Nil(t, page.Items("deals"))

	items, key := page.ItemsAny(fub.KnownCollectionKeys)
	assert.Equal(t, "people", key)
	assert.Len(t, items, 2)
}

func TestPage_NextLink(t *testing.T) {
	t.Parallel()

	t.Run("metadata nextLink preferred", func(t *testing.T) {
		t.Parallel()

		page := fub.Page{
			fub.MetadataKey: map[string]interface{}{
				"nextLink": "https://api.example.com/v1/people?next=abc",
				"next":     "def",
			},
		}
		assert.Equal(t, "https://api.example.com/v1/people?next=abc", page.NextLink())
	})

	t.Run("metadata next token", func(t *testing.T) {
		t.Parallel()

		page := fub.Page{
			fub.MetadataKey: map[string]interface{}{"next": "https://api.example.com/v1/people?next=def"},
		}
		assert.Equal(t, "https://api.example.com/v1/people?next=def", page.NextLink())
	})

	t.Run("top-level fallback", func(t *testing.T) {
		t.Parallel()

		page := fub.Page{"nextLink": "https://api.example.com/v1/people?offset=50"}
		assert.Equal(t, "https://api.example.com/v1/people?offset=50", page.NextLink())
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, fub.Page{}.NextLink())
	})
}

func TestPage_TotalCount(t *testing.T) {
	t.Parallel()

	page := fub.Page{fub.MetadataKey: map[string]interface{}{"total": float64(1234)}}

	total, ok := page.TotalCount()
	require.True(t, ok)
	assert.Equal(t, 1234, total)

	_, ok = fub.Page{}.TotalCount()
	assert.False(t, ok)
}

func TestPage_RateLimit(t *testing.T) {
	t.Parallel()

	page := fub.Page{
		fub.RateLimitKey: map[string]interface{}{
			"limit":     "10",
			"remaining": "7",
			"reset":     "3",
		},
	}

	info := page.RateLimit()
	require.NotNil(t, info)
	assert.Equal(t, 10, info.Limit)
	assert.Equal(t, 7, info.Remaining)
	assert.Equal(t, int64(3), info.Reset)

	assert.Nil(t, fub.Page{}.RateLimit())
}
