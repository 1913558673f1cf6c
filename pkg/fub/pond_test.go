package fub

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personInPonds(id int, ponds interface{}) map[string]interface{} {
	person := map[string]interface{}{"id": float64(id)}
	if ponds != nil {
		person["ponds"] = ponds
	}

	return person
}

func TestItemInPond(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ponds    interface{}
		pondID   int
		expected bool
	}{
		{"list of objects match", []interface{}{map[string]interface{}{"id": float64(134), "name": "Nurture"}}, 134, true},
		{"list of objects no match", []interface{}{map[string]interface{}{"id": float64(135)}}, 134, false},
		{"list of bare ids match", []interface{}{float64(134)}, 134, true},
		{"list of bare ids no match", []interface{}{float64(135)}, 134, false},
		{"list of string ids match", []interface{}{"134"}, 134, true},
		{"single object match", map[string]interface{}{"id": float64(134)}, 134, true},
		{"single object no match", map[string]interface{}{"id": float64(7)}, 134, false},
		{"empty object", map[string]interface{}{}, 134, false},
		{"empty list", []interface{}{}, 134, false},
		{"nil ponds", nil, 134, false},
		{"scalar id match", float64(134), 134, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			item := Item(personInPonds(1, tt.ponds))
			assert.Equal(t, tt.expected, ItemInPond(item, tt.pondID))
		})
	}

	t.Run("missing ponds field", func(t *testing.T) {
		t.Parallel()
		assert.False(t, ItemInPond(Item{"id": float64(1)}, 134))
	})
}

// pondSource simulates the people endpoint: the full collection has members
// of several ponds, and the server-side pond filter can be scripted to lie.
func pondSource(filtered func() ([]interface{}, error), all []interface{}) *scriptedSource {
	source := &scriptedSource{}
	source.handler = func(params url.Values) (Page, error) {
		if params.Get("pond") != "" {
			people, err := filtered()
			if err != nil {
				return nil, err
			}

			return Page{"people": people}, nil
		}

		offset := intParam(params, "offset", 0)
		limit := intParam(params, "limit", 100)

		end := offset + limit
		if end > len(all) {
			end = len(all)
		}

		if offset > len(all) {
			offset = len(all)
		}

		return Page{"people": append([]interface{}{}, all[offset:end]...)}, nil
	}

	return source
}

func TestPondFilterPaginator_VerifiedServerFilter(t *testing.T) {
	t.Parallel()

	members := []interface{}{
		personInPonds(1, []interface{}{map[string]interface{}{"id": float64(134)}}),
		personInPonds(2, []interface{}{map[string]interface{}{"id": float64(134)}}),
	}

	source := pondSource(func() ([]interface{}, error) { return members, nil }, members)
	paginator := NewPondFilterPaginator(source, 134, nil)

	items, err := paginator.PaginateAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestPondFilterPaginator_FallsBackOnWrongResults(t *testing.T) {
	t.Parallel()

	// The server filter returns people from the wrong pond; local filtering
	// of the full collection must take over.
	wrongPond := []interface{}{
		personInPonds(10, []interface{}{map[string]interface{}{"id": float64(999)}}),
		personInPonds(11, []interface{}{map[string]interface{}{"id": float64(999)}}),
	}

	all := []interface{}{
		personInPonds(1, []interface{}{map[string]interface{}{"id": float64(134)}}),
		personInPonds(2, []interface{}{map[string]interface{}{"id": float64(999)}}),
		personInPonds(3, []interface{}{map[string]interface{}{"id": float64(134)}}),
		personInPonds(4, nil),
	}

	source := pondSource(func() ([]interface{}, error) { return wrongPond, nil }, all)
	paginator := NewPondFilterPaginator(source, 134, nil)

	items, err := paginator.PaginateAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	ids := uniqueIDs(t, items)
	assert.Contains(t, ids, "1")
	assert.Contains(t, ids, "3")
}

func TestPondFilterPaginator_EmptyResultTriggersFallback(t *testing.T) {
	t.Parallel()

	all := []interface{}{
		personInPonds(1, []interface{}{map[string]interface{}{"id": float64(134)}}),
		personInPonds(2, nil),
	}

	source := pondSource(func() ([]interface{}, error) { return nil, nil }, all)
	paginator := NewPondFilterPaginator(source, 134, nil)

	items, err := paginator.PaginateAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestPondFilterPaginator_NonStrictEmpty(t *testing.T) {
	t.Parallel()

	source := pondSource(func() ([]interface{}, error) { return nil, nil }, []interface{}{
		personInPonds(1, nil),
	})
	paginator := NewPondFilterPaginator(source, 134, nil, WithNonStrictEmpty())

	items, err := paginator.PaginateAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPondFilterPaginator_FallbackFailurePropagates(t *testing.T) {
	t.Parallel()

	// Both the server filter and the unfiltered fallback fail; the error
	// must surface rather than returning silently empty data.
	source := &scriptedSource{}
	source.handler = func(url.Values) (Page, error) {
		return nil, Classify(500, "Internal Server Error", nil)
	}

	paginator := NewPondFilterPaginator(source, 134, nil)

	_, err := paginator.PaginateAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback extraction")
}

func TestPondFilterPaginator_LenientSamplingLastResort(t *testing.T) {
	t.Parallel()

	// The unfiltered fallback is broken, but the server-filtered results
	// pass lenient sampling (half the sample are members).
	filtered := []interface{}{
		personInPonds(1, []interface{}{map[string]interface{}{"id": float64(134)}}),
		personInPonds(2, nil),
	}

	source := &scriptedSource{}
	source.handler = func(params url.Values) (Page, error) {
		if params.Get("pond") != "" {
			return Page{"people": filtered}, nil
		}

		return nil, Classify(500, "Internal Server Error", nil)
	}

	paginator := NewPondFilterPaginator(source, 134, nil)

	items, err := paginator.PaginateAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestPondFilterPaginator_Verify(t *testing.T) {
	t.Parallel()

	members := []interface{}{
		personInPonds(1, []interface{}{map[string]interface{}{"id": float64(134)}}),
		personInPonds(2, []interface{}{map[string]interface{}{"id": float64(134)}}),
	}

	all := append(append([]interface{}{}, members...),
		personInPonds(3, []interface{}{map[string]interface{}{"id": float64(999)}}))

	source := pondSource(func() ([]interface{}, error) { return members, nil }, all)
	paginator := NewPondFilterPaginator(source, 134, nil)

	report, err := paginator.Verify(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 134, report.PondID)
	assert.True(t, report.VerificationPassed)
	assert.True(t, report.MembershipVerified)
	require.Contains(t, report.ExtractionMethods, "api_filter")
	require.Contains(t, report.ExtractionMethods, "local_filter")
	assert.Equal(t, 2, report.ExtractionMethods["api_filter"].Count)
	assert.Equal(t, 2, report.ExtractionMethods["local_filter"].Count)
	assert.True(t, report.ExtractionMethods["local_filter"].Works)
	assert.NotEmpty(t, report.Recommendation)
}

func TestPondFilterPaginator_VerifyDetectsBrokenFilter(t *testing.T) {
	t.Parallel()

	wrongPond := []interface{}{
		personInPonds(10, []interface{}{map[string]interface{}{"id": float64(999)}}),
	}

	all := []interface{}{
		personInPonds(1, []interface{}{map[string]interface{}{"id": float64(134)}}),
		personInPonds(10, []interface{}{map[string]interface{}{"id": float64(999)}}),
	}

	source := pondSource(func() ([]interface{}, error) { return wrongPond, nil }, all)
	paginator := NewPondFilterPaginator(source, 134, nil)

	report, err := paginator.Verify(context.Background(), -1)
	require.NoError(t, err)

	assert.False(t, report.ExtractionMethods["api_filter"].Works)
	assert.True(t, report.ExtractionMethods["local_filter"].Works)
	assert.NotEmpty(t, report.APIIssuesDetected)
}

func TestVerificationReport_SnakeCaseKeys(t *testing.T) {
	t.Parallel()

	report := &VerificationReport{
		PondID:        134,
		ExpectedCount: 10,
		ExtractionMethods: map[string]MethodReport{
			"api_filter": {Count: 10, ExtractionTime: 0.5, Works: true, Accuracy: 1},
		},
		APIIssuesDetected: []string{},
	}

	encoded, err := json.Marshal(report)
	require.NoError(t, err)

	keys := []string{
		"pond_id",
		"expected_count",
		"extraction_methods",
		"membership_verified",
		"verification_passed",
		"api_issues_detected",
		"extraction_time",
	}
	for _, key := range keys {
		assert.Contains(t, string(encoded), `"`+key+`"`)
	}
}
