package fub

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// QueryParams holds the common list-request parameters. Zero values are
// omitted from the encoded query string.
type QueryParams struct {
	// Limit is the page size (the API's limit parameter).
	Limit int `url:"limit,omitempty"`

	// Offset is the zero-based item offset.
	Offset int `url:"offset,omitempty"`

	// Sort is the sort expression, e.g. "created" or "-updated".
	Sort string `url:"sort,omitempty"`

	// Fields restricts the returned fields.
	Fields []string `url:"fields,comma,omitempty"`

	// Next is the cursor token from a previous response's _metadata.next.
	Next string `url:"next,omitempty"`

	// Filters holds endpoint-specific filter parameters such as stage, tag,
	// pond or listId. They are merged into the encoded query after the
	// tagged fields.
	Filters map[string]string `url:"-"`
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{Filters: make(map[string]string)}
}

// WithLimit sets the page size.
func (q *QueryParams) WithLimit(limit int) *QueryParams {
	q.Limit = limit

	return q
}

// WithOffset sets the item offset.
func (q *QueryParams) WithOffset(offset int) *QueryParams {
	q.Offset = offset

	return q
}

// WithSort sets the sort expression.
func (q *QueryParams) WithSort(sort string) *QueryParams {
	q.Sort = sort

	return q
}

// WithFields appends to the field selection.
func (q *QueryParams) WithFields(fields ...string) *QueryParams {
	q.Fields = append(q.Fields, fields...)

	return q
}

// WithNext sets the cursor token.
func (q *QueryParams) WithNext(token string) *QueryParams {
	q.Next = token

	return q
}

// WithFilter sets one filter parameter, replacing any previous value.
func (q *QueryParams) WithFilter(name, value string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string]string)
	}

	q.Filters[name] = value

	return q
}

// ToValues encodes the parameters as a query string via their url tags,
// then merges the untyped filters.
func (q *QueryParams) ToValues() url.Values {
	if q == nil {
		return url.Values{}
	}

	values, err := EncodeParams(q)
	if err != nil {
		values = url.Values{}
	}

	for name, value := range q.Filters {
		values.Set(name, value)
	}

	return values
}

// EncodeParams encodes a typed parameter struct (tagged with `url:"..."`)
// into query values. QueryParams encodes itself through this; resource
// callers can use it directly for endpoint-specific parameter structs.
func EncodeParams(params interface{}) (url.Values, error) {
	if params == nil {
		return url.Values{}, nil
	}

	values, err := query.Values(params)
	if err != nil {
		return nil, fmt.Errorf("encoding query parameters: %w", err)
	}

	return values, nil
}
