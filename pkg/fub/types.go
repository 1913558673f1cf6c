package fub

import (
	"strconv"
	"time"
)

// Reserved keys merged into a Page by the transport. Values already present
// in the response body are never overwritten.
const (
	RateLimitKey = "_rateLimit"
	MetadataKey  = "_metadata"
)

// KnownCollectionKeys are the top-level keys under which the Follow Up Boss
// API returns item collections. The set is fixed and known per endpoint, so
// paginators resolve the key at construction rather than guessing per page.
var KnownCollectionKeys = []string{"people", "deals", "events", "notes", "calls", "tasks"}

// Item is one domain record. The API schema is opaque to this library; the
// only field with client-side meaning is "id", the deduplication key.
type Item map[string]interface{}

// ID returns the item's identity key normalized to a string. Items without
// an id cannot be deduplicated and report ok=false.
func (i Item) ID() (string, bool) {
	return normalizeID(i["id"])
}

// Page is one decoded response unit: zero or more item collections plus
// pagination metadata under MetadataKey and rate-limit info under
// RateLimitKey.
type Page map[string]interface{}

// Metadata returns the page's _metadata mapping, or nil if absent.
func (p Page) Metadata() map[string]interface{} {
	meta, _ := p[MetadataKey].(map[string]interface{})
	return meta
}

// Items returns the collection stored under key, or nil if the key is absent
// or not a list.
func (p Page) Items(key string) []Item {
	raw, ok := p[key].([]interface{})
	if !ok {
		return nil
	}

	items := make([]Item, 0, len(raw))

	for _, entry := range raw {
		if m, ok := entry.(map[string]interface{}); ok {
			items = append(items, Item(m))
		}
	}

	return items
}

// ItemsAny tries each key in order and returns the first collection found
// along with the key that matched.
func (p Page) ItemsAny(keys []string) ([]Item, string) {
	for _, key := range keys {
		if _, ok := p[key].([]interface{}); ok {
			return p.Items(key), key
		}
	}

	return nil, ""
}

// NextLink returns the next-page URL from the known locations
// (_metadata.nextLink, _metadata.next, top-level nextLink/next), or "".
func (p Page) NextLink() string {
	if meta := p.Metadata(); meta != nil {
		if link, ok := meta["nextLink"].(string); ok && link != "" {
			return link
		}

		if link, ok := meta["next"].(string); ok && link != "" {
			return link
		}
	}

	if link, ok := p["nextLink"].(string); ok && link != "" {
		return link
	}

	if link, ok := p["next"].(string); ok && link != "" {
		return link
	}

	return ""
}

// TotalCount returns the total item count hint from _metadata.total or
// _metadata.totalCount.
func (p Page) TotalCount() (int, bool) {
	meta := p.Metadata()
	if meta == nil {
		return 0, false
	}

	if total, ok := toInt(meta["total"]); ok {
		return total, true
	}

	return toInt(meta["totalCount"])
}

// RateLimit returns the rate-limit info captured from the most recent
// response headers, or nil.
func (p Page) RateLimit() *RateLimitInfo {
	raw, ok := p[RateLimitKey].(map[string]interface{})
	if !ok {
		return nil
	}

	info := &RateLimitInfo{}
	if v, ok := toInt(raw["limit"]); ok {
		info.Limit = v
	}

	if v, ok := toInt(raw["remaining"]); ok {
		info.Remaining = v
	}

	if v, ok := toInt(raw["reset"]); ok {
		info.Reset = int64(v)
	}

	return info
}

// RateLimitInfo is parsed from the X-RateLimit-* response headers. It is
// overwritten on every request and has no independent lifecycle.
type RateLimitInfo struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}

// SessionStats is an immutable snapshot of one client's session counters.
// Counters are monotonically non-decreasing within a client lifetime.
type SessionStats struct {
	RequestCount        int64     `json:"request_count"        yaml:"request_count"`
	ErrorCount          int64     `json:"error_count"          yaml:"error_count"`
	SessionTimeoutCount int64     `json:"session_timeout_count" yaml:"session_timeout_count"`
	ErrorRate           float64   `json:"error_rate"           yaml:"error_rate"`
	LastRequestTime     time.Time `json:"last_request_time"    yaml:"last_request_time"`
}

// normalizeID converts the JSON representations an id can arrive in
// (number, string) into a stable string key.
func normalizeID(v interface{}) (string, bool) {
	switch id := v.(type) {
	case string:
		if id == "" {
			return "", false
		}

		return id, true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	default:
		return "", false
	}
}

// toInt coerces the numeric shapes JSON decoding produces.
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}

		return parsed, true
	default:
		return 0, false
	}
}
