package fub

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/realworks-io/fub-client/internal/constants"
)

// PageSource fetches one page of results for an endpoint. It is implemented
// by the HTTP transport; every call passes through the retry, rate-limit and
// session layers.
type PageSource interface {
	GetPage(ctx context.Context, endpoint string, params url.Values) (Page, error)
}

// Strategy produces a lazy sequence of pages for one traversal method.
// Paginate calls yield for each page in request order and stops issuing
// requests as soon as yield returns false.
type Strategy interface {
	Name() string
	Paginate(ctx context.Context, yield func(Page) bool) error
}

// StrategyConfig is the shared construction input for all strategies.
type StrategyConfig struct {
	Source   PageSource
	Endpoint string
	Params   url.Values
	// ItemsKey is the collection key for this endpoint. When empty, the
	// known collection keys are tried in order.
	ItemsKey string
	Logger   Logger
}

func (c *StrategyConfig) logger() Logger {
	if c.Logger == nil {
		return NoopLogger{}
	}

	return c.Logger
}

// pageItems resolves the item collection for a page using the configured
// key, falling back to the known key table.
func (c *StrategyConfig) pageItems(page Page) []Item {
	if c.ItemsKey != "" {
		return page.Items(c.ItemsKey)
	}

	items, _ := page.ItemsAny(KnownCollectionKeys)

	return items
}

// ItemsKeyForEndpoint resolves the collection key for an endpoint path, or
// "" when the endpoint is not one of the known collections.
func ItemsKeyForEndpoint(endpoint string) string {
	base := strings.Trim(endpoint, "/")
	if idx := strings.IndexByte(base, '/'); idx >= 0 {
		base = base[:idx]
	}

	base = strings.ToLower(base)
	for _, key := range KnownCollectionKeys {
		if base == key {
			return key
		}
	}

	return ""
}

// OffsetStrategy is standard offset/limit pagination. The cursor starts at
// the caller's offset (or 0), advances by exactly limit per page, and the
// strategy terminates on a short page, at the deep-pagination cap, or on the
// service's deep-pagination rejection.
type OffsetStrategy struct {
	cfg StrategyConfig
}

// NewOffsetStrategy creates an offset strategy.
func NewOffsetStrategy(cfg StrategyConfig) *OffsetStrategy {
	return &OffsetStrategy{cfg: cfg}
}

// Name implements Strategy.
func (s *OffsetStrategy) Name() string { return "offset" }

// Paginate implements Strategy.
func (s *OffsetStrategy) Paginate(ctx context.Context, yield func(Page) bool) error {
	offset := intParam(s.cfg.Params, "offset", 0)
	limit := intParam(s.cfg.Params, "limit", constants.DefaultPageLimit)

	for {
		params := cloneValues(s.cfg.Params)
		params.Set("offset", strconv.Itoa(offset))
		params.Set("limit", strconv.Itoa(limit))

		page, err := s.cfg.Source.GetPage(ctx, s.cfg.Endpoint, params)
		if err != nil {
			if IsDeepPaginationDisabled(err) {
				// The collection extends past the cap; everything fetched so
				// far is kept, but the traversal is incomplete.
				return fmt.Errorf("%w at offset %d", ErrOffsetCapReached, offset)
			}

			return err
		}

		if !yield(page) {
			return nil
		}

		if len(s.cfg.pageItems(page)) < limit {
			return nil
		}

		offset += limit
		if offset >= constants.OffsetCap {
			s.cfg.logger().Warn("offset pagination cap reached, collection may extend further", map[string]interface{}{
				"endpoint": s.cfg.Endpoint,
				"offset":   offset,
			})

			return fmt.Errorf("%w at offset %d", ErrOffsetCapReached, offset)
		}
	}
}

// NextLinkStrategy follows server-provided next-page URLs. It has no offset
// ceiling, which makes it the designated bypass for the deep-pagination cap.
type NextLinkStrategy struct {
	cfg StrategyConfig

	// retryWait is the pause after a rate-limit response.
	retryWait time.Duration
}

// NewNextLinkStrategy creates a nextLink strategy.
func NewNextLinkStrategy(cfg StrategyConfig) *NextLinkStrategy {
	return &NextLinkStrategy{cfg: cfg, retryWait: 2 * time.Second}
}

// Name implements Strategy.
func (s *NextLinkStrategy) Name() string { return "nextLink" }

// Paginate implements Strategy.
func (s *NextLinkStrategy) Paginate(ctx context.Context, yield func(Page) bool) error {
	params := cloneValues(s.cfg.Params)
	if params.Get("limit") == "" {
		// Smaller initial pages improve nextLink detection.
		params.Set("limit", strconv.Itoa(constants.NextLinkPageLimit))
	}

	for requestCount := 0; requestCount < constants.MaxNextLinkRequests; requestCount++ {
		page, err := s.cfg.Source.GetPage(ctx, s.cfg.Endpoint, params)
		if err != nil {
			if IsDeepPaginationDisabled(err) {
				// Only reachable in offset-increment fallback mode; genuine
				// nextLink cursors are not subject to the cap.
				return fmt.Errorf("%w during nextLink traversal", ErrOffsetCapReached)
			}

			if IsRateLimited(err) {
				s.cfg.logger().Warn("rate limit hit, waiting before retry", map[string]interface{}{
					"endpoint": s.cfg.Endpoint,
				})

				if sleepErr := sleepContext(ctx, s.retryWait); sleepErr != nil {
					return sleepErr
				}

				continue
			}

			return err
		}

		if !yield(page) {
			return nil
		}

		nextLink := page.NextLink()
		if nextLink == "" {
			limit := intParam(params, "limit", constants.NextLinkPageLimit)
			count := len(s.cfg.pageItems(page))

			if count < limit {
				return nil
			}

			// Full page but no nextLink: continue by offset increment.
			offset := intParam(params, "offset", 0)
			params.Set("offset", strconv.Itoa(offset+count))

			continue
		}

		nextParams, err := parseNextLink(nextLink)
		if err != nil {
			s.cfg.logger().Error("failed to parse nextLink", map[string]interface{}{
				"nextLink": nextLink,
				"error":    err.Error(),
			})

			return nil
		}

		// Preserve caller params that are not pagination cursors.
		for key, values := range s.cfg.Params {
			if key == "offset" || key == "limit" || key == "next" {
				continue
			}

			if _, ok := nextParams[key]; !ok {
				nextParams[key] = values
			}
		}

		params = nextParams
	}

	s.cfg.logger().Warn("nextLink strategy hit maximum request limit", map[string]interface{}{
		"endpoint": s.cfg.Endpoint,
		"max":      constants.MaxNextLinkRequests,
	})

	return nil
}

// parseNextLink extracts the query parameters encoded in a nextLink URL.
func parseNextLink(nextLink string) (url.Values, error) {
	parsed, err := url.Parse(nextLink)
	if err != nil {
		return nil, fmt.Errorf("parsing nextLink URL: %w", err)
	}

	return parsed.Query(), nil
}

// DateRangeStrategy chunks a historical window into fixed-size day intervals
// and runs offset pagination inside each window. It is the last resort for
// endpoints where neither offset nor nextLink traversal surfaces all data.
type DateRangeStrategy struct {
	cfg StrategyConfig

	// DateField is the field used for chunking: "created" or "updated".
	DateField string

	// ChunkDays is the window size in days.
	ChunkDays int

	// now is injectable for tests.
	now func() time.Time
}

// NewDateRangeStrategy creates a date-range strategy with the default field
// ("created") and chunk size.
func NewDateRangeStrategy(cfg StrategyConfig) *DateRangeStrategy {
	return &DateRangeStrategy{
		cfg:       cfg,
		DateField: "created",
		ChunkDays: constants.DefaultChunkDays,
		now:       time.Now,
	}
}

// Name implements Strategy.
func (s *DateRangeStrategy) Name() string { return "dateRange" }

// Paginate implements Strategy.
func (s *DateRangeStrategy) Paginate(ctx context.Context, yield func(Page) bool) error {
	endDate := s.now()

	startDate := endDate.AddDate(0, 0, -constants.DefaultDateRangeDays)
	if raw := s.cfg.Params.Get("start_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("parsing start_date: %w", err)
		}

		startDate = parsed
	}

	stopped := false

	for current := startDate; current.Before(endDate) && !stopped; {
		chunkEnd := current.AddDate(0, 0, s.ChunkDays)
		if chunkEnd.After(endDate) {
			chunkEnd = endDate
		}

		params := cloneValues(s.cfg.Params)
		params.Del("start_date")
		params.Set(s.DateField+"_start", current.Format(time.RFC3339))
		params.Set(s.DateField+"_end", chunkEnd.Format(time.RFC3339))

		s.cfg.logger().Info("fetching date window", map[string]interface{}{
			"endpoint": s.cfg.Endpoint,
			"from":     current.Format("2006-01-02"),
			"to":       chunkEnd.Format("2006-01-02"),
		})

		window := NewOffsetStrategy(StrategyConfig{
			Source:   s.cfg.Source,
			Endpoint: s.cfg.Endpoint,
			Params:   params,
			ItemsKey: s.cfg.ItemsKey,
			Logger:   s.cfg.Logger,
		})

		err := window.Paginate(ctx, func(page Page) bool {
			if !yield(page) {
				stopped = true

				return false
			}

			return true
		})
		if err != nil {
			// A single oversized window should not abort the rest of the
			// history; the window's partial data is already collected.
			if !errors.Is(err, ErrOffsetCapReached) {
				return err
			}

			s.cfg.logger().Warn("date window exceeded offset cap", map[string]interface{}{
				"endpoint": s.cfg.Endpoint,
				"from":     current.Format("2006-01-02"),
				"to":       chunkEnd.Format("2006-01-02"),
			})
		}

		current = chunkEnd
	}

	return nil
}

// SmartPaginator orchestrates the traversal strategies in fixed priority
// order (offset, nextLink, dateRange), deduplicating items by id across all
// pages. The first strategy that completes and yields at least one item
// wins; a strategy that fails is logged and the next one is tried.
type SmartPaginator struct {
	source   PageSource
	endpoint string
	params   url.Values
	itemsKey string
	logger   Logger
}

// PaginatorOption configures a SmartPaginator.
type PaginatorOption func(*SmartPaginator)

// WithItemsKey overrides the collection key resolved from the endpoint.
func WithItemsKey(key string) PaginatorOption {
	return func(p *SmartPaginator) {
		p.itemsKey = key
	}
}

// WithPaginatorLogger sets the logger.
func WithPaginatorLogger(logger Logger) PaginatorOption {
	return func(p *SmartPaginator) {
		p.logger = logger
	}
}

// NewSmartPaginator creates a paginator for one endpoint. The collection key
// is resolved from the endpoint against the known key table unless
// overridden.
func NewSmartPaginator(source PageSource, endpoint string, params url.Values, opts ...PaginatorOption) *SmartPaginator {
	paginator := &SmartPaginator{
		source:   source,
		endpoint: endpoint,
		params:   cloneValues(params),
		itemsKey: ItemsKeyForEndpoint(endpoint),
		logger:   NoopLogger{},
	}

	for _, opt := range opts {
		opt(paginator)
	}

	return paginator
}

func (p *SmartPaginator) strategyConfig() StrategyConfig {
	return StrategyConfig{
		Source:   p.source,
		Endpoint: p.endpoint,
		Params:   p.params,
		ItemsKey: p.itemsKey,
		Logger:   p.logger,
	}
}

func (p *SmartPaginator) strategies() []Strategy {
	cfg := p.strategyConfig()

	return []Strategy{
		NewOffsetStrategy(cfg),
		NewNextLinkStrategy(cfg),
		NewDateRangeStrategy(cfg),
	}
}

// PaginateAll extracts the complete result set. Items preserve request order
// within the winning strategy. If every strategy fails or yields nothing it
// returns ErrAllStrategiesFailed: silently returning zero items on total
// failure would be indistinguishable from a legitimately empty collection.
func (p *SmartPaginator) PaginateAll(ctx context.Context) ([]Item, error) {
	var all []Item

	seen := make(map[string]struct{})

	for _, strategy := range p.strategies() {
		p.logger.Info("trying pagination strategy", map[string]interface{}{
			"endpoint": p.endpoint,
			"strategy": strategy.Name(),
		})

		err := strategy.Paginate(ctx, func(page Page) bool {
			added := p.collect(page, seen, &all)
			p.logger.Debug("extracted page", map[string]interface{}{
				"strategy": strategy.Name(),
				"new":      added,
				"total":    len(all),
			})

			return true
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("pagination cancelled: %w", ctx.Err())
			}

			p.logger.Warn("pagination strategy failed", map[string]interface{}{
				"endpoint": p.endpoint,
				"strategy": strategy.Name(),
				"error":    err.Error(),
			})

			continue
		}

		if len(all) > 0 {
			p.logger.Info("pagination complete", map[string]interface{}{
				"endpoint": p.endpoint,
				"strategy": strategy.Name(),
				"items":    len(all),
			})

			return all, nil
		}
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("%w: endpoint %s", ErrAllStrategiesFailed, p.endpoint)
	}

	return all, nil
}

// PaginateConcurrent extracts the result set using parallel offset chunks
// when the total count is known and within the deep-pagination cap;
// otherwise it falls back to PaginateAll. Cross-chunk ordering is not
// guaranteed. Chunks already dispatched to the pool run to completion even
// if the context is cancelled mid-flight. When any chunk fails to fetch,
// the items gathered so far are returned together with
// ErrIncompleteExtraction so a partial result set is never mistaken for a
// complete one.
func (p *SmartPaginator) PaginateConcurrent(ctx context.Context, maxWorkers int) ([]Item, error) {
	if maxWorkers <= 0 {
		maxWorkers = constants.DefaultMaxWorkers
	}

	probeParams := cloneValues(p.params)
	probeParams.Set("limit", "1")

	probe, err := p.source.GetPage(ctx, p.endpoint, probeParams)
	if err != nil {
		return nil, fmt.Errorf("probing total count: %w", err)
	}

	total, ok := probe.TotalCount()
	if !ok || total > constants.OffsetCap {
		p.logger.Info("total unknown or beyond offset cap, falling back to sequential pagination", map[string]interface{}{
			"endpoint": p.endpoint,
			"total":    total,
			"known":    ok,
		})

		return p.PaginateAll(ctx)
	}

	chunkSize := constants.ConcurrentChunkSize
	offsets := make(chan int, total/chunkSize+1)

	for offset := 0; offset < total; offset += chunkSize {
		offsets <- offset
	}
	close(offsets)

	var (
		mu     sync.Mutex
		all    []Item
		wg     sync.WaitGroup
		seen   = make(map[string]struct{})
		failed int
	)

	for worker := 0; worker < maxWorkers; worker++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for offset := range offsets {
				params := cloneValues(p.params)
				params.Set("offset", strconv.Itoa(offset))
				params.Set("limit", strconv.Itoa(chunkSize))

				page, err := p.source.GetPage(ctx, p.endpoint, params)
				if err != nil {
					p.logger.Warn("failed to fetch chunk", map[string]interface{}{
						"endpoint": p.endpoint,
						"offset":   offset,
						"error":    err.Error(),
					})

					mu.Lock()
					failed++
					mu.Unlock()

					continue
				}

				mu.Lock()
				p.collect(page, seen, &all)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if failed > 0 {
		return all, fmt.Errorf("%w: %d chunks failed for endpoint %s", ErrIncompleteExtraction, failed, p.endpoint)
	}

	return all, nil
}

// collect appends the page's items, discarding later occurrences of an id
// already seen. Items without an id cannot be deduplicated and are passed
// through unfiltered rather than silently dropped.
func (p *SmartPaginator) collect(page Page, seen map[string]struct{}, all *[]Item) int {
	cfg := p.strategyConfig()
	added := 0

	for _, item := range cfg.pageItems(page) {
		if id, ok := item.ID(); ok {
			if _, dup := seen[id]; dup {
				continue
			}

			seen[id] = struct{}{}
		}

		*all = append(*all, item)
		added++
	}

	return added
}

func cloneValues(values url.Values) url.Values {
	clone := url.Values{}
	for key, vals := range values {
		clone[key] = append([]string(nil), vals...)
	}

	return clone
}

func intParam(values url.Values, key string, fallback int) int {
	raw := values.Get(key)
	if raw == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return parsed
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("wait interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
