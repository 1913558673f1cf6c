package fub

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/realworks-io/fub-client/internal/constants"
)

// PondFilterPaginator extracts the people assigned to one pond. The API's
// server-side pond filter is known to silently return wrong result sets, so
// every extraction is verified locally and falls back to client-side
// filtering of the full collection when the server filter cannot be trusted.
type PondFilterPaginator struct {
	source   PageSource
	endpoint string
	pondID   int

	// baseParams are the caller's parameters without any pond filter.
	baseParams url.Values

	logger Logger

	// nonStrictEmpty accepts an empty verified result as passing. By default
	// an empty result fails verification, because an unreliable filter that
	// returns nothing is indistinguishable from an empty pond.
	nonStrictEmpty bool
}

// PondOption configures a PondFilterPaginator.
type PondOption func(*PondFilterPaginator)

// WithPondLogger sets the logger.
func WithPondLogger(logger Logger) PondOption {
	return func(p *PondFilterPaginator) {
		p.logger = logger
	}
}

// WithNonStrictEmpty treats an empty server-filtered result as verified
// instead of triggering the unfiltered fallback. Use only when empty ponds
// are expected and the cost of a full-collection scan is prohibitive.
func WithNonStrictEmpty() PondOption {
	return func(p *PondFilterPaginator) {
		p.nonStrictEmpty = true
	}
}

// NewPondFilterPaginator creates a paginator for the people in pondID.
// params must not already contain a pond filter; it is managed internally.
func NewPondFilterPaginator(source PageSource, pondID int, params url.Values, opts ...PondOption) *PondFilterPaginator {
	base := cloneValues(params)
	base.Del("pond")

	paginator := &PondFilterPaginator{
		source:     source,
		endpoint:   "people",
		pondID:     pondID,
		baseParams: base,
		logger:     NoopLogger{},
	}

	for _, opt := range opts {
		opt(paginator)
	}

	return paginator
}

// MethodReport records the outcome of one extraction method during
// verification.
type MethodReport struct {
	Count          int     `json:"count" yaml:"count"`
	ExtractionTime float64 `json:"extraction_time" yaml:"extraction_time"`
	Works          bool    `json:"works" yaml:"works"`
	Accuracy       float64 `json:"accuracy" yaml:"accuracy"`
}

// VerificationReport summarizes a pond extraction audit. Field tags follow
// the snake_case convention of SessionStats.
type VerificationReport struct {
	PondID             int                     `json:"pond_id" yaml:"pond_id"`
	ExpectedCount      int                     `json:"expected_count" yaml:"expected_count"`
	ExtractionMethods  map[string]MethodReport `json:"extraction_methods" yaml:"extraction_methods"`
	MembershipVerified bool                    `json:"membership_verified" yaml:"membership_verified"`
	VerificationPassed bool                    `json:"verification_passed" yaml:"verification_passed"`
	Accuracy           float64                 `json:"accuracy" yaml:"accuracy"`
	Recommendation     string                  `json:"recommendation" yaml:"recommendation"`
	APIIssuesDetected  []string                `json:"api_issues_detected" yaml:"api_issues_detected"`
}

// PaginateAll extracts all people in the pond. The server-side filter is
// tried first and its output verified by checking the items' own pond
// membership data; if verification fails, the entire collection is paginated
// and filtered locally. A failure of the unfiltered fallback propagates,
// since at that point there is no further method to try.
func (p *PondFilterPaginator) PaginateAll(ctx context.Context) ([]Item, error) {
	filtered, err := p.extractFiltered(ctx)
	if err == nil {
		if len(filtered) == 0 && p.nonStrictEmpty {
			p.logger.Info("pond filter returned empty result, accepted (non-strict)", map[string]interface{}{
				"pond": p.pondID,
			})

			return filtered, nil
		}

		if len(filtered) > 0 && p.verify(filtered, true) {
			p.logger.Info("pond filter verified", map[string]interface{}{
				"pond":  p.pondID,
				"count": len(filtered),
			})

			return filtered, nil
		}

		p.logger.Warn("pond filter results failed verification, falling back to local filtering", map[string]interface{}{
			"pond":  p.pondID,
			"count": len(filtered),
		})
	} else {
		p.logger.Warn("pond filter extraction failed, falling back to local filtering", map[string]interface{}{
			"pond":  p.pondID,
			"error": err.Error(),
		})
	}

	local, err := p.extractLocal(ctx)
	if err != nil {
		// Sampling is the last resort: the filtered set may still be usable
		// if a membership sample holds up even leniently.
		if len(filtered) > 0 && p.verify(filtered, false) {
			p.logger.Warn("using server-filtered results after lenient sample verification", map[string]interface{}{
				"pond":  p.pondID,
				"count": len(filtered),
			})

			return filtered, nil
		}

		return nil, fmt.Errorf("pond %d fallback extraction: %w", p.pondID, err)
	}

	p.logger.Info("pond extraction complete via local filtering", map[string]interface{}{
		"pond":  p.pondID,
		"count": len(local),
	})

	return local, nil
}

// extractFiltered paginates with the server-side pond filter applied.
func (p *PondFilterPaginator) extractFiltered(ctx context.Context) ([]Item, error) {
	params := cloneValues(p.baseParams)
	params.Set("pond", strconv.Itoa(p.pondID))

	paginator := NewSmartPaginator(p.source, p.endpoint, params, WithPaginatorLogger(p.logger))

	items, err := paginator.PaginateAll(ctx)
	if err != nil {
		// A total strategy failure on a filtered query usually means the
		// pond is empty rather than the API being down.
		if IsAllStrategiesFailed(err) {
			return nil, nil
		}

		return nil, err
	}

	return items, nil
}

// extractLocal paginates the whole collection and keeps only pond members.
func (p *PondFilterPaginator) extractLocal(ctx context.Context) ([]Item, error) {
	paginator := NewSmartPaginator(p.source, p.endpoint, p.baseParams, WithPaginatorLogger(p.logger))

	items, err := paginator.PaginateAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]Item, 0)

	for _, item := range items {
		if ItemInPond(item, p.pondID) {
			matched = append(matched, item)
		}
	}

	return matched, nil
}

// verify samples up to the configured number of items and checks their pond
// membership directly. Strict verification requires 90% of the sample to be
// members; lenient requires 50%.
func (p *PondFilterPaginator) verify(items []Item, strict bool) bool {
	if len(items) == 0 {
		return false
	}

	sampleSize := constants.VerificationSampleSize
	if len(items) < sampleSize {
		sampleSize = len(items)
	}

	members := 0
	for _, item := range items[:sampleSize] {
		if ItemInPond(item, p.pondID) {
			members++
		}
	}

	ratio := float64(members) / float64(sampleSize)

	threshold := constants.StrictVerifyThreshold
	if !strict {
		threshold = constants.LenientVerifyThreshold
	}

	return ratio >= threshold
}

// ItemInPond reports whether an item's own pond data names pondID. The API
// is inconsistent about the shape of the ponds field, so a list of objects,
// a list of bare ids, and a single object are all accepted. An absent or
// unrecognized shape is treated as not a member.
func ItemInPond(item Item, pondID int) bool {
	raw, ok := item["ponds"]
	if !ok || raw == nil {
		return false
	}

	switch ponds := raw.(type) {
	case []interface{}:
		for _, entry := range ponds {
			if pondEntryMatches(entry, pondID) {
				return true
			}
		}
	case map[string]interface{}:
		return pondEntryMatches(ponds, pondID)
	default:
		return pondEntryMatches(raw, pondID)
	}

	return false
}

func pondEntryMatches(entry interface{}, pondID int) bool {
	switch value := entry.(type) {
	case map[string]interface{}:
		id, ok := toInt(value["id"])

		return ok && id == pondID
	default:
		id, ok := toInt(value)

		return ok && id == pondID
	}
}

// IsAllStrategiesFailed reports whether err is the total pagination failure
// sentinel.
func IsAllStrategiesFailed(err error) bool {
	return errors.Is(err, ErrAllStrategiesFailed)
}

// Verify audits all viable extraction methods for the pond and reports which
// of them work, how they agree on counts, and whether the results' own
// membership data backs them up. expectedCount below zero means unknown.
func (p *PondFilterPaginator) Verify(ctx context.Context, expectedCount int) (*VerificationReport, error) {
	report := &VerificationReport{
		PondID:            p.pondID,
		ExpectedCount:     expectedCount,
		ExtractionMethods: make(map[string]MethodReport),
		APIIssuesDetected: []string{},
	}

	filteredStart := time.Now()

	filtered, filteredErr := p.extractFiltered(ctx)
	filteredReport := MethodReport{
		Count:          len(filtered),
		ExtractionTime: time.Since(filteredStart).Seconds(),
	}

	if filteredErr == nil && len(filtered) > 0 {
		filteredReport.Works = p.verify(filtered, false)
		filteredReport.Accuracy = p.membershipRatio(filtered)
	}

	if filteredErr != nil {
		report.APIIssuesDetected = append(report.APIIssuesDetected,
			fmt.Sprintf("server-side pond filter failed: %v", filteredErr))
	} else if !filteredReport.Works {
		report.APIIssuesDetected = append(report.APIIssuesDetected,
			"server-side pond filter returned results that fail membership verification")
	}

	report.ExtractionMethods["api_filter"] = filteredReport

	localStart := time.Now()

	local, localErr := p.extractLocal(ctx)
	localReport := MethodReport{
		Count:          len(local),
		ExtractionTime: time.Since(localStart).Seconds(),
	}

	if localErr == nil {
		localReport.Works = true
		localReport.Accuracy = p.membershipRatio(local)
	} else {
		report.APIIssuesDetected = append(report.APIIssuesDetected,
			fmt.Sprintf("unfiltered extraction failed: %v", localErr))
	}

	report.ExtractionMethods["local_filter"] = localReport

	best := localReport
	bestName := "local_filter"

	if !best.Works || (filteredReport.Works && filteredReport.Accuracy > best.Accuracy) {
		best = filteredReport
		bestName = "api_filter"
	}

	report.Accuracy = best.Accuracy
	report.MembershipVerified = best.Works && best.Accuracy >= constants.StrictVerifyThreshold

	if expectedCount >= 0 && best.Count > 0 {
		countAccuracy := float64(best.Count) / float64(expectedCount)
		if countAccuracy > 1 {
			countAccuracy = 1 / countAccuracy
		}

		report.VerificationPassed = report.MembershipVerified && countAccuracy >= constants.AccuracyThreshold

		if !report.VerificationPassed && report.MembershipVerified {
			report.APIIssuesDetected = append(report.APIIssuesDetected,
				fmt.Sprintf("extracted count %d deviates from expected %d", best.Count, expectedCount))
		}
	} else {
		report.VerificationPassed = report.MembershipVerified
	}

	switch {
	case report.VerificationPassed && bestName == "api_filter":
		report.Recommendation = "server-side pond filter is reliable for this pond"
	case report.VerificationPassed:
		report.Recommendation = "use local filtering; the server-side pond filter is unreliable"
	case localReport.Works:
		report.Recommendation = "use local filtering and review membership data; no method fully verified"
	default:
		report.Recommendation = "no extraction method verified; investigate API availability"
	}

	return report, nil
}

func (p *PondFilterPaginator) membershipRatio(items []Item) float64 {
	if len(items) == 0 {
		return 0
	}

	members := 0
	for _, item := range items {
		if ItemInPond(item, p.pondID) {
			members++
		}
	}

	return float64(members) / float64(len(items))
}
