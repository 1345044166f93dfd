package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/models"
)

// FilterAll is the wildcard value accepted by every filter field.
const FilterAll = "all"

// Named date ranges.
const (
	DateRangeToday  = "today"
	DateRange7Days  = "7days"
	DateRange30Days = "30days"
	DateRangeCustom = "custom"
)

// ResultFilter selects a subsequence of comprehensive results. Zero-value
// and "all" fields match everything; populated fields AND-compose.
type ResultFilter struct {
	// SearchText matches case-insensitively as a substring of the
	// participant's name, national id, or job position.
	SearchText string `form:"search" json:"search"`
	// Category is "all" or one of the participant categories.
	Category string `form:"category" json:"category"`
	// Status matches when ANY of the seven slots has the given status.
	Status string `form:"status" json:"status"`
	// Remedial is "all", "ALLOWED" or "NOT_ALLOWED".
	Remedial string `form:"remedial" json:"remedial"`
	// Certified is "all", "CERTIFIED" or "NOT_CERTIFIED".
	Certified string `form:"certified" json:"certified"`
	// DateRange is "all", "today", "7days", "30days" or "custom".
	DateRange string `form:"date_range" json:"date_range"`
	// CustomStart and CustomEnd bound the custom range. If either is
	// missing the date predicate is skipped entirely: the filter fails
	// open rather than silently excluding everything. Deliberate.
	CustomStart *time.Time `form:"-" json:"start,omitempty"`
	CustomEnd   *time.Time `form:"-" json:"end,omitempty"`
}

// FilterResults returns the order-preserving subsequence of results
// matching every populated predicate. The input slice is never mutated,
// and filtering an already-filtered slice with the same config is a
// no-op.
func FilterResults(results []ComprehensiveResult, f ResultFilter) []ComprehensiveResult {
	filtered := make([]ComprehensiveResult, 0, len(results))
	start, end, dateActive := f.resolveRange(time.Now())
	for _, r := range results {
		if !f.matchSearch(r) {
			continue
		}
		if !f.matchCategory(r) {
			continue
		}
		if !f.matchStatus(r) {
			continue
		}
		if !f.matchRemedial(r) {
			continue
		}
		if !f.matchCertified(r) {
			continue
		}
		if dateActive && !anySlotInRange(r, start, end) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func (f ResultFilter) matchSearch(r ComprehensiveResult) bool {
	needle := strings.ToLower(strings.TrimSpace(f.SearchText))
	if needle == "" {
		return true
	}
	for _, field := range []string{r.Name, r.NationalID, r.JobPosition} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (f ResultFilter) matchCategory(r ComprehensiveResult) bool {
	if f.Category == "" || f.Category == FilterAll {
		return true
	}
	return string(r.Category) == f.Category
}

func (f ResultFilter) matchStatus(r ComprehensiveResult) bool {
	if f.Status == "" || f.Status == FilterAll {
		return true
	}
	for _, slot := range r.Slots {
		if string(slot.Status) == f.Status {
			return true
		}
	}
	return false
}

func (f ResultFilter) matchRemedial(r ComprehensiveResult) bool {
	if f.Remedial == "" || f.Remedial == FilterAll {
		return true
	}
	return string(r.Remedial.Status) == f.Remedial
}

func (f ResultFilter) matchCertified(r ComprehensiveResult) bool {
	if f.Certified == "" || f.Certified == FilterAll {
		return true
	}
	return string(r.Certified.Status) == f.Certified
}

// resolveRange turns the configured date range into [start, end) bounds.
// Returns dateActive=false when no date predicate should apply, including
// a custom range missing either endpoint.
func (f ResultFilter) resolveRange(now time.Time) (time.Time, time.Time, bool) {
	switch f.DateRange {
	case DateRangeToday:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 0, 1), true
	case DateRange7Days:
		return now.AddDate(0, 0, -7), now, true
	case DateRange30Days:
		return now.AddDate(0, 0, -30), now, true
	case DateRangeCustom:
		if f.CustomStart == nil || f.CustomEnd == nil {
			return time.Time{}, time.Time{}, false
		}
		// End is inclusive of the whole end day.
		return *f.CustomStart, f.CustomEnd.AddDate(0, 0, 1), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func anySlotInRange(r ComprehensiveResult, start, end time.Time) bool {
	for _, slot := range r.Slots {
		if slot.SubmittedAt == nil {
			continue
		}
		at := *slot.SubmittedAt
		if !at.Before(start) && at.Before(end) {
			return true
		}
	}
	return false
}

// Validate rejects unrecognized filter values up front so a typo never
// silently matches nothing.
func (f ResultFilter) Validate() error {
	if f.Category != "" && f.Category != FilterAll && !models.Category(f.Category).Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, f.Category)
	}
	if f.Status != "" && f.Status != FilterAll && !models.SlotStatus(f.Status).Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}
	switch f.Remedial {
	case "", FilterAll, string(RemedialAllowed), string(RemedialNotAllowed):
	default:
		return fmt.Errorf("%w: unknown remedial filter %q", ErrInvalidInput, f.Remedial)
	}
	switch f.Certified {
	case "", FilterAll, string(Certified), string(NotCertified):
	default:
		return fmt.Errorf("%w: unknown certified filter %q", ErrInvalidInput, f.Certified)
	}
	switch f.DateRange {
	case "", FilterAll, DateRangeToday, DateRange7Days, DateRange30Days, DateRangeCustom:
	default:
		return fmt.Errorf("%w: unknown date range %q", ErrInvalidInput, f.DateRange)
	}
	return nil
}
