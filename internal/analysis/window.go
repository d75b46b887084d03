// Package analysis computes the seasonal and trend aggregates over a table
// of cleaned disaster records. Both analyses assume every row they see has a
// unified date; FilterRecentYears is the upstream gate that drops dateless
// rows along with out-of-window ones.
package analysis

import "github.com/hazelcove/emdat-report/internal/domain"

// FilterRecentYears returns a new table holding the records of the last
// nYears relative to the most recent date-year observed. The lower bound
// (maxYear - nYears) is inclusive; records without a unified date are
// excluded. The input table is not mutated.
func FilterRecentYears(records []domain.EventRecord, nYears int) []domain.EventRecord {
	maxYear := 0
	for _, rec := range records {
		if rec.Date != nil && rec.Date.Year() > maxYear {
			maxYear = rec.Date.Year()
		}
	}
	if maxYear == 0 {
		return nil
	}

	start := maxYear - nYears
	out := make([]domain.EventRecord, 0, len(records))
	for _, rec := range records {
		if rec.Date != nil && rec.Date.Year() >= start {
			out = append(out, rec)
		}
	}
	return out
}
