package domain

import "time"

// DateStats reports how many records ended up with a usable unified date.
type DateStats struct {
	Valid int
	Total int
}

// UnifyDates builds the unified date attribute for every record in place.
//
// Per record: the start year falls back to the primary Year column, a
// missing month defaults to January, a missing day to the 1st. A combination
// that does not form a real calendar date (day 31 in February and the like)
// leaves that record's date nil; the record itself is retained.
//
// If no record at all yields a valid date from year+month+day, the pass is
// retried at month granularity with the day pinned to 1. A dataset whose day
// column is systematically garbage still gets monthly resolution instead of
// taking the whole run down.
func UnifyDates(records []EventRecord) DateStats {
	stats := DateStats{Total: len(records)}

	stats.Valid = unifyPass(records, true)
	if stats.Valid == 0 && stats.Total > 0 {
		stats.Valid = unifyPass(records, false)
	}
	return stats
}

func unifyPass(records []EventRecord, useDay bool) int {
	valid := 0
	for i := range records {
		rec := &records[i]

		year := rec.Year
		if rec.StartYear != nil {
			year = *rec.StartYear
		}
		month := 1
		if rec.StartMonth != nil {
			month = *rec.StartMonth
		}
		day := 1
		if useDay && rec.StartDay != nil {
			day = *rec.StartDay
		}

		if t, ok := makeDate(year, month, day); ok {
			rec.Date = &t
			valid++
		} else {
			rec.Date = nil
		}
	}
	return valid
}

// makeDate constructs a UTC date and reports whether the inputs named a real
// calendar day. time.Date silently normalizes overflow (Feb 30 → Mar 2), so
// validity is checked by round-tripping the components.
func makeDate(year, month, day int) (time.Time, bool) {
	if year <= 0 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
