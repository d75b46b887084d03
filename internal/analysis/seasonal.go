package analysis

import (
	"time"

	"github.com/hazelcove/emdat-report/internal/domain"
)

// MonthCount is the event count for one calendar month.
type MonthCount struct {
	Month time.Month
	Name  string
	Count int
}

// SeasonCount is the event count for one season.
type SeasonCount struct {
	Season string
	Count  int
}

// QuarterCount is the event count for one calendar quarter.
type QuarterCount struct {
	Quarter int
	Count   int
}

// SeasonalResult holds the seasonal distribution of events.
type SeasonalResult struct {
	ByMonth   []MonthCount   // January..December, months with zero events included
	BySeason  []SeasonCount  // in the season table's meteorological order
	ByQuarter []QuarterCount // Q1..Q4
	// TypeBySeason cross-tabulates disaster type against season.
	TypeBySeason map[string]map[string]int

	TopMonth  string // month name with the highest count
	TopSeason string

	Seasons domain.SeasonTable
}

// Seasonal computes the month, quarter and season distributions plus the
// type-by-season cross tabulation. Ties for the top month or season resolve
// to the earlier entry in calendar/meteorological order. Rows are assumed to
// carry a non-nil unified date; use FilterRecentYears upstream.
func Seasonal(records []domain.EventRecord, seasons domain.SeasonTable) SeasonalResult {
	res := SeasonalResult{
		TypeBySeason: make(map[string]map[string]int),
		Seasons:      seasons,
	}

	var monthCounts [13]int
	seasonCounts := make(map[string]int)
	var quarterCounts [5]int

	for _, rec := range records {
		m := rec.Date.Month()
		monthCounts[m]++
		quarterCounts[domain.Quarter(m)]++

		season := seasons.ForMonth(m)
		seasonCounts[season]++

		byType := res.TypeBySeason[rec.DisasterType]
		if byType == nil {
			byType = make(map[string]int)
			res.TypeBySeason[rec.DisasterType] = byType
		}
		byType[season]++
	}

	best := -1
	for m := time.January; m <= time.December; m++ {
		mc := MonthCount{Month: m, Name: m.String(), Count: monthCounts[m]}
		res.ByMonth = append(res.ByMonth, mc)
		if mc.Count > best {
			best = mc.Count
			res.TopMonth = mc.Name
		}
	}

	best = -1
	for _, season := range seasons.Order() {
		sc := SeasonCount{Season: season, Count: seasonCounts[season]}
		res.BySeason = append(res.BySeason, sc)
		if sc.Count > best {
			best = sc.Count
			res.TopSeason = sc.Season
		}
	}

	for q := 1; q <= 4; q++ {
		res.ByQuarter = append(res.ByQuarter, QuarterCount{Quarter: q, Count: quarterCounts[q]})
	}

	return res
}
