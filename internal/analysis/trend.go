package analysis

import (
	"sort"

	"github.com/hazelcove/emdat-report/internal/domain"
)

// YearCount is the event count for one year, with the change relative to the
// previous year in the sorted sequence. PctChange is nil for the first year.
type YearCount struct {
	Year      int
	Count     int
	PctChange *float64
}

// TrendResult holds the year-over-year trend of events.
type TrendResult struct {
	ByYear     []YearCount // ascending by year
	ByYearType map[int]map[string]int

	TopTypes   []domain.TypeCount // top 5 by count, ties in first-seen order
	PeakYear   int                // year with the maximum count, earliest wins ties
	MeanChange float64            // mean over the defined percent changes
}

// Trends computes yearly counts, year-over-year percent change, the
// year-by-type breakdown and the five most frequent disaster types. Rows are
// assumed to carry a non-nil unified date.
func Trends(records []domain.EventRecord) TrendResult {
	res := TrendResult{ByYearType: make(map[int]map[string]int)}

	yearCounts := make(map[int]int)
	typeCounts := make(map[string]int)
	var typeOrder []string

	for _, rec := range records {
		year := rec.Date.Year()
		yearCounts[year]++

		byType := res.ByYearType[year]
		if byType == nil {
			byType = make(map[string]int)
			res.ByYearType[year] = byType
		}
		byType[rec.DisasterType]++

		if typeCounts[rec.DisasterType] == 0 {
			typeOrder = append(typeOrder, rec.DisasterType)
		}
		typeCounts[rec.DisasterType]++
	}

	years := make([]int, 0, len(yearCounts))
	for y := range yearCounts {
		years = append(years, y)
	}
	sort.Ints(years)

	sum := 0.0
	defined := 0
	peakCount := -1
	for i, y := range years {
		yc := YearCount{Year: y, Count: yearCounts[y]}
		if i > 0 {
			prev := float64(yearCounts[years[i-1]])
			change := (float64(yc.Count) - prev) / prev * 100
			yc.PctChange = &change
			sum += change
			defined++
		}
		res.ByYear = append(res.ByYear, yc)

		if yc.Count > peakCount {
			peakCount = yc.Count
			res.PeakYear = y
		}
	}
	if defined > 0 {
		res.MeanChange = sum / float64(defined)
	}

	for _, name := range typeOrder {
		res.TopTypes = append(res.TopTypes, domain.TypeCount{Type: name, Count: typeCounts[name]})
	}
	sort.SliceStable(res.TopTypes, func(i, j int) bool {
		return res.TopTypes[i].Count > res.TopTypes[j].Count
	})
	if len(res.TopTypes) > 5 {
		res.TopTypes = res.TopTypes[:5]
	}

	return res
}
