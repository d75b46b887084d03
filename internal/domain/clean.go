package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// TypeCount is one disaster-type frequency entry.
type TypeCount struct {
	Type  string
	Count int
}

// TypeCleanStats reports what CleanDisasterType changed, so the orchestrator
// can surface imputation counts and the category distribution. Downstream
// checks depend on these numbers being exact, not on log text.
type TypeCleanStats struct {
	Imputed      int
	Mode         string
	Distribution []TypeCount // descending by count, ties in first-seen order
}

// CleanDisasterType normalizes the disaster-type field in place: trims
// whitespace, fills missing values with the column mode, then title-cases
// every value. When several values tie for the mode, the first one to reach
// the winning count in input order is used; the choice is deterministic for
// a given input ordering.
func CleanDisasterType(records []EventRecord) TypeCleanStats {
	for i := range records {
		records[i].DisasterType = strings.TrimSpace(records[i].DisasterType)
	}

	counts := make(map[string]int)
	var seen []string
	missing := 0
	for i := range records {
		v := records[i].DisasterType
		if v == "" {
			missing++
			continue
		}
		if counts[v] == 0 {
			seen = append(seen, v)
		}
		counts[v]++
	}

	stats := TypeCleanStats{Imputed: missing}

	mode := ""
	best := 0
	for _, v := range seen {
		if counts[v] > best {
			mode = v
			best = counts[v]
		}
	}
	if missing > 0 && mode != "" {
		for i := range records {
			if records[i].DisasterType == "" {
				records[i].DisasterType = mode
			}
		}
		counts[mode] += missing
	}
	stats.Mode = mode

	for i := range records {
		records[i].DisasterType = titleCaser.String(records[i].DisasterType)
	}

	// Rebuild the distribution over the final title-cased values, keeping
	// first-seen order as the tie-break.
	titled := make(map[string]int, len(seen))
	var titledOrder []string
	for _, v := range seen {
		tv := titleCaser.String(v)
		if _, ok := titled[tv]; !ok {
			titledOrder = append(titledOrder, tv)
		}
		titled[tv] += counts[v]
	}
	for _, v := range titledOrder {
		stats.Distribution = append(stats.Distribution, TypeCount{Type: v, Count: titled[v]})
	}
	sort.SliceStable(stats.Distribution, func(i, j int) bool {
		return stats.Distribution[i].Count > stats.Distribution[j].Count
	})

	return stats
}

// GeoCleanStats reports the geography cleanup outcome.
type GeoCleanStats struct {
	ImputedCountries int
	ImputedRegions   int
	Countries        int // distinct after cleaning
	Regions          int
}

// CleanGeography trims country and region values and replaces missing ones
// with the "Unknown" placeholder. Locations are never imputed from the mode:
// a record without a country must not inflate whichever country happens to
// be most frequent.
func CleanGeography(records []EventRecord) GeoCleanStats {
	var stats GeoCleanStats
	countries := make(map[string]struct{})
	regions := make(map[string]struct{})

	for i := range records {
		rec := &records[i]

		rec.Country = strings.TrimSpace(rec.Country)
		if rec.Country == "" {
			rec.Country = UnknownPlace
			stats.ImputedCountries++
		}
		countries[rec.Country] = struct{}{}

		rec.Region = strings.TrimSpace(rec.Region)
		if rec.Region == "" {
			rec.Region = UnknownPlace
			stats.ImputedRegions++
		}
		regions[rec.Region] = struct{}{}

		rec.Continent = strings.TrimSpace(rec.Continent)
	}

	stats.Countries = len(countries)
	stats.Regions = len(regions)
	return stats
}

// Strategy selects how ImputeNumeric fills missing values.
type Strategy string

const (
	StrategyMean   Strategy = "mean"
	StrategyMedian Strategy = "median"
	StrategyMode   Strategy = "mode"
	StrategyZero   Strategy = "zero"
)

// NumericField names an imputable numeric column of EventRecord.
type NumericField string

const (
	FieldTotalDeaths   NumericField = "total_deaths"
	FieldTotalAffected NumericField = "total_affected"
)

// ImputeStats reports a numeric imputation pass.
type ImputeStats struct {
	Field    NumericField
	Strategy Strategy // strategy actually applied
	FellBack bool     // true when an unknown strategy fell back to mean
	Imputed  int
	Value    int
}

// ImputeNumeric fills missing values of the chosen numeric column in place.
// An unrecognized strategy name is not an error: it degrades to mean with
// FellBack set so the caller can warn.
func ImputeNumeric(records []EventRecord, field NumericField, strategy Strategy) (ImputeStats, error) {
	stats := ImputeStats{Field: field, Strategy: strategy}

	switch strategy {
	case StrategyMean, StrategyMedian, StrategyMode, StrategyZero:
	default:
		stats.Strategy = StrategyMean
		stats.FellBack = true
	}

	get, err := fieldAccessor(field)
	if err != nil {
		return stats, err
	}

	var present []int
	for i := range records {
		if p := get(&records[i]); *p != nil {
			present = append(present, **p)
		}
	}
	if len(present) == 0 && stats.Strategy != StrategyZero {
		// Nothing to derive a fill value from; leave the column alone.
		return stats, nil
	}

	switch stats.Strategy {
	case StrategyMean:
		sum := 0
		for _, v := range present {
			sum += v
		}
		stats.Value = int(math.Round(float64(sum) / float64(len(present))))
	case StrategyMedian:
		sorted := append([]int(nil), present...)
		sort.Ints(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			stats.Value = (sorted[mid-1] + sorted[mid]) / 2
		} else {
			stats.Value = sorted[mid]
		}
	case StrategyMode:
		counts := make(map[int]int)
		best := 0
		for _, v := range present {
			counts[v]++
			if counts[v] > best {
				best = counts[v]
				stats.Value = v
			}
		}
	case StrategyZero:
		stats.Value = 0
	}

	for i := range records {
		p := get(&records[i])
		if *p == nil {
			v := stats.Value
			*p = &v
			stats.Imputed++
		}
	}
	return stats, nil
}

func fieldAccessor(field NumericField) (func(*EventRecord) **int, error) {
	switch field {
	case FieldTotalDeaths:
		return func(r *EventRecord) **int { return &r.TotalDeaths }, nil
	case FieldTotalAffected:
		return func(r *EventRecord) **int { return &r.TotalAffected }, nil
	default:
		return nil, fmt.Errorf("unknown numeric field %q", field)
	}
}
