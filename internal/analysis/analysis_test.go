package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazelcove/emdat-report/internal/domain"
)

// eventOn builds a record with a unified date and a disaster type.
func eventOn(year int, month time.Month, day int, disasterType string) domain.EventRecord {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return domain.EventRecord{Year: year, DisasterType: disasterType, Date: &d}
}

// eventsPerYear builds n records dated June 15 of the given year.
func eventsPerYear(year, n int) []domain.EventRecord {
	out := make([]domain.EventRecord, n)
	for i := range out {
		out[i] = eventOn(year, time.June, 15, "Flood")
	}
	return out
}

func TestFilterRecentYears(t *testing.T) {
	t.Run("keeps the last n years inclusive", func(t *testing.T) {
		var records []domain.EventRecord
		for y := 1970; y <= 2021; y++ {
			records = append(records, eventOn(y, time.March, 1, "Storm"))
		}

		recent := FilterRecentYears(records, 20)

		require.Len(t, recent, 21, "2001 through 2021 inclusive")
		minYear, maxYear := 9999, 0
		for _, rec := range recent {
			y := rec.Date.Year()
			if y < minYear {
				minYear = y
			}
			if y > maxYear {
				maxYear = y
			}
		}
		assert.Equal(t, 2001, minYear)
		assert.Equal(t, 2021, maxYear)
	})

	t.Run("drops records without a date", func(t *testing.T) {
		records := []domain.EventRecord{
			eventOn(2020, time.May, 1, "Flood"),
			{Year: 2020}, // no unified date
		}
		recent := FilterRecentYears(records, 5)
		assert.Len(t, recent, 1)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		records := []domain.EventRecord{eventOn(2020, time.May, 1, "Flood")}
		_ = FilterRecentYears(records, 0)
		assert.NotNil(t, records[0].Date)
		assert.Len(t, records, 1)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, FilterRecentYears(nil, 20))
	})
}

func TestSeasonal(t *testing.T) {
	records := []domain.EventRecord{
		eventOn(2020, time.January, 10, "Flood"),
		eventOn(2020, time.January, 20, "Storm"),
		eventOn(2020, time.February, 5, "Flood"),
		eventOn(2020, time.July, 1, "Drought"),
		eventOn(2021, time.October, 3, "Storm"),
	}

	res := Seasonal(records, domain.SouthernSeasons)

	require.Len(t, res.ByMonth, 12)
	assert.Equal(t, MonthCount{Month: time.January, Name: "January", Count: 2}, res.ByMonth[0])
	assert.Equal(t, 1, res.ByMonth[1].Count)
	assert.Equal(t, 0, res.ByMonth[2].Count, "empty months are present with zero")

	assert.Equal(t, "January", res.TopMonth)
	assert.Equal(t, "Summer", res.TopSeason)

	bySeason := make(map[string]int)
	for _, sc := range res.BySeason {
		bySeason[sc.Season] = sc.Count
	}
	assert.Equal(t, map[string]int{"Summer": 3, "Autumn": 0, "Winter": 1, "Spring": 1}, bySeason)

	byQuarter := make(map[int]int)
	for _, qc := range res.ByQuarter {
		byQuarter[qc.Quarter] = qc.Count
	}
	assert.Equal(t, map[int]int{1: 3, 2: 0, 3: 1, 4: 1}, byQuarter)

	assert.Equal(t, 2, res.TypeBySeason["Flood"]["Summer"])
	assert.Equal(t, 1, res.TypeBySeason["Storm"]["Summer"])
	assert.Equal(t, 1, res.TypeBySeason["Storm"]["Spring"])
	assert.Equal(t, 1, res.TypeBySeason["Drought"]["Winter"])
}

func TestSeasonal_TieBreaks(t *testing.T) {
	// One event in March and one in July: the earlier month wins the tie,
	// and with the southern mapping Autumn precedes Winter.
	records := []domain.EventRecord{
		eventOn(2020, time.July, 1, "Flood"),
		eventOn(2020, time.March, 1, "Flood"),
	}
	res := Seasonal(records, domain.SouthernSeasons)

	assert.Equal(t, "March", res.TopMonth)
	assert.Equal(t, "Autumn", res.TopSeason)
}

func TestTrends(t *testing.T) {
	var records []domain.EventRecord
	records = append(records, eventsPerYear(2019, 10)...)
	records = append(records, eventsPerYear(2020, 20)...)
	records = append(records, eventsPerYear(2021, 15)...)

	res := Trends(records)

	require.Len(t, res.ByYear, 3)
	assert.Equal(t, 2019, res.ByYear[0].Year)
	assert.Nil(t, res.ByYear[0].PctChange, "first year has no previous year")

	require.NotNil(t, res.ByYear[1].PctChange)
	assert.InDelta(t, 100.0, *res.ByYear[1].PctChange, 1e-9)
	require.NotNil(t, res.ByYear[2].PctChange)
	assert.InDelta(t, -25.0, *res.ByYear[2].PctChange, 1e-9)

	assert.Equal(t, 2020, res.PeakYear)
	assert.InDelta(t, 37.5, res.MeanChange, 1e-9, "mean of the defined changes only")
}

func TestTrends_PeakTieBreak(t *testing.T) {
	var records []domain.EventRecord
	records = append(records, eventsPerYear(2018, 5)...)
	records = append(records, eventsPerYear(2019, 5)...)

	res := Trends(records)
	assert.Equal(t, 2018, res.PeakYear, "earliest year wins the tie")
}

func TestTrends_TopTypes(t *testing.T) {
	records := []domain.EventRecord{
		eventOn(2020, time.January, 1, "Storm"),
		eventOn(2020, time.January, 2, "Storm"),
		eventOn(2020, time.January, 3, "Flood"),
		eventOn(2020, time.January, 4, "Flood"),
		eventOn(2020, time.January, 5, "Drought"),
		eventOn(2020, time.January, 6, "Earthquake"),
		eventOn(2020, time.January, 7, "Wildfire"),
		eventOn(2020, time.January, 8, "Landslide"),
	}

	res := Trends(records)

	require.Len(t, res.TopTypes, 5)
	assert.Equal(t, domain.TypeCount{Type: "Storm", Count: 2}, res.TopTypes[0])
	assert.Equal(t, domain.TypeCount{Type: "Flood", Count: 2}, res.TopTypes[1], "tie keeps first-seen order")
	assert.Equal(t, "Drought", res.TopTypes[2].Type)

	assert.Equal(t, 2, res.ByYearType[2020]["Storm"])
	assert.Equal(t, 1, res.ByYearType[2020]["Wildfire"])
}

func TestTrends_SingleYear(t *testing.T) {
	res := Trends(eventsPerYear(2021, 3))

	require.Len(t, res.ByYear, 1)
	assert.Nil(t, res.ByYear[0].PctChange)
	assert.Zero(t, res.MeanChange)
	assert.Equal(t, 2021, res.PeakYear)
}
