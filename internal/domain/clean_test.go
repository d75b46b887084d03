package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typedRecords(types ...string) []EventRecord {
	records := make([]EventRecord, len(types))
	for i, v := range types {
		records[i].DisasterType = v
	}
	return records
}

func TestCleanDisasterType(t *testing.T) {
	t.Run("mode imputation then title casing", func(t *testing.T) {
		records := typedRecords("flood", "", " Flood ")
		stats := CleanDisasterType(records)

		// Trimming happens before the mode is computed, so "flood" and
		// "Flood" each count once and the first-seen value wins the tie.
		assert.Equal(t, 1, stats.Imputed)
		assert.Equal(t, "flood", stats.Mode)
		for _, rec := range records {
			assert.Equal(t, "Flood", rec.DisasterType)
		}
	})

	t.Run("distribution is descending with first-seen tie-break", func(t *testing.T) {
		records := typedRecords("Storm", "Earthquake", "Storm", "Drought", "Earthquake", "Storm")
		stats := CleanDisasterType(records)

		require.Len(t, stats.Distribution, 3)
		assert.Equal(t, TypeCount{Type: "Storm", Count: 3}, stats.Distribution[0])
		assert.Equal(t, TypeCount{Type: "Earthquake", Count: 2}, stats.Distribution[1])
		assert.Equal(t, TypeCount{Type: "Drought", Count: 1}, stats.Distribution[2])
	})

	t.Run("multi-word values are title-cased per word", func(t *testing.T) {
		records := typedRecords("flash flood", "VOLCANIC ACTIVITY")
		CleanDisasterType(records)

		assert.Equal(t, "Flash Flood", records[0].DisasterType)
		assert.Equal(t, "Volcanic Activity", records[1].DisasterType)
	})

	t.Run("all values missing leaves the column empty", func(t *testing.T) {
		records := typedRecords("", "")
		stats := CleanDisasterType(records)

		assert.Equal(t, 2, stats.Imputed)
		assert.Empty(t, stats.Mode)
		assert.Empty(t, records[0].DisasterType)
	})

	t.Run("idempotent on its own output", func(t *testing.T) {
		records := typedRecords("flood", "", " storm ", "STORM")
		CleanDisasterType(records)

		before := append([]EventRecord(nil), records...)
		stats := CleanDisasterType(records)

		assert.Zero(t, stats.Imputed)
		assert.Equal(t, before, records)
	})
}

func TestCleanGeography(t *testing.T) {
	records := []EventRecord{
		{Country: " Chile ", Region: "South America", Continent: " Americas"},
		{Country: "", Region: ""},
		{Country: "Chile", Region: "South America"},
	}
	stats := CleanGeography(records)

	assert.Equal(t, 1, stats.ImputedCountries)
	assert.Equal(t, 1, stats.ImputedRegions)
	assert.Equal(t, 2, stats.Countries, "Chile and Unknown")
	assert.Equal(t, 2, stats.Regions)

	assert.Equal(t, "Chile", records[0].Country)
	assert.Equal(t, "Americas", records[0].Continent)
	assert.Equal(t, UnknownPlace, records[1].Country)
	assert.Equal(t, UnknownPlace, records[1].Region)
}

func TestImputeNumeric(t *testing.T) {
	build := func() []EventRecord {
		return []EventRecord{
			{TotalDeaths: IntPtr(10)},
			{TotalDeaths: IntPtr(30)},
			{TotalDeaths: nil},
			{TotalDeaths: IntPtr(10)},
		}
	}

	t.Run("mean", func(t *testing.T) {
		records := build()
		stats, err := ImputeNumeric(records, FieldTotalDeaths, StrategyMean)

		require.NoError(t, err)
		assert.Equal(t, 1, stats.Imputed)
		assert.Equal(t, 17, stats.Value) // round(50/3)
		require.NotNil(t, records[2].TotalDeaths)
		assert.Equal(t, 17, *records[2].TotalDeaths)
	})

	t.Run("median", func(t *testing.T) {
		records := build()
		stats, err := ImputeNumeric(records, FieldTotalDeaths, StrategyMedian)

		require.NoError(t, err)
		assert.Equal(t, 10, stats.Value)
	})

	t.Run("mode", func(t *testing.T) {
		records := build()
		stats, err := ImputeNumeric(records, FieldTotalDeaths, StrategyMode)

		require.NoError(t, err)
		assert.Equal(t, 10, stats.Value)
	})

	t.Run("zero", func(t *testing.T) {
		records := build()
		stats, err := ImputeNumeric(records, FieldTotalDeaths, StrategyZero)

		require.NoError(t, err)
		assert.Zero(t, stats.Value)
		require.NotNil(t, records[2].TotalDeaths)
		assert.Zero(t, *records[2].TotalDeaths)
	})

	t.Run("unknown strategy falls back to mean", func(t *testing.T) {
		records := build()
		stats, err := ImputeNumeric(records, FieldTotalDeaths, Strategy("p95"))

		require.NoError(t, err)
		assert.True(t, stats.FellBack)
		assert.Equal(t, StrategyMean, stats.Strategy)
		assert.Equal(t, 17, stats.Value)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := ImputeNumeric(build(), NumericField("gdp"), StrategyMean)
		require.Error(t, err)
	})

	t.Run("column with no values is left alone", func(t *testing.T) {
		records := []EventRecord{{}, {}}
		stats, err := ImputeNumeric(records, FieldTotalAffected, StrategyMean)

		require.NoError(t, err)
		assert.Zero(t, stats.Imputed)
		assert.Nil(t, records[0].TotalAffected)
	})
}
