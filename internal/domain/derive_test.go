package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityClass(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, SeverityLow},
		{99.99, SeverityLow},
		{100, SeverityMedium},
		{999.99, SeverityMedium},
		{1000, SeverityHigh},
		{9999.99, SeverityHigh},
		{10000, SeverityExtreme},
		{5e6, SeverityExtreme},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityClass(tt.score), "score %v", tt.score)
	}
}

func TestDeriveFeatures(t *testing.T) {
	fixed := time.Date(2021, time.September, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	t.Run("severity from deaths and affected", func(t *testing.T) {
		records := []EventRecord{
			{Year: 2001, TotalDeaths: IntPtr(50), TotalAffected: IntPtr(2000)}, // 50 + 20 = 70
			{Year: 2002, TotalDeaths: IntPtr(500)},
			{Year: 2003, TotalAffected: IntPtr(500000)}, // 5000
			{Year: 2004, TotalDeaths: IntPtr(20000)},
			{Year: 2005},
		}
		DeriveFeatures(records)

		assert.Equal(t, SeverityLow, records[0].Severity)
		assert.Equal(t, SeverityMedium, records[1].Severity)
		assert.Equal(t, SeverityHigh, records[2].Severity)
		assert.Equal(t, SeverityExtreme, records[3].Severity)
		assert.Empty(t, records[4].Severity, "both impact columns unknown")
		assert.Equal(t, fixed, records[0].ProcessedAt)
	})

	t.Run("decade properties", func(t *testing.T) {
		years := []int{1970, 1975, 1979, 1980, 1999, 2000, 2001, 2021}
		records := make([]EventRecord, len(years))
		for i, y := range years {
			records[i].Year = y
		}
		DeriveFeatures(records)

		for _, rec := range records {
			assert.LessOrEqual(t, rec.Decade, rec.Year)
			assert.Zero(t, rec.Decade%10)
			assert.Less(t, rec.Year-rec.Decade, 10)
		}
		assert.Equal(t, 1970, records[2].Decade)
		assert.Equal(t, 2020, records[7].Decade)
	})

	t.Run("missing year skips decade but not severity", func(t *testing.T) {
		records := []EventRecord{{TotalDeaths: IntPtr(150)}}
		DeriveFeatures(records)

		assert.Zero(t, records[0].Decade)
		assert.Equal(t, SeverityMedium, records[0].Severity)
	})

	t.Run("severity is monotonic in the inputs", func(t *testing.T) {
		rank := map[string]int{SeverityLow: 0, SeverityMedium: 1, SeverityHigh: 2, SeverityExtreme: 3}
		prev := -1
		for _, deaths := range []int{0, 50, 99, 100, 700, 5000, 9999, 10000, 80000} {
			class := SeverityClass(severityScore(EventRecord{TotalDeaths: IntPtr(deaths)}))
			assert.GreaterOrEqual(t, rank[class], prev, "deaths %d", deaths)
			prev = rank[class]
		}
	})
}

func TestNormalizeImpact(t *testing.T) {
	records := []EventRecord{
		{TotalDeaths: IntPtr(0), TotalAffected: IntPtr(100)},
		{TotalDeaths: IntPtr(50), TotalAffected: nil},
		{TotalDeaths: IntPtr(100), TotalAffected: IntPtr(100)},
	}
	norm := NormalizeImpact(records)

	require.Len(t, norm, 3)
	assert.Equal(t, 0.0, norm[0].Deaths)
	assert.Equal(t, 0.5, norm[1].Deaths)
	assert.Equal(t, 1.0, norm[2].Deaths)
	assert.Equal(t, 0.0, norm[0].Affected, "constant column scales to zero")
	assert.Equal(t, 0.0, norm[1].Affected, "missing value scales to zero")
}

func TestSeasonTable(t *testing.T) {
	tests := []struct {
		month time.Month
		south string
		north string
	}{
		{time.December, "Summer", "Winter"},
		{time.January, "Summer", "Winter"},
		{time.February, "Summer", "Winter"},
		{time.March, "Autumn", "Spring"},
		{time.May, "Autumn", "Spring"},
		{time.June, "Winter", "Summer"},
		{time.August, "Winter", "Summer"},
		{time.September, "Spring", "Autumn"},
		{time.November, "Spring", "Autumn"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.south, SouthernSeasons.ForMonth(tt.month), "south %s", tt.month)
		assert.Equal(t, tt.north, NorthernSeasons.ForMonth(tt.month), "north %s", tt.month)
	}
}

func TestQuarter(t *testing.T) {
	assert.Equal(t, 1, Quarter(time.January))
	assert.Equal(t, 1, Quarter(time.March))
	assert.Equal(t, 2, Quarter(time.April))
	assert.Equal(t, 3, Quarter(time.September))
	assert.Equal(t, 4, Quarter(time.December))
}

func TestEventKey(t *testing.T) {
	date := time.Date(2010, time.February, 27, 0, 0, 0, 0, time.UTC)
	a := EventRecord{Year: 2010, DisasterType: "Earthquake", Country: "Chile", Region: "South America", Date: &date}
	b := a

	assert.Equal(t, EventKey(a), EventKey(b), "same fields produce the same key")

	b.Country = "Peru"
	assert.NotEqual(t, EventKey(a), EventKey(b))

	b = a
	b.Date = nil
	assert.NotEqual(t, EventKey(a), EventKey(b))
}
