package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Severity classes derived from deaths and affected counts.
// The four-level scale mirrors the EM-DAT analysis convention: the severity
// score is total deaths plus one hundredth of total affected, bucketed at
// 100, 1,000 and 10,000.
const (
	SeverityLow     = "Low"
	SeverityMedium  = "Medium"
	SeverityHigh    = "High"
	SeverityExtreme = "Extreme"
)

// UnknownPlace is the placeholder for missing country/region values.
// Geography is never statistically imputed; an unknown location stays
// visibly unknown so geographic aggregates do not invent incidence.
const UnknownPlace = "Unknown"

// EventRecord is one disaster occurrence row from the EM-DAT table.
// Pointer fields are nullable source columns; an empty string likewise
// means the value was absent in the source.
type EventRecord struct {
	Year          int    `json:"year"`
	StartYear     *int   `json:"start_year,omitempty"`
	StartMonth    *int   `json:"start_month,omitempty"`
	StartDay      *int   `json:"start_day,omitempty"`
	DisasterType  string `json:"disaster_type,omitempty"`
	Country       string `json:"country,omitempty"`
	Region        string `json:"region,omitempty"`
	Continent     string `json:"continent,omitempty"`
	TotalDeaths   *int   `json:"total_deaths,omitempty"`
	TotalAffected *int   `json:"total_affected,omitempty"`

	// Derived attributes, filled by the transform stages.
	Date     *time.Time `json:"date,omitempty"`
	Severity string     `json:"severity,omitempty"`
	Decade   int        `json:"decade,omitempty"`

	ProcessedAt time.Time `json:"processed_at,omitzero"`
}

// EventKey produces a deterministic key for a cleaned record from its stable
// fields. Deterministic keys keep downstream consumers idempotent: publishing
// the same dataset twice yields the same key per row.
func EventKey(rec EventRecord) string {
	date := ""
	if rec.Date != nil {
		date = rec.Date.Format("2006-01-02")
	}
	input := fmt.Sprintf("%d|%s|%s|%s|%s", rec.Year, rec.DisasterType, rec.Country, rec.Region, date)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:8])
}

// IntPtr returns a pointer to v. Convenience for building records in tests
// and fixtures.
func IntPtr(v int) *int { return &v }
