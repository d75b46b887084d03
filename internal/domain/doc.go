// Package domain models historical natural-disaster records from the EM-DAT
// international disaster database export (1970-2021).
//
// # Data Source
//
// Rows come from the EM-DAT public table published by CRED
// (https://www.emdat.be), one row per disaster occurrence. The export is a
// delimited file whose encoding is usually UTF-8 but occasionally Latin-1;
// loading and decoding live in the dataset package.
//
// # Column Conventions
//
// Temporal columns:
//
//	"Year" is always populated. "Start Year", "Start Month" and "Start Day"
//	are frequently blank, especially for slow-onset disasters (droughts
//	rarely have a start day). The unified date falls back to the Year column
//	and to January 1 for missing month/day; see [UnifyDates]. An impossible
//	combination (day 31 in February) leaves the record's date nil rather
//	than dropping the record.
//
// Categorical columns:
//
//	"Disaster Type" is free text with inconsistent casing and stray
//	whitespace. After trimming, blanks are filled with the column mode and
//	everything is title-cased; see [CleanDisasterType]. "Country" and
//	"Region" blanks become the literal "Unknown" — geography is never
//	statistically imputed, because a fabricated location would distort the
//	geographic aggregates that the report builds on.
//
// Impact columns:
//
//	"Total Deaths" and "Total Affected" are nullable non-negative counts.
//	A blank means unreported, not zero; the distinction matters for the
//	severity class, which stays empty when both are unknown.
//
// # Severity Classification
//
// severity score = total deaths + 0.01 × total affected (blanks count as 0)
//
//	Low     score < 100
//	Medium  100 ≤ score < 1000
//	High    1000 ≤ score < 10000
//	Extreme score ≥ 10000
//
// # Seasons
//
// Season assignment follows the Southern-Hemisphere convention by default
// (December-February is Summer), carried over from the analysis this
// pipeline reproduces. The mapping is a [SeasonTable] value handed to the
// aggregator, not a global.
package domain
