package domain

// severityScore is deaths + 0.01×affected, with missing values counted as 0.
func severityScore(rec EventRecord) float64 {
	score := 0.0
	if rec.TotalDeaths != nil {
		score += float64(*rec.TotalDeaths)
	}
	if rec.TotalAffected != nil {
		score += 0.01 * float64(*rec.TotalAffected)
	}
	return score
}

// SeverityClass buckets a severity score. Upper bounds are exclusive; the
// top bucket is open-ended.
func SeverityClass(score float64) string {
	switch {
	case score < 100:
		return SeverityLow
	case score < 1000:
		return SeverityMedium
	case score < 10000:
		return SeverityHigh
	default:
		return SeverityExtreme
	}
}

// DeriveFeatures computes the severity class and decade for every record in
// place and stamps ProcessedAt. Severity stays empty when both deaths and
// affected are unknown; the decade stays zero when the year is absent. The
// two derivations are independent, so a missing year never blocks severity.
func DeriveFeatures(records []EventRecord) {
	now := clock.Now()
	for i := range records {
		rec := &records[i]

		if rec.TotalDeaths != nil || rec.TotalAffected != nil {
			rec.Severity = SeverityClass(severityScore(*rec))
		}
		if rec.Year != 0 {
			rec.Decade = (rec.Year / 10) * 10
		}
		rec.ProcessedAt = now
	}
}

// NormalizedImpact holds min-max scaled impact figures for one record.
type NormalizedImpact struct {
	Deaths   float64
	Affected float64
}

// NormalizeImpact min-max scales deaths and affected across the table.
// Records with a missing value get 0 for that component; a constant column
// scales to 0 everywhere. The input table is not mutated.
func NormalizeImpact(records []EventRecord) []NormalizedImpact {
	out := make([]NormalizedImpact, len(records))

	deathScale := minMax(records, func(r EventRecord) *int { return r.TotalDeaths })
	affectedScale := minMax(records, func(r EventRecord) *int { return r.TotalAffected })

	for i, rec := range records {
		if rec.TotalDeaths != nil {
			out[i].Deaths = deathScale.scale(*rec.TotalDeaths)
		}
		if rec.TotalAffected != nil {
			out[i].Affected = affectedScale.scale(*rec.TotalAffected)
		}
	}
	return out
}

type scaleRange struct {
	min, max int
	any      bool
}

func minMax(records []EventRecord, get func(EventRecord) *int) scaleRange {
	var r scaleRange
	for _, rec := range records {
		v := get(rec)
		if v == nil {
			continue
		}
		if !r.any || *v < r.min {
			r.min = *v
		}
		if !r.any || *v > r.max {
			r.max = *v
		}
		r.any = true
	}
	return r
}

func (r scaleRange) scale(v int) float64 {
	if !r.any || r.max == r.min {
		return 0
	}
	return float64(v-r.min) / float64(r.max-r.min)
}
