package dataset

import (
	"sort"
	"strings"
)

// Validation reports whether the dataset carries the columns the analysis
// needs. Missing columns are a finding, not an error: the orchestrator
// decides whether to stop.
type Validation struct {
	Valid          bool
	MissingColumns []string
	TotalColumns   int
}

// Validate checks the required columns against the dataset header.
func Validate(ds *Dataset) Validation {
	present := make(map[string]struct{}, len(ds.Columns))
	for _, col := range ds.Columns {
		present[strings.TrimSpace(col)] = struct{}{}
	}

	v := Validation{TotalColumns: len(ds.Columns)}
	for _, col := range RequiredColumns {
		if _, ok := present[col]; !ok {
			v.MissingColumns = append(v.MissingColumns, col)
		}
	}
	v.Valid = len(v.MissingColumns) == 0
	return v
}

// ColumnNullShare is the share of blank cells in one column.
type ColumnNullShare struct {
	Column string
	Share  float64 // 0..1
}

// Exploration is the initial profile of a loaded dataset.
type Exploration struct {
	Rows       int
	Cols       int
	MinYear    int
	MaxYear    int
	NullShares []ColumnNullShare // descending, columns with blanks only
}

// Explore profiles the dataset: shape, observed year range, and the columns
// with the highest share of blanks (top 10).
func Explore(ds *Dataset) Exploration {
	ex := Exploration{Rows: len(ds.Records), Cols: len(ds.Columns)}

	for _, rec := range ds.Records {
		if rec.Year == 0 {
			continue
		}
		if ex.MinYear == 0 || rec.Year < ex.MinYear {
			ex.MinYear = rec.Year
		}
		if rec.Year > ex.MaxYear {
			ex.MaxYear = rec.Year
		}
	}

	if ex.Rows > 0 {
		for _, col := range ds.Columns {
			col = strings.TrimSpace(col)
			n := ds.nullCounts[col]
			if n == 0 {
				continue
			}
			ex.NullShares = append(ex.NullShares, ColumnNullShare{
				Column: col,
				Share:  float64(n) / float64(ex.Rows),
			})
		}
		sort.SliceStable(ex.NullShares, func(i, j int) bool {
			return ex.NullShares[i].Share > ex.NullShares[j].Share
		})
		if len(ex.NullShares) > 10 {
			ex.NullShares = ex.NullShares[:10]
		}
	}
	return ex
}
