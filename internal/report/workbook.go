package report

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/hazelcove/emdat-report/internal/domain"
)

// Sheet names of the summary workbook.
const (
	sheetSummary  = "Summary"
	sheetByMonth  = "By Month"
	sheetBySeason = "By Season"
	sheetByYear   = "By Year"
	sheetTopTypes = "Top Types"
	sheetImpact   = "Impact"
)

// WriteWorkbook saves the aggregate tables as a multi-sheet workbook with a
// monthly-distribution chart, the tabular companion to the rendered charts.
func WriteWorkbook(path string, in Input) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	if err := writeSummarySheet(f, in); err != nil {
		return err
	}
	if err := writeMonthSheet(f, in); err != nil {
		return err
	}
	if err := writeSeasonSheet(f, in); err != nil {
		return err
	}
	if err := writeYearSheet(f, in); err != nil {
		return err
	}
	if err := writeTopTypesSheet(f, in); err != nil {
		return err
	}
	if err := writeImpactSheet(f, in); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, in Input) error {
	rows := [][]any{
		{"Total events", len(in.Full)},
		{"Events in window", len(in.Recent)},
		{"Most frequent month", in.Seasonal.TopMonth},
		{"Most frequent season", in.Seasonal.TopSeason},
		{"Peak year", in.Trends.PeakYear},
		{"Mean yearly change (%)", in.Trends.MeanChange},
	}
	return writeRows(f, sheetSummary, [][]any{{"Metric", "Value"}}, rows)
}

func writeMonthSheet(f *excelize.File, in Input) error {
	var rows [][]any
	for _, mc := range in.Seasonal.ByMonth {
		rows = append(rows, []any{mc.Name, mc.Count})
	}
	if err := newSheet(f, sheetByMonth); err != nil {
		return err
	}
	if err := writeRows(f, sheetByMonth, [][]any{{"Month", "Events"}}, rows); err != nil {
		return err
	}

	if len(rows) == 0 {
		return nil
	}
	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       "Events",
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheetByMonth, len(rows)+1),
			Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheetByMonth, len(rows)+1),
		}},
		Title: []excelize.RichTextRun{{Text: "Events by month"}},
	}
	if err := f.AddChart(sheetByMonth, "D2", chart); err != nil {
		return fmt.Errorf("workbook chart: %w", err)
	}
	return nil
}

func writeSeasonSheet(f *excelize.File, in Input) error {
	var rows [][]any
	for _, sc := range in.Seasonal.BySeason {
		rows = append(rows, []any{sc.Season, sc.Count})
	}
	if err := newSheet(f, sheetBySeason); err != nil {
		return err
	}
	return writeRows(f, sheetBySeason, [][]any{{"Season", "Events"}}, rows)
}

func writeYearSheet(f *excelize.File, in Input) error {
	var rows [][]any
	for _, yc := range in.Trends.ByYear {
		row := []any{yc.Year, yc.Count, nil}
		if yc.PctChange != nil {
			row[2] = *yc.PctChange
		}
		rows = append(rows, row)
	}
	if err := newSheet(f, sheetByYear); err != nil {
		return err
	}
	return writeRows(f, sheetByYear, [][]any{{"Year", "Events", "Change (%)"}}, rows)
}

func writeTopTypesSheet(f *excelize.File, in Input) error {
	var rows [][]any
	for _, tc := range in.Trends.TopTypes {
		rows = append(rows, []any{tc.Type, tc.Count})
	}
	if err := newSheet(f, sheetTopTypes); err != nil {
		return err
	}
	return writeRows(f, sheetTopTypes, [][]any{{"Disaster Type", "Events"}}, rows)
}

// writeImpactSheet lists the ten deadliest events with min-max normalized
// impact columns, scaled over the full table.
func writeImpactSheet(f *excelize.File, in Input) error {
	norm := domain.NormalizeImpact(in.Full)

	idx := make([]int, len(in.Full))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return deathsOf(in.Full[idx[a]]) > deathsOf(in.Full[idx[b]])
	})
	if len(idx) > 10 {
		idx = idx[:10]
	}

	var rows [][]any
	for _, i := range idx {
		rec := in.Full[i]
		rows = append(rows, []any{
			rec.Year, rec.DisasterType, rec.Country,
			deathsOf(rec), norm[i].Deaths, norm[i].Affected, rec.Severity,
		})
	}
	if err := newSheet(f, sheetImpact); err != nil {
		return err
	}
	header := [][]any{{"Year", "Disaster Type", "Country", "Total Deaths", "Deaths (scaled)", "Affected (scaled)", "Severity"}}
	return writeRows(f, sheetImpact, header, rows)
}

func deathsOf(rec domain.EventRecord) int {
	if rec.TotalDeaths == nil {
		return 0
	}
	return *rec.TotalDeaths
}

func newSheet(f *excelize.File, name string) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("workbook sheet %s: %w", name, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, header, rows [][]any) error {
	all := append(append([][]any{}, header...), rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("workbook: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("workbook row: %w", err)
		}
	}
	return nil
}
