// Package dataset loads the EM-DAT disaster table from disk and turns rows
// into domain records. It owns encoding detection, structural validation,
// and the initial exploration summary; all semantic cleaning happens later
// in the domain package.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/hazelcove/emdat-report/internal/domain"
)

// Source column headers, as shipped in the EM-DAT export.
const (
	ColYear          = "Year"
	ColStartYear     = "Start Year"
	ColStartMonth    = "Start Month"
	ColStartDay      = "Start Day"
	ColDisasterType  = "Disaster Type"
	ColCountry       = "Country"
	ColRegion        = "Region"
	ColContinent     = "Continent"
	ColTotalDeaths   = "Total Deaths"
	ColTotalAffected = "Total Affected"
)

// RequiredColumns must all be present for the analysis to run. Their absence
// is reported through Validate, not as a load failure.
var RequiredColumns = []string{
	ColYear, ColStartMonth, ColDisasterType, ColCountry, ColRegion, ColContinent,
}

// ErrEmptyDataset is returned when the file parses but contains no data rows.
var ErrEmptyDataset = errors.New("dataset is empty")

// Dataset is the loaded table plus enough header/null bookkeeping for
// validation and exploration.
type Dataset struct {
	Path    string
	Columns []string
	Records []domain.EventRecord

	// nullCounts tracks blanks per known column, filled during parsing.
	nullCounts map[string]int
}

// Load reads a delimited or spreadsheet dataset from path. CSV is the
// primary format; .xlsx is accepted because EM-DAT distributes both. CSV
// bytes are decoded as UTF-8 with a Latin-1 fallback when the content is
// not valid UTF-8.
func Load(path string) (*Dataset, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 || len(rows) == 1 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDataset)
	}

	ds := &Dataset{
		Path:       path,
		Columns:    rows[0],
		nullCounts: make(map[string]int),
	}
	index := headerIndex(rows[0])

	for _, row := range rows[1:] {
		ds.Records = append(ds.Records, ds.parseRow(row, index))
	}
	return ds, nil
}

func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDataset)
	}

	// EM-DAT exports are UTF-8 most of the time, but older extracts are
	// Latin-1. Decode the fallback only when the bytes cannot be UTF-8.
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("decode dataset as latin-1: %w", err)
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // ragged rows are tolerated; missing cells parse as blank

	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDataset)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	return rows, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	return index
}

func (ds *Dataset) parseRow(row []string, index map[string]int) domain.EventRecord {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		v := strings.TrimSpace(row[i])
		if v == "" {
			ds.nullCounts[col]++
		}
		return v
	}

	rec := domain.EventRecord{
		DisasterType: cellRaw(row, index, ColDisasterType),
		Country:      cellRaw(row, index, ColCountry),
		Region:       cellRaw(row, index, ColRegion),
		Continent:    cell(ColContinent),
	}
	// Raw text columns keep their whitespace for the cleaner to strip, but
	// blanks still count as nulls.
	for _, col := range []string{ColDisasterType, ColCountry, ColRegion} {
		if strings.TrimSpace(cellRaw(row, index, col)) == "" {
			ds.nullCounts[col]++
		}
	}

	if v, ok := parseIntCell(cell(ColYear)); ok {
		rec.Year = v
	}
	rec.StartYear = parseIntPtr(cell(ColStartYear))
	rec.StartMonth = parseIntPtr(cell(ColStartMonth))
	rec.StartDay = parseIntPtr(cell(ColStartDay))
	rec.TotalDeaths = parseIntPtr(cell(ColTotalDeaths))
	rec.TotalAffected = parseIntPtr(cell(ColTotalAffected))

	return rec
}

func cellRaw(row []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseIntCell coerces a cell to an integer. Spreadsheet exports render
// integer columns as floats ("2003.0"), so a float parse backs up Atoi.
func parseIntCell(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

func parseIntPtr(s string) *int {
	if v, ok := parseIntCell(s); ok {
		return &v
	}
	return nil
}
