package nzmap

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// PopulationSchema names the columns of a population table. Headers must
// match verbatim; a renamed column is a SchemaError, never a silent null.
type PopulationSchema struct {
	Territory     string `mapstructure:"territory"`
	Year          string `mapstructure:"year"`
	Population    string `mapstructure:"population"`
	ChangeCount   string `mapstructure:"change_count"`
	ChangePercent string `mapstructure:"change_percent"`
}

func (s PopulationSchema) columns() []string {
	return []string{s.Territory, s.Year, s.Population, s.ChangeCount, s.ChangePercent}
}

// LoadPopulation reads an ordered slice of PopulationRecord from a
// delimited table (.csv) or a spreadsheet (.xlsx, first sheet). The first
// row is the header; it must contain every column the schema names.
func LoadPopulation(path string, schema PopulationSchema) ([]PopulationRecord, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSVRows(path)
	case ".xlsx":
		rows, err = readXLSXRows(path)
	default:
		return nil, &LoadError{
			Path: path,
			Err:  fmt.Errorf("unsupported table format %q", filepath.Ext(path)),
		}
	}
	if err != nil {
		return nil, err
	}
	return parsePopulationRows(path, rows, schema)
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return rows, nil
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("workbook has no sheets")}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return rows, nil
}

func parsePopulationRows(path string, rows [][]string, schema PopulationSchema) ([]PopulationRecord, error) {
	if len(rows) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("empty table")}
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, col := range schema.columns() {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Path: path, Missing: missing}
	}

	cell := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			// xlsx rows omit trailing empty cells
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]PopulationRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		rec := PopulationRecord{Territory: cell(row, schema.Territory)}

		year, err := strconv.Atoi(cell(row, schema.Year))
		if err != nil {
			return nil, rowError(path, n+2, schema.Year, err)
		}
		rec.Year = year

		pop, err := parseCount(cell(row, schema.Population))
		if err != nil {
			return nil, rowError(path, n+2, schema.Population, err)
		}
		if pop < 0 {
			return nil, rowError(path, n+2, schema.Population,
				fmt.Errorf("negative population %d", pop))
		}
		rec.Population = pop

		if v := cell(row, schema.ChangeCount); !nullCell(v) {
			c, err := parseCount(v)
			if err != nil {
				return nil, rowError(path, n+2, schema.ChangeCount, err)
			}
			rec.ChangeCount = &c
		}
		if v := cell(row, schema.ChangePercent); !nullCell(v) {
			p, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, rowError(path, n+2, schema.ChangePercent, err)
			}
			rec.ChangePercent = &p
		}

		records = append(records, rec)
	}
	return records, nil
}

// nullCell reports whether a change-field cell means "no value".
// Stats tables use empty cells and "-" placeholders interchangeably.
func nullCell(v string) bool { return v == "" || v == "-" }

// parseCount parses an integer count, tolerating the thousands
// separators that population tables routinely carry.
func parseCount(v string) (int64, error) {
	return strconv.ParseInt(strings.ReplaceAll(v, ",", ""), 10, 64)
}

func rowError(path string, row int, col string, err error) *LoadError {
	return &LoadError{Path: path, Err: fmt.Errorf("row %d, column %q: %w", row, col, err)}
}
