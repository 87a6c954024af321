// Package tabular loads delimited files from the data root into an in-memory
// dataset and computes summaries and predicate filters over it. Datasets are
// built fresh per call and never persisted.
package tabular

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMalformed indicates the file content cannot be parsed as tabular data.
// The parser's structural error is surfaced as-is; no auto-repair is
// attempted.
var ErrMalformed = errors.New("tabular: malformed tabular data")

// ErrUnsupported indicates the file extension has no registered loader.
var ErrUnsupported = errors.New("tabular: unsupported file type")

// ErrColumnNotFound indicates a filter referenced a column the dataset lacks.
var ErrColumnNotFound = errors.New("tabular: column not found")

// ErrTooManyRows indicates the file holds more rows than the configured cap.
var ErrTooManyRows = errors.New("tabular: dataset exceeds configured row limit")

// Dataset is an ordered tabular structure: a shared header and string cells.
// Missing values are empty strings.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// Summary reports row count, header order, and missing cells per column.
type Summary struct {
	Rows          int            `json:"rows"`
	Columns       []string       `json:"columns"`
	MissingValues map[string]int `json:"missing_values"`
}

// FilterResult reports matching rows and a bounded preview. Columns carries
// the dataset's header order so renderers can lay out preview rows stably.
type FilterResult struct {
	RowsFound int              `json:"rows_found"`
	Preview   []map[string]any `json:"preview"`
	Columns   []string         `json:"-"`
}

// Service analyzes tabular files. maxRows bounds how many data rows a single
// file may contribute; previewRows bounds filter previews.
type Service struct {
	maxRows     int
	previewRows int
}

// NewService constructs a Service with the given bounds.
func NewService(maxRows, previewRows int) *Service {
	return &Service{maxRows: maxRows, previewRows: previewRows}
}

// Load builds a Dataset from path, dispatching on extension. Supported:
// .csv and .xlsx.
func (s *Service) Load(path string) (Dataset, error) {
	var (
		ds  Dataset
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		ds, err = loadCSV(path)
	case ".xlsx":
		ds, err = loadXLSX(path)
	default:
		return Dataset{}, fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(path))
	}
	if err != nil {
		return Dataset{}, err
	}
	if s.maxRows > 0 && len(ds.Rows) > s.maxRows {
		return Dataset{}, fmt.Errorf("%w: %d rows (max %d)", ErrTooManyRows, len(ds.Rows), s.maxRows)
	}
	return ds, nil
}

// Summarize loads path and reports shape and missing-value counts. A cell is
// missing iff it is the empty string.
func (s *Service) Summarize(path string) (Summary, error) {
	ds, err := s.Load(path)
	if err != nil {
		return Summary{}, err
	}
	missing := make(map[string]int, len(ds.Columns))
	for _, col := range ds.Columns {
		missing[col] = 0
	}
	for _, row := range ds.Rows {
		for i, cell := range row {
			if cell == "" {
				missing[ds.Columns[i]]++
			}
		}
	}
	return Summary{Rows: len(ds.Rows), Columns: ds.Columns, MissingValues: missing}, nil
}

// Filter loads path and returns rows whose column equals value, with a
// preview of the first matches. When both the cell and the filter value parse
// as numbers the comparison is numeric, so "34" matches "34.0"; otherwise
// cells match by exact string equality.
func (s *Service) Filter(path, column, value string) (FilterResult, error) {
	ds, err := s.Load(path)
	if err != nil {
		return FilterResult{}, err
	}
	colIdx := -1
	for i, c := range ds.Columns {
		if c == column {
			colIdx = i
			break
		}
	}
	if colIdx < 0 {
		return FilterResult{}, fmt.Errorf("%w: column %q not found", ErrColumnNotFound, column)
	}

	res := FilterResult{Preview: []map[string]any{}, Columns: ds.Columns}
	for _, row := range ds.Rows {
		if !cellsEqual(row[colIdx], value) {
			continue
		}
		res.RowsFound++
		if len(res.Preview) < s.previewRows {
			res.Preview = append(res.Preview, previewRow(ds.Columns, row))
		}
	}
	return res, nil
}

// cellsEqual compares a stored cell against the caller's filter value,
// numerically when both sides parse as floats.
func cellsEqual(cell, value string) bool {
	cf, cerr := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	vf, verr := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if cerr == nil && verr == nil {
		return cf == vf
	}
	return cell == value
}

// previewRow types cells for presentation: numeric strings become float64,
// empty cells become nil, everything else stays a string.
func previewRow(columns []string, row []string) map[string]any {
	out := make(map[string]any, len(columns))
	for i, col := range columns {
		cell := row[i]
		switch {
		case cell == "":
			out[col] = nil
		default:
			if f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
				out[col] = f
			} else {
				out[col] = cell
			}
		}
	}
	return out
}

// validateHeader rejects empty and duplicate column names shared by both
// loaders.
func validateHeader(columns []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("%w: no header row", ErrMalformed)
	}
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if c == "" {
			return fmt.Errorf("%w: empty column name in header", ErrMalformed)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: duplicate column %q", ErrMalformed, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}
