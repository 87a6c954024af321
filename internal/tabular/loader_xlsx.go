package tabular

import (
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/gauthk/dataconsole/internal/security"
)

// loadXLSX reads the first sheet of a workbook through excelize's streaming
// row iterator. The first row is the header; short data rows are padded with
// empty cells, and rows wider than the header are structural errors to match
// the CSV loader's strictness.
func loadXLSX(path string) (Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Dataset{}, security.ErrNotFound
		}
		return Dataset{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Dataset{}, fmt.Errorf("%w: workbook has no sheets", ErrMalformed)
	}

	r, err := f.Rows(sheets[0])
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer func() { _ = r.Close() }()

	var ds Dataset
	for r.Next() {
		cells, err := r.Columns()
		if err != nil {
			return Dataset{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if ds.Columns == nil {
			if err := validateHeader(cells); err != nil {
				return Dataset{}, err
			}
			ds.Columns = cells
			continue
		}
		if len(cells) > len(ds.Columns) {
			return Dataset{}, fmt.Errorf("%w: row %d has %d cells, header has %d", ErrMalformed, len(ds.Rows)+2, len(cells), len(ds.Columns))
		}
		for len(cells) < len(ds.Columns) {
			cells = append(cells, "")
		}
		ds.Rows = append(ds.Rows, cells)
	}
	if err := r.Error(); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if ds.Columns == nil {
		return Dataset{}, fmt.Errorf("%w: empty file", ErrMalformed)
	}
	return ds, nil
}
