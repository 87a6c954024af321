package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gauthk/dataconsole/internal/security"
)

// loadCSV parses path with encoding/csv. The reader's default per-record
// field-count check stays on, so a row with a different column count than the
// header surfaces the parser's structural error wrapped in ErrMalformed.
func loadCSV(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Dataset{}, security.ErrNotFound
		}
		return Dataset{}, fmt.Errorf("tabular: open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err == io.EOF {
		return Dataset{}, fmt.Errorf("%w: empty file", ErrMalformed)
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := validateHeader(header); err != nil {
		return Dataset{}, err
	}

	ds := Dataset{Columns: header}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}
