package lease

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Row is one raw record from the lease log, keyed by header column.
// Columns absent from a short row read as the empty string.
type Row map[string]string

// Source reads the Kea memfile lease log (CSV with a header row). Every
// call re-opens and re-parses the file; nothing is cached.
type Source struct {
	path string
}

// NewSource creates a record source for the given lease file path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Path returns the configured lease file path.
func (s *Source) Path() string {
	return s.path
}

// Rows reads the full lease log and returns its records in file order.
// A missing file yields ErrSourceNotFound; other failures yield
// ErrReadFailure with the cause.
func (s *Source) Rows() ([]Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, s.path)
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadFailure, err)
		}

		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
