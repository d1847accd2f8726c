package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// LoadCSV reads a comma-separated file whose first row is the header.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	ds.Path = path
	return ds, nil
}

// ReadCSV parses CSV from r.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty csv: no header row")
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = cleanHeader(h)
	}

	ds := &Dataset{Format: FormatCSV, Columns: headers}
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}
		ds.Records = append(ds.Records, rowRecord(headers, row))
	}
	return ds, nil
}
