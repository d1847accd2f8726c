package source

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/TobiSchelling/waterwise/internal/water"
)

var (
	// ErrUnknownFormat is returned for file extensions no loader handles.
	ErrUnknownFormat = errors.New("unknown input format")
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing required column")
)

// Format identifies an input file type.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// Options selects what to read from multi-table inputs.
type Options struct {
	Table string // SQLite table, default the first one
	Sheet string // XLSX sheet, default the first one
}

// Dataset is a loaded table: its header and rows in input order.
type Dataset struct {
	Path    string
	Format  Format
	Columns []string
	Records []water.RawRecord
}

// HasColumn reports whether the header contains name.
func (d *Dataset) HasColumn(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the names from want that the header lacks.
func (d *Dataset) MissingColumns(want []string) []string {
	var missing []string
	for _, name := range want {
		if !d.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Require returns ErrMissingColumn if any required column is absent.
func (d *Dataset) Require(cols water.Columns) error {
	if missing := d.MissingColumns(cols.Required()); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// DetectFormat infers the input format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads a dataset from path, choosing the loader by extension.
func Load(path string, opts Options) (*Dataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var ds *Dataset
	switch format {
	case FormatCSV:
		ds, err = LoadCSV(path)
	case FormatXLSX:
		ds, err = LoadXLSX(path, opts.Sheet)
	case FormatSQLite:
		ds, err = LoadSQLite(path, opts.Table)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("loaded input", "path", path, "format", format, "rows", len(ds.Records), "columns", len(ds.Columns))
	return ds, nil
}

// cleanHeader trims whitespace, quotes and a UTF-8 byte order mark.
func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.TrimSpace(h)
	return strings.ReplaceAll(h, `"`, "")
}

// rowRecord zips a header with one row of cells. Short rows leave the
// trailing columns nil.
func rowRecord(headers []string, cells []string) water.RawRecord {
	rec := make(water.RawRecord, len(headers))
	for i, h := range headers {
		if i < len(cells) {
			rec[h] = cells[i]
		} else {
			rec[h] = nil
		}
	}
	return rec
}
