package source

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads one sheet of an Excel workbook. The first non-empty row is
// the header. An empty sheet name selects the first sheet. Cells are read as
// stored values, so number formats such as #,##0 do not reach the coercion.
func LoadXLSX(path, sheet string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	headerRow := -1
	for i, row := range rows {
		if strings.TrimSpace(strings.Join(row, "")) != "" {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}

	headers := make([]string, len(rows[headerRow]))
	for i, h := range rows[headerRow] {
		headers[i] = cleanHeader(h)
	}

	ds := &Dataset{Path: path, Format: FormatXLSX, Columns: headers}
	for _, row := range rows[headerRow+1:] {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		ds.Records = append(ds.Records, rowRecord(headers, row))
	}
	return ds, nil
}
