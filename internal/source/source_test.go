package source

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/TobiSchelling/waterwise/internal/quality"
	"github.com/TobiSchelling/waterwise/internal/water"
)

const sampleCSV = "\ufeffSUPPLIER_NAME,AWU_TOTAL_RES_GAL,AWU_POTABLE_TOTAL_RES_GAL,\"AWU_TOTAL_RES_RGPCD\"\n" +
	"Los Angeles DWP,1000000,800000,100\n" +
	"Fresno Irrigation,,500,90\n" +
	"Short Row,10\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "awu.csv", sampleCSV)

	ds, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Format != FormatCSV {
		t.Errorf("expected csv format, got %s", ds.Format)
	}
	if len(ds.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(ds.Records))
	}
	if !ds.HasColumn("SUPPLIER_NAME") || !ds.HasColumn("AWU_TOTAL_RES_RGPCD") {
		t.Errorf("expected cleaned headers, got %v", ds.Columns)
	}
	if got := ds.Records[0]["SUPPLIER_NAME"]; got != "Los Angeles DWP" {
		t.Errorf("expected 'Los Angeles DWP', got %v", got)
	}
	if got := ds.Records[1]["AWU_TOTAL_RES_GAL"]; got != "" {
		t.Errorf("expected empty cell, got %v", got)
	}
	if got := ds.Records[2]["AWU_TOTAL_RES_RGPCD"]; got != nil {
		t.Errorf("expected nil for short row, got %v", got)
	}
	if err := ds.Require(water.DefaultColumns); err != nil {
		t.Errorf("expected required columns present: %v", err)
	}
}

func TestRequireMissingColumn(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("SUPPLIER_NAME,AWU_TOTAL_RES_GAL\nA,1\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = ds.Require(water.DefaultColumns)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), "AWU_TOTAL_RES_RGPCD") {
		t.Errorf("expected missing column named in error, got %v", err)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"a.csv":     FormatCSV,
		"a.XLSX":    FormatXLSX,
		"a.sqlite3": FormatSQLite,
		"a.db":      FormatSQLite,
	}
	for path, want := range tests {
		got, err := DetectFormat(path)
		if err != nil || got != want {
			t.Errorf("DetectFormat(%q) = %s, %v; want %s", path, got, err, want)
		}
	}
	if _, err := DetectFormat("a.parquet"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv"), Options{}); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.db"), Options{}); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := "AWU"
	f.SetSheetName(f.GetSheetName(0), sheet)

	rows := [][]any{
		{"SUPPLIER_NAME", "AWU_TOTAL_RES_GAL", "AWU_POTABLE_TOTAL_RES_GAL", "AWU_TOTAL_RES_RGPCD"},
		{"Sacramento Suburban", 500000, 450000, 85},
		{},
		{"Napa", 100000, 100000, 70},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to write row %d: %v", i, err)
		}
	}
	path := filepath.Join(t.TempDir(), "awu.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}

	ds, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("expected 2 records (blank row skipped), got %d", len(ds.Records))
	}
	if got := ds.Records[0]["SUPPLIER_NAME"]; got != "Sacramento Suburban" {
		t.Errorf("expected 'Sacramento Suburban', got %v", got)
	}
	if v, ok := water.Float(ds.Records[0]["AWU_TOTAL_RES_RGPCD"]); !ok || v != 85 {
		t.Errorf("expected rgpcd 85, got %v", ds.Records[0]["AWU_TOTAL_RES_RGPCD"])
	}

	if _, err := LoadXLSX(path, "Missing"); err == nil {
		t.Error("expected error for missing sheet")
	}
}

func TestLoadXLSXFormattedNumbers(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	rows := [][]any{
		{"SUPPLIER_NAME", "AWU_TOTAL_RES_GAL", "AWU_POTABLE_TOTAL_RES_GAL", "AWU_TOTAL_RES_RGPCD"},
		{"Los Angeles DWP", 1000000, 800000, 100},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to write row %d: %v", i, err)
		}
	}
	// #,##0 renders 1000000 as "1,000,000"
	style, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		t.Fatalf("failed to create style: %v", err)
	}
	if err := f.SetCellStyle(sheet, "B2", "C2", style); err != nil {
		t.Fatalf("failed to apply style: %v", err)
	}
	path := filepath.Join(t.TempDir(), "formatted.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}

	ds, err := LoadXLSX(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := water.Float(ds.Records[0]["AWU_TOTAL_RES_GAL"]); !ok || v != 1000000 {
		t.Errorf("expected stored total 1000000, got %v", ds.Records[0]["AWU_TOTAL_RES_GAL"])
	}

	result := quality.NewNormalizer(water.DefaultColumns, nil).Normalize(ds.Records)
	if result.Counts.Good != 1 || result.Counts.Incomplete != 0 {
		t.Errorf("expected formatted row to stay good, got %+v", result.Counts)
	}
}

func writeSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "awu.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	stmts := []string{
		`CREATE TABLE actual_water_use (
			SUPPLIER_NAME TEXT,
			AWU_TOTAL_RES_GAL REAL,
			AWU_POTABLE_TOTAL_RES_GAL REAL,
			AWU_TOTAL_RES_RGPCD REAL,
			AWU_COST_OF_SERVICE_HIGHEST_USERS TEXT
		)`,
		`INSERT INTO actual_water_use VALUES ('San Diego Water Co', 2000000, 1900000, 120, 'Yes')`,
		`INSERT INTO actual_water_use VALUES ('Humboldt Bay MWD', 300000, NULL, 60, NULL)`,
		`CREATE TABLE zz_notes (note TEXT)`,
	}
	for _, s := range stmts {
		if _, err := conn.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	return path
}

func TestLoadSQLite(t *testing.T) {
	path := writeSQLite(t)

	ds, err := Load(path, Options{Table: "actual_water_use"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Format != FormatSQLite {
		t.Errorf("expected sqlite format, got %s", ds.Format)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(ds.Records))
	}
	if got := ds.Records[0]["SUPPLIER_NAME"]; got != "San Diego Water Co" {
		t.Errorf("expected 'San Diego Water Co', got %v", got)
	}
	if v, ok := water.Float(ds.Records[0]["AWU_TOTAL_RES_GAL"]); !ok || v != 2000000 {
		t.Errorf("expected total 2000000, got %v", ds.Records[0]["AWU_TOTAL_RES_GAL"])
	}
	if ds.Records[1]["AWU_POTABLE_TOTAL_RES_GAL"] != nil {
		t.Errorf("expected NULL as nil, got %v", ds.Records[1]["AWU_POTABLE_TOTAL_RES_GAL"])
	}
	if !ds.HasColumn("AWU_COST_OF_SERVICE_HIGHEST_USERS") {
		t.Error("expected cost-of-service column")
	}
}

func TestLoadSQLiteDefaultTable(t *testing.T) {
	path := writeSQLite(t)
	ds, err := LoadSQLite(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// actual_water_use sorts before zz_notes
	if len(ds.Records) != 2 {
		t.Errorf("expected the first table to be read, got %d rows", len(ds.Records))
	}
}

func TestLoadSQLiteUnknownTable(t *testing.T) {
	path := writeSQLite(t)
	_, err := LoadSQLite(path, "nope")
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Errorf("expected table-not-found error, got %v", err)
	}
}
