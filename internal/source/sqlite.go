package source

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/TobiSchelling/waterwise/internal/water"
)

// LoadSQLite reads every row of one table from a SQLite export. An empty
// table name selects the first user table by name. The file is never written.
func LoadSQLite(path, table string) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Exec("PRAGMA query_only = ON"); err != nil {
		return nil, fmt.Errorf("setting query_only: %w", err)
	}

	tables, err := listTables(conn)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("database %s has no tables", path)
	}
	if table == "" {
		table = tables[0]
	} else if !contains(tables, table) {
		return nil, fmt.Errorf("table %q not found in %s (have: %s)", table, path, strings.Join(tables, ", "))
	}

	ds, err := readTable(conn, table)
	if err != nil {
		return nil, err
	}
	ds.Path = path
	return ds, nil
}

// listTables returns user table names in alphabetical order.
func listTables(conn *sql.DB) ([]string, error) {
	rows, err := conn.Query(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func readTable(conn *sql.DB, table string) (*Dataset, error) {
	rows, err := conn.Query("SELECT * FROM " + quoteIdent(table))
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = cleanHeader(c)
	}

	ds := &Dataset{Format: FormatSQLite, Columns: headers}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		rec := make(water.RawRecord, len(cols))
		for i, h := range headers {
			if b, ok := values[i].([]byte); ok {
				rec[h] = string(b)
			} else {
				rec[h] = values[i]
			}
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
