// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"  // pgx driver
	_ "github.com/marcboeker/go-duckdb" // duckdb driver
	_ "github.com/mattn/go-sqlite3"     // sqlite3 driver
)

// Supported profile drivers.
const (
	DriverDuckDB   = "duckdb"
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// identPattern limits library and table names to plain identifiers so they
// can be quoted into DDL.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// dialect captures the differences between backends that matter for
// writing one table.
type dialect struct {
	driver     string
	columnType string
	// dollarParams selects $1-style placeholders instead of ?.
	dollarParams bool
	// attachFiles maps a library to an attached sqlite database file
	// instead of a schema.
	attachFiles bool
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case DriverDuckDB:
		return dialect{driver: DriverDuckDB, columnType: "VARCHAR"}, nil
	case DriverSQLite:
		return dialect{driver: DriverSQLite, columnType: "TEXT", attachFiles: true}, nil
	case DriverPostgres:
		return dialect{driver: DriverPostgres, columnType: "TEXT", dollarParams: true}, nil
	default:
		return dialect{}, fmt.Errorf("unsupported driver %q (want %s, %s or %s)", driver, DriverDuckDB, DriverSQLite, DriverPostgres)
	}
}

func validIdent(kind, name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid %s name %q", kind, name)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}

func (d dialect) param(i int) string {
	if d.dollarParams {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

func (d dialect) qualified(library, table string) string {
	return quoteIdent(library) + "." + quoteIdent(table)
}

// attachPath returns the sqlite database file that backs library. An
// in-memory main database gets an in-memory library.
func attachPath(p Profile, library string) string {
	dir := p.LibraryDir
	if dir == "" {
		if memoryDSN(p.DSN) {
			return ":memory:"
		}
		dir = filepath.Dir(dsnFile(p.DSN))
	}
	return filepath.Join(dir, library+".db")
}

// memoryDSN reports whether a sqlite DSN names an in-memory database,
// including the file: URI forms.
func memoryDSN(dsn string) bool {
	if dsn == "" || strings.HasPrefix(dsn, ":memory:") || strings.HasPrefix(dsn, "file::memory:") {
		return true
	}
	if !strings.HasPrefix(dsn, "file:") {
		return false
	}
	_, query, _ := strings.Cut(dsn, "?")
	values, err := url.ParseQuery(query)
	return err == nil && values.Get("mode") == "memory"
}

// dsnFile strips the file: scheme and query parameters from a sqlite DSN.
func dsnFile(dsn string) string {
	if !strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	return path
}

// assignLibrary returns the statement that makes library addressable.
func (d dialect) assignLibrary(library string, p Profile) string {
	if d.attachFiles {
		path := attachPath(p, library)
		return fmt.Sprintf("ATTACH DATABASE '%s' AS %s", strings.ReplaceAll(path, "'", "''"), quoteIdent(library))
	}
	return "CREATE SCHEMA IF NOT EXISTS " + quoteIdent(library)
}

func (d dialect) dropTable(library, table string) string {
	return "DROP TABLE IF EXISTS " + d.qualified(library, table)
}

func (d dialect) createTable(library, table string, columns []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = quoteIdent(c) + " " + d.columnType
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.qualified(library, table), strings.Join(defs, ", "))
}

func (d dialect) insertRow(library, table string, columns []string) string {
	names := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, c := range columns {
		names[i] = quoteIdent(c)
		params[i] = d.param(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.qualified(library, table), strings.Join(names, ", "), strings.Join(params, ", "))
}

// tableExists returns a query counting tables named table in library,
// along with its arguments.
func (d dialect) tableExists(library, table string) (string, []any) {
	if d.attachFiles {
		q := fmt.Sprintf("SELECT count(*) FROM %s.sqlite_master WHERE type = 'table' AND name = ?", quoteIdent(library))
		return q, []any{table}
	}
	q := fmt.Sprintf("SELECT count(*) FROM information_schema.tables WHERE table_schema = %s AND table_name = %s",
		d.param(1), d.param(2))
	return q, []any{library, table}
}
