// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store writes the cleaned crosswalk into a library of an
// analytical database and confirms the write through a session log.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/crosswalk/pkg/types"
)

// DefaultMarker is the session log line that confirms a table exists.
const DefaultMarker = "TABLE_EXISTS= 1"

// Session is one exclusive connection to a store. Every operation appends
// to the session log, which is the operator's record of the run. A Session
// is not safe for concurrent use.
type Session struct {
	id       string
	profile  Profile
	dialect  dialect
	db       *sql.DB
	conn     *sql.Conn
	log      strings.Builder
	assigned map[string]bool
	closed   bool
}

// Open connects to the store described by p.
func Open(ctx context.Context, p Profile) (*Session, error) {
	d, err := dialectFor(p.Driver)
	if err != nil {
		return nil, err
	}

	dsn := p.DSN
	if dsn == "" && d.driver == DriverSQLite {
		dsn = ":memory:"
	}
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", d.driver, err)
	}

	s, err := newSession(ctx, db, d, p)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// newSession pins a single connection from db so library assignments
// (sqlite ATTACH in particular) stay visible for the whole session.
func newSession(ctx context.Context, db *sql.DB, d dialect, p Profile) (*Session, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", d.driver, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging %s: %w", d.driver, err)
	}

	s := &Session{
		id:       uuid.NewString(),
		profile:  p,
		dialect:  d,
		db:       db,
		conn:     conn,
		assigned: make(map[string]bool),
	}
	s.logf("NOTE: Session %s started using profile %q (%s).", s.id, p.Name, d.driver)
	return s, nil
}

// ID returns the session identifier written to the log.
func (s *Session) ID() string { return s.id }

// Log returns the full session log.
func (s *Session) Log() string { return s.log.String() }

func (s *Session) logf(format string, args ...any) {
	fmt.Fprintf(&s.log, format, args...)
	s.log.WriteByte('\n')
}

// Assign makes library addressable for the rest of the session. Assigning
// the same library twice is a no-op.
func (s *Session) Assign(ctx context.Context, library string) error {
	if err := validIdent("library", library); err != nil {
		return err
	}
	if s.assigned[library] {
		return nil
	}
	if _, err := s.conn.ExecContext(ctx, s.dialect.assignLibrary(library, s.profile)); err != nil {
		s.logf("ERROR: Libref %s was not assigned: %v", strings.ToUpper(library), err)
		return fmt.Errorf("assigning library %s: %w", library, err)
	}
	s.assigned[library] = true
	s.logf("NOTE: Libref %s was successfully assigned.", strings.ToUpper(library))
	return nil
}

// WriteTable replaces library.table with rows in one transaction. Failures
// are logged and returned as *types.WriteError.
func (s *Session) WriteTable(ctx context.Context, library, table string, rows []types.CrosswalkRow) error {
	target := library + "." + table
	if s.closed {
		return &types.WriteError{Target: target, Err: errors.New("session is closed")}
	}
	if err := validIdent("table", table); err != nil {
		return &types.WriteError{Target: target, Err: err}
	}
	if err := s.Assign(ctx, library); err != nil {
		return &types.WriteError{Target: target, Err: err}
	}

	if err := s.replaceTable(ctx, library, table, rows); err != nil {
		s.logf("ERROR: Unable to write data set %s: %v", strings.ToUpper(target), err)
		return &types.WriteError{Target: target, Err: err}
	}
	s.logf("NOTE: The data set %s has %d observations and %d variables.",
		strings.ToUpper(target), len(rows), len(types.StoreColumns))
	return nil
}

func (s *Session) replaceTable(ctx context.Context, library, table string, rows []types.CrosswalkRow) (err error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, s.dialect.dropTable(library, table)); err != nil {
		return fmt.Errorf("dropping previous table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.dialect.createTable(library, table, types.StoreColumns)); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.dialect.insertRow(library, table, types.StoreColumns))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Values()...); err != nil {
			return fmt.Errorf("inserting row %d (start %q): %w", i+1, r.Start, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Verify checks that library.table exists and appends TABLE_EXISTS= 1 or
// TABLE_EXISTS= 0 to the session log.
func (s *Session) Verify(ctx context.Context, library, table string) error {
	if s.closed {
		return errors.New("session is closed")
	}
	q, args := s.dialect.tableExists(library, table)
	var n int
	if err := s.conn.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		s.logf("WARNING: Existence check for %s failed: %v", strings.ToUpper(library+"."+table), err)
		return fmt.Errorf("checking %s.%s: %w", library, table, err)
	}
	exists := 0
	if n > 0 {
		exists = 1
	}
	s.logf("TABLE_EXISTS= %d", exists)
	return nil
}

// Rows reads library.table back. The library must have been assigned.
// Row order is whatever the backend returns.
func (s *Session) Rows(ctx context.Context, library, table string) ([]types.CrosswalkRow, error) {
	if s.closed {
		return nil, errors.New("session is closed")
	}
	if err := validIdent("library", library); err != nil {
		return nil, err
	}
	if err := validIdent("table", table); err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT %s FROM %s", quotedColumns(), s.dialect.qualified(library, table))
	rs, err := s.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying %s.%s: %w", library, table, err)
	}
	defer rs.Close()

	var out []types.CrosswalkRow
	for rs.Next() {
		var r types.CrosswalkRow
		if err := rs.Scan(&r.Start, &r.Label, &r.FmtName, &r.Type); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, r)
	}
	return out, rs.Err()
}

func quotedColumns() string {
	cols := make([]string, len(types.StoreColumns))
	for i, c := range types.StoreColumns {
		cols[i] = quoteIdent(c)
	}
	return strings.Join(cols, ", ")
}

// Close ends the session. It is safe to call Close more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.logf("NOTE: Session %s ended.", s.id)
	return errors.Join(s.conn.Close(), s.db.Close())
}
