// Package store is the append-only logging store backed by SQLite. Tables
// and their columns are a closed, static set; caller-supplied text is only
// ever bound as a statement parameter, never interpolated into SQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrInvalidTable indicates a table outside the whitelist.
var ErrInvalidTable = errors.New("store: Invalid table name")

// ErrSchemaMismatch indicates record keys that do not exactly match the
// table's insertable columns.
var ErrSchemaMismatch = errors.New("store: record does not match table schema")

// ErrUnsupportedValue indicates a non-scalar record value.
var ErrUnsupportedValue = errors.New("store: record values must be scalar")

// Record maps column names to scalar values as read back from the database.
type Record map[string]any

// Summary is the payload for a table count.
type Summary struct {
	Table        string `json:"table"`
	TotalRecords int64  `json:"total_records"`
}

// TableSchema declares a whitelisted table: its name, the column receiving
// the insert timestamp, and the caller-insertable domain columns. The id and
// timestamp are assigned by the database, never by the caller.
type TableSchema struct {
	Name       string
	TimeColumn string
	Insertable []string
}

// Columns returns the full column list in declaration order.
func (ts TableSchema) Columns() []string {
	cols := make([]string, 0, len(ts.Insertable)+2)
	cols = append(cols, "id")
	cols = append(cols, ts.Insertable...)
	cols = append(cols, ts.TimeColumn)
	return cols
}

// tables is the closed whitelist. reports keeps its created_at naming while
// the log tables use timestamp.
var tables = []TableSchema{
	{Name: "weather_logs", TimeColumn: "timestamp", Insertable: []string{"city", "temperature", "condition"}},
	{Name: "file_logs", TimeColumn: "timestamp", Insertable: []string{"filename", "action"}},
	{Name: "reports", TimeColumn: "created_at", Insertable: []string{"report_name", "content"}},
}

// Schema returns the declaration for a whitelisted table.
func Schema(table string) (TableSchema, bool) {
	for _, ts := range tables {
		if ts.Name == table {
			return ts, true
		}
	}
	return TableSchema{}, false
}

// TableNames returns the whitelist in declaration order.
func TableNames() []string {
	names := make([]string, len(tables))
	for i, ts := range tables {
		names[i] = ts.Name
	}
	return names
}

// columnTypes maps domain columns to their SQLite affinity for DDL.
var columnTypes = map[string]string{
	"city":        "TEXT",
	"temperature": "REAL",
	"condition":   "TEXT",
	"filename":    "TEXT",
	"action":      "TEXT",
	"report_name": "TEXT",
	"content":     "TEXT",
}

// Store is the shared append-only record store. SQLite works best with a
// single connection; SetMaxOpenConns(1) serializes writes so concurrent
// inserts cannot interleave or duplicate identifiers.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite database at path and applies
// the standard pragmas.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store: database path is required")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: set pragma: %w", err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// EnsureSchema creates the whitelisted tables when absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, ts := range tables {
		defs := []string{"id INTEGER PRIMARY KEY AUTOINCREMENT"}
		for _, col := range ts.Insertable {
			defs = append(defs, fmt.Sprintf("%s %s", col, columnTypes[col]))
		}
		defs = append(defs, fmt.Sprintf("%s DATETIME DEFAULT CURRENT_TIMESTAMP", ts.TimeColumn))

		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", ts.Name, strings.Join(defs, ", "))
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("store: create table %s: %w", ts.Name, err)
		}
	}
	return nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert appends a record and returns the assigned id. The record's keys
// must exactly match the table's insertable columns: extras, omissions, and
// attempts to supply id or the timestamp are all schema mismatches. The SQL
// identifiers come from the static schema only.
func (s *Store) Insert(ctx context.Context, table string, data map[string]any) (int64, error) {
	ts, ok := Schema(table)
	if !ok {
		return 0, ErrInvalidTable
	}
	if len(data) != len(ts.Insertable) {
		return 0, fmt.Errorf("%w: table %s expects exactly columns %s", ErrSchemaMismatch, table, strings.Join(ts.Insertable, ", "))
	}
	args := make([]any, 0, len(ts.Insertable))
	for _, col := range ts.Insertable {
		val, present := data[col]
		if !present {
			return 0, fmt.Errorf("%w: missing column %q for table %s", ErrSchemaMismatch, col, table)
		}
		if !scalar(val) {
			return 0, fmt.Errorf("%w: column %q", ErrUnsupportedValue, col)
		}
		args = append(args, val)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ts.Insertable)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", ts.Name, strings.Join(ts.Insertable, ", "), placeholders)

	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("store: insert into %s: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: last insert id: %w", err)
	}
	return id, nil
}

// QueryRecent returns up to limit records ordered by id descending. Ordering
// by identifier rather than timestamp keeps results deterministic regardless
// of clock resolution.
func (s *Store) QueryRecent(ctx context.Context, table string, limit int) ([]Record, error) {
	ts, ok := Schema(table)
	if !ok {
		return nil, ErrInvalidTable
	}

	stmt := fmt.Sprintf("SELECT %s FROM %s ORDER BY id DESC LIMIT ?", strings.Join(ts.Columns(), ", "), ts.Name)
	rows, err := s.db.QueryContext(ctx, stmt, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query %s: %w", table, err)
	}
	defer rows.Close()

	cols := ts.Columns()
	out := []Record{}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("store: scan %s row: %w", table, err)
		}
		rec := make(Record, len(cols))
		for i, col := range cols {
			val := values[i]
			// Byte slices become strings for JSON compatibility.
			if b, ok := val.([]byte); ok {
				rec[col] = string(b)
			} else {
				rec[col] = val
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: rows error: %w", err)
	}
	return out, nil
}

// CountSummary returns the total record count for a table.
func (s *Store) CountSummary(ctx context.Context, table string) (Summary, error) {
	ts, ok := Schema(table)
	if !ok {
		return Summary{}, ErrInvalidTable
	}
	var count int64
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", ts.Name)).Scan(&count); err != nil {
		return Summary{}, fmt.Errorf("store: count %s: %w", table, err)
	}
	return Summary{Table: table, TotalRecords: count}, nil
}

// scalar reports whether a decoded JSON value may be written to a column.
func scalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64, int, int64:
		return true
	}
	return false
}
