/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/rs/zerolog"

	"github.com/suparena/busregistry/datastore"
	storeerrors "github.com/suparena/busregistry/errors"
	"github.com/suparena/busregistry/storagemodels"
)

// StoreName identifies this backend in errors and logs.
const StoreName = "sqlite"

// Store implements datastore.DataStore over database/sql.
// Query text comes from a ScriptProvider; the store only binds parameters.
type Store struct {
	db      *sql.DB
	scripts ScriptProvider
	logger  zerolog.Logger
	now     func() time.Time
	table   string
}

// Option configures a Store.
type Option func(*Store)

// WithScripts replaces the script provider.
func WithScripts(scripts ScriptProvider) Option {
	return func(s *Store) {
		s.scripts = scripts
	}
}

// WithTable sets the subscription table used by the default scripts.
func WithTable(table string) Option {
	return func(s *Store) {
		s.table = table
	}
}

// WithLogger sets the store logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for SubscribedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New wraps an open database.
func New(db *sql.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, storeerrors.NewInvalidArgumentError("db", "database handle is required")
	}

	s := &Store{
		db:     db,
		logger: zerolog.Nop(),
		now:    time.Now,
		table:  DefaultTableName,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.scripts == nil {
		scripts, err := DefaultScripts(s.table)
		if err != nil {
			return nil, err
		}
		s.scripts = scripts
	}
	return s, nil
}

// Open opens (creating if needed) a SQLite database file and wraps it.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, storeerrors.NewInvalidArgumentError("path", "database path is required")
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s, err := New(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.logger.Debug().Str("path", path).Msg("sqlite store opened")
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ExecuteScalar runs a single-value query. No rows reads as 0.
func (s *Store) ExecuteScalar(ctx context.Context, q datastore.Query) (int, error) {
	script, err := s.scripts.Script(q.Name)
	if err != nil {
		return 0, err
	}

	var n int
	err = s.db.QueryRowContext(ctx, script, s.args(q)...).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", q.Name, err)
	}
	return n, nil
}

// Execute runs a statement that returns no rows.
func (s *Store) Execute(ctx context.Context, q datastore.Query) error {
	script, err := s.scripts.Script(q.Name)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, script, s.args(q)...)
	if err != nil {
		return fmt.Errorf("%s: %w", q.Name, err)
	}

	if affected, err := res.RowsAffected(); err == nil {
		s.logger.Debug().Str("query", q.String()).Int64("affected", affected).Msg("statement executed")
	}
	return nil
}

// QueryRows runs a query and maps each row by column name.
func (s *Store) QueryRows(ctx context.Context, q datastore.Query) ([]storagemodels.Row, error) {
	script, err := s.scripts.Script(q.Name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, script, s.args(q)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", q.Name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", q.Name, err)
	}

	result := make([]storagemodels.Row, 0)
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", q.Name, err)
		}

		row := make(storagemodels.Row, len(cols))
		for i, col := range cols {
			if values[i].Valid {
				row[col] = values[i].String
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", q.Name, err)
	}
	return result, nil
}

// Provision creates the subscription table if it does not exist.
func (s *Store) Provision(ctx context.Context) error {
	script, err := s.scripts.Script(datastore.QueryCreate)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("provision: %w", err)
	}
	s.logger.Info().Str("table", s.table).Msg("subscription table provisioned")
	return nil
}

// args binds query parameters by name. Subscribe also carries the write timestamp.
func (s *Store) args(q datastore.Query) []any {
	args := make([]any, 0, len(q.Params)+1)
	for name, value := range q.Params {
		args = append(args, sql.Named(name, value))
	}
	if q.Name == datastore.QuerySubscribe {
		args = append(args, sql.Named(storagemodels.ColumnSubscribedAt, strfmt.DateTime(s.now().UTC()).String()))
	}
	return args
}

var _ datastore.DataStore = (*Store)(nil)
var _ datastore.Provisioner = (*Store)(nil)

// Name identifies the backend.
func (s *Store) Name() string {
	return StoreName
}
