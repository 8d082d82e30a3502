// Package store is the Postgres data-access layer: the read-only query path
// used by the pipeline, and the entity CRUD used by the loader and the HTTP
// routes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/premstats/premstats/internal/pipeline"
)

// Store wraps the Postgres connection pool.
type Store struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// Open connects to Postgres via the pgx stdlib driver and pings it.
func Open(ctx context.Context, dsn string, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.New()
	}
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.Info("connected to postgres")
	return &Store{db: db, logger: logger}, nil
}

// New wraps an existing connection pool. Used by tests with sqlmock.
func New(db *sqlx.DB, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{db: db, logger: logger}
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// QueryRows executes one read statement inside a request-scoped read-only
// transaction and returns every row keyed by column name, with the column
// order preserved. The transaction is released on every exit path.
func (s *Store) QueryRows(ctx context.Context, sqlText string) (*pipeline.ResultSet, error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin read-only tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryxContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	rs := &pipeline.ResultSet{Columns: cols}
	for rows.Next() {
		raw := make(map[string]any, len(cols))
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(pipeline.Row, len(cols))
		for k, v := range raw {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[k] = v
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit read-only tx: %w", err)
	}
	return rs, nil
}
