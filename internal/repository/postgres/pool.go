// Package postgres contains PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stonesign/plaque-cms/internal/errs"
)

// PgxPool is a minimal abstraction over a Postgres connection pool,
// used by repositories. It is implemented by *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	// Exec executes a SQL command and returns the command tag.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	// Query executes a SELECT and returns a rows iterator.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	// QueryRow executes a query expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	// Close shuts down the pool and frees resources.
	Close()
}

// DB is the store handle passed to every repository. A DB without a pool is the
// "not connected" state: Acquire reports errs.ErrStoreUnavailable.
type DB struct{ Pool PgxPool }

// New creates a new connection pool for the given DSN.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &DB{Pool: pool}, nil
}

// Acquire returns the shared pool or errs.ErrStoreUnavailable.
func (db *DB) Acquire() (PgxPool, error) {
	if db == nil || db.Pool == nil {
		return nil, errs.ErrStoreUnavailable
	}
	return db.Pool, nil
}

// Close closes the underlying pool; later calls fail with errs.ErrStoreUnavailable.
func (db *DB) Close() {
	if db == nil || db.Pool == nil {
		return
	}
	db.Pool.Close()
	db.Pool = nil
}

// isUniqueViolation reports whether the error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23505"
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// patch collects SET assignments for a partial update. Argument $1 is always the row id.
type patch struct {
	cols []string
	args []any
}

func (p *patch) set(col string, v any) {
	p.args = append(p.args, v)
	p.cols = append(p.cols, fmt.Sprintf("%s=$%d", col, len(p.args)+1))
}

func setIf[T any](p *patch, col string, v *T) {
	if v != nil {
		p.set(col, *v)
	}
}

// statement renders the UPDATE. updated_at is refreshed even for an empty patch.
func (p *patch) statement(table string, id int64) (string, []any) {
	cols := append(append([]string(nil), p.cols...), "updated_at=now()")
	q := "UPDATE " + table + " SET " + strings.Join(cols, ", ") + " WHERE id=$1"
	return q, append([]any{id}, p.args...)
}
