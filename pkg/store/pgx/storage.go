// Package pgx implements the store.Repository interface on PostgreSQL via
// jackc/pgx. All graph invariants that must hold under concurrent writers
// (the unique triple constraint, cascading deletes) live in the schema, not
// in engine-side locking.
package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/signalgraph/ontology/pkg/store"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgxConn is the subset of pgxpool.Pool the storage needs, so tests and
// transactions can stand in for the pool.
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// GraphDBStorage is the PostgreSQL-backed repository. It carries no mutable
// state of its own and is safe for concurrent use; the pool handles
// connection lifecycle.
type GraphDBStorage struct {
	conn pgxConn
}

// NewGraphDBStorage creates a repository over an existing connection pool.
func NewGraphDBStorage(conn pgxConn) *GraphDBStorage {
	return &GraphDBStorage{conn: conn}
}

var _ store.Repository = (*GraphDBStorage)(nil)

// mapPgError translates constraint violations into the store error taxonomy
// so callers can errors.Is their way to a retry/surface decision.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", store.ErrAlreadyExists, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", store.ErrMissingEndpoint, pgErr.ConstraintName)
	default:
		return err
	}
}
