// Package postgres implements the simpleblog.Store boundary on PostgreSQL
// using pgx. Every unit of work is a real database transaction: Complete
// commits, Rollback aborts, and constraint violations surface as the
// engine's sentinel errors.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// DBTX is the subset of pgx shared by a pool and a transaction.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store implements simpleblog.Store over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a PostgreSQL-backed store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Begin opens a database transaction wrapped as a unit of work.
func (s *Store) Begin(ctx context.Context) (simpleblog.UnitOfWork, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &unitOfWork{db: tx, tx: tx}, nil
}

type unitOfWork struct {
	db DBTX
	tx pgx.Tx
}

// Complete commits the underlying transaction.
func (u *unitOfWork) Complete(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction. Calling it after Complete is a no-op.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	err := u.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// mapError translates driver errors into the engine's sentinel errors.
func mapError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "slug") {
				return simpleblog.ErrSlugTaken
			}
			if strings.Contains(pgErr.ConstraintName, "custom_field") {
				return simpleblog.ErrDuplicateField
			}
			return fmt.Errorf("%s: duplicate entry: %w", operation, err)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: referenced record not found: %w", operation, err)
		case "42P01": // undefined_table
			return fmt.Errorf("%s: table does not exist, run migrations: %w", operation, err)
		}
	}
	return fmt.Errorf("%s: %w", operation, err)
}
