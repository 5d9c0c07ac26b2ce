// Package store provides the generic persistence layer: a repository
// parameterized over the entity capability set, and the unit of work that
// owns the transactional boundary for one logical request.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the read/write surface shared by *pgxpool.Pool and pgx.Tx.
// Repositories never care which one they are talking to; the unit of work
// decides.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB adds transaction control on top of Querier. *pgxpool.Pool satisfies it,
// and so do the pgxmock pools used in tests.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}
