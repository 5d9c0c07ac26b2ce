package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/libreton/libreton-api/internal/types"
)

// change is one staged write, already rendered to SQL at staging time.
type change struct {
	table string
	op    string
	sql   string
	args  []any
}

// UnitOfWork groups the repositories of one logical request behind a single
// transactional boundary. It is never shared across concurrent requests.
// * Reads go through the open transaction when there is one, the pool
//   otherwise. Staged-but-unflushed writes are not visible to reads.
// * SaveChanges flushes all staged writes atomically.
// * Close releases the underlying transaction on every exit path; callers
//   defer it right after construction.
type UnitOfWork struct {
	db     DB
	logger *slog.Logger
	tx     pgx.Tx
	staged []change

	Users    *Repository[*types.User]
	Products *Repository[*types.Product]
}

// NewUnitOfWork builds a unit of work over the given handle. One per
// request; the repositories it exposes share its staging list and
// transaction.
func NewUnitOfWork(db DB, logger *slog.Logger) *UnitOfWork {
	u := &UnitOfWork{db: db, logger: logger}
	u.Users = NewRepository[*types.User](u, UserMapper{}, logger)
	u.Products = NewRepository[*types.Product](u, ProductMapper{}, logger)
	return u
}

func (u *UnitOfWork) querier() Querier {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWork) stage(c change) {
	u.staged = append(u.staged, c)
}

// SaveChanges flushes every staged change atomically and returns the number
// of affected rows. Outside an explicit transaction it opens one just for
// the flush; inside one, durability waits for Commit. Constraint violations
// fail the whole batch with types.ErrConflict.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	ctx, span := otel.Tracer("UnitOfWork").Start(ctx, "SaveChanges")
	defer span.End()
	span.SetAttributes(attribute.Int("db.staged_changes", len(u.staged)))

	if len(u.staged) == 0 {
		return 0, nil
	}

	if u.tx != nil {
		affected, err := u.flush(ctx, u.tx)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return 0, err
		}
		u.staged = nil
		return affected, nil
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("save changes: begin: %w", err)
	}
	affected, err := u.flush(ctx, tx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			u.logger.ErrorContext(ctx, "Rollback after failed flush also failed", slog.Any("error", rbErr))
		}
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("save changes: commit: %w", err)
	}
	u.staged = nil
	return affected, nil
}

func (u *UnitOfWork) flush(ctx context.Context, tx pgx.Tx) (int64, error) {
	var affected int64
	for _, c := range u.staged {
		tag, err := tx.Exec(ctx, c.sql, c.args...)
		if err != nil {
			return 0, mapPgError(c, err)
		}
		affected += tag.RowsAffected()
	}
	return affected, nil
}

// Begin opens an explicit transaction for a multi-step workflow. Reads and
// flushes run inside it until Commit or Rollback.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return errors.New("unit of work: transaction already open")
	}
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("unit of work: begin: %w", err)
	}
	u.tx = tx
	return nil
}

// Commit makes everything flushed since Begin durable.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return errors.New("unit of work: no open transaction")
	}
	err := u.tx.Commit(ctx)
	u.tx = nil
	if err != nil {
		return fmt.Errorf("unit of work: commit: %w", err)
	}
	return nil
}

// Rollback reverts all staged and flushed changes since Begin.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return errors.New("unit of work: no open transaction")
	}
	err := u.tx.Rollback(ctx)
	u.tx = nil
	u.staged = nil
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("unit of work: rollback: %w", err)
	}
	return nil
}

// Close releases the underlying transaction if one is still open, rolling
// back anything uncommitted. Safe to call unconditionally; callers defer it
// so cancellation and error paths never leak a connection.
func (u *UnitOfWork) Close(ctx context.Context) {
	u.staged = nil
	if u.tx == nil {
		return
	}
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		u.logger.ErrorContext(ctx, "Failed to roll back abandoned transaction", slog.Any("error", err))
	}
	u.tx = nil
}

// mapPgError folds storage-level constraint violations into the domain
// error taxonomy. The unique indexes on users.username and users.email are
// the authoritative uniqueness guard; the validator pre-check only exists
// for friendlier messages.
func mapPgError(c change, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%s %s: constraint %s: %w", c.table, c.op, pgErr.ConstraintName, types.ErrConflict)
	}
	return fmt.Errorf("%s %s: %w", c.table, c.op, err)
}
