package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/libreton/libreton-api/internal/types"
)

// Mapper describes how one entity type maps onto its table. Columns()[0]
// must be "id"; Values must align with Columns.
type Mapper[T types.Entity] interface {
	Table() string
	Columns() []string
	Values(entity T) []any
	Scan(row pgx.Row) (T, error)
}

// Repository provides uniform CRUD over one entity type. Every read filters
// out soft-deleted rows. Writes are staged on the owning unit of work and
// become durable only when it commits.
type Repository[T types.Entity] struct {
	uow    *UnitOfWork
	mapper Mapper[T]
	logger *slog.Logger
}

func NewRepository[T types.Entity](uow *UnitOfWork, mapper Mapper[T], logger *slog.Logger) *Repository[T] {
	return &Repository[T]{
		uow:    uow,
		mapper: mapper,
		logger: logger,
	}
}

func (r *Repository[T]) selectClause() string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(r.mapper.Columns(), ", "), r.mapper.Table())
}

// GetByID returns the live row matching id, or types.ErrNotFound.
func (r *Repository[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T
	query := r.selectClause() + " WHERE id = $1 AND is_deleted = FALSE"
	entity, err := r.mapper.Scan(r.uow.querier().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, types.ErrNotFound
		}
		return zero, fmt.Errorf("%s: get by id: %w", r.mapper.Table(), err)
	}
	return entity, nil
}

// GetAll returns every live row. Order is whatever the store hands back;
// consumers sort if they care.
func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	query := r.selectClause() + " WHERE is_deleted = FALSE"
	return r.queryMany(ctx, query)
}

// Find returns live rows matching the condition.
func (r *Repository[T]) Find(ctx context.Context, cond Cond) ([]T, error) {
	query := r.selectClause() + " WHERE is_deleted = FALSE AND (" + rebind(cond.Expr, 0) + ")"
	return r.queryMany(ctx, query, cond.Args...)
}

// FirstOrDefault returns the first live match or types.ErrNotFound. No
// ordering is imposed, so "first" is store-defined.
func (r *Repository[T]) FirstOrDefault(ctx context.Context, cond Cond) (T, error) {
	var zero T
	query := r.selectClause() + " WHERE is_deleted = FALSE AND (" + rebind(cond.Expr, 0) + ") LIMIT 1"
	entity, err := r.mapper.Scan(r.uow.querier().QueryRow(ctx, query, cond.Args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, types.ErrNotFound
		}
		return zero, fmt.Errorf("%s: first or default: %w", r.mapper.Table(), err)
	}
	return entity, nil
}

// Exists reports whether any live row matches the condition.
func (r *Repository[T]) Exists(ctx context.Context, cond Cond) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE is_deleted = FALSE AND (%s))",
		r.mapper.Table(), rebind(cond.Expr, 0))
	var exists bool
	if err := r.uow.querier().QueryRow(ctx, query, cond.Args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: exists: %w", r.mapper.Table(), err)
	}
	return exists, nil
}

// Count returns the number of live rows, optionally narrowed by conditions.
func (r *Repository[T]) Count(ctx context.Context, conds ...Cond) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE is_deleted = FALSE", r.mapper.Table())
	var args []any
	if len(conds) > 0 {
		c := And(conds...)
		query += " AND (" + rebind(c.Expr, 0) + ")"
		args = c.Args
	}
	var count int64
	if err := r.uow.querier().QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: count: %w", r.mapper.Table(), err)
	}
	return count, nil
}

// Add stages an insert. The entity must already carry its id and creation
// timestamp (NewBaseEntity does both).
func (r *Repository[T]) Add(entity T) {
	cols := r.mapper.Columns()
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.mapper.Table(), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	r.uow.stage(change{table: r.mapper.Table(), op: "insert", sql: query, args: r.mapper.Values(entity)})
}

// Update stamps updated_at and stages the full row for persistence.
func (r *Repository[T]) Update(entity T) {
	entity.Touch(time.Now())
	r.stageUpdate(entity)
}

// SoftDelete marks the row logically removed and stages it. The row itself
// stays in storage permanently.
func (r *Repository[T]) SoftDelete(entity T) {
	entity.MarkDeleted(time.Now())
	r.stageUpdate(entity)
}

// Delete stages physical removal. Service flows use SoftDelete; this exists
// for maintenance paths.
func (r *Repository[T]) Delete(entity T) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.mapper.Table())
	r.uow.stage(change{table: r.mapper.Table(), op: "delete", sql: query, args: []any{entity.EntityID()}})
}

func (r *Repository[T]) stageUpdate(entity T) {
	cols := r.mapper.Columns()
	sets := make([]string, 0, len(cols)-1)
	for i, col := range cols[1:] {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+2))
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", r.mapper.Table(), strings.Join(sets, ", "))
	r.uow.stage(change{table: r.mapper.Table(), op: "update", sql: query, args: r.mapper.Values(entity)})
}

func (r *Repository[T]) queryMany(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := r.uow.querier().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", r.mapper.Table(), err)
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		entity, err := r.mapper.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", r.mapper.Table(), err)
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", r.mapper.Table(), err)
	}
	return results, nil
}
