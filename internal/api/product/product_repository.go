package product

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/libreton/libreton-api/internal/store"
	"github.com/libreton/libreton-api/internal/types"
)

var _ ProductRepo = (*StoreProductRepo)(nil)

// ProductRepo is the persistence contract the product service consumes.
// Reads never see soft-deleted rows; Update and SoftDelete report
// types.ErrNotFound when the id has no live row.
type ProductRepo interface {
	GetAll(ctx context.Context) ([]*types.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Product, error)
	Create(ctx context.Context, product *types.Product) error
	Update(ctx context.Context, id uuid.UUID, apply func(*types.Product)) (*types.Product, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// StoreProductRepo is a thin adapter over the generic repository and unit of
// work, one unit of work per operation.
type StoreProductRepo struct {
	db     store.DB
	logger *slog.Logger
}

func NewStoreProductRepo(db store.DB, logger *slog.Logger) *StoreProductRepo {
	return &StoreProductRepo{
		db:     db,
		logger: logger,
	}
}

func (r *StoreProductRepo) GetAll(ctx context.Context) ([]*types.Product, error) {
	uow := store.NewUnitOfWork(r.db, r.logger)
	defer uow.Close(ctx)

	return uow.Products.GetAll(ctx)
}

func (r *StoreProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	uow := store.NewUnitOfWork(r.db, r.logger)
	defer uow.Close(ctx)

	return uow.Products.GetByID(ctx, id)
}

func (r *StoreProductRepo) Create(ctx context.Context, product *types.Product) error {
	ctx, span := otel.Tracer("ProductRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "products"),
	))
	defer span.End()

	uow := store.NewUnitOfWork(r.db, r.logger)
	defer uow.Close(ctx)

	uow.Products.Add(product)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// Update re-reads the live row, applies the mutation, and commits, all
// inside one explicit transaction so a concurrent soft delete cannot
// resurrect the row between the read and the write.
func (r *StoreProductRepo) Update(ctx context.Context, id uuid.UUID, apply func(*types.Product)) (*types.Product, error) {
	ctx, span := otel.Tracer("ProductRepo").Start(ctx, "Update", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "products"),
		attribute.String("db.product.id", id.String()),
	))
	defer span.End()

	uow := store.NewUnitOfWork(r.db, r.logger)
	defer uow.Close(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	product, err := uow.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(product)
	uow.Products.Update(product)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *StoreProductRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("ProductRepo").Start(ctx, "SoftDelete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "products"),
		attribute.String("db.product.id", id.String()),
	))
	defer span.End()

	uow := store.NewUnitOfWork(r.db, r.logger)
	defer uow.Close(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}

	product, err := uow.Products.GetByID(ctx, id)
	if err != nil {
		return err
	}

	uow.Products.SoftDelete(product)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	return uow.Commit(ctx)
}
