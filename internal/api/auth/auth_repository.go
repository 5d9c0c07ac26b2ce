package auth

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/libreton/libreton-api/internal/store"
	"github.com/libreton/libreton-api/internal/types"
)

var _ AuthRepo = (*StoreAuthRepo)(nil)

// AuthRepo defines the contract for user persistence as the auth flows need
// it. The generic repository does the heavy lifting underneath.
type AuthRepo interface {
	// CreateUser stages and commits a new user row. A username or email
	// collision surfaces as types.ErrConflict.
	CreateUser(ctx context.Context, user *types.User) error

	// GetActiveUserByUsername returns the live, active account, or
	// types.ErrNotFound. Inactive users are indistinguishable from absent
	// ones on purpose.
	GetActiveUserByUsername(ctx context.Context, username string) (*types.User, error)

	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

// StoreAuthRepo runs each operation through a fresh unit of work, so a
// request never shares transactional state with its neighbours.
type StoreAuthRepo struct {
	db     store.DB
	logger *slog.Logger
}

func NewStoreAuthRepo(db store.DB, logger *slog.Logger) *StoreAuthRepo {
	return &StoreAuthRepo{
		db:     db,
		logger: logger,
	}
}

func (r *StoreAuthRepo) CreateUser(ctx context.Context, user *types.User) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	uow := store.NewUnitOfWork(r.db, r.logger)
	defer uow.Close(ctx)

	uow.Users.Add(user)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *StoreAuthRepo) GetActiveUserByUsername(ctx context.Context, username string) (*types.User, error) {
	uow := store.NewUnitOfWork(r.db, r.logger)
	defer uow.Close(ctx)

	return uow.Users.FirstOrDefault(ctx, store.And(
		store.Eq("username", username),
		store.Eq("is_active", true),
	))
}

func (r *StoreAuthRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	uow := store.NewUnitOfWork(r.db, r.logger)
	defer uow.Close(ctx)

	return uow.Users.Exists(ctx, store.Eq("username", username))
}

func (r *StoreAuthRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	uow := store.NewUnitOfWork(r.db, r.logger)
	defer uow.Close(ctx)

	return uow.Users.Exists(ctx, store.Eq("email", email))
}
