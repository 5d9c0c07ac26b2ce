package store

import (
	"github.com/jackc/pgx/v5"

	"github.com/libreton/libreton-api/internal/types"
)

var _ Mapper[*types.User] = UserMapper{}
var _ Mapper[*types.Product] = ProductMapper{}

// UserMapper maps types.User onto the users table.
type UserMapper struct{}

func (UserMapper) Table() string { return "users" }

func (UserMapper) Columns() []string {
	return []string{"id", "created_at", "updated_at", "is_deleted", "username", "email", "password_hash", "full_name", "is_active"}
}

func (UserMapper) Values(u *types.User) []any {
	return []any{u.ID, u.CreatedAt, u.UpdatedAt, u.IsDeleted, u.Username, u.Email, u.PasswordHash, u.FullName, u.IsActive}
}

func (UserMapper) Scan(row pgx.Row) (*types.User, error) {
	var u types.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.IsDeleted, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.IsActive)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ProductMapper maps types.Product onto the products table.
type ProductMapper struct{}

func (ProductMapper) Table() string { return "products" }

func (ProductMapper) Columns() []string {
	return []string{"id", "created_at", "updated_at", "is_deleted", "name", "description", "price", "stock", "category"}
}

func (ProductMapper) Values(p *types.Product) []any {
	return []any{p.ID, p.CreatedAt, p.UpdatedAt, p.IsDeleted, p.Name, p.Description, p.Price, p.Stock, p.Category}
}

func (ProductMapper) Scan(row pgx.Row) (*types.Product, error) {
	var p types.Product
	err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.IsDeleted, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
