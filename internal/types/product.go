package types

import "time"

// Product is a catalog item. Deletion is always the soft kind for products;
// physical removal exists on the repository but no service flow uses it.
type Product struct {
	BaseEntity
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    *string `json:"category,omitempty"`
}

// NewProduct builds a product ready to be staged for insert.
func NewProduct(name string, description *string, price float64, stock int, category *string) *Product {
	return &Product{
		BaseEntity:  NewBaseEntity(),
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		Category:    category,
	}
}

// CreateProductRequest is the JSON body for product creation and update.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    *string `json:"category,omitempty"`
}

// UpdateProductRequest shares the create shape; every field is resubmitted.
type UpdateProductRequest = CreateProductRequest

// ProductResponse is the outward-facing product shape. Internal bookkeeping
// fields (the soft-delete flag) are deliberately absent.
type ProductResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Price       float64    `json:"price"`
	Stock       int        `json:"stock"`
	Category    *string    `json:"category,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
