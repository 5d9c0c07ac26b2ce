package product

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/libreton/libreton-api/internal/types"
)

var _ ProductService = (*ProductServiceImpl)(nil)

// ProductService is the CRUD orchestration over products, the
// representative consumer of the repository and unit-of-work contract.
type ProductService interface {
	GetAllProducts(ctx context.Context) ([]types.ProductResponse, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*types.ProductResponse, error)
	CreateProduct(ctx context.Context, req types.CreateProductRequest) (*types.ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req types.UpdateProductRequest) (*types.ProductResponse, error)
	// DeleteProduct is a soft delete; the row stays in storage.
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type ProductServiceImpl struct {
	logger *slog.Logger
	repo   ProductRepo
}

func NewProductService(repo ProductRepo, logger *slog.Logger) *ProductServiceImpl {
	return &ProductServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ProductServiceImpl) GetAllProducts(ctx context.Context) ([]types.ProductResponse, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching products: %w", err)
	}

	responses := make([]types.ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, mapToResponse(p))
	}
	return responses, nil
}

func (s *ProductServiceImpl) GetProductByID(ctx context.Context, id uuid.UUID) (*types.ProductResponse, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapToResponse(product)
	return &resp, nil
}

func (s *ProductServiceImpl) CreateProduct(ctx context.Context, req types.CreateProductRequest) (*types.ProductResponse, error) {
	l := s.logger.With(slog.String("method", "CreateProduct"))

	product := types.NewProduct(req.Name, req.Description, req.Price, req.Stock, req.Category)
	if err := s.repo.Create(ctx, product); err != nil {
		l.ErrorContext(ctx, "Product insert failed", slog.Any("error", err))
		return nil, err
	}

	l.InfoContext(ctx, "Product created", slog.String("product_id", product.ID.String()))
	resp := mapToResponse(product)
	return &resp, nil
}

func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, req types.UpdateProductRequest) (*types.ProductResponse, error) {
	product, err := s.repo.Update(ctx, id, func(p *types.Product) {
		p.Name = req.Name
		p.Description = req.Description
		p.Price = req.Price
		p.Stock = req.Stock
		p.Category = req.Category
	})
	if err != nil {
		return nil, err
	}
	resp := mapToResponse(product)
	return &resp, nil
}

func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// mapToResponse strips internal bookkeeping before anything leaves the
// service boundary.
func mapToResponse(p *types.Product) types.ProductResponse {
	return types.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
