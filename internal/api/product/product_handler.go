package product

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/libreton/libreton-api/internal/api"
	"github.com/libreton/libreton-api/internal/types"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	productService ProductService
	validator      *ProductValidator
	logger         *slog.Logger
}

func NewProductHandler(productService ProductService, validator *ProductValidator, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator,
		logger:         logger,
	}
}

// GetAll godoc
// @Summary      List Products
// @Description  Returns every live product. Soft-deleted rows never appear.
// @Tags         Products
// @Produce      json
// @Success      200 {object} types.Response{data=[]types.ProductResponse} "Products"
// @Failure      401 {object} types.Response "Unauthorized"
// @Security     SessionToken
// @Router       /products [get]
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.productService.GetAllProducts(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list products", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, types.MsgInternalServerError)
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, products, "")
}

// GetByID godoc
// @Summary      Get Product
// @Tags         Products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} types.Response{data=types.ProductResponse} "Product"
// @Failure      404 {object} types.Response "Not Found"
// @Security     SessionToken
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	product, err := h.productService.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, types.MsgResourceNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "Failed to fetch product", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, types.MsgInternalServerError)
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, product, "")
}

// Create godoc
// @Summary      Create Product
// @Tags         Products
// @Accept       json
// @Produce      json
// @Param        request body types.CreateProductRequest true "Product payload"
// @Success      201 {object} types.Response{data=types.ProductResponse} "Created"
// @Failure      400 {object} types.Response "Validation failed"
// @Security     SessionToken
// @Router       /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Create"))

	var req types.CreateProductRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if validationErrors := h.validator.ValidateCreateProduct(req); len(validationErrors) > 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, types.MsgValidationFailed, validationErrors...)
		return
	}

	product, err := h.productService.CreateProduct(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create product", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, types.MsgInternalServerError)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/products/%s", product.ID))
	api.SuccessResponse(w, r, http.StatusCreated, product, "Product created successfully")
}

// Update godoc
// @Summary      Update Product
// @Tags         Products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body types.UpdateProductRequest true "Product payload"
// @Success      200 {object} types.Response{data=types.ProductResponse} "Updated"
// @Failure      400 {object} types.Response "Validation failed"
// @Failure      404 {object} types.Response "Not Found"
// @Security     SessionToken
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Update"))

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req types.UpdateProductRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if validationErrors := h.validator.ValidateUpdateProduct(req); len(validationErrors) > 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, types.MsgValidationFailed, validationErrors...)
		return
	}

	product, err := h.productService.UpdateProduct(ctx, id, req)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, types.MsgResourceNotFound)
			return
		}
		l.ErrorContext(ctx, "Failed to update product", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, types.MsgInternalServerError)
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, product, "Product updated successfully")
}

// Delete godoc
// @Summary      Delete Product
// @Description  Soft-deletes the product; the row remains in storage but disappears from every read.
// @Tags         Products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} types.Response "Deleted"
// @Failure      404 {object} types.Response "Not Found"
// @Security     SessionToken
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, types.MsgResourceNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "Failed to delete product", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, types.MsgInternalServerError)
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, true, "Product deleted successfully")
}

func (h *ProductHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, types.MsgResourceNotFound)
		return uuid.Nil, false
	}
	return id, true
}
