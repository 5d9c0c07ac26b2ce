package product

import (
	"strings"
	"unicode/utf8"

	"github.com/libreton/libreton-api/internal/types"
)

// ProductValidator applies shape-level rules; an empty result means valid.
type ProductValidator struct{}

func NewProductValidator() *ProductValidator {
	return &ProductValidator{}
}

func (v *ProductValidator) ValidateCreateProduct(req types.CreateProductRequest) []string {
	return v.validate(req)
}

func (v *ProductValidator) ValidateUpdateProduct(req types.UpdateProductRequest) []string {
	return v.validate(req)
}

func (v *ProductValidator) validate(req types.CreateProductRequest) []string {
	var errs []string

	// Length rules count characters, not bytes.
	switch name := strings.TrimSpace(req.Name); {
	case name == "":
		errs = append(errs, "Name is required.")
	case utf8.RuneCountInString(name) > 200:
		errs = append(errs, "Name must not exceed 200 characters.")
	}

	if req.Price <= 0 {
		errs = append(errs, "Price must be greater than zero.")
	}

	if req.Stock < 0 {
		errs = append(errs, "Stock cannot be negative.")
	}

	if req.Description != nil && utf8.RuneCountInString(*req.Description) > 1000 {
		errs = append(errs, "Description must not exceed 1000 characters.")
	}

	if req.Category != nil && utf8.RuneCountInString(*req.Category) > 100 {
		errs = append(errs, "Category must not exceed 100 characters.")
	}

	return errs
}
