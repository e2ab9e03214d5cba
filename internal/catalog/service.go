package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/money"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

// Service exposes catalog management and read operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ListResult, error)
	LoadForCart(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name           string
	Description    *string
	Category       enums.ProductCategory
	PriceKobo      int64
	Images         []string
	Sizes          []string
	Colors         []string
	IsCustomizable bool
	CountInStock   int
	IsActive       bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name           *string
	Description    *string
	Category       *enums.ProductCategory
	PriceKobo      *int64
	Images         *[]string
	Sizes          *[]string
	Colors         *[]string
	IsCustomizable *bool
	CountInStock   *int
	IsActive       *bool
}

// ListProductsInput carries listing filters and pagination.
type ListProductsInput struct {
	Pagination      pagination.Params
	Filters         ListFilters
	IncludeInactive bool
}

type service struct {
	repo         *Repository
	maxPriceKobo int64
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, maxPriceKobo int64) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if maxPriceKobo <= 0 {
		return nil, fmt.Errorf("max price must be positive")
	}
	return &service{repo: repo, maxPriceKobo: maxPriceKobo}, nil
}

// CreateProduct validates and inserts a new catalog listing.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := s.validateCore(input.Name, input.Category, input.PriceKobo, input.CountInStock); err != nil {
		return nil, err
	}
	if err := validateVariantAxes(input.IsCustomizable, input.Sizes, input.Colors); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Category:       input.Category,
		PriceKobo:      input.PriceKobo,
		Images:         pq.StringArray(input.Images),
		Sizes:          pq.StringArray(input.Sizes),
		Colors:         pq.StringArray(input.Colors),
		IsCustomizable: input.IsCustomizable,
		CountInStock:   input.CountInStock,
		IsActive:       input.IsActive,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct applies the provided fields to an existing listing.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.PriceKobo != nil {
		product.PriceKobo = *input.PriceKobo
	}
	if input.Images != nil {
		product.Images = pq.StringArray(*input.Images)
	}
	if input.Sizes != nil {
		product.Sizes = pq.StringArray(*input.Sizes)
	}
	if input.Colors != nil {
		product.Colors = pq.StringArray(*input.Colors)
	}
	if input.IsCustomizable != nil {
		product.IsCustomizable = *input.IsCustomizable
	}
	if input.CountInStock != nil {
		product.CountInStock = *input.CountInStock
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.validateCore(product.Name, product.Category, product.PriceKobo, product.CountInStock); err != nil {
		return nil, err
	}
	if err := validateVariantAxes(product.IsCustomizable, product.Sizes, product.Colors); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes a listing permanently.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// GetProduct returns the full payload for a single listing.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

// ListProducts pages through the catalog with the provided filters.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ListResult, error) {
	if input.Filters.Category != nil {
		if _, err := enums.ParseProductCategory(*input.Filters.Category); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
	}
	result, err := s.repo.ListSummaries(ctx, listQuery{
		Pagination:      input.Pagination,
		Filters:         input.Filters,
		IncludeInactive: input.IncludeInactive,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

// LoadForCart resolves the active products referenced by a cart snapshot.
func (s *service) LoadForCart(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	products, err := s.repo.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}
	return products, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) validateCore(name string, category enums.ProductCategory, priceKobo int64, countInStock int) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid category %q", category))
	}
	if priceKobo <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive").
			WithReason(pkgerrors.ReasonPriceIntegrity)
	}
	if priceKobo > s.maxPriceKobo {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("price exceeds the %s ceiling", money.FormatNaira(s.maxPriceKobo))).
			WithReason(pkgerrors.ReasonPriceIntegrity)
	}
	if countInStock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "count_in_stock cannot be negative")
	}
	return nil
}

func validateVariantAxes(customizable bool, sizes, colors []string) error {
	if customizable {
		return nil
	}
	if len(sizes) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ready-to-wear products need at least one size")
	}
	if len(colors) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ready-to-wear products need at least one color")
	}
	return nil
}
