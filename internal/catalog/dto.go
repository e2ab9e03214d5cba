package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/money"
)

// ProductDTO is the catalog payload returned to clients.
type ProductDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Category       string    `json:"category"`
	PriceKobo      int64     `json:"price_kobo"`
	PriceDisplay   string    `json:"price_display"`
	Images         []string  `json:"images"`
	Sizes          []string  `json:"sizes"`
	Colors         []string  `json:"colors"`
	IsCustomizable bool      `json:"is_customizable"`
	CountInStock   int       `json:"count_in_stock"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProductSummary is the lighter row used by catalog listings.
type ProductSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	PriceKobo      int64     `json:"price_kobo"`
	PriceDisplay   string    `json:"price_display"`
	Image          *string   `json:"image,omitempty"`
	IsCustomizable bool      `json:"is_customizable"`
	InStock        bool      `json:"in_stock"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ListResult bundles a page of summaries with the cursor for the next page.
type ListResult struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:             product.ID,
		Name:           product.Name,
		Description:    product.Description,
		Category:       string(product.Category),
		PriceKobo:      product.PriceKobo,
		PriceDisplay:   money.FormatNaira(product.PriceKobo),
		Images:         append([]string{}, product.Images...),
		Sizes:          append([]string{}, product.Sizes...),
		Colors:         append([]string{}, product.Colors...),
		IsCustomizable: product.IsCustomizable,
		CountInStock:   product.CountInStock,
		IsActive:       product.IsActive,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
}
