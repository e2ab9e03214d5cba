package cart

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MaxQuantity is the per-line quantity ceiling.
	MaxQuantity = 10
	// MaxAllowedPriceKobo is the price-integrity ceiling (₦500,000). Lines
	// above it never enter the store and are purged if found at rest.
	MaxAllowedPriceKobo = int64(50_000_000)
)

// VariantKey identifies one mergeable cart line. Customizable lines are
// exempt from merging and are tracked by LineID instead.
type VariantKey struct {
	ProductID uuid.UUID `json:"product_id"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
}

// LineItem is one purchasable unit in the cart. Price, name, and the
// variant-axis flags are snapshotted from the catalog at add time and never
// re-fetched.
type LineItem struct {
	LineID          uuid.UUID `json:"line_id"`
	ProductID       uuid.UUID `json:"product_id"`
	Name            string    `json:"name"`
	PriceKobo       int64     `json:"price_kobo"`
	Quantity        int       `json:"quantity"`
	Size            string    `json:"size"`
	Color           string    `json:"color"`
	IsCustomizable  bool      `json:"is_customizable"`
	HasSizeOptions  bool      `json:"has_size_options"`
	HasColorOptions bool      `json:"has_color_options"`
	Image           *string   `json:"image,omitempty"`
	AddedAt         time.Time `json:"added_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Key returns the merge key for the line.
func (l LineItem) Key() VariantKey {
	return VariantKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

// LineTotalKobo is the line's contribution to the cart total. Corrupt
// negative values contribute zero instead of failing.
func (l LineItem) LineTotalKobo() int64 {
	price := l.PriceKobo
	if price < 0 {
		price = 0
	}
	qty := l.Quantity
	if qty < 0 {
		qty = 0
	}
	return price * int64(qty)
}

// violatesPriceInvariant reports whether the line's price sits outside
// (0, MaxAllowedPriceKobo].
func (l LineItem) violatesPriceInvariant() bool {
	return l.PriceKobo <= 0 || l.PriceKobo > MaxAllowedPriceKobo
}

// ProductSnapshot is the catalog data consumed by Add. The store pins these
// values onto the new line rather than holding a live product reference.
type ProductSnapshot struct {
	ID             uuid.UUID
	Name           string
	PriceKobo      int64
	Image          *string
	Sizes          []string
	Colors         []string
	IsCustomizable bool
}

// Options carries the variant selection for an add operation.
type Options struct {
	Size  string
	Color string
}
