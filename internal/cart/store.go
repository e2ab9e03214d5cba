package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
)

// Store owns the authoritative line-item list for one cart session and the
// aggregates derived from it. It is not safe for concurrent use; callers
// serialize access per session.
type Store struct {
	items     []LineItem
	totalKobo int64
	count     int

	// purged collects lines dropped by the self-healing price filter since
	// the last DrainPurged call. A non-empty buffer indicates upstream data
	// corruption and must be reported by the caller.
	purged []LineItem
}

// NewStore returns an empty cart store.
func NewStore() *Store {
	return &Store{}
}

// Restore rebuilds a store from persisted line items. The recompute pass
// runs immediately, so corrupted snapshots self-heal on load.
func Restore(items []LineItem) *Store {
	s := &Store{items: append([]LineItem(nil), items...)}
	s.recompute()
	return s
}

// recompute purges lines whose price exceeds the allowed ceiling, then
// rebuilds the aggregates. Idempotent and pure over the line-item list.
func (s *Store) recompute() {
	kept := s.items[:0]
	for _, item := range s.items {
		if item.PriceKobo > MaxAllowedPriceKobo {
			s.purged = append(s.purged, item)
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept

	var total int64
	var count int
	for _, item := range s.items {
		total += item.LineTotalKobo()
		qty := item.Quantity
		if qty < 0 {
			qty = 0
		}
		count += qty
	}
	s.totalKobo = total
	s.count = count
}

// DrainPurged returns the lines removed by the self-healing filter and
// resets the buffer.
func (s *Store) DrainPurged() []LineItem {
	out := s.purged
	s.purged = nil
	return out
}

// Add validates the product snapshot and either merges into the matching
// line or appends a new one. Rejections leave the store untouched.
func (s *Store) Add(product ProductSnapshot, quantity int, opts Options) error {
	if product.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required").
			WithReason(pkgerrors.ReasonInvalidProduct)
	}
	if product.PriceKobo > MaxAllowedPriceKobo {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("the price for %q appears incorrect, please contact support", product.Name)).
			WithReason(pkgerrors.ReasonPriceIntegrity)
	}
	if product.PriceKobo <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("there is a pricing issue with %q, please try again later", product.Name)).
			WithReason(pkgerrors.ReasonPriceIntegrity)
	}
	if !product.IsCustomizable {
		if len(product.Sizes) > 0 && opts.Size == "" {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("please select a size for %q", product.Name)).
				WithReason(pkgerrors.ReasonSelectionRequired)
		}
		if len(product.Colors) > 0 && opts.Color == "" {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("please select a color for %q", product.Name)).
				WithReason(pkgerrors.ReasonSelectionRequired)
		}
	}

	safeQuantity := clampQuantity(quantity, 1, MaxQuantity)
	now := time.Now().UTC()

	if !product.IsCustomizable {
		key := VariantKey{ProductID: product.ID, Size: opts.Size, Color: opts.Color}
		for i := range s.items {
			if s.items[i].IsCustomizable || s.items[i].Key() != key {
				continue
			}
			merged := s.items[i].Quantity + safeQuantity
			if merged > MaxQuantity {
				return pkgerrors.New(pkgerrors.CodeStateConflict,
					fmt.Sprintf("maximum quantity of %d per item reached for %q", MaxQuantity, product.Name)).
					WithReason(pkgerrors.ReasonQuantityLimit)
			}
			s.items[i].Quantity = merged
			s.items[i].UpdatedAt = now
			s.recompute()
			return nil
		}
	}

	s.items = append(s.items, LineItem{
		LineID:          uuid.New(),
		ProductID:       product.ID,
		Name:            product.Name,
		PriceKobo:       product.PriceKobo,
		Quantity:        safeQuantity,
		Size:            opts.Size,
		Color:           opts.Color,
		IsCustomizable:  product.IsCustomizable,
		HasSizeOptions:  len(product.Sizes) > 0,
		HasColorOptions: len(product.Colors) > 0,
		Image:           product.Image,
		AddedAt:         now,
		UpdatedAt:       now,
	})
	s.recompute()
	return nil
}

// UpdateQuantity sets the quantity on the line matching key exactly. A
// clamped quantity of zero removes the line instead of storing it.
func (s *Store) UpdateQuantity(key VariantKey, quantity int) error {
	clamped := clampQuantity(quantity, 0, MaxQuantity)
	if clamped == 0 {
		s.RemoveVariant(key)
		return nil
	}

	found := false
	now := time.Now().UTC()
	for i := range s.items {
		if s.items[i].Key() != key {
			continue
		}
		s.items[i].Quantity = clamped
		s.items[i].UpdatedAt = now
		found = true
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	s.recompute()
	return nil
}

// SetProductQuantity sets the quantity on every line for the product. This
// is the broad counterpart of UpdateQuantity and must be called explicitly.
func (s *Store) SetProductQuantity(productID uuid.UUID, quantity int) error {
	clamped := clampQuantity(quantity, 0, MaxQuantity)
	if clamped == 0 {
		s.RemoveProduct(productID)
		return nil
	}

	found := false
	now := time.Now().UTC()
	for i := range s.items {
		if s.items[i].ProductID != productID {
			continue
		}
		s.items[i].Quantity = clamped
		s.items[i].UpdatedAt = now
		found = true
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	s.recompute()
	return nil
}

// OptionUpdate carries the new variant selection for UpdateItemOptions.
// Nil fields are left unchanged.
type OptionUpdate struct {
	Size  *string
	Color *string
}

// UpdateItemOptions rewrites the variant selection on the single line
// matching (productID, oldSize, oldColor). Returns false when no line
// matched. Uniqueness against other lines is the caller's concern.
func (s *Store) UpdateItemOptions(productID uuid.UUID, oldSize, oldColor string, update OptionUpdate) bool {
	key := VariantKey{ProductID: productID, Size: oldSize, Color: oldColor}
	for i := range s.items {
		if s.items[i].Key() != key {
			continue
		}
		if update.Size != nil {
			s.items[i].Size = *update.Size
		}
		if update.Color != nil {
			s.items[i].Color = *update.Color
		}
		s.items[i].UpdatedAt = time.Now().UTC()
		s.recompute()
		return true
	}
	return false
}

// RemoveVariant removes the line(s) matching key exactly. Other variants of
// the same product stay in the cart.
func (s *Store) RemoveVariant(key VariantKey) {
	kept := s.items[:0]
	for _, item := range s.items {
		if item.Key() == key {
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	s.recompute()
}

// RemoveProduct removes every line for the product regardless of variant.
func (s *Store) RemoveProduct(productID uuid.UUID) {
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ProductID == productID {
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	s.recompute()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.items = nil
	s.recompute()
}

// Item returns the first line matching key exactly.
func (s *Store) Item(key VariantKey) (LineItem, bool) {
	for _, item := range s.items {
		if item.Key() == key {
			return item, true
		}
	}
	return LineItem{}, false
}

// Variants returns every line for the product.
func (s *Store) Variants(productID uuid.UUID) []LineItem {
	var out []LineItem
	for _, item := range s.items {
		if item.ProductID == productID {
			out = append(out, item)
		}
	}
	return out
}

// Contains reports whether a line matching key exactly is in the cart.
func (s *Store) Contains(key VariantKey) bool {
	_, ok := s.Item(key)
	return ok
}

// ContainsProduct reports whether any variant of the product is in the cart.
func (s *Store) ContainsProduct(productID uuid.UUID) bool {
	for _, item := range s.items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// HasProblematicItems reports whether any line violates the price invariant.
func (s *Store) HasProblematicItems() bool {
	for _, item := range s.items {
		if item.violatesPriceInvariant() {
			return true
		}
	}
	return false
}

// HasCustomizableItems reports whether the cart holds any made-to-order line.
func (s *Store) HasCustomizableItems() bool {
	for _, item := range s.items {
		if item.IsCustomizable {
			return true
		}
	}
	return false
}

// Items returns a copy of the line-item list.
func (s *Store) Items() []LineItem {
	return append([]LineItem(nil), s.items...)
}

// TotalKobo returns the current cart total.
func (s *Store) TotalKobo() int64 {
	return s.totalKobo
}

// Count returns the summed quantity across all lines.
func (s *Store) Count() int {
	return s.count
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	return len(s.items)
}

func clampQuantity(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
