package cart

import "fmt"

const (
	estimateBaseKobo         = int64(150_000)
	estimatePerExtraLineKobo = int64(50_000)
)

// ValidationResult is the checkout-readiness verdict for a cart. Errors
// carries every blocking issue so the client can show all of them at once;
// IsEmpty flags the empty-cart case so callers never have to match on the
// display text.
type ValidationResult struct {
	IsValid                         bool     `json:"is_valid"`
	IsEmpty                         bool     `json:"is_empty"`
	Errors                          []string `json:"errors"`
	RequiresCustomOrderConsultation bool     `json:"requires_custom_order_consultation"`
}

// ValidateForCheckout answers whether the cart may proceed to payment.
// Read-only, never mutates store state.
func (s *Store) ValidateForCheckout() ValidationResult {
	if len(s.items) == 0 {
		return ValidationResult{
			IsValid: false,
			IsEmpty: true,
			Errors:  []string{"Cart is empty"},
		}
	}

	var errs []string
	for _, item := range s.items {
		if item.IsCustomizable {
			continue
		}
		if item.HasSizeOptions && item.Size == "" {
			errs = append(errs, fmt.Sprintf("Please select a size for %q", item.Name))
		}
		if item.HasColorOptions && item.Color == "" {
			errs = append(errs, fmt.Sprintf("Please select a color for %q", item.Name))
		}
	}
	if s.HasProblematicItems() {
		errs = append(errs, "Some items have pricing issues, please review your cart")
	}

	return ValidationResult{
		IsValid:                         len(errs) == 0,
		Errors:                          errs,
		RequiresCustomOrderConsultation: s.HasCustomizableItems(),
	}
}

// CartSummary is the read-only projection handed to the order-creation flow.
type CartSummary struct {
	TotalItems        int        `json:"total_items"`
	TotalKobo         int64      `json:"total_kobo"`
	Items             []LineItem `json:"items"`
	CustomizableItems []LineItem `json:"customizable_items"`
	ReadyToWearItems  []LineItem `json:"ready_to_wear_items"`
}

// Summary projects the cart into the shape consumed at checkout.
func (s *Store) Summary() CartSummary {
	summary := CartSummary{
		TotalItems: s.count,
		TotalKobo:  s.totalKobo,
		Items:      s.Items(),
	}
	for _, item := range s.items {
		if item.IsCustomizable {
			summary.CustomizableItems = append(summary.CustomizableItems, item)
		} else {
			summary.ReadyToWearItems = append(summary.ReadyToWearItems, item)
		}
	}
	return summary
}

// ShippingEstimateKobo is a preview-only figure shown in the cart. The
// checkout rate table is authoritative and supersedes it.
func (s *Store) ShippingEstimateKobo() int64 {
	if len(s.items) == 0 {
		return 0
	}
	return estimateBaseKobo + estimatePerExtraLineKobo*int64(len(s.items)-1)
}
