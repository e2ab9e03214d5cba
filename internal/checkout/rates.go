package checkout

import (
	"fmt"

	"github.com/atelierhq/atelier-backend/pkg/config"
	"github.com/atelierhq/atelier-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/money"
)

// RateTable is the authoritative flat shipping fee per delivery method.
// The cart's per-line estimate is preview-only and never reaches an order.
type RateTable struct {
	pickupKobo   int64
	regionalKobo int64
	nationalKobo int64
}

// NewRateTable builds the table from configuration.
func NewRateTable(cfg config.ShippingConfig) RateTable {
	return RateTable{
		pickupKobo:   cfg.PickupKobo,
		regionalKobo: cfg.RegionalKobo,
		nationalKobo: cfg.NationalKobo,
	}
}

// Rate returns the shipping fee for the delivery method.
func (t RateTable) Rate(method enums.DeliveryMethod) (int64, error) {
	switch method {
	case enums.DeliveryMethodPickup:
		return t.pickupKobo, nil
	case enums.DeliveryMethodRegional:
		return t.regionalKobo, nil
	case enums.DeliveryMethodNational:
		return t.nationalKobo, nil
	default:
		return 0, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown delivery method %q", method))
	}
}

// RateDTO is one row of the rate table exposed to clients.
type RateDTO struct {
	Method        string `json:"method"`
	AmountKobo    int64  `json:"amount_kobo"`
	AmountDisplay string `json:"amount_display"`
}

// List returns every rate row in menu order.
func (t RateTable) List() []RateDTO {
	rows := []struct {
		method enums.DeliveryMethod
		amount int64
	}{
		{enums.DeliveryMethodPickup, t.pickupKobo},
		{enums.DeliveryMethodRegional, t.regionalKobo},
		{enums.DeliveryMethodNational, t.nationalKobo},
	}
	out := make([]RateDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, RateDTO{
			Method:        string(row.method),
			AmountKobo:    row.amount,
			AmountDisplay: money.FormatNaira(row.amount),
		})
	}
	return out
}
