// Package money converts between naira-denominated decimals used at the API
// boundary and the kobo (minor unit) int64 amounts used internally.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const koboPerNaira = 100

var koboFactor = decimal.NewFromInt(koboPerNaira)

// KoboFromNaira converts a naira amount to kobo. Amounts with sub-kobo
// precision are rejected rather than silently rounded.
func KoboFromNaira(naira decimal.Decimal) (int64, error) {
	kobo := naira.Mul(koboFactor)
	if !kobo.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-kobo precision", naira)
	}
	return kobo.IntPart(), nil
}

// NairaFromKobo converts a kobo amount back to naira.
func NairaFromKobo(kobo int64) decimal.Decimal {
	return decimal.NewFromInt(kobo).Div(koboFactor)
}

// ScaleKobo multiplies a kobo amount by a decimal factor, rounding
// half-up to the nearest kobo. Used by the custom-order multiplier table.
func ScaleKobo(kobo int64, factor decimal.Decimal) int64 {
	return decimal.NewFromInt(kobo).Mul(factor).Round(0).IntPart()
}

// FormatNaira renders a kobo amount as a naira string, e.g. "₦3500.00".
func FormatNaira(kobo int64) string {
	return "₦" + NairaFromKobo(kobo).StringFixed(2)
}
