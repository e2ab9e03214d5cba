package types

import "strings"

// ShippingAddress is the delivery destination captured at checkout. Stored
// as jsonb on the order row; the storefront has no address book.
type ShippingAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// Validate reports the first missing mandatory field, or "".
func (a ShippingAddress) Validate() string {
	switch {
	case strings.TrimSpace(a.Line1) == "":
		return "line1"
	case strings.TrimSpace(a.City) == "":
		return "city"
	case strings.TrimSpace(a.State) == "":
		return "state"
	case strings.TrimSpace(a.Phone) == "":
		return "phone"
	}
	return ""
}

// Normalized returns a copy with whitespace trimmed and the country
// defaulted to NG.
func (a ShippingAddress) Normalized() ShippingAddress {
	out := ShippingAddress{
		Line1:      strings.TrimSpace(a.Line1),
		Line2:      strings.TrimSpace(a.Line2),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
		Phone:      strings.TrimSpace(a.Phone),
	}
	if out.Country == "" {
		out.Country = "NG"
	}
	return out
}
