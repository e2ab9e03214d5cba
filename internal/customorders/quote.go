// Package customorders prices made-to-order garments. A quote is a table
// lookup: base price per garment style, scaled by fabric and urgency
// multipliers. Every custom order still goes through a design consultation
// before payment; the quote is indicative.
package customorders

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/money"
)

// GarmentStyle selects the base price row.
type GarmentStyle string

const (
	StyleGown     GarmentStyle = "gown"
	StyleTwoPiece GarmentStyle = "two_piece"
	StyleSuit     GarmentStyle = "suit"
	StyleKaftan   GarmentStyle = "kaftan"
	StyleCorset   GarmentStyle = "corset_dress"
)

// Fabric selects the material multiplier.
type Fabric string

const (
	FabricCotton Fabric = "cotton"
	FabricLinen  Fabric = "linen"
	FabricSilk   Fabric = "silk"
	FabricLace   Fabric = "lace"
	FabricAsoOke Fabric = "aso_oke"
	FabricVelvet Fabric = "velvet"
)

// Urgency selects the turnaround multiplier.
type Urgency string

const (
	UrgencyStandard Urgency = "standard"
	UrgencyExpress  Urgency = "express"
	UrgencyRush     Urgency = "rush"
)

var styleBaseKobo = map[GarmentStyle]int64{
	StyleGown:     8_500_000,
	StyleTwoPiece: 6_500_000,
	StyleSuit:     12_000_000,
	StyleKaftan:   4_500_000,
	StyleCorset:   9_500_000,
}

var fabricMultipliers = map[Fabric]decimal.Decimal{
	FabricCotton: decimal.NewFromFloat(1.0),
	FabricLinen:  decimal.NewFromFloat(1.15),
	FabricSilk:   decimal.NewFromFloat(1.6),
	FabricLace:   decimal.NewFromFloat(1.45),
	FabricAsoOke: decimal.NewFromFloat(1.5),
	FabricVelvet: decimal.NewFromFloat(1.35),
}

var urgencyMultipliers = map[Urgency]decimal.Decimal{
	UrgencyStandard: decimal.NewFromFloat(1.0),
	UrgencyExpress:  decimal.NewFromFloat(1.35),
	UrgencyRush:     decimal.NewFromFloat(1.75),
}

// QuoteInput selects one row from each table.
type QuoteInput struct {
	Style   GarmentStyle
	Fabric  Fabric
	Urgency Urgency
}

// Quote is the indicative price for a made-to-order garment.
type Quote struct {
	Style                GarmentStyle `json:"style"`
	Fabric               Fabric       `json:"fabric"`
	Urgency              Urgency      `json:"urgency"`
	BaseKobo             int64        `json:"base_kobo"`
	TotalKobo            int64        `json:"total_kobo"`
	TotalDisplay         string       `json:"total_display"`
	RequiresConsultation bool         `json:"requires_consultation"`
}

// Service produces custom-order quotes.
type Service interface {
	Quote(input QuoteInput) (*Quote, error)
	Styles() []string
	Fabrics() []string
	Urgencies() []string
}

type service struct{}

// NewService returns the table-driven quote service.
func NewService() Service {
	return service{}
}

// Quote computes base × fabric × urgency, rounded to the nearest kobo.
func (service) Quote(input QuoteInput) (*Quote, error) {
	base, ok := styleBaseKobo[input.Style]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown garment style %q", input.Style))
	}
	fabric, ok := fabricMultipliers[input.Fabric]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown fabric %q", input.Fabric))
	}
	urgency, ok := urgencyMultipliers[input.Urgency]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown urgency %q", input.Urgency))
	}

	total := money.ScaleKobo(base, fabric.Mul(urgency))
	return &Quote{
		Style:                input.Style,
		Fabric:               input.Fabric,
		Urgency:              input.Urgency,
		BaseKobo:             base,
		TotalKobo:            total,
		TotalDisplay:         money.FormatNaira(total),
		RequiresConsultation: true,
	}, nil
}

// Styles lists the quotable garment styles, sorted.
func (service) Styles() []string {
	return sortedKeys(styleBaseKobo)
}

// Fabrics lists the supported fabrics, sorted.
func (service) Fabrics() []string {
	return sortedKeys(fabricMultipliers)
}

// Urgencies lists the turnaround options, sorted.
func (service) Urgencies() []string {
	return sortedKeys(urgencyMultipliers)
}

func sortedKeys[K ~string, V any](table map[K]V) []string {
	out := make([]string, 0, len(table))
	for key := range table {
		out = append(out, string(key))
	}
	sort.Strings(out)
	return out
}
