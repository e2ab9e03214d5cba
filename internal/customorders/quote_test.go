package customorders

import (
	"testing"

	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
)

func TestQuoteComputesMultipliers(t *testing.T) {
	t.Parallel()
	svc := NewService()

	quote, err := svc.Quote(QuoteInput{
		Style:   StyleGown,
		Fabric:  FabricSilk,
		Urgency: UrgencyRush,
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}

	// 8,500,000 × 1.6 × 1.75 = 23,800,000 kobo
	if quote.TotalKobo != 23_800_000 {
		t.Fatalf("expected 23800000 kobo, got %d", quote.TotalKobo)
	}
	if quote.BaseKobo != 8_500_000 {
		t.Fatalf("unexpected base %d", quote.BaseKobo)
	}
	if quote.TotalDisplay != "₦238000.00" {
		t.Fatalf("unexpected display %q", quote.TotalDisplay)
	}
	if !quote.RequiresConsultation {
		t.Fatal("expected consultation always required for custom orders")
	}
}

func TestQuoteStandardCottonIsBasePrice(t *testing.T) {
	t.Parallel()
	svc := NewService()

	quote, err := svc.Quote(QuoteInput{
		Style:   StyleKaftan,
		Fabric:  FabricCotton,
		Urgency: UrgencyStandard,
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if quote.TotalKobo != quote.BaseKobo {
		t.Fatalf("expected neutral multipliers, got %d from base %d", quote.TotalKobo, quote.BaseKobo)
	}
}

func TestQuoteRejectsUnknownRows(t *testing.T) {
	t.Parallel()
	svc := NewService()

	cases := []QuoteInput{
		{Style: "tracksuit", Fabric: FabricCotton, Urgency: UrgencyStandard},
		{Style: StyleGown, Fabric: "denim", Urgency: UrgencyStandard},
		{Style: StyleGown, Fabric: FabricCotton, Urgency: "yesterday"},
	}
	for _, input := range cases {
		_, err := svc.Quote(input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestTableListings(t *testing.T) {
	t.Parallel()
	svc := NewService()

	if got := len(svc.Styles()); got != 5 {
		t.Fatalf("expected 5 styles, got %d", got)
	}
	if got := len(svc.Fabrics()); got != 6 {
		t.Fatalf("expected 6 fabrics, got %d", got)
	}
	urgencies := svc.Urgencies()
	if len(urgencies) != 3 || urgencies[0] != "express" {
		t.Fatalf("expected sorted urgencies, got %v", urgencies)
	}
}
