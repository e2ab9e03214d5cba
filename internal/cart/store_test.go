package cart

import (
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
)

func silkDress() ProductSnapshot {
	return ProductSnapshot{
		ID:        uuid.New(),
		Name:      "Silk Wrap Dress",
		PriceKobo: 4_500_000,
		Sizes:     []string{"S", "M", "L"},
		Colors:    []string{"Emerald", "Ivory"},
	}
}

func bespokeGown() ProductSnapshot {
	return ProductSnapshot{
		ID:             uuid.New(),
		Name:           "Bespoke Aso Oke Gown",
		PriceKobo:      12_000_000,
		IsCustomizable: true,
	}
}

func mustAdd(t *testing.T, s *Store, product ProductSnapshot, qty int, opts Options) {
	t.Helper()
	if err := s.Add(product, qty, opts); err != nil {
		t.Fatalf("add failed: %v", err)
	}
}

func TestAddMergesOnExactVariantKey(t *testing.T) {
	t.Parallel()
	s := NewStore()
	dress := silkDress()

	mustAdd(t, s, dress, 2, Options{Size: "M", Color: "Emerald"})
	mustAdd(t, s, dress, 1, Options{Size: "M", Color: "Emerald"})

	if s.Len() != 1 {
		t.Fatalf("expected one merged line, got %d", s.Len())
	}
	item, ok := s.Item(VariantKey{ProductID: dress.ID, Size: "M", Color: "Emerald"})
	if !ok || item.Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %+v", item)
	}

	mustAdd(t, s, dress, 1, Options{Size: "M", Color: "Ivory"})
	if s.Len() != 2 {
		t.Fatalf("expected a second line for the new color, got %d", s.Len())
	}
}

func TestAddCustomizableNeverMerges(t *testing.T) {
	t.Parallel()
	s := NewStore()
	gown := bespokeGown()

	mustAdd(t, s, gown, 1, Options{})
	mustAdd(t, s, gown, 1, Options{})

	if s.Len() != 2 {
		t.Fatalf("expected two distinct lines for customizable adds, got %d", s.Len())
	}
	variants := s.Variants(gown.ID)
	if len(variants) != 2 || variants[0].LineID == variants[1].LineID {
		t.Fatal("expected distinct line ids per customizable add")
	}
}

func TestAddRejectsMergeOverflowWithoutPartialApply(t *testing.T) {
	t.Parallel()
	s := NewStore()
	dress := silkDress()
	key := VariantKey{ProductID: dress.ID, Size: "M", Color: "Emerald"}

	mustAdd(t, s, dress, 9, Options{Size: "M", Color: "Emerald"})
	err := s.Add(dress, 4, Options{Size: "M", Color: "Emerald"})
	if err == nil {
		t.Fatal("expected overflow rejection")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if pkgerrors.ReasonOf(err) != pkgerrors.ReasonQuantityLimit {
		t.Fatalf("expected quantity_limit reason, got %q", pkgerrors.ReasonOf(err))
	}

	item, _ := s.Item(key)
	if item.Quantity != 9 {
		t.Fatalf("expected stored quantity untouched at 9, got %d", item.Quantity)
	}
}

func TestAddClampsRequestedQuantity(t *testing.T) {
	t.Parallel()
	s := NewStore()
	dress := silkDress()

	mustAdd(t, s, dress, 25, Options{Size: "S", Color: "Ivory"})
	item, _ := s.Item(VariantKey{ProductID: dress.ID, Size: "S", Color: "Ivory"})
	if item.Quantity != MaxQuantity {
		t.Fatalf("expected quantity clamped to %d, got %d", MaxQuantity, item.Quantity)
	}

	mustAdd(t, s, dress, -2, Options{Size: "M", Color: "Ivory"})
	item, _ = s.Item(VariantKey{ProductID: dress.ID, Size: "M", Color: "Ivory"})
	if item.Quantity != 1 {
		t.Fatalf("expected quantity clamped up to 1, got %d", item.Quantity)
	}
}

func TestAddRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		product    ProductSnapshot
		opts       Options
		wantReason string
	}{
		{
			name:       "missing product id",
			product:    ProductSnapshot{Name: "Ghost"},
			wantReason: pkgerrors.ReasonInvalidProduct,
		},
		{
			name: "price above ceiling",
			product: ProductSnapshot{
				ID:        uuid.New(),
				Name:      "Overpriced Gown",
				PriceKobo: MaxAllowedPriceKobo + 1,
			},
			wantReason: pkgerrors.ReasonPriceIntegrity,
		},
		{
			name: "zero price",
			product: ProductSnapshot{
				ID:   uuid.New(),
				Name: "Free Gown",
			},
			wantReason: pkgerrors.ReasonPriceIntegrity,
		},
		{
			name:       "missing size",
			product:    silkDress(),
			opts:       Options{Color: "Emerald"},
			wantReason: pkgerrors.ReasonSelectionRequired,
		},
		{
			name:       "missing color",
			product:    silkDress(),
			opts:       Options{Size: "M"},
			wantReason: pkgerrors.ReasonSelectionRequired,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := NewStore()
			err := s.Add(tc.product, 1, tc.opts)
			if err == nil {
				t.Fatal("expected rejection")
			}
			if got := pkgerrors.ReasonOf(err); got != tc.wantReason {
				t.Fatalf("expected reason %q, got %q", tc.wantReason, got)
			}
			if s.Len() != 0 || s.TotalKobo() != 0 || s.Count() != 0 {
				t.Fatal("expected store unchanged after rejection")
			}
		})
	}
}

func TestPriceCeilingIsInclusive(t *testing.T) {
	t.Parallel()
	s := NewStore()
	gown := ProductSnapshot{
		ID:        uuid.New(),
		Name:      "Couture Gown",
		PriceKobo: MaxAllowedPriceKobo,
	}
	if err := s.Add(gown, 1, Options{}); err != nil {
		t.Fatalf("expected price at ceiling to be accepted, got %v", err)
	}
	if s.TotalKobo() != MaxAllowedPriceKobo {
		t.Fatalf("unexpected total %d", s.TotalKobo())
	}
}

func TestAggregatesArePureFunctionOfLines(t *testing.T) {
	t.Parallel()
	s := NewStore()
	dress := silkDress()
	gown := bespokeGown()

	mustAdd(t, s, dress, 2, Options{Size: "M", Color: "Emerald"})
	mustAdd(t, s, gown, 3, Options{})

	wantTotal := dress.PriceKobo*2 + gown.PriceKobo*3
	if s.TotalKobo() != wantTotal {
		t.Fatalf("expected total %d, got %d", wantTotal, s.TotalKobo())
	}
	if s.Count() != 5 {
		t.Fatalf("expected count 5, got %d", s.Count())
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	t.Parallel()
	s := NewStore()
	mustAdd(t, s, silkDress(), 2, Options{Size: "M", Color: "Emerald"})

	totalBefore, countBefore := s.TotalKobo(), s.Count()
	s.recompute()
	s.recompute()
	if s.TotalKobo() != totalBefore || s.Count() != countBefore {
		t.Fatalf("expected aggregates stable, got total=%d count=%d", s.TotalKobo(), s.Count())
	}
}

func TestRestorePurgesPriceViolations(t *testing.T) {
	t.Parallel()
	valid := LineItem{
		LineID:    uuid.New(),
		ProductID: uuid.New(),
		Name:      "Linen Trouser",
		PriceKobo: 2_400_000,
		Quantity:  2,
	}
	corrupt := LineItem{
		LineID:    uuid.New(),
		ProductID: uuid.New(),
		Name:      "Corrupted Gown",
		PriceKobo: 60_000_000,
		Quantity:  1,
	}

	s := Restore([]LineItem{valid, corrupt})

	if s.Len() != 1 {
		t.Fatalf("expected corrupted line purged, got %d lines", s.Len())
	}
	if s.TotalKobo() != valid.LineTotalKobo() {
		t.Fatalf("expected total of remaining lines, got %d", s.TotalKobo())
	}
	purged := s.DrainPurged()
	if len(purged) != 1 || purged[0].LineID != corrupt.LineID {
		t.Fatalf("expected one purged line, got %v", purged)
	}
	if len(s.DrainPurged()) != 0 {
		t.Fatal("expected purge buffer drained")
	}
}

func TestUpdateQuantityBoundaries(t *testing.T) {
	t.Parallel()
	dress := silkDress()
	key := VariantKey{ProductID: dress.ID, Size: "M", Color: "Emerald"}

	t.Run("zero removes the line", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		mustAdd(t, s, dress, 2, Options{Size: "M", Color: "Emerald"})
		if err := s.UpdateQuantity(key, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Len() != 0 {
			t.Fatal("expected line removed at zero quantity")
		}
	})

	t.Run("negative removes the line", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		mustAdd(t, s, dress, 2, Options{Size: "M", Color: "Emerald"})
		if err := s.UpdateQuantity(key, -3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Len() != 0 {
			t.Fatal("expected line removed at negative quantity")
		}
	})

	t.Run("above max clamps to max", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		mustAdd(t, s, dress, 2, Options{Size: "M", Color: "Emerald"})
		if err := s.UpdateQuantity(key, 15); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		item, _ := s.Item(key)
		if item.Quantity != MaxQuantity {
			t.Fatalf("expected quantity %d, got %d", MaxQuantity, item.Quantity)
		}
	})

	t.Run("missing line errors", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		err := s.UpdateQuantity(key, 3)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not-found, got %v", err)
		}
	})
}

func TestSetProductQuantityCoversAllVariants(t *testing.T) {
	t.Parallel()
	s := NewStore()
	dress := silkDress()
	mustAdd(t, s, dress, 2, Options{Size: "M", Color: "Emerald"})
	mustAdd(t, s, dress, 4, Options{Size: "L", Color: "Ivory"})

	if err := s.SetProductQuantity(dress.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, item := range s.Items() {
		if item.Quantity != 1 {
			t.Fatalf("expected every variant at quantity 1, got %+v", item)
		}
	}

	if err := s.SetProductQuantity(dress.ID, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 0 {
		t.Fatal("expected zero quantity to remove every variant")
	}
}

func TestRemovalAsymmetry(t *testing.T) {
	t.Parallel()
	s := NewStore()
	dress := silkDress()
	other := silkDress()

	mustAdd(t, s, dress, 1, Options{Size: "M", Color: "Emerald"})
	mustAdd(t, s, dress, 1, Options{Size: "L", Color: "Ivory"})
	mustAdd(t, s, other, 1, Options{Size: "S", Color: "Ivory"})

	s.RemoveVariant(VariantKey{ProductID: dress.ID, Size: "M", Color: "Emerald"})
	if len(s.Variants(dress.ID)) != 1 {
		t.Fatal("expected narrow removal to leave the other variant")
	}

	s.RemoveProduct(dress.ID)
	if s.ContainsProduct(dress.ID) {
		t.Fatal("expected broad removal to drop every variant")
	}
	if !s.ContainsProduct(other.ID) {
		t.Fatal("expected unrelated product untouched")
	}
}

func TestUpdateItemOptions(t *testing.T) {
	t.Parallel()
	s := NewStore()
	dress := silkDress()
	mustAdd(t, s, dress, 2, Options{Size: "M", Color: "Emerald"})

	newSize := "L"
	if !s.UpdateItemOptions(dress.ID, "M", "Emerald", OptionUpdate{Size: &newSize}) {
		t.Fatal("expected matching line to update")
	}
	item, ok := s.Item(VariantKey{ProductID: dress.ID, Size: "L", Color: "Emerald"})
	if !ok || item.Quantity != 2 {
		t.Fatalf("expected line rekeyed to new size, got %+v", item)
	}

	if s.UpdateItemOptions(dress.ID, "M", "Emerald", OptionUpdate{Size: &newSize}) {
		t.Fatal("expected no-op for missing line")
	}
}

func TestClearEmptiesStore(t *testing.T) {
	t.Parallel()
	s := NewStore()
	mustAdd(t, s, silkDress(), 2, Options{Size: "M", Color: "Emerald"})

	s.Clear()
	if s.Len() != 0 || s.TotalKobo() != 0 || s.Count() != 0 {
		t.Fatal("expected empty store after clear")
	}
}
