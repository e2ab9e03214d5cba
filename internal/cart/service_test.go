package cart

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/logger"
	"github.com/atelierhq/atelier-backend/pkg/metrics"
)

type memoryRepo struct {
	snapshots map[uuid.UUID]*Snapshot
	saves     int
	deletes   int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{snapshots: make(map[uuid.UUID]*Snapshot)}
}

func (m *memoryRepo) Load(_ context.Context, sessionID uuid.UUID) (*Snapshot, error) {
	snapshot, ok := m.snapshots[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *snapshot
	copied.Items = append([]LineItem(nil), snapshot.Items...)
	return &copied, nil
}

func (m *memoryRepo) Save(_ context.Context, sessionID uuid.UUID, snapshot *Snapshot) error {
	m.saves++
	copied := *snapshot
	copied.Items = append([]LineItem(nil), snapshot.Items...)
	m.snapshots[sessionID] = &copied
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, sessionID uuid.UUID) error {
	m.deletes++
	delete(m.snapshots, sessionID)
	return nil
}

type stubLoader struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubLoader) LoadForCart(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	out := make(map[uuid.UUID]*models.Product)
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			out[id] = product
		}
	}
	return out, nil
}

func testService(t *testing.T, repo Repository, loader productLoader) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "cart-test", Output: io.Discard})
	svc, err := NewService(repo, loader, logg, metrics.NewCartMetrics(nil))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func catalogProduct(name string, priceKobo int64, sizes, colors []string, customizable bool) *models.Product {
	return &models.Product{
		ID:             uuid.New(),
		Name:           name,
		Category:       enums.ProductCategoryDresses,
		PriceKobo:      priceKobo,
		Images:         pq.StringArray{"lookbook.jpg"},
		Sizes:          pq.StringArray(sizes),
		Colors:         pq.StringArray(colors),
		IsCustomizable: customizable,
		IsActive:       true,
	}
}

func TestServiceAddItemPersistsSnapshot(t *testing.T) {
	t.Parallel()
	repo := newMemoryRepo()
	product := catalogProduct("Silk Wrap Dress", 4_500_000, []string{"S", "M"}, []string{"Emerald"}, false)
	svc := testService(t, repo, &stubLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})
	sessionID := uuid.New()

	dto, err := svc.AddItem(context.Background(), sessionID, AddItemInput{
		ProductID: product.ID,
		Quantity:  2,
		Size:      "M",
		Color:     "Emerald",
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if dto.Count != 2 || dto.TotalKobo != 9_000_000 {
		t.Fatalf("unexpected aggregates: %+v", dto)
	}
	if dto.TotalDisplay != "₦90000.00" {
		t.Fatalf("unexpected display total %q", dto.TotalDisplay)
	}
	if len(dto.Items) != 1 || dto.Items[0].Image == nil || *dto.Items[0].Image != "lookbook.jpg" {
		t.Fatalf("expected snapshotted image on line, got %+v", dto.Items)
	}

	stored, ok := repo.snapshots[sessionID]
	if !ok || len(stored.Items) != 1 {
		t.Fatal("expected snapshot persisted for session")
	}
}

func TestServiceAddItemUnknownProduct(t *testing.T) {
	t.Parallel()
	repo := newMemoryRepo()
	svc := testService(t, repo, &stubLoader{products: map[uuid.UUID]*models.Product{}})

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{ProductID: uuid.New(), Quantity: 1})
	if pkgerrors.ReasonOf(err) != pkgerrors.ReasonInvalidProduct {
		t.Fatalf("expected invalid_product rejection, got %v", err)
	}
	if repo.saves != 0 {
		t.Fatal("expected no persistence after rejection")
	}
}

func TestServiceRejectionLeavesSnapshotUntouched(t *testing.T) {
	t.Parallel()
	repo := newMemoryRepo()
	product := catalogProduct("Silk Wrap Dress", 4_500_000, []string{"M"}, []string{"Emerald"}, false)
	svc := testService(t, repo, &stubLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})
	sessionID := uuid.New()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, sessionID, AddItemInput{ProductID: product.ID, Quantity: 9, Size: "M", Color: "Emerald"}); err != nil {
		t.Fatalf("seed add: %v", err)
	}
	savesBefore := repo.saves

	_, err := svc.AddItem(ctx, sessionID, AddItemInput{ProductID: product.ID, Quantity: 4, Size: "M", Color: "Emerald"})
	if pkgerrors.ReasonOf(err) != pkgerrors.ReasonQuantityLimit {
		t.Fatalf("expected quantity_limit rejection, got %v", err)
	}
	if repo.saves != savesBefore {
		t.Fatal("expected rejected mutation not to persist")
	}
	if got := repo.snapshots[sessionID].Items[0].Quantity; got != 9 {
		t.Fatalf("expected stored quantity 9, got %d", got)
	}
}

func TestServiceSelfHealsCorruptedSnapshotOnRead(t *testing.T) {
	t.Parallel()
	repo := newMemoryRepo()
	sessionID := uuid.New()
	repo.snapshots[sessionID] = &Snapshot{
		Items: []LineItem{
			{LineID: uuid.New(), ProductID: uuid.New(), Name: "Linen Trouser", PriceKobo: 2_400_000, Quantity: 1},
			{LineID: uuid.New(), ProductID: uuid.New(), Name: "Corrupted Gown", PriceKobo: 99_000_000, Quantity: 1},
		},
	}
	svc := testService(t, repo, &stubLoader{})

	dto, err := svc.Get(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(dto.Items) != 1 || dto.TotalKobo != 2_400_000 {
		t.Fatalf("expected healed cart with one line, got %+v", dto)
	}
	if len(repo.snapshots[sessionID].Items) != 1 {
		t.Fatal("expected healed snapshot persisted back")
	}
}

func TestServiceRemoveAndQuantityFlows(t *testing.T) {
	t.Parallel()
	repo := newMemoryRepo()
	product := catalogProduct("Silk Wrap Dress", 4_500_000, []string{"S", "M"}, []string{"Emerald", "Ivory"}, false)
	svc := testService(t, repo, &stubLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})
	sessionID := uuid.New()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, sessionID, AddItemInput{ProductID: product.ID, Quantity: 1, Size: "M", Color: "Emerald"}); err != nil {
		t.Fatalf("add first variant: %v", err)
	}
	if _, err := svc.AddItem(ctx, sessionID, AddItemInput{ProductID: product.ID, Quantity: 1, Size: "S", Color: "Ivory"}); err != nil {
		t.Fatalf("add second variant: %v", err)
	}

	dto, err := svc.UpdateQuantity(ctx, sessionID, UpdateQuantityInput{ProductID: product.ID, Size: "M", Color: "Emerald", Quantity: 5})
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if dto.Count != 6 {
		t.Fatalf("expected count 6 after narrow update, got %d", dto.Count)
	}

	dto, err = svc.RemoveVariant(ctx, sessionID, VariantKey{ProductID: product.ID, Size: "M", Color: "Emerald"})
	if err != nil {
		t.Fatalf("remove variant: %v", err)
	}
	if len(dto.Items) != 1 {
		t.Fatalf("expected one remaining variant, got %d", len(dto.Items))
	}

	dto, err = svc.RemoveProduct(ctx, sessionID, product.ID)
	if err != nil {
		t.Fatalf("remove product: %v", err)
	}
	if len(dto.Items) != 0 {
		t.Fatal("expected empty cart after broad removal")
	}
}

func TestServiceClearDeletesSnapshot(t *testing.T) {
	t.Parallel()
	repo := newMemoryRepo()
	sessionID := uuid.New()
	repo.snapshots[sessionID] = &Snapshot{Items: []LineItem{{LineID: uuid.New(), ProductID: uuid.New(), PriceKobo: 100, Quantity: 1}}}
	svc := testService(t, repo, &stubLoader{})

	if err := svc.Clear(context.Background(), sessionID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if repo.deletes != 1 {
		t.Fatal("expected snapshot deletion")
	}
	if _, ok := repo.snapshots[sessionID]; ok {
		t.Fatal("expected snapshot gone")
	}
}

func TestServiceValidateAndSummary(t *testing.T) {
	t.Parallel()
	repo := newMemoryRepo()
	gown := catalogProduct("Bespoke Gown", 12_000_000, nil, nil, true)
	svc := testService(t, repo, &stubLoader{products: map[uuid.UUID]*models.Product{gown.ID: gown}})
	sessionID := uuid.New()
	ctx := context.Background()

	result, err := svc.Validate(ctx, sessionID)
	if err != nil {
		t.Fatalf("validate empty: %v", err)
	}
	if result.IsValid {
		t.Fatal("expected empty cart to fail validation")
	}

	if _, err := svc.AddItem(ctx, sessionID, AddItemInput{ProductID: gown.ID, Quantity: 1}); err != nil {
		t.Fatalf("add gown: %v", err)
	}

	result, err = svc.Validate(ctx, sessionID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.IsValid || !result.RequiresCustomOrderConsultation {
		t.Fatalf("expected valid consultation-flagged cart, got %+v", result)
	}

	summary, err := svc.Summary(ctx, sessionID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalKobo != 12_000_000 || len(summary.CustomizableItems) != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestServiceSessionLocksAreEvicted(t *testing.T) {
	t.Parallel()
	repo := newMemoryRepo()
	svc := testService(t, repo, &stubLoader{})
	impl := svc.(*service)
	ctx := context.Background()

	// One-shot anonymous sessions must not accumulate lock entries.
	for i := 0; i < 64; i++ {
		sessionID := uuid.New()
		if _, err := svc.Get(ctx, sessionID); err != nil {
			t.Fatalf("get: %v", err)
		}
		if err := svc.Clear(ctx, sessionID); err != nil {
			t.Fatalf("clear: %v", err)
		}
	}

	impl.mu.Lock()
	remaining := len(impl.sessions)
	impl.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected session lock map drained, %d entries retained", remaining)
	}
}

func TestServiceSessionLockSurvivesContention(t *testing.T) {
	t.Parallel()
	repo := newMemoryRepo()
	product := catalogProduct("Bespoke Gown", 12_000_000, nil, nil, true)
	svc := testService(t, repo, &stubLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})
	impl := svc.(*service)
	sessionID := uuid.New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AddItem(ctx, sessionID, AddItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
				t.Errorf("concurrent add: %v", err)
			}
		}()
	}
	wg.Wait()

	dto, err := svc.Get(ctx, sessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if dto.Count != 8 {
		t.Fatalf("expected all concurrent adds applied, got count %d", dto.Count)
	}

	impl.mu.Lock()
	remaining := len(impl.sessions)
	impl.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected lock entry released after contention, %d retained", remaining)
	}
}
