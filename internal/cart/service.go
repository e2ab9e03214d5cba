package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/logger"
	"github.com/atelierhq/atelier-backend/pkg/metrics"
	"github.com/atelierhq/atelier-backend/pkg/money"
)

type productLoader interface {
	LoadForCart(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
}

// Service exposes session-scoped cart operations. Every mutation loads the
// session snapshot, applies one synchronous change under the session lock,
// and persists the result, so the store itself stays single-writer.
type Service interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, sessionID uuid.UUID, input AddItemInput) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, sessionID uuid.UUID, input UpdateQuantityInput) (*CartDTO, error)
	SetProductQuantity(ctx context.Context, sessionID, productID uuid.UUID, quantity int) (*CartDTO, error)
	UpdateOptions(ctx context.Context, sessionID uuid.UUID, input UpdateOptionsInput) (*CartDTO, error)
	RemoveVariant(ctx context.Context, sessionID uuid.UUID, key VariantKey) (*CartDTO, error)
	RemoveProduct(ctx context.Context, sessionID, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, sessionID uuid.UUID) error
	Validate(ctx context.Context, sessionID uuid.UUID) (*ValidationResult, error)
	Summary(ctx context.Context, sessionID uuid.UUID) (*CartSummary, error)
}

// AddItemInput is the payload for adding a product to the cart.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Size      string
	Color     string
}

// UpdateQuantityInput targets one exact variant line.
type UpdateQuantityInput struct {
	ProductID uuid.UUID
	Size      string
	Color     string
	Quantity  int
}

// UpdateOptionsInput rewrites the variant selection on one line.
type UpdateOptionsInput struct {
	ProductID uuid.UUID
	OldSize   string
	OldColor  string
	NewSize   *string
	NewColor  *string
}

// CartDTO is the cart payload returned to clients.
type CartDTO struct {
	SessionID            uuid.UUID  `json:"session_id"`
	Items                []LineItem `json:"items"`
	TotalKobo            int64      `json:"total_kobo"`
	TotalDisplay         string     `json:"total_display"`
	Count                int        `json:"count"`
	ShippingEstimateKobo int64      `json:"shipping_estimate_kobo"`
	HasCustomizableItems bool       `json:"has_customizable_items"`
}

type service struct {
	repo     Repository
	products productLoader
	logg     *logger.Logger
	metrics  *metrics.CartMetrics

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionLock
}

// sessionLock serializes operations on one session. refs counts holders and
// waiters so the map entry can be dropped once the last one releases;
// anonymous traffic mints a session per request, so entries must not outlive
// the request that created them.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, products productLoader, logg *logger.Logger, cartMetrics *metrics.CartMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		products: products,
		logg:     logg,
		metrics:  cartMetrics,
		sessions: make(map[uuid.UUID]*sessionLock),
	}, nil
}

// Get returns the current cart, self-healing the snapshot if needed.
func (s *service) Get(ctx context.Context, sessionID uuid.UUID) (*CartDTO, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	store, err := s.resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.buildDTO(sessionID, store), nil
}

// AddItem snapshots the product from the catalog and adds it to the cart.
func (s *service) AddItem(ctx context.Context, sessionID uuid.UUID, input AddItemInput) (*CartDTO, error) {
	if input.ProductID == uuid.Nil {
		s.countRejection(pkgerrors.ReasonInvalidProduct)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required").
			WithReason(pkgerrors.ReasonInvalidProduct)
	}

	loaded, err := s.products.LoadForCart(ctx, []uuid.UUID{input.ProductID})
	if err != nil {
		return nil, err
	}
	product, ok := loaded[input.ProductID]
	if !ok {
		s.countRejection(pkgerrors.ReasonInvalidProduct)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available").
			WithReason(pkgerrors.ReasonInvalidProduct)
	}

	return s.mutate(ctx, sessionID, func(store *Store) error {
		return store.Add(snapshotProduct(product), input.Quantity, Options{
			Size:  input.Size,
			Color: input.Color,
		})
	})
}

// UpdateQuantity sets the quantity on one exact variant line.
func (s *service) UpdateQuantity(ctx context.Context, sessionID uuid.UUID, input UpdateQuantityInput) (*CartDTO, error) {
	return s.mutate(ctx, sessionID, func(store *Store) error {
		return store.UpdateQuantity(VariantKey{
			ProductID: input.ProductID,
			Size:      input.Size,
			Color:     input.Color,
		}, input.Quantity)
	})
}

// SetProductQuantity sets the quantity on every variant of a product.
func (s *service) SetProductQuantity(ctx context.Context, sessionID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	return s.mutate(ctx, sessionID, func(store *Store) error {
		return store.SetProductQuantity(productID, quantity)
	})
}

// UpdateOptions rewrites the size/color selection on one line. Missing
// lines are a no-op rather than an error.
func (s *service) UpdateOptions(ctx context.Context, sessionID uuid.UUID, input UpdateOptionsInput) (*CartDTO, error) {
	return s.mutate(ctx, sessionID, func(store *Store) error {
		store.UpdateItemOptions(input.ProductID, input.OldSize, input.OldColor, OptionUpdate{
			Size:  input.NewSize,
			Color: input.NewColor,
		})
		return nil
	})
}

// RemoveVariant removes one exact variant line.
func (s *service) RemoveVariant(ctx context.Context, sessionID uuid.UUID, key VariantKey) (*CartDTO, error) {
	return s.mutate(ctx, sessionID, func(store *Store) error {
		store.RemoveVariant(key)
		return nil
	})
}

// RemoveProduct removes every variant of a product.
func (s *service) RemoveProduct(ctx context.Context, sessionID, productID uuid.UUID) (*CartDTO, error) {
	return s.mutate(ctx, sessionID, func(store *Store) error {
		store.RemoveProduct(productID)
		return nil
	})
}

// Clear empties the cart and drops the stored snapshot.
func (s *service) Clear(ctx context.Context, sessionID uuid.UUID) error {
	unlock := s.lockSession(sessionID)
	defer unlock()

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// Validate runs the checkout-readiness pass without mutating the cart.
func (s *service) Validate(ctx context.Context, sessionID uuid.UUID) (*ValidationResult, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	store, err := s.resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	result := store.ValidateForCheckout()
	if !result.IsValid {
		s.metrics.IncCheckoutBlocked()
	}
	return &result, nil
}

// Summary returns the projection consumed by order creation.
func (s *service) Summary(ctx context.Context, sessionID uuid.UUID) (*CartSummary, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	store, err := s.resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary := store.Summary()
	return &summary, nil
}

func (s *service) mutate(ctx context.Context, sessionID uuid.UUID, op func(store *Store) error) (*CartDTO, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	store, err := s.resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := op(store); err != nil {
		if reason := pkgerrors.ReasonOf(err); reason != "" {
			s.countRejection(reason)
		}
		return nil, err
	}
	s.reportPurged(ctx, sessionID, store)

	if err := s.persist(ctx, sessionID, store); err != nil {
		return nil, err
	}
	return s.buildDTO(sessionID, store), nil
}

// resolve loads the session's store, running the self-healing pass. Healed
// snapshots are persisted immediately so the corruption does not resurface.
func (s *service) resolve(ctx context.Context, sessionID uuid.UUID) (*Store, error) {
	snapshot, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if snapshot == nil {
		return NewStore(), nil
	}

	store := Restore(snapshot.Items)
	if purged := store.DrainPurged(); len(purged) > 0 {
		s.logPurged(ctx, sessionID, purged)
		if err := s.persist(ctx, sessionID, store); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func (s *service) reportPurged(ctx context.Context, sessionID uuid.UUID, store *Store) {
	if purged := store.DrainPurged(); len(purged) > 0 {
		s.logPurged(ctx, sessionID, purged)
	}
}

func (s *service) logPurged(ctx context.Context, sessionID uuid.UUID, purged []LineItem) {
	s.metrics.AddPurgedItems(len(purged))
	names := make([]string, 0, len(purged))
	for _, item := range purged {
		names = append(names, item.Name)
	}
	ctx = s.logg.WithCartSessionID(ctx, sessionID.String())
	ctx = s.logg.WithFields(ctx, map[string]any{
		"purged_count": len(purged),
		"purged_items": names,
	})
	s.logg.Warn(ctx, "price filter purged corrupted cart lines")
}

func (s *service) persist(ctx context.Context, sessionID uuid.UUID, store *Store) error {
	snapshot := &Snapshot{
		Items:     store.Items(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, sessionID, snapshot); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

func (s *service) buildDTO(sessionID uuid.UUID, store *Store) *CartDTO {
	return &CartDTO{
		SessionID:            sessionID,
		Items:                store.Items(),
		TotalKobo:            store.TotalKobo(),
		TotalDisplay:         money.FormatNaira(store.TotalKobo()),
		Count:                store.Count(),
		ShippingEstimateKobo: store.ShippingEstimateKobo(),
		HasCustomizableItems: store.HasCustomizableItems(),
	}
}

func (s *service) countRejection(reason string) {
	s.metrics.IncRejection(reason)
}

func (s *service) lockSession(sessionID uuid.UUID) func() {
	s.mu.Lock()
	lock, ok := s.sessions[sessionID]
	if !ok {
		lock = &sessionLock{}
		s.sessions[sessionID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.sessions, sessionID)
		}
		s.mu.Unlock()
	}
}

func snapshotProduct(product *models.Product) ProductSnapshot {
	snapshot := ProductSnapshot{
		ID:             product.ID,
		Name:           product.Name,
		PriceKobo:      product.PriceKobo,
		Sizes:          append([]string(nil), product.Sizes...),
		Colors:         append([]string(nil), product.Colors...),
		IsCustomizable: product.IsCustomizable,
	}
	if len(product.Images) > 0 {
		image := product.Images[0]
		snapshot.Image = &image
	}
	return snapshot
}
