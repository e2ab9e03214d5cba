package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/internal/cart"
	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/logger"
	"github.com/atelierhq/atelier-backend/pkg/metrics"
	"github.com/atelierhq/atelier-backend/pkg/types"
)

type cartGateway interface {
	Validate(ctx context.Context, sessionID uuid.UUID) (*cart.ValidationResult, error)
	Summary(ctx context.Context, sessionID uuid.UUID) (*cart.CartSummary, error)
	Clear(ctx context.Context, sessionID uuid.UUID) error
}

// Service converts checkout-ready carts into orders.
type Service interface {
	Rates() []RateDTO
	PlaceOrder(ctx context.Context, sessionID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, sessionID uuid.UUID) ([]OrderDTO, error)
}

// PlaceOrderInput is the contact and delivery payload for order creation.
// Identity comes from the request; auth is an external collaborator.
type PlaceOrderInput struct {
	ContactEmail    string
	ContactName     string
	DeliveryMethod  enums.DeliveryMethod
	ShippingAddress *types.ShippingAddress
	Notes           *string
}

type service struct {
	repo    Repository
	carts   cartGateway
	rates   RateTable
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewService builds the checkout service.
func NewService(repo Repository, carts cartGateway, rates RateTable, logg *logger.Logger, cartMetrics *metrics.CartMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		carts:   carts,
		rates:   rates,
		logg:    logg,
		metrics: cartMetrics,
	}, nil
}

// Rates returns the authoritative shipping fee table.
func (s *service) Rates() []RateDTO {
	return s.rates.List()
}

// PlaceOrder re-validates the cart, snapshots it into an order with the
// flat shipping fee applied, then clears the cart.
func (s *service) PlaceOrder(ctx context.Context, sessionID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	if err := validateContact(input); err != nil {
		return nil, err
	}

	shippingKobo, err := s.rates.Rate(input.DeliveryMethod)
	if err != nil {
		return nil, err
	}

	var address *types.ShippingAddress
	if input.DeliveryMethod != enums.DeliveryMethodPickup {
		if input.ShippingAddress == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required for delivery")
		}
		if missing := input.ShippingAddress.Validate(); missing != "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("shipping address is missing %s", missing))
		}
		normalized := input.ShippingAddress.Normalized()
		address = &normalized
	}

	result, err := s.carts.Validate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !result.IsValid {
		var agg error
		for _, msg := range result.Errors {
			agg = multierr.Append(agg, errors.New(msg))
		}
		blocked := pkgerrors.Wrap(pkgerrors.CodeStateConflict, agg, "cart is not ready for checkout").
			WithDetails(result.Errors)
		if result.IsEmpty {
			blocked = blocked.WithReason(pkgerrors.ReasonCartEmpty)
		}
		return nil, blocked
	}

	summary, err := s.carts.Summary(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		SessionID:            sessionID,
		ContactEmail:         strings.TrimSpace(input.ContactEmail),
		ContactName:          strings.TrimSpace(input.ContactName),
		Status:               enums.OrderStatusPending,
		DeliveryMethod:       input.DeliveryMethod,
		ShippingAddress:      address,
		SubtotalKobo:         summary.TotalKobo,
		ShippingKobo:         shippingKobo,
		TotalKobo:            summary.TotalKobo + shippingKobo,
		ItemCount:            summary.TotalItems,
		RequiresConsultation: len(summary.CustomizableItems) > 0,
		Notes:                input.Notes,
		Items:                orderLines(summary.Items),
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	s.metrics.IncOrdersPlaced()

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// The order exists; a stale cart is recoverable on the next session read.
		ctx = s.logg.WithCartSessionID(ctx, sessionID.String())
		s.logg.Error(ctx, "failed to clear cart after order creation", err)
	}

	return NewOrderDTO(created), nil
}

// GetOrder loads a single order with its line items.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return NewOrderDTO(order), nil
}

// ListOrders returns the session's order history.
func (s *service) ListOrders(ctx context.Context, sessionID uuid.UUID) ([]OrderDTO, error) {
	orders, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *NewOrderDTO(&orders[i]))
	}
	return out, nil
}

func validateContact(input PlaceOrderInput) error {
	if strings.TrimSpace(input.ContactEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "contact email is required")
	}
	if strings.TrimSpace(input.ContactName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "contact name is required")
	}
	return nil
}

func orderLines(items []cart.LineItem) []models.OrderLineItem {
	lines := make([]models.OrderLineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.OrderLineItem{
			ProductID:      item.ProductID,
			Name:           item.Name,
			UnitPriceKobo:  item.PriceKobo,
			Quantity:       item.Quantity,
			Size:           item.Size,
			Color:          item.Color,
			IsCustomizable: item.IsCustomizable,
			LineTotalKobo:  item.LineTotalKobo(),
		})
	}
	return lines
}
