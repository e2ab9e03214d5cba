package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/internal/repo"
	"github.com/atelierhq/atelier-backend/pkg/db/models"
)

// Repository persists orders and their snapshotted line items.
type Repository interface {
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Order, error)
}

type repository struct {
	base repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

// CreateOrder inserts the order and its line items atomically.
func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	err := r.base.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order with its line items.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.base.DB(ctx).
		Preload("Items").
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListBySession returns the session's orders, newest first.
func (r *repository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.base.DB(ctx).
		Preload("Items").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&orders).
		Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
