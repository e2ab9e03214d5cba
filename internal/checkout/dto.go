package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/money"
	"github.com/atelierhq/atelier-backend/pkg/types"
)

// OrderDTO is the order payload returned after checkout.
type OrderDTO struct {
	ID                   uuid.UUID              `json:"id"`
	SessionID            uuid.UUID              `json:"session_id"`
	ContactEmail         string                 `json:"contact_email"`
	ContactName          string                 `json:"contact_name"`
	Status               string                 `json:"status"`
	DeliveryMethod       string                 `json:"delivery_method"`
	ShippingAddress      *types.ShippingAddress `json:"shipping_address,omitempty"`
	SubtotalKobo         int64                  `json:"subtotal_kobo"`
	ShippingKobo         int64                  `json:"shipping_kobo"`
	TotalKobo            int64                  `json:"total_kobo"`
	TotalDisplay         string                 `json:"total_display"`
	ItemCount            int                    `json:"item_count"`
	RequiresConsultation bool                   `json:"requires_consultation"`
	Notes                *string                `json:"notes,omitempty"`
	Items                []OrderLineDTO         `json:"items"`
	CreatedAt            time.Time              `json:"created_at"`
}

// OrderLineDTO is one snapshotted line on an order.
type OrderLineDTO struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	UnitPriceKobo  int64     `json:"unit_price_kobo"`
	Quantity       int       `json:"quantity"`
	Size           string    `json:"size,omitempty"`
	Color          string    `json:"color,omitempty"`
	IsCustomizable bool      `json:"is_customizable"`
	LineTotalKobo  int64     `json:"line_total_kobo"`
}

// NewOrderDTO builds a DTO from the persisted order.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:                   order.ID,
		SessionID:            order.SessionID,
		ContactEmail:         order.ContactEmail,
		ContactName:          order.ContactName,
		Status:               string(order.Status),
		DeliveryMethod:       string(order.DeliveryMethod),
		ShippingAddress:      order.ShippingAddress,
		SubtotalKobo:         order.SubtotalKobo,
		ShippingKobo:         order.ShippingKobo,
		TotalKobo:            order.TotalKobo,
		TotalDisplay:         money.FormatNaira(order.TotalKobo),
		ItemCount:            order.ItemCount,
		RequiresConsultation: order.RequiresConsultation,
		Notes:                order.Notes,
		CreatedAt:            order.CreatedAt,
	}
	dto.Items = make([]OrderLineDTO, 0, len(order.Items))
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderLineDTO{
			ProductID:      item.ProductID,
			Name:           item.Name,
			UnitPriceKobo:  item.UnitPriceKobo,
			Quantity:       item.Quantity,
			Size:           item.Size,
			Color:          item.Color,
			IsCustomizable: item.IsCustomizable,
			LineTotalKobo:  item.LineTotalKobo,
		})
	}
	return dto
}
