package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-backend/pkg/enums"
	"github.com/atelierhq/atelier-backend/pkg/types"
)

// Order is the record produced when a checkout-ready cart is converted.
// Status is a flat label; there is no enforced transition graph.
type Order struct {
	ID                   uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID            uuid.UUID              `gorm:"column:session_id;type:uuid;not null"`
	ContactEmail         string                 `gorm:"column:contact_email;not null"`
	ContactName          string                 `gorm:"column:contact_name;not null"`
	Status               enums.OrderStatus      `gorm:"column:status;type:text;not null;default:'pending'"`
	DeliveryMethod       enums.DeliveryMethod   `gorm:"column:delivery_method;type:text;not null"`
	ShippingAddress      *types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	SubtotalKobo         int64                  `gorm:"column:subtotal_kobo;not null"`
	ShippingKobo         int64                  `gorm:"column:shipping_kobo;not null;default:0"`
	TotalKobo            int64                  `gorm:"column:total_kobo;not null"`
	ItemCount            int                    `gorm:"column:item_count;not null"`
	RequiresConsultation bool                   `gorm:"column:requires_consultation;not null;default:false"`
	Notes                *string                `gorm:"column:notes"`
	Items                []OrderLineItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
