package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem snapshots one cart line at the moment the order was placed.
// Name and price are copies, not references back into the catalog.
type OrderLineItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Name           string    `gorm:"column:name;not null"`
	UnitPriceKobo  int64     `gorm:"column:unit_price_kobo;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	Size           string    `gorm:"column:size;not null;default:''"`
	Color          string    `gorm:"column:color;not null;default:''"`
	IsCustomizable bool      `gorm:"column:is_customizable;not null;default:false"`
	LineTotalKobo  int64     `gorm:"column:line_total_kobo;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
