package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/atelierhq/atelier-backend/pkg/enums"
)

// Product is the canonical catalog listing. Sizes and colors are the
// variant axes the cart keys on; customizable pieces are made to order and
// skip variant selection entirely.
type Product struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string                `gorm:"column:name;not null"`
	Description    *string               `gorm:"column:description"`
	Category       enums.ProductCategory `gorm:"column:category;type:text;not null"`
	PriceKobo      int64                 `gorm:"column:price_kobo;not null"`
	Images         pq.StringArray        `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Sizes          pq.StringArray        `gorm:"column:sizes;type:text[];not null;default:ARRAY[]::text[]"`
	Colors         pq.StringArray        `gorm:"column:colors;type:text[];not null;default:ARRAY[]::text[]"`
	IsCustomizable bool                  `gorm:"column:is_customizable;not null;default:false"`
	CountInStock   int                   `gorm:"column:count_in_stock;not null;default:0"`
	IsActive       bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
