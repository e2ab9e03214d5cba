package catalog

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/money"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a single product row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveByIDs loads the active products matching ids, keyed by id.
// Inactive and missing products are simply absent from the result.
func (r *Repository) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	out := make(map[uuid.UUID]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("is_active = ?", true).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// ListFilters narrows catalog listings.
type ListFilters struct {
	Category     *string
	Customizable *bool
	PriceMinKobo *int64
	PriceMaxKobo *int64
	Query        string
}

type listQuery struct {
	Pagination      pagination.Params
	Filters         ListFilters
	IncludeInactive bool
}

// ListSummaries pages through catalog rows newest first using a keyset cursor.
func (r *Repository) ListSummaries(ctx context.Context, query listQuery) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Table("products p").
		Select(strings.Join([]string{
			"p.id",
			"p.name",
			"p.category",
			"p.price_kobo",
			"p.images[1] AS image",
			"p.is_customizable",
			"p.count_in_stock",
			"p.created_at",
			"p.updated_at",
		}, ", "))

	filter := query.Filters
	if filter.Category != nil {
		qb = qb.Where("p.category = ?", *filter.Category)
	}
	if filter.Customizable != nil {
		qb = qb.Where("p.is_customizable = ?", *filter.Customizable)
	}
	if filter.PriceMinKobo != nil {
		qb = qb.Where("p.price_kobo >= ?", *filter.PriceMinKobo)
	}
	if filter.PriceMaxKobo != nil {
		qb = qb.Where("p.price_kobo <= ?", *filter.PriceMaxKobo)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		qb = qb.Where("LOWER(p.name) LIKE ?", strings.ToLower(search)+"%")
	}
	if !query.IncludeInactive {
		qb = qb.Where("p.is_active = ?", true)
	}

	if cursor != nil {
		qb = qb.Where("(p.created_at < ?) OR (p.created_at = ? AND p.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("p.created_at DESC").Order("p.id DESC").Limit(limitWithBuffer)

	var records []summaryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > pageSize {
		resultRows = records[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	summaries := make([]ProductSummary, 0, len(resultRows))
	for _, record := range resultRows {
		summaries = append(summaries, record.toSummary())
	}

	return &ListResult{
		Products:   summaries,
		NextCursor: nextCursor,
	}, nil
}

type summaryRecord struct {
	ID             uuid.UUID
	Name           string
	Category       string
	PriceKobo      int64
	Image          sql.NullString
	IsCustomizable bool
	CountInStock   int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r summaryRecord) toSummary() ProductSummary {
	summary := ProductSummary{
		ID:             r.ID,
		Name:           r.Name,
		Category:       r.Category,
		PriceKobo:      r.PriceKobo,
		PriceDisplay:   money.FormatNaira(r.PriceKobo),
		IsCustomizable: r.IsCustomizable,
		InStock:        r.CountInStock > 0,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Image.Valid {
		img := r.Image.String
		summary.Image = &img
	}
	return summary
}
