package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base carries the shared GORM handle for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase wraps the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx so cancellation propagates to queries.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Transaction runs fn inside a database transaction bound to ctx.
func (b Base) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return b.DB(ctx).Transaction(fn)
}
