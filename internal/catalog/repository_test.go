package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/enums"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

func mustCreateProduct(t *testing.T, tx *gorm.DB, name string, category enums.ProductCategory, priceKobo int64, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:      fmt.Sprintf("%s %s", name, uuid.NewString()[:8]),
		Category:  category,
		PriceKobo: priceKobo,
		Images:    pq.StringArray{"lookbook-1.jpg"},
		Sizes:     pq.StringArray{"S", "M", "L"},
		Colors:    pq.StringArray{"Black", "Ivory"},
		CountInStock: func() int {
			if active {
				return 5
			}
			return 0
		}(),
		IsActive: active,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestRepositoryProductFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	product := mustCreateProduct(t, tx, "Repo Dress", enums.ProductCategoryDresses, 4_500_000, true)
	if product.ID == uuid.Nil {
		t.Fatal("expected product id to be generated")
	}

	fetched, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if fetched.Name != product.Name {
		t.Fatalf("expected name %s, got %s", product.Name, fetched.Name)
	}

	fetched.Name = "Updated Dress"
	if _, err := repo.UpdateProduct(ctx, fetched); err != nil {
		t.Fatalf("update product: %v", err)
	}

	again, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find after update: %v", err)
	}
	if again.Name != "Updated Dress" {
		t.Fatalf("expected updated name, got %s", again.Name)
	}

	if err := repo.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, err := repo.FindByID(ctx, product.ID); err == nil {
		t.Fatal("expected not-found after delete")
	}
}

func TestRepositoryFindActiveByIDs(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	active := mustCreateProduct(t, tx, "Active Top", enums.ProductCategoryTops, 1_200_000, true)
	inactive := mustCreateProduct(t, tx, "Retired Top", enums.ProductCategoryTops, 1_200_000, false)
	missing := uuid.New()

	found, err := repo.FindActiveByIDs(ctx, []uuid.UUID{active.ID, inactive.ID, missing})
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 active product, got %d", len(found))
	}
	if _, ok := found[active.ID]; !ok {
		t.Fatal("expected active product present")
	}

	empty, err := repo.FindActiveByIDs(ctx, nil)
	if err != nil {
		t.Fatalf("find active with no ids: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty result, got %d", len(empty))
	}
}

func TestRepositoryListSummaries(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	dress := mustCreateProduct(t, tx, "Aso Oke Gown", enums.ProductCategoryDresses, 9_800_000, true)
	_ = mustCreateProduct(t, tx, "Linen Trouser", enums.ProductCategoryBottoms, 2_400_000, true)
	hidden := mustCreateProduct(t, tx, "Archive Gown", enums.ProductCategoryDresses, 9_800_000, false)

	category := string(enums.ProductCategoryDresses)
	page, err := repo.ListSummaries(ctx, listQuery{
		Pagination: pagination.Params{Limit: 10},
		Filters:    ListFilters{Category: &category, Query: "Aso"},
	})
	if err != nil {
		t.Fatalf("list summaries: %v", err)
	}
	if len(page.Products) != 1 || page.Products[0].ID != dress.ID {
		t.Fatalf("expected only the matching dress, got %v", page.Products)
	}
	if !page.Products[0].InStock {
		t.Fatal("expected in-stock flag for stocked product")
	}

	adminPage, err := repo.ListSummaries(ctx, listQuery{
		Pagination:      pagination.Params{Limit: 10},
		Filters:         ListFilters{Category: &category},
		IncludeInactive: true,
	})
	if err != nil {
		t.Fatalf("list with inactive: %v", err)
	}
	containsHidden := false
	for _, p := range adminPage.Products {
		if p.ID == hidden.ID {
			containsHidden = true
		}
	}
	if !containsHidden {
		t.Fatal("expected inactive product in admin listing")
	}

	firstPage, err := repo.ListSummaries(ctx, listQuery{
		Pagination: pagination.Params{Limit: 1},
	})
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(firstPage.Products) != 1 || firstPage.NextCursor == "" {
		t.Fatalf("expected single row plus cursor, got %d rows", len(firstPage.Products))
	}

	secondPage, err := repo.ListSummaries(ctx, listQuery{
		Pagination: pagination.Params{Limit: 1, Cursor: firstPage.NextCursor},
	})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(secondPage.Products) != 1 || secondPage.Products[0].ID == firstPage.Products[0].ID {
		t.Fatal("expected cursor to advance past the first row")
	}
}
