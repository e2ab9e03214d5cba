package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/atelierhq/atelier-backend/api/responses"
	"github.com/atelierhq/atelier-backend/api/validators"
	"github.com/atelierhq/atelier-backend/internal/catalog"
	"github.com/atelierhq/atelier-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/logger"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

// CatalogList serves the public storefront listing with keyset paging.
func CatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		input, err := listInputFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// CatalogDetail serves one product by id.
func CatalogDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminCreateProduct handles catalog writes for the back office.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct applies a partial update to one product.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes one product from the catalog.
func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminCatalogList mirrors the public listing but includes inactive rows.
func AdminCatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		input, err := listInputFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.IncludeInactive = true

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func listInputFromQuery(r *http.Request) (catalog.ListProductsInput, error) {
	var input catalog.ListProductsInput

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return input, err
	}
	input.Pagination.Limit = limit

	if raw := strings.TrimSpace(r.URL.Query().Get("cursor")); raw != "" {
		if _, err := pagination.ParseCursor(raw); err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		input.Pagination.Cursor = raw
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category, err := enums.ParseProductCategory(raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		value := string(category)
		input.Filters.Category = &value
	}

	customizable, err := validators.ParseQueryBool(r, "customizable")
	if err != nil {
		return input, err
	}
	input.Filters.Customizable = customizable

	if raw := strings.TrimSpace(r.URL.Query().Get("price_min_kobo")); raw != "" {
		value, err := validators.ParseQueryInt64(r, "price_min_kobo", 0, 0, 1<<50)
		if err != nil {
			return input, err
		}
		input.Filters.PriceMinKobo = &value
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("price_max_kobo")); raw != "" {
		value, err := validators.ParseQueryInt64(r, "price_max_kobo", 0, 0, 1<<50)
		if err != nil {
			return input, err
		}
		input.Filters.PriceMaxKobo = &value
	}

	input.Filters.Query = strings.TrimSpace(r.URL.Query().Get("q"))

	return input, nil
}

type createProductRequest struct {
	Name           string   `json:"name" validate:"required"`
	Description    *string  `json:"description,omitempty"`
	Category       string   `json:"category" validate:"required"`
	PriceKobo      int64    `json:"price_kobo" validate:"required,min=1"`
	Images         []string `json:"images,omitempty"`
	Sizes          []string `json:"sizes,omitempty"`
	Colors         []string `json:"colors,omitempty"`
	IsCustomizable bool     `json:"is_customizable"`
	CountInStock   int      `json:"count_in_stock" validate:"min=0"`
	IsActive       *bool    `json:"is_active,omitempty"`
}

func (r createProductRequest) toCreateInput() (catalog.CreateProductInput, error) {
	category, err := enums.ParseProductCategory(strings.TrimSpace(r.Category))
	if err != nil {
		return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}

	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}

	return catalog.CreateProductInput{
		Name:           strings.TrimSpace(r.Name),
		Description:    r.Description,
		Category:       category,
		PriceKobo:      r.PriceKobo,
		Images:         r.Images,
		Sizes:          r.Sizes,
		Colors:         r.Colors,
		IsCustomizable: r.IsCustomizable,
		CountInStock:   r.CountInStock,
		IsActive:       active,
	}, nil
}

type updateProductRequest struct {
	Name           *string   `json:"name,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Category       *string   `json:"category,omitempty"`
	PriceKobo      *int64    `json:"price_kobo,omitempty" validate:"omitempty,min=1"`
	Images         *[]string `json:"images,omitempty"`
	Sizes          *[]string `json:"sizes,omitempty"`
	Colors         *[]string `json:"colors,omitempty"`
	IsCustomizable *bool     `json:"is_customizable,omitempty"`
	CountInStock   *int      `json:"count_in_stock,omitempty" validate:"omitempty,min=0"`
	IsActive       *bool     `json:"is_active,omitempty"`
}

func (r updateProductRequest) toUpdateInput() (catalog.UpdateProductInput, error) {
	input := catalog.UpdateProductInput{
		Name:           r.Name,
		Description:    r.Description,
		PriceKobo:      r.PriceKobo,
		Images:         r.Images,
		Sizes:          r.Sizes,
		Colors:         r.Colors,
		IsCustomizable: r.IsCustomizable,
		CountInStock:   r.CountInStock,
		IsActive:       r.IsActive,
	}

	if r.Category != nil {
		category, err := enums.ParseProductCategory(strings.TrimSpace(*r.Category))
		if err != nil {
			return catalog.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}

	return input, nil
}
