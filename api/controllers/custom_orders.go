package controllers

import (
	"net/http"
	"strings"

	"github.com/atelierhq/atelier-backend/api/responses"
	"github.com/atelierhq/atelier-backend/api/validators"
	"github.com/atelierhq/atelier-backend/internal/customorders"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/logger"
)

type customOrderQuoteRequest struct {
	Style   string `json:"style" validate:"required"`
	Fabric  string `json:"fabric" validate:"required"`
	Urgency string `json:"urgency" validate:"required"`
}

// CustomOrderQuote prices a made-to-order garment request.
func CustomOrderQuote(svc customorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "custom order service unavailable"))
			return
		}

		var payload customOrderQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(customorders.QuoteInput{
			Style:   customorders.GarmentStyle(strings.TrimSpace(payload.Style)),
			Fabric:  customorders.Fabric(strings.TrimSpace(payload.Fabric)),
			Urgency: customorders.Urgency(strings.TrimSpace(payload.Urgency)),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

// CustomOrderOptions lists the styles, fabrics and urgency tiers the atelier
// accepts, so the storefront can render the quote form.
func CustomOrderOptions(svc customorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "custom order service unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string][]string{
			"styles":    svc.Styles(),
			"fabrics":   svc.Fabrics(),
			"urgencies": svc.Urgencies(),
		})
	}
}
