package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/atelierhq/atelier-backend/api/middleware"
	cartsvc "github.com/atelierhq/atelier-backend/internal/cart"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/logger"
	"github.com/atelierhq/atelier-backend/pkg/types"
)

type stubCartService struct {
	cart       *cartsvc.CartDTO
	err        error
	lastAdd    cartsvc.AddItemInput
	addCalls   int
	clearCalls int
}

func (s *stubCartService) Get(context.Context, uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) AddItem(_ context.Context, _ uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.CartDTO, error) {
	s.addCalls++
	s.lastAdd = input
	return s.cart, s.err
}

func (s *stubCartService) UpdateQuantity(context.Context, uuid.UUID, cartsvc.UpdateQuantityInput) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) SetProductQuantity(context.Context, uuid.UUID, uuid.UUID, int) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) UpdateOptions(context.Context, uuid.UUID, cartsvc.UpdateOptionsInput) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) RemoveVariant(context.Context, uuid.UUID, cartsvc.VariantKey) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) RemoveProduct(context.Context, uuid.UUID, uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) Clear(context.Context, uuid.UUID) error {
	s.clearCalls++
	return s.err
}

func (s *stubCartService) Validate(context.Context, uuid.UUID) (*cartsvc.ValidationResult, error) {
	return &cartsvc.ValidationResult{IsValid: true, Errors: []string{}}, s.err
}

func (s *stubCartService) Summary(context.Context, uuid.UUID) (*cartsvc.CartSummary, error) {
	return &cartsvc.CartSummary{}, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func sessionContext(sessionID uuid.UUID) context.Context {
	return middleware.WithCartSession(context.Background(), sessionID)
}

func TestCartAddItem(t *testing.T) {
	logg := testLogger()
	sessionID := uuid.New()
	productID := uuid.New()

	t.Run("missing session", func(t *testing.T) {
		stub := &stubCartService{cart: &cartsvc.CartDTO{}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":"`+productID.String()+`","quantity":2}`))
		rec := httptest.NewRecorder()
		CartAddItem(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without session, got %d", rec.Code)
		}
		if stub.addCalls != 0 {
			t.Fatalf("service must not run without a session")
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		stub := &stubCartService{cart: &cartsvc.CartDTO{}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":"nope"}`))
		req = req.WithContext(sessionContext(sessionID))
		rec := httptest.NewRecorder()
		CartAddItem(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
		}
	})

	t.Run("success trims options", func(t *testing.T) {
		stub := &stubCartService{cart: &cartsvc.CartDTO{SessionID: sessionID}}
		body := `{"product_id":"` + productID.String() + `","quantity":2,"size":" M ","color":" Indigo "}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		req = req.WithContext(sessionContext(sessionID))
		rec := httptest.NewRecorder()
		CartAddItem(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.lastAdd.Size != "M" || stub.lastAdd.Color != "Indigo" {
			t.Fatalf("expected trimmed options, got %+v", stub.lastAdd)
		}
		if stub.lastAdd.ProductID != productID {
			t.Fatalf("unexpected product id %s", stub.lastAdd.ProductID)
		}
	})

	t.Run("service rejection surfaces reason", func(t *testing.T) {
		stub := &stubCartService{
			err: pkgerrors.New(pkgerrors.CodeValidation, "please select a size for \"Ankara Dress\"").
				WithReason(pkgerrors.ReasonSelectionRequired),
		}
		body := `{"product_id":"` + productID.String() + `","quantity":1}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		req = req.WithContext(sessionContext(sessionID))
		rec := httptest.NewRecorder()
		CartAddItem(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		var envelope types.ErrorEnvelope
		if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if envelope.Error.Reason != pkgerrors.ReasonSelectionRequired {
			t.Fatalf("unexpected reason %q", envelope.Error.Reason)
		}
	})
}

func TestCartRemoveVariant(t *testing.T) {
	logg := testLogger()
	sessionID := uuid.New()
	productID := uuid.New()

	t.Run("invalid product id", func(t *testing.T) {
		stub := &stubCartService{cart: &cartsvc.CartDTO{}}
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("productId", "not-a-uuid")
		ctx := context.WithValue(sessionContext(sessionID), chi.RouteCtxKey, routeCtx)
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/not-a-uuid", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		CartRemoveVariant(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubCartService{cart: &cartsvc.CartDTO{SessionID: sessionID}}
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("productId", productID.String())
		ctx := context.WithValue(sessionContext(sessionID), chi.RouteCtxKey, routeCtx)
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/"+productID.String()+"?size=M&color=Indigo", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		CartRemoveVariant(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestCartUpdateOptionsRequiresANewValue(t *testing.T) {
	logg := testLogger()
	sessionID := uuid.New()
	productID := uuid.New()

	stub := &stubCartService{cart: &cartsvc.CartDTO{}}
	body := `{"product_id":"` + productID.String() + `","old_size":"M","old_color":"Indigo"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/options", strings.NewReader(body))
	req = req.WithContext(sessionContext(sessionID))
	rec := httptest.NewRecorder()
	CartUpdateOptions(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when neither new_size nor new_color given, got %d", rec.Code)
	}
}

func TestCartClear(t *testing.T) {
	logg := testLogger()
	sessionID := uuid.New()

	stub := &stubCartService{}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req = req.WithContext(sessionContext(sessionID))
	rec := httptest.NewRecorder()
	CartClear(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.clearCalls != 1 {
		t.Fatalf("expected Clear to be invoked once, got %d", stub.clearCalls)
	}
}
