package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atelierhq/atelier-backend/api/controllers"
	"github.com/atelierhq/atelier-backend/api/middleware"
	"github.com/atelierhq/atelier-backend/internal/cart"
	"github.com/atelierhq/atelier-backend/internal/catalog"
	checkoutsvc "github.com/atelierhq/atelier-backend/internal/checkout"
	"github.com/atelierhq/atelier-backend/internal/customorders"
	"github.com/atelierhq/atelier-backend/pkg/config"
	"github.com/atelierhq/atelier-backend/pkg/db"
	"github.com/atelierhq/atelier-backend/pkg/logger"
	"github.com/atelierhq/atelier-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	customOrderService customorders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(catalogService, logg))
			r.Get("/{productId}", controllers.CatalogDetail(catalogService, logg))
		})

		r.Route("/custom-orders", func(r chi.Router) {
			r.Get("/options", controllers.CustomOrderOptions(customOrderService, logg))
			r.Post("/quote", controllers.CustomOrderQuote(customOrderService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(cfg.Session, logg))
			r.Use(middleware.Idempotency(redisClient, cfg.Cart.IdempotencyTTL(), logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
				r.Get("/summary", controllers.CartSummary(cartService, logg))
				r.Get("/validate", controllers.CartValidate(cartService, logg))

				r.Route("/items", func(r chi.Router) {
					r.Post("/", controllers.CartAddItem(cartService, logg))
					r.Patch("/quantity", controllers.CartUpdateQuantity(cartService, logg))
					r.Patch("/options", controllers.CartUpdateOptions(cartService, logg))
					r.Delete("/{productId}", controllers.CartRemoveVariant(cartService, logg))
				})

				r.Route("/products/{productId}", func(r chi.Router) {
					r.Put("/quantity", controllers.CartSetProductQuantity(cartService, logg))
					r.Delete("/", controllers.CartRemoveProduct(cartService, logg))
				})
			})

			r.Get("/checkout/rates", controllers.CheckoutRates(checkoutService, logg))
			r.Post("/checkout", controllers.Checkout(checkoutService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(checkoutService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(checkoutService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminCatalogList(catalogService, logg))
			r.Post("/", controllers.AdminCreateProduct(catalogService, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(catalogService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(catalogService, logg))
		})
	})

	return r
}
