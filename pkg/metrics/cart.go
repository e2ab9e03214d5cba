package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutation outcomes. The purge counter matters
// most operationally: a non-zero rate means corrupted prices reached the
// store and the self-healing filter had to repair state.
type CartMetrics struct {
	rejections      *prometheus.CounterVec
	purgedItems     prometheus.Counter
	checkoutBlocked prometheus.Counter
	ordersPlaced    prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_rejections_total",
		Help: "Cart mutations rejected, labeled by rejection reason.",
	}, []string{"reason"})
	purged := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_purged_items_total",
		Help: "Line items removed by the self-healing price filter.",
	})
	blocked := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_blocked_total",
		Help: "Checkout validation passes that returned one or more errors.",
	})
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders created from checkout-ready carts.",
	})
	reg.MustRegister(rejections, purged, blocked, placed)
	return &CartMetrics{
		rejections:      rejections,
		purgedItems:     purged,
		checkoutBlocked: blocked,
		ordersPlaced:    placed,
	}
}

// IncRejection counts a rejected cart mutation by reason.
func (c *CartMetrics) IncRejection(reason string) {
	if c == nil || c.rejections == nil {
		return
	}
	c.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

// AddPurgedItems counts line items dropped by the self-healing filter.
func (c *CartMetrics) AddPurgedItems(count int) {
	if c == nil || c.purgedItems == nil || count <= 0 {
		return
	}
	c.purgedItems.Add(float64(count))
}

// IncCheckoutBlocked counts a failed checkout validation pass.
func (c *CartMetrics) IncCheckoutBlocked() {
	if c == nil || c.checkoutBlocked == nil {
		return
	}
	c.checkoutBlocked.Inc()
}

// IncOrdersPlaced counts a successful order creation.
func (c *CartMetrics) IncOrdersPlaced() {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
