package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ShopMetrics records storefront activity.
type ShopMetrics struct {
	cartAdds         *prometheus.CounterVec
	checkouts        *prometheus.CounterVec
	checkoutDuration *prometheus.HistogramVec
	catalogOps       *prometheus.CounterVec
}

// NewShopMetrics registers the storefront metrics on the provided registerer.
// A nil registerer yields a collector whose methods are no-ops.
func NewShopMetrics(reg prometheus.Registerer) *ShopMetrics {
	if reg == nil {
		return &ShopMetrics{}
	}
	cartAdds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autopecas_cart_adds_total",
		Help: "Add-to-cart attempts by result.",
	}, []string{"result"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autopecas_checkouts_total",
		Help: "Finished checkouts by final state and payment method.",
	}, []string{"state", "method"})
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "autopecas_checkout_duration_seconds",
		Help:    "Time spent in the Processing state.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	catalogOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autopecas_catalog_mutations_total",
		Help: "Catalog mutations by operation.",
	}, []string{"op"})
	reg.MustRegister(cartAdds, checkouts, checkoutDuration, catalogOps)
	return &ShopMetrics{
		cartAdds:         cartAdds,
		checkouts:        checkouts,
		checkoutDuration: checkoutDuration,
		catalogOps:       catalogOps,
	}
}

func (m *ShopMetrics) IncCartAdd(result string) {
	if m == nil || m.cartAdds == nil {
		return
	}
	m.cartAdds.WithLabelValues(normalizeLabel(result)).Inc()
}

func (m *ShopMetrics) ObserveCheckout(state, method string, d time.Duration) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(state), normalizeLabel(method)).Inc()
	m.checkoutDuration.WithLabelValues(normalizeLabel(method)).Observe(d.Seconds())
}

func (m *ShopMetrics) IncCatalogOp(op string) {
	if m == nil || m.catalogOps == nil {
		return
	}
	m.catalogOps.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
