package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestShopMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewShopMetrics(reg)

	m.IncCartAdd("added")
	m.IncCartAdd("added")
	m.IncCartAdd("forbidden")
	m.IncCatalogOp("add")
	m.ObserveCheckout("completed", "mcx_express", 150*time.Millisecond)
	m.ObserveCheckout("failed", "", time.Millisecond)

	if got := testutil.ToFloat64(m.cartAdds.WithLabelValues("added")); got != 2 {
		t.Fatalf("expected 2 adds, got %f", got)
	}
	if got := testutil.ToFloat64(m.cartAdds.WithLabelValues("forbidden")); got != 1 {
		t.Fatalf("expected 1 forbidden add, got %f", got)
	}
	if got := testutil.ToFloat64(m.catalogOps.WithLabelValues("add")); got != 1 {
		t.Fatalf("expected 1 catalog add, got %f", got)
	}
	if got := testutil.ToFloat64(m.checkouts.WithLabelValues("completed", "mcx_express")); got != 1 {
		t.Fatalf("expected 1 completed checkout, got %f", got)
	}
	if got := testutil.ToFloat64(m.checkouts.WithLabelValues("failed", "unknown")); got != 1 {
		t.Fatalf("empty method should map to unknown, got %f", got)
	}
	if n := testutil.CollectAndCount(m.checkoutDuration); n != 2 {
		t.Fatalf("expected 2 duration series, got %d", n)
	}
}

func TestNilShopMetricsIsNoop(t *testing.T) {
	var m *ShopMetrics
	m.IncCartAdd("added")
	m.IncCatalogOp("add")
	m.ObserveCheckout("completed", "card", time.Second)

	empty := NewShopMetrics(nil)
	empty.IncCartAdd("added")
	empty.ObserveCheckout("failed", "card", time.Second)
}
