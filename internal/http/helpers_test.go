package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"autopecas/internal/domain"
	"autopecas/internal/http/handlers"
	applog "autopecas/internal/log"
	"autopecas/internal/metrics"
	"autopecas/internal/repos"
	"autopecas/internal/services"
)

const (
	adminEmail      = "admin@autopecas.ao"
	shopperCapacity = 64
)

type testEnv struct {
	app      *fiber.App
	catalog  *services.CatalogService
	orders   *services.OrderService
	payments *services.PaymentSimulator
	shoppers *services.Shoppers
	registry *prometheus.Registry
}

func fixture() []domain.Product {
	return []domain.Product{
		{ID: "disc-001", Name: "Brake Disc", Price: 12000, Category: domain.CategoryBrakes, Brand: "Brembo", Stock: 8},
		{ID: "lamp-002", Name: "H7 Bulb", Price: 2500, Category: domain.CategoryLighting, Brand: "Osram", Stock: 3},
		{ID: "oil-003", Name: "Oil Filter", Price: 4000, Category: domain.CategoryMotor, Brand: "Bosch", Stock: 0},
	}
}

// newTestApp wires the full route table over an in-memory store. Limits,
// CSRF and access logs are off unless tune turns them on.
func newTestApp(t *testing.T, tune func(*handlers.Options)) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := repos.NewMemoryStore()
	reg := prometheus.NewRegistry()
	m := metrics.NewShopMetrics(reg)

	catalog := services.NewCatalogService(store, fixture(), m)
	if err := catalog.Initialize(ctx); err != nil {
		t.Fatalf("catalog init: %v", err)
	}
	orders := services.NewOrderService(store, nil)
	if err := orders.Initialize(ctx); err != nil {
		t.Fatalf("orders init: %v", err)
	}
	payments := &services.PaymentSimulator{}
	insights := services.NewInsightService(nil, "", "")
	auth := &services.DemoAuthenticator{AdminEmail: adminEmail}

	shoppers := services.NewShoppers(store, auth, m, services.WithShopperLimits(shopperCapacity, time.Minute))

	deps := handlers.NewDeps(handlers.Services{
		Shoppers:  shoppers,
		Catalog:   catalog,
		Orders:    orders,
		Checkout:  services.NewCheckoutService(orders, payments, m),
		Payments:  payments,
		Inventory: services.NewInventoryService(catalog),
		Reports:   services.NewReportService(orders, catalog, insights),
		Insights:  insights,
	})
	opts := handlers.Options{BodyLimit: 1 << 20, Gatherer: reg}
	if tune != nil {
		tune(&opts)
	}
	return &testEnv{
		app:      handlers.NewApp(deps, opts),
		catalog:  catalog,
		orders:   orders,
		payments: payments,
		shoppers: shoppers,
		registry: reg,
	}
}

func newRequest(method, path, sid string, body any) *http.Request {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	case []byte:
		r = bytes.NewReader(b)
	default:
		buf, _ := json.Marshal(b)
		r = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return req
}

func (e *testEnv) do(t *testing.T, method, path, sid string, body any) *http.Response {
	t.Helper()
	resp, err := e.app.Test(newRequest(method, path, sid, body), -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func cookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// newSID opens an anonymous session and returns its cookie value.
func (e *testEnv) newSID(t *testing.T) string {
	t.Helper()
	sid := cookie(e.do(t, "GET", "/api/v1/me", "", nil), "sid")
	if sid == "" {
		t.Fatal("sid cookie missing")
	}
	return sid
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	sid := e.newSID(t)
	resp := e.do(t, "POST", "/api/v1/auth/login", sid, map[string]string{"email": email})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d body=%s", email, resp.StatusCode, readBody(resp))
	}
	return sid
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type logEntry struct {
	Level  string         `json:"level"`
	Kind   string         `json:"kind"`
	Action string         `json:"action"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	mu sync.Mutex
	w  bytes.Buffer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// captureLogs collects the JSON log lines written while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	lw := &lockedWriter{}
	restore := applog.SetOutput(lw)
	fn()
	restore()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(lw.w.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
