package handlers_test

import (
	"net/http"
	"net/url"
	"testing"
)

// malformed query input is rejected with 400 and logged
func TestQueryValidation(t *testing.T) {
	env := newTestApp(t, nil)

	cases := []struct {
		path  string
		field string
	}{
		{"/api/v1/products?q=" + url.QueryEscape("<script>alert(1)</script>"), "q"},
		{"/api/v1/products?category=Tyres", "category"},
		{"/api/v1/products?sort=cheapest", "sort"},
		{"/api/v1/availability", "productId"},
		{"/api/v1/availability?productId=" + url.QueryEscape("../etc/passwd"), "productId"},
	}
	for _, tc := range cases {
		resp := env.do(t, "GET", tc.path, "", nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.path, resp.StatusCode)
		}
		body := decode[errorBody](t, resp)
		if _, ok := body.Error.Details[tc.field]; !ok {
			t.Fatalf("%s: details missing %q: %+v", tc.path, tc.field, body.Error)
		}
	}

	entries := captureLogs(t, func() {
		env.do(t, "GET", "/api/v1/products?q="+url.QueryEscape("drop;table"), "", nil)
	})
	e, ok := findLog(entries, "validation.fail")
	if !ok || e.Fields["field"] != "q" {
		t.Fatalf("validation.fail log not found: %+v", entries)
	}
}

// request bodies are validated per field
func TestBodyValidation(t *testing.T) {
	env := newTestApp(t, nil)
	admin := env.login(t, adminEmail)

	resp := env.do(t, "POST", "/api/v1/admin/products", admin, map[string]any{
		"name": "", "price": -1, "category": "Tyres", "stock": -2,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decode[errorBody](t, resp)
	for _, f := range []string{"name", "price", "category", "stock"} {
		if _, ok := body.Error.Details[f]; !ok {
			t.Fatalf("details missing %q: %+v", f, body.Error.Details)
		}
	}

	sid := env.newSID(t)
	for _, raw := range []string{`not json`, `{"productId":""}`, `{"productId":"disc-001","qty":3}`} {
		resp = env.do(t, "POST", "/api/v1/cart", sid, raw)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", raw, resp.StatusCode)
		}
	}
	resp = env.do(t, "PATCH", "/api/v1/cart/disc-001", sid, `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing quantity: expected 400, got %d", resp.StatusCode)
	}
}
