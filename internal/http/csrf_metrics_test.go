package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autopecas/internal/http/handlers"
)

func TestCSRFProtectsUnsafeMethods(t *testing.T) {
	env := newTestApp(t, func(o *handlers.Options) { o.CSRF = true })

	first := env.do(t, "GET", "/api/v1/me", "", nil)
	sid, tok := cookie(first, "sid"), cookie(first, "csrf_")
	require.NotEmpty(t, sid)
	require.NotEmpty(t, tok)

	var resp *http.Response
	entries := captureLogs(t, func() {
		resp = env.do(t, "POST", "/api/v1/cart", sid, map[string]string{"productId": "disc-001"})
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_, ok := findLog(entries, "csrf.fail")
	assert.True(t, ok)

	req := newRequest("POST", "/api/v1/cart", sid, map[string]string{"productId": "disc-001"})
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	req.Header.Set("X-Csrf-Token", tok)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestApp(t, nil)
	sid := env.newSID(t)
	env.do(t, "POST", "/api/v1/cart", sid, map[string]string{"productId": "disc-001"})

	resp := env.do(t, "GET", "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(resp)
	assert.True(t, strings.Contains(body, `autopecas_cart_adds_total{result="added"} 1`), body)

	resp = env.do(t, "GET", "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
