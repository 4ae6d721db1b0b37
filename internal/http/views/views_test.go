package views

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "0 Kz", Money(0))
	assert.Equal(t, "950 Kz", Money(950))
	assert.Equal(t, "12.000 Kz", Money(12000))
	assert.Equal(t, "1.234.567 Kz", Money(1234567))
	assert.Equal(t, "-2.500 Kz", Money(-2500))
}

func TestDate(t *testing.T) {
	luanda := time.FixedZone("WAT", 3600)
	assert.Equal(t, "18/10/2026", Date("2026-10-17T23:30:00Z", luanda))
	assert.Equal(t, "17/10/2026", Date("2026-10-17T23:30:00Z", nil))
	assert.Equal(t, "yesterday", Date("yesterday", luanda))
}

func TestEngineRendersEmbeddedPages(t *testing.T) {
	engine := New(time.UTC)
	require.NoError(t, engine.Load())

	var buf bytes.Buffer
	require.NoError(t, engine.Render(&buf, "notfound", map[string]any{"Message": "Order not found"}))
	assert.Contains(t, buf.String(), "Order not found")
}
