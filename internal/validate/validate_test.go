package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autopecas/internal/domain"
	apperrors "autopecas/internal/errors"
)

type productIn struct {
	Name     string `json:"name" validate:"required,max=120"`
	Price    int64  `json:"price" validate:"gte=0"`
	Category string `json:"category" validate:"required,category"`
}

func TestDecode(t *testing.T) {
	var in productIn
	require.NoError(t, Decode([]byte(`{"name":"Pads","price":10,"category":"Brakes"}`), &in))
	assert.Equal(t, "Pads", in.Name)

	err := Decode([]byte(`{"name":"","price":-1,"category":"Tyres"}`), &in)
	e := apperrors.As(err)
	require.NotNil(t, e)
	assert.Equal(t, apperrors.CodeValidation, e.Code())
	assert.Equal(t, map[string]string{
		"name":     "is required",
		"price":    "must be at least 0",
		"category": "must be a known category",
	}, e.Details())

	err = Decode([]byte(`{"name":"x","extra":1}`), &in)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	err = Decode([]byte(`not json`), &in)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestHelpers(t *testing.T) {
	_, ok := Email("joao@autopecas.ao")
	assert.True(t, ok)
	_, ok = Email("nope")
	assert.False(t, ok)

	q, ok := Q("  travão  ")
	assert.True(t, ok)
	assert.Equal(t, "travão", q)
	_, ok = Q("<script>")
	assert.False(t, ok)

	_, ok = ID("PRD-1A2B3C4D")
	assert.True(t, ok)
	_, ok = ID("../etc")
	assert.False(t, ok)

	c, ok := Category("Lighting")
	assert.True(t, ok)
	assert.Equal(t, domain.CategoryLighting, c)
	c, ok = Category("all")
	assert.True(t, ok)
	assert.Empty(t, c)
	_, ok = Category("Tyres")
	assert.False(t, ok)

	assert.True(t, Password("Passw0rd!"))
	assert.False(t, Password("password"))
}
