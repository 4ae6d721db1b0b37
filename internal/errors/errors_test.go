package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataFallsBackToInternal(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, MetadataFor(CodeNotFound).HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, MetadataFor(Code("bogus")).HTTPStatus)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := Wrap(CodeInternal, cause, "persist cart")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")

	wrapped := fmt.Errorf("outer: %w", err)
	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeInternal, typed.Code())
	assert.Equal(t, CodeInternal, CodeOf(stdErrors.New("plain")))
}

func TestWithDetailsDoesNotMutateSentinel(t *testing.T) {
	sentinel := New(CodeValidation, "bad input")
	withDetails := sentinel.WithDetails(map[string]string{"name": "is required"})

	assert.Nil(t, sentinel.Details())
	assert.NotNil(t, withDetails.Details())
	assert.ErrorIs(t, withDetails, sentinel)
}

func TestNilErrorAccessors(t *testing.T) {
	var e *Error
	assert.Equal(t, CodeInternal, e.Code())
	assert.Empty(t, e.Message())
	assert.Nil(t, As(nil))
}
