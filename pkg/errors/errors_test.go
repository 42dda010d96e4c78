package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "boom").HTTPStatus())
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(New(ErrCodeNotFound, "missing")))
	assert.True(t, IsUnauthorized(New(ErrCodeUnauthorized, "denied")))
	assert.True(t, IsValidation(New(ErrCodeValidation, "bad input")))
	assert.True(t, IsValidation(New(ErrCodeBadRequest, "bad input")))

	plain := fmt.Errorf("plain")
	assert.False(t, IsNotFound(plain))
	assert.False(t, IsUnauthorized(plain))
	assert.False(t, IsValidation(plain))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(ErrCodeInternalError, "insert failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert failed")
	assert.Contains(t, err.Error(), "disk full")
}
