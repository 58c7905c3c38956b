package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("create order: %w", New(InvalidItems, "order has no items"))

	assert.Equal(t, InvalidItems, KindOf(wrapped))
	assert.True(t, Is(wrapped, InvalidItems))
	assert.False(t, Is(wrapped, InvalidAmount))
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
	assert.Equal(t, "order has no items", PublicMessage(wrapped))
	assert.Equal(t, "internal error", PublicMessage(errors.New("boom")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := Wrap(GatewayUnavailable, "payment gateway unavailable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "dial tcp: timeout")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{InvalidItems, http.StatusBadRequest},
		{InvalidAmount, http.StatusBadRequest},
		{Unauthorized, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{OrderNotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{GatewayUnavailable, http.StatusInternalServerError},
		{Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.kind))
		})
	}
}
