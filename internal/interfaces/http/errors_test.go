package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{"no encontrado envuelto", fmt.Errorf("get: %w", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{"prohibido", domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{"otra tienda", domain.ErrCrossStore, fiber.StatusConflict, "CROSS_STORE"},
		{"carrito expirado", domain.ErrCartExpired, fiber.StatusConflict, "CART_EXPIRED"},
		{"carrito vacío", domain.ErrEmptyCart, fiber.StatusBadRequest, "EMPTY_CART"},
		{"duplicado", domain.ErrDuplicate, fiber.StatusConflict, "CONFLICT"},
		{"transacción", domain.ErrTransactionFailed, fiber.StatusServiceUnavailable, "RETRY"},
		{"desconocido", errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestMapError_DetallesTipados(t *testing.T) {
	status, body := mapError(&domain.InsufficientStockError{ProductID: "p1", Available: 2})
	assert.Equal(t, fiber.StatusConflict, status)
	require.NotNil(t, body.Available)
	assert.Equal(t, 2, *body.Available)

	status, body = mapError(&domain.QuantityOutOfBoundsError{Min: 2})
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, body.Min)
	assert.Equal(t, 2, *body.Min)
	assert.Nil(t, body.Max, "sin tope no se informa max")

	status, body = mapError(&domain.StatusConflictError{Current: "draft", Expected: []string{"paid"}})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "draft", body.CurrentStatus)
	assert.Equal(t, []string{"paid"}, body.Expected)
}
