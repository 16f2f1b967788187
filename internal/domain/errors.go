package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrQuantityOutOfBounds = errors.New("cantidad fuera de los límites del producto")
	ErrCrossStore          = errors.New("el carrito pertenece a otra tienda")
	ErrInvalidStatus       = errors.New("estado no válido para la operación")
	ErrCartExpired         = errors.New("el carrito ha expirado")
	ErrEmptyCart           = errors.New("el carrito está vacío")
	ErrTransactionFailed   = errors.New("la operación no pudo completarse, intente de nuevo")
)

// InsufficientStockError indica cuánto stock real queda disponible para el producto.
type InsufficientStockError struct {
	ProductID string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %d", e.ProductID, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// QuantityOutOfBoundsError reporta los límites [Min, Max] del producto. Max = 0 significa sin tope.
type QuantityOutOfBoundsError struct {
	Min int
	Max int
}

func (e *QuantityOutOfBoundsError) Error() string {
	if e.Max <= 0 {
		return fmt.Sprintf("cantidad fuera de límites: mínimo %d", e.Min)
	}
	return fmt.Sprintf("cantidad fuera de límites: entre %d y %d", e.Min, e.Max)
}

func (e *QuantityOutOfBoundsError) Unwrap() error { return ErrQuantityOutOfBounds }

// StatusConflictError se devuelve al operar sobre un pedido o venta en un estado no esperado.
type StatusConflictError struct {
	Current  string
	Expected []string
}

func (e *StatusConflictError) Error() string {
	return fmt.Sprintf("estado actual %q, se esperaba uno de %v", e.Current, e.Expected)
}

func (e *StatusConflictError) Unwrap() error { return ErrInvalidStatus }

// IsDomainError indica si err pertenece a la taxonomía de dominio (validación, conflicto, estado).
// Los errores que no lo son se consideran fallos de infraestructura.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrUnauthorized, ErrForbidden, ErrConflict,
		ErrInsufficientStock, ErrQuantityOutOfBounds, ErrCrossStore, ErrInvalidStatus,
		ErrCartExpired, ErrEmptyCart,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
