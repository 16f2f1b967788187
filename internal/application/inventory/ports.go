package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementInputDTO entrada para registrar un movimiento del libro de stock.
// UnitCost solo aplica a IN: si viene, actualiza el costo promedio ponderado del producto.
type MovementInputDTO struct {
	StoreID   string
	UserID    string
	ProductID string
	Type      string
	Quantity  int
	Source    string
	Reference string
	Note      string
	UnitCost  *decimal.Decimal
}

// CountLine conteo físico de un producto.
type CountLine struct {
	ProductID string
	Counted   int
}

// ReconcileInput recuento de inventario: cada diferencia produce un movimiento compensatorio.
type ReconcileInput struct {
	StoreID string
	UserID  string
	Note    string
	Counts  []CountLine
}

// MovementFilter filtros del listado de movimientos de un producto.
type MovementFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
