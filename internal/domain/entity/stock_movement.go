package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock físico.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// Origen del movimiento.
const (
	MovementSourceManual    = "manual"    // ajuste manual del personal
	MovementSourceInventory = "inventory" // conciliación por conteo físico
	MovementSourceSale      = "sale"      // salida por venta (directa o pedido aceptado)
)

// ValidMovementSources orígenes válidos.
var ValidMovementSources = map[string]bool{
	MovementSourceManual: true, MovementSourceInventory: true, MovementSourceSale: true,
}

// StockMovement entrada inmutable del libro de stock. StockAfter = StockBefore ± Quantity según Type.
type StockMovement struct {
	ID          string
	StoreID     string
	ProductID   string
	Type        string
	Quantity    int // siempre > 0; el signo lo da Type
	StockBefore int
	StockAfter  int
	Source      string
	Reference   string // venta, pedido o conciliación que originó el movimiento
	UnitCost    *decimal.Decimal
	Note        string
	ActorID     string
	CreatedAt   time.Time
}

// SignedQuantity devuelve la cantidad con signo (+IN, -OUT).
func (m *StockMovement) SignedQuantity() int {
	if m.Type == MovementTypeOUT {
		return -m.Quantity
	}
	return m.Quantity
}
