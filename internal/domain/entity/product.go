package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de una tienda con sus dos contadores de inventario.
// Stock es el conteo físico (solo lo modifica el libro de movimientos); StockEngaged es lo
// reservado por carritos y pedidos pagados aún no aceptados (solo lo modifica el coordinador de reservas).
// Los datos de catálogo (precios, límites) son de solo lectura para este servicio.
type Product struct {
	ID           string
	StoreID      string
	Name         string
	Price        decimal.Decimal // precio regular
	SalePrice    decimal.Decimal // precio en promoción
	OnSale       bool
	Cost         decimal.Decimal // costo promedio ponderado
	MinOrderQty  int             // mínimo por línea; 0 se interpreta como 1
	MaxOrderQty  int             // máximo por línea; 0 = sin tope
	Stock        int
	StockEngaged int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockReal devuelve max(0, Stock - StockEngaged).
func (p *Product) StockReal() int {
	if real := p.Stock - p.StockEngaged; real > 0 {
		return real
	}
	return 0
}

// EffectivePrice devuelve el precio de promoción si aplica; si no, el precio regular.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.IsOnSale() {
		return p.SalePrice
	}
	return p.Price
}

// IsOnSale indica si la promoción está activa con un precio válido.
func (p *Product) IsOnSale() bool {
	return p.OnSale && p.SalePrice.GreaterThan(decimal.Zero)
}

// MinQty límite inferior efectivo por línea.
func (p *Product) MinQty() int {
	if p.MinOrderQty < 1 {
		return 1
	}
	return p.MinOrderQty
}
