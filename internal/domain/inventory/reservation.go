// Package inventory contiene las reglas puras sobre los contadores de un producto:
// reserva (StockEngaged) y stock físico (Stock). No conoce persistencia ni transacciones.
package inventory

import (
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
)

// CheckBounds valida que quantity esté dentro de [MinOrderQty, MaxOrderQty] del producto.
func CheckBounds(p *entity.Product, quantity int) error {
	if quantity < p.MinQty() || (p.MaxOrderQty > 0 && quantity > p.MaxOrderQty) {
		return &domain.QuantityOutOfBoundsError{Min: p.MinQty(), Max: p.MaxOrderQty}
	}
	return nil
}

// Reserve compromete quantity unidades: exige quantity > 0, límites del producto y quantity <= StockReal.
func Reserve(p *entity.Product, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if err := CheckBounds(p, quantity); err != nil {
		return err
	}
	if quantity > p.StockReal() {
		return &domain.InsufficientStockError{ProductID: p.ID, Available: p.StockReal()}
	}
	p.StockEngaged += quantity
	return nil
}

// Adjust aplica la variación delta de una línea existente. Un aumento nunca se recorta:
// si supera StockReal se rechaza. Una disminución queda acotada a cero.
func Adjust(p *entity.Product, delta int) error {
	if delta > 0 && delta > p.StockReal() {
		return &domain.InsufficientStockError{ProductID: p.ID, Available: p.StockReal()}
	}
	p.StockEngaged += delta
	if p.StockEngaged < 0 {
		p.StockEngaged = 0
	}
	return nil
}

// Release libera quantity unidades sin fallar nunca: StockEngaged = max(0, StockEngaged - quantity).
func Release(p *entity.Product, quantity int) {
	if quantity <= 0 {
		return
	}
	p.StockEngaged -= quantity
	if p.StockEngaged < 0 {
		p.StockEngaged = 0
	}
}
