package inventory

import (
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
)

// ApplyMovement calcula (stockBefore, stockAfter) y actualiza p.Stock.
// Rechaza la salida si dejaría el stock físico por debajo de lo ya reservado (StockReal < 0).
func ApplyMovement(p *entity.Product, movementType string, quantity int) (before, after int, err error) {
	if quantity <= 0 {
		return 0, 0, domain.ErrInvalidInput
	}
	before = p.Stock
	switch movementType {
	case entity.MovementTypeIN:
		after = before + quantity
	case entity.MovementTypeOUT:
		after = before - quantity
		if after < 0 || after-p.StockEngaged < 0 {
			return 0, 0, &domain.InsufficientStockError{ProductID: p.ID, Available: p.StockReal()}
		}
	default:
		return 0, 0, domain.ErrInvalidInput
	}
	p.Stock = after
	return before, after, nil
}

// Discrepancy devuelve el movimiento compensatorio para llevar el stock a counted.
// ok = false si no hay diferencia.
func Discrepancy(current, counted int) (movementType string, quantity int, ok bool) {
	switch {
	case counted > current:
		return entity.MovementTypeIN, counted - current, true
	case counted < current:
		return entity.MovementTypeOUT, current - counted, true
	}
	return "", 0, false
}
