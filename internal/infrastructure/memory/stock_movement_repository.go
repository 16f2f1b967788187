package memory

import (
	"context"
	"time"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de stock en memoria (solo inserción).
type StockMovementRepo struct {
	s    *Store
	inTx bool
}

func (r *StockMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	r.s.do(r.inTx, func() {
		cp := *movement
		r.s.movements = append(r.s.movements, &cp)
	})
	return nil
}

// ListByProduct devuelve los movimientos del más reciente al más antiguo.
func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	r.s.do(r.inTx, func() {
		for i := len(r.s.movements) - 1; i >= 0; i-- {
			m := r.s.movements[i]
			if m.ProductID != productID {
				continue
			}
			if from != nil && m.CreatedAt.Before(*from) {
				continue
			}
			if to != nil && m.CreatedAt.After(*to) {
				continue
			}
			cp := *m
			list = append(list, &cp)
		}
	})
	start, end := page(len(list), limit, offset)
	return list[start:end], nil
}
