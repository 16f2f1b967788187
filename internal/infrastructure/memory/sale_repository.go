package memory

import (
	"context"
	"sort"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria. Una sola venta por pedido de origen.
type SaleRepo struct {
	s    *Store
	inTx bool
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	var err error
	r.s.do(r.inTx, func() {
		if _, ok := r.s.sales[sale.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		if sale.OrderID != nil && r.byOrder(*sale.OrderID) != nil {
			err = domain.ErrDuplicate
			return
		}
		r.s.sales[sale.ID] = cloneSale(sale)
	})
	return err
}

func (r *SaleRepo) Update(_ context.Context, sale *entity.Sale) error {
	var err error
	r.s.do(r.inTx, func() {
		if _, ok := r.s.sales[sale.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		r.s.sales[sale.ID] = cloneSale(sale)
	})
	return err
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.s.do(r.inTx, func() { out = cloneSale(r.s.sales[id]) })
	return out, nil
}

func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) GetByOrderID(_ context.Context, orderID string) (*entity.Sale, error) {
	var out *entity.Sale
	r.s.do(r.inTx, func() { out = cloneSale(r.byOrder(orderID)) })
	return out, nil
}

func (r *SaleRepo) ListByStore(_ context.Context, storeID string, limit, offset int) ([]*entity.Sale, error) {
	var list []*entity.Sale
	r.s.do(r.inTx, func() {
		for _, v := range r.s.sales {
			if v.StoreID == storeID {
				list = append(list, cloneSale(v))
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	from, to := page(len(list), limit, offset)
	return list[from:to], nil
}

func (r *SaleRepo) byOrder(orderID string) *entity.Sale {
	for _, v := range r.s.sales {
		if v.OrderID != nil && *v.OrderID == orderID {
			return v
		}
	}
	return nil
}
