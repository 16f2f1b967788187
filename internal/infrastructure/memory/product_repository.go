package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria. Devuelve copias: el caller nunca comparte punteros con el store.
type ProductRepo struct {
	s    *Store
	inTx bool
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	var err error
	r.s.do(r.inTx, func() {
		if _, ok := r.s.products[product.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		cp := *product
		r.s.products[product.ID] = &cp
	})
	return err
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.s.do(r.inTx, func() {
		if p, ok := r.s.products[id]; ok {
			cp := *p
			out = &cp
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: la transacción ya tiene acceso exclusivo.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) ListByStore(_ context.Context, storeID string, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	r.s.do(r.inTx, func() {
		for _, p := range r.s.products {
			if p.StoreID == storeID {
				cp := *p
				list = append(list, &cp)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	from, to := page(len(list), limit, offset)
	return list[from:to], nil
}

func (r *ProductRepo) UpdateStock(_ context.Context, productID string, stock int) error {
	return r.update(productID, func(p *entity.Product) error {
		if stock < 0 {
			return domain.ErrInvalidInput
		}
		p.Stock = stock
		return nil
	})
}

func (r *ProductRepo) UpdateStockEngaged(_ context.Context, productID string, engaged int) error {
	return r.update(productID, func(p *entity.Product) error {
		if engaged < 0 {
			return domain.ErrInvalidInput
		}
		p.StockEngaged = engaged
		return nil
	})
}

func (r *ProductRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	return r.update(productID, func(p *entity.Product) error {
		p.Cost = cost
		return nil
	})
}

func (r *ProductRepo) update(productID string, f func(p *entity.Product) error) error {
	var err error
	r.s.do(r.inTx, func() {
		p, ok := r.s.products[productID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		if err = f(p); err == nil {
			p.UpdatedAt = time.Now().UTC()
		}
	})
	return err
}
