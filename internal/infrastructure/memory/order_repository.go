package memory

import (
	"context"
	"sort"
	"time"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo carritos y pedidos en memoria. Hace cumplir un único draft por cliente, como el índice parcial de PostgreSQL.
type OrderRepo struct {
	s    *Store
	inTx bool
}

func (r *OrderRepo) Create(_ context.Context, order *entity.Order) error {
	var err error
	r.s.do(r.inTx, func() {
		if _, ok := r.s.orders[order.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		if order.Status == entity.OrderStatusDraft && r.draftOf(order.CustomerID) != nil {
			err = domain.ErrDuplicate
			return
		}
		r.s.orders[order.ID] = cloneOrder(order)
	})
	return err
}

func (r *OrderRepo) Update(_ context.Context, order *entity.Order) error {
	var err error
	r.s.do(r.inTx, func() {
		if _, ok := r.s.orders[order.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		r.s.orders[order.ID] = cloneOrder(order)
	})
	return err
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	r.s.do(r.inTx, func() { delete(r.s.orders, id) })
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	r.s.do(r.inTx, func() { out = cloneOrder(r.s.orders[id]) })
	return out, nil
}

func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) GetDraftByCustomerForUpdate(_ context.Context, customerID string) (*entity.Order, error) {
	var out *entity.Order
	r.s.do(r.inTx, func() { out = cloneOrder(r.draftOf(customerID)) })
	return out, nil
}

func (r *OrderRepo) ListExpiredDrafts(_ context.Context, now time.Time, limit int) ([]*entity.Order, error) {
	var list []*entity.Order
	r.s.do(r.inTx, func() {
		for _, o := range r.s.orders {
			if o.Status == entity.OrderStatusDraft && o.IsExpired(now) {
				list = append(list, cloneOrder(o))
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].ExpiresAt.Before(*list[j].ExpiresAt) })
	_, to := page(len(list), limit, 0)
	return list[:to], nil
}

func (r *OrderRepo) ListByStore(_ context.Context, storeID, status string, limit, offset int) ([]*entity.Order, error) {
	var list []*entity.Order
	r.s.do(r.inTx, func() {
		for _, o := range r.s.orders {
			if o.StoreID != storeID || (status != "" && o.Status != status) {
				continue
			}
			list = append(list, cloneOrder(o))
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	from, to := page(len(list), limit, offset)
	return list[from:to], nil
}

// draftOf requiere el mutex tomado.
func (r *OrderRepo) draftOf(customerID string) *entity.Order {
	for _, o := range r.s.orders {
		if o.CustomerID == customerID && o.Status == entity.OrderStatusDraft {
			return o
		}
	}
	return nil
}
