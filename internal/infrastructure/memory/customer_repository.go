package memory

import (
	"context"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo perfiles de contacto en memoria.
type CustomerRepo struct {
	s    *Store
	inTx bool
}

func (r *CustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	var err error
	r.s.do(r.inTx, func() {
		if _, ok := r.s.customers[customer.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		cp := *customer
		r.s.customers[customer.ID] = &cp
	})
	return err
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	r.s.do(r.inTx, func() {
		if c, ok := r.s.customers[id]; ok {
			cp := *c
			out = &cp
		}
	})
	return out, nil
}
