// Package memory implementa los puertos de persistencia en memoria.
// Todas las transacciones se serializan con un único mutex y se revierten restaurando una copia
// del estado, lo que da aislamiento serializable. Sirve como backend de desarrollo y en los tests.
package memory

import (
	"context"
	"sync"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/ports"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
)

// Store estado completo del backend.
type Store struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	orders    map[string]*entity.Order
	sales     map[string]*entity.Sale
	customers map[string]*entity.Customer
	movements []*entity.StockMovement
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:  map[string]*entity.Product{},
		orders:    map[string]*entity.Order{},
		sales:     map[string]*entity.Sale{},
		customers: map[string]*entity.Customer{},
	}
}

// Repos devuelve repositorios fuera de transacción: cada llamada toma el mutex por separado.
func (s *Store) Repos() ports.TxRepos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) ports.TxRepos {
	return ports.TxRepos{
		Products:  &ProductRepo{s: s, inTx: inTx},
		Orders:    &OrderRepo{s: s, inTx: inTx},
		Sales:     &SaleRepo{s: s, inTx: inTx},
		Movements: &StockMovementRepo{s: s, inTx: inTx},
		Customers: &CustomerRepo{s: s, inTx: inTx},
	}
}

// do ejecuta f con el mutex tomado salvo que ya lo tenga la transacción en curso.
func (s *Store) do(inTx bool, f func()) {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	f()
}

type snapshot struct {
	products  map[string]*entity.Product
	orders    map[string]*entity.Order
	sales     map[string]*entity.Sale
	customers map[string]*entity.Customer
	movements int
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		products:  make(map[string]*entity.Product, len(s.products)),
		orders:    make(map[string]*entity.Order, len(s.orders)),
		sales:     make(map[string]*entity.Sale, len(s.sales)),
		customers: make(map[string]*entity.Customer, len(s.customers)),
		movements: len(s.movements),
	}
	for k, v := range s.products {
		cp := *v
		snap.products[k] = &cp
	}
	for k, v := range s.orders {
		snap.orders[k] = cloneOrder(v)
	}
	for k, v := range s.sales {
		snap.sales[k] = cloneSale(v)
	}
	for k, v := range s.customers {
		cp := *v
		snap.customers[k] = &cp
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.orders = snap.orders
	s.sales = snap.sales
	s.customers = snap.customers
	// el libro es solo inserción: basta con truncar
	s.movements = s.movements[:snap.movements]
}

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks en exclusión mutua con rollback por snapshot.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run toma el mutex, ejecuta fn y, si devuelve error (o entra en pánico), restaura el estado previo.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepos) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snap := r.s.snapshot()
	committed := false
	defer func() {
		if !committed {
			r.s.restore(snap)
		}
	}()
	if err := fn(ctx, r.s.repos(true)); err != nil {
		return err
	}
	committed = true
	return nil
}

func cloneOrder(o *entity.Order) *entity.Order {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Lines = append([]entity.OrderLine(nil), o.Lines...)
	if o.DeliveryAddress != nil {
		addr := *o.DeliveryAddress
		cp.DeliveryAddress = &addr
	}
	cp.ExpiresAt = cloneTime(o.ExpiresAt)
	cp.PaidAt = cloneTime(o.PaidAt)
	return &cp
}

func cloneSale(v *entity.Sale) *entity.Sale {
	if v == nil {
		return nil
	}
	cp := *v
	cp.Lines = append([]entity.SaleLine(nil), v.Lines...)
	if v.Customer != nil {
		c := *v.Customer
		cp.Customer = &c
	}
	if v.OrderID != nil {
		id := *v.OrderID
		cp.OrderID = &id
	}
	cp.PaidAt = cloneTime(v.PaidAt)
	return &cp
}

// PutProduct inserta o reemplaza un producto (sincronización de catálogo y datos de prueba).
func (s *Store) PutProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.products[p.ID] = &cp
}

// PutCustomer inserta o reemplaza un perfil de cliente.
func (s *Store) PutCustomer(c *entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.customers[c.ID] = &cp
}
