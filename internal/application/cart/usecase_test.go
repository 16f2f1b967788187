package cart_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/cart"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/ports"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/reservation"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/infrastructure/memory"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	store *memory.Store
	clock *fakeClock
	uc    *cart.UseCase
}

func newFixture(t *testing.T, products ...*entity.Product) *fixture {
	t.Helper()
	store := memory.NewStore()
	for _, p := range products {
		require.NoError(t, store.Repos().Products.Create(context.Background(), p))
	}
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	uc := cart.NewUseCase(memory.NewTxRunner(store), reservation.NewCoordinator(nil), clock, time.Hour, ports.NopMetrics{}, logger.Nop())
	return &fixture{store: store, clock: clock, uc: uc}
}

func (f *fixture) product(t *testing.T, id string) *entity.Product {
	t.Helper()
	p, err := f.store.Repos().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func newProduct(id, storeID string, stock int, price int64) *entity.Product {
	return &entity.Product{ID: id, StoreID: storeID, Name: "Producto " + id, Price: decimal.NewFromInt(price), Stock: stock, MinOrderQty: 1}
}

func assertTotal(t *testing.T, o *entity.Order) {
	t.Helper()
	sum := decimal.Zero
	for _, l := range o.Lines {
		assert.True(t, l.TotalPrice.Equal(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))))
		sum = sum.Add(l.TotalPrice)
	}
	assert.True(t, o.TotalAmount.Equal(sum), "totalAmount %s != Σ %s", o.TotalAmount, sum)
}

// ──────────────────────────────────────────────────────────────────────────────
// AddLine
// ──────────────────────────────────────────────────────────────────────────────

func TestAddLine_AgotaStockYRechazaOtroCliente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newProduct("p1", "s1", 10, 4))

	o, err := f.uc.AddLine(ctx, "c1", "p1", 10)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDraft, o.Status)
	assert.Equal(t, "s1", o.StoreID)
	require.NotNil(t, o.ExpiresAt)
	assert.Equal(t, f.clock.Now().Add(time.Hour), *o.ExpiresAt)

	p := f.product(t, "p1")
	assert.Equal(t, 10, p.StockEngaged)
	assert.Equal(t, 0, p.StockReal())

	_, err = f.uc.AddLine(ctx, "c2", "p1", 1)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 0, stockErr.Available)

	// el rechazo no deja un carrito vacío para c2
	_, err = f.uc.GetDraft(ctx, "c2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddLine_FusionaYReservaSoloLoAgregado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newProduct("p1", "s1", 10, 3))

	_, err := f.uc.AddLine(ctx, "c1", "p1", 2)
	require.NoError(t, err)
	o, err := f.uc.AddLine(ctx, "c1", "p1", 3)
	require.NoError(t, err)

	require.Len(t, o.Lines, 1)
	assert.Equal(t, 5, o.Lines[0].Quantity)
	assert.Equal(t, 5, f.product(t, "p1").StockEngaged)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(15)))
	assertTotal(t, o)
}

func TestAddLine_FusionSuperaMaximo(t *testing.T) {
	ctx := context.Background()
	p := newProduct("p1", "s1", 100, 1)
	p.MaxOrderQty = 5
	f := newFixture(t, p)

	_, err := f.uc.AddLine(ctx, "c1", "p1", 4)
	require.NoError(t, err)

	_, err = f.uc.AddLine(ctx, "c1", "p1", 2)
	var bounds *domain.QuantityOutOfBoundsError
	require.True(t, errors.As(err, &bounds))
	assert.Equal(t, 5, bounds.Max)
	assert.Equal(t, 4, f.product(t, "p1").StockEngaged, "el rechazo no debe tocar la reserva")
}

func TestAddLine_CantidadBajoMinimo(t *testing.T) {
	p := newProduct("p1", "s1", 100, 1)
	p.MinOrderQty = 3
	f := newFixture(t, p)

	_, err := f.uc.AddLine(context.Background(), "c1", "p1", 2)
	assert.ErrorIs(t, err, domain.ErrQuantityOutOfBounds)
}

func TestAddLine_OtraTiendaRechazada(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newProduct("p1", "s1", 10, 1), newProduct("p2", "s2", 10, 1))

	_, err := f.uc.AddLine(ctx, "c1", "p1", 1)
	require.NoError(t, err)
	_, err = f.uc.AddLine(ctx, "c1", "p2", 1)
	assert.ErrorIs(t, err, domain.ErrCrossStore)
	assert.Equal(t, 0, f.product(t, "p2").StockEngaged)
}

func TestAddLine_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.AddLine(context.Background(), "c1", "nope", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddLine_DraftVencidoSinBarrerSeReemplaza(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newProduct("p1", "s1", 10, 1))

	old, err := f.uc.AddLine(ctx, "c1", "p1", 4)
	require.NoError(t, err)
	f.clock.Advance(time.Hour) // expiresAt == now: vencido

	o, err := f.uc.AddLine(ctx, "c1", "p1", 1)
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, o.ID)
	assert.Equal(t, 1, f.product(t, "p1").StockEngaged, "la reserva del draft vencido debe liberarse")

	prev, _ := f.store.Repos().Orders.GetByID(ctx, old.ID)
	assert.Equal(t, entity.OrderStatusExpired, prev.Status)
}

func TestAddLine_ConcurrenteNoSobrevende(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newProduct("p1", "s1", 5, 1))

	var ok int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			customer := "c" + string(rune('A'+i))
			if _, err := f.uc.AddLine(ctx, customer, "p1", 1); err == nil {
				atomic.AddInt32(&ok, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(5), ok)
	assert.Equal(t, 5, f.product(t, "p1").StockEngaged)
}

// ──────────────────────────────────────────────────────────────────────────────
// SetLineQuantity / RemoveLine
// ──────────────────────────────────────────────────────────────────────────────

func TestSetLineQuantity_AjustaPorDelta(t *testing.T) {
	ctx := context.Background()
	p := newProduct("p1", "s1", 20, 2)
	p.StockEngaged = 4 // reservas de otros carritos
	f := newFixture(t, p)

	_, err := f.uc.AddLine(ctx, "c1", "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, 7, f.product(t, "p1").StockEngaged)

	o, err := f.uc.SetLineQuantity(ctx, "c1", "p1", 5)
	require.NoError(t, err)
	assert.Equal(t, 9, f.product(t, "p1").StockEngaged, "sube 2, no 5")
	assertTotal(t, o)

	o, err = f.uc.SetLineQuantity(ctx, "c1", "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, 5, f.product(t, "p1").StockEngaged, "baja 4 desde el pico")
	assert.Equal(t, 1, o.Lines[0].Quantity)
	assertTotal(t, o)
}

func TestSetLineQuantity_ActualizaPrecioVigente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newProduct("p1", "s1", 20, 10))

	_, err := f.uc.AddLine(ctx, "c1", "p1", 2)
	require.NoError(t, err)

	// el catálogo activa una promoción
	p := f.product(t, "p1")
	p.OnSale, p.SalePrice = true, decimal.NewFromInt(8)
	f.store.PutProduct(p)

	o, err := f.uc.SetLineQuantity(ctx, "c1", "p1", 3)
	require.NoError(t, err)
	assert.True(t, o.Lines[0].UnitPrice.Equal(decimal.NewFromInt(8)))
	assert.True(t, o.Lines[0].IsSale)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(24)))
}

func TestSetLineQuantity_CeroEliminaYLibera(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newProduct("p1", "s1", 10, 1), newProduct("p2", "s1", 10, 1))

	_, err := f.uc.AddLine(ctx, "c1", "p1", 3)
	require.NoError(t, err)
	_, err = f.uc.AddLine(ctx, "c1", "p2", 2)
	require.NoError(t, err)

	o, err := f.uc.SetLineQuantity(ctx, "c1", "p1", 0)
	require.NoError(t, err)
	require.NotNil(t, o)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, "p2", o.Lines[0].ProductID)
	assert.Equal(t, 0, f.product(t, "p1").StockEngaged)
	assertTotal(t, o)
}

func TestSetLineQuantity_SuperaStockNoSeRecorta(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newProduct("p1", "s1", 5, 1))

	_, err := f.uc.AddLine(ctx, "c1", "p1", 2)
	require.NoError(t, err)
	_, err = f.uc.SetLineQuantity(ctx, "c1", "p1", 6)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 2, f.product(t, "p1").StockEngaged)
}

func TestSetLineQuantity_CarritoVencido(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newProduct("p1", "s1", 5, 1))

	_, err := f.uc.AddLine(ctx, "c1", "p1", 2)
	require.NoError(t, err)
	f.clock.Advance(2 * time.Hour)

	_, err = f.uc.SetLineQuantity(ctx, "c1", "p1", 3)
	assert.ErrorIs(t, err, domain.ErrCartExpired)
}

func TestRemoveLine_UltimaLineaEliminaCarrito(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newProduct("p1", "s1", 10, 1))

	_, err := f.uc.AddLine(ctx, "c1", "p1", 4)
	require.NoError(t, err)

	o, err := f.uc.RemoveLine(ctx, "c1", "p1")
	require.NoError(t, err)
	assert.Nil(t, o)
	assert.Equal(t, 0, f.product(t, "p1").StockEngaged)

	_, err = f.uc.GetDraft(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveLine_LineaInexistente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newProduct("p1", "s1", 10, 1))
	_, err := f.uc.AddLine(ctx, "c1", "p1", 1)
	require.NoError(t, err)

	_, err = f.uc.RemoveLine(ctx, "c1", "p9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_MantieneReserva(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newProduct("p1", "s1", 10, 2))

	_, err := f.uc.AddLine(ctx, "c1", "p1", 3)
	require.NoError(t, err)

	o, err := f.uc.Checkout(ctx, "c1", cart.CheckoutInput{
		DeliveryMode:    entity.DeliveryModeDelivery,
		DeliveryAddress: &entity.DeliveryAddress{Line1: "Lot II", City: "Antananarivo"},
		PaymentMethod:   entity.PaymentMethodCard,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPaid, o.Status)
	assert.Equal(t, entity.PaymentMethodCard, o.PaymentMethod)
	require.NotNil(t, o.PaidAt)
	assert.Equal(t, 3, f.product(t, "p1").StockEngaged, "checkout no libera la reserva")

	// ya no hay draft abierto
	_, err = f.uc.GetDraft(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckout_Validaciones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newProduct("p1", "s1", 10, 2))
	_, err := f.uc.AddLine(ctx, "c1", "p1", 1)
	require.NoError(t, err)

	_, err = f.uc.Checkout(ctx, "c1", cart.CheckoutInput{DeliveryMode: entity.DeliveryModeDelivery, PaymentMethod: entity.PaymentMethodCash})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "delivery exige dirección")

	_, err = f.uc.Checkout(ctx, "c1", cart.CheckoutInput{DeliveryMode: "drone", PaymentMethod: entity.PaymentMethodCash})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Checkout(ctx, "c1", cart.CheckoutInput{DeliveryMode: entity.DeliveryModePickup, PaymentMethod: "bitcoin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckout_CarritoVencido(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newProduct("p1", "s1", 10, 2))
	_, err := f.uc.AddLine(ctx, "c1", "p1", 1)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)

	_, err = f.uc.Checkout(ctx, "c1", cart.CheckoutInput{DeliveryMode: entity.DeliveryModePickup, PaymentMethod: entity.PaymentMethodCash})
	assert.ErrorIs(t, err, domain.ErrCartExpired)
}

func TestCheckout_SinCarrito(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Checkout(context.Background(), "c1", cart.CheckoutInput{DeliveryMode: entity.DeliveryModePickup, PaymentMethod: entity.PaymentMethodCash})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
