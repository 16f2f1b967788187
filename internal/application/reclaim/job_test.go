package reclaim_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/ports"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/reclaim"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/reservation"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/infrastructure/memory"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newJob(store *memory.Store, workers int) *reclaim.Job {
	return reclaim.NewJob(
		memory.NewTxRunner(store), store.Repos().Orders, reservation.NewCoordinator(nil),
		fixedClock{now: now}, ports.NopMetrics{}, logger.Nop(),
		reclaim.Config{Interval: time.Minute, BatchSize: 100, Workers: workers},
	)
}

func draft(t *testing.T, store *memory.Store, id, customerID string, expiresAt time.Time, lines ...entity.OrderLine) {
	t.Helper()
	o := &entity.Order{ID: id, CustomerID: customerID, StoreID: "s1", Status: entity.OrderStatusDraft, Lines: lines, ExpiresAt: &expiresAt, CreatedAt: expiresAt.Add(-time.Hour)}
	o.Recalculate()
	require.NoError(t, store.Repos().Orders.Create(context.Background(), o))
}

func line(productID string, qty int) entity.OrderLine {
	return entity.OrderLine{ProductID: productID, Quantity: qty, UnitPrice: decimal.NewFromInt(1), TotalPrice: decimal.NewFromInt(int64(qty))}
}

func get(t *testing.T, store *memory.Store, id string) *entity.Order {
	t.Helper()
	o, err := store.Repos().Orders.GetByID(context.Background(), id)
	require.NoError(t, err)
	return o
}

func engaged(t *testing.T, store *memory.Store, id string) int {
	t.Helper()
	p, err := store.Repos().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.StockEngaged
}

func TestSweep_ExpiraYLibera(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(&entity.Product{ID: "p1", StoreID: "s1", Stock: 10, StockEngaged: 2})
	draft(t, store, "o1", "c1", now.Add(-time.Hour), line("p1", 2))

	res, err := newJob(store, 2).Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, reclaim.Result{Scanned: 1, Expired: 1}, res)
	assert.Equal(t, entity.OrderStatusExpired, get(t, store, "o1").Status)
	assert.Equal(t, 0, engaged(t, store, "p1"))
}

func TestSweep_LimiteInclusivo(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(&entity.Product{ID: "p1", StoreID: "s1", Stock: 10, StockEngaged: 3})
	draft(t, store, "exacto", "c1", now, line("p1", 1))
	draft(t, store, "vigente", "c2", now.Add(time.Second), line("p1", 2))

	res, err := newJob(store, 1).Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Expired)
	assert.Equal(t, entity.OrderStatusExpired, get(t, store, "exacto").Status)
	assert.Equal(t, entity.OrderStatusDraft, get(t, store, "vigente").Status)
	assert.Equal(t, 2, engaged(t, store, "p1"))
}

func TestSweep_FalloAisladoPorCarrito(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(&entity.Product{ID: "p1", StoreID: "s1", Stock: 10, StockEngaged: 4})
	draft(t, store, "roto", "c1", now.Add(-2*time.Hour), line("borrado", 1))
	draft(t, store, "ok1", "c2", now.Add(-time.Hour), line("p1", 1))
	draft(t, store, "ok2", "c3", now.Add(-time.Minute), line("p1", 3))

	res, err := newJob(store, 3).Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Scanned)
	assert.Equal(t, 2, res.Expired)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, entity.OrderStatusDraft, get(t, store, "roto").Status, "el carrito fallido queda intacto")
	assert.Equal(t, 0, engaged(t, store, "p1"))
}

func TestSweep_NoTocaPedidosPagados(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(&entity.Product{ID: "p1", StoreID: "s1", Stock: 10, StockEngaged: 2})
	past := now.Add(-time.Hour)
	paid := &entity.Order{ID: "o1", CustomerID: "c1", StoreID: "s1", Status: entity.OrderStatusPaid, Lines: []entity.OrderLine{line("p1", 2)}, ExpiresAt: &past}
	require.NoError(t, store.Repos().Orders.Create(context.Background(), paid))

	res, err := newJob(store, 1).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Scanned)
	assert.Equal(t, 2, engaged(t, store, "p1"))
}

func TestSweep_BarridosConcurrentesLiberanUnaSolaVez(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(&entity.Product{ID: "p1", StoreID: "s1", Stock: 100, StockEngaged: 25})
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		draft(t, store, id, "c"+id, now.Add(-time.Minute), line("p1", 5))
	}

	var wg sync.WaitGroup
	results := make([]reclaim.Result, 3)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = newJob(store, 2).Sweep(context.Background())
		}(i)
	}
	wg.Wait()

	total := 0
	for _, r := range results {
		assert.Zero(t, r.Failed)
		total += r.Expired
	}
	assert.Equal(t, 5, total, "cada carrito se expira exactamente una vez")
	assert.Equal(t, 0, engaged(t, store, "p1"))
}

func TestStart_SeDetieneConElContexto(t *testing.T) {
	store := memory.NewStore()
	job := reclaim.NewJob(memory.NewTxRunner(store), store.Repos().Orders, reservation.NewCoordinator(nil),
		nil, nil, logger.Nop(), reclaim.Config{Interval: 10 * time.Millisecond, BatchSize: 10, Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start no terminó tras cancelar el contexto")
	}
}
