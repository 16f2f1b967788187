package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/dto"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/inventory"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/infrastructure/memory"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newUseCase(t *testing.T) (*inventory.RegisterMovementUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.PutProduct(&entity.Product{ID: "p1", StoreID: "s1", Name: "Farine", Cost: decimal.NewFromInt(2), Stock: 10, StockEngaged: 4})
	store.PutProduct(&entity.Product{ID: "p2", StoreID: "s1", Name: "Sel", Stock: 5})
	repos := store.Repos()
	clock := fixedClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	return inventory.NewRegisterMovementUseCase(memory.NewTxRunner(store), repos.Products, repos.Movements, clock, logger.Nop()), store
}

func product(t *testing.T, store *memory.Store, id string) *entity.Product {
	t.Helper()
	p, err := store.Repos().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaConCostoPromedio(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase(t)
	cost := decimal.NewFromInt(4)

	mov, err := uc.RegisterMovementFromRequest(ctx, "s1", "u1", dto.RegisterMovementRequest{
		ProductID: "p1", Type: entity.MovementTypeIN, Quantity: 10, UnitCost: &cost,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, mov.StockBefore)
	assert.Equal(t, 20, mov.StockAfter)
	assert.Equal(t, entity.MovementSourceManual, mov.Source)
	p := product(t, store, "p1")
	assert.Equal(t, 20, p.Stock)
	assert.Equal(t, 4, p.StockEngaged, "el libro no toca las reservas")
	assert.True(t, p.Cost.Equal(decimal.NewFromInt(3)), "(10*2 + 10*4) / 20")
}

func TestRegisterMovement_SalidaNoBajaDeLoReservado(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase(t)

	_, err := uc.RegisterMovement(ctx, inventory.MovementInputDTO{
		StoreID: "s1", ProductID: "p1", Type: entity.MovementTypeOUT, Quantity: 7, Source: entity.MovementSourceManual,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, product(t, store, "p1").Stock)

	movs, err := uc.ListMovements(ctx, "s1", "p1", inventory.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs, "un rechazo no deja entrada en el libro")

	mov, err := uc.RegisterMovement(ctx, inventory.MovementInputDTO{
		StoreID: "s1", ProductID: "p1", Type: entity.MovementTypeOUT, Quantity: 6, Source: entity.MovementSourceManual,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, mov.StockAfter)
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)
	cost := decimal.NewFromInt(1)

	cases := []inventory.MovementInputDTO{
		{StoreID: "s1", ProductID: "p1", Type: entity.MovementTypeIN, Quantity: 0, Source: entity.MovementSourceManual},
		{StoreID: "s1", ProductID: "p1", Type: "TRANSFER", Quantity: 1, Source: entity.MovementSourceManual},
		{StoreID: "s1", ProductID: "p1", Type: entity.MovementTypeIN, Quantity: 1, Source: "gift"},
		{StoreID: "s1", ProductID: "p1", Type: entity.MovementTypeOUT, Quantity: 1, Source: entity.MovementSourceManual, UnitCost: &cost},
	}
	for _, in := range cases {
		_, err := uc.RegisterMovement(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}

	_, err := uc.RegisterMovement(ctx, inventory.MovementInputDTO{StoreID: "s9", ProductID: "p1", Type: entity.MovementTypeIN, Quantity: 1, Source: entity.MovementSourceManual})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLibro_StockEsSumaDeMovimientos(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase(t)
	ops := []struct {
		typ string
		qty int
	}{{entity.MovementTypeIN, 5}, {entity.MovementTypeOUT, 3}, {entity.MovementTypeIN, 1}, {entity.MovementTypeOUT, 2}}
	for _, op := range ops {
		_, err := uc.RegisterMovement(ctx, inventory.MovementInputDTO{StoreID: "s1", ProductID: "p2", Type: op.typ, Quantity: op.qty, Source: entity.MovementSourceManual})
		require.NoError(t, err)
	}

	movs, err := uc.ListMovements(ctx, "s1", "p2", inventory.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movs, 4)

	stockNow := 5
	for i := len(movs) - 1; i >= 0; i-- { // del más antiguo al más reciente
		m := movs[i]
		assert.Equal(t, stockNow, m.StockBefore)
		assert.Equal(t, m.StockBefore+m.SignedQuantity(), m.StockAfter)
		stockNow = m.StockAfter
	}
	assert.Equal(t, stockNow, product(t, store, "p2").Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconcile
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_GeneraMovimientosCompensatorios(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase(t)

	movs, err := uc.ReconcileFromRequest(ctx, "s1", "u1", dto.ReconcileRequest{
		Note:   "inventario mensual",
		Counts: []dto.CountLineRequest{{ProductID: "p2", Counted: 8}, {ProductID: "p1", Counted: 10}},
	})
	require.NoError(t, err)
	require.Len(t, movs, 1, "p1 no tiene diferencia")
	assert.Equal(t, entity.MovementTypeIN, movs[0].Type)
	assert.Equal(t, 3, movs[0].Quantity)
	assert.Equal(t, entity.MovementSourceInventory, movs[0].Source)
	assert.Equal(t, 8, product(t, store, "p2").Stock)
}

func TestReconcile_TodoONada(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase(t)

	// p1 tiene 4 reservadas: contar 2 dejaría stockReal negativo
	_, err := uc.Reconcile(ctx, inventory.ReconcileInput{StoreID: "s1", Counts: []inventory.CountLine{
		{ProductID: "p2", Counted: 1}, {ProductID: "p1", Counted: 2},
	}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, product(t, store, "p2").Stock, "p2 no debe ajustarse")
	assert.Equal(t, 10, product(t, store, "p1").Stock)
}

func TestReconcile_ProductoRepetido(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.Reconcile(context.Background(), inventory.ReconcileInput{StoreID: "s1", Counts: []inventory.CountLine{
		{ProductID: "p1", Counted: 1}, {ProductID: "p1", Counted: 2},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockSnapshot(t *testing.T) {
	uc, _ := newUseCase(t)
	p, err := uc.StockSnapshot(context.Background(), "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 6, p.StockReal())

	_, err = uc.StockSnapshot(context.Background(), "s2", "p1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
