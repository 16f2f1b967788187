// Package order implementa las transiciones de pedidos pagados: aceptación, cancelación y entrega.
package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/ports"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/reservation"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/repository"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

// UseCase transiciones y consultas de pedidos.
type UseCase struct {
	tx          ports.TxRunner
	orders      repository.OrderRepository
	reservation *reservation.Coordinator
	inventory   InventoryUseCase
	clock       ports.Clock
	metrics     ports.Metrics
	log         *logger.Logger
}

// NewUseCase construye el caso de uso. orders se usa solo para lecturas fuera de transacción.
func NewUseCase(
	tx ports.TxRunner,
	orders repository.OrderRepository,
	coordinator *reservation.Coordinator,
	inventory InventoryUseCase,
	clock ports.Clock,
	metrics ports.Metrics,
	log *logger.Logger,
) *UseCase {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &UseCase{
		tx:          tx,
		orders:      orders,
		reservation: coordinator,
		inventory:   inventory,
		clock:       clock,
		metrics:     metrics,
		log:         log.Component("order"),
	}
}

// AcceptResult pedido aceptado y la venta generada.
type AcceptResult struct {
	Order *entity.Order
	Sale  *entity.Sale
}

// Accept convierte un pedido paid en una venta (origin=order, paid), libera su reserva,
// registra la salida de stock y pasa el pedido a accepted. Todo en una transacción:
// si un paso falla no queda venta, la reserva sigue intacta y el pedido sigue en paid.
// Re-aceptar un pedido ya aceptado devuelve StatusConflictError.
func (uc *UseCase) Accept(ctx context.Context, actor entity.Actor, orderID string) (*AcceptResult, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	var res AcceptResult
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		now := uc.clock.Now()
		o, err := lockStoreOrder(ctx, repos, actor, orderID)
		if err != nil {
			return err
		}
		if !o.CanTransition(entity.OrderStatusAccepted) {
			return &domain.StatusConflictError{Current: o.Status, Expected: entity.AllowedFrom(entity.OrderStatusAccepted)}
		}

		// ── 1. Snapshot del cliente (best-effort) ────────────────────────────
		snapshot := uc.customerSnapshot(ctx, repos, o.CustomerID)

		// ── 2-3. Venta espejo del pedido ─────────────────────────────────────
		orderRef := o.ID
		sale := &entity.Sale{
			ID:            uuid.New().String(),
			StoreID:       o.StoreID,
			SellerID:      actor.UserID,
			Customer:      snapshot,
			Lines:         append([]entity.SaleLine(nil), o.Lines...),
			PaymentMethod: o.PaymentMethod,
			Status:        entity.SaleStatusPaid,
			Origin:        entity.SaleOriginOrder,
			OrderID:       &orderRef,
			PaidAt:        &now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		sale.Recalculate()
		if err := repos.Sales.Create(ctx, sale); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.ErrConflict
			}
			return err
		}

		// ── 4. Liberar reserva y registrar la salida física ──────────────────
		if err := uc.reservation.ReleaseLines(ctx, repos.Products, o.Lines); err != nil {
			return err
		}
		if err := uc.inventory.RegisterOUTInTx(ctx, repos, o.StoreID, actor.UserID, sale.ID, o.Lines, now); err != nil {
			return err
		}

		// ── 5. Transición ────────────────────────────────────────────────────
		if err := o.TransitionTo(entity.OrderStatusAccepted, now); err != nil {
			return err
		}
		if err := repos.Orders.Update(ctx, o); err != nil {
			return err
		}
		res = AcceptResult{Order: o, Sale: sale}
		return nil
	})
	if err != nil {
		if domain.IsDomainError(err) {
			return nil, err
		}
		uc.metrics.AcceptFailed()
		uc.log.Error().Err(err).Str("order_id", orderID).Str("store_id", actor.StoreID).Msg("aceptación revertida")
		return nil, domain.ErrTransactionFailed
	}
	uc.metrics.OrderTransition(entity.OrderStatusAccepted)
	uc.log.Info().Str("order_id", orderID).Str("sale_id", res.Sale.ID).Msg("pedido aceptado")
	return &res, nil
}

// Cancel cancela un pedido paid, accepted o delivering. Solo un pedido paid conserva reserva,
// así que solo en ese caso se libera; la venta de un pedido ya aceptado no se modifica.
func (uc *UseCase) Cancel(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, actor, orderID, entity.OrderStatusCanceled, func(ctx context.Context, repos ports.TxRepos, o *entity.Order) error {
		if o.HoldsReservation() {
			return uc.reservation.ReleaseLines(ctx, repos.Products, o.Lines)
		}
		return nil
	})
}

// StartDelivery pasa un pedido aceptado con entrega a domicilio a delivering.
func (uc *UseCase) StartDelivery(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, actor, orderID, entity.OrderStatusDelivering, func(_ context.Context, _ ports.TxRepos, o *entity.Order) error {
		if o.DeliveryMode != entity.DeliveryModeDelivery {
			return domain.ErrInvalidInput
		}
		return nil
	})
}

// Complete marca el pedido como entregado (delivering → success) o retirado en tienda (accepted → success).
func (uc *UseCase) Complete(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, actor, orderID, entity.OrderStatusSuccess, func(_ context.Context, _ ports.TxRepos, o *entity.Order) error {
		expected := entity.OrderStatusAccepted
		if o.DeliveryMode == entity.DeliveryModeDelivery {
			expected = entity.OrderStatusDelivering
		}
		if o.Status != expected {
			return &domain.StatusConflictError{Current: o.Status, Expected: []string{expected}}
		}
		return nil
	})
}

// transition bloquea el pedido de la tienda del actor, valida la transición, ejecuta before y persiste.
func (uc *UseCase) transition(
	ctx context.Context,
	actor entity.Actor,
	orderID, target string,
	before func(ctx context.Context, repos ports.TxRepos, o *entity.Order) error,
) (*entity.Order, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	var out *entity.Order
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		o, err := lockStoreOrder(ctx, repos, actor, orderID)
		if err != nil {
			return err
		}
		if !o.CanTransition(target) {
			return &domain.StatusConflictError{Current: o.Status, Expected: entity.AllowedFrom(target)}
		}
		if err := before(ctx, repos, o); err != nil {
			return err
		}
		if err := o.TransitionTo(target, uc.clock.Now()); err != nil {
			return err
		}
		if err := repos.Orders.Update(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.OrderTransition(target)
	return out, nil
}

// Get devuelve un pedido. El personal solo ve los de su tienda; un cliente solo los suyos.
func (uc *UseCase) Get(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error) {
	o, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	switch {
	case actor.IsStaff() && o.StoreID == actor.StoreID:
		return o, nil
	case actor.Role == entity.RoleCustomer && o.CustomerID == actor.UserID:
		return o, nil
	}
	return nil, domain.ErrForbidden
}

// ListByStore lista los pedidos de la tienda del actor, opcionalmente filtrados por estado.
func (uc *UseCase) ListByStore(ctx context.Context, actor entity.Actor, status string, limit, offset int) ([]*entity.Order, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 {
		limit = 20
	}
	return uc.orders.ListByStore(ctx, actor.StoreID, status, limit, offset)
}

func (uc *UseCase) customerSnapshot(ctx context.Context, repos ports.TxRepos, customerID string) *entity.CustomerSnapshot {
	c, err := repos.Customers.GetByID(ctx, customerID)
	if err != nil {
		uc.log.Warn().Err(err).Str("customer_id", customerID).Msg("perfil de cliente no disponible")
	}
	if err != nil || c == nil {
		return &entity.CustomerSnapshot{CustomerID: customerID, Name: entity.WalkInCustomerName}
	}
	return c.Snapshot()
}

func lockStoreOrder(ctx context.Context, repos ports.TxRepos, actor entity.Actor, orderID string) (*entity.Order, error) {
	o, err := repos.Orders.GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if o.StoreID != actor.StoreID {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

