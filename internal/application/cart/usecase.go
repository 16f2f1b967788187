// Package cart implementa las mutaciones del carrito (pedido en draft).
// Cada mutación corre en una transacción: bloquea el draft del cliente, ajusta la reserva
// vía el coordinador y persiste el agregado. Un fallo no deja cambios parciales.
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/ports"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/reservation"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/inventory"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

// UseCase casos de uso del carrito.
type UseCase struct {
	tx          ports.TxRunner
	reservation *reservation.Coordinator
	clock       ports.Clock
	ttl         time.Duration
	metrics     ports.Metrics
	log         *logger.Logger
}

// NewUseCase construye el caso de uso. ttl es la vida de un draft desde su creación.
func NewUseCase(
	tx ports.TxRunner,
	coordinator *reservation.Coordinator,
	clock ports.Clock,
	ttl time.Duration,
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
		reservation: coordinator,
		clock:       clock,
		ttl:         ttl,
		metrics:     metrics,
		log:         log.Component("cart"),
	}
}

// AddLine agrega quantity unidades del producto al carrito del cliente, creándolo si no existe.
// Si la línea ya existe se fusionan cantidades y solo se reserva lo agregado.
func (uc *UseCase) AddLine(ctx context.Context, customerID, productID string, quantity int) (*entity.Order, error) {
	if customerID == "" || productID == "" || quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.addLine(ctx, customerID, productID, quantity)
	if errors.Is(err, domain.ErrDuplicate) {
		// otra petición del mismo cliente creó el draft en paralelo: se reintenta sobre ese draft
		uc.log.Debug().Str("customer_id", customerID).Msg("draft concurrente, reintento")
		order, err = uc.addLine(ctx, customerID, productID, quantity)
	}
	return order, err
}

func (uc *UseCase) addLine(ctx context.Context, customerID, productID string, quantity int) (*entity.Order, error) {
	var out *entity.Order
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		now := uc.clock.Now()

		draft, err := repos.Orders.GetDraftByCustomerForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if draft != nil && draft.IsExpired(now) {
			// expirado pero aún no barrido: se libera aquí y se abre uno nuevo
			if err := uc.expire(ctx, repos, draft, now); err != nil {
				return err
			}
			draft = nil
		}

		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		isNew := draft == nil
		if isNew {
			expiresAt := now.Add(uc.ttl)
			draft = &entity.Order{
				ID:         uuid.New().String(),
				CustomerID: customerID,
				StoreID:    product.StoreID,
				Status:     entity.OrderStatusDraft,
				ExpiresAt:  &expiresAt,
				CreatedAt:  now,
			}
		} else if draft.StoreID != product.StoreID {
			return domain.ErrCrossStore
		}

		if i := draft.FindLine(productID); i >= 0 {
			total := draft.Lines[i].Quantity + quantity
			if err := inventory.CheckBounds(product, total); err != nil {
				return err
			}
			locked, err := uc.reservation.Adjust(ctx, repos.Products, productID, quantity)
			if err != nil {
				return err
			}
			draft.SetLine(locked, total)
		} else {
			locked, err := uc.reservation.Reserve(ctx, repos.Products, productID, quantity)
			if err != nil {
				return err
			}
			draft.SetLine(locked, quantity)
		}
		draft.UpdatedAt = now

		if isNew {
			if err := repos.Orders.Create(ctx, draft); err != nil {
				return err
			}
			uc.metrics.CartEvent("created")
		} else if err := repos.Orders.Update(ctx, draft); err != nil {
			return err
		}
		out = draft
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.CartEvent("line_added")
	return out, nil
}

// SetLineQuantity fija la cantidad absoluta de una línea. 0 elimina la línea.
// Devuelve nil si el carrito quedó vacío y fue eliminado.
func (uc *UseCase) SetLineQuantity(ctx context.Context, customerID, productID string, quantity int) (*entity.Order, error) {
	if customerID == "" || productID == "" || quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if quantity == 0 {
		return uc.RemoveLine(ctx, customerID, productID)
	}
	var out *entity.Order
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		now := uc.clock.Now()
		draft, i, err := uc.lockLine(ctx, repos, customerID, productID, now)
		if err != nil {
			return err
		}
		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := inventory.CheckBounds(product, quantity); err != nil {
			return err
		}
		delta := quantity - draft.Lines[i].Quantity
		locked, err := uc.reservation.Adjust(ctx, repos.Products, productID, delta)
		if err != nil {
			return err
		}
		// el precio unitario se actualiza al precio vigente
		draft.SetLine(locked, quantity)
		draft.UpdatedAt = now
		if err := repos.Orders.Update(ctx, draft); err != nil {
			return err
		}
		out = draft
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.CartEvent("line_updated")
	return out, nil
}

// RemoveLine libera la cantidad completa de la línea y la elimina.
// Si no quedan líneas el carrito se elimina y se devuelve nil.
func (uc *UseCase) RemoveLine(ctx context.Context, customerID, productID string) (*entity.Order, error) {
	if customerID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Order
	deleted := false
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		now := uc.clock.Now()
		draft, _, err := uc.lockLine(ctx, repos, customerID, productID, now)
		if err != nil {
			return err
		}
		qty := draft.RemoveLine(productID)
		if err := uc.reservation.Release(ctx, repos.Products, productID, qty); err != nil {
			return err
		}
		if len(draft.Lines) == 0 {
			deleted = true
			return repos.Orders.Delete(ctx, draft.ID)
		}
		draft.UpdatedAt = now
		if err := repos.Orders.Update(ctx, draft); err != nil {
			return err
		}
		out = draft
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.CartEvent("line_removed")
	if deleted {
		uc.metrics.CartEvent("deleted")
	}
	return out, nil
}

// CheckoutInput datos de entrega y pago congelados en el pedido.
type CheckoutInput struct {
	DeliveryMode    string
	DeliveryAddress *entity.DeliveryAddress
	PaymentMethod   string
}

func (in CheckoutInput) validate() error {
	if !entity.ValidPaymentMethods[in.PaymentMethod] {
		return domain.ErrInvalidInput
	}
	switch in.DeliveryMode {
	case entity.DeliveryModePickup:
		return nil
	case entity.DeliveryModeDelivery:
		if in.DeliveryAddress == nil || in.DeliveryAddress.Line1 == "" || in.DeliveryAddress.City == "" {
			return domain.ErrInvalidInput
		}
		return nil
	}
	return domain.ErrInvalidInput
}

// Checkout pasa el carrito a paid. La reserva no se toca: se mantiene hasta la aceptación o cancelación.
func (uc *UseCase) Checkout(ctx context.Context, customerID string, in CheckoutInput) (*entity.Order, error) {
	if customerID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	var out *entity.Order
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		now := uc.clock.Now()
		draft, err := uc.lockDraft(ctx, repos, customerID, now)
		if err != nil {
			return err
		}
		if len(draft.Lines) == 0 {
			return domain.ErrEmptyCart
		}
		if err := draft.TransitionTo(entity.OrderStatusPaid, now); err != nil {
			return err
		}
		draft.DeliveryMode = in.DeliveryMode
		draft.DeliveryAddress = nil
		if in.DeliveryMode == entity.DeliveryModeDelivery {
			addr := *in.DeliveryAddress
			draft.DeliveryAddress = &addr
		}
		draft.PaymentMethod = in.PaymentMethod
		draft.PaidAt = &now
		if err := repos.Orders.Update(ctx, draft); err != nil {
			return err
		}
		out = draft
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.CartEvent("checkout")
	uc.metrics.OrderTransition(entity.OrderStatusPaid)
	uc.log.Info().Str("order_id", out.ID).Str("store_id", out.StoreID).Str("total", out.TotalAmount.String()).Msg("pedido pagado")
	return out, nil
}

// GetDraft devuelve el carrito abierto del cliente. Un draft expirado no cuenta como abierto.
func (uc *UseCase) GetDraft(ctx context.Context, customerID string) (*entity.Order, error) {
	var out *entity.Order
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		draft, err := repos.Orders.GetDraftByCustomerForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if draft == nil || draft.IsExpired(uc.clock.Now()) {
			return domain.ErrNotFound
		}
		out = draft
		return nil
	})
	return out, err
}

// lockDraft devuelve el draft abierto bloqueado; ErrCartExpired si ya venció.
func (uc *UseCase) lockDraft(ctx context.Context, repos ports.TxRepos, customerID string, now time.Time) (*entity.Order, error) {
	draft, err := repos.Orders.GetDraftByCustomerForUpdate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, domain.ErrNotFound
	}
	if draft.IsExpired(now) {
		return nil, domain.ErrCartExpired
	}
	return draft, nil
}

func (uc *UseCase) lockLine(ctx context.Context, repos ports.TxRepos, customerID, productID string, now time.Time) (*entity.Order, int, error) {
	draft, err := uc.lockDraft(ctx, repos, customerID, now)
	if err != nil {
		return nil, -1, err
	}
	i := draft.FindLine(productID)
	if i < 0 {
		return nil, -1, domain.ErrNotFound
	}
	return draft, i, nil
}

// expire libera la reserva de un draft vencido y lo marca expired (misma ruta que el barrido).
func (uc *UseCase) expire(ctx context.Context, repos ports.TxRepos, draft *entity.Order, now time.Time) error {
	if err := uc.reservation.ReleaseLines(ctx, repos.Products, draft.Lines); err != nil {
		return err
	}
	if err := draft.TransitionTo(entity.OrderStatusExpired, now); err != nil {
		return err
	}
	uc.metrics.CartEvent("expired_inline")
	return repos.Orders.Update(ctx, draft)
}
