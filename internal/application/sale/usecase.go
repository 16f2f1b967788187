// Package sale implementa las ventas de punto de venta registradas por el personal.
// Una venta pasa a paid una sola vez: en ese momento se descuenta el stock físico.
package sale

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/ports"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/repository"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

// UseCase casos de uso de ventas.
type UseCase struct {
	tx        ports.TxRunner
	sales     repository.SaleRepository
	inventory InventoryUseCase
	receipts  ports.ReceiptGenerator
	clock     ports.Clock
	log       *logger.Logger
}

// NewUseCase construye el caso de uso. sales se usa para lecturas fuera de transacción.
func NewUseCase(
	tx ports.TxRunner,
	sales repository.SaleRepository,
	inventory InventoryUseCase,
	receipts ports.ReceiptGenerator,
	clock ports.Clock,
	log *logger.Logger,
) *UseCase {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &UseCase{
		tx:        tx,
		sales:     sales,
		inventory: inventory,
		receipts:  receipts,
		clock:     clock,
		log:       log.Component("sale"),
	}
}

func (in CreateSaleInput) validate() error {
	if len(in.Items) == 0 {
		return domain.ErrInvalidInput
	}
	if in.Paid || in.PaymentMethod != "" {
		if !entity.ValidPaymentMethods[in.PaymentMethod] {
			return domain.ErrInvalidInput
		}
	}
	seen := make(map[string]bool, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity <= 0 || seen[it.ProductID] {
			return domain.ErrInvalidInput
		}
		seen[it.ProductID] = true
	}
	return nil
}

// CreateSale registra una venta directa (origin=direct) en draft o ya pagada.
// Los precios se toman del catálogo; la venta pagada descuenta stock en la misma transacción.
func (uc *UseCase) CreateSale(ctx context.Context, actor entity.Actor, in CreateSaleInput) (*entity.Sale, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	items := make([]ItemInput, len(in.Items))
	copy(items, in.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	var out *entity.Sale
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		now := uc.clock.Now()
		sale := &entity.Sale{
			ID:            uuid.New().String(),
			StoreID:       actor.StoreID,
			SellerID:      actor.UserID,
			PaymentMethod: in.PaymentMethod,
			Status:        entity.SaleStatusDraft,
			Origin:        entity.SaleOriginDirect,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		customer, err := uc.resolveCustomer(ctx, repos, in.Customer)
		if err != nil {
			return err
		}
		sale.Customer = customer

		for _, it := range items {
			p, err := repos.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			if p.StoreID != actor.StoreID {
				return domain.ErrForbidden
			}
			if it.Quantity > p.StockReal() {
				return &domain.InsufficientStockError{ProductID: p.ID, Available: p.StockReal()}
			}
			price := p.EffectivePrice()
			sale.Lines = append(sale.Lines, entity.SaleLine{
				ProductID:  p.ID,
				Name:       p.Name,
				Quantity:   it.Quantity,
				UnitPrice:  price,
				TotalPrice: price.Mul(decimal.NewFromInt(int64(it.Quantity))),
				IsSale:     p.IsOnSale(),
			})
		}
		sale.Recalculate()

		if in.Paid {
			sale.Status = entity.SaleStatusPaid
			sale.PaidAt = &now
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		if in.Paid {
			if err := uc.inventory.RegisterOUTInTx(ctx, repos, sale.StoreID, actor.UserID, sale.ID, sale.Lines, now); err != nil {
				return err
			}
		}
		out = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sale_id", out.ID).Str("status", out.Status).Str("total", out.TotalAmount.String()).Msg("venta registrada")
	return out, nil
}

// PaySale cobra una venta en draft: pasa a paid (inmutable) y descuenta el stock.
func (uc *UseCase) PaySale(ctx context.Context, actor entity.Actor, saleID, paymentMethod string) (*entity.Sale, error) {
	return uc.update(ctx, actor, saleID, func(ctx context.Context, repos ports.TxRepos, sale *entity.Sale) error {
		if paymentMethod != "" {
			sale.PaymentMethod = paymentMethod
		}
		if !entity.ValidPaymentMethods[sale.PaymentMethod] {
			return domain.ErrInvalidInput
		}
		now := uc.clock.Now()
		sale.Status = entity.SaleStatusPaid
		sale.PaidAt = &now
		sale.UpdatedAt = now
		return uc.inventory.RegisterOUTInTx(ctx, repos, sale.StoreID, actor.UserID, sale.ID, sale.Lines, now)
	})
}

// CancelSale anula una venta en draft. Una venta pagada no se puede cancelar aquí.
func (uc *UseCase) CancelSale(ctx context.Context, actor entity.Actor, saleID string) (*entity.Sale, error) {
	return uc.update(ctx, actor, saleID, func(_ context.Context, _ ports.TxRepos, sale *entity.Sale) error {
		sale.Status = entity.SaleStatusCanceled
		sale.UpdatedAt = uc.clock.Now()
		return nil
	})
}

func (uc *UseCase) update(
	ctx context.Context,
	actor entity.Actor,
	saleID string,
	apply func(ctx context.Context, repos ports.TxRepos, sale *entity.Sale) error,
) (*entity.Sale, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	var out *entity.Sale
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		sale, err := repos.Sales.GetByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.StoreID != actor.StoreID {
			return domain.ErrForbidden
		}
		if !sale.IsEditable() {
			return &domain.StatusConflictError{Current: sale.Status, Expected: []string{entity.SaleStatusDraft}}
		}
		if err := apply(ctx, repos, sale); err != nil {
			return err
		}
		if err := repos.Sales.Update(ctx, sale); err != nil {
			return err
		}
		out = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get devuelve una venta de la tienda del actor.
func (uc *UseCase) Get(ctx context.Context, actor entity.Actor, saleID string) (*entity.Sale, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.StoreID != actor.StoreID {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

// ListByStore lista las ventas de la tienda del actor.
func (uc *UseCase) ListByStore(ctx context.Context, actor entity.Actor, limit, offset int) ([]*entity.Sale, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 {
		limit = 20
	}
	return uc.sales.ListByStore(ctx, actor.StoreID, limit, offset)
}

// Receipt genera el comprobante PDF de una venta pagada.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la venta no existe.
//   - domain.ErrForbidden        si la venta no pertenece a la tienda del actor.
//   - StatusConflictError        si la venta no está pagada.
func (uc *UseCase) Receipt(ctx context.Context, actor entity.Actor, saleID string) ([]byte, string, error) {
	sale, err := uc.Get(ctx, actor, saleID)
	if err != nil {
		return nil, "", err
	}
	if sale.Status != entity.SaleStatusPaid {
		return nil, "", &domain.StatusConflictError{Current: sale.Status, Expected: []string{entity.SaleStatusPaid}}
	}
	pdf, err := uc.receipts.Generate(sale)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generar PDF: %w", err)
	}
	return pdf, fmt.Sprintf("recibo-%s.pdf", sale.ID), nil
}

func (uc *UseCase) resolveCustomer(ctx context.Context, repos ports.TxRepos, in *entity.CustomerSnapshot) (*entity.CustomerSnapshot, error) {
	if in == nil {
		return nil, nil
	}
	if in.Name != "" {
		cp := *in
		return &cp, nil
	}
	if in.CustomerID == "" {
		return nil, domain.ErrInvalidInput
	}
	c, err := repos.Customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &entity.CustomerSnapshot{CustomerID: in.CustomerID, Name: entity.WalkInCustomerName}, nil
	}
	return c.Snapshot(), nil
}
