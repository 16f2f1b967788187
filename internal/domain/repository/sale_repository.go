package repository

import (
	"context"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas de punto de venta.
// Create devuelve domain.ErrDuplicate si ya existe una venta para el mismo pedido.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	Update(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	GetByOrderID(ctx context.Context, orderID string) (*entity.Sale, error)
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Sale, error)
}
