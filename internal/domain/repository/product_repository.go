package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// El catálogo lo administra otro servicio: aquí solo se leen productos y se actualizan sus contadores.
// Los métodos que no encuentran la fila devuelven (nil, nil).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Product, error)
	UpdateStock(ctx context.Context, productID string, stock int) error
	UpdateStockEngaged(ctx context.Context, productID string, engaged int) error
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
}
