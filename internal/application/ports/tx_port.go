package ports

import (
	"context"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products  repository.ProductRepository
	Orders    repository.OrderRepository
	Sales     repository.SaleRepository
	Movements repository.StockMovementRepository
	Customers repository.CustomerRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ninguna escritura queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}
