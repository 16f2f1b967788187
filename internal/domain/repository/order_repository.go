package repository

import (
	"context"
	"time"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para carritos y pedidos.
// Create devuelve domain.ErrDuplicate si el cliente ya tiene un draft abierto.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// GetDraftByCustomerForUpdate devuelve el draft del cliente (expirado o no) bloqueado.
	GetDraftByCustomerForUpdate(ctx context.Context, customerID string) (*entity.Order, error)
	// ListExpiredDrafts devuelve drafts con expires_at <= now, los más antiguos primero.
	ListExpiredDrafts(ctx context.Context, now time.Time, limit int) ([]*entity.Order, error)
	ListByStore(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.Order, error)
}
