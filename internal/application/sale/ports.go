package sale

import (
	"context"
	"time"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/ports"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
)

// InventoryUseCase salida de stock por venta dentro de la transacción del caller.
type InventoryUseCase interface {
	RegisterOUTInTx(
		ctx context.Context,
		repos ports.TxRepos,
		storeID, userID, reference string,
		lines []entity.OrderLine,
		now time.Time,
	) error
}

// ItemInput línea solicitada de una venta directa.
type ItemInput struct {
	ProductID string
	Quantity  int
}

// CreateSaleInput entrada de una venta de mostrador.
// Customer nil = cliente de paso. Si solo trae CustomerID se completa desde el perfil.
type CreateSaleInput struct {
	Customer      *entity.CustomerSnapshot
	Items         []ItemInput
	PaymentMethod string
	Paid          bool
}
