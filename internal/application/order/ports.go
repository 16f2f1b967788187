package order

import (
	"context"
	"time"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/ports"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
)

// InventoryUseCase integra la aceptación con el libro de stock.
// RegisterOUTInTx ejecuta las salidas usando los repositorios del caller (misma transacción).
// Si retorna error (ej: ErrInsufficientStock), el caller debe hacer rollback.
type InventoryUseCase interface {
	RegisterOUTInTx(
		ctx context.Context,
		repos ports.TxRepos,
		storeID, userID, reference string,
		lines []entity.OrderLine,
		now time.Time,
	) error
}
