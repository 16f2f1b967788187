package inventory

import (
	"context"
	"sort"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/ports"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/inventory"
)

// Reconcile aplica un recuento físico: por cada producto cuyo conteo difiere del stock registrado
// se genera un movimiento IN u OUT con source=inventory. Todo o nada: si un producto falla
// (por ejemplo, el conteo queda por debajo de lo reservado) no se registra ningún movimiento.
func (uc *RegisterMovementUseCase) Reconcile(ctx context.Context, input ReconcileInput) ([]*entity.StockMovement, error) {
	if input.StoreID == "" || len(input.Counts) == 0 {
		return nil, domain.ErrInvalidInput
	}
	counts := make([]CountLine, len(input.Counts))
	copy(counts, input.Counts)
	sort.Slice(counts, func(i, j int) bool { return counts[i].ProductID < counts[j].ProductID })
	for i, c := range counts {
		if c.ProductID == "" || c.Counted < 0 {
			return nil, domain.ErrInvalidInput
		}
		if i > 0 && counts[i-1].ProductID == c.ProductID {
			return nil, domain.ErrInvalidInput
		}
	}

	var movements []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		movements = movements[:0]
		now := uc.clock.Now()
		for _, c := range counts {
			product, err := repos.Products.GetForUpdate(ctx, c.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			typ, qty, ok := inventory.Discrepancy(product.Stock, c.Counted)
			if !ok {
				continue
			}
			mov, err := uc.RegisterMovementInTx(ctx, repos, MovementInputDTO{
				StoreID:   input.StoreID,
				UserID:    input.UserID,
				ProductID: c.ProductID,
				Type:      typ,
				Quantity:  qty,
				Source:    entity.MovementSourceInventory,
				Note:      input.Note,
			}, now)
			if err != nil {
				return err
			}
			movements = append(movements, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("store_id", input.StoreID).Int("counted", len(counts)).Int("movements", len(movements)).Msg("recuento aplicado")
	return movements, nil
}
