package inventory

import (
	"context"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/dto"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInputDTO).
// Los movimientos registrados a mano siempre tienen source=manual.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, storeID, userID string, in dto.RegisterMovementRequest) (*entity.StockMovement, error) {
	return uc.RegisterMovement(ctx, MovementInputDTO{
		StoreID:   storeID,
		UserID:    userID,
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Source:    entity.MovementSourceManual,
		Note:      in.Note,
		UnitCost:  in.UnitCost,
	})
}

// ReconcileFromRequest adapta el body de recuento al caso de uso Reconcile.
func (uc *RegisterMovementUseCase) ReconcileFromRequest(ctx context.Context, storeID, userID string, in dto.ReconcileRequest) ([]*entity.StockMovement, error) {
	counts := make([]CountLine, 0, len(in.Counts))
	for _, c := range in.Counts {
		counts = append(counts, CountLine{ProductID: c.ProductID, Counted: c.Counted})
	}
	return uc.Reconcile(ctx, ReconcileInput{StoreID: storeID, UserID: userID, Note: in.Note, Counts: counts})
}
