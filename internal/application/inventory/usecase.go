package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/ports"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/reservation"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/inventory"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/repository"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

// RegisterMovementUseCase registra movimientos del libro de stock de forma transaccional
// (IN, OUT) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// Es el único camino que modifica Product.Stock.
type RegisterMovementUseCase struct {
	txRunner    ports.TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	clock       ports.Clock
	log         *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner ports.TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	clock ports.Clock,
	log *logger.Logger,
) *RegisterMovementUseCase {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		clock:       clock,
		log:         log.Component("ledger"),
	}
}

func (in MovementInputDTO) validate() error {
	if in.StoreID == "" || in.ProductID == "" || in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if in.Type != entity.MovementTypeIN && in.Type != entity.MovementTypeOUT {
		return domain.ErrInvalidInput
	}
	if !entity.ValidMovementSources[in.Source] {
		return domain.ErrInvalidInput
	}
	if in.UnitCost != nil && (in.Type != entity.MovementTypeIN || in.UnitCost.IsNegative()) {
		return domain.ErrInvalidInput
	}
	return nil
}

// RegisterMovement inicia una transacción, bloquea el producto, aplica el movimiento y hace Commit o Rollback.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*entity.StockMovement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		var err error
		mov, err = uc.RegisterMovementInTx(ctx, repos, input, uc.clock.Now())
		return err
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("product_id", input.ProductID).Str("type", input.Type).Int("quantity", input.Quantity).Msg("movimiento rechazado")
		return nil, err
	}
	return mov, nil
}

// RegisterMovementInTx aplica el movimiento con los repositorios de la transacción del caller.
// Rechaza la salida que dejaría el stock físico por debajo de lo reservado.
func (uc *RegisterMovementUseCase) RegisterMovementInTx(ctx context.Context, repos ports.TxRepos, input MovementInputDTO, now time.Time) (*entity.StockMovement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	// Bloquea la fila del producto para evitar condiciones de carrera con reservas y otros movimientos
	product, err := repos.Products.GetForUpdate(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.StoreID != input.StoreID {
		return nil, domain.ErrForbidden
	}
	prevCost := product.Cost

	before, after, err := inventory.ApplyMovement(product, input.Type, input.Quantity)
	if err != nil {
		return nil, err
	}
	if input.Type == entity.MovementTypeIN && input.UnitCost != nil {
		newCost := inventory.CostCalculator(before, prevCost, input.Quantity, *input.UnitCost)
		if err := repos.Products.UpdateCost(ctx, product.ID, newCost); err != nil {
			return nil, err
		}
	}
	if err := repos.Products.UpdateStock(ctx, product.ID, after); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		StoreID:     input.StoreID,
		ProductID:   input.ProductID,
		Type:        input.Type,
		Quantity:    input.Quantity,
		StockBefore: before,
		StockAfter:  after,
		Source:      input.Source,
		Reference:   input.Reference,
		UnitCost:    input.UnitCost,
		Note:        input.Note,
		ActorID:     input.UserID,
		CreatedAt:   now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// RegisterOUTInTx registra una salida por venta (source=sale) por cada línea, en la transacción del caller.
// reference suele ser el ID de la venta. Si retorna error, el caller debe hacer rollback.
func (uc *RegisterMovementUseCase) RegisterOUTInTx(
	ctx context.Context,
	repos ports.TxRepos,
	storeID, userID, reference string,
	lines []entity.OrderLine,
	now time.Time,
) error {
	for _, l := range reservation.SortedLines(lines) {
		_, err := uc.RegisterMovementInTx(ctx, repos, MovementInputDTO{
			StoreID:   storeID,
			UserID:    userID,
			ProductID: l.ProductID,
			Type:      entity.MovementTypeOUT,
			Quantity:  l.Quantity,
			Source:    entity.MovementSourceSale,
			Reference: reference,
		}, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListMovements lista los movimientos de un producto de la tienda, del más reciente al más antiguo.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, storeID, productID string, f MovementFilter) ([]*entity.StockMovement, error) {
	if _, err := uc.storeProduct(ctx, storeID, productID); err != nil {
		return nil, err
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	return uc.movRepo.ListByProduct(ctx, productID, f.From, f.To, f.Limit, f.Offset)
}

// StockSnapshot devuelve los contadores actuales del producto.
func (uc *RegisterMovementUseCase) StockSnapshot(ctx context.Context, storeID, productID string) (*entity.Product, error) {
	return uc.storeProduct(ctx, storeID, productID)
}

// ListStock devuelve los contadores de los productos de la tienda.
func (uc *RegisterMovementUseCase) ListStock(ctx context.Context, storeID string, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	return uc.productRepo.ListByStore(ctx, storeID, limit, offset)
}

func (uc *RegisterMovementUseCase) storeProduct(ctx context.Context, storeID, productID string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}
