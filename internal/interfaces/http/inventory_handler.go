package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/dto"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/inventory"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP del libro de stock (personal de tienda).
type InventoryHandler struct {
	uc  *inventory.RegisterMovementUseCase
	log *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, log: log.Component("http")}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterMovementRequest  true  "product_id, type (IN|OUT), quantity, unit_cost (entradas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	m, err := h.uc.RegisterMovementFromRequest(c.UserContext(), GetStoreID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(m))
}

// Reconcile godoc
// @Summary      Conciliar inventario físico
// @Description  Cada diferencia entre conteo y stock genera un movimiento compensatorio. Todo o nada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ReconcileRequest  true  "counts"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/reconcile [post]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.ReconcileRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	list, err := h.uc.ReconcileFromRequest(c.UserContext(), GetStoreID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovements(list))
}

// ListStock godoc
// @Summary      Stock de los productos de la tienda
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query     int  false  "máximo 100"
// @Param        offset  query     int  false  "desplazamiento"
// @Success      200     {array}   dto.StockResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	list, err := h.uc.ListStock(c.UserContext(), GetStoreID(c), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromProductsStock(list))
}

// GetStock godoc
// @Summary      Stock de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path      string  true  "ID del producto"
// @Success      200        {object}  dto.StockResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{productId} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	p, err := h.uc.StockSnapshot(c.UserContext(), GetStoreID(c), c.Params("productId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromProductStock(p))
}

// ListMovements godoc
// @Summary      Movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path      string  true   "ID del producto"
// @Param        from       query     string  false  "RFC3339"
// @Param        to         query     string  false  "RFC3339"
// @Param        limit      query     int     false  "máximo 100"
// @Param        offset     query     int     false  "desplazamiento"
// @Success      200        {array}   dto.MovementResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{productId}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	f := inventory.MovementFilter{Limit: page.Limit, Offset: page.Offset}
	var err error
	if f.From, err = parseTimeQuery(c, "from"); err != nil {
		return badBody(c)
	}
	if f.To, err = parseTimeQuery(c, "to"); err != nil {
		return badBody(c)
	}
	list, err := h.uc.ListMovements(c.UserContext(), GetStoreID(c), c.Params("productId"), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromMovements(list))
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
