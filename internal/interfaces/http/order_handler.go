package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/dto"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/order"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

// OrderHandler consultas y transiciones de pedidos.
type OrderHandler struct {
	uc  *order.UseCase
	log *logger.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.UseCase, log *logger.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, log: log.Component("http")}
}

// List godoc
// @Summary      Pedidos de la tienda
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "paid|accepted|delivering|success|canceled|expired"
// @Param        limit   query     int     false  "máximo 100"
// @Param        offset  query     int     false  "desplazamiento"
// @Success      200     {object}  dto.OrderListResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	list, err := h.uc.ListByStore(c.UserContext(), GetActor(c), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromOrders(list, page.Limit, page.Offset))
}

// GetByID godoc
// @Summary      Detalle de un pedido
// @Description  Visible para el personal de la tienda o para el cliente dueño.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.uc.Get(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromOrder(o))
}

// Accept godoc
// @Summary      Aceptar pedido pagado
// @Description  Genera la venta (origin=order), libera la reserva y descuenta el stock en una sola transacción.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.AcceptOrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/accept [post]
func (h *OrderHandler) Accept(c *fiber.Ctx) error {
	res, err := h.uc.Accept(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.AcceptOrderResponse{Order: dto.FromOrder(res.Order), Sale: dto.FromSale(res.Sale)})
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	return h.respond(c, h.uc.Cancel)
}

// StartDelivery godoc
// @Summary      Iniciar entrega a domicilio
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/deliver [post]
func (h *OrderHandler) StartDelivery(c *fiber.Ctx) error {
	return h.respond(c, h.uc.StartDelivery)
}

// Complete godoc
// @Summary      Completar pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/complete [post]
func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	return h.respond(c, h.uc.Complete)
}

type orderTransition func(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error)

func (h *OrderHandler) respond(c *fiber.Ctx, fn orderTransition) error {
	o, err := fn(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromOrder(o))
}
