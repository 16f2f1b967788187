package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/cart"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/dto"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

// CartHandler maneja el carrito del cliente autenticado.
type CartHandler struct {
	uc  *cart.UseCase
	log *logger.Logger
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.UseCase, log *logger.Logger) *CartHandler {
	return &CartHandler{uc: uc, log: log.Component("http")}
}

// Get godoc
// @Summary      Carrito abierto del cliente
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	o, err := h.uc.GetDraft(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromOrder(o))
}

// AddLine godoc
// @Summary      Agregar producto al carrito
// @Description  Reserva la cantidad pedida. Si la línea existe, suma la cantidad.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AddLineRequest  true  "product_id, quantity"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/lines [post]
func (h *CartHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	o, err := h.uc.AddLine(c.UserContext(), GetUserID(c), in.ProductID, in.Quantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromOrder(o))
}

// SetQuantity godoc
// @Summary      Fijar cantidad de una línea
// @Description  quantity = 0 elimina la línea.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path      string                  true  "ID del producto"
// @Param        body       body      dto.SetQuantityRequest  true  "quantity"
// @Success      200        {object}  dto.OrderResponse
// @Success      204
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Failure      409        {object}  dto.ErrorResponse
// @Router       /api/cart/lines/{productId} [put]
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	o, err := h.uc.SetLineQuantity(c.UserContext(), GetUserID(c), c.Params("productId"), in.Quantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if o == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(dto.FromOrder(o))
}

// RemoveLine godoc
// @Summary      Quitar producto del carrito
// @Description  Libera la reserva de la línea. Si era la última, el carrito se elimina (204).
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        productId  path      string  true  "ID del producto"
// @Success      200        {object}  dto.OrderResponse
// @Success      204
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/cart/lines/{productId} [delete]
func (h *CartHandler) RemoveLine(c *fiber.Ctx) error {
	o, err := h.uc.RemoveLine(c.UserContext(), GetUserID(c), c.Params("productId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if o == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(dto.FromOrder(o))
}

// Checkout godoc
// @Summary      Pagar el carrito
// @Description  El carrito pasa a paid con modo de entrega y medio de pago. La reserva se mantiene.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CheckoutRequest  true  "delivery_mode, delivery_address, payment_method"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/checkout [post]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	o, err := h.uc.Checkout(c.UserContext(), GetUserID(c), cart.CheckoutInput{
		DeliveryMode:    in.DeliveryMode,
		DeliveryAddress: in.DeliveryAddress.ToEntity(),
		PaymentMethod:   in.PaymentMethod,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromOrder(o))
}
