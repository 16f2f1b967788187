package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/dto"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

// writeError traduce errores de dominio a HTTP. Los errores no clasificados se registran y
// se devuelven como 500 sin detalle.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, body := mapError(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	}
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		available := stockErr.Available
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error(), Available: &available}
	}
	var boundsErr *domain.QuantityOutOfBoundsError
	if errors.As(err, &boundsErr) {
		resp := dto.ErrorResponse{Code: "QUANTITY_OUT_OF_BOUNDS", Message: err.Error()}
		minQty := boundsErr.Min
		resp.Min = &minQty
		if boundsErr.Max > 0 {
			maxQty := boundsErr.Max
			resp.Max = &maxQty
		}
		return fiber.StatusBadRequest, resp
	}
	var statusErr *domain.StatusConflictError
	if errors.As(err, &statusErr) {
		return fiber.StatusConflict, dto.ErrorResponse{
			Code: "INVALID_STATUS", Message: err.Error(),
			CurrentStatus: statusErr.Current, Expected: statusErr.Expected,
		}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	case errors.Is(err, domain.ErrQuantityOutOfBounds):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "QUANTITY_OUT_OF_BOUNDS", Message: err.Error()}
	case errors.Is(err, domain.ErrEmptyCart):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "EMPTY_CART", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()}
	case errors.Is(err, domain.ErrCrossStore):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CROSS_STORE", Message: err.Error()}
	case errors.Is(err, domain.ErrCartExpired):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CART_EXPIRED", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidStatus):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_STATUS", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrTransactionFailed):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "RETRY", Message: err.Error()}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// pageFromQuery lee limit/offset con los valores por defecto de dto.PageRequest.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}
