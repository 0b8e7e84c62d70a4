package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/service-stock-api/internal/application/dto"
	"github.com/jhoicas/service-stock-api/internal/domain"
)

// errorStatus traduce un error de dominio a (status HTTP, código, mensaje).
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fiber.StatusBadRequest, "INVALID_QUANTITY", "la cantidad debe ser un entero positivo"
	case errors.Is(err, domain.ErrDuplicateLine):
		return fiber.StatusBadRequest, "VALIDATION", "SKU repetido en el lote"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", "operación no permitida para este usuario"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuficiente"
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return fiber.StatusConflict, "INVALID_STATE_TRANSITION", "transición de estado inválida"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT", "conflicto de concurrencia, reintente"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE", "ya existe un registro con ese nombre"
	case errors.Is(err, domain.ErrHasDependents):
		return fiber.StatusConflict, "HAS_DEPENDENTS", "el registro tiene dependientes"
	}
	return fiber.StatusInternalServerError, "INTERNAL", "error interno"
}

// respondError escribe el ErrorResponse correspondiente a err.
// Un StockError agrega en Details el SKU, lo disponible y lo pedido.
func respondError(c *fiber.Ctx, err error) error {
	status, code, msg := errorStatus(err)
	body := dto.ErrorResponse{Code: code, Message: msg}

	var se *domain.StockError
	if errors.As(err, &se) {
		body.Message = se.Error()
		body.Details = dto.InsufficientStockDetails{
			SKUCodeID: se.SKUCodeID,
			HolderID:  se.HolderID,
			Bucket:    se.Bucket,
			Available: se.Available,
			Requested: se.Requested,
		}
	}
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("error no mapeado")
	}
	return c.Status(status).JSON(body)
}

// notFound 404 con mensaje propio del recurso.
func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: msg})
}

// ErrorHandler handler global de fiber: errores de fiber conservan su status, el resto se mapea.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return respondError(c, err)
}
