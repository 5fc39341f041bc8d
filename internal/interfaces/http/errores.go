package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/catamarca-exporta/padron-api/internal/application/dto"
	"github.com/catamarca-exporta/padron-api/internal/domain"
)

// respuestaError traduce un error de dominio a estado HTTP + código uniforme.
// Todo lo no mapeado es un 500 sin detalle interno.
func respuestaError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNoEncontrado):
		return responder(c, fiber.StatusNotFound, "NOT_FOUND", err)
	case errors.Is(err, domain.ErrEntradaInvalida):
		return responder(c, fiber.StatusBadRequest, "VALIDATION", err)
	case errors.Is(err, domain.ErrInvarianteViolada):
		return responder(c, fiber.StatusUnprocessableEntity, "INVARIANT", err)
	case errors.Is(err, domain.ErrTransicionInvalida):
		return responder(c, fiber.StatusConflict, "ILLEGAL_TRANSITION", err)
	case errors.Is(err, domain.ErrEnUso):
		return responder(c, fiber.StatusConflict, "IN_USE", err)
	case errors.Is(err, domain.ErrMuyPronto):
		return responder(c, fiber.StatusTooManyRequests, "TOO_SOON", err)
	case errors.Is(err, domain.ErrTokenExpirado), errors.Is(err, domain.ErrTokenInvalido):
		return responder(c, fiber.StatusBadRequest, "INVALID_TOKEN", err)
	case errors.Is(err, domain.ErrConflicto), errors.Is(err, domain.ErrDuplicado):
		return responder(c, fiber.StatusConflict, "CONFLICT", err)
	case errors.Is(err, domain.ErrEmailYaRegistrado):
		return responder(c, fiber.StatusConflict, "EMAIL_TAKEN", err)
	case errors.Is(err, domain.ErrNoSoportado):
		return responder(c, fiber.StatusUnprocessableEntity, "NOT_SUPPORTED", err)
	case errors.Is(err, domain.ErrNoAutorizado):
		return responder(c, fiber.StatusUnauthorized, "UNAUTHORIZED", err)
	case errors.Is(err, domain.ErrAccesoDenegado), errors.Is(err, domain.ErrDebeCambiarPassword):
		return responder(c, fiber.StatusForbidden, "FORBIDDEN", err)
	case errors.Is(err, domain.ErrUsuarioBloqueado):
		return responder(c, fiber.StatusLocked, "LOCKED", err)
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: "error interno",
		})
	}
}

func responder(c *fiber.Ctx, status int, code string, err error) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// cuerpoInvalido respuesta estándar cuando el JSON no parsea.
func cuerpoInvalido(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code: "INVALID_BODY", Message: "cuerpo inválido",
	})
}
