package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/catamarca-exporta/padron-api/internal/application/auth"
	"github.com/catamarca-exporta/padron-api/internal/application/dto"
)

// AuthHandler maneja autenticación y recuperación de contraseñas.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler construye el handler inyectando el caso de uso.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credenciales"
// @Success      200  {object}  dto.LoginResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      423  {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return cuerpoInvalido(c)
	}
	out, err := h.uc.Login(c.Context(), in, actorDesde(c))
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(out)
}

// CambiarPassword godoc
// @Summary      Cambiar la contraseña de la cuenta autenticada
// @Tags         auth
// @Accept       json
// @Param        body  body  dto.CambiarPasswordRequest  true  "Contraseña actual y nueva"
// @Success      204
// @Failure      401  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/auth/cambiar-password [post]
func (h *AuthHandler) CambiarPassword(c *fiber.Ctx) error {
	var in dto.CambiarPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return cuerpoInvalido(c)
	}
	if err := h.uc.CambiarPassword(c.Context(), GetUserID(c), in); err != nil {
		return respuestaError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecuperarPassword godoc
// @Summary      Pedir un token de recuperación de contraseña
// @Description  Responde 204 aunque el email no exista: no revela cuentas registradas.
// @Tags         auth
// @Accept       json
// @Param        body  body  dto.RecuperarPasswordRequest  true  "Email de la cuenta"
// @Success      204
// @Router       /api/auth/recuperar [post]
func (h *AuthHandler) RecuperarPassword(c *fiber.Ctx) error {
	var in dto.RecuperarPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return cuerpoInvalido(c)
	}
	if _, err := h.uc.EmitirTokenRecuperacion(c.Context(), in.Email); err != nil {
		return respuestaError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RestablecerPassword godoc
// @Summary      Restablecer la contraseña con un token de recuperación
// @Tags         auth
// @Accept       json
// @Param        body  body  dto.RestablecerPasswordRequest  true  "Token y nueva contraseña"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/auth/restablecer [post]
func (h *AuthHandler) RestablecerPassword(c *fiber.Ctx) error {
	var in dto.RestablecerPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return cuerpoInvalido(c)
	}
	if err := h.uc.ConsumirTokenRecuperacion(c.Context(), in); err != nil {
		return respuestaError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
