package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/catamarca-exporta/padron-api/internal/application/dto"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
	"github.com/catamarca-exporta/padron-api/pkg/jwt"
)

// Locals keys para los datos del token en Fiber.
const (
	LocalUserID      = "user_id"
	LocalRol         = "rol"
	LocalDebeCambiar = "debe_cambiar_password"
)

// AuthMiddleware valida el Bearer Token JWT y deja UserID, Rol y el flag de
// cambio de contraseña en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRol, claims.Rol)
		c.Locals(LocalDebeCambiar, claims.DebeCambiarPassword)
		return c.Next()
	}
}

// ExigirPasswordActualizada corta las operaciones protegidas mientras la
// cuenta siga con credenciales iniciales. La ruta de cambio de contraseña
// no lleva este middleware: es la única salida del estado.
func ExigirPasswordActualizada() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if debe, _ := c.Locals(LocalDebeCambiar).(bool); debe {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "MUST_CHANGE_PASSWORD",
				Message: "debe cambiar la contraseña inicial antes de operar",
			})
		}
		return c.Next()
	}
}

// RequierePermiso resuelve el rol del token y exige el flag de permiso que
// selecciona fn. Un rol inactivo o inexistente se trata como acceso denegado.
func RequierePermiso(rolRepo repository.RolRepository, fn func(entity.PermisosRol) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		nombre := GetRol(c)
		rol, err := rolRepo.GetByNombre(c.Context(), nombre)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
		}
		if rol == nil || !rol.Activo || !fn(rol.Permisos) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol no tiene el permiso requerido"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRol devuelve el nombre del rol del contexto.
func GetRol(c *fiber.Ctx) string {
	v := c.Locals(LocalRol)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
