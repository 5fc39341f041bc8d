package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/catamarca-exporta/padron-api/internal/application/auditoria"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
)

// AuditoriaHandler expone la lectura del registro de auditoría.
type AuditoriaHandler struct {
	uc *auditoria.UseCase
}

// NewAuditoriaHandler construye el handler inyectando el caso de uso.
func NewAuditoriaHandler(uc *auditoria.UseCase) *AuditoriaHandler {
	return &AuditoriaHandler{uc: uc}
}

// List godoc
// @Summary      Listar entradas de auditoría
// @Tags         auditoria
// @Produce      json
// @Param        accion   query  string  false  "CREATE | UPDATE | DELETE | APPROVE | REJECT | RESEND | LOGIN"
// @Param        modelo   query  string  false  "Modelo afectado"
// @Param        usuario  query  string  false  "ID del usuario actor"
// @Param        limit    query  int     false  "Límite"  default(100)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.AuditoriaListResponse
// @Security     BearerAuth
// @Router       /api/auditoria [get]
func (h *AuditoriaHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.List(c.Context(), repository.FiltroAuditoria{
		Accion:    c.Query("accion"),
		Modelo:    c.Query("modelo"),
		UsuarioID: c.Query("usuario"),
	}, limit, offset)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(out)
}
