package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/catamarca-exporta/padron-api/internal/application/dto"
	"github.com/catamarca-exporta/padron-api/internal/application/taxonomia"
)

// TaxonomiaHandler expone las operaciones de integridad del catálogo.
type TaxonomiaHandler struct {
	uc *taxonomia.UseCase
}

// NewTaxonomiaHandler construye el handler inyectando el caso de uso.
func NewTaxonomiaHandler(uc *taxonomia.UseCase) *TaxonomiaHandler {
	return &TaxonomiaHandler{uc: uc}
}

// AsegurarOtro godoc
// @Summary      Asegurar el rubro residual "Otro" de un tipo
// @Tags         taxonomia
// @Produce      json
// @Param        tipo  query  string  true  "producto | servicio | mixto"
// @Success      200  {object}  dto.RubroResponse
// @Security     BearerAuth
// @Router       /api/taxonomia/asegurar-otro [post]
func (h *TaxonomiaHandler) AsegurarOtro(c *fiber.Ctx) error {
	rubro, err := h.uc.AsegurarOtroRubro(c.Context(), c.Query("tipo"), actorDesde(c))
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(dto.RubroResponse{
		ID:                   rubro.ID,
		Nombre:               rubro.Nombre,
		Tipo:                 rubro.Tipo,
		Orden:                rubro.Orden,
		UnidadMedidaEstandar: rubro.UnidadMedidaEstandar,
		Activo:               rubro.Activo,
		CreatedAt:            rubro.CreatedAt,
	})
}

// CorregirTipos godoc
// @Summary      Corregir los tipos de los rubros según asignaciones canónicas
// @Tags         taxonomia
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CorregirTiposRequest  true  "Asignaciones id de rubro → tipo"
// @Success      200  {object}  dto.ResultadoTaxonomia
// @Security     BearerAuth
// @Router       /api/taxonomia/corregir-tipos [post]
func (h *TaxonomiaHandler) CorregirTipos(c *fiber.Ctx) error {
	var in dto.CorregirTiposRequest
	if err := c.BodyParser(&in); err != nil {
		return cuerpoInvalido(c)
	}
	out, err := h.uc.CorregirTipos(c.Context(), in.Asignaciones, actorDesde(c))
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(out)
}

// LimpiarRubros godoc
// @Summary      Desactivar rubros fuera de las listas canónicas
// @Tags         taxonomia
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LimpiarRubrosRequest  true  "Listas canónicas por tipo"
// @Success      200  {object}  dto.ResultadoTaxonomia
// @Security     BearerAuth
// @Router       /api/taxonomia/limpiar-rubros [post]
func (h *TaxonomiaHandler) LimpiarRubros(c *fiber.Ctx) error {
	var in dto.LimpiarRubrosRequest
	if err := c.BodyParser(&in); err != nil {
		return cuerpoInvalido(c)
	}
	out, err := h.uc.LimpiarRubrosIncorrectos(c.Context(), in, actorDesde(c))
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(out)
}

// MigrarRubro godoc
// @Summary      Migrar las empresas de un rubro obsoleto a su reemplazo
// @Tags         taxonomia
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MigrarRubroRequest  true  "Rubro viejo y destino"
// @Success      200  {object}  dto.ResultadoTaxonomia
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/taxonomia/migrar-rubro [post]
func (h *TaxonomiaHandler) MigrarRubro(c *fiber.Ctx) error {
	var in dto.MigrarRubroRequest
	if err := c.BodyParser(&in); err != nil {
		return cuerpoInvalido(c)
	}
	out, err := h.uc.MigrarRubro(c.Context(), in.RubroViejoID, in.NuevoNombre, in.NuevoTipo, actorDesde(c))
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(out)
}

// EliminarInactivos godoc
// @Summary      Eliminar rubros inactivos sin empresas asociadas
// @Tags         taxonomia
// @Produce      json
// @Success      200  {object}  dto.ResultadoTaxonomia
// @Security     BearerAuth
// @Router       /api/taxonomia/eliminar-inactivos [post]
func (h *TaxonomiaHandler) EliminarInactivos(c *fiber.Ctx) error {
	out, err := h.uc.EliminarRubrosInactivos(c.Context(), actorDesde(c))
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(out)
}
