package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/catamarca-exporta/padron-api/internal/application/dto"
	"github.com/catamarca-exporta/padron-api/internal/application/usecase"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
)

// EmpresaHandler maneja las peticiones HTTP del padrón de empresas.
type EmpresaHandler struct {
	uc *usecase.EmpresaUseCase
}

// NewEmpresaHandler construye el handler inyectando el caso de uso.
func NewEmpresaHandler(uc *usecase.EmpresaUseCase) *EmpresaHandler {
	return &EmpresaHandler{uc: uc}
}

// filtroDesde arma el filtro de listado desde la query string.
func filtroDesde(c *fiber.Ctx) repository.FiltroEmpresas {
	return repository.FiltroEmpresas{
		Tipo:           c.Query("tipo"),
		RubroID:        c.Query("rubro"),
		DepartamentoID: c.Query("departamento"),
		SoloExportan:   c.QueryBool("exportan", false),
	}
}

// Crear godoc
// @Summary      Alta directa de empresa
// @Tags         empresas
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearEmpresaRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.EmpresaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/empresas [post]
func (h *EmpresaHandler) Crear(c *fiber.Ctx) error {
	var in dto.CrearEmpresaRequest
	if err := c.BodyParser(&in); err != nil {
		return cuerpoInvalido(c)
	}
	out, err := h.uc.Crear(c.Context(), in, actorDesde(c))
	if err != nil {
		return respuestaError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         empresas
// @Produce      json
// @Param        id  path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.EmpresaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/empresas/{id} [get]
func (h *EmpresaHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar empresas del padrón
// @Tags         empresas
// @Produce      json
// @Param        tipo          query  string  false  "producto | servicio | mixta"
// @Param        rubro         query  string  false  "ID de rubro"
// @Param        departamento  query  string  false  "ID de departamento"
// @Param        exportan      query  bool    false  "Solo las que exportan"
// @Param        limit         query  int     false  "Límite"  default(50)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.EmpresaListResponse
// @Security     BearerAuth
// @Router       /api/empresas [get]
func (h *EmpresaHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.List(c.Context(), filtroDesde(c), limit, offset)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(out)
}

// Actualizar godoc
// @Summary      Actualizar empresa
// @Description  Patch parcial; el discriminador tipo_empresa_valor no puede cambiar.
// @Tags         empresas
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la empresa"
// @Param        body  body  dto.ActualizarEmpresaRequest  true  "Campos a modificar"
// @Success      200  {object}  dto.EmpresaResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/empresas/{id} [put]
func (h *EmpresaHandler) Actualizar(c *fiber.Ctx) error {
	var in dto.ActualizarEmpresaRequest
	if err := c.BodyParser(&in); err != nil {
		return cuerpoInvalido(c)
	}
	out, err := h.uc.Actualizar(c.Context(), c.Params("id"), in, actorDesde(c))
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(out)
}

// Eliminar godoc
// @Summary      Eliminar empresa
// @Description  Borra la empresa y su cuenta propietaria en una sola transacción.
// @Tags         empresas
// @Param        id  path  string  true  "ID de la empresa"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/empresas/{id} [delete]
func (h *EmpresaHandler) Eliminar(c *fiber.Ctx) error {
	if err := h.uc.Eliminar(c.Context(), c.Params("id"), actorDesde(c)); err != nil {
		return respuestaError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ConteoPorTipo godoc
// @Summary      Conteo de empresas por tipo
// @Tags         empresas
// @Produce      json
// @Success      200  {object}  dto.ConteoPorTipoResponse
// @Router       /api/empresas/conteo [get]
func (h *EmpresaHandler) ConteoPorTipo(c *fiber.Ctx) error {
	out, err := h.uc.ConteoPorTipo(c.Context())
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(out)
}

// Estadisticas godoc
// @Summary      Estadísticas del padrón por departamento
// @Tags         empresas
// @Produce      json
// @Success      200  {object}  dto.EstadisticasResponse
// @Router       /api/empresas/estadisticas [get]
func (h *EmpresaHandler) Estadisticas(c *fiber.Ctx) error {
	out, err := h.uc.Estadisticas(c.Context())
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(out)
}
