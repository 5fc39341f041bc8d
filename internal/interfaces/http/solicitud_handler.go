package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/catamarca-exporta/padron-api/internal/application/dto"
	"github.com/catamarca-exporta/padron-api/internal/application/registro"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
)

// SolicitudHandler maneja las peticiones HTTP del workflow de registro.
type SolicitudHandler struct {
	uc *registro.UseCase
}

// NewSolicitudHandler construye el handler inyectando el caso de uso.
func NewSolicitudHandler(uc *registro.UseCase) *SolicitudHandler {
	return &SolicitudHandler{uc: uc}
}

func solicitudAVista(s *entity.SolicitudRegistro) dto.SolicitudResponse {
	return dto.SolicitudResponse{
		ID:               s.ID,
		FechaCreacion:    s.FechaCreacion,
		Estado:           s.Estado,
		RazonSocial:      s.RazonSocial,
		CuitCuil:         s.CuitCuil,
		EmailContacto:    s.EmailContacto,
		NombreContacto:   s.NombreContacto,
		ApellidoContacto: s.ApellidoContacto,
		RubroID:          s.RubroID,
		TipoEmpresaValor: s.TipoEmpresaValor,
		MotivoRechazo:    s.MotivoRechazo,
		UsuarioCreado:    s.UsuarioCreado,
		EmpresaCreada:    s.EmpresaCreada,
		FechaResolucion:  s.FechaResolucion,
	}
}

// Submit godoc
// @Summary      Alta pública de solicitud de registro
// @Tags         solicitudes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearSolicitudRequest  true  "Datos de la solicitud"
// @Success      201   {object}  dto.SolicitudResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/solicitudes [post]
func (h *SolicitudHandler) Submit(c *fiber.Ctx) error {
	var in dto.CrearSolicitudRequest
	if err := c.BodyParser(&in); err != nil {
		return cuerpoInvalido(c)
	}
	s, err := h.uc.Submit(c.Context(), in, actorDesde(c))
	if err != nil {
		return respuestaError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(solicitudAVista(s))
}

// List godoc
// @Summary      Listar solicitudes de registro
// @Tags         solicitudes
// @Produce      json
// @Param        estado  query  string  false  "pending | approved | rejected"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.SolicitudResponse
// @Security     BearerAuth
// @Router       /api/solicitudes [get]
func (h *SolicitudHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	solicitudes, err := h.uc.ListSolicitudes(c.Context(), c.Query("estado"), limit, offset)
	if err != nil {
		return respuestaError(c, err)
	}
	items := make([]dto.SolicitudResponse, 0, len(solicitudes))
	for _, s := range solicitudes {
		items = append(items, solicitudAVista(s))
	}
	return c.JSON(items)
}

// GetByID godoc
// @Summary      Obtener solicitud por ID
// @Tags         solicitudes
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.SolicitudResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/solicitudes/{id} [get]
func (h *SolicitudHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.uc.GetSolicitud(c.Context(), c.Params("id"))
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(solicitudAVista(s))
}

// Aprobar godoc
// @Summary      Aprobar solicitud pendiente
// @Description  Crea la cuenta y la empresa, transiciona a approved y envía las credenciales iniciales.
// @Tags         solicitudes
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.AprobarSolicitudResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/solicitudes/{id}/aprobar [post]
func (h *SolicitudHandler) Aprobar(c *fiber.Ctx) error {
	res, err := h.uc.Aprobar(c.Context(), c.Params("id"), actorDesde(c))
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(dto.AprobarSolicitudResponse{
		Solicitud: solicitudAVista(res.Solicitud),
		EmpresaID: res.Empresa.ID,
		UsuarioID: res.Usuario.ID,
	})
}

// Rechazar godoc
// @Summary      Rechazar solicitud pendiente
// @Tags         solicitudes
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la solicitud"
// @Param        body  body  dto.RechazarSolicitudRequest  true  "Motivo del rechazo"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/solicitudes/{id}/rechazar [post]
func (h *SolicitudHandler) Rechazar(c *fiber.Ctx) error {
	var in dto.RechazarSolicitudRequest
	if err := c.BodyParser(&in); err != nil {
		return cuerpoInvalido(c)
	}
	if err := h.uc.Rechazar(c.Context(), c.Params("id"), in.Motivo, actorDesde(c)); err != nil {
		return respuestaError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Eliminar godoc
// @Summary      Eliminar solicitud no aprobada
// @Description  Baja definitiva; si la solicitud estaba pendiente se avisa al contacto.
// @Tags         solicitudes
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/solicitudes/{id} [delete]
func (h *SolicitudHandler) Eliminar(c *fiber.Ctx) error {
	if err := h.uc.Eliminar(c.Context(), c.Params("id"), actorDesde(c)); err != nil {
		return respuestaError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReenviarCredenciales godoc
// @Summary      Reenviar credenciales a una empresa
// @Description  Sujeto a la ventana de espera; con resetear_password vuelve a derivar la contraseña inicial.
// @Tags         empresas
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true   "ID de la empresa"
// @Param        body  body  dto.ReenviarCredencialesRequest  false  "Opciones"
// @Success      204
// @Failure      429  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/empresas/{id}/reenviar-credenciales [post]
func (h *SolicitudHandler) ReenviarCredenciales(c *fiber.Ctx) error {
	var in dto.ReenviarCredencialesRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return cuerpoInvalido(c)
		}
	}
	if err := h.uc.ReenviarCredenciales(c.Context(), c.Params("id"), in.ResetearPassword, actorDesde(c)); err != nil {
		return respuestaError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
