package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/catamarca-exporta/padron-api/internal/application/padron"
)

// PadronHandler exporta el padrón en formatos de publicación.
type PadronHandler struct {
	uc *padron.UseCase
}

// NewPadronHandler construye el handler inyectando el exportador.
func NewPadronHandler(uc *padron.UseCase) *PadronHandler {
	return &PadronHandler{uc: uc}
}

// PDF godoc
// @Summary      Exportar el padrón en PDF
// @Tags         padron
// @Produce      application/pdf
// @Param        tipo          query  string  false  "producto | servicio | mixta"
// @Param        rubro         query  string  false  "ID de rubro"
// @Param        departamento  query  string  false  "ID de departamento"
// @Param        exportan      query  bool    false  "Solo las que exportan"
// @Success      200  {file}  binary
// @Router       /api/padron/pdf [get]
func (h *PadronHandler) PDF(c *fiber.Ctx) error {
	doc, err := h.uc.ExportarPDF(c.Context(), filtroDesde(c))
	if err != nil {
		return respuestaError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+nombreArchivo("pdf")+`"`)
	return c.Send(doc)
}

// CSV godoc
// @Summary      Exportar el padrón en CSV
// @Tags         padron
// @Produce      text/csv
// @Param        tipo          query  string  false  "producto | servicio | mixta"
// @Param        rubro         query  string  false  "ID de rubro"
// @Param        departamento  query  string  false  "ID de departamento"
// @Param        exportan      query  bool    false  "Solo las que exportan"
// @Success      200  {file}  binary
// @Router       /api/padron/csv [get]
func (h *PadronHandler) CSV(c *fiber.Ctx) error {
	datos, err := h.uc.ExportarCSV(c.Context(), filtroDesde(c))
	if err != nil {
		return respuestaError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+nombreArchivo("csv")+`"`)
	return c.Send(datos)
}

func nombreArchivo(ext string) string {
	return "padron-" + time.Now().Format("2006-01-02") + "." + ext
}
