// Package pdf implementa la generación del padrón de empresas en PDF.
//
// Layout de la página A4 apaisada:
//
//	┌──────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del padrón + fecha de emisión                │
//	│  ──────────────────────────────────────────────────────────  │
//	│  TABLA: Razón Social | CUIT | Tipo | Rubro/Subrubro |        │
//	│         Departamento | Contacto | Exporta                    │
//	│  ──────────────────────────────────────────────────────────  │
//	│  FOOTER: total de empresas + leyenda institucional           │
//	└──────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/catamarca-exporta/padron-api/internal/application/padron"
)

var (
	colorPrimario = &props.Color{Red: 122, Green: 44, Blue: 63} // bordó institucional
	colorGris     = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPadronGenerator implementa padron.GeneradorPDF usando Maroto v2.
type MarotoPadronGenerator struct{}

// NewMarotoPadronGenerator construye el generador.
func NewMarotoPadronGenerator() *MarotoPadronGenerator { return &MarotoPadronGenerator{} }

// GenerarPadron genera el PDF del padrón y devuelve sus bytes.
func (g *MarotoPadronGenerator) GenerarPadron(
	_ context.Context,
	titulo string,
	emitido time.Time,
	filas []padron.FilaPadron,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(titulo, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(titulo, emitido))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimario, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(filas) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGris, Thickness: 0.3}))
	m.AddRows(footerRow(len(filas)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título del padrón (izq) y fecha de emisión (der).
func headerRow(titulo string, emitido time.Time) core.Row {
	return row.New(14).Add(
		col.New(9).Add(
			text.New(titulo, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimario, Top: 1,
			}),
			text.New("Ministerio de Producción — Provincia de Catamarca", props.Text{
				Size: 8, Top: 9, Color: colorGris,
			}),
		),
		col.New(3).Add(
			text.New("Emitido: "+emitido.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGris,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla del padrón.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Align: a,
			Color: colorPrimario, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Razón Social", 3, align.Left),
		h("CUIT", 1, align.Center),
		h("Tipo", 1, align.Center),
		h("Rubro / Subrubro", 3, align.Left),
		h("Departamento", 2, align.Left),
		h("Contacto", 1, align.Left),
		h("Exporta", 1, align.Center),
	)
}

// tableRows: una fila por empresa del padrón.
func tableRows(filas []padron.FilaPadron) []core.Row {
	celda := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 7, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	result := make([]core.Row, 0, len(filas))
	for _, f := range filas {
		rubro := f.Rubro
		if f.SubRubros != "" {
			rubro += " · " + f.SubRubros
		}
		lugar := f.Departamento
		if f.Localidad != "" {
			lugar += " — " + f.Localidad
		}
		contacto := f.Telefono
		if contacto == "" {
			contacto = f.Correo
		}
		result = append(result, row.New(6).Add(
			celda(f.RazonSocial, 3, align.Left),
			celda(formatearCuit(f.CuitCuil), 1, align.Center),
			celda(f.Tipo, 1, align.Center),
			celda(rubro, 3, align.Left),
			celda(lugar, 2, align.Left),
			celda(contacto, 1, align.Left),
			celda(f.Exporta, 1, align.Center),
		))
	}
	return result
}

// footerRow: total de empresas y leyenda.
func footerRow(total int) core.Row {
	return row.New(10).Add(
		col.New(6).Add(
			text.New(fmt.Sprintf("Total de empresas: %d", total), props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 2, Color: colorPrimario,
			}),
		),
		col.New(6).Add(
			text.New("Registro público de empresas con perfil exportador. Datos declarados por las empresas.", props.Text{
				Size: 6.5, Align: align.Right, Top: 3, Color: colorGris,
			}),
		),
	)
}

// formatearCuit presenta el CUIT como XX-XXXXXXXX-X si tiene 11 dígitos.
func formatearCuit(c string) string {
	if len(c) != 11 {
		return c
	}
	return c[:2] + "-" + c[2:10] + "-" + c[10:]
}
