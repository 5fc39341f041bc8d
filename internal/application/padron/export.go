// Package padron exporta el padrón de empresas a formatos de publicación
// (PDF y CSV). La exportación es de solo lectura.
package padron

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

// FilaPadron es una fila del padrón lista para render, con las referencias
// ya resueltas a nombres.
type FilaPadron struct {
	RazonSocial  string
	CuitCuil     string
	Tipo         string
	Rubro        string
	SubRubros    string // nombres separados por " / " según el discriminador
	Departamento string
	Localidad    string
	Telefono     string
	Correo       string
	Exporta      string
	Capacidad    string // en la unidad estándar del rubro, vacío si no declara
}

// GeneradorPDF es la frontera de render del padrón en PDF.
type GeneradorPDF interface {
	GenerarPadron(ctx context.Context, titulo string, emitido time.Time, filas []FilaPadron) ([]byte, error)
}

// UseCase arma las filas del padrón y las exporta.
type UseCase struct {
	empresaRepo  repository.EmpresaRepository
	rubroRepo    repository.RubroRepository
	subRubroRepo repository.SubRubroRepository
	geoRepo      repository.GeoRepository
	pdfGen       GeneradorPDF
	log          *logger.Logger
}

// NewUseCase construye el exportador del padrón.
func NewUseCase(
	empresaRepo repository.EmpresaRepository,
	rubroRepo repository.RubroRepository,
	subRubroRepo repository.SubRubroRepository,
	geoRepo repository.GeoRepository,
	pdfGen GeneradorPDF,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		empresaRepo:  empresaRepo,
		rubroRepo:    rubroRepo,
		subRubroRepo: subRubroRepo,
		geoRepo:      geoRepo,
		pdfGen:       pdfGen,
		log:          log,
	}
}

const pagina = 500

// Filas arma las filas del padrón según el filtro, resolviendo referencias a
// nombres con memoización local (el padrón comparte pocos rubros y departamentos).
func (uc *UseCase) Filas(ctx context.Context, f repository.FiltroEmpresas) ([]FilaPadron, error) {
	rubros := map[string]string{}
	subRubros := map[string]string{}
	departamentos := map[string]string{}
	localidades := map[string]string{}

	nombreRubro := func(id string) string {
		if n, ok := rubros[id]; ok {
			return n
		}
		n := ""
		if r, err := uc.rubroRepo.GetByID(ctx, id); err == nil && r != nil {
			n = r.Nombre
		}
		rubros[id] = n
		return n
	}
	nombreSubRubro := func(id *string) string {
		if id == nil {
			return ""
		}
		if n, ok := subRubros[*id]; ok {
			return n
		}
		n := ""
		if s, err := uc.subRubroRepo.GetByID(ctx, *id); err == nil && s != nil {
			n = s.Nombre
		}
		subRubros[*id] = n
		return n
	}
	nombreDepartamento := func(id string) string {
		if n, ok := departamentos[id]; ok {
			return n
		}
		n := ""
		if d, err := uc.geoRepo.GetDepartamento(ctx, id); err == nil && d != nil {
			n = d.Nombre
		}
		departamentos[id] = n
		return n
	}
	nombreLocalidad := func(id *string) string {
		if id == nil {
			return ""
		}
		if n, ok := localidades[*id]; ok {
			return n
		}
		n := ""
		if l, err := uc.geoRepo.GetLocalidad(ctx, *id); err == nil && l != nil {
			n = l.Nombre
		}
		localidades[*id] = n
		return n
	}

	var filas []FilaPadron
	for offset := 0; ; offset += pagina {
		lote, err := uc.empresaRepo.List(ctx, f, pagina, offset)
		if err != nil {
			return nil, fmt.Errorf("listar empresas: %w", err)
		}
		for _, e := range lote {
			fila := FilaPadron{
				RazonSocial:  e.RazonSocial,
				CuitCuil:     e.CuitCuil,
				Tipo:         e.TipoEmpresaValor,
				Rubro:        nombreRubro(e.RubroID),
				Departamento: nombreDepartamento(e.DepartamentoID),
				Localidad:    nombreLocalidad(e.LocalidadID),
				Telefono:     e.Telefono,
				Correo:       e.Correo,
				Exporta:      e.Exporta,
			}
			switch e.TipoEmpresaValor {
			case entity.EmpresaMixta:
				fila.SubRubros = nombreSubRubro(e.SubRubroProductoID) + " / " + nombreSubRubro(e.SubRubroServicioID)
			default:
				fila.SubRubros = nombreSubRubro(e.SubRubroID)
			}
			if e.CapacidadProductiva != nil {
				fila.Capacidad = e.CapacidadProductiva.String()
			}
			filas = append(filas, fila)
		}
		if len(lote) < pagina {
			break
		}
	}
	return filas, nil
}

// ExportarPDF genera el padrón en PDF.
func (uc *UseCase) ExportarPDF(ctx context.Context, f repository.FiltroEmpresas) ([]byte, error) {
	filas, err := uc.Filas(ctx, f)
	if err != nil {
		return nil, err
	}
	doc, err := uc.pdfGen.GenerarPadron(ctx, tituloPadron(f), time.Now(), filas)
	if err != nil {
		return nil, fmt.Errorf("generar pdf del padrón: %w", err)
	}
	uc.log.Info().Int("filas", len(filas)).Msg("padrón exportado a PDF")
	return doc, nil
}

// ExportarCSV genera el padrón en CSV con cabecera.
func (uc *UseCase) ExportarCSV(ctx context.Context, f repository.FiltroEmpresas) ([]byte, error) {
	filas, err := uc.Filas(ctx, f)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{
		"razon_social", "cuit_cuil", "tipo_empresa", "rubro", "subrubros",
		"departamento", "localidad", "telefono", "correo", "exporta", "capacidad_productiva",
	}); err != nil {
		return nil, fmt.Errorf("escribir cabecera csv: %w", err)
	}
	for _, fl := range filas {
		if err := w.Write([]string{
			fl.RazonSocial, fl.CuitCuil, fl.Tipo, fl.Rubro, fl.SubRubros,
			fl.Departamento, fl.Localidad, fl.Telefono, fl.Correo, fl.Exporta, fl.Capacidad,
		}); err != nil {
			return nil, fmt.Errorf("escribir fila csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("cerrar csv: %w", err)
	}
	uc.log.Info().Int("filas", len(filas)).Msg("padrón exportado a CSV")
	return buf.Bytes(), nil
}

func tituloPadron(f repository.FiltroEmpresas) string {
	titulo := "Padrón de Empresas Exportadoras de Catamarca"
	if f.SoloExportan {
		titulo += " — Exportadoras activas"
	}
	return titulo
}
