package padron_test

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catamarca-exporta/padron-api/internal/application/padron"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
	"github.com/catamarca-exporta/padron-api/internal/infrastructure/memoria"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

// generadorEspia captura la llamada de render sin producir un PDF real.
type generadorEspia struct {
	titulo string
	filas  []padron.FilaPadron
}

func (g *generadorEspia) GenerarPadron(_ context.Context, titulo string, _ time.Time, filas []padron.FilaPadron) ([]byte, error) {
	g.titulo = titulo
	g.filas = filas
	return []byte("%PDF-falso"), nil
}

func ptr(s string) *string { return &s }

func nuevoExportador(t *testing.T) (*padron.UseCase, *generadorEspia) {
	t.Helper()
	store := memoria.NewStore()
	ctx := context.Background()

	store.SembrarRubro(&entity.Rubro{ID: "r-prod", Nombre: "Frutos Secos", Tipo: entity.RubroProducto, Activo: true})
	store.SembrarSubRubro(&entity.SubRubro{ID: "s-nuez", RubroID: "r-prod", Nombre: "Nuez", Activo: true})
	store.SembrarRubro(&entity.Rubro{ID: "r-mix", Nombre: "Agroindustria", Tipo: entity.RubroMixto, Activo: true})
	store.SembrarSubRubro(&entity.SubRubro{ID: "s-elab", RubroID: "r-mix", Nombre: "Elaboración", Activo: true})
	store.SembrarSubRubro(&entity.SubRubro{ID: "s-log", RubroID: "r-mix", Nombre: "Logística", Activo: true})

	geo := memoria.NewGeoRepo(store)
	require.NoError(t, geo.UpsertDepartamento(ctx, &entity.Departamento{ID: "10035", ProvinciaID: "10", Nombre: "Capital"}))
	require.NoError(t, geo.UpsertLocalidad(ctx, &entity.Localidad{ID: "l-sfv", ProvinciaID: "10", DepartamentoID: "10035", Nombre: "San Fernando del Valle"}))

	capacidad := decimal.NewFromInt(120)
	empresas := memoria.NewEmpresaRepo(store)
	require.NoError(t, empresas.Crear(ctx, &entity.Empresa{
		ID: "e1", RazonSocial: "Nogales del Valle SRL", CuitCuil: "20304050607",
		TipoEmpresaValor: entity.EmpresaProducto, RubroID: "r-prod", SubRubroID: ptr("s-nuez"),
		ProvinciaID: "10", DepartamentoID: "10035", LocalidadID: ptr("l-sfv"),
		Telefono: "+543834455667", Correo: "ventas@nogales.com.ar",
		Exporta: entity.ExportaSi, CapacidadProductiva: &capacidad,
	}))
	require.NoError(t, empresas.Crear(ctx, &entity.Empresa{
		ID: "e2", RazonSocial: "Agro Andina SA", CuitCuil: "30500010912",
		TipoEmpresaValor: entity.EmpresaMixta, RubroID: "r-mix",
		SubRubroProductoID: ptr("s-elab"), SubRubroServicioID: ptr("s-log"),
		ProvinciaID: "10", DepartamentoID: "10035",
		Exporta: entity.ExportaNo,
	}))

	gen := &generadorEspia{}
	uc := padron.NewUseCase(
		empresas,
		memoria.NewRubroRepo(store),
		memoria.NewSubRubroRepo(store),
		geo,
		gen,
		logger.NewNop(),
	)
	return uc, gen
}

func TestFilas_ResuelveReferencias(t *testing.T) {
	uc, _ := nuevoExportador(t)

	filas, err := uc.Filas(context.Background(), repository.FiltroEmpresas{})
	require.NoError(t, err)
	require.Len(t, filas, 2)

	// List ordena por razón social: Agro Andina primero.
	mixta, producto := filas[0], filas[1]
	assert.Equal(t, "Agro Andina SA", mixta.RazonSocial)
	assert.Equal(t, "Elaboración / Logística", mixta.SubRubros, "mixta junta ambos slots")
	assert.Empty(t, mixta.Localidad)
	assert.Empty(t, mixta.Capacidad)

	assert.Equal(t, "Frutos Secos", producto.Rubro)
	assert.Equal(t, "Nuez", producto.SubRubros)
	assert.Equal(t, "Capital", producto.Departamento)
	assert.Equal(t, "San Fernando del Valle", producto.Localidad)
	assert.Equal(t, "120", producto.Capacidad)
}

func TestExportarCSV(t *testing.T) {
	uc, _ := nuevoExportador(t)

	out, err := uc.ExportarCSV(context.Background(), repository.FiltroEmpresas{})
	require.NoError(t, err)

	registros, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, registros, 3) // cabecera + 2 empresas
	assert.Equal(t, "razon_social", registros[0][0])
	assert.Equal(t, "capacidad_productiva", registros[0][10])
	assert.Equal(t, "Nogales del Valle SRL", registros[2][0])
	assert.Equal(t, "si", registros[2][9])
}

func TestExportarPDF_FiltroEnElTitulo(t *testing.T) {
	uc, gen := nuevoExportador(t)

	doc, err := uc.ExportarPDF(context.Background(), repository.FiltroEmpresas{SoloExportan: true})
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
	assert.Contains(t, gen.titulo, "Exportadoras activas")
	require.Len(t, gen.filas, 1, "el filtro llega al repositorio")
	assert.Equal(t, "Nogales del Valle SRL", gen.filas[0].RazonSocial)
}
