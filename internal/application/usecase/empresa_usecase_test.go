package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catamarca-exporta/padron-api/internal/application/auditoria"
	"github.com/catamarca-exporta/padron-api/internal/application/dto"
	"github.com/catamarca-exporta/padron-api/internal/application/usecase"
	"github.com/catamarca-exporta/padron-api/internal/domain"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
	"github.com/catamarca-exporta/padron-api/internal/infrastructure/memoria"
	"github.com/catamarca-exporta/padron-api/pkg/config"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

var actor = auditoria.Actor{UsuarioID: "op-1"}

// cacheEspia implementa usecase.CacheEstadisticas contando accesos.
type cacheEspia struct {
	guardado       *dto.EstadisticasResponse
	aciertos       int
	invalidaciones int
}

func (c *cacheEspia) Get(context.Context) (*dto.EstadisticasResponse, bool) {
	if c.guardado == nil {
		return nil, false
	}
	c.aciertos++
	return c.guardado, true
}

func (c *cacheEspia) Set(_ context.Context, e *dto.EstadisticasResponse) { c.guardado = e }

func (c *cacheEspia) Invalidar(context.Context) {
	c.guardado = nil
	c.invalidaciones++
}

type banco struct {
	uc    *usecase.EmpresaUseCase
	store *memoria.Store
	cache *cacheEspia
}

func nuevoBanco(t *testing.T) *banco {
	t.Helper()
	store := memoria.NewStore()
	store.SembrarRubro(&entity.Rubro{ID: "r-prod", Nombre: "Frutos Secos", Tipo: entity.RubroProducto, Orden: 1, Activo: true})
	store.SembrarSubRubro(&entity.SubRubro{ID: "s-nuez", RubroID: "r-prod", Nombre: "Nuez", Orden: 1, Activo: true})
	store.SembrarRubro(&entity.Rubro{ID: "r-serv", Nombre: "Turismo", Tipo: entity.RubroServicio, Orden: 2, Activo: true})
	store.SembrarSubRubro(&entity.SubRubro{ID: "s-guia", RubroID: "r-serv", Nombre: "Guiado", Orden: 1, Activo: true})
	store.SembrarRubro(&entity.Rubro{ID: "r-mix", Nombre: "Agroindustria", Tipo: entity.RubroMixto, Orden: 3, Activo: true})
	store.SembrarSubRubro(&entity.SubRubro{ID: "s-elab", RubroID: "r-mix", Nombre: "Elaboración", Orden: 1, Activo: true})

	cache := &cacheEspia{}
	uc := usecase.NewEmpresaUseCase(
		memoria.NewTxRunner(store),
		memoria.NewEmpresaRepo(store),
		memoria.NewUsuarioRepo(store),
		memoria.NewRubroRepo(store),
		memoria.NewSubRubroRepo(store),
		cache,
		config.DensidadConfig{BajaMax: 2, MediaMax: 5, AltaMax: 10},
		logger.NewNop(),
	)
	return &banco{uc: uc, store: store, cache: cache}
}

func ptr[T any](v T) *T { return &v }

func altaProducto(cuit string) dto.CrearEmpresaRequest {
	return dto.CrearEmpresaRequest{
		RazonSocial:      "Nogales del Valle SRL",
		CuitCuil:         cuit,
		TipoEmpresaValor: entity.EmpresaProducto,
		UsuarioID:        "u-dueno",
		RubroID:          "r-prod",
		SubRubroID:       ptr("s-nuez"),
		ProvinciaID:      "10",
		DepartamentoID:   "10035",
		Telefono:         "+543834455667",
		Correo:           "Ventas@Nogales.Com.Ar",
	}
}

// ── Alta ─────────────────────────────────────────────────────────────────

func TestCrear_OK(t *testing.T) {
	b := nuevoBanco(t)

	res, err := b.uc.Crear(context.Background(), altaProducto("20-30405060-7"), actor)
	require.NoError(t, err)
	assert.Equal(t, "20304050607", res.CuitCuil)
	assert.Equal(t, "ventas@nogales.com.ar", res.Correo)
	assert.Equal(t, entity.ExportaNo, res.Exporta, "exporta vacío cae a no")

	entradas := b.store.Auditoria()
	require.Len(t, entradas, 1)
	assert.Equal(t, entity.AccionCrear, entradas[0].Accion)
	assert.Equal(t, "Empresa", entradas[0].Modelo)
	assert.Equal(t, 1, b.cache.invalidaciones, "un alta invalida las estadísticas")
}

func TestCrear_CuitDuplicado(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	_, err := b.uc.Crear(ctx, altaProducto("20-30405060-7"), actor)
	require.NoError(t, err)

	otra := altaProducto("20.30405060.7") // mismo CUIT con otro formato
	otra.UsuarioID = "u-otro"
	_, err = b.uc.Crear(ctx, otra, actor)
	assert.ErrorIs(t, err, domain.ErrConflicto)
}

func TestCrear_SlotsIncoherentes(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	// producto sin slot simple
	req := altaProducto("20-30405060-7")
	req.SubRubroID = nil
	_, err := b.uc.Crear(ctx, req, actor)
	assert.ErrorIs(t, err, domain.ErrInvarianteViolada)

	// producto con slot tipado poblado
	req = altaProducto("20-30405060-7")
	req.SubRubroProductoID = ptr("s-elab")
	_, err = b.uc.Crear(ctx, req, actor)
	assert.ErrorIs(t, err, domain.ErrInvarianteViolada)

	// mixta con slot simple
	req = altaProducto("20-30405060-7")
	req.TipoEmpresaValor = entity.EmpresaMixta
	_, err = b.uc.Crear(ctx, req, actor)
	assert.ErrorIs(t, err, domain.ErrInvarianteViolada)
}

func TestCrear_SubRubroDeRubroIncompatible(t *testing.T) {
	b := nuevoBanco(t)

	// Empresa de producto apuntando a un subrubro de un rubro de servicio.
	req := altaProducto("20-30405060-7")
	req.SubRubroID = ptr("s-guia")
	_, err := b.uc.Crear(context.Background(), req, actor)
	assert.ErrorIs(t, err, domain.ErrInvarianteViolada)
}

func TestCrear_MixtaAceptaSubrubrosDeMixto(t *testing.T) {
	b := nuevoBanco(t)

	req := altaProducto("20-30405060-7")
	req.TipoEmpresaValor = entity.EmpresaMixta
	req.SubRubroID = nil
	req.SubRubroProductoID = ptr("s-elab")
	req.SubRubroServicioID = ptr("s-elab")
	res, err := b.uc.Crear(context.Background(), req, actor)
	require.NoError(t, err)
	assert.Nil(t, res.SubRubroID)
}

func TestCrear_ExportaInvalido(t *testing.T) {
	b := nuevoBanco(t)
	req := altaProducto("20-30405060-7")
	req.Exporta = "a veces"
	_, err := b.uc.Crear(context.Background(), req, actor)
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

// ── Lecturas ─────────────────────────────────────────────────────────────

func TestGetByID_Inexistente(t *testing.T) {
	b := nuevoBanco(t)

	res, err := b.uc.GetByID(context.Background(), "empresa-fantasma")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrNoEncontrado)
}

// ── Patch ────────────────────────────────────────────────────────────────

func TestActualizar_NoPermiteCambiarTipo(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()
	res, err := b.uc.Crear(ctx, altaProducto("20-30405060-7"), actor)
	require.NoError(t, err)

	_, err = b.uc.Actualizar(ctx, res.ID, dto.ActualizarEmpresaRequest{
		TipoEmpresaValor: ptr(entity.EmpresaMixta),
	}, actor)
	assert.ErrorIs(t, err, domain.ErrNoSoportado)

	// El mismo valor no cuenta como cambio.
	_, err = b.uc.Actualizar(ctx, res.ID, dto.ActualizarEmpresaRequest{
		TipoEmpresaValor: ptr(entity.EmpresaProducto),
		Telefono:         ptr("+543834000000"),
	}, actor)
	assert.NoError(t, err)
}

func TestActualizar_AplicaPatchYAudita(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()
	res, err := b.uc.Crear(ctx, altaProducto("20-30405060-7"), actor)
	require.NoError(t, err)

	actualizada, err := b.uc.Actualizar(ctx, res.ID, dto.ActualizarEmpresaRequest{
		RazonSocial: ptr("Nogales del Valle S.A."),
		Exporta:     ptr(entity.ExportaSi),
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, "Nogales del Valle S.A.", actualizada.RazonSocial)
	assert.Equal(t, entity.ExportaSi, actualizada.Exporta)

	entradas := b.store.Auditoria()
	require.Len(t, entradas, 2)
	assert.Equal(t, entity.AccionActualizar, entradas[1].Accion)
	assert.Contains(t, entradas[1].Cambios, "razon_social")
}

func TestActualizar_PatchNoPuedeRomperSlots(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()
	res, err := b.uc.Crear(ctx, altaProducto("20-30405060-7"), actor)
	require.NoError(t, err)

	_, err = b.uc.Actualizar(ctx, res.ID, dto.ActualizarEmpresaRequest{
		SubRubroProductoID: ptr("s-elab"),
	}, actor)
	assert.ErrorIs(t, err, domain.ErrInvarianteViolada)
}

// ── Borrado ──────────────────────────────────────────────────────────────

func TestEliminar_CascadeaALaCuenta(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()
	usuarios := memoria.NewUsuarioRepo(b.store)
	require.NoError(t, usuarios.Crear(ctx, &entity.Usuario{ID: "u-dueno", Email: "duena@firma.com"}))

	res, err := b.uc.Crear(ctx, altaProducto("20-30405060-7"), actor)
	require.NoError(t, err)

	require.NoError(t, b.uc.Eliminar(ctx, res.ID, actor))

	quedo, err := b.uc.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Nil(t, quedo)
	u, err := usuarios.GetByID(ctx, "u-dueno")
	require.NoError(t, err)
	assert.Nil(t, u, "la cuenta propietaria cae con la empresa")

	err = b.uc.Eliminar(ctx, res.ID, actor)
	assert.ErrorIs(t, err, domain.ErrNoEncontrado)
}

// ── Conteos y estadísticas ───────────────────────────────────────────────

func TestConteoPorTipo(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	cuits := []string{"20-11111111-1", "20-22222222-2", "20-33333333-3"}
	for i, c := range cuits {
		req := altaProducto(c)
		req.UsuarioID = "u-" + c
		if i == 2 {
			req.TipoEmpresaValor = entity.EmpresaServicio
			req.RubroID = "r-serv"
			req.SubRubroID = ptr("s-guia")
		}
		_, err := b.uc.Crear(ctx, req, actor)
		require.NoError(t, err)
	}

	res, err := b.uc.ConteoPorTipo(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Producto)
	assert.Equal(t, int64(1), res.Servicio)
	assert.Zero(t, res.Mixta)
	assert.Equal(t, int64(3), res.Total)
	assert.True(t, res.Consistente)
}

func TestEstadisticas_BinningYCache(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	// 1 empresa en Capital (baja), 4 en Andalgalá (media).
	req := altaProducto("20-11111111-1")
	_, err := b.uc.Crear(ctx, req, actor)
	require.NoError(t, err)
	for i, c := range []string{"20-22222222-2", "20-33333333-3", "20-44444444-4", "20-55555555-5"} {
		otra := altaProducto(c)
		otra.UsuarioID = "u-andalgala-" + c
		otra.DepartamentoID = "10007"
		_, err := b.uc.Crear(ctx, otra, actor)
		require.NoError(t, err, "empresa %d", i)
	}

	res, err := b.uc.Estadisticas(ctx)
	require.NoError(t, err)
	porDepto := map[string]dto.DensidadDepartamento{}
	for _, d := range res.Departamentos {
		porDepto[d.DepartamentoID] = d
	}
	assert.Equal(t, "baja", porDepto["10035"].Densidad)
	assert.Equal(t, int64(4), porDepto["10007"].Empresas)
	assert.Equal(t, "media", porDepto["10007"].Densidad)

	// Segunda lectura: sale del cache.
	_, err = b.uc.Estadisticas(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, b.cache.aciertos)

	// Una escritura del padrón lo invalida.
	mas := altaProducto("20-66666666-6")
	mas.UsuarioID = "u-mas"
	_, err = b.uc.Crear(ctx, mas, actor)
	require.NoError(t, err)
	_, err = b.uc.Estadisticas(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, b.cache.aciertos, "tras invalidar se recalcula")
}

func TestList_Filtros(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	exportadora := altaProducto("20-11111111-1")
	exportadora.Exporta = entity.ExportaSi
	_, err := b.uc.Crear(ctx, exportadora, actor)
	require.NoError(t, err)
	local := altaProducto("20-22222222-2")
	local.UsuarioID = "u-local"
	_, err = b.uc.Crear(ctx, local, actor)
	require.NoError(t, err)

	todas, err := b.uc.List(ctx, repository.FiltroEmpresas{}, 50, 0)
	require.NoError(t, err)
	assert.Len(t, todas.Items, 2)

	exportan, err := b.uc.List(ctx, repository.FiltroEmpresas{SoloExportan: true}, 50, 0)
	require.NoError(t, err)
	require.Len(t, exportan.Items, 1)
	assert.Equal(t, entity.ExportaSi, exportan.Items[0].Exporta)
}
