package registro_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/catamarca-exporta/padron-api/internal/application/auditoria"
	"github.com/catamarca-exporta/padron-api/internal/application/dto"
	"github.com/catamarca-exporta/padron-api/internal/application/registro"
	"github.com/catamarca-exporta/padron-api/internal/domain"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/infrastructure/mail"
	"github.com/catamarca-exporta/padron-api/internal/infrastructure/memoria"
	"github.com/catamarca-exporta/padron-api/pkg/config"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

// ── Fixture ──────────────────────────────────────────────────────────────

const (
	provinciaID    = "10"
	departamentoID = "10035"
	rubroProdID    = "rubro-frutos"
	rubroMixtoID   = "rubro-mixto"
)

var actor = auditoria.Actor{UsuarioID: "op-1", IP: "10.0.0.5"}

type banco struct {
	uc    *registro.UseCase
	store *memoria.Store
	mails *memoria.Notificador
}

func nuevoBanco(t *testing.T) *banco {
	t.Helper()
	store := memoria.NewStore()
	store.SembrarGeografia(
		&entity.Provincia{ID: provinciaID, Nombre: "Catamarca"},
		&entity.Departamento{ID: departamentoID, ProvinciaID: provinciaID, Nombre: "Capital"},
	)
	store.SembrarRol(&entity.Rol{ID: "rol-empresa", Nombre: entity.RolEmpresa, NivelAcceso: 1, Activo: true})
	store.SembrarRubro(&entity.Rubro{ID: rubroProdID, Nombre: "Frutos Secos", Tipo: entity.RubroProducto, Orden: 1, Activo: true})
	store.SembrarSubRubro(&entity.SubRubro{ID: "sub-nuez", RubroID: rubroProdID, Nombre: "Nuez", Orden: 1, Activo: true})
	store.SembrarSubRubro(&entity.SubRubro{ID: "sub-otro", RubroID: rubroProdID, Nombre: entity.NombreOtro, Orden: 9, Activo: true})
	store.SembrarRubro(&entity.Rubro{ID: rubroMixtoID, Nombre: "Agroindustria", Tipo: entity.RubroMixto, Orden: 2, Activo: true})
	store.SembrarSubRubro(&entity.SubRubro{ID: "sub-elab", RubroID: rubroMixtoID, Nombre: "Elaboración", Orden: 1, Activo: true})
	store.SembrarSubRubro(&entity.SubRubro{ID: "sub-log", RubroID: rubroMixtoID, Nombre: "Logística", Orden: 2, Activo: true})

	mails := memoria.NewNotificador()
	uc := registro.NewUseCase(
		memoria.NewTxRunner(store),
		memoria.NewSolicitudRepo(store),
		memoria.NewRubroRepo(store),
		memoria.NewSubRubroRepo(store),
		memoria.NewRolRepo(store),
		memoria.NewUsuarioRepo(store),
		memoria.NewEmpresaRepo(store),
		memoria.NewGeoRepo(store),
		mails,
		logger.NewNop(),
		config.RegistroConfig{
			CooldownReenvio:      time.Hour,
			TokenRecuperacionTTL: time.Hour,
			MaxIntentosLogin:     5,
			DuracionBloqueo:      15 * time.Minute,
		},
	)
	return &banco{uc: uc, store: store, mails: mails}
}

// cuerpoRenderizado pasa el envío capturado por el render real: el correo
// que saldría no puede quedar con marcadores sin resolver.
func cuerpoRenderizado(t *testing.T, envio memoria.Envio) string {
	t.Helper()
	_, cuerpo, err := mail.Renderizar(envio.Plantilla, envio.Variables)
	require.NoError(t, err)
	assert.NotContains(t, cuerpo, "{{")
	assert.NotContains(t, cuerpo, "<no value>")
	return cuerpo
}

func solicitudValida() dto.CrearSolicitudRequest {
	return dto.CrearSolicitudRequest{
		RazonSocial:      "Nogales del Valle SRL",
		CuitCuil:         "20-30405060-7",
		EmailContacto:    "Contacto@Nogales.Com.Ar",
		NombreContacto:   "María Paz Gutiérrez",
		RubroID:          rubroProdID,
		SubRubro:         "nuez",
		TipoEmpresaValor: entity.EmpresaProducto,
		ProvinciaID:      provinciaID,
		DepartamentoID:   departamentoID,
		Telefono:         "+54 383 445-5667",
	}
}

// ── Submit ───────────────────────────────────────────────────────────────

func TestSubmit_CreaPendiente(t *testing.T) {
	b := nuevoBanco(t)

	s, err := b.uc.Submit(context.Background(), solicitudValida(), auditoria.Actor{IP: "200.1.2.3"})
	require.NoError(t, err)

	assert.Equal(t, entity.SolicitudPendiente, s.Estado)
	assert.Equal(t, "20304050607", s.CuitCuil, "el CUIT se guarda como dígitos")
	assert.Equal(t, "contacto@nogales.com.ar", s.EmailContacto, "el email se pliega")
	assert.Equal(t, "María", s.NombreContacto)
	assert.Equal(t, "Paz Gutiérrez", s.ApellidoContacto)
	assert.Equal(t, "+543834455667", s.Telefono)

	entradas := b.store.Auditoria()
	require.Len(t, entradas, 1)
	assert.Equal(t, entity.AccionCrear, entradas[0].Accion)
	assert.Equal(t, "SolicitudRegistro", entradas[0].Modelo)
	assert.Nil(t, entradas[0].UsuarioID, "el alta pública es anónima")
}

func TestSubmit_EntradasInvalidas(t *testing.T) {
	b := nuevoBanco(t)

	casos := map[string]func(*dto.CrearSolicitudRequest){
		"razon social vacía":     func(r *dto.CrearSolicitudRequest) { r.RazonSocial = "  " },
		"cuit corto":             func(r *dto.CrearSolicitudRequest) { r.CuitCuil = "20-304050-7" },
		"email sin arroba":       func(r *dto.CrearSolicitudRequest) { r.EmailContacto = "nogales.com.ar" },
		"tipo desconocido":       func(r *dto.CrearSolicitudRequest) { r.TipoEmpresaValor = "cooperativa" },
		"telefono con letras":    func(r *dto.CrearSolicitudRequest) { r.Telefono = "383-CALLME" },
		"telefono corto":         func(r *dto.CrearSolicitudRequest) { r.Telefono = "12345" },
		"provincia sin informar": func(r *dto.CrearSolicitudRequest) { r.ProvinciaID = "" },
	}
	for nombre, mutar := range casos {
		t.Run(nombre, func(t *testing.T) {
			req := solicitudValida()
			mutar(&req)
			_, err := b.uc.Submit(context.Background(), req, actor)
			assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
		})
	}
}

func TestSubmit_ReferenciasInexistentes(t *testing.T) {
	b := nuevoBanco(t)

	req := solicitudValida()
	req.RubroID = "rubro-fantasma"
	_, err := b.uc.Submit(context.Background(), req, actor)
	assert.ErrorIs(t, err, domain.ErrNoEncontrado)

	req = solicitudValida()
	req.DepartamentoID = "02007" // de otra provincia
	_, err = b.uc.Submit(context.Background(), req, actor)
	assert.ErrorIs(t, err, domain.ErrNoEncontrado)
}

func TestSubmit_CuitYaEmpadronado(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	s, err := b.uc.Submit(ctx, solicitudValida(), actor)
	require.NoError(t, err)
	_, err = b.uc.Aprobar(ctx, s.ID, actor)
	require.NoError(t, err)

	req := solicitudValida()
	req.EmailContacto = "otra@cuenta.com.ar"
	_, err = b.uc.Submit(ctx, req, actor)
	assert.ErrorIs(t, err, domain.ErrDuplicado)
}

// ── Aprobación ───────────────────────────────────────────────────────────

func TestAprobar_CreaEmpresaYCuenta(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	s, err := b.uc.Submit(ctx, solicitudValida(), actor)
	require.NoError(t, err)

	res, err := b.uc.Aprobar(ctx, s.ID, actor)
	require.NoError(t, err)

	assert.Equal(t, entity.SolicitudAprobada, res.Solicitud.Estado)
	require.NotNil(t, res.Solicitud.EmpresaCreada)
	require.NotNil(t, res.Solicitud.UsuarioCreado)
	require.NotNil(t, res.Solicitud.FechaResolucion)

	// El subrubro declarado se resuelve sin distinguir mayúsculas.
	require.NotNil(t, res.Empresa.SubRubroID)
	assert.Equal(t, "sub-nuez", *res.Empresa.SubRubroID)
	assert.Nil(t, res.Empresa.SubRubroProductoID)
	assert.Equal(t, entity.ExportaNo, res.Empresa.Exporta)
	assert.Equal(t, "contacto@nogales.com.ar", res.Empresa.Correo)

	// La cuenta arranca con la contraseña derivada del CUIT y cambio forzado.
	assert.True(t, res.Usuario.DebeCambiarPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.Usuario.PasswordHash), []byte("20304050607")))
	assert.Equal(t, res.Usuario.ID, res.Empresa.UsuarioID)

	envios := b.mails.Envios()
	require.Len(t, envios, 1)
	assert.Equal(t, registro.PlantillaCredencialesIniciales, envios[0].Plantilla)
	assert.Equal(t, "contacto@nogales.com.ar", envios[0].Destinatario)
	assert.Equal(t, "20304050607", envios[0].Variables["password"])
	cuerpo := cuerpoRenderizado(t, envios[0])
	assert.Contains(t, cuerpo, "Estimado/a María:")
	assert.Contains(t, cuerpo, "Contraseña: 20304050607")
}

func TestAprobar_AvisaAContactosSecundarios(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	req := solicitudValida()
	req.Contactos = []dto.ContactoSecundarioRequest{
		{Nombre: "Pedro Olmos", Email: "pedro@nogales.com.ar"},
		{Nombre: "Sin Correo"}, // sin email: no recibe nada
	}
	s, err := b.uc.Submit(ctx, req, actor)
	require.NoError(t, err)
	_, err = b.uc.Aprobar(ctx, s.ID, actor)
	require.NoError(t, err)

	envios := b.mails.Envios()
	require.Len(t, envios, 2)
	assert.Equal(t, registro.PlantillaCredencialesIniciales, envios[0].Plantilla)
	assert.Equal(t, registro.PlantillaAprobacion, envios[1].Plantilla)
	assert.Equal(t, "pedro@nogales.com.ar", envios[1].Destinatario)

	cuerpo := cuerpoRenderizado(t, envios[1])
	assert.Contains(t, cuerpo, "Estimado/a Pedro:")
	assert.NotContains(t, cuerpo, "Contraseña", "el aviso no lleva credenciales")
}

func TestAprobar_SubRubroDesconocidoCaeAOtro(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	req := solicitudValida()
	req.SubRubro = "Almendras" // no existe en el rubro
	s, err := b.uc.Submit(ctx, req, actor)
	require.NoError(t, err)

	res, err := b.uc.Aprobar(ctx, s.ID, actor)
	require.NoError(t, err)
	require.NotNil(t, res.Empresa.SubRubroID)
	assert.Equal(t, "sub-otro", *res.Empresa.SubRubroID)
}

func TestAprobar_Mixta(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	req := solicitudValida()
	req.RubroID = rubroMixtoID
	req.TipoEmpresaValor = entity.EmpresaMixta
	req.SubRubro = ""
	req.SubRubroProducto = "elaboración"
	req.SubRubroServicio = "LOGISTICA"
	s, err := b.uc.Submit(ctx, req, actor)
	require.NoError(t, err)

	res, err := b.uc.Aprobar(ctx, s.ID, actor)
	require.NoError(t, err)
	assert.Nil(t, res.Empresa.SubRubroID)
	require.NotNil(t, res.Empresa.SubRubroProductoID)
	require.NotNil(t, res.Empresa.SubRubroServicioID)
	assert.Equal(t, "sub-elab", *res.Empresa.SubRubroProductoID)
	assert.Equal(t, "sub-log", *res.Empresa.SubRubroServicioID)
}

func TestAprobar_MixtaSobreRubroProducto(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	req := solicitudValida()
	req.TipoEmpresaValor = entity.EmpresaMixta
	req.SubRubroProducto = "Nuez"
	req.SubRubroServicio = "Nuez"
	s, err := b.uc.Submit(ctx, req, actor)
	require.NoError(t, err)

	_, err = b.uc.Aprobar(ctx, s.ID, actor)
	assert.ErrorIs(t, err, domain.ErrInvarianteViolada)
}

func TestAprobar_DosVeces(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	s, err := b.uc.Submit(ctx, solicitudValida(), actor)
	require.NoError(t, err)
	_, err = b.uc.Aprobar(ctx, s.ID, actor)
	require.NoError(t, err)

	_, err = b.uc.Aprobar(ctx, s.ID, actor)
	assert.ErrorIs(t, err, domain.ErrTransicionInvalida)
}

func TestAprobar_FalloDeCorreoNoRevierte(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()
	b.mails.Fallar = assert.AnError

	s, err := b.uc.Submit(ctx, solicitudValida(), actor)
	require.NoError(t, err)

	res, err := b.uc.Aprobar(ctx, s.ID, actor)
	require.NoError(t, err, "el transporte de correo no participa de la transacción")
	assert.Equal(t, entity.SolicitudAprobada, res.Solicitud.Estado)
}

// ── Rechazo ──────────────────────────────────────────────────────────────

func TestRechazar(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	s, err := b.uc.Submit(ctx, solicitudValida(), actor)
	require.NoError(t, err)

	require.NoError(t, b.uc.Rechazar(ctx, s.ID, "documentación incompleta", actor))

	guardada, err := b.uc.GetSolicitud(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SolicitudRechazada, guardada.Estado)
	require.NotNil(t, guardada.MotivoRechazo)
	assert.Equal(t, "documentación incompleta", *guardada.MotivoRechazo)

	// Estado terminal: no se puede aprobar después.
	_, err = b.uc.Aprobar(ctx, s.ID, actor)
	assert.ErrorIs(t, err, domain.ErrTransicionInvalida)

	envios := b.mails.Envios()
	require.Len(t, envios, 1)
	assert.Equal(t, registro.PlantillaRechazo, envios[0].Plantilla)
	cuerpo := cuerpoRenderizado(t, envios[0])
	assert.Contains(t, cuerpo, "Estimado/a María:")
	assert.Contains(t, cuerpo, "Motivo: documentación incompleta")
}

// ── Baja de solicitudes ──────────────────────────────────────────────────

func TestEliminar_PendienteAvisaAlContacto(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	s, err := b.uc.Submit(ctx, solicitudValida(), actor)
	require.NoError(t, err)

	require.NoError(t, b.uc.Eliminar(ctx, s.ID, actor))

	_, err = b.uc.GetSolicitud(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrNoEncontrado)

	envios := b.mails.Envios()
	require.Len(t, envios, 1)
	assert.Equal(t, registro.PlantillaRechazo, envios[0].Plantilla)
	assert.Equal(t, "contacto@nogales.com.ar", envios[0].Destinatario)
	cuerpoRenderizado(t, envios[0])

	entradas := b.store.Auditoria()
	require.Len(t, entradas, 2)
	assert.Equal(t, entity.AccionEliminar, entradas[1].Accion)
}

func TestEliminar_RechazadaNoAvisa(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	s, err := b.uc.Submit(ctx, solicitudValida(), actor)
	require.NoError(t, err)
	require.NoError(t, b.uc.Rechazar(ctx, s.ID, "duplicada", actor))

	require.NoError(t, b.uc.Eliminar(ctx, s.ID, actor))

	// Sólo el correo del rechazo: la baja de una rechazada es silenciosa.
	assert.Len(t, b.mails.Envios(), 1)
}

func TestEliminar_AprobadaNoSePuede(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	s, err := b.uc.Submit(ctx, solicitudValida(), actor)
	require.NoError(t, err)
	_, err = b.uc.Aprobar(ctx, s.ID, actor)
	require.NoError(t, err)

	err = b.uc.Eliminar(ctx, s.ID, actor)
	assert.ErrorIs(t, err, domain.ErrTransicionInvalida)
}

func TestEliminar_Inexistente(t *testing.T) {
	b := nuevoBanco(t)
	err := b.uc.Eliminar(context.Background(), "sol-fantasma", actor)
	assert.ErrorIs(t, err, domain.ErrNoEncontrado)
}

// ── Reenvío de credenciales ──────────────────────────────────────────────

func TestReenviarCredenciales_Cooldown(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	s, err := b.uc.Submit(ctx, solicitudValida(), actor)
	require.NoError(t, err)
	res, err := b.uc.Aprobar(ctx, s.ID, actor)
	require.NoError(t, err)

	require.NoError(t, b.uc.ReenviarCredenciales(ctx, res.Empresa.ID, false, actor))

	// Dentro de la ventana: se rechaza sin consumirla.
	err = b.uc.ReenviarCredenciales(ctx, res.Empresa.ID, false, actor)
	assert.ErrorIs(t, err, domain.ErrMuyPronto)

	envios := b.mails.Envios()
	require.Len(t, envios, 2) // credenciales iniciales + un reenvío
	assert.Equal(t, registro.PlantillaCredencialesReenvio, envios[1].Plantilla)
	assert.NotContains(t, envios[1].Variables, "password", "sin resetear no viaja contraseña")
	cuerpo := cuerpoRenderizado(t, envios[1])
	assert.Contains(t, cuerpo, "sigue vigente")
}

func TestReenviarCredenciales_PasadoElCooldown(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	s, err := b.uc.Submit(ctx, solicitudValida(), actor)
	require.NoError(t, err)
	res, err := b.uc.Aprobar(ctx, s.ID, actor)
	require.NoError(t, err)
	require.NoError(t, b.uc.ReenviarCredenciales(ctx, res.Empresa.ID, false, actor))

	// Retrotraer la marca más allá de la ventana de una hora.
	empresas := memoria.NewEmpresaRepo(b.store)
	e, err := empresas.GetByID(ctx, res.Empresa.ID)
	require.NoError(t, err)
	pasado := time.Now().UTC().Add(-2 * time.Hour)
	e.UltimaNotificacionCredenciales = &pasado
	require.NoError(t, empresas.Update(ctx, e))

	require.NoError(t, b.uc.ReenviarCredenciales(ctx, res.Empresa.ID, false, actor))

	e, err = empresas.GetByID(ctx, res.Empresa.ID)
	require.NoError(t, err)
	require.NotNil(t, e.UltimaNotificacionCredenciales)
	assert.True(t, e.UltimaNotificacionCredenciales.After(pasado), "el reenvío corre la marca")
	assert.Len(t, b.mails.Envios(), 3) // credenciales iniciales + dos reenvíos
}

func TestReenviarCredenciales_ConReset(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	s, err := b.uc.Submit(ctx, solicitudValida(), actor)
	require.NoError(t, err)
	res, err := b.uc.Aprobar(ctx, s.ID, actor)
	require.NoError(t, err)

	require.NoError(t, b.uc.ReenviarCredenciales(ctx, res.Empresa.ID, true, actor))

	envios := b.mails.Envios()
	require.Len(t, envios, 2)
	assert.Equal(t, "20304050607", envios[1].Variables["password"],
		"con cambio pendiente, el reset vuelve a derivar del CUIT")
	cuerpo := cuerpoRenderizado(t, envios[1])
	assert.Contains(t, cuerpo, "Contraseña: 20304050607")
}

func TestReenviarCredenciales_EmpresaInexistente(t *testing.T) {
	b := nuevoBanco(t)
	err := b.uc.ReenviarCredenciales(context.Background(), "empresa-fantasma", false, actor)
	assert.ErrorIs(t, err, domain.ErrNoEncontrado)
}

// ── Lecturas ─────────────────────────────────────────────────────────────

func TestListSolicitudes_FiltroPorEstado(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	s1, err := b.uc.Submit(ctx, solicitudValida(), actor)
	require.NoError(t, err)
	req := solicitudValida()
	req.CuitCuil = "27-11222333-4"
	req.EmailContacto = "segunda@firma.com.ar"
	_, err = b.uc.Submit(ctx, req, actor)
	require.NoError(t, err)
	require.NoError(t, b.uc.Rechazar(ctx, s1.ID, "duplicada", actor))

	pendientes, err := b.uc.ListSolicitudes(ctx, entity.SolicitudPendiente, 50, 0)
	require.NoError(t, err)
	assert.Len(t, pendientes, 1)

	todas, err := b.uc.ListSolicitudes(ctx, "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, todas, 2)

	_, err = b.uc.ListSolicitudes(ctx, "archivada", 50, 0)
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}
