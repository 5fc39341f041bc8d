package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/catamarca-exporta/padron-api/internal/application/auditoria"
	"github.com/catamarca-exporta/padron-api/internal/application/auth"
	"github.com/catamarca-exporta/padron-api/internal/application/dto"
	"github.com/catamarca-exporta/padron-api/internal/application/registro"
	"github.com/catamarca-exporta/padron-api/internal/domain"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/infrastructure/mail"
	"github.com/catamarca-exporta/padron-api/internal/infrastructure/memoria"
	"github.com/catamarca-exporta/padron-api/pkg/config"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

const (
	emailOperador = "operador@produccion.catamarca.gob.ar"
	passwordReal  = "secreta-de-verdad"
	maxIntentos   = 3
)

var actor = auditoria.Actor{IP: "10.0.0.9"}

type banco struct {
	uc       *auth.UseCase
	store    *memoria.Store
	usuarios *memoria.UsuarioRepo
	mails    *memoria.Notificador
}

func nuevoBanco(t *testing.T) *banco {
	t.Helper()
	store := memoria.NewStore()
	store.SembrarRol(&entity.Rol{ID: "rol-admin", Nombre: entity.RolAdministrador, NivelAcceso: 10, Activo: true})

	hash, err := bcrypt.GenerateFromPassword([]byte(passwordReal), bcrypt.MinCost)
	require.NoError(t, err)
	usuarios := memoria.NewUsuarioRepo(store)
	require.NoError(t, usuarios.Crear(context.Background(), &entity.Usuario{
		ID:           "u1",
		Email:        emailOperador,
		Nombre:       "Laura",
		Apellido:     "Vega",
		PasswordHash: string(hash),
		RolID:        "rol-admin",
		Activo:       true,
	}))

	mails := memoria.NewNotificador()
	uc := auth.NewUseCase(
		usuarios,
		memoria.NewRolRepo(store),
		memoria.NewAuditoriaRepo(store),
		mails,
		auth.JWTConfig{Secret: "secreto-de-prueba", ExpMinutes: 60, Issuer: "padron-test"},
		config.RegistroConfig{
			MaxIntentosLogin:     maxIntentos,
			DuracionBloqueo:      15 * time.Minute,
			TokenRecuperacionTTL: time.Hour,
		},
		logger.NewNop(),
	)
	return &banco{uc: uc, store: store, usuarios: usuarios, mails: mails}
}

// ── Login ────────────────────────────────────────────────────────────────

func TestLogin_OK(t *testing.T) {
	b := nuevoBanco(t)

	// El email entra sin plegar; la comparación lo normaliza.
	res, err := b.uc.Login(context.Background(), dto.LoginRequest{
		Email:    "Operador@Produccion.Catamarca.Gob.Ar",
		Password: passwordReal,
	}, actor)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "u1", res.User.ID)

	u, err := b.usuarios.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, u.FechaUltimoAcceso)
	assert.Zero(t, u.IntentosLoginFallidos)

	entradas := b.store.Auditoria()
	require.Len(t, entradas, 1)
	assert.Equal(t, entity.AccionLogin, entradas[0].Accion)
}

func TestLogin_EmailDesconocido(t *testing.T) {
	b := nuevoBanco(t)
	_, err := b.uc.Login(context.Background(), dto.LoginRequest{
		Email:    "nadie@example.com",
		Password: "lo-que-sea",
	}, actor)
	assert.ErrorIs(t, err, domain.ErrNoAutorizado)
}

func TestLogin_CuentaInactiva(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()
	u, _ := b.usuarios.GetByID(ctx, "u1")
	u.Activo = false
	require.NoError(t, b.usuarios.Update(ctx, u))

	_, err := b.uc.Login(ctx, dto.LoginRequest{Email: emailOperador, Password: passwordReal}, actor)
	assert.ErrorIs(t, err, domain.ErrAccesoDenegado)
}

func TestLogin_BloqueoPorIntentos(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	for i := 0; i < maxIntentos; i++ {
		_, err := b.uc.Login(ctx, dto.LoginRequest{Email: emailOperador, Password: "equivocada"}, actor)
		assert.ErrorIs(t, err, domain.ErrNoAutorizado)
	}

	// Bloqueada: ni siquiera con la contraseña correcta.
	_, err := b.uc.Login(ctx, dto.LoginRequest{Email: emailOperador, Password: passwordReal}, actor)
	assert.ErrorIs(t, err, domain.ErrUsuarioBloqueado)

	u, err := b.usuarios.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u.BloqueadoHasta)
	assert.True(t, u.BloqueadoHasta.After(time.Now().UTC()))
}

func TestLogin_IntentoFallidoNoLlegaAlUmbral(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	_, err := b.uc.Login(ctx, dto.LoginRequest{Email: emailOperador, Password: "equivocada"}, actor)
	assert.ErrorIs(t, err, domain.ErrNoAutorizado)

	u, err := b.usuarios.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, u.IntentosLoginFallidos)
	assert.Nil(t, u.BloqueadoHasta)

	// Un login correcto resetea el contador.
	_, err = b.uc.Login(ctx, dto.LoginRequest{Email: emailOperador, Password: passwordReal}, actor)
	require.NoError(t, err)
	u, _ = b.usuarios.GetByID(ctx, "u1")
	assert.Zero(t, u.IntentosLoginFallidos)
}

// ── Cambio de contraseña ─────────────────────────────────────────────────

func TestCambiarPassword(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	err := b.uc.CambiarPassword(ctx, "u1", dto.CambiarPasswordRequest{
		PasswordActual: "equivocada",
		NuevaPassword:  "nueva-y-larga",
	})
	assert.ErrorIs(t, err, domain.ErrNoAutorizado)

	err = b.uc.CambiarPassword(ctx, "u1", dto.CambiarPasswordRequest{
		PasswordActual: passwordReal,
		NuevaPassword:  "corta",
	})
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)

	require.NoError(t, b.uc.CambiarPassword(ctx, "u1", dto.CambiarPasswordRequest{
		PasswordActual: passwordReal,
		NuevaPassword:  "nueva-y-larga",
	}))
	u, _ := b.usuarios.GetByID(ctx, "u1")
	assert.False(t, u.DebeCambiarPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("nueva-y-larga")))
}

// ── Recuperación ─────────────────────────────────────────────────────────

func TestRecuperacion_CicloCompleto(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	token, err := b.uc.EmitirTokenRecuperacion(ctx, emailOperador)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// El token nunca se guarda en claro.
	u, _ := b.usuarios.GetByID(ctx, "u1")
	require.NotNil(t, u.TokenRecuperacionHash)
	assert.NotEqual(t, token, *u.TokenRecuperacionHash)

	envios := b.mails.Envios()
	require.Len(t, envios, 1)
	assert.Equal(t, registro.PlantillaTokenRecuperacion, envios[0].Plantilla)
	assert.Equal(t, token, envios[0].Variables["token"])

	// El correo sale con todas las variables que pide la plantilla.
	_, cuerpo, err := mail.Renderizar(envios[0].Plantilla, envios[0].Variables)
	require.NoError(t, err)
	assert.NotContains(t, cuerpo, "{{")
	assert.Contains(t, cuerpo, "Estimado/a Laura:")
	assert.Contains(t, cuerpo, "próximas 1 hora")
	assert.Contains(t, cuerpo, token)

	require.NoError(t, b.uc.ConsumirTokenRecuperacion(ctx, dto.RestablecerPasswordRequest{
		Token:         token,
		NuevaPassword: "recuperada-123",
	}))
	u, _ = b.usuarios.GetByID(ctx, "u1")
	assert.Nil(t, u.TokenRecuperacionHash)
	assert.Nil(t, u.TokenRecuperacionExpira)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("recuperada-123")))

	// De un solo uso.
	err = b.uc.ConsumirTokenRecuperacion(ctx, dto.RestablecerPasswordRequest{
		Token:         token,
		NuevaPassword: "recuperada-456",
	})
	assert.ErrorIs(t, err, domain.ErrTokenInvalido)
}

func TestRecuperacion_EmailDesconocidoNoSeRevela(t *testing.T) {
	b := nuevoBanco(t)

	token, err := b.uc.EmitirTokenRecuperacion(context.Background(), "nadie@example.com")
	require.NoError(t, err, "la operación termina sin error para no delatar cuentas")
	assert.Empty(t, token)
	assert.Empty(t, b.mails.Envios())
}

func TestRecuperacion_TokenVencido(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	token, err := b.uc.EmitirTokenRecuperacion(ctx, emailOperador)
	require.NoError(t, err)

	u, _ := b.usuarios.GetByID(ctx, "u1")
	vencido := time.Now().UTC().Add(-time.Minute)
	u.TokenRecuperacionExpira = &vencido
	require.NoError(t, b.usuarios.Update(ctx, u))

	err = b.uc.ConsumirTokenRecuperacion(ctx, dto.RestablecerPasswordRequest{
		Token:         token,
		NuevaPassword: "recuperada-123",
	})
	assert.ErrorIs(t, err, domain.ErrTokenExpirado)
}

func TestRecuperacion_TokenInvalido(t *testing.T) {
	b := nuevoBanco(t)
	err := b.uc.ConsumirTokenRecuperacion(context.Background(), dto.RestablecerPasswordRequest{
		Token:         "cualquier-cosa",
		NuevaPassword: "recuperada-123",
	})
	assert.ErrorIs(t, err, domain.ErrTokenInvalido)

	err = b.uc.ConsumirTokenRecuperacion(context.Background(), dto.RestablecerPasswordRequest{
		NuevaPassword: "recuperada-123",
	})
	assert.ErrorIs(t, err, domain.ErrTokenInvalido)
}

// ── VerificarPassword ────────────────────────────────────────────────────

func TestVerificarPassword_SinEfectos(t *testing.T) {
	b := nuevoBanco(t)
	ctx := context.Background()

	ok, err := b.uc.VerificarPassword(ctx, emailOperador, passwordReal)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.uc.VerificarPassword(ctx, emailOperador, "equivocada")
	require.NoError(t, err)
	assert.False(t, ok)

	// A diferencia del login, no cuenta intentos fallidos.
	u, _ := b.usuarios.GetByID(ctx, "u1")
	assert.Zero(t, u.IntentosLoginFallidos)

	_, err = b.uc.VerificarPassword(ctx, "nadie@example.com", "x")
	assert.ErrorIs(t, err, domain.ErrNoEncontrado)
}
