package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	apphttp "github.com/catamarca-exporta/padron-api/internal/interfaces/http"
	pkgjwt "github.com/catamarca-exporta/padron-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "padron-api-test"
	testExpMin    = 60
)

// rolRepoFake devuelve roles fijos por nombre; suficiente para el middleware.
type rolRepoFake struct {
	roles map[string]*entity.Rol
}

func (f *rolRepoFake) Crear(context.Context, *entity.Rol) error { return nil }
func (f *rolRepoFake) GetByID(context.Context, string) (*entity.Rol, error) {
	return nil, nil
}
func (f *rolRepoFake) GetByNombre(_ context.Context, nombre string) (*entity.Rol, error) {
	return f.roles[nombre], nil
}
func (f *rolRepoFake) List(context.Context) ([]*entity.Rol, error) { return nil, nil }

func rolesDePrueba() *rolRepoFake {
	return &rolRepoFake{roles: map[string]*entity.Rol{
		entity.RolAdministrador: {
			Nombre: entity.RolAdministrador, NivelAcceso: 3, Activo: true,
			Permisos: entity.PermisosRol{PuedeVerAuditoria: true, PuedeAccederAdmin: true},
		},
		entity.RolConsulta: {
			Nombre: entity.RolConsulta, NivelAcceso: 1, Activo: true,
		},
		"Suspendido": {
			Nombre: "Suspendido", Activo: false,
			Permisos: entity.PermisosRol{PuedeVerAuditoria: true},
		},
	}}
}

// buildTestApp arma una app Fiber mínima con la cadena completa:
// AuthMiddleware + ExigirPasswordActualizada + RequierePermiso.
func buildTestApp(fn func(entity.PermisosRol) bool) *fiber.App {
	app := fiber.New()
	app.Get("/protegido",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.ExigirPasswordActualizada(),
		apphttp.RequierePermiso(rolesDePrueba(), fn),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "rol": apphttp.GetRol(c)})
		},
	)
	return app
}

func tokenPara(t *testing.T, rol string, debeCambiar bool) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, rol, debeCambiar, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func verAuditoria(p entity.PermisosRol) bool { return p.PuedeVerAuditoria }

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequierePermiso
// ──────────────────────────────────────────────────────────────────────────────

func TestRequierePermiso_AdministradorAccede(t *testing.T) {
	app := buildTestApp(verAuditoria)
	resp := doRequest(t, app, tokenPara(t, entity.RolAdministrador, false))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"un rol con el flag debe poder acceder")

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, entity.RolAdministrador, body["rol"])
}

func TestRequierePermiso_ConsultaBloqueado(t *testing.T) {
	app := buildTestApp(verAuditoria)
	resp := doRequest(t, app, tokenPara(t, entity.RolConsulta, false))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"un rol sin el flag no debe poder acceder")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequierePermiso_RolInactivoBloqueado(t *testing.T) {
	// El rol tiene el flag pero está inactivo: se trata como denegado.
	app := buildTestApp(verAuditoria)
	resp := doRequest(t, app, tokenPara(t, "Suspendido", false))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequierePermiso_RolDesconocidoBloqueado(t *testing.T) {
	app := buildTestApp(verAuditoria)
	resp := doRequest(t, app, tokenPara(t, "NoExiste", false))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	app := buildTestApp(verAuditoria)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(verAuditoria)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"rol":     apphttp.GetRol(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenPara(t, entity.RolAdministrador, false))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, entity.RolAdministrador, body["rol"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ExigirPasswordActualizada
// ──────────────────────────────────────────────────────────────────────────────

func TestCredencialesIniciales_BloqueanOperaciones(t *testing.T) {
	// Cuenta con debe_cambiar_password: cualquier ruta protegida responde 403.
	app := buildTestApp(verAuditoria)
	resp := doRequest(t, app, tokenPara(t, entity.RolAdministrador, true))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MUST_CHANGE_PASSWORD")
}

func TestCredencialesIniciales_NoBloqueanCambioDePassword(t *testing.T) {
	// La ruta de cambio de contraseña no lleva el gate: debe pasar.
	app := fiber.New()
	app.Post("/auth/cambiar-password",
		apphttp.AuthMiddleware(testJWTSecret),
		func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) },
	)

	req := httptest.NewRequest(http.MethodPost, "/auth/cambiar-password", nil)
	req.Header.Set("Authorization", tokenPara(t, entity.RolEmpresa, true))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, entity.RolEmpresa, true, testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, entity.RolEmpresa, claims.Rol)
	assert.True(t, claims.DebeCambiarPassword)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, entity.RolAdministrador, false, testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, entity.RolAdministrador, false, testIssuer, testExpMin)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
