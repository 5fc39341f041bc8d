package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/catamarca-exporta/padron-api/internal/application/auditoria"
	"github.com/catamarca-exporta/padron-api/internal/application/auth"
	"github.com/catamarca-exporta/padron-api/internal/application/padron"
	"github.com/catamarca-exporta/padron-api/internal/application/registro"
	"github.com/catamarca-exporta/padron-api/internal/application/taxonomia"
	"github.com/catamarca-exporta/padron-api/internal/application/usecase"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegistroUC  *registro.UseCase
	EmpresaUC   *usecase.EmpresaUseCase
	TaxonomiaUC *taxonomia.UseCase
	AuthUC      *auth.UseCase
	AuditoriaUC *auditoria.UseCase
	PadronUC    *padron.UseCase
	RolRepo     repository.RolRepository
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/recuperar", authHandler.RecuperarPassword)
	authGroup.Post("/restablecer", authHandler.RestablecerPassword)

	// Alta pública de solicitudes y vistas públicas del padrón
	solicitudHandler := NewSolicitudHandler(deps.RegistroUC)
	api.Post("/solicitudes", solicitudHandler.Submit)

	empresaHandler := NewEmpresaHandler(deps.EmpresaUC)
	api.Get("/empresas/conteo", empresaHandler.ConteoPorTipo)
	api.Get("/empresas/estadisticas", empresaHandler.Estadisticas)

	padronHandler := NewPadronHandler(deps.PadronUC)
	api.Get("/padron/pdf", padronHandler.PDF)
	api.Get("/padron/csv", padronHandler.CSV)

	// Rutas autenticadas (requieren Bearer Token)
	conToken := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// El cambio de contraseña es la única operación permitida con
	// credenciales iniciales.
	conToken.Post("/auth/cambiar-password", authHandler.CambiarPassword)

	protegido := conToken.Group("/", ExigirPasswordActualizada())

	// Solicitudes (gestión)
	soloGestion := RequierePermiso(deps.RolRepo, func(p entity.PermisosRol) bool { return p.PuedeCrearEmpresas })
	solicitudes := protegido.Group("/solicitudes", soloGestion)
	solicitudes.Get("/", solicitudHandler.List)
	solicitudes.Get("/:id", solicitudHandler.GetByID)
	solicitudes.Post("/:id/aprobar", solicitudHandler.Aprobar)
	solicitudes.Post("/:id/rechazar", solicitudHandler.Rechazar)
	solicitudes.Delete("/:id", RequierePermiso(deps.RolRepo, func(p entity.PermisosRol) bool { return p.PuedeEliminarEmpresas }), solicitudHandler.Eliminar)

	// Empresas (padrón)
	empresas := protegido.Group("/empresas")
	empresas.Get("/", empresaHandler.List)
	empresas.Get("/:id", empresaHandler.GetByID)
	empresas.Post("/", RequierePermiso(deps.RolRepo, func(p entity.PermisosRol) bool { return p.PuedeCrearEmpresas }), empresaHandler.Crear)
	empresas.Put("/:id", RequierePermiso(deps.RolRepo, func(p entity.PermisosRol) bool { return p.PuedeEditarEmpresas }), empresaHandler.Actualizar)
	empresas.Delete("/:id", RequierePermiso(deps.RolRepo, func(p entity.PermisosRol) bool { return p.PuedeEliminarEmpresas }), empresaHandler.Eliminar)
	empresas.Post("/:id/reenviar-credenciales", soloGestion, solicitudHandler.ReenviarCredenciales)

	// Taxonomía (solo administradores del catálogo)
	taxonomiaHandler := NewTaxonomiaHandler(deps.TaxonomiaUC)
	tax := protegido.Group("/taxonomia", RequierePermiso(deps.RolRepo, func(p entity.PermisosRol) bool { return p.PuedeAccederAdmin }))
	tax.Post("/asegurar-otro", taxonomiaHandler.AsegurarOtro)
	tax.Post("/corregir-tipos", taxonomiaHandler.CorregirTipos)
	tax.Post("/limpiar-rubros", taxonomiaHandler.LimpiarRubros)
	tax.Post("/migrar-rubro", taxonomiaHandler.MigrarRubro)
	tax.Post("/eliminar-inactivos", taxonomiaHandler.EliminarInactivos)

	// Auditoría (lectura restringida)
	auditoriaHandler := NewAuditoriaHandler(deps.AuditoriaUC)
	protegido.Get("/auditoria",
		RequierePermiso(deps.RolRepo, func(p entity.PermisosRol) bool { return p.PuedeVerAuditoria }),
		auditoriaHandler.List)
}
