package entity

import "time"

// Nombres de roles con semántica especial en el sistema.
const (
	RolAdministrador = "Administrador"
	RolEmpresa       = "Empresa"
	RolConsulta      = "Consulta"
)

// PermisosRol agrupa los flags de capacidades de un rol.
type PermisosRol struct {
	PuedeCrearEmpresas     bool
	PuedeEditarEmpresas    bool
	PuedeEliminarEmpresas  bool
	PuedeExportarDatos     bool
	PuedeImportarDatos     bool
	PuedeVerAuditoria      bool
	PuedeGestionarUsuarios bool
	PuedeAccederAdmin      bool
}

// Rol define un rol del sistema; cada usuario referencia exactamente uno.
type Rol struct {
	ID          string
	Nombre      string
	NivelAcceso int
	Activo      bool
	Permisos    PermisosRol
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
