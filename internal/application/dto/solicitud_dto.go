package dto

import "time"

// ContactoSecundarioRequest contacto adicional declarado en el alta pública.
// Nombre puede venir como cadena única ("Juan Pérez"); se separa al normalizar.
type ContactoSecundarioRequest struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido,omitempty"`
	Email    string `json:"email,omitempty"`
	Telefono string `json:"telefono,omitempty"`
}

// CrearSolicitudRequest payload del alta pública de empresas.
type CrearSolicitudRequest struct {
	RazonSocial      string                      `json:"razon_social"`
	CuitCuil         string                      `json:"cuit_cuil"`
	EmailContacto    string                      `json:"email_contacto"`
	Correo           string                      `json:"correo,omitempty"`
	NombreContacto   string                      `json:"nombre_contacto"`
	ApellidoContacto string                      `json:"apellido_contacto,omitempty"`
	Contactos        []ContactoSecundarioRequest `json:"contactos_secundarios,omitempty"`

	RubroID          string `json:"id_rubro"`
	SubRubro         string `json:"sub_rubro,omitempty"`
	SubRubroProducto string `json:"sub_rubro_producto,omitempty"`
	SubRubroServicio string `json:"sub_rubro_servicio,omitempty"`
	TipoEmpresaValor string `json:"tipo_empresa_valor"`

	ProvinciaID    string `json:"provincia"`
	DepartamentoID string `json:"departamento"`
	MunicipioID    string `json:"municipio,omitempty"`
	LocalidadID    string `json:"localidad,omitempty"`
	Telefono       string `json:"telefono"`

	InteresExportar bool `json:"interes_exportar"`
}

// SolicitudResponse vista de una solicitud de registro.
type SolicitudResponse struct {
	ID               string     `json:"id"`
	FechaCreacion    time.Time  `json:"fecha_creacion"`
	Estado           string     `json:"estado"`
	RazonSocial      string     `json:"razon_social"`
	CuitCuil         string     `json:"cuit_cuil"`
	EmailContacto    string     `json:"email_contacto"`
	NombreContacto   string     `json:"nombre_contacto"`
	ApellidoContacto string     `json:"apellido_contacto"`
	RubroID          string     `json:"id_rubro"`
	TipoEmpresaValor string     `json:"tipo_empresa_valor"`
	MotivoRechazo    *string    `json:"motivo_rechazo,omitempty"`
	UsuarioCreado    *string    `json:"usuario_creado,omitempty"`
	EmpresaCreada    *string    `json:"empresa_creada,omitempty"`
	FechaResolucion  *time.Time `json:"fecha_resolucion,omitempty"`
}

// AprobarSolicitudResponse resultado de la aprobación: los dos registros creados.
type AprobarSolicitudResponse struct {
	Solicitud SolicitudResponse `json:"solicitud"`
	EmpresaID string            `json:"empresa_id"`
	UsuarioID string            `json:"usuario_id"`
}

// RechazarSolicitudRequest motivo del rechazo.
type RechazarSolicitudRequest struct {
	Motivo string `json:"motivo"`
}

// ReenviarCredencialesRequest opciones del reenvío.
type ReenviarCredencialesRequest struct {
	ResetearPassword bool `json:"resetear_password,omitempty"`
}
