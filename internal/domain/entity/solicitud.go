package entity

import "time"

// Estados de una solicitud de registro. pending es el único estado no terminal.
const (
	SolicitudPendiente = "pending"
	SolicitudAprobada  = "approved"
	SolicitudRechazada = "rejected"
)

// ContactoSecundario es un contacto adicional declarado en la solicitud.
type ContactoSecundario struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email,omitempty"`
	Telefono string `json:"telefono,omitempty"`
}

// SolicitudRegistro es el pedido público de alta en el padrón. Solo muta por
// transiciones de estado; una vez aprobada nunca se elimina.
type SolicitudRegistro struct {
	ID            string
	FechaCreacion time.Time
	Estado        string // pending, approved, rejected

	RazonSocial          string
	CuitCuil             string
	EmailContacto        string
	Correo               string
	NombreContacto       string
	ApellidoContacto     string
	ContactosSecundarios []ContactoSecundario

	RubroID          string
	SubRubro         *string // nombre declarado, se resuelve al aprobar
	SubRubroProducto *string
	SubRubroServicio *string
	TipoEmpresaValor string

	ProvinciaID    string
	DepartamentoID string
	MunicipioID    *string
	LocalidadID    *string
	Telefono       string

	InteresExportar bool

	MotivoRechazo   *string
	UsuarioCreado   *string // ref Usuario, solo en approved
	EmpresaCreada   *string // ref Empresa, solo en approved
	FechaResolucion *time.Time

	UpdatedAt time.Time
}

// Pendiente indica si la solicitud admite transiciones.
func (s *SolicitudRegistro) Pendiente() bool {
	return s.Estado == SolicitudPendiente
}

// Terminal indica si la solicitud alcanzó un estado inmutable.
func (s *SolicitudRegistro) Terminal() bool {
	return s.Estado == SolicitudAprobada || s.Estado == SolicitudRechazada
}
