package entity

import "time"

// Tipos válidos de rubro. El tipo del subrubro se hereda del rubro.
const (
	RubroProducto = "producto"
	RubroServicio = "servicio"
	RubroMixto    = "mixto"
	RubroOtro     = "otro"
)

// NombreOtro es el nombre canónico del rubro/subrubro comodín.
const NombreOtro = "Otro"

// Rubro representa un sector productivo del padrón (nombre+tipo únicos).
type Rubro struct {
	ID                   string
	Nombre               string
	Tipo                 string // producto, servicio, mixto, otro
	Orden                int
	UnidadMedidaEstandar string // unidad para capacidad productiva (ej. "tn/año")
	Activo               bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TipoRubroValido indica si el tipo pertenece al conjunto permitido.
func TipoRubroValido(tipo string) bool {
	switch tipo {
	case RubroProducto, RubroServicio, RubroMixto, RubroOtro:
		return true
	}
	return false
}

// AdmiteEmpresaProducto indica si el rubro puede respaldar una empresa de
// producto (los rubros "otro" sirven de comodín).
func (r *Rubro) AdmiteEmpresaProducto() bool {
	return r.Tipo == RubroProducto || r.Tipo == RubroOtro
}

// AdmiteEmpresaServicio análogo para empresas de servicio.
func (r *Rubro) AdmiteEmpresaServicio() bool {
	return r.Tipo == RubroServicio || r.Tipo == RubroOtro
}

// SubRubro representa un subsector dentro de un rubro ((rubro_id, nombre) único).
type SubRubro struct {
	ID        string
	RubroID   string
	Nombre    string
	Orden     int
	Activo    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EsOtro indica si el subrubro es el comodín "Otro" de su rubro.
func (s *SubRubro) EsOtro() bool {
	return s.Nombre == NombreOtro
}
