package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discriminador de empresa: decide qué slots de subrubro son significativos.
const (
	EmpresaProducto = "producto"
	EmpresaServicio = "servicio"
	EmpresaMixta    = "mixta"
)

// Valores del campo exporta (el padrón histórico lo registra como sí/no textual).
const (
	ExportaSi = "si"
	ExportaNo = "no"
)

// Empresa es el registro central del padrón. Es una variante etiquetada:
// una base común más tres slots de subrubro de los que solo los coherentes
// con TipoEmpresaValor pueden estar poblados (ver ValidarSlots).
type Empresa struct {
	ID               string
	RazonSocial      string
	CuitCuil         string // 11 dígitos, único
	TipoEmpresaValor string // producto, servicio, mixta

	UsuarioID string // cuenta propietaria (rol Empresa, uno a uno)

	RubroID            string
	SubRubroID         *string // producto | servicio
	SubRubroProductoID *string // solo mixta
	SubRubroServicioID *string // solo mixta

	ProvinciaID    string
	DepartamentoID string
	MunicipioID    *string
	LocalidadID    *string

	Telefono string
	Correo   string

	Exporta             string // si | no
	Importa             bool
	Certificaciones     bool
	CertificadoPyme     bool
	CapacidadProductiva *decimal.Decimal // en la unidad estándar del rubro
	TipoExporta         *string
	DestinoExporta      *string
	InteresExportar     bool

	UltimaNotificacionCredenciales *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TipoEmpresaValido indica si el discriminador pertenece al conjunto permitido.
func TipoEmpresaValido(tipo string) bool {
	switch tipo {
	case EmpresaProducto, EmpresaServicio, EmpresaMixta:
		return true
	}
	return false
}

// ValidarSlots verifica que el conjunto de slots poblados coincida exactamente
// con lo que exige el discriminador:
//
//	producto/servicio: SubRubroID poblado, los tipados nulos.
//	mixta:             ambos tipados poblados, SubRubroID nulo.
//
// La compatibilidad de tipo del rubro referenciado la valida el caso de uso,
// que es quien resuelve los subrubros.
func (e *Empresa) ValidarSlots() error {
	switch e.TipoEmpresaValor {
	case EmpresaProducto, EmpresaServicio:
		if e.SubRubroID == nil || e.SubRubroProductoID != nil || e.SubRubroServicioID != nil {
			return errSlots(e.TipoEmpresaValor)
		}
	case EmpresaMixta:
		if e.SubRubroID != nil || e.SubRubroProductoID == nil || e.SubRubroServicioID == nil {
			return errSlots(e.TipoEmpresaValor)
		}
	default:
		return errSlots(e.TipoEmpresaValor)
	}
	return nil
}
