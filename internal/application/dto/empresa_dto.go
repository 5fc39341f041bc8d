package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CrearEmpresaRequest alta directa de empresa (operadores con permiso).
type CrearEmpresaRequest struct {
	RazonSocial      string `json:"razon_social"`
	CuitCuil         string `json:"cuit_cuil"`
	TipoEmpresaValor string `json:"tipo_empresa_valor"`
	UsuarioID        string `json:"id_usuario"`

	RubroID            string  `json:"id_rubro"`
	SubRubroID         *string `json:"id_subrubro,omitempty"`
	SubRubroProductoID *string `json:"id_subrubro_producto,omitempty"`
	SubRubroServicioID *string `json:"id_subrubro_servicio,omitempty"`

	ProvinciaID    string  `json:"provincia"`
	DepartamentoID string  `json:"departamento"`
	MunicipioID    *string `json:"municipio,omitempty"`
	LocalidadID    *string `json:"localidad,omitempty"`

	Telefono string `json:"telefono"`
	Correo   string `json:"correo"`

	Exporta             string           `json:"exporta"` // si | no
	Importa             bool             `json:"importa"`
	Certificaciones     bool             `json:"certificaciones"`
	CertificadoPyme     bool             `json:"certificadopyme"`
	CapacidadProductiva *decimal.Decimal `json:"capacidadproductiva,omitempty"`
	TipoExporta         *string          `json:"tipoexporta,omitempty"`
	DestinoExporta      *string          `json:"destinoexporta,omitempty"`
	InteresExportar     bool             `json:"interes_exportar"`
}

// ActualizarEmpresaRequest patch parcial; el discriminador no puede cambiar.
type ActualizarEmpresaRequest struct {
	RazonSocial         *string          `json:"razon_social,omitempty"`
	Telefono            *string          `json:"telefono,omitempty"`
	Correo              *string          `json:"correo,omitempty"`
	RubroID             *string          `json:"id_rubro,omitempty"`
	SubRubroID          *string          `json:"id_subrubro,omitempty"`
	SubRubroProductoID  *string          `json:"id_subrubro_producto,omitempty"`
	SubRubroServicioID  *string          `json:"id_subrubro_servicio,omitempty"`
	TipoEmpresaValor    *string          `json:"tipo_empresa_valor,omitempty"` // rechazado con NotSupported
	Exporta             *string          `json:"exporta,omitempty"`
	Importa             *bool            `json:"importa,omitempty"`
	Certificaciones     *bool            `json:"certificaciones,omitempty"`
	CertificadoPyme     *bool            `json:"certificadopyme,omitempty"`
	CapacidadProductiva *decimal.Decimal `json:"capacidadproductiva,omitempty"`
	TipoExporta         *string          `json:"tipoexporta,omitempty"`
	DestinoExporta      *string          `json:"destinoexporta,omitempty"`
	InteresExportar     *bool            `json:"interes_exportar,omitempty"`
}

// EmpresaResponse vista pública de una empresa del padrón.
type EmpresaResponse struct {
	ID                  string           `json:"id"`
	RazonSocial         string           `json:"razon_social"`
	CuitCuil            string           `json:"cuit_cuil"`
	TipoEmpresaValor    string           `json:"tipo_empresa_valor"`
	UsuarioID           string           `json:"id_usuario"`
	RubroID             string           `json:"id_rubro"`
	SubRubroID          *string          `json:"id_subrubro,omitempty"`
	SubRubroProductoID  *string          `json:"id_subrubro_producto,omitempty"`
	SubRubroServicioID  *string          `json:"id_subrubro_servicio,omitempty"`
	ProvinciaID         string           `json:"provincia"`
	DepartamentoID      string           `json:"departamento"`
	MunicipioID         *string          `json:"municipio,omitempty"`
	LocalidadID         *string          `json:"localidad,omitempty"`
	Telefono            string           `json:"telefono"`
	Correo              string           `json:"correo"`
	Exporta             string           `json:"exporta"`
	Importa             bool             `json:"importa"`
	Certificaciones     bool             `json:"certificaciones"`
	CertificadoPyme     bool             `json:"certificadopyme"`
	CapacidadProductiva *decimal.Decimal `json:"capacidadproductiva,omitempty"`
	TipoExporta         *string          `json:"tipoexporta,omitempty"`
	DestinoExporta      *string          `json:"destinoexporta,omitempty"`
	InteresExportar     bool             `json:"interes_exportar"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// EmpresaListResponse listado paginado.
type EmpresaListResponse struct {
	Items []EmpresaResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ConteoPorTipoResponse conteo por discriminador con verificación de consistencia.
type ConteoPorTipoResponse struct {
	Producto    int64 `json:"producto"`
	Servicio    int64 `json:"servicio"`
	Mixta       int64 `json:"mixta"`
	Total       int64 `json:"total"`
	Consistente bool  `json:"consistente"`
}

// DensidadDepartamento binning de empresas-por-departamento.
type DensidadDepartamento struct {
	DepartamentoID string `json:"departamento"`
	Empresas       int64  `json:"empresas"`
	Densidad       string `json:"densidad"` // baja, media, alta, muy_alta
}

// EstadisticasResponse estadísticas del padrón por departamento.
type EstadisticasResponse struct {
	Departamentos []DensidadDepartamento `json:"departamentos"`
}
