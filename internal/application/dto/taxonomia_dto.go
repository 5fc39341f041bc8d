package dto

import "time"

// RubroResponse vista de un rubro.
type RubroResponse struct {
	ID                   string    `json:"id"`
	Nombre               string    `json:"nombre"`
	Tipo                 string    `json:"tipo"`
	Orden                int       `json:"orden"`
	UnidadMedidaEstandar string    `json:"unidad_medida_estandar"`
	Activo               bool      `json:"activo"`
	CreatedAt            time.Time `json:"created_at"`
}

// SubRubroResponse vista de un subrubro.
type SubRubroResponse struct {
	ID      string `json:"id"`
	RubroID string `json:"rubro_id"`
	Nombre  string `json:"nombre"`
	Orden   int    `json:"orden"`
	Activo  bool   `json:"activo"`
}

// CorregirTiposRequest asignaciones id de rubro → tipo canónico.
type CorregirTiposRequest struct {
	Asignaciones map[string]string `json:"asignaciones"`
}

// LimpiarRubrosRequest listas canónicas de nombres por tipo.
type LimpiarRubrosRequest struct {
	Producto []string `json:"producto"`
	Servicio []string `json:"servicio"`
}

// MigrarRubroRequest migración de un rubro obsoleto a su reemplazo.
type MigrarRubroRequest struct {
	RubroViejoID string `json:"rubro_viejo_id"`
	NuevoNombre  string `json:"nuevo_nombre"`
	NuevoTipo    string `json:"nuevo_tipo"`
}

// ResultadoTaxonomia resumen de una operación de integridad.
type ResultadoTaxonomia struct {
	Afectados int      `json:"afectados"`
	Omitidos  []string `json:"omitidos,omitempty"` // ids en uso que se saltearon
}
