package dto

import "time"

// AuditoriaResponse vista de una entrada del registro de auditoría.
type AuditoriaResponse struct {
	ID         string         `json:"id"`
	UsuarioID  *string        `json:"usuario,omitempty"`
	Accion     string         `json:"accion"`
	Modelo     string         `json:"modelo"`
	ObjetoID   string         `json:"objeto_id"`
	ObjetoRepr string         `json:"objeto_repr"`
	Cambios    map[string]any `json:"cambios,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// AuditoriaListResponse listado paginado de auditoría.
type AuditoriaListResponse struct {
	Items []AuditoriaResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
