package entity

import "time"

// Acciones registradas en la auditoría.
const (
	AccionCrear      = "CREATE"
	AccionActualizar = "UPDATE"
	AccionEliminar   = "DELETE"
	AccionAprobar    = "APPROVE"
	AccionRechazar   = "REJECT"
	AccionReenviar   = "RESEND"
	AccionLogin      = "LOGIN"
)

// AuditoriaLog es una entrada inmutable del registro de auditoría: quién hizo
// qué, sobre qué registro y con qué cambios. Solo se inserta y se lee.
type AuditoriaLog struct {
	ID         string
	UsuarioID  *string // nil en acciones anónimas (alta pública)
	Accion     string
	Modelo     string
	ObjetoID   string
	ObjetoRepr string
	Cambios    map[string]any
	IPAddress  string
	UserAgent  string
	Timestamp  time.Time
}

// NuevaAuditoria arma una entrada con timestamp actual.
func NuevaAuditoria(usuarioID *string, accion, modelo, objetoID, objetoRepr string, cambios map[string]any) *AuditoriaLog {
	return &AuditoriaLog{
		UsuarioID:  usuarioID,
		Accion:     accion,
		Modelo:     modelo,
		ObjetoID:   objetoID,
		ObjetoRepr: objetoRepr,
		Cambios:    cambios,
		Timestamp:  time.Now().UTC(),
	}
}
