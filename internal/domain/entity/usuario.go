package entity

import (
	"strings"
	"time"
)

// Usuario representa una cuenta del sistema. El email es único sin distinguir
// mayúsculas; se guarda siempre plegado (ver NormalizarEmail).
type Usuario struct {
	ID                      string
	Email                   string
	Nombre                  string
	Apellido                string
	PasswordHash            string // bcrypt, nunca plano después de persistir
	RolID                   string
	Activo                  bool
	DebeCambiarPassword     bool
	TokenRecuperacionHash   *string
	TokenRecuperacionExpira *time.Time
	FechaUltimoAcceso       *time.Time
	IntentosLoginFallidos   int
	BloqueadoHasta          *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// NormalizarEmail pliega el email a minúsculas y recorta espacios.
func NormalizarEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Bloqueado indica si la cuenta está dentro de una ventana de bloqueo.
func (u *Usuario) Bloqueado(ahora time.Time) bool {
	return u.BloqueadoHasta != nil && ahora.Before(*u.BloqueadoHasta)
}

// SepararNombreCompleto divide un nombre recibido como cadena única:
// el primer término es el nombre, el resto el apellido.
// "Juan Pérez" → ("Juan", "Pérez"); "Ana" → ("Ana", "").
func SepararNombreCompleto(completo string) (nombre, apellido string) {
	completo = strings.Join(strings.Fields(completo), " ")
	if completo == "" {
		return "", ""
	}
	partes := strings.SplitN(completo, " ", 2)
	if len(partes) == 1 {
		return partes[0], ""
	}
	return partes[0], partes[1]
}
