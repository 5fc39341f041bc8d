package dto

import "time"

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token más la vista del usuario autenticado.
type LoginResponse struct {
	Token string          `json:"token"`
	User  UsuarioResponse `json:"user"`
}

// UsuarioResponse vista de un usuario (nunca incluye hash ni tokens).
type UsuarioResponse struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	Nombre              string     `json:"nombre"`
	Apellido            string     `json:"apellido"`
	RolID               string     `json:"rol_id"`
	Activo              bool       `json:"activo"`
	DebeCambiarPassword bool       `json:"debe_cambiar_password"`
	FechaUltimoAcceso   *time.Time `json:"fecha_ultimo_acceso,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// RecuperarPasswordRequest pide un token de recuperación por email.
type RecuperarPasswordRequest struct {
	Email string `json:"email"`
}

// RestablecerPasswordRequest consume el token de recuperación.
type RestablecerPasswordRequest struct {
	Token         string `json:"token"`
	NuevaPassword string `json:"nueva_password"`
}

// CambiarPasswordRequest cambio de contraseña autenticado (obligatorio en
// el primer acceso de una cuenta Empresa).
type CambiarPasswordRequest struct {
	PasswordActual string `json:"password_actual"`
	NuevaPassword  string `json:"nueva_password"`
}
