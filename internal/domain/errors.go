package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNoEncontrado        = errors.New("recurso no encontrado")
	ErrEntradaInvalida     = errors.New("entrada inválida")
	ErrInvarianteViolada   = errors.New("invariante de empresa violada")
	ErrTransicionInvalida  = errors.New("transición de estado no permitida")
	ErrEnUso               = errors.New("el recurso está en uso")
	ErrMuyPronto           = errors.New("reenvío dentro de la ventana de espera")
	ErrTokenExpirado       = errors.New("token de recuperación expirado")
	ErrTokenInvalido       = errors.New("token de recuperación inválido")
	ErrConflicto           = errors.New("conflicto con el estado actual")
	ErrNoSoportado         = errors.New("operación no soportada")
	ErrDuplicado           = errors.New("recurso duplicado")
	ErrEmailYaRegistrado   = errors.New("el email ya está registrado")
	ErrNoAutorizado        = errors.New("no autorizado")
	ErrAccesoDenegado      = errors.New("acceso denegado")
	ErrUsuarioBloqueado    = errors.New("usuario bloqueado temporalmente")
	ErrDebeCambiarPassword = errors.New("debe cambiar la contraseña inicial")
	ErrEnvioNotificacion   = errors.New("fallo de transporte al enviar la notificación")
)
