package registro

import (
	"context"

	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la aprobación (usuario +
// empresa + transición + auditoría) se persista como una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		solicitudRepo repository.SolicitudRepository,
		usuarioRepo repository.UsuarioRepository,
		empresaRepo repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error) error
}

// Plantillas de notificación que el workflow emite.
const (
	PlantillaCredencialesIniciales = "credentials_initial"
	PlantillaCredencialesReenvio   = "credentials_resend"
	PlantillaTokenRecuperacion     = "recovery_token"
	PlantillaAprobacion            = "approval_confirmed"
	PlantillaRechazo               = "rejection_notice"
)

// Notificador es la frontera de salida de correo. El workflow lo invoca
// después del commit: un fallo de transporte se registra y no revierte nada;
// el reenvío de credenciales existe para recuperarse de esa pérdida.
type Notificador interface {
	Enviar(ctx context.Context, plantilla, destinatario string, variables map[string]string) error
}
