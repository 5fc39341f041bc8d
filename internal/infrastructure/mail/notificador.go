// Package mail implementa la frontera de salida de correo del workflow de
// registro: un transporte SMTP real y uno de consola para desarrollo.
package mail

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	gomail "github.com/wneessen/go-mail"

	"github.com/catamarca-exporta/padron-api/internal/application/registro"
	"github.com/catamarca-exporta/padron-api/internal/domain"
	"github.com/catamarca-exporta/padron-api/pkg/config"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

// plantilla de correo: asunto y cuerpo en sintaxis text/template.
type plantilla struct {
	Asunto string
	Cuerpo string
}

// Las plantillas van embebidas: el texto es parte del contrato con las
// empresas y cambia junto con el código. Variables que espera cada una:
//
//	credentials_initial: nombre, razon_social, email, password
//	credentials_resend:  nombre, razon_social, email, password (opcional)
//	recovery_token:      nombre, token, vigencia
//	approval_confirmed:  nombre, razon_social
//	rejection_notice:    nombre, razon_social, motivo
var plantillas = map[string]plantilla{
	registro.PlantillaCredencialesIniciales: {
		Asunto: "Alta aprobada — Padrón de Empresas Exportadoras de Catamarca",
		Cuerpo: "Estimado/a {{.nombre}}:\n\n" +
			"Su solicitud de alta de {{.razon_social}} en el Padrón de Empresas " +
			"Exportadoras fue aprobada.\n\n" +
			"Sus credenciales de acceso son:\n" +
			"  Usuario: {{.email}}\n" +
			"  Contraseña: {{.password}}\n\n" +
			"Por seguridad, el sistema le pedirá cambiar la contraseña en el " +
			"primer ingreso.\n\n" +
			"Ministerio de Producción — Provincia de Catamarca",
	},
	registro.PlantillaCredencialesReenvio: {
		Asunto: "Reenvío de credenciales — Padrón de Empresas Exportadoras",
		Cuerpo: "Estimado/a {{.nombre}}:\n\n" +
			"Le reenviamos las credenciales de acceso de {{.razon_social}}:\n" +
			"  Usuario: {{.email}}\n" +
			"{{if .password}}  Contraseña: {{.password}}\n" +
			"{{else}}  Contraseña: sigue vigente la que usted eligió\n{{end}}" +
			"\nSi usted no solicitó este reenvío, ignore este correo.\n\n" +
			"Ministerio de Producción — Provincia de Catamarca",
	},
	registro.PlantillaTokenRecuperacion: {
		Asunto: "Recuperación de contraseña — Padrón de Empresas Exportadoras",
		Cuerpo: "Estimado/a {{.nombre}}:\n\n" +
			"Recibimos un pedido de recuperación de contraseña para su cuenta.\n" +
			"Use el siguiente código dentro de las próximas {{.vigencia}}:\n\n" +
			"  {{.token}}\n\n" +
			"Si usted no lo solicitó, ignore este correo.\n\n" +
			"Ministerio de Producción — Provincia de Catamarca",
	},
	registro.PlantillaAprobacion: {
		Asunto: "Solicitud aprobada — Padrón de Empresas Exportadoras",
		Cuerpo: "Estimado/a {{.nombre}}:\n\n" +
			"La solicitud de alta de {{.razon_social}} fue aprobada. La persona " +
			"de contacto principal recibirá las credenciales de acceso.\n\n" +
			"Ministerio de Producción — Provincia de Catamarca",
	},
	registro.PlantillaRechazo: {
		Asunto: "Solicitud de alta — Padrón de Empresas Exportadoras",
		Cuerpo: "Estimado/a {{.nombre}}:\n\n" +
			"Su solicitud de alta de {{.razon_social}} no pudo ser aprobada.\n" +
			"Motivo: {{.motivo}}\n\n" +
			"Puede presentar una nueva solicitud corrigiendo lo observado.\n\n" +
			"Ministerio de Producción — Provincia de Catamarca",
	},
}

// Renderizar arma el asunto y el cuerpo de una plantilla con las variables
// dadas. Lo comparten los dos transportes; exportado para que las pruebas de
// los casos de uso puedan verificar el correo que realmente saldría.
func Renderizar(nombre string, variables map[string]string) (asunto, cuerpo string, err error) {
	p, ok := plantillas[nombre]
	if !ok {
		return "", "", fmt.Errorf("%w: plantilla %q", domain.ErrNoSoportado, nombre)
	}
	if variables == nil {
		variables = map[string]string{}
	}
	if asunto, err = rendir(p.Asunto, variables); err != nil {
		return "", "", err
	}
	if cuerpo, err = rendir(p.Cuerpo, variables); err != nil {
		return "", "", err
	}
	return asunto, cuerpo, nil
}

func rendir(texto string, variables map[string]string) (string, error) {
	t, err := template.New("correo").Option("missingkey=zero").Parse(texto)
	if err != nil {
		return "", fmt.Errorf("plantilla inválida: %w", err)
	}
	var b strings.Builder
	if err := t.Execute(&b, variables); err != nil {
		return "", fmt.Errorf("render de plantilla: %w", err)
	}
	return b.String(), nil
}

var _ registro.Notificador = (*SMTPNotificador)(nil)

// SMTPNotificador envía correos por SMTP con STARTTLS.
type SMTPNotificador struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// NewSMTPNotificador construye el transporte SMTP.
func NewSMTPNotificador(cfg config.SMTPConfig, log *logger.Logger) *SMTPNotificador {
	return &SMTPNotificador{cfg: cfg, log: log}
}

// Enviar renderiza la plantilla y despacha el correo. El cliente se abre y
// cierra por envío: el volumen del padrón no justifica una conexión persistente.
func (n *SMTPNotificador) Enviar(ctx context.Context, nombrePlantilla, destinatario string, variables map[string]string) error {
	asunto, cuerpo, err := Renderizar(nombrePlantilla, variables)
	if err != nil {
		return err
	}

	msg := gomail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return fmt.Errorf("%w: remitente inválido: %v", domain.ErrEnvioNotificacion, err)
	}
	if err := msg.To(destinatario); err != nil {
		return fmt.Errorf("%w: destinatario inválido: %v", domain.ErrEnvioNotificacion, err)
	}
	msg.Subject(asunto)
	msg.SetBodyString(gomail.TypeTextPlain, cuerpo)

	opts := []gomail.Option{
		gomail.WithPort(n.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	}
	if n.cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(n.cfg.User),
			gomail.WithPassword(n.cfg.Password),
		)
	}
	cliente, err := gomail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEnvioNotificacion, err)
	}
	if err := cliente.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEnvioNotificacion, err)
	}
	n.log.Info().
		Str("plantilla", nombrePlantilla).
		Str("destinatario", destinatario).
		Msg("correo enviado")
	return nil
}

var _ registro.Notificador = (*ConsolaNotificador)(nil)

// ConsolaNotificador escribe el correo en el log en lugar de enviarlo.
// Es el transporte de desarrollo y de los entornos sin SMTP.
type ConsolaNotificador struct {
	log *logger.Logger
}

// NewConsolaNotificador construye el transporte de consola.
func NewConsolaNotificador(log *logger.Logger) *ConsolaNotificador {
	return &ConsolaNotificador{log: log}
}

// Enviar registra el correo renderizado. Nunca falla por transporte.
func (n *ConsolaNotificador) Enviar(_ context.Context, nombrePlantilla, destinatario string, variables map[string]string) error {
	asunto, cuerpo, err := Renderizar(nombrePlantilla, variables)
	if err != nil {
		return err
	}
	n.log.Info().
		Str("plantilla", nombrePlantilla).
		Str("destinatario", destinatario).
		Str("asunto", asunto).
		Str("cuerpo", cuerpo).
		Msg("correo (consola)")
	return nil
}

// NewNotificador elige el transporte según la configuración.
func NewNotificador(cfg config.SMTPConfig, log *logger.Logger) registro.Notificador {
	if cfg.Transporte == config.TransporteSMTP {
		return NewSMTPNotificador(cfg, log)
	}
	return NewConsolaNotificador(log)
}
