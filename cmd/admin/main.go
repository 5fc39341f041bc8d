// admin agrupa las tareas de operación del padrón que no pasan por la API:
//
//	admin delete-user -email <email>
//	admin bulk-delete-users [-confirm] <usuario-id>...
//	admin verify-password -email <email> -password <candidata>
//	admin ensure-taxonomy
//	admin resend-credentials -empresa <id> [-reset]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/catamarca-exporta/padron-api/internal/application/auditoria"
	"github.com/catamarca-exporta/padron-api/internal/application/auth"
	"github.com/catamarca-exporta/padron-api/internal/application/registro"
	"github.com/catamarca-exporta/padron-api/internal/application/taxonomia"
	"github.com/catamarca-exporta/padron-api/internal/application/usecase"
	"github.com/catamarca-exporta/padron-api/internal/infrastructure/mail"
	"github.com/catamarca-exporta/padron-api/internal/infrastructure/postgres"
	"github.com/catamarca-exporta/padron-api/pkg/config"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

// actorCLI identifica las acciones de consola en la auditoría.
var actorCLI = auditoria.Actor{UserAgent: "admin-cli"}

type entorno struct {
	ctx         context.Context
	log         *logger.Logger
	usuarioRepo *postgres.UsuarioRepo
	empresaRepo *postgres.EmpresaRepo
	registroUC  *registro.UseCase
	taxonomiaUC *taxonomia.UseCase
	empresaUC   *usecase.EmpresaUseCase
	authUC      *auth.UseCase
}

func main() {
	if len(os.Args) < 2 {
		uso()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("cargar configuración: %v", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fatal("conexión a PostgreSQL: %v", err)
	}
	defer pool.Close()

	rubroRepo := postgres.NewRubroRepository(pool)
	subRubroRepo := postgres.NewSubRubroRepository(pool)
	usuarioRepo := postgres.NewUsuarioRepository(pool)
	rolRepo := postgres.NewRolRepository(pool)
	empresaRepo := postgres.NewEmpresaRepository(pool)
	solicitudRepo := postgres.NewSolicitudRepository(pool)
	auditRepo := postgres.NewAuditoriaRepository(pool)
	geoRepo := postgres.NewGeoRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	notificador := mail.NewNotificador(cfg.SMTP, log)

	env := &entorno{
		ctx:         ctx,
		log:         log,
		usuarioRepo: usuarioRepo,
		empresaRepo: empresaRepo,
		registroUC: registro.NewUseCase(
			txRunner, solicitudRepo, rubroRepo, subRubroRepo, rolRepo,
			usuarioRepo, empresaRepo, geoRepo, notificador, log, cfg.Registro,
		),
		taxonomiaUC: taxonomia.NewUseCase(txRunner, rubroRepo, subRubroRepo, empresaRepo, log),
		empresaUC: usecase.NewEmpresaUseCase(
			txRunner, empresaRepo, usuarioRepo, rubroRepo, subRubroRepo,
			nil, cfg.Densidad, log,
		),
		authUC: auth.NewUseCase(usuarioRepo, rolRepo, auditRepo, notificador, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}, cfg.Registro, log),
	}

	switch os.Args[1] {
	case "delete-user":
		cmdDeleteUser(env, os.Args[2:])
	case "bulk-delete-users":
		cmdBulkDeleteUsers(env, os.Args[2:])
	case "verify-password":
		cmdVerifyPassword(env, os.Args[2:])
	case "ensure-taxonomy":
		cmdEnsureTaxonomy(env)
	case "resend-credentials":
		cmdResendCredentials(env, os.Args[2:])
	default:
		uso()
		os.Exit(2)
	}
}

// cmdDeleteUser borra una cuenta; si la cuenta es propietaria de una empresa,
// borra la empresa con su cascada (que incluye la cuenta).
func cmdDeleteUser(env *entorno, args []string) {
	fs := flag.NewFlagSet("delete-user", flag.ExitOnError)
	email := fs.String("email", "", "email de la cuenta a borrar")
	_ = fs.Parse(args)
	if *email == "" {
		fatal("delete-user: -email es obligatorio")
	}

	u, err := env.usuarioRepo.GetByEmail(env.ctx, *email)
	if err != nil {
		fatal("buscar usuario: %v", err)
	}
	if u == nil {
		fatal("no existe una cuenta con email %s", *email)
	}
	if err := borrarUsuario(env, u.ID); err != nil {
		fatal("borrar usuario: %v", err)
	}
	fmt.Printf("cuenta %s eliminada\n", *email)
}

func borrarUsuario(env *entorno, usuarioID string) error {
	e, err := env.empresaRepo.GetByUsuarioID(env.ctx, usuarioID)
	if err != nil {
		return err
	}
	if e != nil {
		return env.empresaUC.Eliminar(env.ctx, e.ID, actorCLI)
	}
	return env.usuarioRepo.Eliminar(env.ctx, usuarioID)
}

// cmdBulkDeleteUsers borra un lote de cuentas por ID. Exige -confirm:
// sin el flag solo lista lo que borraría. Un ID inexistente aborta la
// corrida completa antes de tocar nada.
func cmdBulkDeleteUsers(env *entorno, args []string) {
	fs := flag.NewFlagSet("bulk-delete-users", flag.ExitOnError)
	confirm := fs.Bool("confirm", false, "ejecutar el borrado (sin esto, solo lista)")
	_ = fs.Parse(args)
	ids := fs.Args()
	if len(ids) == 0 {
		fatal("bulk-delete-users: hace falta al menos un ID de usuario")
	}

	type candidato struct{ id, email string }
	var candidatos []candidato
	for _, id := range ids {
		u, err := env.usuarioRepo.GetByID(env.ctx, id)
		if err != nil {
			fatal("buscar usuario %s: %v", id, err)
		}
		if u == nil {
			fatal("no existe el usuario %s", id)
		}
		candidatos = append(candidatos, candidato{id: u.ID, email: u.Email})
	}

	if !*confirm {
		for _, c := range candidatos {
			fmt.Printf("borraría: %s\n", c.email)
		}
		fmt.Printf("corrida en seco, %d cuentas; repita con -confirm para ejecutar\n", len(candidatos))
		return
	}
	for _, c := range candidatos {
		if err := borrarUsuario(env, c.id); err != nil {
			fatal("borrar %s: %v", c.email, err)
		}
	}
	fmt.Printf("%d cuentas eliminadas\n", len(candidatos))
}

// cmdVerifyPassword comprueba una contraseña sin efectos secundarios (no
// cuenta intentos fallidos ni toca fecha_ultimo_acceso).
func cmdVerifyPassword(env *entorno, args []string) {
	fs := flag.NewFlagSet("verify-password", flag.ExitOnError)
	email := fs.String("email", "", "email de la cuenta")
	password := fs.String("password", "", "contraseña candidata")
	_ = fs.Parse(args)
	if *email == "" || *password == "" {
		fatal("verify-password: -email y -password son obligatorios")
	}

	ok, err := env.authUC.VerificarPassword(env.ctx, *email, *password)
	if err != nil {
		fatal("verificar: %v", err)
	}
	if ok {
		fmt.Println("la contraseña es correcta")
	} else {
		fmt.Println("la contraseña NO es correcta")
		os.Exit(1)
	}
}

// cmdEnsureTaxonomy corre las invariantes del catálogo (rubros "Otro" por
// tipo, subrubro residual por rubro activo).
func cmdEnsureTaxonomy(env *entorno) {
	if err := env.taxonomiaUC.AsegurarInvariantes(env.ctx, actorCLI); err != nil {
		fatal("asegurar taxonomía: %v", err)
	}
	fmt.Println("taxonomía verificada")
}

// cmdResendCredentials reenvía las credenciales de una empresa, sujeto a la
// ventana de espera del workflow.
func cmdResendCredentials(env *entorno, args []string) {
	fs := flag.NewFlagSet("resend-credentials", flag.ExitOnError)
	empresaID := fs.String("empresa", "", "ID de la empresa")
	reset := fs.Bool("reset", false, "volver a derivar la contraseña inicial")
	_ = fs.Parse(args)
	if *empresaID == "" {
		fatal("resend-credentials: -empresa es obligatorio")
	}

	if err := env.registroUC.ReenviarCredenciales(env.ctx, *empresaID, *reset, actorCLI); err != nil {
		fatal("reenviar credenciales: %v", err)
	}
	fmt.Println("credenciales reenviadas")
}

func uso() {
	fmt.Fprintln(os.Stderr, `uso: admin <comando> [flags]

comandos:
  delete-user        -email <email>
  bulk-delete-users  [-confirm] <usuario-id>...
  verify-password    -email <email> -password <candidata>
  ensure-taxonomy
  resend-credentials -empresa <id> [-reset]`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
