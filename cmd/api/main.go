package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/catamarca-exporta/padron-api/internal/application/auditoria"
	"github.com/catamarca-exporta/padron-api/internal/application/auth"
	"github.com/catamarca-exporta/padron-api/internal/application/padron"
	"github.com/catamarca-exporta/padron-api/internal/application/registro"
	"github.com/catamarca-exporta/padron-api/internal/application/taxonomia"
	"github.com/catamarca-exporta/padron-api/internal/application/usecase"
	infracache "github.com/catamarca-exporta/padron-api/internal/infrastructure/cache"
	"github.com/catamarca-exporta/padron-api/internal/infrastructure/mail"
	infrapdf "github.com/catamarca-exporta/padron-api/internal/infrastructure/pdf"
	"github.com/catamarca-exporta/padron-api/internal/infrastructure/postgres"
	httpRouter "github.com/catamarca-exporta/padron-api/internal/interfaces/http"
	"github.com/catamarca-exporta/padron-api/pkg/config"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	if err := cfg.SMTP.Validar(); err != nil {
		panic(err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
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

	registroUC := registro.NewUseCase(
		txRunner, solicitudRepo, rubroRepo, subRubroRepo, rolRepo,
		usuarioRepo, empresaRepo, geoRepo, notificador, log, cfg.Registro,
	)
	taxonomiaUC := taxonomia.NewUseCase(txRunner, rubroRepo, subRubroRepo, empresaRepo, log)

	// Cache de estadísticas: opcional, la app funciona sin Redis.
	var cacheEst usecase.CacheEstadisticas
	if c := infracache.NewRedisEstadisticas(cfg.Cache, log); c != nil {
		cacheEst = c
		defer c.Close()
	}
	empresaUC := usecase.NewEmpresaUseCase(
		txRunner, empresaRepo, usuarioRepo, rubroRepo, subRubroRepo,
		cacheEst, cfg.Densidad, log,
	)

	authUC := auth.NewUseCase(usuarioRepo, rolRepo, auditRepo, notificador, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Registro, log)

	auditoriaUC := auditoria.NewUseCase(auditRepo)

	pdfGenerator := infrapdf.NewMarotoPadronGenerator()
	padronUC := padron.NewUseCase(empresaRepo, rubroRepo, subRubroRepo, geoRepo, pdfGenerator, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // la exportación PDF puede tardar
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Padrón de Empresas Exportadoras",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegistroUC:  registroUC,
		EmpresaUC:   empresaUC,
		TaxonomiaUC: taxonomiaUC,
		AuthUC:      authUC,
		AuditoriaUC: auditoriaUC,
		PadronUC:    padronUC,
		RolRepo:     rolRepo,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
