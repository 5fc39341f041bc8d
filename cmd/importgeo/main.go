// importgeo puebla la referencia geográfica desde la API georef
// (apis.datos.gob.ar) para la provincia configurada y luego corre la
// reparación localidad→municipio. Es idempotente: se puede correr de nuevo
// para refrescar los datos.
package main

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/catamarca-exporta/padron-api/internal/application/geografia"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/infrastructure/georef"
	"github.com/catamarca-exporta/padron-api/internal/infrastructure/postgres"
	"github.com/catamarca-exporta/padron-api/pkg/config"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	geoRepo := postgres.NewGeoRepository(pool)
	cliente := georef.NewClient(cfg.Georef, log)
	provinciaID := cfg.Georef.ProvinciaID

	log.Info().Str("provincia", provinciaID).Msg("descargando referencia geográfica")

	// Las dos descargas son independientes; el rate limiter del cliente las
	// mantiene dentro del cupo de la API.
	var municipios []*entity.Municipio
	var provincia *entity.Provincia
	var departamentos []*entity.Departamento
	var localidades []*entity.Localidad

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		municipios, err = cliente.Municipios(gctx, provinciaID)
		return err
	})
	g.Go(func() error {
		var err error
		provincia, departamentos, localidades, err = cliente.Asentamientos(gctx, provinciaID)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("descarga georef")
	}

	// Orden de carga: provincia → departamentos → municipios → localidades,
	// respetando las referencias entre tablas.
	if provincia != nil {
		if err := geoRepo.UpsertProvincia(ctx, provincia); err != nil {
			log.Fatal().Err(err).Msg("upsert provincia")
		}
	}
	for _, d := range departamentos {
		if err := geoRepo.UpsertDepartamento(ctx, d); err != nil {
			log.Fatal().Err(err).Str("departamento", d.Nombre).Msg("upsert departamento")
		}
	}
	for _, m := range municipios {
		if err := geoRepo.UpsertMunicipio(ctx, m); err != nil {
			log.Fatal().Err(err).Str("municipio", m.Nombre).Msg("upsert municipio")
		}
	}
	for _, l := range localidades {
		if err := geoRepo.UpsertLocalidad(ctx, l); err != nil {
			log.Fatal().Err(err).Str("localidad", l.Nombre).Msg("upsert localidad")
		}
	}
	log.Info().
		Int("departamentos", len(departamentos)).
		Int("municipios", len(municipios)).
		Int("localidades", len(localidades)).
		Msg("referencia geográfica cargada")

	reparador := geografia.NewReparador(geoRepo, log)
	asignadas, err := reparador.AsignarMunicipios(ctx, provinciaID)
	if err != nil {
		log.Fatal().Err(err).Msg("reparación localidad→municipio")
	}
	log.Info().Int("asignadas", asignadas).Msg("reparación completada")
}
