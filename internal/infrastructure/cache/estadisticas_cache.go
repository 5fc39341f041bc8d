// Package cache implementa el cache de estadísticas del padrón sobre Redis.
// Es best-effort: cualquier error de Redis se registra y la operación sigue
// contra la base.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/catamarca-exporta/padron-api/internal/application/dto"
	"github.com/catamarca-exporta/padron-api/internal/application/usecase"
	"github.com/catamarca-exporta/padron-api/pkg/config"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

const claveEstadisticas = "padron:estadisticas"

var _ usecase.CacheEstadisticas = (*RedisEstadisticas)(nil)

// RedisEstadisticas guarda la respuesta de estadísticas serializada en una
// única clave con TTL.
type RedisEstadisticas struct {
	cliente *redis.Client
	ttl     time.Duration
	log     *logger.Logger
}

// NewRedisEstadisticas construye el cache. Devuelve nil si está deshabilitado:
// el caso de uso tolera un cache nulo.
func NewRedisEstadisticas(cfg config.CacheConfig, log *logger.Logger) *RedisEstadisticas {
	if !cfg.Habilitado {
		return nil
	}
	cliente := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisEstadisticas{cliente: cliente, ttl: ttl, log: log}
}

// Get devuelve la entrada cacheada, si existe y decodifica.
func (c *RedisEstadisticas) Get(ctx context.Context) (*dto.EstadisticasResponse, bool) {
	datos, err := c.cliente.Get(ctx, claveEstadisticas).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("cache de estadísticas: lectura falló")
		}
		return nil, false
	}
	var resp dto.EstadisticasResponse
	if err := json.Unmarshal(datos, &resp); err != nil {
		c.log.Warn().Err(err).Msg("cache de estadísticas: entrada corrupta, se descarta")
		c.Invalidar(ctx)
		return nil, false
	}
	return &resp, true
}

// Set guarda la entrada con el TTL configurado.
func (c *RedisEstadisticas) Set(ctx context.Context, e *dto.EstadisticasResponse) {
	datos, err := json.Marshal(e)
	if err != nil {
		c.log.Warn().Err(err).Msg("cache de estadísticas: serialización falló")
		return
	}
	if err := c.cliente.Set(ctx, claveEstadisticas, datos, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("cache de estadísticas: escritura falló")
	}
}

// Invalidar borra la entrada; se llama en cada escritura del padrón.
func (c *RedisEstadisticas) Invalidar(ctx context.Context) {
	if err := c.cliente.Del(ctx, claveEstadisticas).Err(); err != nil {
		c.log.Warn().Err(err).Msg("cache de estadísticas: invalidación falló")
	}
}

// Close cierra la conexión con Redis.
func (c *RedisEstadisticas) Close() error {
	return c.cliente.Close()
}
