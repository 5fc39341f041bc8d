package repository

import (
	"context"

	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
)

// RubroRepository define el puerto de persistencia para Rubro (DIP).
type RubroRepository interface {
	Crear(ctx context.Context, r *entity.Rubro) error
	GetByID(ctx context.Context, id string) (*entity.Rubro, error)
	// GetPorNombreTipo busca por la clave natural (nombre, tipo), exacta.
	GetPorNombreTipo(ctx context.Context, nombre, tipo string) (*entity.Rubro, error)
	List(ctx context.Context, soloActivos bool) ([]*entity.Rubro, error)
	Update(ctx context.Context, r *entity.Rubro) error
	Eliminar(ctx context.Context, id string) error
}

// SubRubroRepository define el puerto de persistencia para SubRubro.
type SubRubroRepository interface {
	Crear(ctx context.Context, s *entity.SubRubro) error
	GetByID(ctx context.Context, id string) (*entity.SubRubro, error)
	ListPorRubro(ctx context.Context, rubroID string, soloActivos bool) ([]*entity.SubRubro, error)
	Update(ctx context.Context, s *entity.SubRubro) error
	Eliminar(ctx context.Context, id string) error
	EliminarPorRubro(ctx context.Context, rubroID string) error
}
