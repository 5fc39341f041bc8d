package repository

import (
	"context"

	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
)

// SolicitudRepository define el puerto de persistencia para SolicitudRegistro.
type SolicitudRepository interface {
	Crear(ctx context.Context, s *entity.SolicitudRegistro) error
	GetByID(ctx context.Context, id string) (*entity.SolicitudRegistro, error)
	// GetByIDParaActualizar toma el row lock de la solicitud (SELECT ... FOR UPDATE)
	// dentro de la transacción en curso; linealiza las transiciones de estado.
	GetByIDParaActualizar(ctx context.Context, id string) (*entity.SolicitudRegistro, error)
	List(ctx context.Context, estado string, limit, offset int) ([]*entity.SolicitudRegistro, error)
	Update(ctx context.Context, s *entity.SolicitudRegistro) error
	Eliminar(ctx context.Context, id string) error
}
