package repository

import (
	"context"

	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
)

// FiltroAuditoria acota la lectura del registro; campos vacíos no filtran.
type FiltroAuditoria struct {
	Accion    string
	Modelo    string
	UsuarioID string
}

// AuditoriaRepository es el puerto del registro de auditoría. Solo inserta y
// lee: no existen Update ni Delete por contrato.
type AuditoriaRepository interface {
	Crear(ctx context.Context, a *entity.AuditoriaLog) error
	// List devuelve entradas ordenadas por timestamp descendente.
	List(ctx context.Context, f FiltroAuditoria, limit, offset int) ([]*entity.AuditoriaLog, error)
}
