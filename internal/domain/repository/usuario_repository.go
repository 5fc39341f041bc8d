package repository

import (
	"context"

	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
)

// UsuarioRepository define el puerto de persistencia para Usuario.
// GetByEmail compara contra el email plegado (único sin mayúsculas).
type UsuarioRepository interface {
	Crear(ctx context.Context, u *entity.Usuario) error
	GetByID(ctx context.Context, id string) (*entity.Usuario, error)
	GetByEmail(ctx context.Context, email string) (*entity.Usuario, error)
	// GetByTokenRecuperacion busca por el hash del token de recuperación vigente.
	GetByTokenRecuperacion(ctx context.Context, tokenHash string) (*entity.Usuario, error)
	Update(ctx context.Context, u *entity.Usuario) error
	Eliminar(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Usuario, error)
}

// RolRepository define el puerto de persistencia para Rol.
type RolRepository interface {
	Crear(ctx context.Context, r *entity.Rol) error
	GetByID(ctx context.Context, id string) (*entity.Rol, error)
	GetByNombre(ctx context.Context, nombre string) (*entity.Rol, error)
	List(ctx context.Context) ([]*entity.Rol, error)
}
