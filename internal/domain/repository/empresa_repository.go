package repository

import (
	"context"

	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
)

// FiltroEmpresas acota un listado del padrón; los campos vacíos no filtran.
type FiltroEmpresas struct {
	Tipo           string
	RubroID        string
	DepartamentoID string
	SoloExportan   bool
}

// EmpresaRepository define el puerto de persistencia para Empresa.
type EmpresaRepository interface {
	Crear(ctx context.Context, e *entity.Empresa) error
	GetByID(ctx context.Context, id string) (*entity.Empresa, error)
	GetByCuit(ctx context.Context, cuit string) (*entity.Empresa, error)
	GetByUsuarioID(ctx context.Context, usuarioID string) (*entity.Empresa, error)
	List(ctx context.Context, f FiltroEmpresas, limit, offset int) ([]*entity.Empresa, error)
	Update(ctx context.Context, e *entity.Empresa) error
	Eliminar(ctx context.Context, id string) error

	// CountPorTipo devuelve empresas por discriminador y el total.
	CountPorTipo(ctx context.Context) (map[string]int64, int64, error)
	// CountPorRubro cuenta empresas que referencian el rubro (para InUse).
	CountPorRubro(ctx context.Context, rubroID string) (int64, error)
	// CountPorDepartamento agrupa empresas por departamento (estadísticas de densidad).
	CountPorDepartamento(ctx context.Context) (map[string]int64, error)
	// ReasignarRubro mueve todas las empresas de un rubro a otro; devuelve filas afectadas.
	ReasignarRubro(ctx context.Context, rubroViejoID, rubroNuevoID string) (int64, error)
}
