package repository

import (
	"context"

	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
)

// GeoRepository define el puerto de la referencia geográfica. El núcleo la
// lee; el importador georef y la rutina de reparación son los únicos que escriben.
type GeoRepository interface {
	UpsertProvincia(ctx context.Context, p *entity.Provincia) error
	UpsertDepartamento(ctx context.Context, d *entity.Departamento) error
	UpsertMunicipio(ctx context.Context, m *entity.Municipio) error
	UpsertLocalidad(ctx context.Context, l *entity.Localidad) error

	GetProvincia(ctx context.Context, id string) (*entity.Provincia, error)
	GetDepartamento(ctx context.Context, id string) (*entity.Departamento, error)
	GetMunicipio(ctx context.Context, id string) (*entity.Municipio, error)
	GetLocalidad(ctx context.Context, id string) (*entity.Localidad, error)

	ListMunicipios(ctx context.Context, provinciaID string) ([]*entity.Municipio, error)
	ListLocalidades(ctx context.Context, provinciaID string) ([]*entity.Localidad, error)

	// ActualizarMunicipioDeLocalidad fija la referencia municipio de una localidad.
	ActualizarMunicipioDeLocalidad(ctx context.Context, localidadID, municipioID string) error
}
