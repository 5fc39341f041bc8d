// Package geografia contiene la rutina de reparación de la referencia
// geográfica: asignar municipio a las localidades que comparten nombre con
// un municipio de su mismo departamento.
package geografia

import (
	"context"

	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
	"github.com/catamarca-exporta/padron-api/internal/domain/texto"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

// Reparador aplica la regla de integridad localidad→municipio.
type Reparador struct {
	geoRepo repository.GeoRepository
	log     *logger.Logger
}

// NewReparador construye la rutina con el puerto geográfico.
func NewReparador(geoRepo repository.GeoRepository, log *logger.Logger) *Reparador {
	return &Reparador{geoRepo: geoRepo, log: log}
}

// AsignarMunicipios recorre las localidades de la provincia: cuando una
// localidad sin municipio (o con otro asignado) empata por nombre con un
// municipio de su departamento, fija esa referencia. No inventa municipios;
// una localidad sin coincidencia queda como está (estado legal). Idempotente.
func (r *Reparador) AsignarMunicipios(ctx context.Context, provinciaID string) (int, error) {
	municipios, err := r.geoRepo.ListMunicipios(ctx, provinciaID)
	if err != nil {
		return 0, err
	}
	// índice (departamento, nombre canónico) → municipio
	porDeptoNombre := make(map[string]string, len(municipios))
	for _, m := range municipios {
		porDeptoNombre[m.DepartamentoID+"|"+texto.Clave(m.Nombre)] = m.ID
	}

	localidades, err := r.geoRepo.ListLocalidades(ctx, provinciaID)
	if err != nil {
		return 0, err
	}
	asignadas := 0
	for _, l := range localidades {
		municipioID, ok := porDeptoNombre[l.DepartamentoID+"|"+texto.Clave(l.Nombre)]
		if !ok {
			continue
		}
		if l.MunicipioID != nil && *l.MunicipioID == municipioID {
			continue
		}
		if err := r.geoRepo.ActualizarMunicipioDeLocalidad(ctx, l.ID, municipioID); err != nil {
			return asignadas, err
		}
		r.log.Debug().Str("localidad", l.Nombre).Str("municipio", municipioID).
			Msg("municipio asignado por coincidencia de nombre")
		asignadas++
	}
	return asignadas, nil
}
