package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
)

var _ repository.GeoRepository = (*GeoRepo)(nil)

// GeoRepo implementación del puerto GeoRepository sobre PostgreSQL. Las
// escrituras son upserts por ID georef: el importador corre más de una vez.
type GeoRepo struct {
	db Querier
}

// NewGeoRepository construye el adaptador; acepta pool o tx.
func NewGeoRepository(db Querier) *GeoRepo {
	return &GeoRepo{db: db}
}

func (r *GeoRepo) UpsertProvincia(ctx context.Context, p *entity.Provincia) error {
	query := `
		INSERT INTO provincias (id, nombre) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET nombre = EXCLUDED.nombre`
	if _, err := r.db.Exec(ctx, query, p.ID, p.Nombre); err != nil {
		return fmt.Errorf("upsert provincia: %w", err)
	}
	return nil
}

func (r *GeoRepo) UpsertDepartamento(ctx context.Context, d *entity.Departamento) error {
	query := `
		INSERT INTO departamentos (id, provincia_id, nombre) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET provincia_id = EXCLUDED.provincia_id, nombre = EXCLUDED.nombre`
	if _, err := r.db.Exec(ctx, query, d.ID, d.ProvinciaID, d.Nombre); err != nil {
		return fmt.Errorf("upsert departamento: %w", err)
	}
	return nil
}

func (r *GeoRepo) UpsertMunicipio(ctx context.Context, m *entity.Municipio) error {
	query := `
		INSERT INTO municipios (id, provincia_id, departamento_id, nombre) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET provincia_id = EXCLUDED.provincia_id,
			departamento_id = EXCLUDED.departamento_id, nombre = EXCLUDED.nombre`
	if _, err := r.db.Exec(ctx, query, m.ID, m.ProvinciaID, m.DepartamentoID, m.Nombre); err != nil {
		return fmt.Errorf("upsert municipio: %w", err)
	}
	return nil
}

// UpsertLocalidad preserva municipio_id ya asignado cuando la fuente no lo trae:
// la reparación posterior no debe perderse en cada corrida del importador.
func (r *GeoRepo) UpsertLocalidad(ctx context.Context, l *entity.Localidad) error {
	query := `
		INSERT INTO localidades (id, provincia_id, departamento_id, municipio_id, nombre)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET provincia_id = EXCLUDED.provincia_id,
			departamento_id = EXCLUDED.departamento_id,
			municipio_id = COALESCE(EXCLUDED.municipio_id, localidades.municipio_id),
			nombre = EXCLUDED.nombre`
	if _, err := r.db.Exec(ctx, query, l.ID, l.ProvinciaID, l.DepartamentoID, l.MunicipioID, l.Nombre); err != nil {
		return fmt.Errorf("upsert localidad: %w", err)
	}
	return nil
}

func (r *GeoRepo) GetProvincia(ctx context.Context, id string) (*entity.Provincia, error) {
	var p entity.Provincia
	err := r.db.QueryRow(ctx, `SELECT id, nombre FROM provincias WHERE id = $1`, id).Scan(&p.ID, &p.Nombre)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provincia: %w", err)
	}
	return &p, nil
}

func (r *GeoRepo) GetDepartamento(ctx context.Context, id string) (*entity.Departamento, error) {
	var d entity.Departamento
	err := r.db.QueryRow(ctx,
		`SELECT id, provincia_id, nombre FROM departamentos WHERE id = $1`, id,
	).Scan(&d.ID, &d.ProvinciaID, &d.Nombre)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get departamento: %w", err)
	}
	return &d, nil
}

func (r *GeoRepo) GetMunicipio(ctx context.Context, id string) (*entity.Municipio, error) {
	var m entity.Municipio
	err := r.db.QueryRow(ctx,
		`SELECT id, provincia_id, departamento_id, nombre FROM municipios WHERE id = $1`, id,
	).Scan(&m.ID, &m.ProvinciaID, &m.DepartamentoID, &m.Nombre)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get municipio: %w", err)
	}
	return &m, nil
}

func (r *GeoRepo) GetLocalidad(ctx context.Context, id string) (*entity.Localidad, error) {
	var l entity.Localidad
	err := r.db.QueryRow(ctx,
		`SELECT id, provincia_id, departamento_id, municipio_id, nombre FROM localidades WHERE id = $1`, id,
	).Scan(&l.ID, &l.ProvinciaID, &l.DepartamentoID, &l.MunicipioID, &l.Nombre)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get localidad: %w", err)
	}
	return &l, nil
}

func (r *GeoRepo) ListMunicipios(ctx context.Context, provinciaID string) ([]*entity.Municipio, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, provincia_id, departamento_id, nombre FROM municipios WHERE provincia_id = $1 ORDER BY nombre`,
		provinciaID)
	if err != nil {
		return nil, fmt.Errorf("list municipios: %w", err)
	}
	defer rows.Close()
	var list []*entity.Municipio
	for rows.Next() {
		var m entity.Municipio
		if err := rows.Scan(&m.ID, &m.ProvinciaID, &m.DepartamentoID, &m.Nombre); err != nil {
			return nil, fmt.Errorf("scan municipio: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *GeoRepo) ListLocalidades(ctx context.Context, provinciaID string) ([]*entity.Localidad, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, provincia_id, departamento_id, municipio_id, nombre FROM localidades WHERE provincia_id = $1 ORDER BY nombre`,
		provinciaID)
	if err != nil {
		return nil, fmt.Errorf("list localidades: %w", err)
	}
	defer rows.Close()
	var list []*entity.Localidad
	for rows.Next() {
		var l entity.Localidad
		if err := rows.Scan(&l.ID, &l.ProvinciaID, &l.DepartamentoID, &l.MunicipioID, &l.Nombre); err != nil {
			return nil, fmt.Errorf("scan localidad: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ActualizarMunicipioDeLocalidad fija la referencia municipio de una localidad.
func (r *GeoRepo) ActualizarMunicipioDeLocalidad(ctx context.Context, localidadID, municipioID string) error {
	if _, err := r.db.Exec(ctx,
		`UPDATE localidades SET municipio_id = $2 WHERE id = $1`, localidadID, municipioID); err != nil {
		return fmt.Errorf("actualizar municipio de localidad: %w", err)
	}
	return nil
}
