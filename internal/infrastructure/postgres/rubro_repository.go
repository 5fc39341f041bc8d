package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/catamarca-exporta/padron-api/internal/domain"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
)

var _ repository.RubroRepository = (*RubroRepo)(nil)

// RubroRepo implementación del puerto RubroRepository sobre PostgreSQL.
type RubroRepo struct {
	db Querier
}

// NewRubroRepository construye el adaptador; acepta pool o tx.
func NewRubroRepository(db Querier) *RubroRepo {
	return &RubroRepo{db: db}
}

const rubroCols = `id, nombre, tipo, orden, unidad_medida_estandar, activo, created_at, updated_at`

// Crear persiste un rubro. (nombre, tipo) es único.
func (r *RubroRepo) Crear(ctx context.Context, e *entity.Rubro) error {
	query := `
		INSERT INTO rubros (id, nombre, tipo, orden, unidad_medida_estandar, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.Nombre, e.Tipo, e.Orden, e.UnidadMedidaEstandar, e.Activo, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("insert rubro: %w", err)
	}
	return nil
}

// GetByID obtiene un rubro por ID.
func (r *RubroRepo) GetByID(ctx context.Context, id string) (*entity.Rubro, error) {
	var e entity.Rubro
	err := r.db.QueryRow(ctx, `SELECT `+rubroCols+` FROM rubros WHERE id = $1`, id).Scan(
		&e.ID, &e.Nombre, &e.Tipo, &e.Orden, &e.UnidadMedidaEstandar, &e.Activo, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rubro by id: %w", err)
	}
	return &e, nil
}

// GetPorNombreTipo busca por clave natural exacta.
func (r *RubroRepo) GetPorNombreTipo(ctx context.Context, nombre, tipo string) (*entity.Rubro, error) {
	var e entity.Rubro
	err := r.db.QueryRow(ctx,
		`SELECT `+rubroCols+` FROM rubros WHERE nombre = $1 AND tipo = $2`, nombre, tipo,
	).Scan(&e.ID, &e.Nombre, &e.Tipo, &e.Orden, &e.UnidadMedidaEstandar, &e.Activo, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rubro by nombre+tipo: %w", err)
	}
	return &e, nil
}

// List lista rubros, opcionalmente solo los activos, ordenados por orden.
func (r *RubroRepo) List(ctx context.Context, soloActivos bool) ([]*entity.Rubro, error) {
	query := `SELECT ` + rubroCols + ` FROM rubros`
	if soloActivos {
		query += ` WHERE activo = true`
	}
	query += ` ORDER BY orden, nombre`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rubros: %w", err)
	}
	defer rows.Close()
	var list []*entity.Rubro
	for rows.Next() {
		var e entity.Rubro
		if err := rows.Scan(&e.ID, &e.Nombre, &e.Tipo, &e.Orden, &e.UnidadMedidaEstandar, &e.Activo, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rubro: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// Update actualiza un rubro.
func (r *RubroRepo) Update(ctx context.Context, e *entity.Rubro) error {
	query := `
		UPDATE rubros SET nombre = $2, tipo = $3, orden = $4, unidad_medida_estandar = $5, activo = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query, e.ID, e.Nombre, e.Tipo, e.Orden, e.UnidadMedidaEstandar, e.Activo, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("update rubro: %w", err)
	}
	return nil
}

// Eliminar borra un rubro en firme.
func (r *RubroRepo) Eliminar(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM rubros WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el rubro %s todavía tiene empresas o subrubros", domain.ErrEnUso, id)
		}
		return fmt.Errorf("delete rubro: %w", err)
	}
	return nil
}

var _ repository.SubRubroRepository = (*SubRubroRepo)(nil)

// SubRubroRepo implementación del puerto SubRubroRepository sobre PostgreSQL.
type SubRubroRepo struct {
	db Querier
}

// NewSubRubroRepository construye el adaptador; acepta pool o tx.
func NewSubRubroRepository(db Querier) *SubRubroRepo {
	return &SubRubroRepo{db: db}
}

const subRubroCols = `id, rubro_id, nombre, orden, activo, created_at, updated_at`

// Crear persiste un subrubro. (rubro_id, nombre) es único.
func (r *SubRubroRepo) Crear(ctx context.Context, e *entity.SubRubro) error {
	query := `
		INSERT INTO subrubros (id, rubro_id, nombre, orden, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query, e.ID, e.RubroID, e.Nombre, e.Orden, e.Activo, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("insert subrubro: %w", err)
	}
	return nil
}

// GetByID obtiene un subrubro por ID.
func (r *SubRubroRepo) GetByID(ctx context.Context, id string) (*entity.SubRubro, error) {
	var e entity.SubRubro
	err := r.db.QueryRow(ctx, `SELECT `+subRubroCols+` FROM subrubros WHERE id = $1`, id).Scan(
		&e.ID, &e.RubroID, &e.Nombre, &e.Orden, &e.Activo, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subrubro by id: %w", err)
	}
	return &e, nil
}

// ListPorRubro lista los subrubros de un rubro ordenados por orden.
func (r *SubRubroRepo) ListPorRubro(ctx context.Context, rubroID string, soloActivos bool) ([]*entity.SubRubro, error) {
	query := `SELECT ` + subRubroCols + ` FROM subrubros WHERE rubro_id = $1`
	if soloActivos {
		query += ` AND activo = true`
	}
	query += ` ORDER BY orden, nombre`
	rows, err := r.db.Query(ctx, query, rubroID)
	if err != nil {
		return nil, fmt.Errorf("list subrubros: %w", err)
	}
	defer rows.Close()
	var list []*entity.SubRubro
	for rows.Next() {
		var e entity.SubRubro
		if err := rows.Scan(&e.ID, &e.RubroID, &e.Nombre, &e.Orden, &e.Activo, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan subrubro: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// Update actualiza un subrubro.
func (r *SubRubroRepo) Update(ctx context.Context, e *entity.SubRubro) error {
	query := `
		UPDATE subrubros SET nombre = $2, orden = $3, activo = $4, updated_at = $5
		WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, e.ID, e.Nombre, e.Orden, e.Activo, e.UpdatedAt); err != nil {
		return fmt.Errorf("update subrubro: %w", err)
	}
	return nil
}

// Eliminar borra un subrubro en firme.
func (r *SubRubroRepo) Eliminar(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM subrubros WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subrubro: %w", err)
	}
	return nil
}

// EliminarPorRubro borra todos los subrubros de un rubro.
func (r *SubRubroRepo) EliminarPorRubro(ctx context.Context, rubroID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM subrubros WHERE rubro_id = $1`, rubroID); err != nil {
		return fmt.Errorf("delete subrubros by rubro: %w", err)
	}
	return nil
}
