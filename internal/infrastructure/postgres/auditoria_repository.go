package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
)

var _ repository.AuditoriaRepository = (*AuditoriaRepo)(nil)

// AuditoriaRepo implementación del puerto AuditoriaRepository sobre PostgreSQL.
// La tabla es solo-inserción; no existen Update ni Delete.
type AuditoriaRepo struct {
	db Querier
}

// NewAuditoriaRepository construye el adaptador; acepta pool o tx.
func NewAuditoriaRepository(db Querier) *AuditoriaRepo {
	return &AuditoriaRepo{db: db}
}

// Crear inserta una entrada. Los cambios se guardan como JSONB.
func (r *AuditoriaRepo) Crear(ctx context.Context, a *entity.AuditoriaLog) error {
	var cambios []byte
	if a.Cambios != nil {
		var err error
		cambios, err = json.Marshal(a.Cambios)
		if err != nil {
			return fmt.Errorf("encode cambios: %w", err)
		}
	}
	query := `
		INSERT INTO auditoria_log (id, usuario_id, accion, modelo, objeto_id, objeto_repr,
			cambios, ip_address, user_agent, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.UsuarioID, a.Accion, a.Modelo, a.ObjetoID, a.ObjetoRepr,
		cambios, a.IPAddress, a.UserAgent, a.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert auditoria: %w", err)
	}
	return nil
}

// List devuelve entradas ordenadas por timestamp descendente; filtros vacíos no filtran.
func (r *AuditoriaRepo) List(ctx context.Context, f repository.FiltroAuditoria, limit, offset int) ([]*entity.AuditoriaLog, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, usuario_id, accion, modelo, objeto_id, objeto_repr,
			cambios, ip_address, user_agent, timestamp
		FROM auditoria_log WHERE 1=1`
	args := []any{}
	n := 0
	arg := func(v any) string {
		n++
		args = append(args, v)
		return fmt.Sprintf("$%d", n)
	}
	if f.Accion != "" {
		query += ` AND accion = ` + arg(f.Accion)
	}
	if f.Modelo != "" {
		query += ` AND modelo = ` + arg(f.Modelo)
	}
	if f.UsuarioID != "" {
		query += ` AND usuario_id = ` + arg(f.UsuarioID)
	}
	query += ` ORDER BY timestamp DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list auditoria: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditoriaLog
	for rows.Next() {
		var a entity.AuditoriaLog
		var cambios []byte
		if err := rows.Scan(
			&a.ID, &a.UsuarioID, &a.Accion, &a.Modelo, &a.ObjetoID, &a.ObjetoRepr,
			&cambios, &a.IPAddress, &a.UserAgent, &a.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan auditoria: %w", err)
		}
		if len(cambios) > 0 {
			if err := json.Unmarshal(cambios, &a.Cambios); err != nil {
				return nil, fmt.Errorf("decode cambios: %w", err)
			}
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
