package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/catamarca-exporta/padron-api/internal/domain"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
)

var _ repository.SolicitudRepository = (*SolicitudRepo)(nil)

// SolicitudRepo implementación del puerto SolicitudRepository sobre PostgreSQL.
// Los contactos secundarios se guardan como JSONB.
type SolicitudRepo struct {
	db Querier
}

// NewSolicitudRepository construye el adaptador; acepta pool o tx.
func NewSolicitudRepository(db Querier) *SolicitudRepo {
	return &SolicitudRepo{db: db}
}

const solicitudCols = `id, fecha_creacion, estado, razon_social, cuit_cuil,
	email_contacto, correo, nombre_contacto, apellido_contacto, contactos_secundarios,
	rubro_id, sub_rubro, sub_rubro_producto, sub_rubro_servicio, tipo_empresa_valor,
	provincia_id, departamento_id, municipio_id, localidad_id, telefono,
	interes_exportar, motivo_rechazo, usuario_creado, empresa_creada, fecha_resolucion, updated_at`

func scanSolicitud(row pgx.Row) (*entity.SolicitudRegistro, error) {
	var s entity.SolicitudRegistro
	var contactos []byte
	err := row.Scan(
		&s.ID, &s.FechaCreacion, &s.Estado, &s.RazonSocial, &s.CuitCuil,
		&s.EmailContacto, &s.Correo, &s.NombreContacto, &s.ApellidoContacto, &contactos,
		&s.RubroID, &s.SubRubro, &s.SubRubroProducto, &s.SubRubroServicio, &s.TipoEmpresaValor,
		&s.ProvinciaID, &s.DepartamentoID, &s.MunicipioID, &s.LocalidadID, &s.Telefono,
		&s.InteresExportar, &s.MotivoRechazo, &s.UsuarioCreado, &s.EmpresaCreada, &s.FechaResolucion, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(contactos) > 0 {
		if err := json.Unmarshal(contactos, &s.ContactosSecundarios); err != nil {
			return nil, fmt.Errorf("decode contactos secundarios: %w", err)
		}
	}
	return &s, nil
}

// Crear persiste una solicitud nueva en estado pending.
func (r *SolicitudRepo) Crear(ctx context.Context, s *entity.SolicitudRegistro) error {
	contactos, err := json.Marshal(s.ContactosSecundarios)
	if err != nil {
		return fmt.Errorf("encode contactos secundarios: %w", err)
	}
	query := `
		INSERT INTO solicitudes_registro (id, fecha_creacion, estado, razon_social, cuit_cuil,
			email_contacto, correo, nombre_contacto, apellido_contacto, contactos_secundarios,
			rubro_id, sub_rubro, sub_rubro_producto, sub_rubro_servicio, tipo_empresa_valor,
			provincia_id, departamento_id, municipio_id, localidad_id, telefono,
			interes_exportar, motivo_rechazo, usuario_creado, empresa_creada, fecha_resolucion, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err = r.db.Exec(ctx, query,
		s.ID, s.FechaCreacion, s.Estado, s.RazonSocial, s.CuitCuil,
		s.EmailContacto, s.Correo, s.NombreContacto, s.ApellidoContacto, contactos,
		s.RubroID, s.SubRubro, s.SubRubroProducto, s.SubRubroServicio, s.TipoEmpresaValor,
		s.ProvinciaID, s.DepartamentoID, s.MunicipioID, s.LocalidadID, s.Telefono,
		s.InteresExportar, s.MotivoRechazo, s.UsuarioCreado, s.EmpresaCreada, s.FechaResolucion, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("insert solicitud: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID, sin lock.
func (r *SolicitudRepo) GetByID(ctx context.Context, id string) (*entity.SolicitudRegistro, error) {
	s, err := scanSolicitud(r.db.QueryRow(ctx,
		`SELECT `+solicitudCols+` FROM solicitudes_registro WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get solicitud by id: %w", err)
	}
	return s, nil
}

// GetByIDParaActualizar toma el row lock de la solicitud dentro de la
// transacción en curso. Dos resoluciones concurrentes se serializan acá.
func (r *SolicitudRepo) GetByIDParaActualizar(ctx context.Context, id string) (*entity.SolicitudRegistro, error) {
	s, err := scanSolicitud(r.db.QueryRow(ctx,
		`SELECT `+solicitudCols+` FROM solicitudes_registro WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get solicitud for update: %w", err)
	}
	return s, nil
}

// List pagina solicitudes de la más nueva a la más vieja; estado vacío no filtra.
func (r *SolicitudRepo) List(ctx context.Context, estado string, limit, offset int) ([]*entity.SolicitudRegistro, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + solicitudCols + ` FROM solicitudes_registro`
	args := []any{}
	if estado != "" {
		query += ` WHERE estado = $1`
		args = append(args, estado)
	}
	query += fmt.Sprintf(` ORDER BY fecha_creacion DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list solicitudes: %w", err)
	}
	defer rows.Close()
	var list []*entity.SolicitudRegistro
	for rows.Next() {
		s, err := scanSolicitud(rows)
		if err != nil {
			return nil, fmt.Errorf("scan solicitud: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update persiste el estado completo de la solicitud (transiciones incluidas).
func (r *SolicitudRepo) Update(ctx context.Context, s *entity.SolicitudRegistro) error {
	contactos, err := json.Marshal(s.ContactosSecundarios)
	if err != nil {
		return fmt.Errorf("encode contactos secundarios: %w", err)
	}
	query := `
		UPDATE solicitudes_registro SET estado = $2, razon_social = $3, cuit_cuil = $4,
			email_contacto = $5, correo = $6, nombre_contacto = $7, apellido_contacto = $8,
			contactos_secundarios = $9, rubro_id = $10, sub_rubro = $11,
			sub_rubro_producto = $12, sub_rubro_servicio = $13, tipo_empresa_valor = $14,
			provincia_id = $15, departamento_id = $16, municipio_id = $17, localidad_id = $18,
			telefono = $19, interes_exportar = $20, motivo_rechazo = $21,
			usuario_creado = $22, empresa_creada = $23, fecha_resolucion = $24, updated_at = $25
		WHERE id = $1`
	_, err = r.db.Exec(ctx, query,
		s.ID, s.Estado, s.RazonSocial, s.CuitCuil,
		s.EmailContacto, s.Correo, s.NombreContacto, s.ApellidoContacto,
		contactos, s.RubroID, s.SubRubro,
		s.SubRubroProducto, s.SubRubroServicio, s.TipoEmpresaValor,
		s.ProvinciaID, s.DepartamentoID, s.MunicipioID, s.LocalidadID,
		s.Telefono, s.InteresExportar, s.MotivoRechazo,
		s.UsuarioCreado, s.EmpresaCreada, s.FechaResolucion, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update solicitud: %w", err)
	}
	return nil
}

// Eliminar borra la solicitud. El caso de uso decide antes qué estados
// admiten la baja; acá no se revisa nada.
func (r *SolicitudRepo) Eliminar(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM solicitudes_registro WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete solicitud: %w", err)
	}
	return nil
}
