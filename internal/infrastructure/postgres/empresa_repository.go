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

var _ repository.EmpresaRepository = (*EmpresaRepo)(nil)

// EmpresaRepo implementación del puerto EmpresaRepository sobre PostgreSQL.
type EmpresaRepo struct {
	db Querier
}

// NewEmpresaRepository construye el adaptador; acepta pool o tx.
func NewEmpresaRepository(db Querier) *EmpresaRepo {
	return &EmpresaRepo{db: db}
}

const empresaCols = `id, razon_social, cuit_cuil, tipo_empresa_valor, usuario_id,
	rubro_id, sub_rubro_id, sub_rubro_producto_id, sub_rubro_servicio_id,
	provincia_id, departamento_id, municipio_id, localidad_id,
	telefono, correo, exporta, importa, certificaciones, certificado_pyme,
	capacidad_productiva, tipo_exporta, destino_exporta, interes_exportar,
	ultima_notificacion_credenciales, created_at, updated_at`

func scanEmpresa(row pgx.Row) (*entity.Empresa, error) {
	var e entity.Empresa
	err := row.Scan(
		&e.ID, &e.RazonSocial, &e.CuitCuil, &e.TipoEmpresaValor, &e.UsuarioID,
		&e.RubroID, &e.SubRubroID, &e.SubRubroProductoID, &e.SubRubroServicioID,
		&e.ProvinciaID, &e.DepartamentoID, &e.MunicipioID, &e.LocalidadID,
		&e.Telefono, &e.Correo, &e.Exporta, &e.Importa, &e.Certificaciones, &e.CertificadoPyme,
		&e.CapacidadProductiva, &e.TipoExporta, &e.DestinoExporta, &e.InteresExportar,
		&e.UltimaNotificacionCredenciales, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Crear persiste una empresa. El CUIT es único en el padrón.
func (r *EmpresaRepo) Crear(ctx context.Context, e *entity.Empresa) error {
	query := `
		INSERT INTO empresas (id, razon_social, cuit_cuil, tipo_empresa_valor, usuario_id,
			rubro_id, sub_rubro_id, sub_rubro_producto_id, sub_rubro_servicio_id,
			provincia_id, departamento_id, municipio_id, localidad_id,
			telefono, correo, exporta, importa, certificaciones, certificado_pyme,
			capacidad_productiva, tipo_exporta, destino_exporta, interes_exportar,
			ultima_notificacion_credenciales, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.RazonSocial, e.CuitCuil, e.TipoEmpresaValor, e.UsuarioID,
		e.RubroID, e.SubRubroID, e.SubRubroProductoID, e.SubRubroServicioID,
		e.ProvinciaID, e.DepartamentoID, e.MunicipioID, e.LocalidadID,
		e.Telefono, e.Correo, e.Exporta, e.Importa, e.Certificaciones, e.CertificadoPyme,
		e.CapacidadProductiva, e.TipoExporta, e.DestinoExporta, e.InteresExportar,
		e.UltimaNotificacionCredenciales, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflicto
		}
		return fmt.Errorf("insert empresa: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *EmpresaRepo) GetByID(ctx context.Context, id string) (*entity.Empresa, error) {
	e, err := scanEmpresa(r.db.QueryRow(ctx, `SELECT `+empresaCols+` FROM empresas WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresa by id: %w", err)
	}
	return e, nil
}

// GetByCuit busca por CUIT (solo dígitos).
func (r *EmpresaRepo) GetByCuit(ctx context.Context, cuit string) (*entity.Empresa, error) {
	e, err := scanEmpresa(r.db.QueryRow(ctx, `SELECT `+empresaCols+` FROM empresas WHERE cuit_cuil = $1`, cuit))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresa by cuit: %w", err)
	}
	return e, nil
}

// GetByUsuarioID busca la empresa asociada a una cuenta (relación uno a uno).
func (r *EmpresaRepo) GetByUsuarioID(ctx context.Context, usuarioID string) (*entity.Empresa, error) {
	e, err := scanEmpresa(r.db.QueryRow(ctx, `SELECT `+empresaCols+` FROM empresas WHERE usuario_id = $1`, usuarioID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresa by usuario: %w", err)
	}
	return e, nil
}

// List pagina empresas según el filtro; los campos vacíos no filtran.
func (r *EmpresaRepo) List(ctx context.Context, f repository.FiltroEmpresas, limit, offset int) ([]*entity.Empresa, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + empresaCols + ` FROM empresas WHERE 1=1`
	args := []any{}
	n := 0
	arg := func(v any) string {
		n++
		args = append(args, v)
		return fmt.Sprintf("$%d", n)
	}
	if f.Tipo != "" {
		query += ` AND tipo_empresa_valor = ` + arg(f.Tipo)
	}
	if f.RubroID != "" {
		query += ` AND rubro_id = ` + arg(f.RubroID)
	}
	if f.DepartamentoID != "" {
		query += ` AND departamento_id = ` + arg(f.DepartamentoID)
	}
	if f.SoloExportan {
		query += ` AND exporta = ` + arg(entity.ExportaSi)
	}
	query += ` ORDER BY razon_social LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list empresas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Empresa
	for rows.Next() {
		e, err := scanEmpresa(rows)
		if err != nil {
			return nil, fmt.Errorf("scan empresa: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Update persiste el estado completo de la empresa.
func (r *EmpresaRepo) Update(ctx context.Context, e *entity.Empresa) error {
	query := `
		UPDATE empresas SET razon_social = $2, cuit_cuil = $3, tipo_empresa_valor = $4,
			usuario_id = $5, rubro_id = $6, sub_rubro_id = $7,
			sub_rubro_producto_id = $8, sub_rubro_servicio_id = $9,
			provincia_id = $10, departamento_id = $11, municipio_id = $12, localidad_id = $13,
			telefono = $14, correo = $15, exporta = $16, importa = $17,
			certificaciones = $18, certificado_pyme = $19, capacidad_productiva = $20,
			tipo_exporta = $21, destino_exporta = $22, interes_exportar = $23,
			ultima_notificacion_credenciales = $24, updated_at = $25
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.RazonSocial, e.CuitCuil, e.TipoEmpresaValor,
		e.UsuarioID, e.RubroID, e.SubRubroID,
		e.SubRubroProductoID, e.SubRubroServicioID,
		e.ProvinciaID, e.DepartamentoID, e.MunicipioID, e.LocalidadID,
		e.Telefono, e.Correo, e.Exporta, e.Importa,
		e.Certificaciones, e.CertificadoPyme, e.CapacidadProductiva,
		e.TipoExporta, e.DestinoExporta, e.InteresExportar,
		e.UltimaNotificacionCredenciales, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflicto
		}
		return fmt.Errorf("update empresa: %w", err)
	}
	return nil
}

// Eliminar borra la empresa en firme.
func (r *EmpresaRepo) Eliminar(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM empresas WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete empresa: %w", err)
	}
	return nil
}

// CountPorTipo devuelve empresas por discriminador y el total general, en la
// misma consulta para que ambos números salgan de un único snapshot.
func (r *EmpresaRepo) CountPorTipo(ctx context.Context) (map[string]int64, int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT tipo_empresa_valor, COUNT(*) FROM empresas GROUP BY tipo_empresa_valor`)
	if err != nil {
		return nil, 0, fmt.Errorf("count empresas por tipo: %w", err)
	}
	defer rows.Close()
	conteos := make(map[string]int64)
	var total int64
	for rows.Next() {
		var tipo string
		var c int64
		if err := rows.Scan(&tipo, &c); err != nil {
			return nil, 0, fmt.Errorf("scan conteo: %w", err)
		}
		conteos[tipo] = c
		total += c
	}
	return conteos, total, rows.Err()
}

// CountPorRubro cuenta empresas que referencian el rubro.
func (r *EmpresaRepo) CountPorRubro(ctx context.Context, rubroID string) (int64, error) {
	var c int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM empresas WHERE rubro_id = $1`, rubroID).Scan(&c)
	if err != nil {
		return 0, fmt.Errorf("count empresas por rubro: %w", err)
	}
	return c, nil
}

// CountPorDepartamento agrupa empresas por departamento.
func (r *EmpresaRepo) CountPorDepartamento(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT departamento_id, COUNT(*) FROM empresas GROUP BY departamento_id`)
	if err != nil {
		return nil, fmt.Errorf("count empresas por departamento: %w", err)
	}
	defer rows.Close()
	conteos := make(map[string]int64)
	for rows.Next() {
		var dep string
		var c int64
		if err := rows.Scan(&dep, &c); err != nil {
			return nil, fmt.Errorf("scan conteo: %w", err)
		}
		conteos[dep] = c
	}
	return conteos, rows.Err()
}

// ReasignarRubro mueve todas las empresas de un rubro a otro en una sola
// sentencia; devuelve filas afectadas.
func (r *EmpresaRepo) ReasignarRubro(ctx context.Context, rubroViejoID, rubroNuevoID string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE empresas SET rubro_id = $2, updated_at = now() WHERE rubro_id = $1`,
		rubroViejoID, rubroNuevoID)
	if err != nil {
		return 0, fmt.Errorf("reasignar rubro: %w", err)
	}
	return tag.RowsAffected(), nil
}
