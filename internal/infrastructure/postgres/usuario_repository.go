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

var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

// UsuarioRepo implementación del puerto UsuarioRepository sobre PostgreSQL.
type UsuarioRepo struct {
	db Querier
}

// NewUsuarioRepository construye el adaptador; acepta pool o tx.
func NewUsuarioRepository(db Querier) *UsuarioRepo {
	return &UsuarioRepo{db: db}
}

const usuarioCols = `id, email, nombre, apellido, password_hash, rol_id, activo,
	debe_cambiar_password, token_recuperacion_hash, token_recuperacion_expira,
	fecha_ultimo_acceso, intentos_login_fallidos, bloqueado_hasta, created_at, updated_at`

func scanUsuario(row pgx.Row) (*entity.Usuario, error) {
	var u entity.Usuario
	err := row.Scan(
		&u.ID, &u.Email, &u.Nombre, &u.Apellido, &u.PasswordHash, &u.RolID, &u.Activo,
		&u.DebeCambiarPassword, &u.TokenRecuperacionHash, &u.TokenRecuperacionExpira,
		&u.FechaUltimoAcceso, &u.IntentosLoginFallidos, &u.BloqueadoHasta, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Crear persiste un usuario. El email se guarda plegado; la violación del
// índice único se traduce al error de dominio.
func (r *UsuarioRepo) Crear(ctx context.Context, u *entity.Usuario) error {
	query := `
		INSERT INTO usuarios (id, email, nombre, apellido, password_hash, rol_id, activo,
			debe_cambiar_password, token_recuperacion_hash, token_recuperacion_expira,
			fecha_ultimo_acceso, intentos_login_fallidos, bloqueado_hasta, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.db.Exec(ctx, query,
		u.ID, entity.NormalizarEmail(u.Email), u.Nombre, u.Apellido, u.PasswordHash, u.RolID, u.Activo,
		u.DebeCambiarPassword, u.TokenRecuperacionHash, u.TokenRecuperacionExpira,
		u.FechaUltimoAcceso, u.IntentosLoginFallidos, u.BloqueadoHasta, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailYaRegistrado
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UsuarioRepo) GetByID(ctx context.Context, id string) (*entity.Usuario, error) {
	u, err := scanUsuario(r.db.QueryRow(ctx, `SELECT `+usuarioCols+` FROM usuarios WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario by id: %w", err)
	}
	return u, nil
}

// GetByEmail busca por email plegado.
func (r *UsuarioRepo) GetByEmail(ctx context.Context, email string) (*entity.Usuario, error) {
	u, err := scanUsuario(r.db.QueryRow(ctx,
		`SELECT `+usuarioCols+` FROM usuarios WHERE email = $1`, entity.NormalizarEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario by email: %w", err)
	}
	return u, nil
}

// GetByTokenRecuperacion busca por el hash del token de recuperación vigente.
func (r *UsuarioRepo) GetByTokenRecuperacion(ctx context.Context, tokenHash string) (*entity.Usuario, error) {
	u, err := scanUsuario(r.db.QueryRow(ctx,
		`SELECT `+usuarioCols+` FROM usuarios WHERE token_recuperacion_hash = $1`, tokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario by token: %w", err)
	}
	return u, nil
}

// Update persiste el estado completo del usuario.
func (r *UsuarioRepo) Update(ctx context.Context, u *entity.Usuario) error {
	query := `
		UPDATE usuarios SET email = $2, nombre = $3, apellido = $4, password_hash = $5,
			rol_id = $6, activo = $7, debe_cambiar_password = $8,
			token_recuperacion_hash = $9, token_recuperacion_expira = $10,
			fecha_ultimo_acceso = $11, intentos_login_fallidos = $12, bloqueado_hasta = $13,
			updated_at = $14
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		u.ID, entity.NormalizarEmail(u.Email), u.Nombre, u.Apellido, u.PasswordHash,
		u.RolID, u.Activo, u.DebeCambiarPassword,
		u.TokenRecuperacionHash, u.TokenRecuperacionExpira,
		u.FechaUltimoAcceso, u.IntentosLoginFallidos, u.BloqueadoHasta, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailYaRegistrado
		}
		return fmt.Errorf("update usuario: %w", err)
	}
	return nil
}

// Eliminar borra el usuario en firme.
func (r *UsuarioRepo) Eliminar(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el usuario %s respalda una empresa del padrón", domain.ErrEnUso, id)
		}
		return fmt.Errorf("delete usuario: %w", err)
	}
	return nil
}

// List pagina usuarios por fecha de alta.
func (r *UsuarioRepo) List(ctx context.Context, limit, offset int) ([]*entity.Usuario, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+usuarioCols+` FROM usuarios ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}
	defer rows.Close()
	var list []*entity.Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

var _ repository.RolRepository = (*RolRepo)(nil)

// RolRepo implementación del puerto RolRepository sobre PostgreSQL.
// Los permisos se guardan desnormalizados como columnas booleanas.
type RolRepo struct {
	db Querier
}

// NewRolRepository construye el adaptador.
func NewRolRepository(db Querier) *RolRepo {
	return &RolRepo{db: db}
}

const rolCols = `id, nombre, nivel_acceso, activo,
	puede_crear_empresas, puede_editar_empresas, puede_eliminar_empresas,
	puede_exportar_datos, puede_importar_datos, puede_ver_auditoria,
	puede_gestionar_usuarios, puede_acceder_admin, created_at, updated_at`

func scanRol(row pgx.Row) (*entity.Rol, error) {
	var e entity.Rol
	err := row.Scan(
		&e.ID, &e.Nombre, &e.NivelAcceso, &e.Activo,
		&e.Permisos.PuedeCrearEmpresas, &e.Permisos.PuedeEditarEmpresas, &e.Permisos.PuedeEliminarEmpresas,
		&e.Permisos.PuedeExportarDatos, &e.Permisos.PuedeImportarDatos, &e.Permisos.PuedeVerAuditoria,
		&e.Permisos.PuedeGestionarUsuarios, &e.Permisos.PuedeAccederAdmin, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Crear persiste un rol.
func (r *RolRepo) Crear(ctx context.Context, e *entity.Rol) error {
	query := `
		INSERT INTO roles (id, nombre, nivel_acceso, activo,
			puede_crear_empresas, puede_editar_empresas, puede_eliminar_empresas,
			puede_exportar_datos, puede_importar_datos, puede_ver_auditoria,
			puede_gestionar_usuarios, puede_acceder_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.Nombre, e.NivelAcceso, e.Activo,
		e.Permisos.PuedeCrearEmpresas, e.Permisos.PuedeEditarEmpresas, e.Permisos.PuedeEliminarEmpresas,
		e.Permisos.PuedeExportarDatos, e.Permisos.PuedeImportarDatos, e.Permisos.PuedeVerAuditoria,
		e.Permisos.PuedeGestionarUsuarios, e.Permisos.PuedeAccederAdmin, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("insert rol: %w", err)
	}
	return nil
}

// GetByID obtiene un rol por ID.
func (r *RolRepo) GetByID(ctx context.Context, id string) (*entity.Rol, error) {
	e, err := scanRol(r.db.QueryRow(ctx, `SELECT `+rolCols+` FROM roles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rol by id: %w", err)
	}
	return e, nil
}

// GetByNombre obtiene un rol por nombre exacto.
func (r *RolRepo) GetByNombre(ctx context.Context, nombre string) (*entity.Rol, error) {
	e, err := scanRol(r.db.QueryRow(ctx, `SELECT `+rolCols+` FROM roles WHERE nombre = $1`, nombre))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rol by nombre: %w", err)
	}
	return e, nil
}

// List lista los roles por nivel de acceso descendente.
func (r *RolRepo) List(ctx context.Context) ([]*entity.Rol, error) {
	rows, err := r.db.Query(ctx, `SELECT `+rolCols+` FROM roles ORDER BY nivel_acceso DESC`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Rol
	for rows.Next() {
		e, err := scanRol(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rol: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
