package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/catamarca-exporta/padron-api/internal/application/registro"
	"github.com/catamarca-exporta/padron-api/internal/application/taxonomia"
	"github.com/catamarca-exporta/padron-api/internal/application/usecase"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
)

// Querier es lo que los repositorios necesitan de pgx: lo satisfacen tanto
// *pgxpool.Pool como pgx.Tx, así el mismo repo sirve dentro y fuera de una tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ensure TxRunner implementa los puertos transaccionales de la aplicación.
var _ registro.TxRunner = (*TxRunner)(nil)
var _ taxonomia.TxRunner = (*TxRunner)(nil)
var _ usecase.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del workflow de registro y hace
// Commit o Rollback según el resultado de fn.
func (r *TxRunner) Run(ctx context.Context, fn func(
	solicitudRepo repository.SolicitudRepository,
	usuarioRepo repository.UsuarioRepository,
	empresaRepo repository.EmpresaRepository,
	auditRepo repository.AuditoriaRepository,
) error) error {
	return r.enTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewSolicitudRepository(tx),
			NewUsuarioRepository(tx),
			NewEmpresaRepository(tx),
			NewAuditoriaRepository(tx),
		)
	})
}

// RunCatalogo inicia una transacción con los repos del catálogo de rubros.
func (r *TxRunner) RunCatalogo(ctx context.Context, fn func(
	rubroRepo repository.RubroRepository,
	subRubroRepo repository.SubRubroRepository,
	empresaRepo repository.EmpresaRepository,
	auditRepo repository.AuditoriaRepository,
) error) error {
	return r.enTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewRubroRepository(tx),
			NewSubRubroRepository(tx),
			NewEmpresaRepository(tx),
			NewAuditoriaRepository(tx),
		)
	})
}

// RunPadron inicia una transacción con los repos del padrón (empresa + cuenta).
func (r *TxRunner) RunPadron(ctx context.Context, fn func(
	usuarioRepo repository.UsuarioRepository,
	empresaRepo repository.EmpresaRepository,
	auditRepo repository.AuditoriaRepository,
) error) error {
	return r.enTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewUsuarioRepository(tx),
			NewEmpresaRepository(tx),
			NewAuditoriaRepository(tx),
		)
	})
}

func (r *TxRunner) enTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
