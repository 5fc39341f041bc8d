package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos de PostgreSQL que los repositorios traducen a errores de dominio.
const (
	codigoUniqueViolation     = "23505"
	codigoForeignKeyViolation = "23503"
)

func esErrorPg(err error, codigo string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codigo
}

// isUniqueViolation detecta la violación de un índice único.
func isUniqueViolation(err error) bool {
	return esErrorPg(err, codigoUniqueViolation)
}

// isForeignKeyViolation detecta borrados bloqueados por filas que referencian
// al registro (empresas sobre un rubro, una empresa sobre su usuario).
func isForeignKeyViolation(err error) bool {
	return esErrorPg(err, codigoForeignKeyViolation)
}
