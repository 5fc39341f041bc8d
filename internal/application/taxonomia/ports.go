package taxonomia

import (
	"context"

	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del catálogo atados a esa tx. Las rutinas de integridad que
// tocan varios agregados (migrar, limpiar) corren completas o no corren.
type TxRunner interface {
	RunCatalogo(ctx context.Context, fn func(
		rubroRepo repository.RubroRepository,
		subRubroRepo repository.SubRubroRepository,
		empresaRepo repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error) error
}
