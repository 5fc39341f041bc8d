package taxonomia

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/catamarca-exporta/padron-api/internal/application/auditoria"
	"github.com/catamarca-exporta/padron-api/internal/application/dto"
	"github.com/catamarca-exporta/padron-api/internal/domain"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
	"github.com/catamarca-exporta/padron-api/internal/domain/texto"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

// UseCase agrupa las rutinas de integridad del catálogo de rubros/subrubros.
// Todas son idempotentes: aplicarlas dos veces deja el catálogo igual.
type UseCase struct {
	txRunner     TxRunner
	rubroRepo    repository.RubroRepository
	subRubroRepo repository.SubRubroRepository
	empresaRepo  repository.EmpresaRepository
	log          *logger.Logger
}

// NewUseCase construye el caso de uso del catálogo.
func NewUseCase(
	txRunner TxRunner,
	rubroRepo repository.RubroRepository,
	subRubroRepo repository.SubRubroRepository,
	empresaRepo repository.EmpresaRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		rubroRepo:    rubroRepo,
		subRubroRepo: subRubroRepo,
		empresaRepo:  empresaRepo,
		log:          log,
	}
}

// AsegurarOtroSubRubro garantiza que un rubro activo tenga un subrubro activo
// "Otro", con orden al final de la lista. Devuelve el subrubro existente o el
// creado; en rubros inactivos no hace nada.
func (uc *UseCase) AsegurarOtroSubRubro(ctx context.Context, rubroID string, actor auditoria.Actor) (*entity.SubRubro, error) {
	rubro, err := uc.rubroRepo.GetByID(ctx, rubroID)
	if err != nil {
		return nil, err
	}
	if rubro == nil {
		return nil, fmt.Errorf("%w: rubro %s", domain.ErrNoEncontrado, rubroID)
	}
	if !rubro.Activo {
		return nil, nil
	}

	var creado *entity.SubRubro
	err = uc.txRunner.RunCatalogo(ctx, func(
		_ repository.RubroRepository,
		subRubroRepo repository.SubRubroRepository,
		_ repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error {
		subrubros, err := subRubroRepo.ListPorRubro(ctx, rubroID, false)
		if err != nil {
			return err
		}
		maxOrden := 0
		for _, s := range subrubros {
			if s.Orden > maxOrden {
				maxOrden = s.Orden
			}
			if s.EsOtro() {
				if s.Activo {
					creado = s
					return nil // ya existe, nada que hacer
				}
				s.Activo = true
				s.UpdatedAt = time.Now().UTC()
				creado = s
				if err := subRubroRepo.Update(ctx, s); err != nil {
					return err
				}
				return auditRepo.Crear(ctx, actor.Entrada(
					entity.AccionActualizar, "SubRubro", s.ID, s.Nombre,
					map[string]any{"activo": true},
				))
			}
		}
		ahora := time.Now().UTC()
		creado = &entity.SubRubro{
			ID:        uuid.New().String(),
			RubroID:   rubroID,
			Nombre:    entity.NombreOtro,
			Orden:     maxOrden + 1,
			Activo:    true,
			CreatedAt: ahora,
			UpdatedAt: ahora,
		}
		if err := subRubroRepo.Crear(ctx, creado); err != nil {
			return err
		}
		return auditRepo.Crear(ctx, actor.Entrada(
			entity.AccionCrear, "SubRubro", creado.ID, creado.Nombre,
			map[string]any{"rubro_id": rubroID, "orden": creado.Orden},
		))
	})
	if err != nil {
		return nil, err
	}
	return creado, nil
}

// AsegurarOtroRubro garantiza exactamente un rubro activo "Otro" del tipo
// dado, con su subrubro "Otro" sembrado. Reactiva uno inactivo antes que
// duplicar; si hay más de uno activo, desactiva los sobrantes.
func (uc *UseCase) AsegurarOtroRubro(ctx context.Context, tipo string, actor auditoria.Actor) (*entity.Rubro, error) {
	if !entity.TipoRubroValido(tipo) {
		return nil, fmt.Errorf("%w: tipo de rubro %q", domain.ErrEntradaInvalida, tipo)
	}
	var resultado *entity.Rubro
	err := uc.txRunner.RunCatalogo(ctx, func(
		rubroRepo repository.RubroRepository,
		subRubroRepo repository.SubRubroRepository,
		_ repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error {
		rubros, err := rubroRepo.List(ctx, false)
		if err != nil {
			return err
		}
		var activos []*entity.Rubro
		var inactivo *entity.Rubro
		maxOrden := 0
		for _, r := range rubros {
			if r.Orden > maxOrden {
				maxOrden = r.Orden
			}
			if r.Tipo != tipo || !texto.Igual(r.Nombre, entity.NombreOtro) {
				continue
			}
			if r.Activo {
				activos = append(activos, r)
			} else if inactivo == nil {
				inactivo = r
			}
		}
		ahora := time.Now().UTC()
		switch {
		case len(activos) >= 1:
			resultado = activos[0]
			// A lo sumo un "Otro" activo por tipo: desactivar sobrantes.
			for _, extra := range activos[1:] {
				extra.Activo = false
				extra.UpdatedAt = ahora
				if err := rubroRepo.Update(ctx, extra); err != nil {
					return err
				}
				if err := auditRepo.Crear(ctx, actor.Entrada(
					entity.AccionActualizar, "Rubro", extra.ID, extra.Nombre,
					map[string]any{"activo": false, "motivo": "otro duplicado"},
				)); err != nil {
					return err
				}
			}
		case inactivo != nil:
			inactivo.Activo = true
			inactivo.UpdatedAt = ahora
			if err := rubroRepo.Update(ctx, inactivo); err != nil {
				return err
			}
			if err := auditRepo.Crear(ctx, actor.Entrada(
				entity.AccionActualizar, "Rubro", inactivo.ID, inactivo.Nombre,
				map[string]any{"activo": true},
			)); err != nil {
				return err
			}
			resultado = inactivo
		default:
			resultado = &entity.Rubro{
				ID:        uuid.New().String(),
				Nombre:    entity.NombreOtro,
				Tipo:      tipo,
				Orden:     maxOrden + 1,
				Activo:    true,
				CreatedAt: ahora,
				UpdatedAt: ahora,
			}
			if err := rubroRepo.Crear(ctx, resultado); err != nil {
				return err
			}
			if err := auditRepo.Crear(ctx, actor.Entrada(
				entity.AccionCrear, "Rubro", resultado.ID, resultado.Nombre,
				map[string]any{"tipo": tipo},
			)); err != nil {
				return err
			}
		}
		return uc.sembrarOtroSubRubro(ctx, subRubroRepo, auditRepo, resultado, actor)
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// CorregirTipos aplica asignaciones id→tipo; los rubros no cubiertos cuyo
// tipo no sea mixto ni otro vuelven al default producto. Es un punto fijo:
// una segunda pasada no cambia nada.
func (uc *UseCase) CorregirTipos(ctx context.Context, asignaciones map[string]string, actor auditoria.Actor) (*dto.ResultadoTaxonomia, error) {
	for id, tipo := range asignaciones {
		if !entity.TipoRubroValido(tipo) {
			return nil, fmt.Errorf("%w: tipo %q para rubro %s", domain.ErrEntradaInvalida, tipo, id)
		}
	}
	resultado := &dto.ResultadoTaxonomia{}
	err := uc.txRunner.RunCatalogo(ctx, func(
		rubroRepo repository.RubroRepository,
		_ repository.SubRubroRepository,
		_ repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error {
		rubros, err := rubroRepo.List(ctx, false)
		if err != nil {
			return err
		}
		for _, r := range rubros {
			deseado, cubierto := asignaciones[r.ID]
			if !cubierto {
				if r.Tipo == entity.RubroMixto || r.Tipo == entity.RubroOtro {
					continue
				}
				deseado = entity.RubroProducto
			}
			if r.Tipo == deseado {
				continue
			}
			anterior := r.Tipo
			r.Tipo = deseado
			r.UpdatedAt = time.Now().UTC()
			if err := rubroRepo.Update(ctx, r); err != nil {
				return err
			}
			if err := auditRepo.Crear(ctx, actor.Entrada(
				entity.AccionActualizar, "Rubro", r.ID, r.Nombre,
				map[string]any{"tipo": map[string]string{"antes": anterior, "despues": deseado}},
			)); err != nil {
				return err
			}
			resultado.Afectados++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// LimpiarRubrosIncorrectos desactiva los rubros activos de tipo producto o
// servicio cuyo nombre quede fuera de su lista canónica, cascadeando la
// desactivación a sus subrubros. Rubros mixtos y "otro" no se tocan.
func (uc *UseCase) LimpiarRubrosIncorrectos(ctx context.Context, canonicos dto.LimpiarRubrosRequest, actor auditoria.Actor) (*dto.ResultadoTaxonomia, error) {
	resultado := &dto.ResultadoTaxonomia{}
	err := uc.txRunner.RunCatalogo(ctx, func(
		rubroRepo repository.RubroRepository,
		subRubroRepo repository.SubRubroRepository,
		_ repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error {
		rubros, err := rubroRepo.List(ctx, true)
		if err != nil {
			return err
		}
		for _, r := range rubros {
			var lista []string
			switch r.Tipo {
			case entity.RubroProducto:
				lista = canonicos.Producto
			case entity.RubroServicio:
				lista = canonicos.Servicio
			default:
				continue
			}
			if nombreEnLista(r.Nombre, lista) {
				continue
			}
			ahora := time.Now().UTC()
			r.Activo = false
			r.UpdatedAt = ahora
			if err := rubroRepo.Update(ctx, r); err != nil {
				return err
			}
			subrubros, err := subRubroRepo.ListPorRubro(ctx, r.ID, true)
			if err != nil {
				return err
			}
			for _, s := range subrubros {
				s.Activo = false
				s.UpdatedAt = ahora
				if err := subRubroRepo.Update(ctx, s); err != nil {
					return err
				}
			}
			if err := auditRepo.Crear(ctx, actor.Entrada(
				entity.AccionActualizar, "Rubro", r.ID, r.Nombre,
				map[string]any{"activo": false, "subrubros_desactivados": len(subrubros)},
			)); err != nil {
				return err
			}
			resultado.Afectados++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// MigrarRubro reasigna todas las empresas del rubro viejo al rubro resuelto
// por (nuevoNombre, nuevoTipo) y borra el rubro viejo con sus subrubros.
// Si el destino no puede resolverse devuelve ErrEnUso y no toca nada.
func (uc *UseCase) MigrarRubro(ctx context.Context, viejoID, nuevoNombre, nuevoTipo string, actor auditoria.Actor) (*dto.ResultadoTaxonomia, error) {
	resultado := &dto.ResultadoTaxonomia{}
	err := uc.txRunner.RunCatalogo(ctx, func(
		rubroRepo repository.RubroRepository,
		subRubroRepo repository.SubRubroRepository,
		empresaRepo repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error {
		viejo, err := rubroRepo.GetByID(ctx, viejoID)
		if err != nil {
			return err
		}
		if viejo == nil {
			return fmt.Errorf("%w: rubro %s", domain.ErrNoEncontrado, viejoID)
		}
		nuevo, err := rubroRepo.GetPorNombreTipo(ctx, nuevoNombre, nuevoTipo)
		if err != nil {
			return err
		}
		if nuevo == nil || nuevo.ID == viejo.ID {
			return fmt.Errorf("%w: no se pudo resolver el rubro destino %q (%s)", domain.ErrEnUso, nuevoNombre, nuevoTipo)
		}
		movidas, err := empresaRepo.ReasignarRubro(ctx, viejo.ID, nuevo.ID)
		if err != nil {
			return err
		}
		if err := subRubroRepo.EliminarPorRubro(ctx, viejo.ID); err != nil {
			return err
		}
		if err := rubroRepo.Eliminar(ctx, viejo.ID); err != nil {
			return err
		}
		resultado.Afectados = int(movidas)
		return auditRepo.Crear(ctx, actor.Entrada(
			entity.AccionEliminar, "Rubro", viejo.ID, viejo.Nombre,
			map[string]any{"migrado_a": nuevo.ID, "empresas_movidas": movidas},
		))
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// EliminarRubrosInactivos borra en firme los rubros inactivos sin empresas
// que los referencien; los que siguen en uso se omiten y se reportan.
func (uc *UseCase) EliminarRubrosInactivos(ctx context.Context, actor auditoria.Actor) (*dto.ResultadoTaxonomia, error) {
	resultado := &dto.ResultadoTaxonomia{}
	err := uc.txRunner.RunCatalogo(ctx, func(
		rubroRepo repository.RubroRepository,
		subRubroRepo repository.SubRubroRepository,
		empresaRepo repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error {
		rubros, err := rubroRepo.List(ctx, false)
		if err != nil {
			return err
		}
		for _, r := range rubros {
			if r.Activo {
				continue
			}
			enUso, err := empresaRepo.CountPorRubro(ctx, r.ID)
			if err != nil {
				return err
			}
			if enUso > 0 {
				resultado.Omitidos = append(resultado.Omitidos, r.ID)
				uc.log.Warn().Str("rubro", r.Nombre).Int64("empresas", enUso).
					Msg("rubro inactivo en uso, se omite el borrado")
				continue
			}
			if err := subRubroRepo.EliminarPorRubro(ctx, r.ID); err != nil {
				return err
			}
			if err := rubroRepo.Eliminar(ctx, r.ID); err != nil {
				return err
			}
			if err := auditRepo.Crear(ctx, actor.Entrada(
				entity.AccionEliminar, "Rubro", r.ID, r.Nombre, nil,
			)); err != nil {
				return err
			}
			resultado.Afectados++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// AsegurarInvariantes corre las garantías del catálogo: un rubro "Otro"
// activo por tipo y un subrubro "Otro" en cada rubro activo.
func (uc *UseCase) AsegurarInvariantes(ctx context.Context, actor auditoria.Actor) error {
	for _, tipo := range []string{entity.RubroProducto, entity.RubroServicio, entity.RubroMixto, entity.RubroOtro} {
		if _, err := uc.AsegurarOtroRubro(ctx, tipo, actor); err != nil {
			return err
		}
	}
	rubros, err := uc.rubroRepo.List(ctx, true)
	if err != nil {
		return err
	}
	for _, r := range rubros {
		if _, err := uc.AsegurarOtroSubRubro(ctx, r.ID, actor); err != nil {
			return err
		}
	}
	return nil
}

func (uc *UseCase) sembrarOtroSubRubro(
	ctx context.Context,
	subRubroRepo repository.SubRubroRepository,
	auditRepo repository.AuditoriaRepository,
	rubro *entity.Rubro,
	actor auditoria.Actor,
) error {
	subrubros, err := subRubroRepo.ListPorRubro(ctx, rubro.ID, false)
	if err != nil {
		return err
	}
	maxOrden := 0
	for _, s := range subrubros {
		if s.Orden > maxOrden {
			maxOrden = s.Orden
		}
		if s.EsOtro() {
			if s.Activo {
				return nil
			}
			s.Activo = true
			s.UpdatedAt = time.Now().UTC()
			return subRubroRepo.Update(ctx, s)
		}
	}
	ahora := time.Now().UTC()
	sub := &entity.SubRubro{
		ID:        uuid.New().String(),
		RubroID:   rubro.ID,
		Nombre:    entity.NombreOtro,
		Orden:     maxOrden + 1,
		Activo:    true,
		CreatedAt: ahora,
		UpdatedAt: ahora,
	}
	if err := subRubroRepo.Crear(ctx, sub); err != nil {
		return err
	}
	return auditRepo.Crear(ctx, actor.Entrada(
		entity.AccionCrear, "SubRubro", sub.ID, sub.Nombre,
		map[string]any{"rubro_id": rubro.ID},
	))
}

func nombreEnLista(nombre string, lista []string) bool {
	for _, candidato := range lista {
		if texto.Igual(nombre, candidato) {
			return true
		}
	}
	return false
}
