package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/catamarca-exporta/padron-api/internal/application/auditoria"
	"github.com/catamarca-exporta/padron-api/internal/application/dto"
	"github.com/catamarca-exporta/padron-api/internal/domain"
	"github.com/catamarca-exporta/padron-api/internal/domain/cuit"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
	"github.com/catamarca-exporta/padron-api/pkg/config"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

// TxRunner del padrón: empresa + usuario + auditoría como una sola unidad
// (borrado en cascada de la cuenta propietaria).
type TxRunner interface {
	RunPadron(ctx context.Context, fn func(
		usuarioRepo repository.UsuarioRepository,
		empresaRepo repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error) error
}

// CacheEstadisticas cache best-effort de estadísticas por departamento.
// Un fallo del cache nunca es un fallo de la operación.
type CacheEstadisticas interface {
	Get(ctx context.Context) (*dto.EstadisticasResponse, bool)
	Set(ctx context.Context, e *dto.EstadisticasResponse)
	Invalidar(ctx context.Context)
}

// EmpresaUseCase reglas de negocio del padrón de empresas.
type EmpresaUseCase struct {
	txRunner     TxRunner
	empresaRepo  repository.EmpresaRepository
	usuarioRepo  repository.UsuarioRepository
	rubroRepo    repository.RubroRepository
	subRubroRepo repository.SubRubroRepository
	cache        CacheEstadisticas // puede ser nil
	densidad     config.DensidadConfig
	log          *logger.Logger
}

// NewEmpresaUseCase construye el caso de uso del padrón.
func NewEmpresaUseCase(
	txRunner TxRunner,
	empresaRepo repository.EmpresaRepository,
	usuarioRepo repository.UsuarioRepository,
	rubroRepo repository.RubroRepository,
	subRubroRepo repository.SubRubroRepository,
	cache CacheEstadisticas,
	densidad config.DensidadConfig,
	log *logger.Logger,
) *EmpresaUseCase {
	return &EmpresaUseCase{
		txRunner:     txRunner,
		empresaRepo:  empresaRepo,
		usuarioRepo:  usuarioRepo,
		rubroRepo:    rubroRepo,
		subRubroRepo: subRubroRepo,
		cache:        cache,
		densidad:     densidad,
		log:          log,
	}
}

// Crear da de alta una empresa ya aprobada (operadores). Valida el CUIT, la
// coherencia de slots con el discriminador y la compatibilidad de tipo de los
// subrubros referenciados.
func (uc *EmpresaUseCase) Crear(ctx context.Context, in dto.CrearEmpresaRequest, actor auditoria.Actor) (*dto.EmpresaResponse, error) {
	if err := cuit.Validar(in.CuitCuil); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEntradaInvalida, err)
	}
	if existente, err := uc.empresaRepo.GetByCuit(ctx, cuit.SoloDigitos(in.CuitCuil)); err != nil {
		return nil, err
	} else if existente != nil {
		return nil, fmt.Errorf("%w: CUIT ya empadronado", domain.ErrConflicto)
	}
	exporta := in.Exporta
	if exporta == "" {
		exporta = entity.ExportaNo
	}
	if exporta != entity.ExportaSi && exporta != entity.ExportaNo {
		return nil, fmt.Errorf("%w: exporta debe ser si|no", domain.ErrEntradaInvalida)
	}
	ahora := time.Now().UTC()
	e := &entity.Empresa{
		ID:                  uuid.New().String(),
		RazonSocial:         in.RazonSocial,
		CuitCuil:            cuit.SoloDigitos(in.CuitCuil),
		TipoEmpresaValor:    in.TipoEmpresaValor,
		UsuarioID:           in.UsuarioID,
		RubroID:             in.RubroID,
		SubRubroID:          in.SubRubroID,
		SubRubroProductoID:  in.SubRubroProductoID,
		SubRubroServicioID:  in.SubRubroServicioID,
		ProvinciaID:         in.ProvinciaID,
		DepartamentoID:      in.DepartamentoID,
		MunicipioID:         in.MunicipioID,
		LocalidadID:         in.LocalidadID,
		Telefono:            in.Telefono,
		Correo:              entity.NormalizarEmail(in.Correo),
		Exporta:             exporta,
		Importa:             in.Importa,
		Certificaciones:     in.Certificaciones,
		CertificadoPyme:     in.CertificadoPyme,
		CapacidadProductiva: in.CapacidadProductiva,
		TipoExporta:         in.TipoExporta,
		DestinoExporta:      in.DestinoExporta,
		InteresExportar:     in.InteresExportar,
		CreatedAt:           ahora,
		UpdatedAt:           ahora,
	}
	if err := uc.validarInvariantes(ctx, e); err != nil {
		return nil, err
	}
	err := uc.txRunner.RunPadron(ctx, func(
		_ repository.UsuarioRepository,
		empresaRepo repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error {
		if err := empresaRepo.Crear(ctx, e); err != nil {
			return err
		}
		return auditRepo.Crear(ctx, actor.Entrada(
			entity.AccionCrear, "Empresa", e.ID, e.RazonSocial,
			map[string]any{"cuit_cuil": e.CuitCuil, "tipo": e.TipoEmpresaValor},
		))
	})
	if err != nil {
		return nil, err
	}
	uc.invalidarCache(ctx)
	return entityToEmpresaResponse(e), nil
}

// GetByID obtiene una empresa del padrón.
func (uc *EmpresaUseCase) GetByID(ctx context.Context, id string) (*dto.EmpresaResponse, error) {
	e, err := uc.empresaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNoEncontrado, id)
	}
	return entityToEmpresaResponse(e), nil
}

// List lista el padrón con filtros y paginación.
func (uc *EmpresaUseCase) List(ctx context.Context, f repository.FiltroEmpresas, limit, offset int) (*dto.EmpresaListResponse, error) {
	list, err := uc.empresaRepo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EmpresaResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *entityToEmpresaResponse(e))
	}
	return &dto.EmpresaListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Actualizar aplica un patch. Cambiar el discriminador no está soportado;
// los slots de subrubro deben seguir coherentes tras el patch.
func (uc *EmpresaUseCase) Actualizar(ctx context.Context, id string, in dto.ActualizarEmpresaRequest, actor auditoria.Actor) (*dto.EmpresaResponse, error) {
	e, err := uc.empresaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNoEncontrado, id)
	}
	if in.TipoEmpresaValor != nil && *in.TipoEmpresaValor != e.TipoEmpresaValor {
		return nil, fmt.Errorf("%w: el tipo de empresa no puede cambiar", domain.ErrNoSoportado)
	}

	cambios := map[string]any{}
	if in.RazonSocial != nil {
		cambios["razon_social"] = map[string]string{"antes": e.RazonSocial, "despues": *in.RazonSocial}
		e.RazonSocial = *in.RazonSocial
	}
	if in.Telefono != nil {
		e.Telefono = *in.Telefono
		cambios["telefono"] = *in.Telefono
	}
	if in.Correo != nil {
		e.Correo = entity.NormalizarEmail(*in.Correo)
		cambios["correo"] = e.Correo
	}
	if in.RubroID != nil {
		e.RubroID = *in.RubroID
		cambios["id_rubro"] = *in.RubroID
	}
	if in.SubRubroID != nil {
		e.SubRubroID = in.SubRubroID
		cambios["id_subrubro"] = *in.SubRubroID
	}
	if in.SubRubroProductoID != nil {
		e.SubRubroProductoID = in.SubRubroProductoID
		cambios["id_subrubro_producto"] = *in.SubRubroProductoID
	}
	if in.SubRubroServicioID != nil {
		e.SubRubroServicioID = in.SubRubroServicioID
		cambios["id_subrubro_servicio"] = *in.SubRubroServicioID
	}
	if in.Exporta != nil {
		if *in.Exporta != entity.ExportaSi && *in.Exporta != entity.ExportaNo {
			return nil, fmt.Errorf("%w: exporta debe ser si|no", domain.ErrEntradaInvalida)
		}
		e.Exporta = *in.Exporta
		cambios["exporta"] = *in.Exporta
	}
	if in.Importa != nil {
		e.Importa = *in.Importa
		cambios["importa"] = *in.Importa
	}
	if in.Certificaciones != nil {
		e.Certificaciones = *in.Certificaciones
		cambios["certificaciones"] = *in.Certificaciones
	}
	if in.CertificadoPyme != nil {
		e.CertificadoPyme = *in.CertificadoPyme
		cambios["certificadopyme"] = *in.CertificadoPyme
	}
	if in.CapacidadProductiva != nil {
		e.CapacidadProductiva = in.CapacidadProductiva
		cambios["capacidadproductiva"] = in.CapacidadProductiva.String()
	}
	if in.TipoExporta != nil {
		e.TipoExporta = in.TipoExporta
		cambios["tipoexporta"] = *in.TipoExporta
	}
	if in.DestinoExporta != nil {
		e.DestinoExporta = in.DestinoExporta
		cambios["destinoexporta"] = *in.DestinoExporta
	}
	if in.InteresExportar != nil {
		e.InteresExportar = *in.InteresExportar
		cambios["interes_exportar"] = *in.InteresExportar
	}

	if err := uc.validarInvariantes(ctx, e); err != nil {
		return nil, err
	}
	e.UpdatedAt = time.Now().UTC()

	err = uc.txRunner.RunPadron(ctx, func(
		_ repository.UsuarioRepository,
		empresaRepo repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error {
		if err := empresaRepo.Update(ctx, e); err != nil {
			return err
		}
		return auditRepo.Crear(ctx, actor.Entrada(
			entity.AccionActualizar, "Empresa", e.ID, e.RazonSocial, cambios,
		))
	})
	if err != nil {
		return nil, err
	}
	uc.invalidarCache(ctx)
	return entityToEmpresaResponse(e), nil
}

// Eliminar borra la empresa y, en cascada, su cuenta propietaria. La entrada
// de auditoría se escribe antes del borrado, en la misma transacción.
func (uc *EmpresaUseCase) Eliminar(ctx context.Context, id string, actor auditoria.Actor) error {
	e, err := uc.empresaRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("%w: empresa %s", domain.ErrNoEncontrado, id)
	}
	err = uc.txRunner.RunPadron(ctx, func(
		usuarioRepo repository.UsuarioRepository,
		empresaRepo repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error {
		if err := auditRepo.Crear(ctx, actor.Entrada(
			entity.AccionEliminar, "Empresa", e.ID, e.RazonSocial,
			map[string]any{"cuit_cuil": e.CuitCuil, "usuario_eliminado": e.UsuarioID},
		)); err != nil {
			return err
		}
		if err := empresaRepo.Eliminar(ctx, e.ID); err != nil {
			return err
		}
		return usuarioRepo.Eliminar(ctx, e.UsuarioID)
	})
	if err != nil {
		return err
	}
	uc.invalidarCache(ctx)
	return nil
}

// ConteoPorTipo cuenta el padrón por discriminador y verifica que la suma
// iguale al total; una desviación se reporta como diagnóstico, no como error.
func (uc *EmpresaUseCase) ConteoPorTipo(ctx context.Context) (*dto.ConteoPorTipoResponse, error) {
	porTipo, total, err := uc.empresaRepo.CountPorTipo(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.ConteoPorTipoResponse{
		Producto: porTipo[entity.EmpresaProducto],
		Servicio: porTipo[entity.EmpresaServicio],
		Mixta:    porTipo[entity.EmpresaMixta],
		Total:    total,
	}
	out.Consistente = out.Producto+out.Servicio+out.Mixta == total
	if !out.Consistente {
		uc.log.Warn().
			Int64("producto", out.Producto).
			Int64("servicio", out.Servicio).
			Int64("mixta", out.Mixta).
			Int64("total", total).
			Msg("conteo por tipo inconsistente: hay empresas con discriminador fuera de rango")
	}
	return out, nil
}

// Estadisticas agrupa empresas por departamento y las binea por densidad.
// Pasa por el cache cuando está configurado.
func (uc *EmpresaUseCase) Estadisticas(ctx context.Context) (*dto.EstadisticasResponse, error) {
	if uc.cache != nil {
		if cached, ok := uc.cache.Get(ctx); ok {
			return cached, nil
		}
	}
	conteos, err := uc.empresaRepo.CountPorDepartamento(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.EstadisticasResponse{}
	for depto, n := range conteos {
		out.Departamentos = append(out.Departamentos, dto.DensidadDepartamento{
			DepartamentoID: depto,
			Empresas:       n,
			Densidad:       uc.clasificarDensidad(n),
		})
	}
	if uc.cache != nil {
		uc.cache.Set(ctx, out)
	}
	return out, nil
}

func (uc *EmpresaUseCase) clasificarDensidad(n int64) string {
	switch {
	case n <= uc.densidad.BajaMax:
		return "baja"
	case n <= uc.densidad.MediaMax:
		return "media"
	case n <= uc.densidad.AltaMax:
		return "alta"
	default:
		return "muy_alta"
	}
}

// validarInvariantes chequea slots contra discriminador y la compatibilidad
// de tipo de los rubros de cada subrubro referenciado.
func (uc *EmpresaUseCase) validarInvariantes(ctx context.Context, e *entity.Empresa) error {
	if err := e.ValidarSlots(); err != nil {
		return err
	}
	comprobar := func(subRubroID string, admite func(*entity.Rubro) bool, slot string) error {
		sub, err := uc.subRubroRepo.GetByID(ctx, subRubroID)
		if err != nil {
			return err
		}
		if sub == nil {
			return fmt.Errorf("%w: subrubro %s", domain.ErrNoEncontrado, subRubroID)
		}
		rubro, err := uc.rubroRepo.GetByID(ctx, sub.RubroID)
		if err != nil {
			return err
		}
		if rubro == nil {
			return fmt.Errorf("%w: rubro del subrubro %s", domain.ErrNoEncontrado, subRubroID)
		}
		if !admite(rubro) {
			return fmt.Errorf("%w: el rubro %q no es compatible con el slot %s", domain.ErrInvarianteViolada, rubro.Nombre, slot)
		}
		return nil
	}
	switch e.TipoEmpresaValor {
	case entity.EmpresaProducto:
		return comprobar(*e.SubRubroID, (*entity.Rubro).AdmiteEmpresaProducto, "id_subrubro")
	case entity.EmpresaServicio:
		return comprobar(*e.SubRubroID, (*entity.Rubro).AdmiteEmpresaServicio, "id_subrubro")
	case entity.EmpresaMixta:
		// Los slots tipados aceptan subrubros de rubros mixtos, del tipo del
		// slot, o del comodín "otro".
		admiteProducto := func(r *entity.Rubro) bool {
			return r.Tipo == entity.RubroProducto || r.Tipo == entity.RubroMixto || r.Tipo == entity.RubroOtro
		}
		admiteServicio := func(r *entity.Rubro) bool {
			return r.Tipo == entity.RubroServicio || r.Tipo == entity.RubroMixto || r.Tipo == entity.RubroOtro
		}
		if err := comprobar(*e.SubRubroProductoID, admiteProducto, "id_subrubro_producto"); err != nil {
			return err
		}
		return comprobar(*e.SubRubroServicioID, admiteServicio, "id_subrubro_servicio")
	}
	return nil
}

func (uc *EmpresaUseCase) invalidarCache(ctx context.Context) {
	if uc.cache != nil {
		uc.cache.Invalidar(ctx)
	}
}

func entityToEmpresaResponse(e *entity.Empresa) *dto.EmpresaResponse {
	if e == nil {
		return nil
	}
	return &dto.EmpresaResponse{
		ID:                  e.ID,
		RazonSocial:         e.RazonSocial,
		CuitCuil:            e.CuitCuil,
		TipoEmpresaValor:    e.TipoEmpresaValor,
		UsuarioID:           e.UsuarioID,
		RubroID:             e.RubroID,
		SubRubroID:          e.SubRubroID,
		SubRubroProductoID:  e.SubRubroProductoID,
		SubRubroServicioID:  e.SubRubroServicioID,
		ProvinciaID:         e.ProvinciaID,
		DepartamentoID:      e.DepartamentoID,
		MunicipioID:         e.MunicipioID,
		LocalidadID:         e.LocalidadID,
		Telefono:            e.Telefono,
		Correo:              e.Correo,
		Exporta:             e.Exporta,
		Importa:             e.Importa,
		Certificaciones:     e.Certificaciones,
		CertificadoPyme:     e.CertificadoPyme,
		CapacidadProductiva: e.CapacidadProductiva,
		TipoExporta:         e.TipoExporta,
		DestinoExporta:      e.DestinoExporta,
		InteresExportar:     e.InteresExportar,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}
