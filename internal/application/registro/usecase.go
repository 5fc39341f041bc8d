package registro

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/catamarca-exporta/padron-api/internal/application/auditoria"
	"github.com/catamarca-exporta/padron-api/internal/application/dto"
	"github.com/catamarca-exporta/padron-api/internal/domain"
	"github.com/catamarca-exporta/padron-api/internal/domain/cuit"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
	"github.com/catamarca-exporta/padron-api/internal/domain/texto"
	"github.com/catamarca-exporta/padron-api/pkg/config"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

// UseCase orquesta el ciclo de vida de una solicitud de registro:
// alta pública, aprobación (empresa + usuario en una transacción),
// rechazo y reenvío de credenciales.
type UseCase struct {
	txRunner      TxRunner
	solicitudRepo repository.SolicitudRepository
	rubroRepo     repository.RubroRepository
	subRubroRepo  repository.SubRubroRepository
	rolRepo       repository.RolRepository
	usuarioRepo   repository.UsuarioRepository
	empresaRepo   repository.EmpresaRepository
	geoRepo       repository.GeoRepository
	notificador   Notificador
	log           *logger.Logger
	cfg           config.RegistroConfig
}

// NewUseCase construye el workflow con sus colaboradores.
func NewUseCase(
	txRunner TxRunner,
	solicitudRepo repository.SolicitudRepository,
	rubroRepo repository.RubroRepository,
	subRubroRepo repository.SubRubroRepository,
	rolRepo repository.RolRepository,
	usuarioRepo repository.UsuarioRepository,
	empresaRepo repository.EmpresaRepository,
	geoRepo repository.GeoRepository,
	notificador Notificador,
	log *logger.Logger,
	cfg config.RegistroConfig,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		solicitudRepo: solicitudRepo,
		rubroRepo:     rubroRepo,
		subRubroRepo:  subRubroRepo,
		rolRepo:       rolRepo,
		usuarioRepo:   usuarioRepo,
		empresaRepo:   empresaRepo,
		geoRepo:       geoRepo,
		notificador:   notificador,
		log:           log,
		cfg:           cfg,
	}
}

// Submit valida y persiste una solicitud pública en estado pending.
func (uc *UseCase) Submit(ctx context.Context, in dto.CrearSolicitudRequest, actor auditoria.Actor) (*entity.SolicitudRegistro, error) {
	if strings.TrimSpace(in.RazonSocial) == "" {
		return nil, fmt.Errorf("%w: razon_social es requerida", domain.ErrEntradaInvalida)
	}
	if err := uc.validarCuit(in.CuitCuil); err != nil {
		return nil, err
	}
	email := entity.NormalizarEmail(in.EmailContacto)
	if !emailValido(email) {
		return nil, fmt.Errorf("%w: email_contacto inválido", domain.ErrEntradaInvalida)
	}
	telefono, err := normalizarTelefono(in.Telefono)
	if err != nil {
		return nil, err
	}
	if !entity.TipoEmpresaValido(in.TipoEmpresaValor) {
		return nil, fmt.Errorf("%w: tipo_empresa_valor %q", domain.ErrEntradaInvalida, in.TipoEmpresaValor)
	}
	if err := uc.validarGeografia(ctx, in.ProvinciaID, in.DepartamentoID); err != nil {
		return nil, err
	}
	rubro, err := uc.rubroRepo.GetByID(ctx, in.RubroID)
	if err != nil {
		return nil, err
	}
	if rubro == nil || !rubro.Activo {
		return nil, fmt.Errorf("%w: rubro %s", domain.ErrNoEncontrado, in.RubroID)
	}
	// Un CUIT ya empadronado no puede volver a solicitarse.
	if existente, err := uc.empresaRepo.GetByCuit(ctx, cuit.SoloDigitos(in.CuitCuil)); err != nil {
		return nil, err
	} else if existente != nil {
		return nil, fmt.Errorf("%w: CUIT ya empadronado", domain.ErrDuplicado)
	}

	nombre, apellido := in.NombreContacto, strings.TrimSpace(in.ApellidoContacto)
	if apellido == "" {
		nombre, apellido = entity.SepararNombreCompleto(in.NombreContacto)
	}

	s := &entity.SolicitudRegistro{
		ID:                   uuid.New().String(),
		FechaCreacion:        time.Now().UTC(),
		Estado:               entity.SolicitudPendiente,
		RazonSocial:          strings.TrimSpace(in.RazonSocial),
		CuitCuil:             cuit.SoloDigitos(in.CuitCuil),
		EmailContacto:        email,
		Correo:               entity.NormalizarEmail(in.Correo),
		NombreContacto:       nombre,
		ApellidoContacto:     apellido,
		ContactosSecundarios: normalizarContactos(in.Contactos),
		RubroID:              in.RubroID,
		SubRubro:             opcional(in.SubRubro),
		SubRubroProducto:     opcional(in.SubRubroProducto),
		SubRubroServicio:     opcional(in.SubRubroServicio),
		TipoEmpresaValor:     in.TipoEmpresaValor,
		ProvinciaID:          in.ProvinciaID,
		DepartamentoID:       in.DepartamentoID,
		MunicipioID:          opcional(in.MunicipioID),
		LocalidadID:          opcional(in.LocalidadID),
		Telefono:             telefono,
		InteresExportar:      in.InteresExportar,
	}

	err = uc.txRunner.Run(ctx, func(
		solicitudRepo repository.SolicitudRepository,
		_ repository.UsuarioRepository,
		_ repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error {
		if err := solicitudRepo.Crear(ctx, s); err != nil {
			return err
		}
		return auditRepo.Crear(ctx, actor.Entrada(
			entity.AccionCrear, "SolicitudRegistro", s.ID, s.RazonSocial,
			map[string]any{"estado": s.Estado, "cuit_cuil": s.CuitCuil},
		))
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetSolicitud obtiene una solicitud por ID.
func (uc *UseCase) GetSolicitud(ctx context.Context, id string) (*entity.SolicitudRegistro, error) {
	s, err := uc.solicitudRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNoEncontrado, id)
	}
	return s, nil
}

// ListSolicitudes pagina solicitudes; estado vacío lista todas.
func (uc *UseCase) ListSolicitudes(ctx context.Context, estado string, limit, offset int) ([]*entity.SolicitudRegistro, error) {
	if estado != "" && estado != entity.SolicitudPendiente &&
		estado != entity.SolicitudAprobada && estado != entity.SolicitudRechazada {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrEntradaInvalida, estado)
	}
	return uc.solicitudRepo.List(ctx, estado, limit, offset)
}

// ResultadoAprobacion registros creados por una aprobación.
type ResultadoAprobacion struct {
	Solicitud *entity.SolicitudRegistro
	Empresa   *entity.Empresa
	Usuario   *entity.Usuario
}

// Aprobar transiciona pending → approved creando la empresa y su cuenta
// propietaria en una sola transacción. Las credenciales iniciales se derivan
// de la solicitud: login = email_contacto, password = dígitos del CUIT, con
// cambio obligatorio en el primer acceso. El correo se despacha después del
// commit; si el transporte falla solo se loguea.
func (uc *UseCase) Aprobar(ctx context.Context, solicitudID string, actor auditoria.Actor) (*ResultadoAprobacion, error) {
	s, err := uc.solicitudRepo.GetByID(ctx, solicitudID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNoEncontrado, solicitudID)
	}
	if !s.Pendiente() {
		return nil, fmt.Errorf("%w: la solicitud está %s", domain.ErrTransicionInvalida, s.Estado)
	}

	rubro, err := uc.rubroRepo.GetByID(ctx, s.RubroID)
	if err != nil {
		return nil, err
	}
	if rubro == nil {
		return nil, fmt.Errorf("%w: rubro %s", domain.ErrNoEncontrado, s.RubroID)
	}

	empresa, err := uc.armarEmpresa(ctx, s, rubro)
	if err != nil {
		return nil, err
	}

	rol, err := uc.rolRepo.GetByNombre(ctx, entity.RolEmpresa)
	if err != nil {
		return nil, err
	}
	if rol == nil {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrNoEncontrado, entity.RolEmpresa)
	}

	// Contraseña inicial: los dígitos del CUIT, de un solo uso.
	password := cuit.SoloDigitos(s.CuitCuil)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if existente, err := uc.usuarioRepo.GetByEmail(ctx, s.EmailContacto); err != nil {
		return nil, err
	} else if existente != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmailYaRegistrado, s.EmailContacto)
	}

	ahora := time.Now().UTC()
	usuario := &entity.Usuario{
		ID:                  uuid.New().String(),
		Email:               s.EmailContacto,
		Nombre:              s.NombreContacto,
		Apellido:            s.ApellidoContacto,
		PasswordHash:        string(hash),
		RolID:               rol.ID,
		Activo:              true,
		DebeCambiarPassword: true, // rol Empresa: siempre arranca forzando el cambio
		CreatedAt:           ahora,
		UpdatedAt:           ahora,
	}
	empresa.UsuarioID = usuario.ID

	err = uc.txRunner.Run(ctx, func(
		solicitudRepo repository.SolicitudRepository,
		usuarioRepo repository.UsuarioRepository,
		empresaRepo repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error {
		// Releer con lock: linealiza transiciones concurrentes sobre la misma solicitud.
		bloqueada, err := solicitudRepo.GetByIDParaActualizar(ctx, solicitudID)
		if err != nil {
			return err
		}
		if bloqueada == nil {
			return fmt.Errorf("%w: solicitud %s", domain.ErrNoEncontrado, solicitudID)
		}
		if !bloqueada.Pendiente() {
			return fmt.Errorf("%w: la solicitud está %s", domain.ErrTransicionInvalida, bloqueada.Estado)
		}
		if err := usuarioRepo.Crear(ctx, usuario); err != nil {
			return err
		}
		if err := empresaRepo.Crear(ctx, empresa); err != nil {
			return err
		}
		bloqueada.Estado = entity.SolicitudAprobada
		bloqueada.UsuarioCreado = &usuario.ID
		bloqueada.EmpresaCreada = &empresa.ID
		bloqueada.FechaResolucion = &ahora
		if err := solicitudRepo.Update(ctx, bloqueada); err != nil {
			return err
		}
		*s = *bloqueada
		return auditRepo.Crear(ctx, actor.Entrada(
			entity.AccionAprobar, "SolicitudRegistro", s.ID, s.RazonSocial,
			map[string]any{"empresa_creada": empresa.ID, "usuario_creado": usuario.ID},
		))
	})
	if err != nil {
		return nil, err
	}

	uc.notificar(ctx, PlantillaCredencialesIniciales, usuario.Email, map[string]string{
		"nombre":       usuario.Nombre,
		"razon_social": empresa.RazonSocial,
		"email":        usuario.Email,
		"password":     password,
	})
	// Los contactos secundarios se enteran de la aprobación, sin credenciales.
	for _, contacto := range s.ContactosSecundarios {
		if contacto.Email == "" {
			continue
		}
		uc.notificar(ctx, PlantillaAprobacion, contacto.Email, map[string]string{
			"nombre":       contacto.Nombre,
			"razon_social": empresa.RazonSocial,
		})
	}
	return &ResultadoAprobacion{Solicitud: s, Empresa: empresa, Usuario: usuario}, nil
}

// Rechazar transiciona pending → rejected registrando el motivo. No crea nada.
func (uc *UseCase) Rechazar(ctx context.Context, solicitudID, motivo string, actor auditoria.Actor) error {
	var emailContacto, nombreContacto, razonSocial string
	err := uc.txRunner.Run(ctx, func(
		solicitudRepo repository.SolicitudRepository,
		_ repository.UsuarioRepository,
		_ repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error {
		s, err := solicitudRepo.GetByIDParaActualizar(ctx, solicitudID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%w: solicitud %s", domain.ErrNoEncontrado, solicitudID)
		}
		if !s.Pendiente() {
			return fmt.Errorf("%w: la solicitud está %s", domain.ErrTransicionInvalida, s.Estado)
		}
		ahora := time.Now().UTC()
		s.Estado = entity.SolicitudRechazada
		s.MotivoRechazo = &motivo
		s.FechaResolucion = &ahora
		if err := solicitudRepo.Update(ctx, s); err != nil {
			return err
		}
		emailContacto, nombreContacto, razonSocial = s.EmailContacto, s.NombreContacto, s.RazonSocial
		return auditRepo.Crear(ctx, actor.Entrada(
			entity.AccionRechazar, "SolicitudRegistro", s.ID, s.RazonSocial,
			map[string]any{"motivo": motivo},
		))
	})
	if err != nil {
		return err
	}
	uc.notificar(ctx, PlantillaRechazo, emailContacto, map[string]string{
		"nombre":       nombreContacto,
		"razon_social": razonSocial,
		"motivo":       motivo,
	})
	return nil
}

// Eliminar da de baja una solicitud pendiente o rechazada. Una solicitud
// aprobada ya respalda una empresa y no se elimina. Si estaba pendiente,
// se avisa al contacto que su trámite no sigue.
func (uc *UseCase) Eliminar(ctx context.Context, solicitudID string, actor auditoria.Actor) error {
	var eraPendiente bool
	var emailContacto, nombreContacto, razonSocial string
	err := uc.txRunner.Run(ctx, func(
		solicitudRepo repository.SolicitudRepository,
		_ repository.UsuarioRepository,
		_ repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error {
		s, err := solicitudRepo.GetByIDParaActualizar(ctx, solicitudID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%w: solicitud %s", domain.ErrNoEncontrado, solicitudID)
		}
		if s.Estado == entity.SolicitudAprobada {
			return fmt.Errorf("%w: una solicitud aprobada no se elimina", domain.ErrTransicionInvalida)
		}
		eraPendiente = s.Pendiente()
		emailContacto, nombreContacto, razonSocial = s.EmailContacto, s.NombreContacto, s.RazonSocial
		if err := auditRepo.Crear(ctx, actor.Entrada(
			entity.AccionEliminar, "SolicitudRegistro", s.ID, s.RazonSocial,
			map[string]any{"estado": s.Estado},
		)); err != nil {
			return err
		}
		return solicitudRepo.Eliminar(ctx, s.ID)
	})
	if err != nil {
		return err
	}
	if eraPendiente {
		uc.notificar(ctx, PlantillaRechazo, emailContacto, map[string]string{
			"nombre":       nombreContacto,
			"razon_social": razonSocial,
			"motivo":       "la solicitud fue dada de baja sin resolverse",
		})
	}
	return nil
}

// ReenviarCredenciales reenvía las credenciales vigentes de una empresa.
// Idempotente salvo por la ventana de espera: dentro del cooldown devuelve
// ErrMuyPronto sin consumirlo. Con resetear=true y cambio de contraseña aún
// pendiente, vuelve a derivar la contraseña inicial del CUIT.
func (uc *UseCase) ReenviarCredenciales(ctx context.Context, empresaID string, resetear bool, actor auditoria.Actor) error {
	empresa, err := uc.empresaRepo.GetByID(ctx, empresaID)
	if err != nil {
		return err
	}
	if empresa == nil {
		return fmt.Errorf("%w: empresa %s", domain.ErrNoEncontrado, empresaID)
	}
	ahora := time.Now().UTC()
	if empresa.UltimaNotificacionCredenciales != nil &&
		ahora.Sub(*empresa.UltimaNotificacionCredenciales) < uc.cfg.CooldownReenvio {
		return domain.ErrMuyPronto
	}
	usuario, err := uc.usuarioRepo.GetByID(ctx, empresa.UsuarioID)
	if err != nil {
		return err
	}
	if usuario == nil {
		return fmt.Errorf("%w: usuario de la empresa %s", domain.ErrNoEncontrado, empresaID)
	}

	variables := map[string]string{
		"nombre":       usuario.Nombre,
		"razon_social": empresa.RazonSocial,
		"email":        usuario.Email,
	}
	err = uc.txRunner.Run(ctx, func(
		_ repository.SolicitudRepository,
		usuarioRepo repository.UsuarioRepository,
		empresaRepo repository.EmpresaRepository,
		auditRepo repository.AuditoriaRepository,
	) error {
		if resetear && usuario.DebeCambiarPassword {
			password := cuit.SoloDigitos(empresa.CuitCuil)
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			usuario.PasswordHash = string(hash)
			usuario.UpdatedAt = ahora
			if err := usuarioRepo.Update(ctx, usuario); err != nil {
				return err
			}
			variables["password"] = password
		}
		empresa.UltimaNotificacionCredenciales = &ahora
		empresa.UpdatedAt = ahora
		if err := empresaRepo.Update(ctx, empresa); err != nil {
			return err
		}
		return auditRepo.Crear(ctx, actor.Entrada(
			entity.AccionReenviar, "Empresa", empresa.ID, empresa.RazonSocial,
			map[string]any{"resetear_password": resetear},
		))
	})
	if err != nil {
		return err
	}
	uc.notificar(ctx, PlantillaCredencialesReenvio, usuario.Email, variables)
	return nil
}

// armarEmpresa resuelve rubro/subrubros y construye la empresa con el
// discriminador de la solicitud. Los nombres de subrubro se resuelven sin
// distinguir mayúsculas ni tildes dentro del rubro elegido; si el nombre no
// existe y el rubro expone un "Otro", se usa como fallback.
func (uc *UseCase) armarEmpresa(ctx context.Context, s *entity.SolicitudRegistro, rubro *entity.Rubro) (*entity.Empresa, error) {
	ahora := time.Now().UTC()
	empresa := &entity.Empresa{
		ID:               uuid.New().String(),
		RazonSocial:      s.RazonSocial,
		CuitCuil:         s.CuitCuil,
		TipoEmpresaValor: s.TipoEmpresaValor,
		RubroID:          rubro.ID,
		ProvinciaID:      s.ProvinciaID,
		DepartamentoID:   s.DepartamentoID,
		MunicipioID:      s.MunicipioID,
		LocalidadID:      s.LocalidadID,
		Telefono:         s.Telefono,
		Correo:           primeraNoVacia(s.Correo, s.EmailContacto),
		Exporta:          entity.ExportaNo,
		InteresExportar:  s.InteresExportar,
		CreatedAt:        ahora,
		UpdatedAt:        ahora,
	}

	switch s.TipoEmpresaValor {
	case entity.EmpresaProducto:
		if !rubro.AdmiteEmpresaProducto() {
			return nil, fmt.Errorf("%w: el rubro %q no admite empresas de producto", domain.ErrInvarianteViolada, rubro.Nombre)
		}
		sub, err := uc.resolverSubRubro(ctx, rubro.ID, s.SubRubro)
		if err != nil {
			return nil, err
		}
		empresa.SubRubroID = &sub.ID
	case entity.EmpresaServicio:
		if !rubro.AdmiteEmpresaServicio() {
			return nil, fmt.Errorf("%w: el rubro %q no admite empresas de servicio", domain.ErrInvarianteViolada, rubro.Nombre)
		}
		sub, err := uc.resolverSubRubro(ctx, rubro.ID, s.SubRubro)
		if err != nil {
			return nil, err
		}
		empresa.SubRubroID = &sub.ID
	case entity.EmpresaMixta:
		if rubro.Tipo != entity.RubroMixto && rubro.Tipo != entity.RubroOtro {
			return nil, fmt.Errorf("%w: el rubro %q no admite empresas mixtas", domain.ErrInvarianteViolada, rubro.Nombre)
		}
		subProd, err := uc.resolverSubRubro(ctx, rubro.ID, s.SubRubroProducto)
		if err != nil {
			return nil, err
		}
		subServ, err := uc.resolverSubRubro(ctx, rubro.ID, s.SubRubroServicio)
		if err != nil {
			return nil, err
		}
		empresa.SubRubroProductoID = &subProd.ID
		empresa.SubRubroServicioID = &subServ.ID
	}

	if err := empresa.ValidarSlots(); err != nil {
		return nil, err
	}
	return empresa, nil
}

// resolverSubRubro empata el nombre declarado contra los subrubros activos del
// rubro; sin coincidencia cae al comodín "Otro" del rubro.
func (uc *UseCase) resolverSubRubro(ctx context.Context, rubroID string, nombre *string) (*entity.SubRubro, error) {
	subrubros, err := uc.subRubroRepo.ListPorRubro(ctx, rubroID, true)
	if err != nil {
		return nil, err
	}
	var otro *entity.SubRubro
	for _, sub := range subrubros {
		if nombre != nil && texto.Igual(sub.Nombre, *nombre) {
			return sub, nil
		}
		if sub.EsOtro() {
			otro = sub
		}
	}
	if otro != nil {
		return otro, nil
	}
	declarado := ""
	if nombre != nil {
		declarado = *nombre
	}
	return nil, fmt.Errorf("%w: subrubro %q y el rubro no expone un %q", domain.ErrNoEncontrado, declarado, entity.NombreOtro)
}

func (uc *UseCase) notificar(ctx context.Context, plantilla, destinatario string, variables map[string]string) {
	if err := uc.notificador.Enviar(ctx, plantilla, destinatario, variables); err != nil {
		uc.log.Warn().Err(err).
			Str("plantilla", plantilla).
			Str("destinatario", destinatario).
			Msg("fallo de transporte al notificar; usar reenvío de credenciales")
	}
}

func (uc *UseCase) validarCuit(c string) error {
	if err := cuit.Validar(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEntradaInvalida, err)
	}
	if uc.cfg.ValidarDigitoVerificador {
		if err := cuit.ValidarDigitoVerificador(c); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrEntradaInvalida, err)
		}
	}
	return nil
}

func (uc *UseCase) validarGeografia(ctx context.Context, provinciaID, departamentoID string) error {
	if provinciaID == "" || departamentoID == "" {
		return fmt.Errorf("%w: provincia y departamento son requeridos", domain.ErrEntradaInvalida)
	}
	prov, err := uc.geoRepo.GetProvincia(ctx, provinciaID)
	if err != nil {
		return err
	}
	if prov == nil {
		return fmt.Errorf("%w: provincia %s", domain.ErrNoEncontrado, provinciaID)
	}
	depto, err := uc.geoRepo.GetDepartamento(ctx, departamentoID)
	if err != nil {
		return err
	}
	if depto == nil || depto.ProvinciaID != provinciaID {
		return fmt.Errorf("%w: departamento %s", domain.ErrNoEncontrado, departamentoID)
	}
	return nil
}

func normalizarContactos(in []dto.ContactoSecundarioRequest) []entity.ContactoSecundario {
	if len(in) == 0 {
		return nil
	}
	out := make([]entity.ContactoSecundario, 0, len(in))
	for _, c := range in {
		nombre, apellido := c.Nombre, strings.TrimSpace(c.Apellido)
		if apellido == "" {
			nombre, apellido = entity.SepararNombreCompleto(c.Nombre)
		}
		out = append(out, entity.ContactoSecundario{
			Nombre:   nombre,
			Apellido: apellido,
			Email:    entity.NormalizarEmail(c.Email),
			Telefono: strings.TrimSpace(c.Telefono),
		})
	}
	return out
}

// normalizarTelefono admite dígitos, un + inicial y separadores usuales;
// exige entre 6 y 15 dígitos.
func normalizarTelefono(t string) (string, error) {
	limpio := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '+':
			return r
		case r == ' ', r == '-', r == '(', r == ')', r == '.':
			return -1
		default:
			return 'x' // marca de carácter inválido
		}
	}, strings.TrimSpace(t))
	if strings.ContainsRune(limpio, 'x') {
		return "", fmt.Errorf("%w: teléfono con caracteres inválidos", domain.ErrEntradaInvalida)
	}
	digitos := strings.TrimPrefix(limpio, "+")
	if strings.Contains(digitos, "+") {
		return "", fmt.Errorf("%w: teléfono malformado", domain.ErrEntradaInvalida)
	}
	if len(digitos) < 6 || len(digitos) > 15 {
		return "", fmt.Errorf("%w: teléfono debe tener entre 6 y 15 dígitos", domain.ErrEntradaInvalida)
	}
	return limpio, nil
}

func emailValido(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.Contains(email[at+1:], "@") && strings.Contains(email[at+1:], ".")
}

func opcional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func primeraNoVacia(valores ...string) string {
	for _, v := range valores {
		if v != "" {
			return v
		}
	}
	return ""
}
