package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/catamarca-exporta/padron-api/internal/application/auditoria"
	"github.com/catamarca-exporta/padron-api/internal/application/dto"
	"github.com/catamarca-exporta/padron-api/internal/application/registro"
	"github.com/catamarca-exporta/padron-api/internal/domain"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
	"github.com/catamarca-exporta/padron-api/pkg/config"
	appjwt "github.com/catamarca-exporta/padron-api/pkg/jwt"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase autenticación y credenciales: login con bloqueo por intentos,
// cambio de contraseña y recuperación por token de un solo uso.
type UseCase struct {
	usuarioRepo repository.UsuarioRepository
	rolRepo     repository.RolRepository
	auditRepo   repository.AuditoriaRepository
	notificador registro.Notificador
	jwtCfg      JWTConfig
	cfg         config.RegistroConfig
	log         *logger.Logger
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(
	usuarioRepo repository.UsuarioRepository,
	rolRepo repository.RolRepository,
	auditRepo repository.AuditoriaRepository,
	notificador registro.Notificador,
	jwtCfg JWTConfig,
	cfg config.RegistroConfig,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		usuarioRepo: usuarioRepo,
		rolRepo:     rolRepo,
		auditRepo:   auditRepo,
		notificador: notificador,
		jwtCfg:      jwtCfg,
		cfg:         cfg,
		log:         log,
	}
}

// Login verifica credenciales. En mismatch incrementa el contador de intentos
// y bloquea la cuenta al superar el umbral; en éxito resetea el contador y
// registra el acceso. La comparación la hace bcrypt en tiempo constante.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest, actor auditoria.Actor) (*dto.LoginResponse, error) {
	usuario, err := uc.usuarioRepo.GetByEmail(ctx, entity.NormalizarEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if usuario == nil {
		// Igualar el costo del camino feliz para no delatar emails existentes.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B0xW1gUz0bQn0nJ1qjyuIzdbp9uW"), []byte(in.Password))
		return nil, domain.ErrNoAutorizado
	}
	ahora := time.Now().UTC()
	if usuario.Bloqueado(ahora) {
		return nil, domain.ErrUsuarioBloqueado
	}
	if !usuario.Activo {
		return nil, domain.ErrAccesoDenegado
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(in.Password)); err != nil {
		usuario.IntentosLoginFallidos++
		if usuario.IntentosLoginFallidos >= uc.cfg.MaxIntentosLogin {
			hasta := ahora.Add(uc.cfg.DuracionBloqueo)
			usuario.BloqueadoHasta = &hasta
			usuario.IntentosLoginFallidos = 0
			uc.log.Warn().Str("usuario", usuario.ID).Time("hasta", hasta).Msg("cuenta bloqueada por intentos fallidos")
		}
		usuario.UpdatedAt = ahora
		if err := uc.usuarioRepo.Update(ctx, usuario); err != nil {
			return nil, err
		}
		return nil, domain.ErrNoAutorizado
	}

	usuario.IntentosLoginFallidos = 0
	usuario.BloqueadoHasta = nil
	usuario.FechaUltimoAcceso = &ahora
	usuario.UpdatedAt = ahora
	if err := uc.usuarioRepo.Update(ctx, usuario); err != nil {
		return nil, err
	}

	rol, err := uc.rolRepo.GetByID(ctx, usuario.RolID)
	if err != nil {
		return nil, err
	}
	nombreRol := ""
	if rol != nil {
		nombreRol = rol.Nombre
	}
	token, err := appjwt.Generate(uc.jwtCfg.Secret, usuario.ID, nombreRol, usuario.DebeCambiarPassword, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	_ = uc.auditRepo.Crear(ctx, actor.Entrada(entity.AccionLogin, "Usuario", usuario.ID, usuario.Email, nil))
	return &dto.LoginResponse{Token: token, User: *toUsuarioResponse(usuario)}, nil
}

// CambiarPassword cambia la contraseña verificando la actual y levanta la
// marca de cambio obligatorio.
func (uc *UseCase) CambiarPassword(ctx context.Context, usuarioID string, in dto.CambiarPasswordRequest) error {
	usuario, err := uc.usuarioRepo.GetByID(ctx, usuarioID)
	if err != nil {
		return err
	}
	if usuario == nil {
		return fmt.Errorf("%w: usuario %s", domain.ErrNoEncontrado, usuarioID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(in.PasswordActual)); err != nil {
		return domain.ErrNoAutorizado
	}
	if len(in.NuevaPassword) < 8 {
		return fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", domain.ErrEntradaInvalida)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NuevaPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	usuario.PasswordHash = string(hash)
	usuario.DebeCambiarPassword = false
	usuario.UpdatedAt = time.Now().UTC()
	return uc.usuarioRepo.Update(ctx, usuario)
}

// EmitirTokenRecuperacion genera un token opaco, guarda su hash con
// vencimiento y lo envía por correo. Devuelve el token en claro al llamador
// para la entrega; nunca se persiste en claro. Si el email no existe no se
// revela: la operación termina sin error.
func (uc *UseCase) EmitirTokenRecuperacion(ctx context.Context, email string) (string, error) {
	usuario, err := uc.usuarioRepo.GetByEmail(ctx, entity.NormalizarEmail(email))
	if err != nil {
		return "", err
	}
	if usuario == nil {
		return "", nil
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)
	hash := hashToken(token)
	expira := time.Now().UTC().Add(uc.cfg.TokenRecuperacionTTL)

	usuario.TokenRecuperacionHash = &hash
	usuario.TokenRecuperacionExpira = &expira
	usuario.UpdatedAt = time.Now().UTC()
	if err := uc.usuarioRepo.Update(ctx, usuario); err != nil {
		return "", err
	}
	if err := uc.notificador.Enviar(ctx, registro.PlantillaTokenRecuperacion, usuario.Email, map[string]string{
		"nombre":   usuario.Nombre,
		"token":    token,
		"vigencia": vigenciaHumana(uc.cfg.TokenRecuperacionTTL),
	}); err != nil {
		uc.log.Warn().Err(err).Str("usuario", usuario.ID).Msg("fallo al enviar token de recuperación")
	}
	return token, nil
}

// vigenciaHumana escribe el TTL como se lee en un correo ("24 horas").
func vigenciaHumana(d time.Duration) string {
	horas := int(d.Hours())
	if horas <= 1 {
		return "1 hora"
	}
	return fmt.Sprintf("%d horas", horas)
}

// ConsumirTokenRecuperacion verifica el token, fija la nueva contraseña,
// limpia el token y levanta el cambio obligatorio.
func (uc *UseCase) ConsumirTokenRecuperacion(ctx context.Context, in dto.RestablecerPasswordRequest) error {
	if in.Token == "" {
		return domain.ErrTokenInvalido
	}
	if len(in.NuevaPassword) < 8 {
		return fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", domain.ErrEntradaInvalida)
	}
	usuario, err := uc.usuarioRepo.GetByTokenRecuperacion(ctx, hashToken(in.Token))
	if err != nil {
		return err
	}
	if usuario == nil {
		return domain.ErrTokenInvalido
	}
	if usuario.TokenRecuperacionExpira == nil || time.Now().UTC().After(*usuario.TokenRecuperacionExpira) {
		return domain.ErrTokenExpirado
	}
	nuevoHash, err := bcrypt.GenerateFromPassword([]byte(in.NuevaPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	usuario.PasswordHash = string(nuevoHash)
	usuario.TokenRecuperacionHash = nil
	usuario.TokenRecuperacionExpira = nil
	usuario.DebeCambiarPassword = false
	usuario.IntentosLoginFallidos = 0
	usuario.BloqueadoHasta = nil
	usuario.UpdatedAt = time.Now().UTC()
	return uc.usuarioRepo.Update(ctx, usuario)
}

// VerificarPassword chequea una contraseña candidata sin efectos secundarios
// (herramienta de operador, no incrementa intentos).
func (uc *UseCase) VerificarPassword(ctx context.Context, email, candidata string) (bool, error) {
	usuario, err := uc.usuarioRepo.GetByEmail(ctx, entity.NormalizarEmail(email))
	if err != nil {
		return false, err
	}
	if usuario == nil {
		return false, fmt.Errorf("%w: %s", domain.ErrNoEncontrado, email)
	}
	return bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(candidata)) == nil, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func toUsuarioResponse(u *entity.Usuario) *dto.UsuarioResponse {
	if u == nil {
		return nil
	}
	return &dto.UsuarioResponse{
		ID:                  u.ID,
		Email:               u.Email,
		Nombre:              u.Nombre,
		Apellido:            u.Apellido,
		RolID:               u.RolID,
		Activo:              u.Activo,
		DebeCambiarPassword: u.DebeCambiarPassword,
		FechaUltimoAcceso:   u.FechaUltimoAcceso,
		CreatedAt:           u.CreatedAt,
	}
}
