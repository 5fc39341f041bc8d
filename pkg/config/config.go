package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env
// y opcionalmente archivo). Es inmutable una vez construida y se inyecta en
// los casos de uso en el arranque.
type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	SMTP     SMTPConfig
	Registro RegistroConfig
	Densidad DensidadConfig
	Georef   GeorefConfig
	Cache    CacheConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN construye el connection string con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Transportes de notificación disponibles.
const (
	TransporteSMTP    = "smtp"
	TransporteConsola = "consola"
)

// SMTPConfig configuración del transporte de correo. Con Transporte=smtp el
// host es obligatorio: la app falla en el arranque si falta.
type SMTPConfig struct {
	Transporte string // smtp | consola
	Host       string
	Port       int
	User       string
	Password   string
	From       string
}

// Validar falla rápido si se eligió SMTP sin configurarlo.
func (c SMTPConfig) Validar() error {
	if c.Transporte == TransporteSMTP && c.Host == "" {
		return fmt.Errorf("config: SMTP_HOST es obligatorio con SMTP_TRANSPORTE=smtp")
	}
	return nil
}

// RegistroConfig parámetros del workflow de registro y credenciales.
type RegistroConfig struct {
	CooldownReenvio          time.Duration // ventana mínima entre reenvíos de credenciales
	TokenRecuperacionTTL     time.Duration
	MaxIntentosLogin         int
	DuracionBloqueo          time.Duration
	ValidarDigitoVerificador bool // la fuente deja el dígito verificador como opcional
}

// DensidadConfig umbrales de empresas-por-departamento para el binning
// baja|media|alta|muy_alta. Arriba de AltaMax todo es muy_alta.
type DensidadConfig struct {
	BajaMax  int64
	MediaMax int64
	AltaMax  int64
}

// GeorefConfig parámetros del cliente de apis.datos.gob.ar/georef/api.
type GeorefConfig struct {
	BaseURL        string
	ProvinciaID    string // Catamarca = "10"
	TamanoPagina   int    // máximo aceptado por la API: 1000
	SolicitudesSeg float64
}

// CacheConfig cache best-effort de consultas (empresas por departamento).
type CacheConfig struct {
	Habilitado bool
	RedisAddr  string
	Password   string
	DB         int
	TTL        time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde
// archivo .env / config.env). Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "padron-exportadores"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "padron"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "padron-exportadores"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		SMTP: SMTPConfig{
			Transporte: getString(v, "SMTP_TRANSPORTE", TransporteConsola),
			Host:       getString(v, "SMTP_HOST", ""),
			Port:       getInt(v, "SMTP_PORT", 587),
			User:       getString(v, "SMTP_USER", ""),
			Password:   getString(v, "SMTP_PASSWORD", ""),
			From:       getString(v, "SMTP_FROM", "padron@catamarca.gob.ar"),
		},
		Registro: RegistroConfig{
			CooldownReenvio:          getDuration(v, "REGISTRO_COOLDOWN_REENVIO", 24*time.Hour),
			TokenRecuperacionTTL:     getDuration(v, "REGISTRO_TOKEN_RECUPERACION_TTL", 24*time.Hour),
			MaxIntentosLogin:         getInt(v, "REGISTRO_MAX_INTENTOS_LOGIN", 5),
			DuracionBloqueo:          getDuration(v, "REGISTRO_DURACION_BLOQUEO", 30*time.Minute),
			ValidarDigitoVerificador: getBool(v, "REGISTRO_VALIDAR_DIGITO_VERIFICADOR", false),
		},
		Densidad: DensidadConfig{
			BajaMax:  int64(getInt(v, "DENSIDAD_BAJA_MAX", 10)),
			MediaMax: int64(getInt(v, "DENSIDAD_MEDIA_MAX", 50)),
			AltaMax:  int64(getInt(v, "DENSIDAD_ALTA_MAX", 200)),
		},
		Georef: GeorefConfig{
			BaseURL:        getString(v, "GEOREF_BASE_URL", "https://apis.datos.gob.ar/georef/api"),
			ProvinciaID:    getString(v, "GEOREF_PROVINCIA_ID", "10"),
			TamanoPagina:   getInt(v, "GEOREF_TAMANO_PAGINA", 1000),
			SolicitudesSeg: getFloat(v, "GEOREF_SOLICITUDES_SEG", 2),
		},
		Cache: CacheConfig{
			Habilitado: getBool(v, "CACHE_HABILITADO", false),
			RedisAddr:  getString(v, "CACHE_REDIS_ADDR", "localhost:6379"),
			Password:   getString(v, "CACHE_REDIS_PASSWORD", ""),
			DB:         getInt(v, "CACHE_REDIS_DB", 0),
			TTL:        getDuration(v, "CACHE_TTL", 5*time.Minute),
		},
	}

	if err := cfg.SMTP.Validar(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		return v.GetFloat64(key)
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		if d, err := time.ParseDuration(v.GetString(key)); err == nil {
			return d
		}
	}
	return def
}
