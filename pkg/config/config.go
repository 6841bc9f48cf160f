package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Bootstrap BootstrapConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string
	LogLevel    string
	SwaggerFile string // ruta al swagger.json; vacío o inexistente = sin /docs
}

// DBConfig configuración de persistencia.
// Driver "memory" usa el store en proceso (sin PostgreSQL).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver      string // postgres | memory
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	Migrate     bool // aplicar migraciones embebidas al arrancar
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
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

// StorageConfig destino de los archivos subidos.
type StorageConfig struct {
	Provider       string // local | gcs
	UploadDir      string
	MaxBytes       int64
	FileBaseURL    string // base para resolver rutas relativas en las respuestas
	GCSBucket      string
	GCSCredentials string // JSON de la cuenta de servicio; vacío = credenciales por defecto
}

// RedisConfig caché de estadísticas y bloqueo distribuido. Address vacío = deshabilitado.
type RedisConfig struct {
	Address  string
	Password string
	StatsTTL time.Duration
}

// BootstrapConfig administrador inicial creado si no existe ninguno.
type BootstrapConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "sitetrack-api"),
			LogLevel:    getString(v, "LOG_LEVEL", "info"),
			SwaggerFile: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(getString(v, "DB_DRIVER", "postgres")),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "sitetrack"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			Migrate:     getBool(v, "DB_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60*12),
			Issuer:     getString(v, "JWT_ISSUER", "sitetrack-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Storage: StorageConfig{
			Provider:       strings.ToLower(getString(v, "STORAGE_PROVIDER", "local")),
			UploadDir:      getString(v, "UPLOAD_DIR", "./uploads"),
			MaxBytes:       int64(getInt(v, "UPLOAD_MAX_BYTES", 10<<20)),
			FileBaseURL:    getString(v, "FILE_BASE_URL", ""),
			GCSBucket:      getString(v, "GCS_BUCKET", ""),
			GCSCredentials: getString(v, "GCS_CREDENTIALS_JSON", ""),
		},
		Redis: RedisConfig{
			Address:  getString(v, "REDIS_ADDRESS", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			StatsTTL: time.Duration(getInt(v, "STATS_CACHE_TTL_SECONDS", 30)) * time.Second,
		},
		Bootstrap: BootstrapConfig{
			AdminEmail:    getString(v, "BOOTSTRAP_ADMIN_EMAIL", ""),
			AdminPassword: getString(v, "BOOTSTRAP_ADMIN_PASSWORD", ""),
			AdminName:     getString(v, "BOOTSTRAP_ADMIN_NAME", "Administrador"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET es obligatorio")
	}
	switch c.DB.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("DB_DRIVER inválido: %q", c.DB.Driver)
	}
	switch c.Storage.Provider {
	case "local":
	case "gcs":
		if c.Storage.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET es obligatorio con STORAGE_PROVIDER=gcs")
		}
	default:
		return fmt.Errorf("STORAGE_PROVIDER inválido: %q", c.Storage.Provider)
	}
	return nil
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
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
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
