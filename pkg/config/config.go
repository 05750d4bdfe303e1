package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Auth         AuthConfig
	Checkout     CheckoutConfig
	Avatar       AvatarConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

// Load reads the backend configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadClient reads only what the shopper client needs. It does not require
// database or signing secrets.
func LoadClient() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing client config: %w", err)
	}
	if _, err := url.Parse(cfg.Sync.APIBaseURL); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvSyncAPIBaseURL, err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"STOREFRONT_DB_DSN"`

	Host     string `envconfig:"STOREFRONT_DB_HOST"`
	Port     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	User     string `envconfig:"STOREFRONT_DB_USER"`
	Password string `envconfig:"STOREFRONT_DB_PASSWORD"`
	Name     string `envconfig:"STOREFRONT_DB_NAME"`
	SSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
	GuestCartTTL time.Duration `envconfig:"STOREFRONT_REDIS_GUEST_TTL" default:"720h"`
}

type JWTConfig struct {
	Secret            string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STOREFRONT_JWT_ISSUER" default:"storefront"`
	ExpirationMinutes int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" default:"10080"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	MinLength        int `envconfig:"STOREFRONT_PASSWORD_MIN_LENGTH" default:"6"`
	ArgonMemoryKB    int `envconfig:"STOREFRONT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOREFRONT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOREFRONT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOREFRONT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOREFRONT_ARGON_KEY_LEN" default:"32"`
}

// AuthConfig throttles login attempts per email. A zero limit disables it.
// The RateLimit fields drive the HTTP guard in front of login and register.
type AuthConfig struct {
	LoginAttemptLimit  int64         `envconfig:"STOREFRONT_LOGIN_ATTEMPT_LIMIT" default:"10"`
	LoginAttemptWindow time.Duration `envconfig:"STOREFRONT_LOGIN_ATTEMPT_WINDOW" default:"15m"`

	RateLimitWindow    time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_WINDOW" default:"1m"`
	LoginIPLimit       int           `envconfig:"STOREFRONT_AUTH_LOGIN_IP_LIMIT" default:"30"`
	LoginEmailLimit    int           `envconfig:"STOREFRONT_AUTH_LOGIN_EMAIL_LIMIT" default:"10"`
	RegisterIPLimit    int           `envconfig:"STOREFRONT_AUTH_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"STOREFRONT_AUTH_REGISTER_EMAIL_LIMIT" default:"5"`
	SecureCookie       bool          `envconfig:"STOREFRONT_AUTH_SECURE_COOKIE" default:"false"`
}

type CheckoutConfig struct {
	OrderNumberPrefix string `envconfig:"STOREFRONT_ORDER_NUMBER_PREFIX" default:"ORD"`
}

type AvatarConfig struct {
	MaxBytes     int64    `envconfig:"STOREFRONT_AVATAR_MAX_BYTES" default:"5242880"`
	AllowedTypes []string `envconfig:"STOREFRONT_AVATAR_ALLOWED_TYPES" default:"image/jpeg,image/png,image/gif,image/webp"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

// ClientConfig is the shopper-side configuration.
type ClientConfig struct {
	LogLevel string `envconfig:"STOREFRONT_LOG_LEVEL" default:"warn"`
	Sync     SyncConfig
}

type SyncConfig struct {
	APIBaseURL         string        `envconfig:"STOREFRONT_SYNC_API_BASE_URL" default:"http://localhost:8080"`
	RequestTimeout     time.Duration `envconfig:"STOREFRONT_SYNC_REQUEST_TIMEOUT" default:"10s"`
	InFlightTimeout    time.Duration `envconfig:"STOREFRONT_SYNC_IN_FLIGHT_TIMEOUT" default:"15s"`
	StateDir           string        `envconfig:"STOREFRONT_SYNC_STATE_DIR" default:"~/.storefront"`
	ImageCacheCapacity int           `envconfig:"STOREFRONT_SYNC_IMAGE_CACHE_CAPACITY" default:"50"`
	ImageCacheTTL      time.Duration `envconfig:"STOREFRONT_SYNC_IMAGE_CACHE_TTL" default:"24h"`

	// GuestRedisURL moves the guest collections from StateDir into Redis,
	// keyed by a guest id kept in StateDir.
	GuestRedisURL string        `envconfig:"STOREFRONT_SYNC_GUEST_REDIS_URL"`
	GuestTTL      time.Duration `envconfig:"STOREFRONT_SYNC_GUEST_TTL" default:"720h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
