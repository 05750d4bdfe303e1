package config

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv         = "STOREFRONT_APP_ENV"
	EnvAppPort        = "STOREFRONT_APP_PORT"
	EnvDBDSN          = "STOREFRONT_DB_DSN"
	EnvDBHost         = "STOREFRONT_DB_HOST"
	EnvDBUser         = "STOREFRONT_DB_USER"
	EnvDBName         = "STOREFRONT_DB_NAME"
	EnvRedisURL       = "STOREFRONT_REDIS_URL"
	EnvJWTSecret      = "STOREFRONT_JWT_SECRET"
	EnvJWTExpMins     = "STOREFRONT_JWT_EXPIRATION_MINUTES"
	EnvSyncAPIBaseURL = "STOREFRONT_SYNC_API_BASE_URL"
	EnvSyncStateDir   = "STOREFRONT_SYNC_STATE_DIR"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
