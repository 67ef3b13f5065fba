package config

// EnvPrefix namespaces every variable read by Load.
const EnvPrefix = "BISTRO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "BISTRO_APP_ENV"
	EnvPort         = "BISTRO_APP_PORT"
	EnvLogLevel     = "BISTRO_LOG_LEVEL"
	EnvServiceKind  = "BISTRO_SERVICE_KIND"
	EnvCORSOrigins  = "BISTRO_CORS_ALLOWED_ORIGINS"
	EnvDBDSN        = "BISTRO_DB_DSN"
	EnvDBDriver     = "BISTRO_DB_DRIVER"
	EnvDBHost       = "BISTRO_DB_HOST"
	EnvDBUser       = "BISTRO_DB_USER"
	EnvDBName       = "BISTRO_DB_NAME"
	EnvSQLitePath   = "BISTRO_SQLITE_PATH"
	EnvRedisURL     = "BISTRO_REDIS_URL"
	EnvJWTSecret    = "BISTRO_JWT_SECRET"
	EnvJWTIssuer    = "BISTRO_JWT_ISSUER"
	EnvJWTExpMins   = "BISTRO_JWT_EXPIRATION_MINUTES"
	EnvSessionTTL   = "BISTRO_SESSION_TTL_MINUTES"
	EnvDeliveryFee  = "BISTRO_PRICING_DELIVERY_FEE"
	EnvTaxRate      = "BISTRO_PRICING_TAX_RATE"
	EnvReserveFee   = "BISTRO_PRICING_RESERVATION_FEE"
	EnvCartTTL      = "BISTRO_CART_TTL"
	EnvUseSQLite    = "BISTRO_USE_SQLITE"
	EnvAutoMigrate  = "BISTRO_AUTO_MIGRATE"
	EnvCronInterval = "BISTRO_CRON_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
