package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Pricing       PricingConfig
	Cart          CartConfig
	Menu          MenuConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"BISTRO_APP_ENV" required:"true"`
	Port         string   `envconfig:"BISTRO_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"BISTRO_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"BISTRO_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"BISTRO_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BISTRO_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN        string `envconfig:"BISTRO_DB_DSN"`
	Driver     string `envconfig:"BISTRO_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"BISTRO_SQLITE_PATH" default:"bistro.db"`

	LegacyHost     string `envconfig:"BISTRO_DB_HOST"`
	LegacyPort     int    `envconfig:"BISTRO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BISTRO_DB_USER"`
	LegacyPassword string `envconfig:"BISTRO_DB_PASSWORD"`
	LegacyName     string `envconfig:"BISTRO_DB_NAME"`
	LegacySSLMode  string `envconfig:"BISTRO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BISTRO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BISTRO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BISTRO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BISTRO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BISTRO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BISTRO_REDIS_ADDR"`
	Password     string        `envconfig:"BISTRO_REDIS_PASSWORD"`
	DB           int           `envconfig:"BISTRO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BISTRO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BISTRO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BISTRO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BISTRO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BISTRO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BISTRO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BISTRO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BISTRO_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"BISTRO_SESSION_TTL_MINUTES" default:"10080"`
}

// SessionTTL is how long a login session survives in redis.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BISTRO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BISTRO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BISTRO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BISTRO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BISTRO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"BISTRO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"BISTRO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"BISTRO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// PricingConfig holds the fee schedule handed to the cart ledger.
type PricingConfig struct {
	DeliveryFee    decimal.Decimal `envconfig:"BISTRO_PRICING_DELIVERY_FEE" default:"150"`
	TaxRate        decimal.Decimal `envconfig:"BISTRO_PRICING_TAX_RATE" default:"0.05"`
	ReservationFee decimal.Decimal `envconfig:"BISTRO_PRICING_RESERVATION_FEE" default:"500"`
	Currency       string          `envconfig:"BISTRO_PRICING_CURRENCY" default:"PKR"`
}

func (p PricingConfig) validate() error {
	if p.DeliveryFee.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvDeliveryFee)
	}
	if p.TaxRate.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvTaxRate)
	}
	if p.ReservationFee.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvReserveFee)
	}
	return nil
}

type CartConfig struct {
	TTL         time.Duration `envconfig:"BISTRO_CART_TTL" default:"72h"`
	MaxQuantity int           `envconfig:"BISTRO_CART_MAX_QUANTITY" default:"99"`
}

type MenuConfig struct {
	CollationLanguage string        `envconfig:"BISTRO_MENU_COLLATION" default:"en"`
	CatalogCacheTTL   time.Duration `envconfig:"BISTRO_MENU_CATALOG_CACHE_TTL" default:"30s"`
}

type CronConfig struct {
	Interval        time.Duration `envconfig:"BISTRO_CRON_INTERVAL" default:"5m"`
	LockTTL         time.Duration `envconfig:"BISTRO_CRON_LOCK_TTL" default:"4m"`
	PendingOrderTTL time.Duration `envconfig:"BISTRO_CRON_PENDING_ORDER_TTL" default:"2h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BISTRO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BISTRO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}
	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
