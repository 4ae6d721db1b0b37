package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"

	AuthDemo     = "demo"
	AuthPassword = "password"
)

type Config struct {
	Port      string `envconfig:"PORT" default:"8081"`
	LogFile   string `envconfig:"LOG_FILE" default:"./autopecas.log"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	Timezone  string `envconfig:"TIMEZONE" default:"Africa/Luanda"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`
	DBDSN       string `envconfig:"DB_DSN" default:"autopecas.db"`
	RedisURL    string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	CatalogFixture string `envconfig:"CATALOG_FIXTURE"`

	AuthMode       string        `envconfig:"AUTH_MODE" default:"demo"`
	DemoAdminEmail string        `envconfig:"DEMO_ADMIN_EMAIL" default:"admin@autopecas.ao"`
	AuthDelay      time.Duration `envconfig:"AUTH_DELAY" default:"1500ms"`

	SessionCacheSize int           `envconfig:"SESSION_CACHE_SIZE" default:"10000"`
	SessionIdleTTL   time.Duration `envconfig:"SESSION_IDLE_TTL" default:"30m"`

	PaymentDelay       time.Duration `envconfig:"PAYMENT_DELAY" default:"2s"`
	PaymentCardEnabled bool          `envconfig:"PAYMENT_CARD_ENABLED" default:"false"`

	GeminiAPIKey        string `envconfig:"GEMINI_API_KEY"`
	GeminiModel         string `envconfig:"GEMINI_MODEL" default:"gemini-3-flash-preview"`
	GeminiInsightsModel string `envconfig:"GEMINI_INSIGHTS_MODEL" default:"gemini-3-pro-preview"`
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.AuthMode = strings.ToLower(strings.TrimSpace(cfg.AuthMode))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	log.Printf("[config] PORT=%s STORE_DRIVER=%s DB_DSN=%s AUTH_MODE=%s LOG_FILE=%s TIMEZONE=%s",
		cfg.Port, cfg.StoreDriver, cfg.DBDSN, cfg.AuthMode, cfg.LogFile, cfg.Timezone)
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverSQLite, DriverPostgres, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.AuthMode {
	case AuthDemo:
	case AuthPassword:
		if !c.UsesSQL() {
			return errors.New("AUTH_MODE=password needs STORE_DRIVER sqlite or postgres")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	return nil
}

func (c Config) UsesSQL() bool {
	return c.StoreDriver == DriverSQLite || c.StoreDriver == DriverPostgres
}

// Location falls back to UTC when the zone database lacks Timezone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
