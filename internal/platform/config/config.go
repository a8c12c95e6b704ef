// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"stayease_backend/internal/platform/db"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Env      string `mapstructure:"APP_ENV"`
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBDriver         string        `mapstructure:"DB_DRIVER"`
	DBHost           string        `mapstructure:"DB_HOST"`
	DBPort           string        `mapstructure:"DB_PORT"`
	DBUser           string        `mapstructure:"DB_USER"`
	DBPassword       string        `mapstructure:"DB_PASSWORD"`
	DBName           string        `mapstructure:"DB_NAME"`
	DBSSLMode        string        `mapstructure:"DB_SSLMODE"`
	DBSQLitePath     string        `mapstructure:"DB_SQLITE_PATH"`
	DBConnectTimeout time.Duration `mapstructure:"DB_CONNECT_TIMEOUT"`
	RunMigrations    bool          `mapstructure:"RUN_MIGRATIONS"`

	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTExpiration     time.Duration `mapstructure:"JWT_EXPIRATION"`
	OAuthClientSecret string        `mapstructure:"OAUTH_CLIENT_SECRET"`

	RedisHost     string        `mapstructure:"REDIS_HOST"`
	RedisPort     string        `mapstructure:"REDIS_PORT"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	AllowedOrigins  string        `mapstructure:"ALLOWED_ORIGINS"`
	RateLimitAuth   int           `mapstructure:"RATE_LIMIT_AUTH"`
	RateLimitView   int           `mapstructure:"RATE_LIMIT_VIEW"`
	RateLimitWindow time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
}

var defaults = map[string]any{
	"APP_ENV":             "development",
	"PORT":                "8080",
	"LOG_LEVEL":           "info",
	"DB_DRIVER":           "postgres",
	"DB_HOST":             "localhost",
	"DB_PORT":             "5432",
	"DB_USER":             "stayease",
	"DB_PASSWORD":         "",
	"DB_NAME":             "stayease",
	"DB_SSLMODE":          "disable",
	"DB_SQLITE_PATH":      "stayease.db",
	"DB_CONNECT_TIMEOUT":  "60s",
	"RUN_MIGRATIONS":      true,
	"JWT_SECRET":          "",
	"JWT_EXPIRATION":      "1h",
	"OAUTH_CLIENT_SECRET": "",
	"REDIS_HOST":          "",
	"REDIS_PORT":          "6379",
	"REDIS_PASSWORD":      "",
	"CACHE_TTL":           "5m",
	"ALLOWED_ORIGINS":     "http://localhost:4200,http://localhost:8080",
	"RATE_LIMIT_AUTH":     20,
	"RATE_LIMIT_VIEW":     120,
	"RATE_LIMIT_WINDOW":   "1m",
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env not loaded, using process environment", "error", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
}

// IsProduction reports whether APP_ENV is production or prod.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate checks required settings.
func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if c.IsProduction() && len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters in production"))
	}
	if c.JWTExpiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}

	switch c.DBDriver {
	case db.DriverPostgres:
		if c.IsProduction() && (c.DBSSLMode == "" || c.DBSSLMode == "disable") {
			errs = append(errs, errors.New("DB_SSLMODE must not be disable in production"))
		}
	case db.DriverSQLite:
		if c.IsProduction() {
			errs = append(errs, errors.New("sqlite driver is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}

	return errors.Join(errs...)
}

// Database returns the connection settings for the db package.
func (c *Config) Database() db.Config {
	return db.Config{
		Driver:     c.DBDriver,
		Host:       c.DBHost,
		Port:       c.DBPort,
		User:       c.DBUser,
		Password:   c.DBPassword,
		Name:       c.DBName,
		SSLMode:    c.DBSSLMode,
		SQLitePath: c.DBSQLitePath,
	}
}

// RedisEnabled reports whether a Redis host is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// RedisAddr returns host:port.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
