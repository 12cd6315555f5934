// Package config loads and validates the service configuration from a YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName  = "shorty"
	defaultServicePort  = 8094
	defaultVersion      = "0.1.0"
	defaultTokenTTL     = 12 * time.Hour
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"

	defaultDBHost    = "localhost"
	defaultDBPort    = 5432
	defaultDBName    = "shorty"
	defaultDBUser    = "postgres"
	defaultDBSSLMode = "disable"

	defaultDBMaxConns        = 25
	defaultDBMaxIdleConns    = 5
	defaultDBConnMaxLifetime = 5 * time.Minute

	defaultMaxRedirectsPerMinute = 120
	defaultWindowSeconds         = 60
)

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name      string        `yaml:"name"`
	Version   string        `yaml:"version"`
	Port      int           `env:"SHORTY_PORT"       yaml:"port"`
	Debug     bool          `env:"APP_DEBUG"         yaml:"debug"`
	JWTSecret string        `env:"SHORTY_JWT_SECRET" yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host            string        `env:"POSTGRES_SHORTY_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_SHORTY_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_SHORTY_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_SHORTY_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_SHORTY_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SHORTY_SSLMODE"  yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// MigrateURL returns the postgres:// URL used by golang-migrate.
func (d *DatabaseConfig) MigrateURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// AuthConfig holds credential verification configuration. Users is consumed
// by the built-in static authenticator; production deployments verify
// credentials against a directory service instead.
type AuthConfig struct {
	Users []UserCredential `yaml:"users"`
}

// UserCredential pairs a username with a bcrypt password hash for the static
// authenticator. Plaintext passwords are never configured.
type UserCredential struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

// RateLimitConfig holds redirect rate limiting configuration.
type RateLimitConfig struct {
	MaxRedirectsPerMinute int `yaml:"max_redirects_per_minute"`
	WindowSeconds         int `yaml:"window_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return load(path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setRateLimitDefaults(&cfg.RateLimit)
	setLoggingDefaults(&cfg.Logging)
}

// setServiceDefaults applies default values to ServiceConfig.
func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
	if svc.TokenTTL == 0 {
		svc.TokenTTL = defaultTokenTTL
	}
}

// setDatabaseDefaults applies default values to DatabaseConfig.
func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
	if db.MaxConnections == 0 {
		db.MaxConnections = defaultDBMaxConns
	}
	if db.MaxIdleConns == 0 {
		db.MaxIdleConns = defaultDBMaxIdleConns
	}
	if db.ConnMaxLifetime == 0 {
		db.ConnMaxLifetime = defaultDBConnMaxLifetime
	}
}

// setRateLimitDefaults applies default values to RateLimitConfig.
func setRateLimitDefaults(rl *RateLimitConfig) {
	if rl.MaxRedirectsPerMinute == 0 {
		rl.MaxRedirectsPerMinute = defaultMaxRedirectsPerMinute
	}
	if rl.WindowSeconds == 0 {
		rl.WindowSeconds = defaultWindowSeconds
	}
}

// setLoggingDefaults applies default values to LoggingConfig.
func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if c.Service.JWTSecret == "" {
		return &ValidationError{
			Field:   "service.jwt_secret",
			Message: "is required",
		}
	}
	if c.Database.Host == "" {
		return &ValidationError{
			Field:   "database.host",
			Message: "is required",
		}
	}
	return nil
}
