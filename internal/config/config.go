// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
//
// Every leaf carries its full variable name in the envconfig tag. Nested
// sections are looked up as SECTION_NAME first and fall back to the tag, so
// DATABASE_URL and DB_MAX_CONNS both resolve without a shared prefix.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Redis    RedisConfig
	Invoice  InvoiceConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `envconfig:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"2m"`
	IdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including in-flight imports.
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	URL string `envconfig:"DATABASE_URL" required:"true"`

	MaxConns        int           `envconfig:"DB_MAX_CONNS" default:"20"`
	MinConns        int           `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// MigrateOnStart applies the embedded schema before serving.
	MigrateOnStart bool `envconfig:"DB_MIGRATE_ON_START" default:"true"`
}

// ImportConfig holds catalog import settings.
type ImportConfig struct {
	// MaxFileSize is the maximum accepted upload in bytes (default: 20MB)
	MaxFileSize int64 `envconfig:"IMPORT_MAX_FILE_SIZE" default:"20971520"`

	// Workers bounds concurrent product groups within one import.
	// 1 processes groups strictly in file order.
	Workers int `envconfig:"IMPORT_WORKERS" default:"4"`

	// MaxConcurrent is the number of imports allowed to run at once.
	MaxConcurrent int           `envconfig:"IMPORT_MAX_CONCURRENT" default:"3"`
	MaxWaitTime   time.Duration `envconfig:"IMPORT_MAX_WAIT_TIME" default:"30s"`
	Timeout       time.Duration `envconfig:"IMPORT_TIMEOUT" default:"10m"`

	// IdentityPolicy is lenient or strict. Strict rejects rows that carry
	// neither barcode nor SKU.
	IdentityPolicy string `envconfig:"IMPORT_IDENTITY_POLICY" default:"lenient"`

	// ReportTTL is how long finished import reports stay retrievable.
	ReportTTL time.Duration `envconfig:"IMPORT_REPORT_TTL" default:"24h"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	Enabled bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `envconfig:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// UploadLimit is requests per minute for import and invoice endpoints.
	UploadLimit int `envconfig:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`

	EnableCSP bool `envconfig:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey gates /api routes behind the X-API-Key header.
	RequireAPIKey bool     `envconfig:"REQUIRE_API_KEY" default:"false"`
	APIKeys       []string `envconfig:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `envconfig:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// RedisConfig configures the import report store. An empty Addr keeps
// reports in process memory.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// InvoiceConfig holds supplier invoice intake settings.
type InvoiceConfig struct {
	// ParserURL is the PDF-to-text endpoint. Empty disables PDF uploads;
	// plain text submissions still work.
	ParserURL     string        `envconfig:"INVOICE_PARSER_URL"`
	ParserTimeout time.Duration `envconfig:"INVOICE_PARSER_TIMEOUT" default:"30s"`

	// MarginPercent is applied on top of the tax-inclusive cost.
	MarginPercent float64 `envconfig:"INVOICE_MARGIN_PERCENT" default:"35"`

	KnownSuppliers []string `envconfig:"INVOICE_KNOWN_SUPPLIERS" default:"HABROS BICICLETAS"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// RedisEnabled reports whether import reports go to Redis.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}
