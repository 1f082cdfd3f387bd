package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Catalogue sources.
const (
	CatalogSourcePostgres = "postgres"
	CatalogSourceFile     = "file"
	CatalogSourceS3       = "s3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	POS      POSConfig
	S3       S3Config
	Redis    RedisConfig
	Kafka    KafkaConfig
	Printer  PrinterConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host           string
	Port           int
	CORSOrigin     string
	RequestTimeout int // seconds
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
	Migrate         bool
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// POSConfig holds point-of-sale settings shared by every terminal.
type POSConfig struct {
	StoreName      string
	TaxRate        decimal.Decimal
	ReceiptPrefix  string
	ScanTerminator string // "enter" or "tab"
	CatalogSource  string
	CatalogFile    string
}

// S3Config holds AWS S3 configuration for the catalogue snapshot.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Key     string
}

// RedisConfig holds the held-order store configuration.
type RedisConfig struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	HeldOrderTTL int // seconds, 0 keeps held orders until recalled
}

// KafkaConfig holds the sale event publisher configuration.
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	ReceiptTopic string
}

// PrinterConfig holds receipt printer configuration.
type PrinterConfig struct {
	Type  string // "none" or "log"
	Width int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	taxRate, err := getEnvAsDecimal("POS_TAX_RATE", decimal.RequireFromString("0.15"))
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			CORSOrigin:     getEnv("SERVER_CORS_ORIGIN", "*"),
			RequestTimeout: getEnvAsInt("SERVER_REQUEST_TIMEOUT", 15),
		},
		Database: DatabaseConfig{
			Enabled:         getEnvAsBool("DB_ENABLED", true),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "minipos"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
			Migrate:         getEnvAsBool("DB_MIGRATE", false),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		POS: POSConfig{
			StoreName:      getEnv("POS_STORE_NAME", "Mini POS"),
			TaxRate:        taxRate,
			ReceiptPrefix:  getEnv("POS_RECEIPT_PREFIX", "RCP"),
			ScanTerminator: getEnv("POS_SCAN_TERMINATOR", "enter"),
			CatalogSource:  getEnv("POS_CATALOG_SOURCE", CatalogSourcePostgres),
			CatalogFile:    getEnv("POS_CATALOG_FILE", "data/catalog.jsonl.gz"),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "us-east-1"),
			Key:     getEnv("S3_KEY", "catalog/catalog.jsonl.gz"),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			HeldOrderTTL: getEnvAsInt("HELD_ORDER_TTL", 0),
		},
		Kafka: KafkaConfig{
			Enabled:      getEnvAsBool("KAFKA_ENABLED", false),
			Brokers:      getEnvAsList("KAFKA_BROKERS", []string{"localhost:9092"}),
			ReceiptTopic: getEnv("KAFKA_RECEIPT_TOPIC", "pos-sales"),
		},
		Printer: PrinterConfig{
			Type:  getEnv("PRINTER_TYPE", "none"),
			Width: getEnvAsInt("PRINTER_WIDTH", 42),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("invalid SERVER_REQUEST_TIMEOUT: %d", c.Server.RequestTimeout)
	}

	if c.Database.Enabled {
		if err := c.Database.validate(); err != nil {
			return err
		}
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if err := c.validatePOS(); err != nil {
		return err
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if c.Redis.HeldOrderTTL < 0 {
		return fmt.Errorf("held order TTL cannot be negative")
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka brokers are required when kafka is enabled")
		}
		if c.Kafka.ReceiptTopic == "" {
			return fmt.Errorf("kafka receipt topic is required when kafka is enabled")
		}
	}

	if c.Printer.Type != "none" && c.Printer.Type != "log" {
		return fmt.Errorf("invalid printer type: %s (must be none or log)", c.Printer.Type)
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

func (c *Config) validatePOS() error {
	if c.POS.TaxRate.IsNegative() || c.POS.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("invalid tax rate: %s (must be between 0 and 1)", c.POS.TaxRate)
	}

	if c.POS.ReceiptPrefix == "" {
		return fmt.Errorf("receipt prefix is required")
	}

	if c.POS.ScanTerminator != "enter" && c.POS.ScanTerminator != "tab" {
		return fmt.Errorf("invalid scan terminator: %s (must be enter or tab)", c.POS.ScanTerminator)
	}

	switch c.POS.CatalogSource {
	case CatalogSourcePostgres:
		if !c.Database.Enabled {
			return fmt.Errorf("postgres catalogue source requires the database to be enabled")
		}
	case CatalogSourceFile:
		if c.POS.CatalogFile == "" {
			return fmt.Errorf("catalogue file is required for the file catalogue source")
		}
	case CatalogSourceS3:
		if !c.S3.Enabled {
			return fmt.Errorf("s3 catalogue source requires S3 to be enabled")
		}
	default:
		return fmt.Errorf("invalid catalogue source: %s (must be postgres, file, or s3)", c.POS.CatalogSource)
	}

	return nil
}

// ScanTerminatorRune returns the keystroke that ends a barcode scan.
func (c *POSConfig) ScanTerminatorRune() rune {
	if c.ScanTerminator == "tab" {
		return '\t'
	}
	return '\n'
}

// HeldOrderTTLDuration returns the held-order expiry as a duration.
func (c *RedisConfig) HeldOrderTTLDuration() time.Duration {
	return time.Duration(c.HeldOrderTTL) * time.Second
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RequestTimeoutDuration returns the per-request deadline.
func (c *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDecimal retrieves an environment variable as a decimal. Malformed
// values are reported rather than defaulted.
func getEnvAsDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %q", key, value)
	}
	return d, nil
}

// getEnvAsList retrieves a comma-separated environment variable.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
