package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Storage     StorageConfig
	Import      ImportConfig
	SourceTypes SourceTypesConfig
	Telemetry   TelemetryConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
}

type StorageConfig struct {
	Bucket string
}

// ImportConfig bounds the statement import pipeline.
// Concurrency is the maximum number of rows processed in parallel within one
// import; Workers/QueueSize size the background job pool that runs imports.
type ImportConfig struct {
	Concurrency int
	Workers     int
	QueueSize   int
}

type SourceTypesConfig struct {
	// Path to a YAML file overriding the built-in source-type registry.
	// Empty means built-ins only.
	Path string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

func Load() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	importConcurrency, err := strconv.Atoi(getEnv("IMPORT_CONCURRENCY", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMPORT_CONCURRENCY: %w", err)
	}
	importWorkers, err := strconv.Atoi(getEnv("IMPORT_WORKERS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMPORT_WORKERS: %w", err)
	}
	importQueueSize, err := strconv.Atoi(getEnv("IMPORT_QUEUE_SIZE", "64"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMPORT_QUEUE_SIZE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "spendflix"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "spendflix"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Storage: StorageConfig{
			Bucket: getEnv("STORAGE_BUCKET", ""),
		},
		Import: ImportConfig{
			Concurrency: importConcurrency,
			Workers:     importWorkers,
			QueueSize:   importQueueSize,
		},
		SourceTypes: SourceTypesConfig{
			Path: getEnv("SOURCE_TYPES_PATH", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "spendflix-api"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9090"),
		},
	}

	// Validate required fields
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("STORAGE_BUCKET is required")
	}
	if cfg.Import.Concurrency < 1 {
		return nil, fmt.Errorf("IMPORT_CONCURRENCY must be at least 1")
	}
	if cfg.Import.Workers < 1 {
		return nil, fmt.Errorf("IMPORT_WORKERS must be at least 1")
	}
	if cfg.Import.QueueSize < 1 {
		return nil, fmt.Errorf("IMPORT_QUEUE_SIZE must be at least 1")
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultValue
}
