package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	Parser   ParserConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	// Backend selects the repository implementation: "sqlite" or "postgres".
	Backend string
	// Path is the SQLite database file (":memory:" for an in-memory store).
	Path string
	// DSN is the Postgres connection string when Backend is "postgres".
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
	PSM           int
	Timeout       time.Duration
}

// ParserConfig holds parsing-related configuration
type ParserConfig struct {
	// ProfilesPath optionally points at a JSON file of bank profiles merged
	// over the built-in set. Empty means built-ins only.
	ProfilesPath string
	MaxBatchSize int
	Workers      int
	KeepRawText  bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Backend:         getEnv("DB_BACKEND", "sqlite"),
			Path:            getEnv("DB_PATH", "statements.db"),
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		OCR: OCRConfig{
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 3),
			PSM:           getEnvAsInt("OCR_PSM", 6),
			Timeout:       getEnvAsDuration("OCR_TIMEOUT", 90*time.Second),
		},
		Parser: ParserConfig{
			ProfilesPath: getEnv("BANK_PROFILES_PATH", ""),
			MaxBatchSize: getEnvAsInt("PARSE_MAX_BATCH", 10),
			Workers:      getEnvAsInt("PARSE_WORKERS", 4),
			KeepRawText:  getEnvAsBool("PARSE_KEEP_RAW_TEXT", true),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	switch c.Database.Backend {
	case "sqlite":
		if c.Database.Path == "" {
			return NewAppError("CONFIG_ERROR", "DB_PATH is required for sqlite backend", ErrInvalidInput)
		}
	case "postgres":
		if c.Database.DSN == "" {
			return NewAppError("CONFIG_ERROR", "DB_URL is required for postgres backend", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "DB_BACKEND must be sqlite or postgres", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	if c.Parser.MaxBatchSize <= 0 {
		return NewAppError("CONFIG_ERROR", "PARSE_MAX_BATCH must be positive", ErrInvalidInput)
	}
	if c.Parser.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "PARSE_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
