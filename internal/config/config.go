package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	S3         S3Config
	Extraction ExtractionConfig
	CoreBank   CoreBankConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Sweeper    SweeperConfig
	Log        LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings for the intake ledger.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds object storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// ExtractionConfig holds OCR/extraction vendor settings.
type ExtractionConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	APIKey      string `mapstructure:"api_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// CoreBankConfig holds the core-banking backend API settings.
type CoreBankConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIToken    string `mapstructure:"api_token"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// JWTConfig holds bearer-token verification settings. Tokens are issued
// by the bank's identity service; this service only verifies them.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SweeperConfig holds orphaned-upload sweeper settings.
type SweeperConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	StaleAfterSecs   int `mapstructure:"stale_after_secs"`
	BatchSize        int `mapstructure:"batch_size"`
	Concurrency      int `mapstructure:"concurrency"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the LENFLOW_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LENFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "lenflow")
	v.SetDefault("db.password", "lenflow_secret")
	v.SetDefault("db.name", "lenflow_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "lenflow-intake")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Extraction defaults
	v.SetDefault("extraction.endpoint", "")
	v.SetDefault("extraction.api_key", "")
	v.SetDefault("extraction.timeout_secs", 120)

	// Core-banking API defaults
	v.SetDefault("corebank.base_url", "http://localhost:9090/api")
	v.SetDefault("corebank.api_token", "")
	v.SetDefault("corebank.timeout_secs", 30)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "lenflow")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Sweeper defaults
	v.SetDefault("sweeper.poll_interval_secs", 300)
	v.SetDefault("sweeper.stale_after_secs", 86400)
	v.SetDefault("sweeper.batch_size", 50)
	v.SetDefault("sweeper.concurrency", 4)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "LENFLOW_SERVER_PORT",
		"server.read_timeout":        "LENFLOW_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "LENFLOW_SERVER_WRITE_TIMEOUT",
		"server.environment":         "LENFLOW_SERVER_ENVIRONMENT",
		"db.host":                    "LENFLOW_DB_HOST",
		"db.port":                    "LENFLOW_DB_PORT",
		"db.user":                    "LENFLOW_DB_USER",
		"db.password":                "LENFLOW_DB_PASSWORD",
		"db.name":                    "LENFLOW_DB_NAME",
		"db.sslmode":                 "LENFLOW_DB_SSLMODE",
		"db.max_open":                "LENFLOW_DB_MAX_OPEN",
		"db.max_idle":                "LENFLOW_DB_MAX_IDLE",
		"s3.region":                  "LENFLOW_S3_REGION",
		"s3.bucket":                  "LENFLOW_S3_BUCKET",
		"s3.endpoint":                "LENFLOW_S3_ENDPOINT",
		"s3.access_key":              "LENFLOW_S3_ACCESS_KEY",
		"s3.secret_key":              "LENFLOW_S3_SECRET_KEY",
		"s3.max_file_size_mb":        "LENFLOW_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":          "LENFLOW_S3_PRESIGN_EXPIRY",
		"extraction.endpoint":        "LENFLOW_EXTRACTION_ENDPOINT",
		"extraction.api_key":         "LENFLOW_EXTRACTION_API_KEY",
		"extraction.timeout_secs":    "LENFLOW_EXTRACTION_TIMEOUT_SECS",
		"corebank.base_url":          "LENFLOW_COREBANK_BASE_URL",
		"corebank.api_token":         "LENFLOW_COREBANK_API_TOKEN",
		"corebank.timeout_secs":      "LENFLOW_COREBANK_TIMEOUT_SECS",
		"jwt.secret":                 "LENFLOW_JWT_SECRET",
		"jwt.issuer":                 "LENFLOW_JWT_ISSUER",
		"cors.allowed_origins":       "LENFLOW_CORS_ALLOWED_ORIGINS",
		"sweeper.poll_interval_secs": "LENFLOW_SWEEPER_POLL_INTERVAL_SECS",
		"sweeper.stale_after_secs":   "LENFLOW_SWEEPER_STALE_AFTER_SECS",
		"sweeper.batch_size":         "LENFLOW_SWEEPER_BATCH_SIZE",
		"sweeper.concurrency":        "LENFLOW_SWEEPER_CONCURRENCY",
		"log.level":                  "LENFLOW_LOG_LEVEL",
		"log.format":                 "LENFLOW_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if LENFLOW_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LENFLOW_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Extraction = ExtractionConfig{
		Endpoint:    v.GetString("extraction.endpoint"),
		APIKey:      v.GetString("extraction.api_key"),
		TimeoutSecs: v.GetInt("extraction.timeout_secs"),
	}
	cfg.CoreBank = CoreBankConfig{
		BaseURL:     v.GetString("corebank.base_url"),
		APIToken:    v.GetString("corebank.api_token"),
		TimeoutSecs: v.GetInt("corebank.timeout_secs"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Sweeper = SweeperConfig{
		PollIntervalSecs: v.GetInt("sweeper.poll_interval_secs"),
		StaleAfterSecs:   v.GetInt("sweeper.stale_after_secs"),
		BatchSize:        v.GetInt("sweeper.batch_size"),
		Concurrency:      v.GetInt("sweeper.concurrency"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
