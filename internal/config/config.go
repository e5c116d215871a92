// Package config provides application configuration loading and management.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Env                      string `mapstructure:"APP_ENV"`
	Port                     string `mapstructure:"PORT"`
	Debug                    bool   `mapstructure:"APP_DEBUG"`
	DBDriver                 string `mapstructure:"DB_DRIVER"`
	DatabaseURL              string `mapstructure:"DATABASE_URL"`
	DBHost                   string `mapstructure:"DB_HOST"`
	DBPort                   string `mapstructure:"DB_PORT"`
	DBUser                   string `mapstructure:"DB_USER"`
	DBPassword               string `mapstructure:"DB_PASSWORD"`
	DBName                   string `mapstructure:"DB_NAME"`
	DBSSLMode                string `mapstructure:"DB_SSLMODE"`
	SQLitePath               string `mapstructure:"SQLITE_PATH"`
	DBMaxOpenConns           int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int    `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	JWTSecret                string `mapstructure:"JWT_SECRET_KEY"`
	SecretKey                string `mapstructure:"SECRET_KEY"`
	TokenTTLMinutes          int    `mapstructure:"TOKEN_TTL_MINUTES"`
	RevocationBackend        string `mapstructure:"REVOCATION_BACKEND"`
	RedisURL                 string `mapstructure:"REDIS_URL"`
	AllowedOrigins           string `mapstructure:"ALLOWED_ORIGINS"`
	SeedDemoUsers            bool   `mapstructure:"SEED_DEMO_USERS"`
	TracingEnabled           bool   `mapstructure:"TRACING_ENABLED"`
	TracingExporter          string `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint             string `mapstructure:"OTLP_ENDPOINT"`

	// Set when the corresponding secret was not configured and a random
	// per-process value was generated instead.
	JWTSecretGenerated bool `mapstructure:"-"`
	SecretKeyGenerated bool `mapstructure:"-"`
}

var defaults = map[string]any{
	"APP_ENV":                      "development",
	"PORT":                         "5000",
	"APP_DEBUG":                    false,
	"DB_DRIVER":                    "postgres",
	"DATABASE_URL":                 "",
	"DB_HOST":                      "localhost",
	"DB_PORT":                      "5432",
	"DB_USER":                      "postgres",
	"DB_PASSWORD":                  "postgres",
	"DB_NAME":                      "studysmarter",
	"DB_SSLMODE":                   "disable",
	"SQLITE_PATH":                  "studysmarter.db",
	"DB_MAX_OPEN_CONNS":            25,
	"DB_MAX_IDLE_CONNS":            5,
	"DB_CONN_MAX_LIFETIME_MINUTES": 5,
	"JWT_SECRET_KEY":               "",
	"SECRET_KEY":                   "",
	"TOKEN_TTL_MINUTES":            60,
	"REVOCATION_BACKEND":           "memory",
	"REDIS_URL":                    "",
	"ALLOWED_ORIGINS":              "*",
	"SEED_DEMO_USERS":              false,
	"TRACING_ENABLED":              false,
	"TRACING_EXPORTER":             "stdout",
	"OTLP_ENDPOINT":                "localhost:4318",
}

// LoadConfig loads configuration from an optional config.yml, a .env file
// and environment variables, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	cfg.normalize()

	if err := cfg.fillSecrets(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.RevocationBackend = strings.ToLower(strings.TrimSpace(c.RevocationBackend))
	c.TracingExporter = strings.ToLower(strings.TrimSpace(c.TracingExporter))
}

// fillSecrets generates random secrets for unset keys. Generated secrets do
// not survive a restart and differ between instances, so tokens issued by one
// process are rejected by every other one.
func (c *Config) fillSecrets() error {
	if c.JWTSecret == "" {
		secret, err := GenerateSecret()
		if err != nil {
			return fmt.Errorf("generate JWT secret: %w", err)
		}
		c.JWTSecret = secret
		c.JWTSecretGenerated = true
		log.Println("WARNING: JWT_SECRET_KEY is not set; using a random per-process secret. Tokens will not survive restarts or work across instances.")
	}
	if c.SecretKey == "" {
		secret, err := GenerateSecret()
		if err != nil {
			return fmt.Errorf("generate application secret: %w", err)
		}
		c.SecretKey = secret
		c.SecretKeyGenerated = true
		log.Println("WARNING: SECRET_KEY is not set; using a random per-process secret.")
	}
	return nil
}

// GenerateSecret returns 24 random bytes encoded as hex.
func GenerateSecret() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// IsProduction reports whether the config describes a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if c.TokenTTLMinutes <= 0 {
		return errors.New("TOKEN_TTL_MINUTES must be positive")
	}

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.RevocationBackend {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when REVOCATION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unsupported REVOCATION_BACKEND %q", c.RevocationBackend)
	}

	if c.IsProduction() {
		if c.JWTSecretGenerated || c.SecretKeyGenerated {
			return errors.New("JWT_SECRET_KEY and SECRET_KEY must be set explicitly in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET_KEY must be at least 32 characters in production")
		}
		if c.DBDriver == "postgres" && c.DatabaseURL == "" && (c.DBPassword == "postgres" || c.DBPassword == "") {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.RevocationBackend == "memory" {
			log.Println("WARNING: REVOCATION_BACKEND is 'memory' in production. Logouts are not shared between instances and are lost on restart.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	}

	return nil
}
