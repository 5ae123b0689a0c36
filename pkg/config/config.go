package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultJWTSecret is only acceptable in development
const DefaultJWTSecret = "key"

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Repository RepositoryConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Redis      RedisConfig
	Auth       AuthConfig
	CORS       CORSConfig
	OTEL       OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host     string
	Port     int
	Env      string
	LogLevel string
}

// RepositoryConfig selects the persistence backend
type RepositoryConfig struct {
	Type string // memory or database
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // postgres or sqlite3
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	Path     string
}

// CacheConfig holds read-through cache configuration
type CacheConfig struct {
	Provider string // none, memory or redis
	TTL      time.Duration
	MaxSize  int64

	// Broadcast shares invalidations between instances over Redis Pub/Sub.
	// It only applies to the memory provider.
	Broadcast bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// CORSConfig holds allowed origins
type CORSConfig struct {
	AllowedOrigins []string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	env := getEnv("ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Host:     getEnv("SERVER_HOST", "0.0.0.0"),
			Port:     getEnvAsInt("SERVER_PORT", 5000),
			Env:      env,
			LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
		Repository: RepositoryConfig{
			Type: strings.ToLower(getEnv("REPOSITORY_TYPE", "memory")),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", defaultDriver(env))),
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "hbnb_prod"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "hbnb_dev.db"),
		},
		Cache: CacheConfig{
			Provider:  strings.ToLower(getEnv("CACHE_PROVIDER", "none")),
			TTL:       getEnvAsDuration("CACHE_TTL", 5*time.Minute),
			MaxSize:   int64(getEnvAsInt("CACHE_MAX_SIZE", 5000)),
			Broadcast: getEnvAsBool("CACHE_BROADCAST", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("SECRET_KEY", DefaultJWTSecret),
			TokenTTL:  getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "hbnb-api"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot start with
func (c *Config) Validate() error {
	switch c.Repository.Type {
	case "memory", "database":
	default:
		return fmt.Errorf("unsupported REPOSITORY_TYPE %q (want memory or database)", c.Repository.Type)
	}

	switch c.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres or sqlite3)", c.Database.Driver)
	}

	switch c.Cache.Provider {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("unsupported CACHE_PROVIDER %q (want none, memory or redis)", c.Cache.Provider)
	}

	if !c.IsDevelopment() && c.Auth.JWTSecret == DefaultJWTSecret {
		return fmt.Errorf("SECRET_KEY must be set outside development")
	}

	return nil
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// DatabaseDSN returns the driver-specific connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	if c.URL != "" {
		if c.Driver == "sqlite3" {
			return strings.TrimPrefix(c.URL, "sqlite:///")
		}
		return c.URL
	}

	if c.Driver == "sqlite3" {
		return c.Path
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, url.QueryEscape(c.Password), c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// sqlite in development, postgres everywhere else
func defaultDriver(env string) string {
	if env == "development" {
		return "sqlite3"
	}
	return "postgres"
}

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
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
