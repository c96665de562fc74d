package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is only accepted outside production.
const DefaultJWTSecret = "codercomm-dev-secret-change-me"

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	Env       string `mapstructure:"APP_ENV"`
	AppPort   string `mapstructure:"APP_PORT"`
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// TokenTTLHours is the lifetime of issued access tokens.
	TokenTTLHours int `mapstructure:"TOKEN_TTL_HOURS"`
	// Database: DBDriver is "mysql" or "sqlite". DatabaseURI wins over the discrete fields.
	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURI string `mapstructure:"DATABASE_URI"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	DBMaxOpen   int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdle   int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	// Redis backs the token blacklist; empty host means in-memory fallback.
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     int    `mapstructure:"REDIS_PORT"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	// HTTP
	RateLimitPerMinute int      `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	AllowedOrigins     []string `mapstructure:"ALLOWED_ORIGINS"`
	// Gin framework configuration
	GinMode string `mapstructure:"GIN_MODE"`
	GinPath string `mapstructure:"GIN_LOG_PATH"`
	// Logging configuration
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogPath       string `mapstructure:"LOG_PATH"`
	LogMaxSizeMB  int    `mapstructure:"LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `mapstructure:"LOG_MAX_BACKUPS"`
	LogMaxAgeDays int    `mapstructure:"LOG_MAX_AGE_DAYS"`
	LogCompress   bool   `mapstructure:"LOG_COMPRESS"`
}

var (
	cfg    AppConfig
	loaded bool
	mu     sync.Mutex
)

// Load loads the application configuration. It should be called once during boot.
// Precedence: defaults -> config/config.json -> environment variables.
func Load() AppConfig {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg
	}

	c, err := Read(filepath.Join("config", "config.json"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg = c
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	mu.Lock()
	ok := loaded
	c := cfg
	mu.Unlock()
	if !ok {
		return Load()
	}
	return c
}

// Set replaces the cached configuration. Used by tools and tests.
func Set(c AppConfig) {
	mu.Lock()
	cfg = c
	loaded = true
	mu.Unlock()
}

// Read builds a configuration from the optional JSON file at path and the environment.
func Read(path string) (AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("read %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	var out AppConfig
	if err := v.Unmarshal(&out); err != nil {
		return AppConfig{}, fmt.Errorf("decode config: %w", err)
	}
	out.AllowedOrigins = trimList(out.AllowedOrigins)
	if err := out.Validate(); err != nil {
		return AppConfig{}, err
	}
	return out, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8000")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("TOKEN_TTL_HOURS", 72)
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DATABASE_URI", "")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "codercomm")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("GIN_LOG_PATH", "logs/gin.log")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PATH", "logs/app.log")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE_DAYS", 7)
	v.SetDefault("LOG_COMPRESS", false)
}

// Validate checks required values and production hardening rules.
func (c AppConfig) Validate() error {
	if c.AppPort == "" {
		return errors.New("APP_PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.DBDriver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.IsProduction() {
		if c.JWTSecret == DefaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
	}
	return nil
}

// IsProduction reports whether the app runs with production settings.
func (c AppConfig) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func trimList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
