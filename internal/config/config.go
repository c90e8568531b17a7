// Package config loads server configuration from a .env file, an optional
// YAML file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backends.
const (
	BackendRemote   = "remote"
	BackendSQLite   = "sqlite"
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
)

// Session stores.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

var (
	// ErrMissingSecret is returned when a required secret is not configured.
	ErrMissingSecret = errors.New("missing required secret")
	// ErrInvalidConfig is returned for malformed or inconsistent settings.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Port string `yaml:"port"`

	// Backend selects storage and identity: remote, sqlite, mysql or postgres.
	Backend string `yaml:"backend"`

	// Remote backend settings
	StoreURL     string        `yaml:"store_url"`
	StoreKey     string        `yaml:"store_key"`
	StoreTable   string        `yaml:"store_table"`
	StoreTimeout time.Duration `yaml:"store_timeout"`

	// SQL backend settings
	DBPath      string        `yaml:"db_path"`
	DatabaseDSN string        `yaml:"database_url"`
	JWTSecret   string        `yaml:"jwt_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`

	// Browser session settings
	SessionSecret string        `yaml:"session_secret"`
	SessionStore  string        `yaml:"session_store"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SecureCookies bool          `yaml:"secure_cookies"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Port:         "8080",
		Backend:      BackendRemote,
		StoreTable:   "todos",
		StoreTimeout: 15 * time.Second,
		DBPath:       "./data/todos.db",
		TokenTTL:     24 * time.Hour,
		SessionStore: SessionStoreMemory,
		SessionTTL:   12 * time.Hour,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Load reads .env (or the file named by ENV_FILE) into the environment,
// applies CONFIG_FILE if set, then environment overrides, and validates
// the result.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.Backend = canonicalBackend(getEnv("BACKEND", c.Backend))

	c.StoreURL = getEnv("STORE_URL", getEnv("SUPABASE_URL", c.StoreURL))
	c.StoreKey = getEnv("STORE_KEY", getEnv("SUPABASE_KEY", c.StoreKey))
	c.StoreTable = getEnv("STORE_TABLE", c.StoreTable)

	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.DatabaseDSN = getEnv("DATABASE_URL", c.DatabaseDSN)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)

	c.SessionSecret = getEnv("SESSION_SECRET", c.SessionSecret)
	c.SessionStore = strings.ToLower(getEnv("SESSION_STORE", c.SessionStore))
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	var err error
	if c.StoreTimeout, err = getDuration("STORE_TIMEOUT", c.StoreTimeout); err != nil {
		return err
	}
	if c.TokenTTL, err = getDuration("TOKEN_TTL", c.TokenTTL); err != nil {
		return err
	}
	if c.SessionTTL, err = getDuration("SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}
	if c.RedisDB, err = getInt("REDIS_DB", c.RedisDB); err != nil {
		return err
	}
	if c.SecureCookies, err = getBool("SECURE_COOKIES", c.SecureCookies); err != nil {
		return err
	}
	return nil
}

// canonicalBackend folds the driver-style aliases the SQL store also accepts
// (sqlite3, postgresql, pgx) onto the backend constants.
func canonicalBackend(name string) string {
	switch name = strings.ToLower(strings.TrimSpace(name)); name {
	case "sqlite3":
		return BackendSQLite
	case "postgresql", "pgx":
		return BackendPostgres
	default:
		return name
	}
}

// Validate checks that the secrets the selected backend needs are present.
func (c *Config) Validate() error {
	backend := canonicalBackend(c.Backend)
	switch backend {
	case BackendRemote:
		if c.StoreURL == "" {
			return fmt.Errorf("%w: STORE_URL (or SUPABASE_URL)", ErrMissingSecret)
		}
		if c.StoreKey == "" {
			return fmt.Errorf("%w: STORE_KEY (or SUPABASE_KEY)", ErrMissingSecret)
		}
		u, err := url.Parse(c.StoreURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: STORE_URL %q is not an absolute URL", ErrInvalidConfig, c.StoreURL)
		}
	case BackendSQLite, BackendMySQL, BackendPostgres:
		if c.JWTSecret == "" {
			return fmt.Errorf("%w: JWT_SECRET", ErrMissingSecret)
		}
		if backend != BackendSQLite && c.DatabaseDSN == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for %s", ErrInvalidConfig, backend)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}

	switch c.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: REDIS_ADDR is required for the redis session store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown session store %q", ErrInvalidConfig, c.SessionStore)
	}

	if c.StoreTimeout < 0 || c.TokenTTL <= 0 || c.SessionTTL <= 0 {
		return fmt.Errorf("%w: durations must be positive", ErrInvalidConfig)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, value, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, value, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, value, err)
	}
	return b, nil
}
