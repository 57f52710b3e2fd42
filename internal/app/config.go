package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/yungbote/foodgram-backend/internal/data/db"
)

// ConfigPathEnvVar points at an optional YAML file layered between defaults
// and the environment.
const ConfigPathEnvVar = "CONFIG_PATH"

type Config struct {
	LogMode string `koanf:"log_mode"`

	Server   ServerConfig   `koanf:"server"`
	Auth     AuthConfig     `koanf:"auth"`
	Database DatabaseConfig `koanf:"database"`
	Links    LinksConfig    `koanf:"links"`
	CORS     CORSConfig     `koanf:"cors"`
	Limits   RateConfig     `koanf:"rate_limit"`
	Cache    CacheConfig    `koanf:"cache"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Tracing  TracingConfig  `koanf:"tracing"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type AuthConfig struct {
	JWTSecretKey string        `koanf:"jwt_secret_key"`
	AccessTTL    time.Duration `koanf:"access_ttl"`
	BcryptCost   int           `koanf:"bcrypt_cost"`
}

type DatabaseConfig struct {
	Driver     string `koanf:"driver"`
	SQLitePath string `koanf:"sqlite_path"`
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	User       string `koanf:"user"`
	Password   string `koanf:"password"`
	Name       string `koanf:"name"`
	SSLMode    string `koanf:"sslmode"`
}

type LinksConfig struct {
	PublicBaseURL   string `koanf:"public_base_url"`
	FrontendBaseURL string `koanf:"frontend_base_url"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type RateConfig struct {
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

type CacheConfig struct {
	RedisAddr      string        `koanf:"redis_addr"`
	IngredientSize int           `koanf:"ingredient_size"`
	IngredientTTL  time.Duration `koanf:"ingredient_ttl"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	ServiceName string  `koanf:"service_name"`
	Environment string  `koanf:"environment"`
	Endpoint    string  `koanf:"endpoint"`
	Headers     string  `koanf:"headers"`
	Insecure    bool    `koanf:"insecure"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

func defaultConfig() *Config {
	return &Config{
		LogMode: "development",
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 15 * time.Second,
		},
		Auth: AuthConfig{
			AccessTTL:  7 * 24 * time.Hour,
			BcryptCost: 10,
		},
		Database: DatabaseConfig{
			Driver:     db.DriverPostgres,
			SQLitePath: "foodgram.db",
			Host:       "localhost",
			Port:       5432,
			User:       "foodgram",
			Name:       "foodgram",
			SSLMode:    "disable",
		},
		Links: LinksConfig{
			PublicBaseURL:   "http://localhost:8080",
			FrontendBaseURL: "http://localhost:3000",
		},
		Limits: RateConfig{
			RPS:   20,
			Burst: 40,
		},
		Cache: CacheConfig{
			IngredientSize: 2048,
			IngredientTTL:  10 * time.Minute,
		},
		Tracing: TracingConfig{
			ServiceName: "foodgram",
			Environment: "development",
			SampleRatio: 1,
		},
	}
}

// LoadConfig layers struct defaults, the optional CONFIG_PATH file and the
// environment (after .env) and validates the result.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path := strings.TrimSpace(os.Getenv(ConfigPathEnvVar)); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

var envMappings = map[string]string{
	"log_mode":              "log_mode",
	"port":                  "server.port",
	"shutdown_timeout":      "server.shutdown_timeout",
	"jwt_secret_key":        "auth.jwt_secret_key",
	"access_token_ttl":      "auth.access_ttl",
	"bcrypt_cost":           "auth.bcrypt_cost",
	"db_driver":             "database.driver",
	"sqlite_path":           "database.sqlite_path",
	"postgres_host":         "database.host",
	"postgres_port":         "database.port",
	"postgres_user":         "database.user",
	"postgres_password":     "database.password",
	"postgres_name":         "database.name",
	"postgres_sslmode":      "database.sslmode",
	"public_base_url":       "links.public_base_url",
	"frontend_base_url":     "links.frontend_base_url",
	"cors_allowed_origins":  "cors.allowed_origins",
	"rate_limit_rps":        "rate_limit.rps",
	"rate_limit_burst":      "rate_limit.burst",
	"redis_addr":            "cache.redis_addr",
	"ingredient_cache_size": "cache.ingredient_size",
	"ingredient_cache_ttl":  "cache.ingredient_ttl",
	"metrics_enabled":       "metrics.enabled",
	"otel_enabled":          "tracing.enabled",
	"otel_service_name":     "tracing.service_name",
	"otel_environment":      "tracing.environment",
	"otel_endpoint":         "tracing.endpoint",
	"otel_headers":          "tracing.headers",
	"otel_insecure":         "tracing.insecure",
	"otel_sample_ratio":     "tracing.sample_ratio",
}

// envTransformFunc maps known env names to config paths; anything else is
// dropped.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

var sliceConfigPaths = []string{
	"cors.allowed_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecretKey) == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if c.Auth.AccessTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive, got %s", c.Auth.AccessTTL)
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case db.DriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" {
			return errors.New("POSTGRES_HOST and POSTGRES_NAME are required for the postgres driver")
		}
	case db.DriverSQLite:
		if c.Database.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}
	if c.Limits.RPS < 0 || c.Limits.Burst < 0 {
		return errors.New("rate limit values must not be negative")
	}
	if c.Cache.IngredientSize <= 0 {
		return fmt.Errorf("INGREDIENT_CACHE_SIZE must be positive, got %d", c.Cache.IngredientSize)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATIO must be within [0,1], got %v", c.Tracing.SampleRatio)
	}
	return nil
}

func (c *Config) DBConfig() db.Config {
	return db.Config{
		Driver:     c.Database.Driver,
		Host:       c.Database.Host,
		Port:       strconv.Itoa(c.Database.Port),
		User:       c.Database.User,
		Password:   c.Database.Password,
		Name:       c.Database.Name,
		SSLMode:    c.Database.SSLMode,
		SQLitePath: c.Database.SQLitePath,
	}
}

func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
