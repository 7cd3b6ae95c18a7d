// Package config reads the service configuration from APP_* environment
// variables and optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/Cheertaboi/voucher-selection-service/pkg/db"
)

var (
	ErrMissingConfiguration = errors.New("Missing env var")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

type Config struct {
	DB             db.Config
	Server         ServerConfig
	Cache          CacheConfig
	LogLevel       string        `env:"APP_LOG_LEVEL" validate:"oneof=debug info warn error"`
	RequestTimeout time.Duration `env:"APP_REQUEST_TIMEOUT_SECONDS" validate:"min=0"`
}

type ServerConfig struct {
	Host string `env:"APP_SERVER_HOST"`
	Port int    `env:"APP_SERVER_PORT" validate:"min=1,max=65535"`
}

// Addr is the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CacheConfig enables the Redis voucher cache when RedisURL is set.
type CacheConfig struct {
	RedisURL string        `env:"APP_CACHE_REDIS_URL" validate:"omitempty,url"`
	TTL      time.Duration `env:"APP_CACHE_TTL_SECONDS" validate:"min=0"`
}

// FromEnviron loads the given .env files (default ".env") and overlays the
// process environment, which wins. Missing files are skipped.
func FromEnviron(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	env := map[string]string{}
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range vals {
			env[k] = v
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return Load(env)
}

// Load builds and validates a Config from env.
func Load(env map[string]string) (Config, error) {
	r := reader{env: env}
	cfg := Config{
		DB: db.Config{
			Driver:   strings.ToLower(r.str("APP_DB_DRIVER", db.DriverPostgres)),
			Host:     r.str("APP_DB_HOST", ""),
			Port:     r.int("APP_DB_PORT", 5432),
			User:     r.str("APP_DB_USERNAME", ""),
			Password: r.str("APP_DB_PASSWORD", ""),
			DBName:   r.str("APP_DB_DATABASE", "voucher_selection"),
			SSLMode:  r.str("APP_DB_SSLMODE", "disable"),
			Table:    r.str("APP_DB_TABLE", "orders"),
			Path:     r.str("APP_DB_PATH", "voucher_selection.db"),
		},
		Server: ServerConfig{
			Host: r.str("APP_SERVER_HOST", "0.0.0.0"),
			Port: r.int("APP_SERVER_PORT", 8080),
		},
		Cache: CacheConfig{
			RedisURL: r.str("APP_CACHE_REDIS_URL", ""),
			TTL:      time.Duration(r.int("APP_CACHE_TTL_SECONDS", 60)) * time.Second,
		},
		LogLevel:       strings.ToLower(r.str("APP_LOG_LEVEL", "info")),
		RequestTimeout: time.Duration(r.int("APP_REQUEST_TIMEOUT_SECONDS", 8)) * time.Second,
	}
	if r.err != nil {
		return Config{}, r.err
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() func(Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return func(cfg Config) error {
		err := v.Struct(cfg)
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			if fe.Tag() == "required" || fe.Tag() == "required_if" {
				return fmt.Errorf("%w %s", ErrMissingConfiguration, fe.Field())
			}
		}
		fe := verrs[0]
		return fmt.Errorf("%w: %s=%v fails %q", ErrInvalidConfiguration, fe.Field(), fe.Value(), fe.Tag())
	}
}

type reader struct {
	env map[string]string
	err error
}

func (r *reader) str(key, def string) string {
	if v, ok := r.env[key]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *reader) int(key string, def int) int {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfiguration, key, raw)
	}
	return n
}
