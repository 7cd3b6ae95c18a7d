package db

import (
	"fmt"
	"net/url"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver   string `env:"APP_DB_DRIVER" validate:"oneof=postgres sqlite"`
	Host     string `env:"APP_DB_HOST" validate:"required_if=Driver postgres"`
	Port     int    `env:"APP_DB_PORT" validate:"min=1,max=65535"`
	User     string `env:"APP_DB_USERNAME" validate:"required_if=Driver postgres"`
	Password string `env:"APP_DB_PASSWORD" validate:"required_if=Driver postgres"`
	DBName   string `env:"APP_DB_DATABASE" validate:"required"`
	SSLMode  string `env:"APP_DB_SSLMODE"`
	Table    string `env:"APP_DB_TABLE" validate:"required"`
	Path     string `env:"APP_DB_PATH"`

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// URL returns the postgres connection URL, usable by both lib/pq and pgx.
func (c Config) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.DBName,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u.String()
}
