// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/relaone/relaone-web/internal/config"
)

// Create builds the gorm Data Source Name for the configured engine.
func Create(cfg *config.DB) string {
	switch cfg.GormEngine {
	case config.EnginePostgres:
		return Postgres(cfg)
	case config.EngineSQLite:
		return cfg.Name
	default:
		return MySQL(cfg)
	}
}

// MySQL builds a go-sql-driver DSN.
func MySQL(cfg *config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?%s",
		cfg.User,
		cfg.Password,
		net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		cfg.Name,
		cfg.Extras,
	)
}

// Postgres builds a postgres connection URI.
func Postgres(cfg *config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: cfg.Extras,
	}

	return u.String()
}
