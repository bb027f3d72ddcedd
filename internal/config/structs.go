package config

import (
	"time"

	"github.com/relaone/relaone-web/internal/logger"
)

// Token store drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverGorm     = "gorm"
	DriverRedis    = "redis"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// Session settings for the browser session cookie.
type Session struct {
	CookieName    string // name of the browser session cookie
	ExpirySeconds int    // cookie and persisted token lifetime
	CacheSize     int    // live session stores kept in memory
}

// Expiry returns the session lifetime.
func (s Session) Expiry() time.Duration {
	return time.Duration(s.ExpirySeconds) * time.Second
}

// Config overall data structure.
type Config struct {
	DevMode    bool // enable dev mode for development
	Title      string
	Log        logger.Log
	Webserver  Webserver
	API        API
	TokenStore TokenStore
	DB         DB
	Redis      Redis
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	DisableRecover bool    // disable recover middleware
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// API is the RelaOne REST backend.
type API struct {
	BaseURL        string // e.g. https://api.relaone.org/api
	AuthPath       string // prefix of the auth endpoints, default /auth
	TimeoutSeconds int
}

// Timeout returns the per request timeout.
func (a API) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// TokenStore selects where bearer tokens are persisted.
type TokenStore struct {
	Driver   string // memory, file, gorm, redis, mysql or postgres
	FilePath string // file driver only: path of the sqlite database
	Table    string // mysql and postgres drivers only
}
