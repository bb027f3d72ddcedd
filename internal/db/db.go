// Package db opens the gorm connection used by the gorm token backend.
package db

import (
	"errors"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/relaone/relaone-web/internal/config"
	"github.com/relaone/relaone-web/internal/db/dsn"
)

// ErrUnknownEngine is returned for an unsupported DB.GormEngine value.
var ErrUnknownEngine = errors.New("unknown gorm engine")

// Open connects to the configured database.
func Open(cfg *config.DB) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.GormEngine {
	case config.EngineMySQL, "":
		dialector = mysql.Open(dsn.MySQL(cfg))
	case config.EnginePostgres:
		dialector = postgres.Open(dsn.Postgres(cfg))
	case config.EngineSQLite:
		dialector = sqlite.Open(cfg.Name)
	default:
		return nil, ErrUnknownEngine
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
}
