package tokenstore

import (
	"os"
	"path/filepath"

	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/relaone/relaone-web/internal/config"
	"github.com/relaone/relaone-web/internal/db"
	"github.com/relaone/relaone-web/internal/db/dsn"
)

const defaultTable = "relaone_tokens"

// Open builds the Backend selected by cfg.TokenStore.Driver.
func Open(cfg *config.Config) (Backend, error) {
	switch cfg.TokenStore.Driver {
	case config.DriverMemory, "":
		return NewMemory(), nil

	case config.DriverFile:
		return openFile(cfg.TokenStore.FilePath)

	case config.DriverGorm:
		gdb, err := db.Open(&cfg.DB)
		if err != nil {
			return nil, errors.Wrap(err, "open token database")
		}

		return NewGorm(gdb)

	case config.DriverRedis:
		return NewRedis(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}), cfg.Redis.Prefix)

	case config.DriverMySQL:
		return FromStorage(mysql.New(mysql.Config{
			ConnectionURI: dsn.MySQL(&cfg.DB),
			Table:         table(cfg),
		}))

	case config.DriverPostgres:
		return FromStorage(postgres.New(postgres.Config{
			ConnectionURI: dsn.Postgres(&cfg.DB),
			Table:         table(cfg),
		}))

	default:
		return nil, errors.Wrapf(ErrUnknownDriver, "%q", cfg.TokenStore.Driver)
	}
}

// openFile keeps tokens in a sqlite database at path, through the gorm backend.
func openFile(path string) (*Gorm, error) {
	if path == "" {
		return nil, ErrEmptyFilePath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil { //nolint:mnd
		return nil, errors.Wrap(err, "create token file directory")
	}

	gdb, err := db.Open(&config.DB{GormEngine: config.EngineSQLite, Name: path})
	if err != nil {
		return nil, errors.Wrap(err, "open token file")
	}

	return NewGorm(gdb)
}

func table(cfg *config.Config) string {
	if cfg.TokenStore.Table == "" {
		return defaultTable
	}

	return cfg.TokenStore.Table
}
