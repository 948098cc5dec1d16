package db

import (
	"fmt"

	"github.com/forkastlabs/forkast/internal/config"
	"github.com/glebarez/sqlite"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormprometheus "gorm.io/plugin/prometheus"
)

var Module = fx.Module("db",
	fx.Provide(Open),
)

// Open connects to the configured database. TranslateError is enabled so
// unique-constraint violations surface as gorm.ErrDuplicatedKey on every driver.
func Open(cfg config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if cfg.Telemetry.TracingEnabled {
		if err := db.Use(otelgorm.NewPlugin()); err != nil {
			return nil, err
		}
	}
	if cfg.Telemetry.MetricsEnabled {
		if err := db.Use(gormprometheus.New(gormprometheus.Config{
			DBName:          "forkast",
			RefreshInterval: 15,
		})); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return sqlite.Open(cfg.DSN), nil
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
