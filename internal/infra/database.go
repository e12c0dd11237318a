package infra

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"healwise/internal/config"
	"healwise/internal/models/db_models"
)

// InitDatabase opens the configured database and migrates the service's tables.
func InitDatabase(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "postgres":
		if cfg.URL == "" {
			return nil, fmt.Errorf("database url is required for postgres")
		}
		dialector = postgres.Open(cfg.URL)
	case "sqlite":
		dsn := cfg.URL
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready", zap.String("driver", db.Dialector.Name()))
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&db_models.UsageRecord{},
		&db_models.Profile{},
		&db_models.PlannerItem{},
		&db_models.Subscription{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func CloseDatabase(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("get database handle", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("close database", zap.Error(err))
		return
	}
	log.Info("database connection closed")
}
