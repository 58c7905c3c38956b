package client

import (
	"fmt"
	"time"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/config"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table owned by the service.
var Models = []interface{}{
	&model.Product{},
	&model.Order{},
	&model.OrderItem{},
	&model.CartItem{},
	&model.OutboxEvent{},
	&model.PaymentCallback{},
	&model.OrderAudit{},
}

func InitDBClient(cfg *config.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.URL)
	case "postgres":
		dialector = postgres.Open(cfg.URL)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	// Connection pool (important for webhooks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if cfg.Driver == "sqlite" || cfg.Driver == "" {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.Driver == "postgres" && cfg.MigrationsPath != "" {
		if err := RunMigrations(db, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		return db, nil
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return db, nil
}
