package db

import (
	"fmt"

	"gorm.io/gorm"

	"pointmap/internal/config"
	"pointmap/internal/model"
)

// Open connects to the database selected by cfg.DBDriver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite", "":
		return NewSQLite(cfg.SQLitePath)
	case "mysql":
		return NewMySQL(cfg.MySQLDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Models lists every table managed by the service.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Point{},
	}
}

// Migrate creates or updates the schema.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every managed table.
func Reset(gormDB *gorm.DB) error {
	for _, table := range Models() {
		if err := gormDB.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
