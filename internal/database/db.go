package database

import (
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gauravpatil09/rating-app/internal/config"
	"github.com/gauravpatil09/rating-app/internal/models"
)

// Connect opens the postgres connection and runs migrations. The returned
// handle is passed into handlers explicitly; there is no package-level DB.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logrus.Info("database connected, migrations applied")
	return db, nil
}

// Migrate creates/updates the schema. Shared with tests, which run it
// against an in-memory sqlite handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.Rating{},
		&models.AuditLog{},
	)
}

// Close drains the underlying connection pool.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}
