package database

import (
	"fmt"

	"github.com/justsurfingit/talent-crm/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the postgres pool and migrates every CRM table.
func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	return Open(postgres.Open(dsn), log)
}

// Open connects through any gorm dialector and runs the migrations.
func Open(dialector gorm.Dialector, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("database connection established", zap.String("dialect", dialector.Name()))

	log.Info("running migrations")
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return db, nil
}
