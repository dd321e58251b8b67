package db

import (
	"credit_scoring/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // GORM ORM library
)

// Migrate creates or updates the users and credit_parameters tables
func Migrate(gdb *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := gdb.AutoMigrate(&domain.User{}, &domain.CreditParameters{}); err != nil {
		logrus.WithError(err).Error("Migration failed")
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
