package db

import (
	"fmt" // DSN formatting

	"credit_scoring/internal/config" // Custom package for configuration

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/driver/sqlite"      // SQLite driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM query logging
)

// Supported database drivers
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// MySQLDSN builds the Data Source Name for a MySQL connection
func MySQLDSN(cfg *config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// Open connects to the configured database
func Open(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn // Only slow queries and errors by default
	if cfg.IsProd {
		logLevel = logger.Error
	}
	switch cfg.DBDriver {
	case DriverMySQL:
		return open(mysql.Open(MySQLDSN(cfg)), cfg.DBDriver, logLevel)
	case DriverSQLite:
		return open(sqlite.Open(cfg.SQLitePath), cfg.DBDriver, logLevel)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// OpenSQLite opens a SQLite database file with query logging silenced
func OpenSQLite(path string) (*gorm.DB, error) {
	return open(sqlite.Open(path), DriverSQLite, logger.Silent)
}

// open applies the shared GORM settings. Driver errors are translated so
// duplicate keys surface as gorm.ErrDuplicatedKey.
func open(dialector gorm.Dialector, driver string, level logger.LogLevel) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,                          // Map driver errors to gorm sentinels
		Logger:         logger.Default.LogMode(level), // GORM logger verbosity
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	logrus.WithField("driver", driver).Debug("Connected to database")
	return gdb, nil
}
