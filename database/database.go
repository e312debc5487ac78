package database

import (
	"fmt"
	"time"

	"djisr/config"
	"djisr/logger"
	"djisr/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, migrates it and stores it globally.
func ConnectDb() {
	cfg := config.AppConfig

	dialector, err := Dialector(cfg)
	if err != nil {
		logger.Fatal("Invalid database configuration", "error", err)
	}

	db, err := Open(dialector)
	if err != nil {
		logger.Fatal("Failed to connect to database", "driver", cfg.DBDriver, "error", err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get database instance", "error", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	Database = DbInstance{Db: db}
}

// Dialector picks the gorm driver named by DB_DRIVER.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres", "":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Open connects through the given dialector with UTC timestamps. Driver
// errors are translated so unique violations surface as gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
}

// Migrate performs database migrations
func Migrate(db *gorm.DB) error {
	logger.Info("Running migrations")

	err := db.AutoMigrate(
		&models.Startup{},
		&models.Investor{},
		&models.FundingRequest{},
		&models.InvestmentOffer{},
		&models.FinancialRecord{},
		&models.Opportunity{},
		&models.LoginTracking{},
	)
	if err != nil {
		return err
	}

	logger.Info("Migrations completed successfully")
	return nil
}

// Ping reports whether the global database answers.
func Ping() error {
	if Database.Db == nil {
		return fmt.Errorf("database not initialised")
	}
	sqlDB, err := Database.Db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
