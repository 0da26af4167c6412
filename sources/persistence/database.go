package persistence

import (
	"fmt"
	"time"

	"grokcord/sources/configuration"
	"grokcord/sources/persistence/entities"
	"grokcord/sources/tracing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDatabase opens the usage ledger. It returns nil when the database is disabled.
func NewPostgresDatabase(config *configuration.Config, log *tracing.Logger) (*gorm.DB, error) {
	if !config.Database.Enabled {
		log.I("Database disabled, usage ledger is off")
		return nil, nil
	}

	gormlogger := logger.New(
		&gormtracer{logger: log},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(postgresDSN(config.Database)), &gorm.Config{Logger: gormlogger})
	if err != nil {
		log.E("Failed to connect to database", tracing.InnerError, err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqldb, err := db.DB()
	if err != nil {
		log.E("Failed to get underlying sql.DB", tracing.InnerError, err)
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqldb.SetMaxOpenConns(10)
	sqldb.SetMaxIdleConns(2)
	sqldb.SetConnMaxLifetime(2 * time.Hour)
	sqldb.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.AutoMigrate(&entities.Usage{}); err != nil {
		log.E("Failed to migrate usage ledger", tracing.InnerError, err)
		return nil, fmt.Errorf("failed to migrate usage ledger: %w", err)
	}

	log.I("Database initialized successfully")
	return db, nil
}
