package database

import (
	"fmt"

	"fixcal-go/internal/config"
	logging "fixcal-go/internal/logging"
	"fixcal-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	// Create our custom GORM logger
	gormLogger := logging.NewGormZapLogger(log)
	gormLogger.LogLevel = logger.Warn

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create custom indexes, so we handle that separately.
	err := DB.AutoMigrate(
		&models.Session{},
		&models.TrialResult{},
		&models.TrialMarker{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	trialIndex := `CREATE UNIQUE INDEX IF NOT EXISTS idx_trial_results_session_trial ON trial_results (session_id, trial_index);`
	if err := DB.Exec(trialIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on trial results", zap.Error(err))
	}
	markerIndex := `CREATE INDEX IF NOT EXISTS idx_trial_markers_result ON trial_markers (result_id, seq);`
	if err := DB.Exec(markerIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on trial markers", zap.Error(err))
	}
	log.Info("Custom indexes ensured successfully.")
}
