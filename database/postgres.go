package database

import (
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Davsooonowy/TripWhizz/config"
	"github.com/Davsooonowy/TripWhizz/models"
)

var DB *gorm.DB

func Connect() {
	var err error
	DB, err = gorm.Open(postgres.Open(config.AppConfig.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	log.Info().Msg("database connected")

	// Auto-migrate all models
	err = DB.AutoMigrate(
		&models.User{},
		&models.Trip{},
		&models.TripParticipant{},
		&models.Expense{},
		&models.ExpenseShare{},
		&models.Settlement{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	log.Info().Msg("database migrated")
}
