package database

import (
	"americano_backend/internal/config"
	"americano_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)

	logLevel := logger.Warn
	if mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate runs the schema migration. Invoked at startup in debug mode or when
// forced with -migrate / -migrate-only.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},

		&model.Streak{},
		&model.MissionStreak{},
		&model.Achievement{},
		&model.StudyGoal{},

		&model.Mission{},
		&model.MissionFeedback{},
		&model.MissionAnalytics{},
		&model.MissionReview{},

		&model.BehavioralPattern{},
		&model.BehavioralInsight{},
		&model.InsightPattern{},
		&model.UserLearningProfile{},

		&model.SearchQuery{},
		&model.SearchClick{},
		&model.SavedSearch{},
		&model.SearchAlert{},
		&model.SearchSuggestion{},
		&model.SearchAnalytics{},
	)

	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}
