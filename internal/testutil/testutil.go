package testutil

import (
	"errors"
	"os"
	"sync"
	"testing"

	"americano_backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error
)

// DB returns a shared connection to the integration test database. Tests are
// skipped when TEST_POSTGRES_DSN is not set.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn == "" {
			dbErr = errMissingDSN
			return
		}

		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if err != nil {
			dbErr = err
			return
		}

		if err := autoMigrateAll(db); err != nil {
			dbErr = err
			return
		}
	})

	if errors.Is(dbErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN to run repository integration tests")
	}
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

// Tx wraps a test in a transaction that rolls back on cleanup.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func autoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
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
}
