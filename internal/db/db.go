package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sujalbistaa/ideas/internal/config"
	"github.com/sujalbistaa/ideas/internal/models"
)

// Open connects to the database named by cfg.DatabaseURL and sizes its pool.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if cfg.DBLogSQL {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	return db, nil
}

// Dialector picks the gorm driver from the URL scheme.
// postgres:// and postgresql:// go to PostgreSQL, sqlite://path to SQLite.
func Dialector(url string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		// pgx understands the URL form directly.
		return postgres.Open(url), nil
	case strings.HasPrefix(url, "sqlite://"):
		dsn := strings.TrimPrefix(url, "sqlite://")
		if dsn == "" {
			return nil, fmt.Errorf("sqlite DATABASE_URL needs a path")
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("invalid DATABASE_URL prefix, must start with postgres://, postgresql:// or sqlite://")
	}
}

// Migrate creates or updates the ideas and likes tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.IdeaModel{}, &models.LikeModel{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
