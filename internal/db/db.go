// Package db holds the gorm models and the persistence layer behind the
// scoring service and the stats engine.
package db

import (
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"quiz-night/internal/config"
)

// MigrationsDir holds the SQL migration pairs applied by cmd/migrate and
// scaffolded by cmd/migrate-create.
const MigrationsDir = "db/migrations"

// Open connects to Postgres and applies the configured pool limits.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.URL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	conn, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return conn, nil
}

// Migrate runs GORM auto-migrations for the core tables.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("db connection is nil")
	}
	return conn.AutoMigrate(
		&Team{},
		&GameTemplate{},
		&TemplateRound{},
		&Game{},
		&GameParticipant{},
		&RoundScore{},
		&Event{},
	)
}
