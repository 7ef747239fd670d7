package testhelpers

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/parkrun-map/internal/repository/postgres"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewSiteRepositoryForTest creates a site repository with test database and logger
func NewSiteRepositoryForTest(db *sqlx.DB, logger *zap.Logger) *postgres.SiteRepository {
	return postgres.NewSiteRepository(NewDBForTest(db, logger))
}

// ApplyMigrations applies all .up.sql migration files from the specified directory
func ApplyMigrations(ctx context.Context, db *sqlx.DB, migrationsPath string) error {
	return NewDBForTest(db, zap.NewNop()).ApplyMigrations(ctx, migrationsPath)
}
