package automigrate

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

// AutoMigrateConfig holds configuration for auto-migration
type AutoMigrateConfig struct {
	SqlxDB *sqlx.DB
}

////////////////////////////////////////////////////////////////////////////////

// AutoMigrateUp runs all pending migrations against the configured database.
func AutoMigrateUp(config AutoMigrateConfig) error {
	logger := log.WithFields(log.Fields{
		"function": "AutoMigrateUp",
	})
	if config.SqlxDB == nil {
		return fmt.Errorf("no database connection provided")
	}
	logger.Info("Starting auto-migration...")

	m, err := newMigrate(config.SqlxDB)
	if err != nil {
		return err
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		logger.Warn("Database is in dirty state, attempting to continue...")
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.WithField("version", currentVersion).Info("Database is already up to date")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}

	logger.WithFields(log.Fields{
		"from_version": currentVersion,
		"to_version":   newVersion,
	}).Info("Auto-migration completed successfully")

	return nil
}

// AutoMigrateDown reverts every applied migration.
func AutoMigrateDown(config AutoMigrateConfig) error {
	if config.SqlxDB == nil {
		return fmt.Errorf("no database connection provided")
	}

	m, err := newMigrate(config.SqlxDB)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to revert migrations: %w", err)
	}

	log.WithField("function", "AutoMigrateDown").Info("All migrations reverted")
	return nil
}

// ForceVersion marks the database as being at version without running any
// migration. Used to recover from a dirty state.
func ForceVersion(config AutoMigrateConfig, version int) error {
	if config.SqlxDB == nil {
		return fmt.Errorf("no database connection provided")
	}

	m, err := newMigrate(config.SqlxDB)
	if err != nil {
		return err
	}
	if err := m.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// GetMigrationVersion returns the current migration version
func GetMigrationVersion(config AutoMigrateConfig) (uint, bool, error) {
	if config.SqlxDB == nil {
		return 0, false, fmt.Errorf("no database connection provided")
	}

	m, err := newMigrate(config.SqlxDB)
	if err != nil {
		return 0, false, err
	}
	return m.Version()
}
