package automigrate

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
)

////////////////////////////////////////////////////////////////////////////////

type DatabaseType string

const (
	PostgreSQL DatabaseType = "postgres"
	SQLite     DatabaseType = "sqlite"
)

////////////////////////////////////////////////////////////////////////////////

func driverNameToDatabaseType(driverName string) DatabaseType {
	switch driverName {
	case "postgres", "pgx":
		return PostgreSQL
	case "sqlite3":
		return SQLite
	default:
		return ""
	}
}

////////////////////////////////////////////////////////////////////////////////

// MigrationDir returns the directory holding the per-engine migration
// folders.
func MigrationDir() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to get current file path")
	}

	// Go up one directory from automigrate to migration root
	return filepath.Dir(filepath.Dir(currentFile)), nil
}

func getMigrationPath(databaseType DatabaseType) (string, error) {
	migrationDir, err := MigrationDir()
	if err != nil {
		return "", err
	}

	switch databaseType {
	case PostgreSQL:
		return fmt.Sprintf("file://%s/postgres", migrationDir), nil
	case SQLite:
		return fmt.Sprintf("file://%s/sqlite", migrationDir), nil
	default:
		return "", fmt.Errorf("unsupported database type: %q", databaseType)
	}
}

func getDriver(db *sqlx.DB) (database.Driver, error) {
	switch driverNameToDatabaseType(db.DriverName()) {
	case PostgreSQL:
		return postgres.WithInstance(db.DB, &postgres.Config{})
	case SQLite:
		return sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", db.DriverName())
	}
}

// newMigrate builds a migrate instance bound to the given connection.
// The instance must not be closed: doing so closes the shared *sql.DB.
func newMigrate(db *sqlx.DB) (*migrate.Migrate, error) {
	migrationsPath, err := getMigrationPath(driverNameToDatabaseType(db.DriverName()))
	if err != nil {
		return nil, fmt.Errorf("failed to get migration path: %w", err)
	}
	driver, err := getDriver(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(migrationsPath, string(driverNameToDatabaseType(db.DriverName())), driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
