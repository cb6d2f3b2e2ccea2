package testutils

import (
	"path/filepath"
	"testing"

	"github.com/WangWilly/xJuxt/migration/automigrate"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/database"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// OpenTempDB opens a migrated SQLite database that lives for the duration of
// the test.
func OpenTempDB(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := database.ConnectWithConfig(database.DatabaseConfig{
		Type: database.DATABASE_TYPE_SQLITE,
		Path: filepath.Join(t.TempDir(), "xjuxt_test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, automigrate.AutoMigrateUp(automigrate.AutoMigrateConfig{SqlxDB: db}))
	return db
}
