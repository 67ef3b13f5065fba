package migrate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/bistro-backend/pkg/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *db.Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	return db.Wrap(conn)
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateFS(Migrations()))
}

func TestUpCreatesSchemaOnSQLite(t *testing.T) {
	client := openSQLite(t)
	require.NoError(t, Up(context.Background(), client))

	for _, table := range []string{"categories", "menu_items", "users", "orders", "order_items", "reservations"} {
		assert.True(t, client.DB().Migrator().HasTable(table), "missing table %s", table)
	}

	// re-running is a no-op
	require.NoError(t, Up(context.Background(), client))
}

func TestUnsupportedDialect(t *testing.T) {
	_, err := gooseDialect("mysql")
	require.Error(t, err)
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, ValidateDir(dir))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Menu Tags!")
	require.NoError(t, err)
	assert.Regexp(t, `\d{14}_add_menu_tags\.sql$`, path)
	require.NoError(t, ValidateDir(dir))
}

func TestCreateSQLMigrationOrdersAfterExistingVersion(t *testing.T) {
	dir := t.TempDir()
	future := "29991231235959_seed_specials.sql"
	require.NoError(t, os.WriteFile(filepath.Join(dir, future), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))

	path, err := CreateSQLMigration(dir, "add table notes")
	require.NoError(t, err)
	assert.Equal(t, "30000101000000_add_table_notes.sql", filepath.Base(path))
}

func TestMigrationSlug(t *testing.T) {
	assert.Equal(t, "add_menu_tags", migrationSlug("  Add -- Menu   Tags! "))
	assert.Empty(t, migrationSlug("!!!"))
}
