package postgres

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"migrations/002_second.sql": {Data: []byte("CREATE TABLE second (id INT)")},
		"migrations/001_first.sql":  {Data: []byte("CREATE TABLE first (id INT)")},
		"migrations/README.md":      {Data: []byte("ignored")},
	}
}

func TestRunMigrations_AppliesPendingInOrder(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("001_first"))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE second").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs("002_second").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	done, err := runMigrations(context.Background(), db, testMigrations(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"002_second"}, done)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_FailureRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE first").WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	done, err := runMigrations(context.Background(), db, testMigrations(), zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_first")
	assert.Empty(t, done)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"migrations/001_users.sql",
		"migrations/002_reputation.sql",
		"migrations/003_news.sql",
		"migrations/004_drinks.sql",
		"migrations/005_schedule.sql",
		"migrations/006_posts.sql",
		"migrations/007_legacy_owner.sql",
	}, names)

	users, err := fs.ReadFile(migrationFiles, "migrations/001_users.sql")
	require.NoError(t, err)
	assert.Contains(t, string(users), "users_single_creator")

	legacy, err := fs.ReadFile(migrationFiles, "migrations/007_legacy_owner.sql")
	require.NoError(t, err)
	assert.Contains(t, string(legacy), "legacy_owner BOOLEAN NOT NULL DEFAULT FALSE")
}
