package ozon

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const existsQuery = "SELECT EXISTS (SELECT 1 FROM migrations.migrations WHERE name = $1)"

func TestCreateImportTasksTable_Applies(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
		WithArgs(ImportTasksMigration).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS ozon.import_tasks")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO migrations.migrations")).
		WithArgs(ImportTasksMigration).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, (&CreateImportTasksTable{}).UpMigration(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateImportTasksTable_SkipsWhenApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
		WithArgs(ImportTasksMigration).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, (&CreateImportTasksTable{}).UpMigration(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAll_Order(t *testing.T) {
	all := All()
	require.Len(t, all, 5)
	_, ok := all[1].(*CreateOzonSchema)
	assert.True(t, ok)
	_, ok = all[4].(*AddImportTasksAttempts)
	assert.True(t, ok)
}

func TestAddImportTasksAttempts_Applies(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
		WithArgs(ImportTasksAttemptsMigration).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("ADD COLUMN IF NOT EXISTS attempts INT NOT NULL DEFAULT 0")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO migrations.migrations")).
		WithArgs(ImportTasksAttemptsMigration).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, (&AddImportTasksAttempts{}).UpMigration(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
