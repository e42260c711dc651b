package database

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMigrateMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return mock
}

func expectMigrationPreamble(mock pgxmock.PgxPoolIface, applied ...string) {
	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WithArgs(migrationLockID).WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	rows := pgxmock.NewRows([]string{"filename"})
	for _, name := range applied {
		rows.AddRow(name)
	}
	mock.ExpectQuery(`SELECT filename FROM schema_migrations`).WillReturnRows(rows)
}

func TestMigrate_FreshDB(t *testing.T) {
	mock := newMigrateMock(t)

	expectMigrationPreamble(mock)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS leads`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).WithArgs("001_create_leads.sql").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, Migrate(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_AlreadyApplied(t *testing.T) {
	mock := newMigrateMock(t)

	expectMigrationPreamble(mock, "001_create_leads.sql")
	mock.ExpectCommit()

	require.NoError(t, Migrate(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_ApplyErrorRollsBack(t *testing.T) {
	mock := newMigrateMock(t)

	expectMigrationPreamble(mock)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS leads`).WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err := Migrate(context.Background(), mock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply migration 001_create_leads.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_LockErrorRollsBack(t *testing.T) {
	mock := newMigrateMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WithArgs(migrationLockID).WillReturnError(errors.New("conn refused"))
	mock.ExpectRollback()

	err := Migrate(context.Background(), mock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquire migration lock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_BeginError(t *testing.T) {
	mock := newMigrateMock(t)

	mock.ExpectBegin().WillReturnError(errors.New("pool closed"))

	err := Migrate(context.Background(), mock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start migration tx")
}
