package database

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_AppliesPendingFilesInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT GET_LOCK(?, 30)`)).
		WithArgs(migrationLock).
		WillReturnRows(sqlmock.NewRows([]string{"lock"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS schema_migrations`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	exists := regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = ?)`)
	record := regexp.QuoteMeta(`INSERT INTO schema_migrations (name) VALUES (?)`)

	mock.ExpectQuery(exists).WithArgs("0001_shows.sql").
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))

	mock.ExpectQuery(exists).WithArgs("0002_show_booked_seats.sql").
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS show_booked_seats`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(record).WithArgs("0002_show_booked_seats.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectQuery(exists).WithArgs("0003_bookings.sql").
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(`UNIQUE KEY uq_bookings_transaction_uuid`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(record).WithArgs("0003_bookings.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec(regexp.QuoteMeta(`SELECT RELEASE_LOCK(?)`)).
		WithArgs(migrationLock).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_LockTimeout(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT GET_LOCK(?, 30)`)).
		WillReturnRows(sqlmock.NewRows([]string{"lock"}).AddRow(0))

	err = Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
