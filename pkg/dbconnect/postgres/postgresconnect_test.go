package postgres

import (
	"database/sql"
	"errors"
	"ozonseller_api/config"
	"ozonseller_api/pkg/logger"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConnector(open opener) *PostgresDatabase {
	pg := NewPgConnector(&config.PostgresConfig{Host: "h", Port: "5432", User: "u", DBName: "d"}, logger.NewNop())
	pg.open = open
	pg.retries = 3
	pg.retryDelay = 0
	return pg
}

func TestConnect_RetriesUntilPing(t *testing.T) {
	attempts := 0
	var mock sqlmock.Sqlmock
	pg := newTestConnector(func(driver, dsn string) (*sql.DB, error) {
		attempts++
		assert.Equal(t, "postgres", driver)
		assert.Contains(t, dsn, "host=h")
		if attempts == 1 {
			return nil, errors.New("connection refused")
		}
		db, m, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		m.ExpectPing()
		mock = m
		return db, nil
	})

	db, err := pg.Connect()
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.Equal(t, 2, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())

	again, err := pg.Connect()
	require.NoError(t, err)
	assert.Same(t, db, again)
	assert.Equal(t, 2, attempts)
}

func TestConnect_GivesUp(t *testing.T) {
	pg := newTestConnector(func(string, string) (*sql.DB, error) {
		return nil, errors.New("connection refused")
	})
	_, err := pg.Connect()
	assert.ErrorContains(t, err, "after 3 attempts")
}

func TestPing_WithoutConnection(t *testing.T) {
	pg := newTestConnector(nil)
	assert.Error(t, pg.Ping())
}
