package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldenspoon/dinebot/internal/db"
)

func TestOpen_RequiresDSN(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestOpen_LazyConnect(t *testing.T) {
	d, err := Open(Config{DSN: "postgres://dinebot@localhost:1/dinebot?sslmode=disable", MaxOpenConns: 4})
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, 4, d.SQL().Stats().MaxOpenConnections)
}

func TestPing(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	d := Wrap(conn)
	defer d.Close()

	mock.ExpectPing()
	assert.NoError(t, d.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err = d.Ping(context.Background())
	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpPing, dbErr.Op)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitForReady(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	d := Wrap(conn)
	defer d.Close()

	mock.ExpectPing().WillReturnError(errors.New("starting up"))
	mock.ExpectPing()

	assert.NoError(t, d.WaitForReady(context.Background(), 2*time.Second))
}
