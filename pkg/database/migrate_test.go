package database

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/tern/v2/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreSequential(t *testing.T) {
	fsys, err := Migrations()
	require.NoError(t, err)

	paths, err := migrate.FindMigrations(fsys)
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	assert.Equal(t, "001_init.sql", paths[0])
}

func TestMigrationsLoad(t *testing.T) {
	migrator, err := newMigrator(context.Background(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, migrator.Migrations)

	initSQL := migrator.Migrations[0].UpSQL
	for _, table := range []string{"users", "sessions", "properties", "reviews", "bookings", "payments"} {
		assert.Contains(t, initSQL, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
	assert.Contains(t, migrator.Migrations[0].DownSQL, "DROP TABLE IF EXISTS payments")
	assert.NotContains(t, initSQL, "DROP TABLE")
}

func TestPaymentsTableIsUniquePerBooking(t *testing.T) {
	migrator, err := newMigrator(context.Background(), nil)
	require.NoError(t, err)

	initSQL := migrator.Migrations[0].UpSQL
	paymentsDDL := initSQL[strings.Index(initSQL, "CREATE TABLE IF NOT EXISTS payments"):]
	assert.Contains(t, paymentsDDL, "UNIQUE (booking_id)")
	assert.Contains(t, paymentsDDL, "UNIQUE (transaction_id)")
}
