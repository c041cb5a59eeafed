// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stationeryhq/ledger/internal/config"
	"github.com/stationeryhq/ledger/internal/database"
)

// Config returns a SQLite config backed by a private shared-cache memory
// database, so every connection of one test sees the same data.
func Config() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:         config.DriverSQLite,
		Path:           fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		LogLevel:       "silent",
		ConnectRetries: 1,
	}
}

// Open returns a connected, migrated client and closes it when t ends.
func Open(t testing.TB) *database.Client {
	t.Helper()

	client := database.NewClient(Config())
	require.NoError(t, client.Connect(context.Background()))
	t.Cleanup(client.Close)
	return client
}

// DB is a shortcut for tests that need the raw handle.
func DB(t testing.TB, client *database.Client) *gorm.DB {
	t.Helper()

	db, err := client.DB()
	require.NoError(t, err)
	return db
}
