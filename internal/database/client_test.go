package database_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stationeryhq/ledger/internal/config"
	"github.com/stationeryhq/ledger/internal/database"
	"github.com/stationeryhq/ledger/internal/database/dbtest"
)

func TestClientNotReadyBeforeConnect(t *testing.T) {
	client := database.NewClient(dbtest.Config())

	_, err := client.DB()
	assert.ErrorIs(t, err, database.ErrNotReady)
	assert.ErrorIs(t, client.Err(), database.ErrNotReady)

	select {
	case <-client.Ready():
		t.Fatal("client reported ready before Connect")
	default:
	}
}

func TestClientConnectRecordsSuccess(t *testing.T) {
	client := database.NewClient(dbtest.Config())
	t.Cleanup(client.Close)

	require.NoError(t, client.Connect(context.Background()))
	<-client.Ready()

	db, err := client.DB()
	require.NoError(t, err)
	assert.True(t, database.IsSQLite(db))
	assert.True(t, db.Migrator().HasTable("products"))
	assert.True(t, db.Migrator().HasTable("sales"))

	// A second Connect returns the recorded result.
	assert.NoError(t, client.Connect(context.Background()))
}

func TestClientConnectRecordsFailure(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:         config.DriverSQLite,
		Path:           filepath.Join(t.TempDir(), "missing", "dir", "shop.db"),
		LogLevel:       "silent",
		ConnectRetries: 1,
	}
	client := database.NewClient(cfg)

	err := client.Connect(context.Background())
	require.Error(t, err)

	_, dbErr := client.DB()
	assert.ErrorIs(t, dbErr, database.ErrNotReady)
	assert.Equal(t, err, client.Err())
}

func TestWithTransactionRollsBack(t *testing.T) {
	client := dbtest.Open(t)
	db := dbtest.DB(t, client)

	boom := errors.New("boom")
	err := database.WithTransaction(context.Background(), db, func(tx *gorm.DB) error {
		require.NoError(t, tx.Exec(
			"INSERT INTO products (name, purchase_price, selling_price, stock, min_stock, total_sold, date_added, created_at, updated_at) VALUES ('Pen', 1, 2, 3, 0, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)",
		).Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Table("products").Count(&count).Error)
	assert.Zero(t, count)
}
