package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationeryhq/ledger/internal/config"
	"github.com/stationeryhq/ledger/internal/database"
	"github.com/stationeryhq/ledger/internal/database/dbtest"
	"github.com/stationeryhq/ledger/internal/models"
)

type dataFixture struct {
	client   *database.Client
	cache    *memoryCache
	products *ProductService
	sales    *SaleService
	data     *DataService
}

func newDataFixture(t *testing.T, backupDir string) *dataFixture {
	t.Helper()
	client := dbtest.Open(t)
	c := newMemoryCache()
	invalidator := NewAnalyticsService(client, c, 0, time.UTC)

	var storage *StorageService
	if backupDir != "" {
		var err error
		storage, err = NewStorageService(config.AWSConfig{}, backupDir)
		require.NoError(t, err)
	}

	return &dataFixture{
		client:   client,
		cache:    c,
		products: NewProductService(client, invalidator, testShop()),
		sales:    NewSaleService(client, invalidator, testShop()),
		data:     NewDataService(client, invalidator, storage),
	}
}

func (f *dataFixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	pen := createProduct(t, f.products, "Pen", "2.50", "5.00", 10)
	createProduct(t, f.products, "Eraser", "0.20", "0.50", 3)
	ruler := createProduct(t, f.products, "Ruler", "1.00", "1.75", 8)

	for _, req := range []*RecordSaleRequest{
		{ProductID: pen.ID, Quantity: 3, SaleDate: "2025-01-10"},
		{ProductID: ruler.ID, Quantity: 2, SaleDate: "2025-01-11", CustomerName: "Alice"},
		{ProductID: pen.ID, Quantity: 1, SaleDate: "2025-01-12"},
	} {
		_, err := f.sales.RecordSale(ctx, req)
		require.NoError(t, err)
	}
}

func TestExportSnapshot(t *testing.T) {
	f := newDataFixture(t, "")
	f.seed(t)

	snapshot, err := f.data.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.SnapshotVersion, snapshot.Version)
	assert.False(t, snapshot.ExportedAt.IsZero())
	require.Len(t, snapshot.Products, 3)
	require.Len(t, snapshot.Sales, 3)
	assert.Equal(t, "Ruler", snapshot.Products[0].Name)
	assert.Equal(t, 6, snapshot.Products[0].Stock)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newDataFixture(t, "")
	source.seed(t)

	exported, err := source.data.Export(ctx)
	require.NoError(t, err)

	// Go through JSON the way a downloaded file would.
	raw, err := json.Marshal(exported)
	require.NoError(t, err)
	var decoded models.Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))

	target := newDataFixture(t, "")
	result, err := target.data.Import(ctx, &decoded)
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Products: 3, Sales: 3}, result)

	reimported, err := target.data.Export(ctx)
	require.NoError(t, err)
	require.Len(t, reimported.Products, len(exported.Products))
	require.Len(t, reimported.Sales, len(exported.Sales))

	for i, want := range exported.Products {
		got := reimported.Products[i]
		assert.Equal(t, want.Name, got.Name)
		assert.True(t, want.PurchasePrice.Equal(got.PurchasePrice))
		assert.True(t, want.SellingPrice.Equal(got.SellingPrice))
		assert.Equal(t, want.Stock, got.Stock)
		assert.Equal(t, want.MinStock, got.MinStock)
		assert.Equal(t, want.TotalSold, got.TotalSold)
	}

	productNames := make(map[uint]string)
	for _, p := range reimported.Products {
		productNames[p.ID] = p.Name
	}
	for i, want := range exported.Sales {
		got := reimported.Sales[i]
		assert.Equal(t, want.ProductName, got.ProductName)
		assert.Equal(t, want.ProductName, productNames[got.ProductID], "sale points at the re-seeded product")
		assert.Equal(t, want.Quantity, got.Quantity)
		assert.True(t, want.Total.Equal(got.Total))
		assert.True(t, want.Profit.Equal(got.Profit))
		assert.Equal(t, want.SaleDate, got.SaleDate)
		assert.Equal(t, want.CustomerName, got.CustomerName)
	}
}

func TestImportRequiresEmptyStore(t *testing.T) {
	ctx := context.Background()
	f := newDataFixture(t, "")
	f.seed(t)

	snapshot, err := f.data.Export(ctx)
	require.NoError(t, err)

	_, err = f.data.Import(ctx, snapshot)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	products, err := f.products.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 3, "nothing was added")
}

func TestImportRejectsBadSnapshots(t *testing.T) {
	ctx := context.Background()
	f := newDataFixture(t, "")

	cases := map[string]*models.Snapshot{
		"nil":           nil,
		"wrong version": {Version: "0.9"},
		"blank product": {Version: models.SnapshotVersion, Products: []models.Product{{Name: " "}}},
		"sub-cent price": {
			Version: models.SnapshotVersion,
			Products: []models.Product{{
				BaseModel:     models.BaseModel{ID: 1},
				Name:          "Pen",
				PurchasePrice: decimal.RequireFromString("0.50"),
				SellingPrice:  decimal.RequireFromString("1.005"),
			}},
		},
		"sub-cent sale total": {
			Version:  models.SnapshotVersion,
			Products: []models.Product{{BaseModel: models.BaseModel{ID: 1}, Name: "Pen"}},
			Sales: []models.Sale{{
				ProductID: 1, ProductName: "Pen", Quantity: 1,
				Total:    decimal.RequireFromString("1.005"),
				SaleDate: models.Date{Year: 2025, Month: time.January, Day: 1},
			}},
		},
		"dangling sale": {
			Version:  models.SnapshotVersion,
			Products: []models.Product{{BaseModel: models.BaseModel{ID: 1}, Name: "Pen"}},
			Sales: []models.Sale{{
				ProductID: 2, ProductName: "Ghost", Quantity: 1,
				SaleDate: models.Date{Year: 2025, Month: time.January, Day: 1},
			}},
		},
	}
	for name, snapshot := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.data.Import(ctx, snapshot)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}

	products, err := f.products.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products, "a failed import leaves nothing behind")
}

func TestClearResetsStoreAndIDs(t *testing.T) {
	ctx := context.Background()
	f := newDataFixture(t, "")
	f.seed(t)
	deletesBefore := f.cache.deletes

	require.NoError(t, f.data.Clear(ctx))
	assert.Greater(t, f.cache.deletes, deletesBefore)

	snapshot, err := f.data.Export(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Products)
	assert.Empty(t, snapshot.Sales)

	p := createProduct(t, f.products, "Pen", "2.50", "5.00", 10)
	assert.Equal(t, uint(1), p.ID)

	sale, err := f.sales.RecordSale(ctx, &RecordSaleRequest{ProductID: p.ID, Quantity: 1, SaleDate: "2025-01-10"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), sale.ID)
}

func TestArchiveWritesLocalBackup(t *testing.T) {
	dir := t.TempDir()
	f := newDataFixture(t, dir)
	f.seed(t)

	result, err := f.data.Archive(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Location, dir), result.Location)
	assert.Equal(t, ".json", filepath.Ext(result.Key))

	raw, err := os.ReadFile(result.Location)
	require.NoError(t, err)
	assert.Equal(t, int64(len(raw)), result.Size)

	var snapshot models.Snapshot
	require.NoError(t, json.Unmarshal(raw, &snapshot))
	assert.Len(t, snapshot.Products, 3)
	assert.Len(t, snapshot.Sales, 3)
}

func TestArchiveWithoutStorage(t *testing.T) {
	f := newDataFixture(t, "")

	_, err := f.data.Archive(context.Background())
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestDataServiceNotReady(t *testing.T) {
	data := NewDataService(notReadyClient(), nil, nil)

	_, err := data.Export(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, data.Clear(context.Background()), ErrNotReady)
}
