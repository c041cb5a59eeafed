package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stationeryhq/ledger/internal/config"
	"github.com/stationeryhq/ledger/internal/database"
	"github.com/stationeryhq/ledger/internal/database/dbtest"
	"github.com/stationeryhq/ledger/internal/models"
)

func testShop() config.ShopConfig {
	return config.ShopConfig{
		TimeZone:            "UTC",
		DefaultMinStock:     5,
		WalkInCustomer:      "Walk-in Customer",
		ProductDeletePolicy: config.DeletePolicyCascade,
	}
}

func intPtr(v int) *int {
	return &v
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func createProduct(t *testing.T, svc *ProductService, name, purchase, selling string, stock int) *models.Product {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), &CreateProductRequest{
		Name:          name,
		PurchasePrice: money(purchase),
		SellingPrice:  money(selling),
		Stock:         intPtr(stock),
	})
	require.NoError(t, err)
	return p
}

func notReadyClient() *database.Client {
	return database.NewClient(dbtest.Config())
}

// memoryCache is an in-process cache.Cache that records invalidations.
type memoryCache struct {
	mu      sync.Mutex
	items   map[string][]byte
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.items, key)
	}
	m.deletes++
	return nil
}

func (m *memoryCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[key]
	return ok
}
