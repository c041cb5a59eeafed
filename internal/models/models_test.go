package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2025, Month: time.January, Day: 10}, d)
	assert.Equal(t, "2025-01-10", d.String())

	for _, bad := range []string{"", "2025-1-10", "10/01/2025", "2025-02-30"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateAddDays(t *testing.T) {
	d := Date{Year: 2024, Month: time.March, Day: 1}
	assert.Equal(t, "2024-02-29", d.AddDays(-1).String())
	assert.Equal(t, "2024-02-01", d.AddDays(-29).String())
	assert.Equal(t, "2025-03-01", d.AddDays(365).String())
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2025-01-10"))
	assert.Equal(t, "2025-01-10", d.String())

	require.NoError(t, d.Scan([]byte("2025-02-11T00:00:00Z")))
	assert.Equal(t, "2025-02-11", d.String())

	require.NoError(t, d.Scan(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-03-12", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDateJSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		On Date `json:"on"`
	}{On: Date{Year: 2025, Month: time.January, Day: 10}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"on":"2025-01-10"}`, string(payload))

	var decoded struct {
		On Date `json:"on"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"on":"2025-12-31"}`), &decoded))
	assert.Equal(t, "2025-12-31", decoded.On.String())

	assert.Error(t, json.Unmarshal([]byte(`{"on":"31-12-2025"}`), &decoded))

	value, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestNewSaleDerivesMoney(t *testing.T) {
	pen := &Product{
		BaseModel:     BaseModel{ID: 1},
		Name:          "Pen",
		PurchasePrice: decimal.RequireFromString("2.50"),
		SellingPrice:  decimal.RequireFromString("5.00"),
		Stock:         10,
	}

	sale := NewSale(pen, 3, Date{Year: 2025, Month: time.January, Day: 10}, "Alice")

	assert.Equal(t, uint(1), sale.ProductID)
	assert.Equal(t, "Pen", sale.ProductName)
	assert.Equal(t, "5.00", sale.SalePrice.StringFixed(2))
	assert.Equal(t, "2.50", sale.PurchasePrice.StringFixed(2))
	assert.Equal(t, "15.00", sale.Total.StringFixed(2))
	assert.Equal(t, "7.50", sale.Profit.StringFixed(2))
	assert.Equal(t, "Alice", sale.CustomerName)
}

func TestNewSaleNegativeMargin(t *testing.T) {
	clearance := &Product{
		PurchasePrice: decimal.RequireFromString("3.00"),
		SellingPrice:  decimal.RequireFromString("1.25"),
	}

	sale := NewSale(clearance, 4, Date{Year: 2025, Month: time.May, Day: 1}, "")
	assert.Equal(t, "5.00", sale.Total.StringFixed(2))
	assert.Equal(t, "-7.00", sale.Profit.StringFixed(2))
}

func TestProductIsLowStock(t *testing.T) {
	assert.True(t, (&Product{Stock: 5, MinStock: 5}).IsLowStock())
	assert.True(t, (&Product{Stock: 0, MinStock: 0}).IsLowStock())
	assert.False(t, (&Product{Stock: 6, MinStock: 5}).IsLowStock())
}
