// internal/repository/sale_repository.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stationeryhq/ledger/internal/models"
)

// SaleLedger is an append-mostly store of fully computed sales.
type SaleLedger struct {
	db *gorm.DB
}

// SaleTotals is the sum of total and profit over a set of sales.
type SaleTotals struct {
	Total  decimal.Decimal `json:"total"`
	Profit decimal.Decimal `json:"profit"`
}

func NewSaleLedger(db *gorm.DB) *SaleLedger {
	return &SaleLedger{db: db}
}

// List returns every sale, most recently created first.
func (l *SaleLedger) List(ctx context.Context) ([]models.Sale, error) {
	sales := []models.Sale{}
	err := l.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&sales).Error
	return sales, err
}

// Insert persists sale as given and fills in its id and created_at.
func (l *SaleLedger) Insert(ctx context.Context, sale *models.Sale) error {
	return l.db.WithContext(ctx).Omit("Product").Create(sale).Error
}

func (l *SaleLedger) CountByProduct(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

func (l *SaleLedger) DeleteByProduct(ctx context.Context, productID uint) error {
	return l.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.Sale{}).Error
}

// Totals sums total and profit over all sales.
func (l *SaleLedger) Totals(ctx context.Context) (SaleTotals, error) {
	return l.totals(l.db.WithContext(ctx).Model(&models.Sale{}))
}

// TotalsBetween sums total and profit for sales dated from..to inclusive.
func (l *SaleLedger) TotalsBetween(ctx context.Context, from, to models.Date) (SaleTotals, error) {
	return l.totals(l.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("sale_date BETWEEN ? AND ?", from, to))
}

func (l *SaleLedger) totals(query *gorm.DB) (SaleTotals, error) {
	var totals SaleTotals
	err := query.
		Select("COALESCE(SUM(total), 0), COALESCE(SUM(profit), 0)").
		Row().
		Scan(&totals.Total, &totals.Profit)
	if err != nil {
		return SaleTotals{}, err
	}
	// SQLite sums decimals as floating point.
	totals.Total = totals.Total.Round(2)
	totals.Profit = totals.Profit.Round(2)
	return totals, nil
}

func (l *SaleLedger) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&models.Sale{}).Count(&count).Error
	return count, err
}
