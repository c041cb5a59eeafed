// internal/services/analytics_service.go
package services

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/stationeryhq/ledger/internal/cache"
	"github.com/stationeryhq/ledger/internal/database"
	"github.com/stationeryhq/ledger/internal/models"
	"github.com/stationeryhq/ledger/internal/repository"
)

const analyticsCacheKey = "analytics:summary"

// AnalyticsInvalidator is notified after every write that changes metrics.
type AnalyticsInvalidator interface {
	InvalidateAnalytics(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateAnalytics(context.Context) {}

type AnalyticsService struct {
	client   *database.Client
	cache    cache.Cache
	ttl      time.Duration
	location *time.Location
	now      func() time.Time

	// generation advances on every invalidation. A computation only stores
	// its result if no invalidation happened since it started.
	mu         sync.Mutex
	generation uint64
}

type Analytics struct {
	TotalProducts int64           `json:"total_products"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	LowStockItems int64           `json:"low_stock_items"`
	TodaySales    decimal.Decimal `json:"today_sales"`
	TodayProfit   decimal.Decimal `json:"today_profit"`
	WeekSales     decimal.Decimal `json:"week_sales"`
	MonthSales    decimal.Decimal `json:"month_sales"`
	AsOf          models.Date     `json:"as_of"`
}

func NewAnalyticsService(client *database.Client, c cache.Cache, ttl time.Duration, location *time.Location) *AnalyticsService {
	if c == nil {
		c = cache.Noop{}
	}
	if location == nil {
		location = time.Local
	}
	return &AnalyticsService{
		client:   client,
		cache:    c,
		ttl:      ttl,
		location: location,
		now:      time.Now,
	}
}

// WithClock replaces the time source used to decide "today".
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// Today is the current calendar date in the shop's time zone.
func (s *AnalyticsService) Today() models.Date {
	return models.DateOf(s.now().In(s.location))
}

// Compute computes every metric. Any storage fault fails the whole
// request; empty sets yield zero.
func (s *AnalyticsService) Compute(ctx context.Context) (*Analytics, error) {
	today := s.Today()
	gen := s.currentGeneration()

	var cached Analytics
	if hit, err := s.cache.Get(ctx, analyticsCacheKey, &cached); err != nil {
		logrus.WithError(err).Warn("Analytics cache read failed")
	} else if hit && cached.AsOf == today {
		return &cached, nil
	}

	stats, err := s.compute(ctx, today)
	if err != nil {
		return nil, err
	}

	s.storeIfCurrent(ctx, gen, stats)
	return stats, nil
}

func (s *AnalyticsService) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// storeIfCurrent caches stats unless an invalidation ran after gen was read.
func (s *AnalyticsService) storeIfCurrent(ctx context.Context, gen uint64, stats *Analytics) {
	if s.ttl <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		logrus.Debug("Analytics changed during computation, result not cached")
		return
	}
	if err := s.cache.Set(ctx, analyticsCacheKey, stats, s.ttl); err != nil {
		logrus.WithError(err).Warn("Analytics cache write failed")
	}
}

func (s *AnalyticsService) compute(ctx context.Context, today models.Date) (*Analytics, error) {
	db, err := s.client.DB()
	if err != nil {
		return nil, err
	}
	products := repository.NewProductRepository(db)
	ledger := repository.NewSaleLedger(db)

	stats := &Analytics{AsOf: today}

	if stats.TotalProducts, err = products.Count(ctx); err != nil {
		return nil, storageError("count products", err)
	}

	if stats.LowStockItems, err = products.CountLowStock(ctx); err != nil {
		return nil, storageError("count low stock", err)
	}

	all, err := ledger.Totals(ctx)
	if err != nil {
		return nil, storageError("sum sales", err)
	}
	stats.TotalSales, stats.TotalProfit = all.Total, all.Profit

	day, err := ledger.TotalsBetween(ctx, today, today)
	if err != nil {
		return nil, storageError("sum today's sales", err)
	}
	stats.TodaySales, stats.TodayProfit = day.Total, day.Profit

	// Trailing windows include today.
	week, err := ledger.TotalsBetween(ctx, today.AddDays(-6), today)
	if err != nil {
		return nil, storageError("sum week's sales", err)
	}
	stats.WeekSales = week.Total

	month, err := ledger.TotalsBetween(ctx, today.AddDays(-29), today)
	if err != nil {
		return nil, storageError("sum month's sales", err)
	}
	stats.MonthSales = month.Total

	return stats, nil
}

// InvalidateAnalytics drops the cached summary. Cache faults are logged only.
func (s *AnalyticsService) InvalidateAnalytics(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if err := s.cache.Delete(ctx, analyticsCacheKey); err != nil {
		logrus.WithError(err).Warn("Analytics cache invalidation failed")
	}
}
