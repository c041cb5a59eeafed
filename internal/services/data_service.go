// internal/services/data_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stationeryhq/ledger/internal/database"
	"github.com/stationeryhq/ledger/internal/models"
	"github.com/stationeryhq/ledger/internal/repository"
	"github.com/stationeryhq/ledger/internal/utils"
)

// DataService handles whole-store operations: export, import, clear, archive.
type DataService struct {
	client  *database.Client
	cache   AnalyticsInvalidator
	storage *StorageService
	now     func() time.Time
}

type ImportResult struct {
	Products int `json:"products"`
	Sales    int `json:"sales"`
}

func NewDataService(client *database.Client, cache AnalyticsInvalidator, storage *StorageService) *DataService {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &DataService{
		client:  client,
		cache:   cache,
		storage: storage,
		now:     time.Now,
	}
}

// Export reads both stores in one transaction so the snapshot is consistent.
func (s *DataService) Export(ctx context.Context) (*models.Snapshot, error) {
	db, err := s.client.DB()
	if err != nil {
		return nil, err
	}

	snapshot := &models.Snapshot{
		Version:    models.SnapshotVersion,
		ExportedAt: s.now().UTC(),
	}
	err = database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		var err error
		if snapshot.Products, err = repository.NewProductRepository(tx).List(ctx); err != nil {
			return err
		}
		snapshot.Sales, err = repository.NewSaleLedger(tx).List(ctx)
		return err
	})
	if err != nil {
		return nil, storageError("export", err)
	}
	return snapshot, nil
}

// Import re-seeds an empty store. Ids are reassigned; every sale is pointed
// at the new id of the product it referenced in the snapshot.
func (s *DataService) Import(ctx context.Context, snapshot *models.Snapshot) (*ImportResult, error) {
	if err := checkSnapshot(snapshot); err != nil {
		return nil, err
	}

	db, err := s.client.DB()
	if err != nil {
		return nil, err
	}

	products := append([]models.Product(nil), snapshot.Products...)
	sales := append([]models.Sale(nil), snapshot.Sales...)
	// Oldest first so new ids keep the exported order.
	sort.SliceStable(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	sort.SliceStable(sales, func(i, j int) bool { return sales[i].ID < sales[j].ID })

	err = database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		productRepo := repository.NewProductRepository(tx)
		ledger := repository.NewSaleLedger(tx)

		productCount, err := productRepo.Count(ctx)
		if err != nil {
			return err
		}
		saleCount, err := ledger.CountAll(ctx)
		if err != nil {
			return err
		}
		if productCount > 0 || saleCount > 0 {
			return &ConflictError{Message: "import requires an empty store; clear it first"}
		}

		ids := make(map[uint]uint, len(products))
		for i := range products {
			oldID := products[i].ID
			products[i].ID = 0
			if err := productRepo.Create(ctx, &products[i]); err != nil {
				return err
			}
			ids[oldID] = products[i].ID
		}

		for i := range sales {
			newID, ok := ids[sales[i].ProductID]
			if !ok {
				return newValidationError("sales", "product_ref",
					fmt.Sprintf("sale %d references unknown product %d", sales[i].ID, sales[i].ProductID))
			}
			sales[i].ID = 0
			sales[i].ProductID = newID
			sales[i].Product = nil
			if err := ledger.Insert(ctx, &sales[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageError("import", err)
	}

	s.cache.InvalidateAnalytics(ctx)
	logrus.WithFields(logrus.Fields{
		"products": len(products),
		"sales":    len(sales),
	}).Info("Snapshot imported")

	return &ImportResult{Products: len(products), Sales: len(sales)}, nil
}

func checkSnapshot(snapshot *models.Snapshot) error {
	if snapshot == nil {
		return newValidationError("snapshot", "required", "snapshot is required")
	}
	if snapshot.Version != models.SnapshotVersion {
		return newValidationError("version", "eq",
			fmt.Sprintf("unsupported snapshot version %q", snapshot.Version))
	}
	for _, p := range snapshot.Products {
		if strings.TrimSpace(p.Name) == "" {
			return newValidationError("products", "notblank", fmt.Sprintf("product %d has no name", p.ID))
		}
		if p.Stock < 0 || p.TotalSold < 0 || p.MinStock < 0 {
			return newValidationError("products", "min", fmt.Sprintf("product %d has negative counters", p.ID))
		}
		if errs := utils.CheckMoney(
			utils.MoneyField{Name: fmt.Sprintf("products[%d].purchase_price", p.ID), Value: p.PurchasePrice},
			utils.MoneyField{Name: fmt.Sprintf("products[%d].selling_price", p.ID), Value: p.SellingPrice},
		); len(errs) > 0 {
			return &ValidationError{Fields: errs}
		}
	}
	for _, sale := range snapshot.Sales {
		if sale.Quantity < 1 {
			return newValidationError("sales", "min", fmt.Sprintf("sale %d has quantity below 1", sale.ID))
		}
		if sale.SaleDate.IsZero() {
			return newValidationError("sales", "required", fmt.Sprintf("sale %d has no sale date", sale.ID))
		}
		if errs := utils.CheckMoney(
			utils.MoneyField{Name: fmt.Sprintf("sales[%d].sale_price", sale.ID), Value: sale.SalePrice},
			utils.MoneyField{Name: fmt.Sprintf("sales[%d].purchase_price", sale.ID), Value: sale.PurchasePrice},
			utils.MoneyField{Name: fmt.Sprintf("sales[%d].total", sale.ID), Value: sale.Total},
			utils.MoneyField{Name: fmt.Sprintf("sales[%d].profit", sale.ID), Value: sale.Profit},
		); len(errs) > 0 {
			return &ValidationError{Fields: errs}
		}
	}
	return nil
}

// Clear deletes every sale and product and restarts ids at 1, atomically.
func (s *DataService) Clear(ctx context.Context) error {
	db, err := s.client.DB()
	if err != nil {
		return err
	}

	err = database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		return repository.ClearAll(ctx, tx)
	})
	if err != nil {
		return storageError("clear", err)
	}

	s.cache.InvalidateAnalytics(ctx)
	logrus.Warn("All products and sales cleared")
	return nil
}

// Archive exports a snapshot and hands it to the storage service.
func (s *DataService) Archive(ctx context.Context) (*ArchiveResult, error) {
	if s.storage == nil {
		return nil, &ConflictError{Message: "archive storage is not configured"}
	}

	snapshot, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	result, err := s.storage.Store(ctx, body, snapshot.ExportedAt)
	if err != nil {
		return nil, storageError("archive", err)
	}

	logrus.WithFields(logrus.Fields{
		"location": result.Location,
		"size":     result.Size,
		"s3":       s.storage.UsesS3(),
	}).Info("Snapshot archived")
	return result, nil
}
