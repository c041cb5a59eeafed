// internal/services/sale_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stationeryhq/ledger/internal/config"
	"github.com/stationeryhq/ledger/internal/database"
	"github.com/stationeryhq/ledger/internal/models"
	"github.com/stationeryhq/ledger/internal/repository"
	"github.com/stationeryhq/ledger/internal/utils"
)

// SaleService coordinates the sale unit of work: stock check, money
// derivation, ledger insert and inventory update commit or roll back together.
type SaleService struct {
	client         *database.Client
	cache          AnalyticsInvalidator
	walkInCustomer string
}

type RecordSaleRequest struct {
	ProductID    uint   `json:"product_id" validate:"required"`
	Quantity     int    `json:"quantity" validate:"required,min=1"`
	SaleDate     string `json:"sale_date" validate:"required,datetime=2006-01-02"`
	CustomerName string `json:"customer_name,omitempty" validate:"max=255"`
}

func NewSaleService(client *database.Client, cache AnalyticsInvalidator, shop config.ShopConfig) *SaleService {
	if cache == nil {
		cache = noopInvalidator{}
	}
	walkIn := shop.WalkInCustomer
	if walkIn == "" {
		walkIn = "Walk-in Customer"
	}
	return &SaleService{
		client:         client,
		cache:          cache,
		walkInCustomer: walkIn,
	}
}

func (s *SaleService) ListSales(ctx context.Context) ([]models.Sale, error) {
	db, err := s.client.DB()
	if err != nil {
		return nil, err
	}

	sales, err := repository.NewSaleLedger(db).List(ctx)
	if err != nil {
		return nil, storageError("list sales", err)
	}
	return sales, nil
}

func (s *SaleService) RecordSale(ctx context.Context, req *RecordSaleRequest) (*models.Sale, error) {
	// Validate request before touching storage
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Fields: utils.GetValidationErrors(err)}
	}
	saleDate, err := models.ParseDate(req.SaleDate)
	if err != nil {
		return nil, newValidationError("sale_date", "datetime", err.Error())
	}

	customer := strings.TrimSpace(req.CustomerName)
	if customer == "" {
		customer = s.walkInCustomer
	}

	db, err := s.client.DB()
	if err != nil {
		return nil, err
	}

	var sale *models.Sale
	err = database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		products := repository.NewProductRepository(tx)
		ledger := repository.NewSaleLedger(tx)

		// Lock and get product
		product, err := products.FindForUpdate(ctx, req.ProductID)
		if err != nil {
			return notFoundOr("record sale", "product", req.ProductID, err)
		}

		if product.Stock < req.Quantity {
			return &InsufficientStockError{
				ProductID: product.ID,
				Requested: req.Quantity,
				Available: product.Stock,
			}
		}

		sale = models.NewSale(product, req.Quantity, saleDate, customer)
		if err := ledger.Insert(ctx, sale); err != nil {
			return storageError("insert sale", err)
		}

		updated, err := products.Decrement(ctx, product.ID, req.Quantity)
		if err != nil {
			return storageError("update inventory", err)
		}
		if !updated {
			// Stock moved between the read and the guarded write.
			return &InsufficientStockError{
				ProductID: product.ID,
				Requested: req.Quantity,
				Available: product.Stock,
			}
		}
		return nil
	})
	if err != nil {
		var stockErr *InsufficientStockError
		if errors.As(err, &stockErr) {
			logrus.WithFields(logrus.Fields{
				"product_id": stockErr.ProductID,
				"requested":  stockErr.Requested,
				"available":  stockErr.Available,
			}).Warn("Sale rejected: insufficient stock")
		}
		return nil, storageError("record sale", err)
	}

	s.cache.InvalidateAnalytics(ctx)
	logrus.WithFields(logrus.Fields{
		"sale_id":    sale.ID,
		"product_id": sale.ProductID,
		"quantity":   sale.Quantity,
		"total":      sale.Total.StringFixed(2),
	}).Info("Sale recorded")

	return sale, nil
}
