// internal/services/product_service.go
package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stationeryhq/ledger/internal/config"
	"github.com/stationeryhq/ledger/internal/database"
	"github.com/stationeryhq/ledger/internal/models"
	"github.com/stationeryhq/ledger/internal/repository"
	"github.com/stationeryhq/ledger/internal/utils"
)

type ProductService struct {
	client          *database.Client
	cache           AnalyticsInvalidator
	deletePolicy    string
	defaultMinStock int
}

type CreateProductRequest struct {
	Name          string           `json:"name" validate:"required,notblank,max=255"`
	PurchasePrice *decimal.Decimal `json:"purchase_price" validate:"required,min=0"`
	SellingPrice  *decimal.Decimal `json:"selling_price" validate:"required,min=0"`
	Stock         *int             `json:"stock" validate:"required,min=0"`
	MinStock      *int             `json:"min_stock,omitempty" validate:"omitempty,min=0"`
}

type UpdateStockRequest struct {
	Stock     *int `json:"stock" validate:"required,min=0"`
	TotalSold *int `json:"total_sold" validate:"required,min=0"`
}

func NewProductService(client *database.Client, cache AnalyticsInvalidator, shop config.ShopConfig) *ProductService {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &ProductService{
		client:          client,
		cache:           cache,
		deletePolicy:    shop.ProductDeletePolicy,
		defaultMinStock: shop.DefaultMinStock,
	}
}

func (s *ProductService) products() (*repository.ProductRepository, error) {
	db, err := s.client.DB()
	if err != nil {
		return nil, err
	}
	return repository.NewProductRepository(db), nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	repo, err := s.products()
	if err != nil {
		return nil, err
	}

	products, err := repo.List(ctx)
	if err != nil {
		return nil, storageError("list products", err)
	}
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	repo, err := s.products()
	if err != nil {
		return nil, err
	}

	product, err := repo.Find(ctx, id)
	if err != nil {
		return nil, notFoundOr("get product", "product", id, err)
	}
	return product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Fields: utils.GetValidationErrors(err)}
	}
	if errs := utils.CheckMoney(
		utils.MoneyField{Name: "purchase_price", Value: *req.PurchasePrice},
		utils.MoneyField{Name: "selling_price", Value: *req.SellingPrice},
	); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	repo, err := s.products()
	if err != nil {
		return nil, err
	}

	minStock := s.defaultMinStock
	if req.MinStock != nil {
		minStock = *req.MinStock
	}

	product := &models.Product{
		Name:          strings.TrimSpace(req.Name),
		PurchasePrice: *req.PurchasePrice,
		SellingPrice:  *req.SellingPrice,
		Stock:         *req.Stock,
		MinStock:      minStock,
		TotalSold:     0,
		DateAdded:     time.Now(),
	}

	if err := repo.Create(ctx, product); err != nil {
		return nil, storageError("create product", err)
	}

	s.cache.InvalidateAnalytics(ctx)
	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"name":       product.Name,
		"stock":      product.Stock,
	}).Info("Product created")

	return product, nil
}

// UpdateStock overwrites stock and total_sold. It is a manual correction
// path and does not go through the sale coordinator.
func (s *ProductService) UpdateStock(ctx context.Context, id uint, req *UpdateStockRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Fields: utils.GetValidationErrors(err)}
	}

	repo, err := s.products()
	if err != nil {
		return nil, err
	}

	found, err := repo.SetStock(ctx, id, *req.Stock, *req.TotalSold)
	if err != nil {
		return nil, storageError("update stock", err)
	}
	if !found {
		return nil, &NotFoundError{Resource: "product", ID: id}
	}

	s.cache.InvalidateAnalytics(ctx)

	product, err := repo.Find(ctx, id)
	if err != nil {
		return nil, notFoundOr("update stock", "product", id, err)
	}
	return product, nil
}

// DeleteProduct removes a product. Under the cascade policy its sales are
// deleted in the same transaction; under restrict it fails while sales exist.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	db, err := s.client.DB()
	if err != nil {
		return err
	}

	err = database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		products := repository.NewProductRepository(tx)
		ledger := repository.NewSaleLedger(tx)

		if _, err := products.FindForUpdate(ctx, id); err != nil {
			return notFoundOr("delete product", "product", id, err)
		}

		salesCount, err := ledger.CountByProduct(ctx, id)
		if err != nil {
			return storageError("delete product", err)
		}

		if salesCount > 0 {
			if s.deletePolicy == config.DeletePolicyRestrict {
				return &ConflictError{Message: "cannot delete product with recorded sales"}
			}
			if err := ledger.DeleteByProduct(ctx, id); err != nil {
				return storageError("delete product sales", err)
			}
		}

		if _, err := products.Delete(ctx, id); err != nil {
			return storageError("delete product", err)
		}
		return nil
	})
	if err != nil {
		return storageError("delete product", err)
	}

	s.cache.InvalidateAnalytics(ctx)
	logrus.WithField("product_id", id).Info("Product deleted")
	return nil
}
