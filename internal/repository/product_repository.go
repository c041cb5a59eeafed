// internal/repository/product_repository.go
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stationeryhq/ledger/internal/models"
)

// ProductRepository is the persistent store of products. It never applies
// business rules beyond what the schema enforces.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns every product, most recently created first.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&products).Error
	return products, err
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Find returns gorm.ErrRecordNotFound when the product does not exist.
func (r *ProductRepository) Find(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindForUpdate locks the product row until the surrounding transaction ends.
// Engines without row locks (SQLite) drop the clause and rely on their
// single-writer serialization instead.
func (r *ProductRepository) FindForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// SetStock overwrites stock and total_sold. It reports whether a row matched.
func (r *ProductRepository) SetStock(ctx context.Context, id uint, stock, totalSold int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      stock,
			"total_sold": totalSold,
			"updated_at": time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}

// Decrement removes quantity from stock and adds it to total_sold, but only
// while enough stock remains. It reports whether the row was updated.
func (r *ProductRepository) Decrement(ctx context.Context, id uint, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", quantity),
			"total_sold": gorm.Expr("total_sold + ?", quantity),
			"updated_at": time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}

// Delete reports whether a row was removed.
func (r *ProductRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	return result.RowsAffected > 0, result.Error
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// CountLowStock counts products at or below their reorder threshold.
func (r *ProductRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("stock <= min_stock").
		Count(&count).Error
	return count, err
}
