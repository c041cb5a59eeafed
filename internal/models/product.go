// internal/models/product.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name          string          `json:"name" gorm:"size:255;not null;index"`
	PurchasePrice decimal.Decimal `json:"purchase_price" gorm:"type:decimal(10,2);not null"`
	SellingPrice  decimal.Decimal `json:"selling_price" gorm:"type:decimal(10,2);not null"`
	Stock         int             `json:"stock" gorm:"not null;default:0;check:stock >= 0"`
	MinStock      int             `json:"min_stock" gorm:"not null"`
	TotalSold     int             `json:"total_sold" gorm:"not null;default:0"`
	DateAdded     time.Time       `json:"date_added" gorm:"not null"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsLowStock reports whether stock is at or below the reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
