// internal/models/sale.go
package models

import (
	"github.com/shopspring/decimal"
)

type Sale struct {
	BaseModel
	ProductID     uint            `json:"product_id" gorm:"not null;index"`
	ProductName   string          `json:"product_name" gorm:"size:255;not null"`
	Quantity      int             `json:"quantity" gorm:"not null;check:quantity > 0"`
	SalePrice     decimal.Decimal `json:"sale_price" gorm:"type:decimal(10,2);not null"`
	PurchasePrice decimal.Decimal `json:"purchase_price" gorm:"type:decimal(10,2);not null"`
	Total         decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	Profit        decimal.Decimal `json:"profit" gorm:"type:decimal(12,2);not null"`
	SaleDate      Date            `json:"sale_date" gorm:"not null;index"`
	CustomerName  string          `json:"customer_name" gorm:"size:255;not null"`

	// Relationships
	Product *Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// NewSale snapshots the product's name and prices and derives total and
// profit from quantity. It is the only way a Sale's money fields are set.
func NewSale(product *Product, quantity int, saleDate Date, customerName string) *Sale {
	qty := decimal.NewFromInt(int64(quantity))
	return &Sale{
		ProductID:     product.ID,
		ProductName:   product.Name,
		Quantity:      quantity,
		SalePrice:     product.SellingPrice,
		PurchasePrice: product.PurchasePrice,
		Total:         qty.Mul(product.SellingPrice),
		Profit:        qty.Mul(product.SellingPrice.Sub(product.PurchasePrice)),
		SaleDate:      saleDate,
		CustomerName:  customerName,
	}
}
