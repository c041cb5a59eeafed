// internal/repository/maintenance.go
package repository

import (
	"context"

	"gorm.io/gorm"
)

// ClearAll removes every sale and product and restarts both id sequences at 1.
// Run it inside a transaction.
func ClearAll(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	if db.Dialector.Name() == "postgres" {
		return db.Exec("TRUNCATE TABLE sales, products RESTART IDENTITY").Error
	}

	statements := []string{
		"DELETE FROM sales",
		"DELETE FROM products",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	// sqlite_sequence only exists once an AUTOINCREMENT table has been created.
	if db.Migrator().HasTable("sqlite_sequence") {
		return db.Exec("DELETE FROM sqlite_sequence WHERE name IN (?, ?)", "sales", "products").Error
	}
	return nil
}
