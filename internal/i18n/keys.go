// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Products
	KeyProductCreated      = "product.created"
	KeyProductStockUpdated = "product.stock_updated"
	KeyProductDeleted      = "product.deleted"
	KeyProductNotFound     = "product.not_found"

	// Sales
	KeySaleRecorded          = "sale.recorded"
	KeySaleInsufficientStock = "sale.insufficient_stock"

	// Data management
	KeyDataImported = "data.imported"
	KeyDataCleared  = "data.cleared"
	KeyDataArchived = "data.archived"

	// Validation
	KeyValidationInvalid   = "validation.invalid"
	KeyValidationInvalidID = "validation.invalid_id"

	// System
	KeySystemError     = "system.error"
	KeySystemNotReady  = "system.not_ready"
	KeySystemRateLimit = "system.rate_limit"
	KeySystemStorage   = "system.storage"
	KeySystemConflict  = "system.conflict"
)
