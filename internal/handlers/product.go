// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stationeryhq/ledger/internal/i18n"
	"github.com/stationeryhq/ledger/internal/services"
	"github.com/stationeryhq/ledger/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GET /api/products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, products)
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyProductCreated), product)
}

// PUT /api/products/:id/stock
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	var req services.UpdateStockRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateStock(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, i18n.T(lang, i18n.KeyProductStockUpdated), product)
}

// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, i18n.T(lang, i18n.KeyProductDeleted), nil)
}
