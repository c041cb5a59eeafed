// internal/handlers/sale.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stationeryhq/ledger/internal/i18n"
	"github.com/stationeryhq/ledger/internal/services"
	"github.com/stationeryhq/ledger/internal/utils"
)

type SaleHandler struct {
	saleService *services.SaleService
}

func NewSaleHandler(saleService *services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// GET /api/sales
func (h *SaleHandler) GetSales(c *gin.Context) {
	sales, err := h.saleService.ListSales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, sales)
}

// POST /api/sales
func (h *SaleHandler) RecordSale(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RecordSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.RecordSale(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeySaleRecorded), sale)
}
