// internal/handlers/data.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stationeryhq/ledger/internal/i18n"
	"github.com/stationeryhq/ledger/internal/models"
	"github.com/stationeryhq/ledger/internal/services"
	"github.com/stationeryhq/ledger/internal/utils"
)

type DataHandler struct {
	dataService *services.DataService
}

func NewDataHandler(dataService *services.DataService) *DataHandler {
	return &DataHandler{dataService: dataService}
}

// GET /api/export
func (h *DataHandler) Export(c *gin.Context) {
	snapshot, err := h.dataService.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if c.Query("download") == "true" {
		c.Header("Content-Disposition", "attachment; filename=stationery-ledger-"+snapshot.ExportedAt.Format("20060102")+".json")
	}
	utils.SuccessResponse(c, snapshot)
}

// POST /api/import
func (h *DataHandler) Import(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var snapshot models.Snapshot
	if !bindJSON(c, &snapshot) {
		return
	}

	result, err := h.dataService.Import(c.Request.Context(), &snapshot)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyDataImported), result)
}

// POST /api/export/archive
func (h *DataHandler) Archive(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	result, err := h.dataService.Archive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyDataArchived), result)
}

// DELETE /api/clear
func (h *DataHandler) Clear(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if err := h.dataService.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, i18n.T(lang, i18n.KeyDataCleared), nil)
}
