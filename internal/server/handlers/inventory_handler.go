package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/domain/stock"
	"github.com/mamadbah2/stockdesk/internal/service/inventory"
	"github.com/mamadbah2/stockdesk/internal/service/workspace"
)

// InventoryService describes the inventory operations the HTTP layer uses.
type InventoryService interface {
	List(ctx context.Context, q inventory.ListQuery) (*models.InventoryPage, error)
	Find(ctx context.Context, id string) (models.InventoryRecord, error)
	FindMany(ctx context.Context, ids []string) ([]models.InventoryRecord, error)
	PreviewUpdate(ctx context.Context, id, quantityText string) (*inventory.StockPreview, error)
	UpdateStock(ctx context.Context, id, quantityText, dateText, actor string) (*inventory.UpdateResult, error)
	PreviewBulk(items []models.BulkAdjustmentItem, dateText string) ([]models.BulkStockUpdate, error)
	SubmitBulk(ctx context.Context, items []models.BulkAdjustmentItem, dateText, actor string) (*inventory.BulkResult, error)
	History(ctx context.Context, id string, limit int64) ([]models.AdjustmentEntry, error)
}

// InventoryHandler serves the inventory list and the single stock editor.
type InventoryHandler struct {
	svc      InventoryService
	sessions *workspace.SessionManager
	logger   *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc InventoryService, sessions *workspace.SessionManager, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, sessions: sessions, logger: logger}
}

// List returns one filtered page of inventory.
func (h *InventoryHandler) List(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), inventory.ListQuery{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 0),
		Query:  c.Query("q"),
		Status: c.Query("status"),
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to load inventory")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get returns one record with its derived status.
func (h *InventoryHandler) Get(c *gin.Context) {
	record, err := h.svc.Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load inventory item")
		return
	}
	c.JSON(http.StatusOK, stock.View(record))
}

// Preview shows the new total for the quantity query parameter.
func (h *InventoryHandler) Preview(c *gin.Context) {
	preview, err := h.svc.PreviewUpdate(c.Request.Context(), c.Param("id"), c.Query("quantity"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load inventory item")
		return
	}
	c.JSON(http.StatusOK, preview)
}

type stockUpdateRequest struct {
	Quantity string `json:"quantity"`
	Date     string `json:"date"`
}

// UpdateStock adds the requested quantity to one record.
func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	var req stockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid stock update payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var res *inventory.UpdateResult
	err := withSubmitGate(c, h.sessions, workspace.ActionStockEdit, func(user string) error {
		var err error
		res, err = h.svc.UpdateStock(c.Request.Context(), c.Param("id"), req.Quantity, req.Date, user)
		return err
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to update stock")
		return
	}
	c.JSON(http.StatusOK, res)
}

// History lists recent journal entries of one record.
func (h *InventoryHandler) History(c *gin.Context) {
	entries, err := h.svc.History(c.Request.Context(), c.Param("id"), int64(queryInt(c, "limit", 20)))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load stock history")
		return
	}
	if entries == nil {
		entries = []models.AdjustmentEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
