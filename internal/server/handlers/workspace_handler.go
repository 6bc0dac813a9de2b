package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/domain/stock"
	"github.com/mamadbah2/stockdesk/internal/service/inventory"
	"github.com/mamadbah2/stockdesk/internal/service/workspace"
)

// UnitLookup reports whether a unit belongs to the managed unit set.
type UnitLookup interface {
	Has(unit string) bool
}

// WorkspaceHandler serves the selection and bulk update screens.
type WorkspaceHandler struct {
	svc      InventoryService
	units    UnitLookup
	sessions *workspace.SessionManager
	logger   *zap.Logger
}

// NewWorkspaceHandler constructs the HTTP handler adapter. A nil unitSet
// accepts any unit override.
func NewWorkspaceHandler(svc InventoryService, unitSet UnitLookup, sessions *workspace.SessionManager, logger *zap.Logger) *WorkspaceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkspaceHandler{svc: svc, units: unitSet, sessions: sessions, logger: logger}
}

// Get returns the caller's workspace.
func (h *WorkspaceHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessions.GetSession(actorFrom(c)))
}

// Toggle flips one record in the selection.
func (h *WorkspaceHandler) Toggle(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessions.ToggleItem(actorFrom(c), c.Param("id")))
}

type toggleAllRequest struct {
	IDs    []string `json:"ids"`
	Page   int      `json:"page"`
	Limit  int      `json:"limit"`
	Query  string   `json:"q"`
	Status string   `json:"status"`
}

// ToggleAll selects every currently filtered record, or clears the selection
// when they are all selected already. Without explicit ids the filtered page
// is loaded from the catalog.
func (h *WorkspaceHandler) ToggleAll(c *gin.Context) {
	var req toggleAllRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	filtered := req.IDs
	if filtered == nil {
		page, err := h.svc.List(c.Request.Context(), inventory.ListQuery{
			Page: req.Page, Limit: req.Limit, Query: req.Query, Status: req.Status,
		})
		if err != nil {
			respondError(c, h.logger, err, "Failed to load inventory")
			return
		}
		filtered = make([]string, 0, len(page.Items))
		for _, item := range page.Items {
			filtered = append(filtered, item.ID)
		}
	}

	c.JSON(http.StatusOK, h.sessions.ToggleAll(actorFrom(c), filtered))
}

// LoadItems turns the current selection into bulk items.
func (h *WorkspaceHandler) LoadItems(c *gin.Context) {
	user := actorFrom(c)
	records, err := h.svc.FindMany(c.Request.Context(), h.sessions.GetSession(user).Selected)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load selected items")
		return
	}
	snapshot, err := h.sessions.SetItems(user, records)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load selected items")
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

type quickFillRequest struct {
	Operation string `json:"operation"`
	Quantity  string `json:"quantity"`
}

// QuickFill applies one change to every bulk item.
func (h *WorkspaceHandler) QuickFill(c *gin.Context) {
	var req quickFillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	snapshot, err := h.sessions.ApplyQuickFill(actorFrom(c), stock.ParseOperation(req.Operation), stock.ParseQuantity(req.Quantity))
	if err != nil {
		respondError(c, h.logger, err, "Failed to apply quick fill")
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

type itemFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// UpdateItem overrides one field of one bulk item. A unit override must name
// a managed unit; it is kept for display and never sent to the catalog.
func (h *WorkspaceHandler) UpdateItem(c *gin.Context) {
	var req itemFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if stock.ItemField(req.Field) == stock.FieldNewUnit && h.units != nil &&
		strings.TrimSpace(req.Value) != "" && !h.units.Has(req.Value) {
		respondError(c, h.logger, fmt.Errorf("%w: %q", stock.ErrUnknownUnit, req.Value), "")
		return
	}

	snapshot, err := h.sessions.UpdateItemField(actorFrom(c), c.Param("id"), stock.ItemField(req.Field), req.Value)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update item")
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

type bulkDateRequest struct {
	Date string `json:"date"`
}

// Preview returns the lines a submission would send.
func (h *WorkspaceHandler) Preview(c *gin.Context) {
	var req bulkDateRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	items := h.sessions.GetSession(actorFrom(c)).Items
	if len(items) == 0 {
		respondError(c, h.logger, inventory.ErrEmptySelection, "")
		return
	}
	lines, err := h.svc.PreviewBulk(items, req.Date)
	if err != nil {
		respondError(c, h.logger, err, "Failed to preview bulk update")
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

// Submit sends the bulk update and clears the workspace on success.
func (h *WorkspaceHandler) Submit(c *gin.Context) {
	var req bulkDateRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var res *inventory.BulkResult
	err := withSubmitGate(c, h.sessions, workspace.ActionBulkUpdate, func(user string) error {
		items := h.sessions.GetSession(user).Items
		var err error
		res, err = h.svc.SubmitBulk(c.Request.Context(), items, req.Date, user)
		if err != nil {
			return err
		}
		h.sessions.ClearBulk(user)
		return nil
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to update stock")
		return
	}
	c.JSON(http.StatusOK, res)
}

// Reset discards the caller's workspace. It is refused while one of the
// caller's submissions is in flight.
func (h *WorkspaceHandler) Reset(c *gin.Context) {
	user := actorFrom(c)
	if err := h.sessions.ClearSession(user); err != nil {
		respondError(c, h.logger, err, "Failed to reset workspace")
		return
	}
	c.JSON(http.StatusOK, h.sessions.GetSession(user))
}
