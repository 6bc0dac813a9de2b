package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/service/products"
	"github.com/mamadbah2/stockdesk/internal/service/units"
	"github.com/mamadbah2/stockdesk/internal/service/workspace"
)

// UnitService describes the unit set operations.
type UnitService interface {
	List() units.Listing
	Add(ctx context.Context, candidate string) (*units.Mutation, error)
	Remove(ctx context.Context, unit string) (*units.Mutation, error)
	Reload(ctx context.Context) (units.Listing, error)
}

// ProductService describes the product edit operations.
type ProductService interface {
	Lookups(ctx context.Context) (*models.ProductLookups, error)
	Update(ctx context.Context, productID string, form models.ProductForm) (*products.UpdateResult, error)
}

// CatalogHandler serves the unit manager and the product editor.
type CatalogHandler struct {
	units    UnitService
	products ProductService
	sessions *workspace.SessionManager
	logger   *zap.Logger
}

// NewCatalogHandler constructs the HTTP handler adapter.
func NewCatalogHandler(unitSvc UnitService, productSvc ProductService, sessions *workspace.SessionManager, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{units: unitSvc, products: productSvc, sessions: sessions, logger: logger}
}

// ListUnits returns the unit set.
func (h *CatalogHandler) ListUnits(c *gin.Context) {
	c.JSON(http.StatusOK, h.units.List())
}

type addUnitRequest struct {
	Unit string `json:"unit"`
}

// AddUnit inserts a unit. Blank and duplicate units are accepted as no-ops.
func (h *CatalogHandler) AddUnit(c *gin.Context) {
	var req addUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var res *units.Mutation
	err := withSubmitGate(c, h.sessions, workspace.ActionUnits, func(string) error {
		var err error
		res, err = h.units.Add(c.Request.Context(), req.Unit)
		return err
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to save units")
		return
	}
	c.JSON(http.StatusOK, res)
}

// RemoveUnit deletes a unit. Unknown units are accepted as no-ops.
func (h *CatalogHandler) RemoveUnit(c *gin.Context) {
	var res *units.Mutation
	err := withSubmitGate(c, h.sessions, workspace.ActionUnits, func(string) error {
		var err error
		res, err = h.units.Remove(c.Request.Context(), c.Param("unit"))
		return err
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to save units")
		return
	}
	c.JSON(http.StatusOK, res)
}

// ReloadUnits refreshes the unit set from storage.
func (h *CatalogHandler) ReloadUnits(c *gin.Context) {
	var res units.Listing
	err := withSubmitGate(c, h.sessions, workspace.ActionUnits, func(string) error {
		var err error
		res, err = h.units.Reload(c.Request.Context())
		return err
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to load units")
		return
	}
	c.JSON(http.StatusOK, res)
}

// Lookups returns brands, categories and subcategories for the product form.
func (h *CatalogHandler) Lookups(c *gin.Context) {
	lookups, err := h.products.Lookups(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to load form data")
		return
	}
	c.JSON(http.StatusOK, lookups)
}

// Subcategories returns the subcategories of the category query parameter.
func (h *CatalogHandler) Subcategories(c *gin.Context) {
	lookups, err := h.products.Lookups(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to load form data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"subcategories": products.AvailableSubcategories(lookups.Subcategories, c.Query("category"))})
}

// Validate checks a product form and returns the discounted price.
func (h *CatalogHandler) Validate(c *gin.Context) {
	var form models.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := products.ValidateForm(form); err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "actualPrice": products.ActualPrice(form.Price, form.Discount)})
}

// UpdateProduct submits a product edit.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var form models.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var res *products.UpdateResult
	err := withSubmitGate(c, h.sessions, workspace.ActionProduct, func(string) error {
		var err error
		res, err = h.products.Update(c.Request.Context(), c.Param("id"), form)
		return err
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, res)
}
