package products

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/metrics"
	"github.com/mamadbah2/stockdesk/pkg/clients/catalog"
)

// ErrInvalidProduct wraps every product form validation failure.
var ErrInvalidProduct = errors.New("invalid product form")

// ValidationError lists the offending fields of a product form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range []string{"name", "brand", "category", "subCategory", "price", "discount", "dimensionType", "quantity"} {
		if msg, ok := e.Fields[field]; ok {
			parts = append(parts, field+": "+msg)
		}
	}
	return fmt.Sprintf("%s: %s", ErrInvalidProduct, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidProduct }

// DefaultUpdateMessage is returned when the catalog does not send one.
const DefaultUpdateMessage = "The product has been updated successfully."

// Service loads product reference data and submits product edits.
type Service struct {
	client  catalog.Client
	metrics *metrics.Recorder
	logger  *zap.Logger
}

// NewService wires a new products service instance.
func NewService(client catalog.Client, recorder *metrics.Recorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, metrics: recorder, logger: logger}
}

// Lookups fetches brands, categories and subcategories concurrently and links
// each subcategory to its parent category.
func (s *Service) Lookups(ctx context.Context) (*models.ProductLookups, error) {
	var (
		brands        []models.Brand
		categories    []models.Category
		subcategories []models.Subcategory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		started := time.Now()
		var err error
		brands, err = s.client.ListBrands(gctx)
		s.metrics.ObserveCatalogCall("list brands", started, err)
		return err
	})
	g.Go(func() error {
		started := time.Now()
		var err error
		categories, err = s.client.ListCategories(gctx)
		s.metrics.ObserveCatalogCall("list categories", started, err)
		return err
	})
	g.Go(func() error {
		started := time.Now()
		var err error
		subcategories, err = s.client.ListSubcategories(gctx)
		s.metrics.ObserveCatalogCall("list subcategories", started, err)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("failed to load product form data", zap.Error(err))
		return nil, err
	}

	return &models.ProductLookups{
		Brands:        brands,
		Categories:    categories,
		Subcategories: MapSubcategories(subcategories, categories),
	}, nil
}

// MapSubcategories sets ParentCategory on each subcategory to the id of the
// category with the same name. Unmatched subcategories keep an empty parent.
func MapSubcategories(subcategories []models.Subcategory, categories []models.Category) []models.Subcategory {
	byName := make(map[string]string, len(categories))
	for _, c := range categories {
		if _, seen := byName[c.Name]; !seen {
			byName[c.Name] = c.ID
		}
	}

	out := make([]models.Subcategory, len(subcategories))
	for i, sub := range subcategories {
		sub.ParentCategory = byName[sub.CategoryName]
		out[i] = sub
	}
	return out
}

// AvailableSubcategories returns the subcategories under categoryID. A blank
// category yields none.
func AvailableSubcategories(subcategories []models.Subcategory, categoryID string) []models.Subcategory {
	out := []models.Subcategory{}
	if categoryID == "" {
		return out
	}
	for _, sub := range subcategories {
		if sub.ParentCategory == categoryID {
			out = append(out, sub)
		}
	}
	return out
}

// ActualPrice applies a percentage discount to price.
func ActualPrice(price, discount float64) float64 {
	return price - (price * discount / 100)
}

// ValidateForm checks a product form before it is submitted.
func ValidateForm(form models.ProductForm) error {
	fields := map[string]string{}
	required := map[string]string{
		"name":        form.Name,
		"brand":       form.Brand,
		"category":    form.Category,
		"subCategory": form.SubCategory,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			fields[field] = "is required"
		}
	}

	if form.Price < 0 || math.IsNaN(form.Price) || math.IsInf(form.Price, 0) {
		fields["price"] = "must be a non-negative number"
	}
	if form.Discount < 0 || form.Discount > 100 || math.IsNaN(form.Discount) {
		fields["discount"] = "must be between 0 and 100"
	}
	if form.Quantity < 0 {
		fields["quantity"] = "must not be negative"
	}
	if !validDimension(form.DimensionType) {
		fields["dimensionType"] = "must be one of KG, LITRE, DOZEN, PIECE"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validDimension(d models.DimensionType) bool {
	for _, allowed := range models.DimensionTypes {
		if d == allowed {
			return true
		}
	}
	return false
}

// UpdateResult is the outcome of a product edit.
type UpdateResult struct {
	Message     string  `json:"message"`
	ActualPrice float64 `json:"actualPrice"`
}

// Update validates form and sends it to the catalog.
func (s *Service) Update(ctx context.Context, productID string, form models.ProductForm) (*UpdateResult, error) {
	if err := ValidateForm(form); err != nil {
		return nil, err
	}

	started := time.Now()
	res, err := s.client.UpdateProduct(ctx, productID, form)
	s.metrics.ObserveCatalogCall("update product", started, err)
	if err != nil {
		s.logger.Warn("product update failed", zap.String("product_id", productID), zap.Error(err))
		return nil, err
	}

	message := res.Message
	if message == "" {
		message = DefaultUpdateMessage
	}
	s.logger.Info("product updated", zap.String("product_id", productID))
	return &UpdateResult{Message: message, ActualPrice: ActualPrice(form.Price, form.Discount)}, nil
}
