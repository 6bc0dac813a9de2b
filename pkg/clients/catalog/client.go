package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

const (
	inventoryListPath       = "inventory/list"
	inventoryUpdatePath     = "inventory/update"
	inventoryBulkUpdatePath = "inventory/bulk-update"
	brandListPath           = "brand/list"
	categoryListPath        = "category/list"
	subcategoryListPath     = "subcategory/list"
	productUpdatePath       = "product/update"
)

// ErrTransport marks failures to reach the catalog API at all.
var ErrTransport = errors.New("catalog api unreachable")

// APIError is a failure reported by the catalog API itself.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: catalog api error: status=%d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: catalog api error: status=%d, message=%s", e.Op, e.Status, e.Message)
}

// Client exposes the catalog API operations used by the back office.
type Client interface {
	ListInventory(ctx context.Context, page, limit int) (*InventoryList, error)
	UpdateInventory(ctx context.Context, inventoryID string, update models.StockUpdate) (*Result, error)
	BulkUpdateInventory(ctx context.Context, lines []models.BulkStockUpdate) (*Result, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListSubcategories(ctx context.Context) ([]models.Subcategory, error)
	UpdateProduct(ctx context.Context, productID string, form models.ProductForm) (*Result, error)
}

// Result is the common success envelope of catalog responses.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// InventoryList is one page of the inventory listing.
type InventoryList struct {
	Result
	CurrentPage int                      `json:"currentPage"`
	Limit       int                      `json:"limit"`
	TotalPages  int                      `json:"totalPages"`
	Data        []models.InventoryRecord `json:"data"`
}

type bulkUpdateRequest struct {
	BulkInventory []models.BulkStockUpdate `json:"bulk_inventory"`
}

type brandList struct {
	AllBrands []models.Brand `json:"allBrands"`
}

type categoryList struct {
	Categories []models.Category `json:"catgoryProducts"`
}

type subcategoryList struct {
	Data []models.Subcategory `json:"data"`
}

// envelope is implemented by responses that carry a success flag.
type envelope interface {
	result() Result
}

func (r *Result) result() Result { return *r }

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a catalog API client using the provided configuration values.
func NewClient(cfg config.CatalogConfig) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if cfg.Token != "" {
		restyClient.SetAuthToken(cfg.Token)
	}

	return &APIClient{httpClient: restyClient}
}

// ListInventory fetches one page of inventory records.
func (c *APIClient) ListInventory(ctx context.Context, page, limit int) (*InventoryList, error) {
	result := new(InventoryList)
	req := c.httpClient.R().
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit))
	if err := c.do(ctx, "list inventory", req, http.MethodGet, inventoryListPath, result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateInventory sets the stock of one record.
func (c *APIClient) UpdateInventory(ctx context.Context, inventoryID string, update models.StockUpdate) (*Result, error) {
	result := new(Result)
	req := c.httpClient.R().
		SetQueryParam("inventory_id", inventoryID).
		SetBody(update)
	if err := c.do(ctx, "update inventory", req, http.MethodPut, inventoryUpdatePath, result); err != nil {
		return nil, err
	}
	return result, nil
}

// BulkUpdateInventory sets the stock of several records in one request.
func (c *APIClient) BulkUpdateInventory(ctx context.Context, lines []models.BulkStockUpdate) (*Result, error) {
	result := new(Result)
	req := c.httpClient.R().SetBody(bulkUpdateRequest{BulkInventory: lines})
	if err := c.do(ctx, "bulk update inventory", req, http.MethodPut, inventoryBulkUpdatePath, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListBrands fetches every brand.
func (c *APIClient) ListBrands(ctx context.Context) ([]models.Brand, error) {
	result := new(brandList)
	if err := c.do(ctx, "list brands", c.httpClient.R(), http.MethodGet, brandListPath, result); err != nil {
		return nil, err
	}
	return result.AllBrands, nil
}

// ListCategories fetches every category.
func (c *APIClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	result := new(categoryList)
	if err := c.do(ctx, "list categories", c.httpClient.R(), http.MethodGet, categoryListPath, result); err != nil {
		return nil, err
	}
	return result.Categories, nil
}

// ListSubcategories fetches every subcategory.
func (c *APIClient) ListSubcategories(ctx context.Context) ([]models.Subcategory, error) {
	result := new(subcategoryList)
	if err := c.do(ctx, "list subcategories", c.httpClient.R(), http.MethodGet, subcategoryListPath, result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// UpdateProduct saves product metadata.
func (c *APIClient) UpdateProduct(ctx context.Context, productID string, form models.ProductForm) (*Result, error) {
	result := new(Result)
	req := c.httpClient.R().
		SetQueryParam("product_id", productID).
		SetBody(form)
	if err := c.do(ctx, "update product", req, http.MethodPut, productUpdatePath, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *APIClient) do(ctx context.Context, op string, req *resty.Request, method, path string, result any) error {
	apiErr := new(Result)

	resp, err := req.
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return &APIError{Op: op, Status: resp.StatusCode(), Message: apiErr.Message}
	}

	if env, ok := result.(envelope); ok {
		if body := env.result(); !body.Success {
			return &APIError{Op: op, Status: resp.StatusCode(), Message: body.Message}
		}
	}

	return nil
}
