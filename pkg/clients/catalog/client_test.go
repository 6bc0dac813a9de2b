package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.CatalogConfig{BaseURL: srv.URL + "/", Token: "secret", Timeout: 2 * time.Second})
}

func TestListInventory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/inventory/list", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"message":     "ok",
			"currentPage": 2,
			"limit":       5,
			"totalPages":  4,
			"data": []map[string]any{
				{"_id": "a1", "product_name": "Tea", "product_code": "T-1", "product_stock": 8, "dimension_name": "box", "stock_status": "Low Stock"},
			},
		})
	})

	list, err := client.ListInventory(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, list.CurrentPage)
	assert.Equal(t, 4, list.TotalPages)
	require.Len(t, list.Data, 1)
	assert.Equal(t, models.InventoryRecord{
		ID: "a1", ProductName: "Tea", ProductCode: "T-1", Quantity: 8, Unit: "box", StatusLabel: "Low Stock",
	}, list.Data[0])
}

func TestUpdateInventorySendsBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/inventory/update", r.URL.Path)
		assert.Equal(t, "a1", r.URL.Query().Get("inventory_id"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(13), body["product_stock"])
		assert.Equal(t, "2024:03:07", body["date"])

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Stock updated"})
	})

	res, err := client.UpdateInventory(context.Background(), "a1", models.StockUpdate{Quantity: 13, Date: "2024:03:07"})
	require.NoError(t, err)
	assert.Equal(t, "Stock updated", res.Message)
}

func TestBulkUpdateInventoryShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/bulk-update", r.URL.Path)

		var body struct {
			BulkInventory []map[string]any `json:"bulk_inventory"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if assert.Len(t, body.BulkInventory, 2) {
			assert.Equal(t, map[string]any{"inventory_id": "a", "product_stock": float64(10), "date": "2024:01:01"}, body.BulkInventory[0])
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	_, err := client.BulkUpdateInventory(context.Background(), []models.BulkStockUpdate{
		{InventoryID: "a", Quantity: 10, Date: "2024:01:01"},
		{InventoryID: "b", Quantity: 3, Date: "2024:01:01"},
	})
	require.NoError(t, err)
}

func TestServerReportedFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"success": false, "message": "inventory locked"})
	})

	_, err := client.UpdateInventory(context.Background(), "a1", models.StockUpdate{Quantity: 1})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "inventory locked", apiErr.Message)
}

func TestSuccessFlagFalseIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "nothing changed"})
	})

	_, err := client.BulkUpdateInventory(context.Background(), nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "nothing changed", apiErr.Message)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewClient(config.CatalogConfig{BaseURL: srv.URL, Timeout: time.Second})
	_, err := client.ListInventory(context.Background(), 1, 5)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestLookups(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/brand/list":
			writeJSON(w, http.StatusOK, map[string]any{"allBrands": []map[string]any{{"_id": "b1", "brand_name": "Acme"}}})
		case "/category/list":
			writeJSON(w, http.StatusOK, map[string]any{"catgoryProducts": []map[string]any{{"category_id": "c1", "category_name": "Audio"}}})
		case "/subcategory/list":
			writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{{"sub_category_id": "s1", "sub_category_name": "Headphones", "category_name": "Audio"}}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	brands, err := client.ListBrands(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Brand{{ID: "b1", Name: "Acme"}}, brands)

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Audio", categories[0].Name)

	subs, err := client.ListSubcategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Audio", subs[0].CategoryName)
}
