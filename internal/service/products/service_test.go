package products

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/pkg/clients/catalog"
)

type fakeCatalog struct {
	catalog.Client
	brands        []models.Brand
	categories    []models.Category
	subcategories []models.Subcategory
	subErr        error
	updateErr     error
	updated       map[string]models.ProductForm
}

func (f *fakeCatalog) ListBrands(context.Context) ([]models.Brand, error) { return f.brands, nil }

func (f *fakeCatalog) ListCategories(context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalog) ListSubcategories(context.Context) ([]models.Subcategory, error) {
	return f.subcategories, f.subErr
}

func (f *fakeCatalog) UpdateProduct(_ context.Context, id string, form models.ProductForm) (*catalog.Result, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updated == nil {
		f.updated = map[string]models.ProductForm{}
	}
	f.updated[id] = form
	return &catalog.Result{Success: true}, nil
}

func lookupsCatalog() *fakeCatalog {
	return &fakeCatalog{
		brands: []models.Brand{{ID: "b1", Name: "Acme"}},
		categories: []models.Category{
			{ID: "c1", Name: "Food"},
			{ID: "c2", Name: "Clothing"},
		},
		subcategories: []models.Subcategory{
			{ID: "s1", Name: "Oils", CategoryName: "Food"},
			{ID: "s2", Name: "Socks", CategoryName: "Clothing"},
			{ID: "s3", Name: "Spices", CategoryName: "Food"},
			{ID: "s4", Name: "Orphans", CategoryName: "Toys"},
		},
	}
}

func validForm() models.ProductForm {
	return models.ProductForm{
		Name:          "Olive Oil",
		Brand:         "b1",
		Category:      "c1",
		SubCategory:   "s1",
		Quantity:      3,
		DimensionType: models.DimensionLitre,
		Price:         80,
		Discount:      10,
	}
}

func TestLookupsMapsParents(t *testing.T) {
	svc := NewService(lookupsCatalog(), nil, nil)

	lookups, err := svc.Lookups(context.Background())
	require.NoError(t, err)

	assert.Len(t, lookups.Brands, 1)
	assert.Len(t, lookups.Categories, 2)
	require.Len(t, lookups.Subcategories, 4)
	assert.Equal(t, "c1", lookups.Subcategories[0].ParentCategory)
	assert.Equal(t, "c2", lookups.Subcategories[1].ParentCategory)
	assert.Empty(t, lookups.Subcategories[3].ParentCategory)

	food := AvailableSubcategories(lookups.Subcategories, "c1")
	require.Len(t, food, 2)
	assert.Equal(t, "s1", food[0].ID)
	assert.Equal(t, "s3", food[1].ID)
	assert.Empty(t, AvailableSubcategories(lookups.Subcategories, ""))
}

func TestLookupsFailsWhenAnyListFails(t *testing.T) {
	client := lookupsCatalog()
	client.subErr = errors.New("boom")

	_, err := NewService(client, nil, nil).Lookups(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestActualPrice(t *testing.T) {
	assert.InDelta(t, 72.0, ActualPrice(80, 10), 1e-9)
	assert.InDelta(t, 0.0, ActualPrice(80, 100), 1e-9)
	assert.InDelta(t, 79.99, ActualPrice(79.99, 0), 1e-9)
}

func TestValidateForm(t *testing.T) {
	assert.NoError(t, ValidateForm(validForm()))

	form := validForm()
	form.Name = "  "
	form.SubCategory = ""
	form.Discount = 120
	form.Price = -1
	form.DimensionType = "BOX"

	err := ValidateForm(form)
	require.ErrorIs(t, err, ErrInvalidProduct)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"name":          "is required",
		"subCategory":   "is required",
		"price":         "must be a non-negative number",
		"discount":      "must be between 0 and 100",
		"dimensionType": "must be one of KG, LITRE, DOZEN, PIECE",
	}, verr.Fields)
	assert.Contains(t, err.Error(), "name: is required; subCategory: is required; price:")
}

func TestUpdate(t *testing.T) {
	client := lookupsCatalog()
	svc := NewService(client, nil, nil)

	res, err := svc.Update(context.Background(), "p1", validForm())
	require.NoError(t, err)
	assert.Equal(t, DefaultUpdateMessage, res.Message)
	assert.InDelta(t, 72.0, res.ActualPrice, 1e-9)
	assert.Equal(t, "Olive Oil", client.updated["p1"].Name)
}

func TestUpdateRejectsInvalidFormWithoutCallingCatalog(t *testing.T) {
	client := lookupsCatalog()
	form := validForm()
	form.Brand = ""

	_, err := NewService(client, nil, nil).Update(context.Background(), "p1", form)
	assert.ErrorIs(t, err, ErrInvalidProduct)
	assert.Empty(t, client.updated)
}
