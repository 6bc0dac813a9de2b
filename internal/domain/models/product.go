package models

// DimensionType is the unit family a product is sold in.
type DimensionType string

const (
	DimensionKG    DimensionType = "KG"
	DimensionLitre DimensionType = "LITRE"
	DimensionDozen DimensionType = "DOZEN"
	DimensionPiece DimensionType = "PIECE"
)

// DimensionTypes lists the dimension types accepted on product forms.
var DimensionTypes = []DimensionType{DimensionKG, DimensionLitre, DimensionDozen, DimensionPiece}

// Brand is a catalog brand.
type Brand struct {
	ID   string `json:"_id"`
	Name string `json:"brand_name"`
	Logo string `json:"brand_logo"`
}

// Category is a top level catalog category.
type Category struct {
	ID   string `json:"category_id"`
	Name string `json:"category_name"`
	Logo string `json:"category_logo"`
}

// Subcategory belongs to a category, referenced by the category name on the wire.
type Subcategory struct {
	ID             string `json:"sub_category_id"`
	Name           string `json:"sub_category_name"`
	Logo           string `json:"sub_category_logo"`
	CategoryName   string `json:"category_name"`
	ParentCategory string `json:"parent_category,omitempty"`
}

// ProductForm carries the editable metadata of a product.
type ProductForm struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Brand         string        `json:"brand"`
	Category      string        `json:"category"`
	SubCategory   string        `json:"subCategory"`
	Tags          []string      `json:"tags"`
	Quantity      int           `json:"quantity"`
	DimensionType DimensionType `json:"dimensionType"`
	Price         float64       `json:"price"`
	Discount      float64       `json:"discount"`
	NewBadge      bool          `json:"newBadge"`
	SalesBadge    bool          `json:"salesBadge"`
	Featured      bool          `json:"featured"`
	Avatar        string        `json:"avatar"`
	CoverImages   []string      `json:"coverImages"`
}

// ProductLookups groups the reference data needed to edit a product.
type ProductLookups struct {
	Brands        []Brand       `json:"brands"`
	Categories    []Category    `json:"categories"`
	Subcategories []Subcategory `json:"subcategories"`
}
