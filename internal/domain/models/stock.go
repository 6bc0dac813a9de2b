package models

// StockStatus is the derived availability bucket of an inventory record.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

// InventoryRecord mirrors one row returned by the catalog inventory listing.
type InventoryRecord struct {
	ID          string `json:"_id"`
	ProductName string `json:"product_name"`
	ProductCode string `json:"product_code"`
	ProductURL  string `json:"product_url,omitempty"`
	Quantity    int    `json:"product_stock"`
	Unit        string `json:"dimension_name"`
	StatusLabel string `json:"stock_status,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// InventoryView is an InventoryRecord enriched with its derived status.
type InventoryView struct {
	InventoryRecord
	Status StockStatus `json:"status"`
}

// InventoryPage is a page of inventory listed from the catalog API.
type InventoryPage struct {
	Items       []InventoryView `json:"items"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
	Limit       int             `json:"limit"`
}

// BulkAdjustmentItem wraps a record with the pending change of one bulk submission.
type BulkAdjustmentItem struct {
	InventoryRecord
	Operation Operation `json:"operation"`
	ChangeQty int       `json:"changeQty"`
	NewUnit   string    `json:"newUnit,omitempty"`
}

// Operation is the direction of a stock change.
type Operation string

const (
	OperationAdd    Operation = "add"
	OperationReduce Operation = "reduce"
)

// StockUpdate is the body of a single record update sent to the catalog API.
type StockUpdate struct {
	Quantity int    `json:"product_stock"`
	Date     string `json:"date"`
}

// BulkStockUpdate is one line of a bulk update submission.
type BulkStockUpdate struct {
	InventoryID string `json:"inventory_id"`
	Quantity    int    `json:"product_stock"`
	Date        string `json:"date"`
}
