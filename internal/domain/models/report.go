package models

import "time"

// AdjustmentKind tells which flow produced a journal entry.
type AdjustmentKind string

const (
	AdjustmentSingle AdjustmentKind = "single"
	AdjustmentBulk   AdjustmentKind = "bulk"
)

// AdjustmentEntry is one confirmed stock change stored in the adjustment journal.
type AdjustmentEntry struct {
	InventoryID string         `bson:"inventory_id" json:"inventory_id"`
	ProductName string         `bson:"product_name,omitempty" json:"product_name,omitempty"`
	Previous    int            `bson:"previous" json:"previous"`
	Quantity    int            `bson:"quantity" json:"quantity"`
	Date        string         `bson:"date" json:"date"`
	Kind        AdjustmentKind `bson:"kind" json:"kind"`
	Actor       string         `bson:"actor,omitempty" json:"actor,omitempty"`
	CreatedAt   time.Time      `bson:"created_at" json:"created_at"`
}

// UnitSetDocument is the persisted form of a user-managed unit set.
type UnitSetDocument struct {
	Owner     string    `bson:"owner" json:"owner"`
	Units     []string  `bson:"units" json:"units"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// StockDigest summarises records that need restocking.
type StockDigest struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Low         []InventoryView `json:"low"`
	Out         []InventoryView `json:"out"`
	Scanned     int             `json:"scanned"`
}
