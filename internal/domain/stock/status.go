package stock

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

// LowStockThreshold is the smallest quantity still considered in stock.
const LowStockThreshold = 10

// StatusAll is the filter value that matches every status.
const StatusAll = "all"

// ErrUnknownStatus indicates a status filter that is neither "all" nor a known status.
var ErrUnknownStatus = errors.New("unknown stock status")

// Classify derives the stock status from a quantity.
func Classify(quantity int) models.StockStatus {
	switch {
	case quantity <= 0:
		return models.StatusOutOfStock
	case quantity < LowStockThreshold:
		return models.StatusLowStock
	default:
		return models.StatusInStock
	}
}

// ClassifyLabel maps a free text status label such as "Low Stock" onto a status.
func ClassifyLabel(label string) models.StockStatus {
	normalized := strings.Join(strings.Fields(strings.ToLower(label)), "_")

	switch {
	case strings.Contains(normalized, "out"):
		return models.StatusOutOfStock
	case strings.Contains(normalized, "low"):
		return models.StatusLowStock
	default:
		return models.StatusInStock
	}
}

// StatusOf returns the derived status of a record. The quantity is authoritative;
// the upstream label is ignored.
func StatusOf(record models.InventoryRecord) models.StockStatus {
	return Classify(record.Quantity)
}

// View attaches the derived status to a record.
func View(record models.InventoryRecord) models.InventoryView {
	return models.InventoryView{InventoryRecord: record, Status: StatusOf(record)}
}

// ParseStatusFilter normalizes a status filter. Empty and "all" both match
// everything and are returned as StatusAll.
func ParseStatusFilter(filter string) (string, error) {
	normalized := strings.Join(strings.Fields(strings.ToLower(filter)), "_")
	if normalized == "" || normalized == StatusAll {
		return StatusAll, nil
	}

	if !strings.Contains(normalized, "stock") {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, filter)
	}
	return string(ClassifyLabel(normalized)), nil
}
