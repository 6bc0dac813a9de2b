package stock

import (
	"errors"
	"fmt"
	"time"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

// ItemField names a per item field that can be overridden in a bulk update.
type ItemField string

const (
	FieldChangeQty ItemField = "changeQty"
	FieldOperation ItemField = "operation"
	FieldNewUnit   ItemField = "newUnit"
)

// ErrInvalidField indicates an unknown bulk item field.
var ErrInvalidField = errors.New("invalid bulk item field")

// dateLayout is the date format the catalog API expects on stock updates.
const dateLayout = "2006:01:02"

// NewBulkItems wraps records into bulk items with no pending change.
func NewBulkItems(records []models.InventoryRecord) []models.BulkAdjustmentItem {
	items := make([]models.BulkAdjustmentItem, 0, len(records))
	for _, record := range records {
		items = append(items, models.BulkAdjustmentItem{
			InventoryRecord: record,
			Operation:       models.OperationAdd,
			NewUnit:         record.Unit,
		})
	}
	return items
}

// ApplyQuickFill sets every item's change to qty, discarding per item overrides.
func ApplyQuickFill(items []models.BulkAdjustmentItem, qty int) []models.BulkAdjustmentItem {
	return ApplyQuickFillOperation(items, models.OperationAdd, qty)
}

// ApplyQuickFillOperation sets every item's direction and change.
func ApplyQuickFillOperation(items []models.BulkAdjustmentItem, op models.Operation, qty int) []models.BulkAdjustmentItem {
	if qty < 0 {
		qty = 0
	}
	out := make([]models.BulkAdjustmentItem, len(items))
	for i, item := range items {
		item.Operation = op
		item.ChangeQty = qty
		out[i] = item
	}
	return out
}

// UpdateItemField returns a copy of items where the item with id has field set
// to the parsed value. An id that is not present leaves items unchanged.
func UpdateItemField(items []models.BulkAdjustmentItem, id string, field ItemField, value string) ([]models.BulkAdjustmentItem, error) {
	var set func(*models.BulkAdjustmentItem)
	switch field {
	case FieldChangeQty:
		qty := ParseQuantity(value)
		set = func(item *models.BulkAdjustmentItem) { item.ChangeQty = qty }
	case FieldOperation:
		op := ParseOperation(value)
		set = func(item *models.BulkAdjustmentItem) { item.Operation = op }
	case FieldNewUnit:
		unit := normalizeUnit(value)
		set = func(item *models.BulkAdjustmentItem) { item.NewUnit = unit }
	default:
		return items, fmt.Errorf("%w: %q", ErrInvalidField, field)
	}

	out := make([]models.BulkAdjustmentItem, len(items))
	for i, item := range items {
		if item.ID == id {
			set(&item)
		}
		out[i] = item
	}
	return out, nil
}

// NewQuantity is the total an item will be submitted with. The item's
// direction only counts when allowReduction is set.
func NewQuantity(item models.BulkAdjustmentItem, allowReduction bool) int {
	return ComputeNewStock(item.Quantity, Adjustment{Operation: item.Operation, Qty: item.ChangeQty}, allowReduction)
}

// BuildSubmission produces the additive bulk update lines for items, all
// sharing date.
func BuildSubmission(items []models.BulkAdjustmentItem, date time.Time) []models.BulkStockUpdate {
	return BuildSubmissionWith(items, date, false)
}

// BuildSubmissionWith is BuildSubmission with add/reduce directions honoured
// when allowReduction is set.
func BuildSubmissionWith(items []models.BulkAdjustmentItem, date time.Time, allowReduction bool) []models.BulkStockUpdate {
	effective := FormatDate(date)
	lines := make([]models.BulkStockUpdate, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.BulkStockUpdate{
			InventoryID: item.ID,
			Quantity:    NewQuantity(item, allowReduction),
			Date:        effective,
		})
	}
	return lines
}

// FormatDate renders an effective date the way the catalog API stores it.
func FormatDate(date time.Time) string {
	return date.Format(dateLayout)
}

// ParseDate reads an ISO (2006-01-02) or catalog (2006:01:02) date. Blank input
// yields now truncated to the day.
func ParseDate(text string, now time.Time) (time.Time, error) {
	if text == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}
	for _, layout := range []string{"2006-01-02", dateLayout} {
		if t, err := time.ParseInLocation(layout, text, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", text)
}
