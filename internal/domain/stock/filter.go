package stock

import (
	"strings"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

// Filter keeps the records whose name or code contains query (case
// insensitive) and whose derived status equals status. An empty query and the
// StatusAll status match everything.
func Filter(records []models.InventoryRecord, query, status string) []models.InventoryRecord {
	needle := strings.ToLower(query)
	out := make([]models.InventoryRecord, 0, len(records))
	for _, record := range records {
		if !matchesQuery(record, needle) {
			continue
		}
		if status != StatusAll && status != "" && string(StatusOf(record)) != status {
			continue
		}
		out = append(out, record)
	}
	return out
}

func matchesQuery(record models.InventoryRecord, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(record.ProductName), needle) ||
		strings.Contains(strings.ToLower(record.ProductCode), needle)
}

// IDs returns the ids of records in order.
func IDs(records []models.InventoryRecord) []string {
	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	return ids
}
