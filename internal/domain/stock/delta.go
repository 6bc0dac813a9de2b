package stock

import (
	"strconv"
	"strings"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

// Adjustment is a requested change to a stock quantity.
type Adjustment struct {
	Operation models.Operation
	Qty       int
}

// Add returns an additive adjustment.
func Add(qty int) Adjustment {
	return Adjustment{Operation: models.OperationAdd, Qty: qty}
}

// ComputeNewStock applies adj to current. Without allowReduction the direction
// is ignored and only non-negative additions are applied. With allowReduction a
// reduce operation subtracts and the result is floored at zero.
func ComputeNewStock(current int, adj Adjustment, allowReduction bool) int {
	if current < 0 {
		current = 0
	}
	qty := adj.Qty
	if qty < 0 {
		qty = 0
	}

	if allowReduction && adj.Operation == models.OperationReduce {
		if qty >= current {
			return 0
		}
		return current - qty
	}

	return current + qty
}

// ParseQuantity reads the leading integer of a free text quantity field.
// Empty, non numeric, negative or out of range input yields 0.
func ParseQuantity(text string) int {
	n := parseLeadingInt(text)
	if n < 0 {
		return 0
	}
	return n
}

// ParseOperation maps a free text direction to an Operation, defaulting to add.
func ParseOperation(text string) models.Operation {
	if strings.EqualFold(strings.TrimSpace(text), string(models.OperationReduce)) {
		return models.OperationReduce
	}
	return models.OperationAdd
}

// parseLeadingInt accepts optional leading whitespace, an optional sign and a
// run of decimal digits; anything after the digits is ignored.
func parseLeadingInt(text string) int {
	s := strings.TrimLeft(text, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
