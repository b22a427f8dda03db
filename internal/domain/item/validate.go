package item

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError indicates malformed item input. It is never retried; the
// caller must correct the named field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the invariants of a new or updated item.
func (it *Item) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !it.Category.Valid() {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", it.Category)}
	}
	if !it.Unit.Valid() {
		return &ValidationError{Field: "unit", Reason: fmt.Sprintf("unknown unit %q", it.Unit)}
	}
	if err := ValidatePrice(it.Price); err != nil {
		return err
	}
	return ValidateStock(it.Stock)
}

// ValidatePrice enforces that a unit price is strictly positive.
func ValidatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return &ValidationError{Field: "price", Reason: "must be greater than zero"}
	}
	return nil
}

// ValidateStock enforces that a stock quantity is non-negative.
func ValidateStock(stock int64) error {
	if stock < 0 {
		return &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	return nil
}
