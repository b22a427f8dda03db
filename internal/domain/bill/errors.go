package bill

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors for bill creation and lookup.
var (
	// ErrNotFound is returned when a requested bill does not exist.
	ErrNotFound = errors.New("bill not found")
	// ErrEmptyCart is returned when a draft contains no cart lines.
	ErrEmptyCart = errors.New("cart must contain at least one line")
	// ErrLockTimeout is returned when row locks could not be acquired
	// within the configured wait budget. Nothing was committed; the
	// caller may retry the whole call.
	ErrLockTimeout = errors.New("timed out waiting for item locks")
)

// ItemNotFoundError indicates a cart line references an item that does not
// exist or is no longer active.
type ItemNotFoundError struct {
	ItemID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %s not found or inactive", e.ItemID)
}

// InvalidQuantityError indicates a cart line with a non-positive quantity.
type InvalidQuantityError struct {
	ItemID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for item %s", e.ItemID)
}

// DuplicateItemError indicates the same item appears in more than one cart
// line.
type DuplicateItemError struct {
	ItemID string
}

func (e *DuplicateItemError) Error() string {
	return fmt.Sprintf("item %s appears more than once in the cart", e.ItemID)
}

// CartTooLargeError indicates the cart exceeds the configured line limit.
// The limit bounds how many row locks a single transaction may hold.
type CartTooLargeError struct {
	Lines int
	Max   int
}

func (e *CartTooLargeError) Error() string {
	return fmt.Sprintf("cart has %d lines, maximum is %d", e.Lines, e.Max)
}

// InsufficientStockError indicates a cart line requested more units than
// the item has on hand. The whole transaction was rolled back; no stock
// was decremented.
type InsufficientStockError struct {
	ItemID    string
	Requested int64
	Available int64
}

// Shortfall returns how many units were missing.
func (e *InsufficientStockError) Shortfall() int64 {
	return e.Requested - e.Available
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: requested %d, available %d (short %d)",
		e.ItemID, e.Requested, e.Available, e.Shortfall())
}
