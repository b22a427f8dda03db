// Package bill defines immutable invoices and the atomic cart-to-bill
// contract that repositories must implement.
package bill

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Bill is an invoice header with its line items. Once created, a bill and
// its lines are never modified or deleted; the Repository interface has no
// update or delete methods on purpose.
type Bill struct {
	ID           string
	CustomerName string
	StoreName    string
	Total        decimal.Decimal
	CreatedAt    time.Time
	Items        []LineItem
}

// LineItem is a point-in-time snapshot of a sold item. ItemName and
// UnitPrice are copied from the catalog row at sale time, so later catalog
// edits never rewrite billing history. ItemID is a weak reference kept for
// rendering only.
type LineItem struct {
	ID        string
	BillID    string
	ItemID    string
	ItemName  string
	UnitPrice decimal.Decimal
	Quantity  int64
	LineTotal decimal.Decimal
}

// CartLine is one requested position in a cart.
type CartLine struct {
	ItemID   string
	Quantity int64
}

// Draft is the input to Create: an unpersisted bill as submitted by the
// caller. CustomerName may be empty.
type Draft struct {
	CustomerName string
	StoreName    string
	Cart         []CartLine
}

// Filter narrows List results to bills created within [From, To).
type Filter struct {
	From *time.Time
	To   *time.Time
}

// Repository defines persistence operations for bills.
//
// Create is the transactional coordinator: it must atomically lock every
// referenced item in ascending item-ID order, validate stock, decrement it,
// and persist the bill with snapshot line items. Either every effect
// commits or none does; on failure it returns one of the errors defined in
// this package with no partial state left behind.
type Repository interface {
	Create(ctx context.Context, d Draft) (*Bill, error)
	GetByID(ctx context.Context, id string) (*Bill, error)
	List(ctx context.Context, f Filter) ([]Bill, error)
}
