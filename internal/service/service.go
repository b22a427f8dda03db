// Package service is the single entry point for both the REST and the MCP
// adapters. It validates parameters, delegates to the repositories, and
// passes domain errors through unchanged so every caller sees the same
// behavior.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storelite/ims/internal/domain/bill"
	"github.com/storelite/ims/internal/domain/item"
)

// DefaultMaxCartLines bounds how many distinct items a single bill may
// reference, which in turn bounds how many row locks the coordinator holds
// at once.
const DefaultMaxCartLines = 50

// Service exposes the inventory and billing operations. All business rules
// live here or below; the adapters only translate request shapes.
type Service struct {
	items        item.Repository
	bills        bill.Repository
	maxCartLines int
}

// New creates a Service. maxCartLines <= 0 selects DefaultMaxCartLines.
func New(items item.Repository, bills bill.Repository, maxCartLines int) *Service {
	if maxCartLines <= 0 {
		maxCartLines = DefaultMaxCartLines
	}
	return &Service{
		items:        items,
		bills:        bills,
		maxCartLines: maxCartLines,
	}
}

// AddItemParams holds the input for AddItem.
type AddItemParams struct {
	Name     string
	Category item.Category
	Unit     item.Unit
	Price    decimal.Decimal
	Stock    int64
}

// AddItem creates a new active catalog item.
func (s *Service) AddItem(ctx context.Context, p AddItemParams) (*item.Item, error) {
	createdAt := time.Now().UTC()
	it := &item.Item{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(p.Name),
		Category:  p.Category,
		Unit:      p.Unit,
		Price:     p.Price,
		Stock:     p.Stock,
		Active:    true,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := it.Validate(); err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, it); err != nil {
		return nil, errors.Wrap(err, "create item")
	}
	return it, nil
}

// GetItem returns an item by ID, whether active or deactivated.
func (s *Service) GetItem(ctx context.Context, id string) (*item.Item, error) {
	return s.items.GetByID(ctx, id)
}

// ListItems returns active items matching the filter.
func (s *Service) ListItems(ctx context.Context, f item.Filter) ([]item.Item, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, &item.ValidationError{Field: "category", Reason: "unknown category " + string(f.Category)}
	}
	return s.items.List(ctx, f)
}

// UpdateItem mutates an item's price and/or stock. Nil fields are left
// untouched.
func (s *Service) UpdateItem(ctx context.Context, id string, upd item.Update) (*item.Item, error) {
	if upd.Price == nil && upd.Stock == nil {
		return nil, &item.ValidationError{Field: "update", Reason: "at least one of price or stock is required"}
	}
	if upd.Price != nil {
		if err := item.ValidatePrice(*upd.Price); err != nil {
			return nil, err
		}
	}
	if upd.Stock != nil {
		if err := item.ValidateStock(*upd.Stock); err != nil {
			return nil, err
		}
	}
	return s.items.Update(ctx, id, upd)
}

// DeleteItem soft-deletes an item. The row stays readable via GetItem and
// existing bill snapshots are unaffected.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	return s.items.Deactivate(ctx, id)
}

// CreateBillParams holds the input for CreateBill. CustomerName may be
// empty.
type CreateBillParams struct {
	CustomerName string
	StoreName    string
	Cart         []bill.CartLine
}

// CreateBill validates the cart shape and delegates to the transactional
// coordinator. Stock validation happens inside the coordinator, under row
// locks; everything that can be rejected without touching the database is
// rejected here first.
func (s *Service) CreateBill(ctx context.Context, p CreateBillParams) (*bill.Bill, error) {
	if strings.TrimSpace(p.StoreName) == "" {
		return nil, &item.ValidationError{Field: "store_name", Reason: "must not be empty"}
	}
	if len(p.Cart) == 0 {
		return nil, bill.ErrEmptyCart
	}
	if len(p.Cart) > s.maxCartLines {
		return nil, &bill.CartTooLargeError{Lines: len(p.Cart), Max: s.maxCartLines}
	}

	seen := make(map[string]struct{}, len(p.Cart))
	for _, line := range p.Cart {
		if line.ItemID == "" {
			return nil, &item.ValidationError{Field: "item_id", Reason: "must not be empty"}
		}
		if line.Quantity <= 0 {
			return nil, &bill.InvalidQuantityError{ItemID: line.ItemID}
		}
		if _, dup := seen[line.ItemID]; dup {
			return nil, &bill.DuplicateItemError{ItemID: line.ItemID}
		}
		seen[line.ItemID] = struct{}{}
	}

	return s.bills.Create(ctx, bill.Draft{
		CustomerName: strings.TrimSpace(p.CustomerName),
		StoreName:    strings.TrimSpace(p.StoreName),
		Cart:         p.Cart,
	})
}

// GetBill returns a bill with its line items.
func (s *Service) GetBill(ctx context.Context, id string) (*bill.Bill, error) {
	return s.bills.GetByID(ctx, id)
}

// ListBills returns bill headers most-recent-first.
func (s *Service) ListBills(ctx context.Context, f bill.Filter) ([]bill.Bill, error) {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, &item.ValidationError{Field: "date_range", Reason: "to must not be before from"}
	}
	return s.bills.List(ctx, f)
}
