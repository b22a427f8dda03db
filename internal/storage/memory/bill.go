package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storelite/ims/internal/domain/bill"
)

func now() time.Time {
	return time.Now().UTC()
}

var _ bill.Repository = (*BillRepository)(nil)

// BillRepository is the bill.Repository view of a Store.
type BillRepository struct {
	s *Store
}

// Create implements the coordinator contract: under the store's write lock
// it validates every cart line against current stock, then decrements stock
// and records the bill with snapshot line items. The lock makes the whole
// operation atomic, so a failed validation leaves stock untouched.
func (r *BillRepository) Create(_ context.Context, d bill.Draft) (*bill.Bill, error) {
	if len(d.Cart) == 0 {
		return nil, bill.ErrEmptyCart
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Validate all lines before mutating anything.
	for _, line := range d.Cart {
		it, ok := r.s.items[line.ItemID]
		if !ok || !it.Active {
			return nil, &bill.ItemNotFoundError{ItemID: line.ItemID}
		}
		if line.Quantity > it.Stock {
			return nil, &bill.InsufficientStockError{
				ItemID:    line.ItemID,
				Requested: line.Quantity,
				Available: it.Stock,
			}
		}
	}

	b := bill.Bill{
		ID:           uuid.New().String(),
		CustomerName: d.CustomerName,
		StoreName:    d.StoreName,
		CreatedAt:    now(),
		Items:        make([]bill.LineItem, len(d.Cart)),
	}

	total := decimal.Zero
	for i, line := range d.Cart {
		it := r.s.items[line.ItemID]
		it.Stock -= line.Quantity
		it.UpdatedAt = b.CreatedAt
		r.s.items[line.ItemID] = it

		lineTotal := it.Price.Mul(decimal.NewFromInt(line.Quantity))
		b.Items[i] = bill.LineItem{
			ID:        uuid.New().String(),
			BillID:    b.ID,
			ItemID:    line.ItemID,
			ItemName:  it.Name,
			UnitPrice: it.Price,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		}
		total = total.Add(lineTotal)
	}
	b.Total = total.Round(2)

	r.s.bills[b.ID] = copyBill(b)
	r.s.billOrder = append(r.s.billOrder, b.ID)

	out := copyBill(b)
	return &out, nil
}

// GetByID returns a bill with its line items.
func (r *BillRepository) GetByID(_ context.Context, id string) (*bill.Bill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bills[id]
	if !ok {
		return nil, bill.ErrNotFound
	}
	out := copyBill(b)
	return &out, nil
}

// List returns bill headers most-recent-first within the filter window.
// Line items are not loaded; use GetByID.
func (r *BillRepository) List(_ context.Context, f bill.Filter) ([]bill.Bill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]bill.Bill, 0, len(r.s.billOrder))
	for i := len(r.s.billOrder) - 1; i >= 0; i-- {
		b := r.s.bills[r.s.billOrder[i]]
		if f.From != nil && b.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !b.CreatedAt.Before(*f.To) {
			continue
		}
		header := b
		header.Items = nil
		out = append(out, header)
	}
	return out, nil
}
