// Package memory implements the item and bill repositories in process
// memory, guarded by a single mutex. It backs unit tests and the
// "storage: memory" development mode; the PostgreSQL implementation is the
// production path.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/storelite/ims/internal/domain/bill"
	"github.com/storelite/ims/internal/domain/item"
)

// Store holds items and bills behind one RWMutex. A single lock stands in
// for the database transaction: bill creation validates and decrements
// stock while holding the write lock, which gives the same all-or-nothing,
// no-oversell semantics as the row-locked SQL path.
type Store struct {
	mu    sync.RWMutex
	items map[string]item.Item
	bills map[string]bill.Bill
	// billOrder preserves insertion order for most-recent-first listing
	// when timestamps collide.
	billOrder []string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		items: make(map[string]item.Item),
		bills: make(map[string]bill.Bill),
	}
}

// Items returns the item.Repository view of the store.
func (s *Store) Items() *ItemRepository {
	return &ItemRepository{s: s}
}

// Bills returns the bill.Repository view of the store.
func (s *Store) Bills() *BillRepository {
	return &BillRepository{s: s}
}

// copyBill deep-copies a bill so callers can never alias stored line items.
func copyBill(b bill.Bill) bill.Bill {
	out := b
	if b.Items != nil {
		out.Items = make([]bill.LineItem, len(b.Items))
		copy(out.Items, b.Items)
	}
	return out
}

// matchItem applies the List filter to an item.
func matchItem(it item.Item, f item.Filter) bool {
	if !it.Active {
		return false
	}
	if f.NameSubstring != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(f.NameSubstring)) {
		return false
	}
	if f.Category != "" && it.Category != f.Category {
		return false
	}
	return true
}

// sortItemsByName orders items the way the SQL implementation does.
func sortItemsByName(items []item.Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}
