package memory

import (
	"context"

	"github.com/storelite/ims/internal/domain/item"
)

var _ item.Repository = (*ItemRepository)(nil)

// ItemRepository is the item.Repository view of a Store.
type ItemRepository struct {
	s *Store
}

// Create stores a new catalog item.
func (r *ItemRepository) Create(_ context.Context, it *item.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.items[it.ID] = *it
	return nil
}

// GetByID returns an item by identifier, active or not.
func (r *ItemRepository) GetByID(_ context.Context, id string) (*item.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	it, ok := r.s.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	return &it, nil
}

// List returns active items matching the filter, ordered by name.
func (r *ItemRepository) List(_ context.Context, f item.Filter) ([]item.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]item.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		if matchItem(it, f) {
			out = append(out, it)
		}
	}
	sortItemsByName(out)
	return out, nil
}

// Update mutates only the supplied fields and returns the updated item.
func (r *ItemRepository) Update(_ context.Context, id string, upd item.Update) (*item.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	if upd.Price != nil {
		it.Price = *upd.Price
	}
	if upd.Stock != nil {
		it.Stock = *upd.Stock
	}
	it.UpdatedAt = now()
	r.s.items[id] = it
	return &it, nil
}

// Deactivate soft-deletes an item; repeating it is not an error.
func (r *ItemRepository) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.items[id]
	if !ok {
		return item.ErrNotFound
	}
	it.Active = false
	it.UpdatedAt = now()
	r.s.items[id] = it
	return nil
}
