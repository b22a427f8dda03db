package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelite/ims/internal/domain/item"
)

const (
	itemColumns = `id, name, category, unit, unit_price, stock_qty, is_active, created_at, updated_at`

	insertItemSQL = `INSERT INTO items (id, name, category, unit, unit_price, stock_qty, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	getItemByIDSQL = `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	listItemsSQL = `SELECT ` + itemColumns + ` FROM items
		WHERE is_active
		  AND ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR category = $2)
		ORDER BY name, id`

	updateItemSQL = `UPDATE items
		SET unit_price = COALESCE($2, unit_price),
		    stock_qty  = COALESCE($3, stock_qty),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + itemColumns

	deactivateItemSQL = `UPDATE items SET is_active = FALSE, updated_at = now() WHERE id = $1`
)

var _ item.Repository = (*ItemRepository)(nil)

// ItemRepository implements item.Repository backed by PostgreSQL.
type ItemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository returns an ItemRepository that uses the given pool.
func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

// Create persists a new catalog item.
func (r *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	_, err := r.pool.Exec(ctx, insertItemSQL,
		it.ID, it.Name, it.Category, it.Unit, it.Price, it.Stock, it.Active, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating item %q: %w", it.ID, err)
	}
	return nil
}

// GetByID returns a single item by its identifier, active or not.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*item.Item, error) {
	rows, err := r.pool.Query(ctx, getItemByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting item %q: %w", id, err)
	}

	it, err := pgx.CollectExactlyOneRow(rows, scanItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrNotFound
		}
		return nil, fmt.Errorf("getting item %q: %w", id, err)
	}
	return &it, nil
}

// List returns active items matching the filter, ordered by name.
func (r *ItemRepository) List(ctx context.Context, f item.Filter) ([]item.Item, error) {
	rows, err := r.pool.Query(ctx, listItemsSQL, f.NameSubstring, string(f.Category))
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return pgx.CollectRows(rows, scanItem)
}

// Update mutates only the supplied fields and returns the updated row.
func (r *ItemRepository) Update(ctx context.Context, id string, upd item.Update) (*item.Item, error) {
	rows, err := r.pool.Query(ctx, updateItemSQL, id, upd.Price, upd.Stock)
	if err != nil {
		return nil, fmt.Errorf("updating item %q: %w", id, err)
	}

	it, err := pgx.CollectExactlyOneRow(rows, scanItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrNotFound
		}
		return nil, fmt.Errorf("updating item %q: %w", id, err)
	}
	return &it, nil
}

// Deactivate soft-deletes an item. Deactivating an already-inactive item is
// not an error.
func (r *ItemRepository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deactivateItemSQL, id)
	if err != nil {
		return fmt.Errorf("deactivating item %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return item.ErrNotFound
	}
	return nil
}

func scanItem(row pgx.CollectableRow) (item.Item, error) {
	var it item.Item
	err := row.Scan(
		&it.ID, &it.Name, &it.Category, &it.Unit,
		&it.Price, &it.Stock, &it.Active, &it.CreatedAt, &it.UpdatedAt,
	)
	return it, err
}
