package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/storelite/ims/internal/domain/bill"
)

const (
	// lockItemsSQL acquires exclusive row locks on every referenced item.
	// ORDER BY id makes the lock acquisition order deterministic, so two
	// concurrent bills sharing items can never deadlock on each other.
	lockItemsSQL = `SELECT id, name, unit_price, stock_qty, is_active
		FROM items WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	decrementStockSQL = `UPDATE items SET stock_qty = stock_qty - $2, updated_at = now() WHERE id = $1`

	insertBillSQL = `INSERT INTO bills (id, customer_name, store_name, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	insertBillItemSQL = `INSERT INTO bill_items (id, bill_id, item_id, item_name, unit_price, quantity, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	getBillByIDSQL = `SELECT id, customer_name, store_name, total_amount, created_at
		FROM bills WHERE id = $1`

	getBillItemsSQL = `SELECT id, bill_id, item_id, item_name, unit_price, quantity, line_total
		FROM bill_items WHERE bill_id = $1 ORDER BY id`

	listBillsSQL = `SELECT id, customer_name, store_name, total_amount, created_at
		FROM bills
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		  AND ($2::timestamptz IS NULL OR created_at < $2)
		ORDER BY created_at DESC, id`
)

var _ bill.Repository = (*BillRepository)(nil)

// BillRepository implements bill.Repository backed by PostgreSQL. Create is
// the transactional coordinator: it is the only write path that touches
// item stock and the bills tables together.
type BillRepository struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewBillRepository returns a BillRepository that uses the given pool.
// lockTimeout bounds how long Create waits for contended item rows; zero
// means wait indefinitely.
func NewBillRepository(pool *pgxpool.Pool, lockTimeout time.Duration) *BillRepository {
	return &BillRepository{pool: pool, lockTimeout: lockTimeout}
}

// lockedItem is the slice of an item row the coordinator needs under lock.
type lockedItem struct {
	name   string
	price  decimal.Decimal
	stock  int64
	active bool
}

// Create turns a cart into a persisted bill, or leaves no trace.
//
// It locks all referenced item rows in ascending ID order, re-reads them
// under the lock, validates stock, decrements it, and inserts the bill with
// snapshot line items, all inside one transaction. Any failure rolls the
// whole transaction back. A lock wait exceeding the configured timeout is
// surfaced as bill.ErrLockTimeout.
//
// Create requires a cart free of duplicate item IDs; the service facade
// enforces this before calling.
func (r *BillRepository) Create(ctx context.Context, d bill.Draft) (*bill.Bill, error) {
	if len(d.Cart) == 0 {
		return nil, bill.ErrEmptyCart
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		// lock_timeout is not parameterizable; the value comes from
		// config, never from request input.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("setting lock timeout: %w", err)
		}
	}

	ids := make([]string, len(d.Cart))
	for i, line := range d.Cart {
		ids[i] = line.ItemID
	}
	sort.Strings(ids)

	rows, err := tx.Query(ctx, lockItemsSQL, ids)
	if err != nil {
		if isLockTimeout(err) {
			return nil, bill.ErrLockTimeout
		}
		return nil, fmt.Errorf("locking items: %w", err)
	}

	locked := make(map[string]lockedItem, len(ids))
	var scanErr error
	for rows.Next() {
		var (
			id string
			li lockedItem
		)
		if scanErr = rows.Scan(&id, &li.name, &li.price, &li.stock, &li.active); scanErr != nil {
			break
		}
		locked[id] = li
	}
	rows.Close()
	if scanErr != nil {
		return nil, fmt.Errorf("scanning locked items: %w", scanErr)
	}
	if err := rows.Err(); err != nil {
		if isLockTimeout(err) {
			return nil, bill.ErrLockTimeout
		}
		return nil, fmt.Errorf("locking items: %w", err)
	}

	// Validate every line under the lock before touching anything.
	for _, line := range d.Cart {
		li, ok := locked[line.ItemID]
		if !ok || !li.active {
			return nil, &bill.ItemNotFoundError{ItemID: line.ItemID}
		}
		if line.Quantity > li.stock {
			return nil, &bill.InsufficientStockError{
				ItemID:    line.ItemID,
				Requested: line.Quantity,
				Available: li.stock,
			}
		}
	}

	b := &bill.Bill{
		ID:           uuid.New().String(),
		CustomerName: d.CustomerName,
		StoreName:    d.StoreName,
		CreatedAt:    time.Now().UTC(),
		Items:        make([]bill.LineItem, len(d.Cart)),
	}

	total := decimal.Zero
	for i, line := range d.Cart {
		li := locked[line.ItemID]
		lineTotal := li.price.Mul(decimal.NewFromInt(line.Quantity))
		b.Items[i] = bill.LineItem{
			ID:        uuid.New().String(),
			BillID:    b.ID,
			ItemID:    line.ItemID,
			ItemName:  li.name,
			UnitPrice: li.price,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		}
		total = total.Add(lineTotal)
	}
	b.Total = total.Round(2)

	batch := &pgx.Batch{}
	for _, line := range d.Cart {
		batch.Queue(decrementStockSQL, line.ItemID, line.Quantity)
	}
	batch.Queue(insertBillSQL, b.ID, nullable(b.CustomerName), b.StoreName, b.Total, b.CreatedAt)
	for _, li := range b.Items {
		batch.Queue(insertBillItemSQL, li.ID, li.BillID, li.ItemID, li.ItemName, li.UnitPrice, li.Quantity, li.LineTotal)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("persisting bill %q: %w", b.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing bill %q: %w", b.ID, err)
	}
	return b, nil
}

// GetByID returns a bill with its line items.
func (r *BillRepository) GetByID(ctx context.Context, id string) (*bill.Bill, error) {
	rows, err := r.pool.Query(ctx, getBillByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting bill %q: %w", id, err)
	}

	b, err := pgx.CollectExactlyOneRow(rows, scanBill)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bill.ErrNotFound
		}
		return nil, fmt.Errorf("getting bill %q: %w", id, err)
	}

	itemRows, err := r.pool.Query(ctx, getBillItemsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting bill items for %q: %w", id, err)
	}
	b.Items, err = pgx.CollectRows(itemRows, scanBillItem)
	if err != nil {
		return nil, fmt.Errorf("getting bill items for %q: %w", id, err)
	}
	return &b, nil
}

// List returns bill headers most-recent-first, optionally bounded by the
// filter's [From, To) window. Line items are not loaded; use GetByID.
func (r *BillRepository) List(ctx context.Context, f bill.Filter) ([]bill.Bill, error) {
	rows, err := r.pool.Query(ctx, listBillsSQL, f.From, f.To)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	return pgx.CollectRows(rows, scanBill)
}

func scanBill(row pgx.CollectableRow) (bill.Bill, error) {
	var (
		b        bill.Bill
		customer *string
	)
	err := row.Scan(&b.ID, &customer, &b.StoreName, &b.Total, &b.CreatedAt)
	if customer != nil {
		b.CustomerName = *customer
	}
	return b, err
}

func scanBillItem(row pgx.CollectableRow) (bill.LineItem, error) {
	var li bill.LineItem
	err := row.Scan(&li.ID, &li.BillID, &li.ItemID, &li.ItemName, &li.UnitPrice, &li.Quantity, &li.LineTotal)
	return li, err
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
