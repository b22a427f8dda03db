package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/storelite/ims/internal/domain/bill"
	"github.com/storelite/ims/internal/domain/item"
)

func seedItem(t *testing.T, s *Store, name string, price string, stock int64) *item.Item {
	t.Helper()
	now := time.Now().UTC()
	it := &item.Item{
		ID:        uuid.New().String(),
		Name:      name,
		Category:  item.CategoryGrocery,
		Unit:      item.UnitPiece,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Items().Create(context.Background(), it))
	return it
}

func TestItemRepositoryReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seeded := seedItem(t, s, "Tea 250g", "85", 10)

	got, err := s.Items().GetByID(ctx, seeded.ID)
	require.NoError(t, err)

	// Mutating the returned value must not leak into the store.
	got.Stock = 0
	got.Name = "tampered"

	again, err := s.Items().GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tea 250g", again.Name)
	assert.EqualValues(t, 10, again.Stock)
}

func TestItemRepositoryUpdateTouchesUpdatedAt(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seeded := seedItem(t, s, "Tea 250g", "85", 10)

	stock := int64(7)
	updated, err := s.Items().Update(ctx, seeded.ID, item.Update{Stock: &stock})
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(seeded.UpdatedAt))
	assert.Equal(t, seeded.CreatedAt, updated.CreatedAt)
}

func TestItemRepositoryDeactivateIsSticky(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seeded := seedItem(t, s, "Tea 250g", "85", 10)

	require.NoError(t, s.Items().Deactivate(ctx, seeded.ID))
	require.NoError(t, s.Items().Deactivate(ctx, seeded.ID), "deactivating twice is fine")

	listed, err := s.Items().List(ctx, item.Filter{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestBillRepositoryReturnsDeepCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seeded := seedItem(t, s, "Tea 250g", "85", 10)

	created, err := s.Bills().Create(ctx, bill.Draft{
		StoreName: "Corner Shop",
		Cart:      []bill.CartLine{{ItemID: seeded.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Mutating returned line items must not affect the stored bill.
	created.Items[0].ItemName = "tampered"

	got, err := s.Bills().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tea 250g", got.Items[0].ItemName)
}

func TestBillRepositoryListWindow(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seeded := seedItem(t, s, "Tea 250g", "85", 100)

	before := time.Now().UTC()
	created, err := s.Bills().Create(ctx, bill.Draft{
		StoreName: "Corner Shop",
		Cart:      []bill.CartLine{{ItemID: seeded.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	after := time.Now().UTC().Add(time.Millisecond)

	inWindow, err := s.Bills().List(ctx, bill.Filter{From: &before, To: &after})
	require.NoError(t, err)
	require.Len(t, inWindow, 1)
	assert.Equal(t, created.ID, inWindow[0].ID)

	// The window is [from, to): a bill at exactly "to" is excluded.
	at := created.CreatedAt
	excluded, err := s.Bills().List(ctx, bill.Filter{From: &before, To: &at})
	require.NoError(t, err)
	assert.Empty(t, excluded)
}

func TestBillRepositoryEmptyCart(t *testing.T) {
	s := NewStore()

	_, err := s.Bills().Create(context.Background(), bill.Draft{StoreName: "Corner Shop"})
	assert.ErrorIs(t, err, bill.ErrEmptyCart)
}

func TestBillRepositoryConcurrentDisjointCarts(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	const workers = 8
	items := make([]*item.Item, workers)
	for i := range items {
		items[i] = seedItem(t, s, "Item", "10", 10)
	}

	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			_, err := s.Bills().Create(ctx, bill.Draft{
				StoreName: "Corner Shop",
				Cart:      []bill.CartLine{{ItemID: items[i].ID, Quantity: 4}},
			})
			return err
		})
	}
	require.NoError(t, g.Wait(), "disjoint carts never contend on stock")

	for _, it := range items {
		got, err := s.Items().GetByID(ctx, it.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 6, got.Stock)
	}
}

func TestBillRepositoryContendingCarts(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seeded := seedItem(t, s, "Tea 250g", "85", 5)

	const workers = 4
	results := make([]error, workers)
	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			_, err := s.Bills().Create(ctx, bill.Draft{
				StoreName: "Corner Shop",
				Cart:      []bill.CartLine{{ItemID: seeded.ID, Quantity: 3}},
			})
			results[i] = err
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var committed int
	for _, err := range results {
		if err == nil {
			committed++
			continue
		}
		var stockErr *bill.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
	}
	assert.Equal(t, 1, committed, "stock of 5 admits exactly one cart of 3")

	got, err := s.Items().GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Stock)
}
