// Package item defines the catalog model: what the store sells, at what
// price, and how much of it is on hand.
package item

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested item does not exist.
var ErrNotFound = errors.New("item not found")

// Category enumerates the fixed set of catalog categories.
type Category string

const (
	CategoryGrocery      Category = "grocery"
	CategoryBeverage     Category = "beverage"
	CategoryHousehold    Category = "household"
	CategoryStationery   Category = "stationery"
	CategoryPersonalCare Category = "personal_care"
	CategoryOther        Category = "other"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryGrocery,
	CategoryBeverage,
	CategoryHousehold,
	CategoryStationery,
	CategoryPersonalCare,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Unit enumerates the fixed set of measurement units.
type Unit string

const (
	UnitPiece Unit = "pcs"
	UnitKg    Unit = "kg"
	UnitGram  Unit = "g"
	UnitLiter Unit = "l"
	UnitMl    Unit = "ml"
	UnitBox   Unit = "box"
	UnitPack  Unit = "pack"
	UnitDozen Unit = "dozen"
)

// Units lists every valid unit.
var Units = []Unit{
	UnitPiece, UnitKg, UnitGram, UnitLiter, UnitMl, UnitBox, UnitPack, UnitDozen,
}

// Valid reports whether u is one of the known units.
func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

// Item is a catalog entry. Stock is never negative and price is always
// positive; both invariants are enforced on every write path. Items are
// never hard-deleted: Deactivate flips Active off, keeping the row readable
// for historical bill rendering.
type Item struct {
	ID        string
	Name      string
	Category  Category
	Unit      Unit
	Price     decimal.Decimal
	Stock     int64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter narrows List results. NameSubstring is matched case-insensitively.
type Filter struct {
	NameSubstring string
	Category      Category
}

// Update carries the mutable fields of an item. Nil fields are left
// untouched.
type Update struct {
	Price *decimal.Decimal
	Stock *int64
}

// Repository defines persistence operations for catalog items.
//
// List returns active items only. GetByID returns items regardless of the
// active flag so deactivated items stay resolvable for old bills.
type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, f Filter) ([]Item, error)
	Update(ctx context.Context, id string, upd Update) (*Item, error)
	Deactivate(ctx context.Context, id string) error
}
