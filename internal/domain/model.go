package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is owned by the external catalog; read-only here.
type Category struct {
	ID   int
	Name string
}

// Dish is owned by the external catalog; read-only here.
type Dish struct {
	ID         int
	Name       string
	Price      decimal.Decimal
	CategoryID int
	Category   string
}

// Table is an active counter table. Total is the persisted running total,
// a cached projection of the table's order lines.
type Table struct {
	ID    int
	Name  string
	Total decimal.Decimal
}

// Line is one (table, dish) order entry. Quantity is always >= 1; a
// quantity of zero is represented by the absence of the line, never stored.
// Version increases with every mutation and drives snapshot merging.
type Line struct {
	TableID  int
	DishID   int
	Quantity int
	Version  int64
}

// BillLine is a priced ledger slice entry used for totals and documents.
type BillLine struct {
	DishID   int
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// Totals are derived from a ledger slice, never stored.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// SettledOrder is an archived checkout written at table closeout.
type SettledOrder struct {
	ID        int
	Total     decimal.Decimal
	Dishes    []string
	SettledAt time.Time
}
