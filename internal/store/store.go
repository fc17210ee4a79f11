// Package store is the boundary to the external keyed record store and
// its change-notification channel. Components receive these capability
// interfaces injected; nothing here is a package-level singleton.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/srithedesigner/bunniesBurger/internal/domain"
)

// Fetcher reads full stream snapshots; the reconciler's view of the store.
type Fetcher interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Dishes(ctx context.Context) ([]domain.Dish, error)
	Tables(ctx context.Context) ([]domain.Table, error)
	OrderLines(ctx context.Context) ([]domain.Line, error)
}

// TableStore persists the active table set and its running totals.
type TableStore interface {
	InsertTable(ctx context.Context, t domain.Table) error
	DeleteTable(ctx context.Context, id int) error
	AddToTableTotal(ctx context.Context, tableID int, delta decimal.Decimal) error
}

// LineStore mutates order lines with single conditional statements.
type LineStore interface {
	// UpsertLineIncrement inserts the line with quantity 1 or increments
	// it, returning the stored line.
	UpsertLineIncrement(ctx context.Context, tableID, dishID int) (domain.Line, error)
	// DecrementOrDeleteLine walks the stored quantity back one step,
	// deleting at quantity 1. deleted reports the collapse.
	DecrementOrDeleteLine(ctx context.Context, tableID, dishID int) (line domain.Line, deleted bool, err error)
}

// Archive persists settled orders at table closeout.
type Archive interface {
	// ArchiveTable writes the settled order, deletes the table's lines
	// and zeroes its running total in one transaction.
	ArchiveTable(ctx context.Context, tableID int, total decimal.Decimal, dishes []string) (domain.SettledOrder, error)
	SettledOrders(ctx context.Context, date, search string) ([]domain.SettledOrder, error)
	SettledSummary(ctx context.Context, date string) (count int, revenue decimal.Decimal, err error)
}

// SessionStore backs the entry gate.
type SessionStore interface {
	StaffByUsername(ctx context.Context, username string) (id int, passwordHash string, ok bool, err error)
	InsertSession(ctx context.Context, token string, staffID int, expiresAt time.Time) error
	SessionExpiry(ctx context.Context, token string) (time.Time, bool, error)
}

// Store is the full record-store capability set.
type Store interface {
	Fetcher
	TableStore
	LineStore
	Archive
	SessionStore
}

// Notifier is the push-based change-notification channel. Publish emits a
// typed change event after a store write; Subscribe returns the stream of
// everyone's events and is idempotent (a second call returns the same
// channel, never a duplicate subscription).
type Notifier interface {
	Publish(ctx context.Context, ev domain.ChangeEvent) error
	Subscribe() (<-chan domain.ChangeEvent, error)
}
