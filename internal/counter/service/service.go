// Package service orchestrates the ledger core: it routes UI actions to
// the ledger, registry and settlements, issues the persistence side
// effects and publishes the change events other terminals converge on.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/srithedesigner/bunniesBurger/internal/billing"
	"github.com/srithedesigner/bunniesBurger/internal/catalog"
	"github.com/srithedesigner/bunniesBurger/internal/common/logger"
	"github.com/srithedesigner/bunniesBurger/internal/domain"
	"github.com/srithedesigner/bunniesBurger/internal/ledger"
	"github.com/srithedesigner/bunniesBurger/internal/registry"
	"github.com/srithedesigner/bunniesBurger/internal/settlement"
	"github.com/srithedesigner/bunniesBurger/internal/store"
	"github.com/srithedesigner/bunniesBurger/internal/totals"
)

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrUnknownDish  = errors.New("unknown dish")
	ErrNoSettlement = errors.New("no open settlement for table")
)

type Counter struct {
	store    store.Store
	notifier store.Notifier
	ledger   *ledger.Ledger
	registry *registry.Registry
	catalog  *catalog.Catalog
	acc      *totals.Accumulator
	taxRate  decimal.Decimal
	terminal string
	log      *logger.Logger

	mu          sync.Mutex
	settlements map[int]*settlement.Settlement
}

func New(
	st store.Store,
	notifier store.Notifier,
	led *ledger.Ledger,
	reg *registry.Registry,
	cat *catalog.Catalog,
	taxRate decimal.Decimal,
	terminal string,
	log *logger.Logger,
) *Counter {
	return &Counter{
		store:       st,
		notifier:    notifier,
		ledger:      led,
		registry:    reg,
		catalog:     cat,
		acc:         totals.NewAccumulator(st, log),
		taxRate:     taxRate,
		terminal:    terminal,
		log:         log,
		settlements: make(map[int]*settlement.Settlement),
	}
}

// publish emits a change event; failures are logged, never propagated.
func (c *Counter) publish(ctx context.Context, stream domain.Stream, kind domain.EventKind, recordID, tableID int) {
	ev := domain.ChangeEvent{
		MessageID:  uuid.NewString(),
		Stream:     stream,
		Kind:       kind,
		RecordID:   recordID,
		TableID:    tableID,
		Origin:     c.terminal,
		OccurredAt: time.Now().UTC(),
	}
	if err := c.notifier.Publish(ctx, ev); err != nil {
		c.log.Error("change_event_publish_failed", err, map[string]any{
			"stream": string(stream), "kind": string(kind),
		})
	}
}

// --- tables ---

func (c *Counter) Tables() []domain.Table { return c.registry.List() }

// AddTable allocates the smallest free id, registers the table locally
// and confirms it to the store. A failed insert leaves the optimistic
// local table standing; the next table snapshot corrects it.
func (c *Counter) AddTable(ctx context.Context) domain.Table {
	id := c.registry.Allocate()
	t := domain.Table{ID: id, Name: fmt.Sprintf("table %d", id), Total: decimal.Zero}
	c.registry.Add(t)

	if err := c.store.InsertTable(ctx, t); err != nil {
		c.log.Error("table_insert_failed", err, map[string]any{"table_id": id})
		return t
	}
	c.publish(ctx, domain.StreamTables, domain.EventInsert, id, id)
	return t
}

func (c *Counter) RemoveTable(ctx context.Context, id int) error {
	if _, ok := c.registry.Get(id); !ok {
		return ErrUnknownTable
	}
	c.registry.Remove(id)
	c.ledger.ClearTable(id)
	c.dropSettlement(id)

	if err := c.store.DeleteTable(ctx, id); err != nil {
		c.log.Error("table_delete_failed", err, map[string]any{"table_id": id})
		return nil
	}
	c.publish(ctx, domain.StreamTables, domain.EventDelete, id, id)
	c.publish(ctx, domain.StreamLines, domain.EventDelete, 0, id)
	return nil
}

// --- order lines ---

// AddDish creates or increments the (table, dish) line. The local line
// changes first; the store upsert and the running-total increment follow,
// and their failures are logged without rolling the line back.
func (c *Counter) AddDish(ctx context.Context, tableID, dishID int) (domain.Line, error) {
	if _, ok := c.registry.Get(tableID); !ok {
		return domain.Line{}, ErrUnknownTable
	}
	dish, ok := c.catalog.Dish(dishID)
	if !ok {
		return domain.Line{}, ErrUnknownDish
	}

	line := c.ledger.Add(tableID, dishID)

	stored, err := c.store.UpsertLineIncrement(ctx, tableID, dishID)
	if err != nil {
		c.log.Error("line_persist_failed", err, map[string]any{
			"table_id": tableID, "dish_id": dishID,
		})
		c.ledger.Confirm(tableID, dishID, 0)
		return line, nil
	}
	c.ledger.Confirm(tableID, dishID, stored.Version)

	kind := domain.EventUpdate
	if stored.Quantity == 1 {
		kind = domain.EventInsert
	}
	c.publish(ctx, domain.StreamLines, kind, dishID, tableID)

	c.acc.Apply(ctx, tableID, dish.Price)
	c.publish(ctx, domain.StreamTables, domain.EventUpdate, tableID, tableID)
	return line, nil
}

// RemoveDish walks the line back one step. Removing a dish that has no
// line is a logged anomaly and a no-op, never an error to the caller.
func (c *Counter) RemoveDish(ctx context.Context, tableID, dishID int) (domain.Line, error) {
	if _, ok := c.registry.Get(tableID); !ok {
		return domain.Line{}, ErrUnknownTable
	}

	price := decimal.Zero
	if dish, ok := c.catalog.Dish(dishID); ok {
		price = dish.Price
	} else {
		c.log.Error("dish_missing_from_catalog", nil, map[string]any{"dish_id": dishID})
	}

	line, _, ok := c.ledger.Remove(tableID, dishID)
	if !ok {
		c.log.Error("line_missing_anomaly", nil, map[string]any{
			"table_id": tableID, "dish_id": dishID,
		})
		return domain.Line{TableID: tableID, DishID: dishID}, nil
	}

	stored, deleted, err := c.store.DecrementOrDeleteLine(ctx, tableID, dishID)
	if err != nil {
		c.log.Error("line_persist_failed", err, map[string]any{
			"table_id": tableID, "dish_id": dishID,
		})
		c.ledger.Confirm(tableID, dishID, 0)
		return line, nil
	}
	c.ledger.Confirm(tableID, dishID, stored.Version)

	kind := domain.EventUpdate
	if deleted {
		kind = domain.EventDelete
	}
	c.publish(ctx, domain.StreamLines, kind, dishID, tableID)

	c.acc.Apply(ctx, tableID, price.Neg())
	c.publish(ctx, domain.StreamTables, domain.EventUpdate, tableID, tableID)
	return line, nil
}

// --- catalog reads ---

func (c *Counter) Categories() []domain.Category { return c.catalog.Categories() }

func (c *Counter) Dishes(search, category string) []domain.Dish {
	return c.catalog.Filter(search, category)
}

// DishName resolves a dish id for display; unknown ids fall back to the
// numeric form so a stale catalog never blanks a line.
func (c *Counter) DishName(dishID int) string {
	if dish, ok := c.catalog.Dish(dishID); ok {
		return dish.Name
	}
	return fmt.Sprintf("dish %d", dishID)
}

// --- documents ---

// billLines prices the table's ledger slice against the catalog.
func (c *Counter) billLines(tableID int) []domain.BillLine {
	lines := c.ledger.Lines(tableID)
	out := make([]domain.BillLine, 0, len(lines))
	for _, line := range lines {
		bl := domain.BillLine{DishID: line.DishID, Quantity: line.Quantity}
		if dish, ok := c.catalog.Dish(line.DishID); ok {
			bl.Name = dish.Name
			bl.Price = dish.Price
		} else {
			bl.Name = fmt.Sprintf("dish %d", line.DishID)
			bl.Price = decimal.Zero
		}
		out = append(out, bl)
	}
	return out
}

func (c *Counter) Bill(tableID int) (billing.Document, error) {
	table, ok := c.registry.Get(tableID)
	if !ok {
		return billing.Document{}, ErrUnknownTable
	}
	lines := c.billLines(tableID)
	return billing.Bill(table.Name, lines, totals.Compute(lines, c.taxRate)), nil
}

func (c *Counter) Ticket(tableID int) (billing.Document, error) {
	table, ok := c.registry.Get(tableID)
	if !ok {
		return billing.Document{}, ErrUnknownTable
	}
	return billing.Ticket(table.Name, c.billLines(tableID)), nil
}

// --- settlement ---

func (c *Counter) settlementView(tableID int, s *settlement.Settlement) domain.SettlementResponse {
	return domain.SettlementResponse{
		TableID:  tableID,
		State:    string(s.State()),
		Method:   string(s.Method()),
		Total:    s.Total(),
		Change:   s.Change(),
		Finished: s.Finished(),
	}
}

// OpenSettlement starts (or returns the already open) checkout for the
// table, capturing the total of the current ledger slice.
func (c *Counter) OpenSettlement(tableID int) (domain.SettlementResponse, error) {
	if _, ok := c.registry.Get(tableID); !ok {
		return domain.SettlementResponse{}, ErrUnknownTable
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.settlements[tableID]
	if !ok {
		total := totals.Compute(c.billLines(tableID), c.taxRate).Total
		s = settlement.New(total)
		c.settlements[tableID] = s
	}
	return c.settlementView(tableID, s), nil
}

func (c *Counter) Settlement(tableID int) (domain.SettlementResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.settlements[tableID]
	if !ok {
		return domain.SettlementResponse{}, ErrNoSettlement
	}
	return c.settlementView(tableID, s), nil
}

// transition applies fn to the table's settlement and discards the
// instance once it reaches a terminal state.
func (c *Counter) transition(tableID int, fn func(*settlement.Settlement) error) (domain.SettlementResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.settlements[tableID]
	if !ok {
		return domain.SettlementResponse{}, ErrNoSettlement
	}
	if err := fn(s); err != nil {
		return c.settlementView(tableID, s), err
	}
	view := c.settlementView(tableID, s)
	if s.Finished() {
		delete(c.settlements, tableID)
	}
	return view, nil
}

func (c *Counter) ChooseMethod(tableID int, method settlement.Method) (domain.SettlementResponse, error) {
	return c.transition(tableID, func(s *settlement.Settlement) error {
		return s.ChooseMethod(method)
	})
}

func (c *Counter) ResolveUPI(tableID int, success bool) (domain.SettlementResponse, error) {
	return c.transition(tableID, func(s *settlement.Settlement) error {
		return s.ResolveUPI(success)
	})
}

func (c *Counter) EnterCash(tableID int, tendered decimal.Decimal) (domain.SettlementResponse, error) {
	return c.transition(tableID, func(s *settlement.Settlement) error {
		return s.EnterCash(tendered)
	})
}

func (c *Counter) AcknowledgeSettlement(tableID int) (domain.SettlementResponse, error) {
	return c.transition(tableID, func(s *settlement.Settlement) error {
		return s.Acknowledge()
	})
}

// DismissSettlement discards in-flight checkout state; in-flight store
// calls are not cancelled, their results are simply ignored.
func (c *Counter) DismissSettlement(tableID int) {
	c.dropSettlement(tableID)
}

func (c *Counter) dropSettlement(tableID int) {
	c.mu.Lock()
	delete(c.settlements, tableID)
	c.mu.Unlock()
}

// --- closeout and history ---

// Closeout archives the table's current lines as a settled order, clears
// them and zeroes the stored running total. This is the explicit action
// that follows a finished settlement; it is never implicit.
func (c *Counter) Closeout(ctx context.Context, tableID int) (domain.SettledOrder, error) {
	if _, ok := c.registry.Get(tableID); !ok {
		return domain.SettledOrder{}, ErrUnknownTable
	}

	lines := c.billLines(tableID)
	dishes := make([]string, 0, len(lines))
	for _, line := range lines {
		dishes = append(dishes, line.Name)
	}
	total := totals.Compute(lines, c.taxRate).Total

	order, err := c.store.ArchiveTable(ctx, tableID, total, dishes)
	if err != nil {
		return domain.SettledOrder{}, fmt.Errorf("closeout table %d: %w", tableID, err)
	}

	c.ledger.ClearTable(tableID)
	c.dropSettlement(tableID)
	c.publish(ctx, domain.StreamLines, domain.EventDelete, 0, tableID)
	c.publish(ctx, domain.StreamTables, domain.EventUpdate, tableID, tableID)
	c.log.Info("table_closed_out", map[string]any{
		"table_id": tableID, "order_id": order.ID, "total": total.String(),
	})
	return order, nil
}

func (c *Counter) Orders(ctx context.Context, date, search string) ([]domain.SettledOrder, error) {
	return c.store.SettledOrders(ctx, date, search)
}

func (c *Counter) OrdersSummary(ctx context.Context, date string) (domain.OrdersSummaryResponse, error) {
	count, revenue, err := c.store.SettledSummary(ctx, date)
	if err != nil {
		return domain.OrdersSummaryResponse{}, err
	}
	return domain.OrdersSummaryResponse{Date: date, Orders: count, Revenue: revenue}, nil
}
