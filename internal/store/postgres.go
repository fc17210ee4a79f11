package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/srithedesigner/bunniesBurger/internal/connections/database"
	"github.com/srithedesigner/bunniesBurger/internal/domain"
)

// Postgres implements Store on a pgx pool.
type Postgres struct {
	db *database.Conn
}

func NewPostgres(db *database.Conn) *Postgres { return &Postgres{db: db} }

func (p *Postgres) Categories(ctx context.Context) ([]domain.Category, error) {
	rows, err := p.db.Query(ctx, getCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) Dishes(ctx context.Context) ([]domain.Dish, error) {
	rows, err := p.db.Query(ctx, getDishesSQL)
	if err != nil {
		return nil, fmt.Errorf("fetch dishes: %w", err)
	}
	defer rows.Close()

	var out []domain.Dish
	for rows.Next() {
		var d domain.Dish
		if err := rows.Scan(&d.ID, &d.Name, &d.Price, &d.CategoryID, &d.Category); err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (p *Postgres) Tables(ctx context.Context) ([]domain.Table, error) {
	rows, err := p.db.Query(ctx, getTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("fetch tables: %w", err)
	}
	defer rows.Close()

	var out []domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.Name, &t.Total); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (p *Postgres) OrderLines(ctx context.Context) ([]domain.Line, error) {
	rows, err := p.db.Query(ctx, getOrderLinesSQL)
	if err != nil {
		return nil, fmt.Errorf("fetch order lines: %w", err)
	}
	defer rows.Close()

	var out []domain.Line
	for rows.Next() {
		var l domain.Line
		if err := rows.Scan(&l.TableID, &l.DishID, &l.Quantity, &l.Version); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (p *Postgres) InsertTable(ctx context.Context, t domain.Table) error {
	if _, err := p.db.Exec(ctx, insertTableSQL, t.ID, t.Name, t.Total); err != nil {
		return fmt.Errorf("insert table %d: %w", t.ID, err)
	}
	return nil
}

func (p *Postgres) DeleteTable(ctx context.Context, id int) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete table: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteTableLinesSQL, id); err != nil {
		return fmt.Errorf("delete lines of table %d: %w", id, err)
	}
	if _, err := tx.Exec(ctx, deleteTableSQL, id); err != nil {
		return fmt.Errorf("delete table %d: %w", id, err)
	}
	return tx.Commit(ctx)
}

func (p *Postgres) AddToTableTotal(ctx context.Context, tableID int, delta decimal.Decimal) error {
	if _, err := p.db.Exec(ctx, addToTableTotalSQL, delta, tableID); err != nil {
		return fmt.Errorf("add to total of table %d: %w", tableID, err)
	}
	return nil
}

func (p *Postgres) UpsertLineIncrement(ctx context.Context, tableID, dishID int) (domain.Line, error) {
	l := domain.Line{TableID: tableID, DishID: dishID}
	err := p.db.QueryRow(ctx, upsertLineIncrementSQL, tableID, dishID).
		Scan(&l.Quantity, &l.Version)
	if err != nil {
		return domain.Line{}, fmt.Errorf("upsert line (%d,%d): %w", tableID, dishID, err)
	}
	return l, nil
}

func (p *Postgres) DecrementOrDeleteLine(ctx context.Context, tableID, dishID int) (domain.Line, bool, error) {
	l := domain.Line{TableID: tableID, DishID: dishID}
	err := p.db.QueryRow(ctx, decrementLineSQL, tableID, dishID).
		Scan(&l.Quantity, &l.Version)
	if err == nil {
		return l, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Line{}, false, fmt.Errorf("decrement line (%d,%d): %w", tableID, dishID, err)
	}

	// quantity was 1 (or the line vanished); collapse it
	if _, err := p.db.Exec(ctx, deleteLineSQL, tableID, dishID); err != nil {
		return domain.Line{}, false, fmt.Errorf("delete line (%d,%d): %w", tableID, dishID, err)
	}
	return l, true, nil
}

func (p *Postgres) ArchiveTable(ctx context.Context, tableID int, total decimal.Decimal, dishes []string) (domain.SettledOrder, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return domain.SettledOrder{}, fmt.Errorf("begin closeout: %w", err)
	}
	defer tx.Rollback(ctx)

	order := domain.SettledOrder{Total: total, Dishes: dishes}
	if err := tx.QueryRow(ctx, insertSettledOrderSQL, total, dishes).
		Scan(&order.ID, &order.SettledAt); err != nil {
		return domain.SettledOrder{}, fmt.Errorf("insert settled order: %w", err)
	}
	if _, err := tx.Exec(ctx, deleteTableLinesSQL, tableID); err != nil {
		return domain.SettledOrder{}, fmt.Errorf("clear lines of table %d: %w", tableID, err)
	}
	if _, err := tx.Exec(ctx, zeroTableTotalSQL, tableID); err != nil {
		return domain.SettledOrder{}, fmt.Errorf("zero total of table %d: %w", tableID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.SettledOrder{}, fmt.Errorf("commit closeout: %w", err)
	}
	return order, nil
}

func (p *Postgres) SettledOrders(ctx context.Context, date, search string) ([]domain.SettledOrder, error) {
	rows, err := p.db.Query(ctx, getSettledOrdersSQL, date, search)
	if err != nil {
		return nil, fmt.Errorf("fetch settled orders: %w", err)
	}
	defer rows.Close()

	var out []domain.SettledOrder
	for rows.Next() {
		var o domain.SettledOrder
		if err := rows.Scan(&o.ID, &o.Total, &o.Dishes, &o.SettledAt); err != nil {
			return nil, fmt.Errorf("scan settled order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (p *Postgres) SettledSummary(ctx context.Context, date string) (int, decimal.Decimal, error) {
	var count int
	var revenue decimal.Decimal
	if err := p.db.QueryRow(ctx, getSettledSummarySQL, date).Scan(&count, &revenue); err != nil {
		return 0, decimal.Zero, fmt.Errorf("settled summary for %s: %w", date, err)
	}
	return count, revenue, nil
}

func (p *Postgres) StaffByUsername(ctx context.Context, username string) (int, string, bool, error) {
	var id int
	var hash string
	err := p.db.QueryRow(ctx, getStaffByUsernameSQL, username).Scan(&id, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, "", false, nil
	}
	if err != nil {
		return 0, "", false, fmt.Errorf("read staff %q: %w", username, err)
	}
	return id, hash, true, nil
}

func (p *Postgres) InsertSession(ctx context.Context, token string, staffID int, expiresAt time.Time) error {
	if _, err := p.db.Exec(ctx, insertSessionSQL, token, staffID, expiresAt); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (p *Postgres) SessionExpiry(ctx context.Context, token string) (time.Time, bool, error) {
	var expires time.Time
	err := p.db.QueryRow(ctx, getSessionSQL, token).Scan(&expires)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read session: %w", err)
	}
	return expires, true, nil
}
