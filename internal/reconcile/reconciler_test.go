package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/srithedesigner/bunniesBurger/internal/catalog"
	"github.com/srithedesigner/bunniesBurger/internal/common/logger"
	"github.com/srithedesigner/bunniesBurger/internal/domain"
	"github.com/srithedesigner/bunniesBurger/internal/ledger"
	"github.com/srithedesigner/bunniesBurger/internal/registry"
)

type fakeFetcher struct {
	categories []domain.Category
	dishes     []domain.Dish
	tables     []domain.Table
	lines      []domain.Line
	err        error
	fetches    map[domain.Stream]int
}

func (f *fakeFetcher) count(s domain.Stream) {
	if f.fetches == nil {
		f.fetches = make(map[domain.Stream]int)
	}
	f.fetches[s]++
}

func (f *fakeFetcher) Categories(context.Context) ([]domain.Category, error) {
	f.count(domain.StreamCategories)
	return f.categories, f.err
}

func (f *fakeFetcher) Dishes(context.Context) ([]domain.Dish, error) {
	f.count(domain.StreamDishes)
	return f.dishes, f.err
}

func (f *fakeFetcher) Tables(context.Context) ([]domain.Table, error) {
	f.count(domain.StreamTables)
	return f.tables, f.err
}

func (f *fakeFetcher) OrderLines(context.Context) ([]domain.Line, error) {
	f.count(domain.StreamLines)
	return f.lines, f.err
}

func newUnderTest(f *fakeFetcher) (*Reconciler, *catalog.Catalog, *registry.Registry, *ledger.Ledger) {
	c := catalog.New()
	r := registry.New()
	l := ledger.New()
	return New(f, c, r, l, logger.New("test")), c, r, l
}

func TestBootstrapFetchesAllStreams(t *testing.T) {
	f := &fakeFetcher{
		categories: []domain.Category{{ID: 1, Name: "Burgers"}},
		dishes:     []domain.Dish{{ID: 1, Name: "Classic", Price: decimal.NewFromInt(100), Category: "Burgers"}},
		tables:     []domain.Table{{ID: 1, Name: "table 1"}},
		lines:      []domain.Line{{TableID: 1, DishID: 1, Quantity: 2, Version: 3}},
	}
	rec, c, reg, led := newUnderTest(f)

	if err := rec.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	for _, s := range []domain.Stream{domain.StreamCategories, domain.StreamDishes, domain.StreamTables, domain.StreamLines} {
		if f.fetches[s] != 1 {
			t.Errorf("stream %s fetched %d times, want 1", s, f.fetches[s])
		}
	}
	if _, ok := c.Dish(1); !ok {
		t.Error("dish missing after bootstrap")
	}
	if _, ok := reg.Get(1); !ok {
		t.Error("table missing after bootstrap")
	}
	if got := led.Quantity(1, 1); got != 2 {
		t.Errorf("line quantity after bootstrap = %d, want 2", got)
	}
}

func TestBootstrapFailure(t *testing.T) {
	f := &fakeFetcher{err: errors.New("store down")}
	rec, _, _, _ := newUnderTest(f)
	if err := rec.Bootstrap(context.Background()); err == nil {
		t.Fatal("Bootstrap succeeded against a failing store")
	}
}

func TestRefreshTargetsSingleStream(t *testing.T) {
	f := &fakeFetcher{tables: []domain.Table{{ID: 2, Name: "table 2"}}}
	rec, _, reg, _ := newUnderTest(f)

	if err := rec.Refresh(context.Background(), domain.StreamTables); err != nil {
		t.Fatalf("Refresh(tables): %v", err)
	}
	if f.fetches[domain.StreamDishes] != 0 || f.fetches[domain.StreamLines] != 0 {
		t.Error("refreshing tables touched other streams")
	}
	if _, ok := reg.Get(2); !ok {
		t.Error("table snapshot not applied")
	}
}

func TestRefreshIdempotent(t *testing.T) {
	f := &fakeFetcher{lines: []domain.Line{{TableID: 1, DishID: 4, Quantity: 3, Version: 5}}}
	rec, _, _, led := newUnderTest(f)

	ctx := context.Background()
	if err := rec.Refresh(ctx, domain.StreamLines); err != nil {
		t.Fatal(err)
	}
	if err := rec.Refresh(ctx, domain.StreamLines); err != nil {
		t.Fatal(err)
	}
	if got := led.Quantity(1, 4); got != 3 {
		t.Errorf("quantity after double refresh = %d, want 3", got)
	}
	if lines := led.Lines(1); len(lines) != 1 {
		t.Errorf("double refresh duplicated lines: %v", lines)
	}
}

func TestRunConsumesEvents(t *testing.T) {
	f := &fakeFetcher{dishes: []domain.Dish{{ID: 7, Name: "Shake", Category: "Drinks"}}}
	rec, c, _, _ := newUnderTest(f)

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan domain.ChangeEvent, 1)
	done := make(chan struct{})
	go func() {
		rec.Run(ctx, events)
		close(done)
	}()

	events <- domain.ChangeEvent{Stream: domain.StreamDishes, Kind: domain.EventInsert}

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := c.Dish(7); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("event was not applied in time")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done
}
