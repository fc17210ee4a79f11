// Package reconcile converges local terminal state with the store. Change
// events name the stream that moved; the reconciler refetches that
// stream's snapshot and folds it into the local collections. Order lines
// merge by version, the other streams are replaced wholesale.
package reconcile

import (
	"context"
	"fmt"

	"github.com/srithedesigner/bunniesBurger/internal/catalog"
	"github.com/srithedesigner/bunniesBurger/internal/common/logger"
	"github.com/srithedesigner/bunniesBurger/internal/domain"
	"github.com/srithedesigner/bunniesBurger/internal/ledger"
	"github.com/srithedesigner/bunniesBurger/internal/registry"
	"github.com/srithedesigner/bunniesBurger/internal/store"
)

type Reconciler struct {
	store    store.Fetcher
	catalog  *catalog.Catalog
	registry *registry.Registry
	ledger   *ledger.Ledger
	log      *logger.Logger
}

func New(f store.Fetcher, c *catalog.Catalog, r *registry.Registry, l *ledger.Ledger, log *logger.Logger) *Reconciler {
	return &Reconciler{store: f, catalog: c, registry: r, ledger: l, log: log}
}

// Bootstrap fetches all four streams once. The service is not ready for
// interaction until this succeeds.
func (r *Reconciler) Bootstrap(ctx context.Context) error {
	for _, stream := range []domain.Stream{
		domain.StreamCategories, domain.StreamDishes, domain.StreamTables, domain.StreamLines,
	} {
		if err := r.Refresh(ctx, stream); err != nil {
			return fmt.Errorf("bootstrap %s: %w", stream, err)
		}
	}
	r.log.Info("bootstrap_complete", nil)
	return nil
}

// Run consumes change events until the context ends. A failed refresh is
// logged and not retried; the next event for that stream heals it.
func (r *Reconciler) Run(ctx context.Context, events <-chan domain.ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				r.log.Info("change_stream_closed", nil)
				return
			}
			if err := r.Refresh(ctx, ev.Stream); err != nil {
				r.log.Error("refresh_failed", err, map[string]any{
					"stream": string(ev.Stream),
					"kind":   string(ev.Kind),
					"origin": ev.Origin,
				})
				continue
			}
			r.log.Debug("refreshed", map[string]any{
				"stream": string(ev.Stream),
				"kind":   string(ev.Kind),
				"origin": ev.Origin,
			})
		}
	}
}

// Refresh refetches one stream's snapshot and applies it.
func (r *Reconciler) Refresh(ctx context.Context, stream domain.Stream) error {
	switch stream {
	case domain.StreamCategories:
		categories, err := r.store.Categories(ctx)
		if err != nil {
			return err
		}
		r.catalog.ReplaceCategories(categories)
	case domain.StreamDishes:
		dishes, err := r.store.Dishes(ctx)
		if err != nil {
			return err
		}
		r.catalog.ReplaceDishes(dishes)
	case domain.StreamTables:
		tables, err := r.store.Tables(ctx)
		if err != nil {
			return err
		}
		r.registry.Replace(tables)
	case domain.StreamLines:
		lines, err := r.store.OrderLines(ctx)
		if err != nil {
			return err
		}
		r.ledger.ApplySnapshot(lines)
	default:
		return fmt.Errorf("unknown stream %q", stream)
	}
	return nil
}
