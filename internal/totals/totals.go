// Package totals derives monetary totals from ledger slices and keeps the
// persisted per-table running total in step with ledger mutations.
package totals

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/srithedesigner/bunniesBurger/internal/common/logger"
	"github.com/srithedesigner/bunniesBurger/internal/domain"
)

// Compute derives subtotal, tax and total from a priced ledger slice.
// Pure function, no side effects.
func Compute(lines []domain.BillLine, taxRate decimal.Decimal) domain.Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	tax := subtotal.Mul(taxRate)
	return domain.Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// TableTotals is the store capability the accumulator needs: a single
// atomic in-store increment, so concurrent terminals cannot lose updates.
type TableTotals interface {
	AddToTableTotal(ctx context.Context, tableID int, delta decimal.Decimal) error
}

// Accumulator applies single-dish price deltas to the persisted running
// total after every ledger mutation.
type Accumulator struct {
	store TableTotals
	log   *logger.Logger
}

func NewAccumulator(store TableTotals, log *logger.Logger) *Accumulator {
	return &Accumulator{store: store, log: log}
}

// Apply adds delta to the table's stored total. Failures are logged and
// not retried; the stored total converges through reconciliation.
func (a *Accumulator) Apply(ctx context.Context, tableID int, delta decimal.Decimal) {
	if err := a.store.AddToTableTotal(ctx, tableID, delta); err != nil {
		a.log.Error("running_total_update_failed", err, map[string]any{
			"table_id": tableID,
			"delta":    delta.String(),
		})
	}
}
