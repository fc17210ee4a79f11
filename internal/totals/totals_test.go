package totals

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/srithedesigner/bunniesBurger/internal/common/logger"
	"github.com/srithedesigner/bunniesBurger/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute(t *testing.T) {
	lines := []domain.BillLine{
		{DishID: 1, Quantity: 2, Price: d("100")},
		{DishID: 2, Quantity: 1, Price: d("50")},
	}

	got := Compute(lines, d("0.10"))

	if !got.Subtotal.Equal(d("250")) {
		t.Errorf("Subtotal = %s, want 250", got.Subtotal)
	}
	if !got.Tax.Equal(d("25")) {
		t.Errorf("Tax = %s, want 25", got.Tax)
	}
	if !got.Total.Equal(d("275")) {
		t.Errorf("Total = %s, want 275", got.Total)
	}
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(nil, d("0.10"))
	if !got.Total.IsZero() || !got.Subtotal.IsZero() || !got.Tax.IsZero() {
		t.Errorf("Compute(nil) = %+v, want all zero", got)
	}
}

func TestComputeFractionalPrices(t *testing.T) {
	lines := []domain.BillLine{{DishID: 1, Quantity: 3, Price: d("9.99")}}
	got := Compute(lines, d("0.10"))
	if !got.Subtotal.Equal(d("29.97")) {
		t.Errorf("Subtotal = %s, want 29.97", got.Subtotal)
	}
	if !got.Total.Equal(d("32.967")) {
		t.Errorf("Total = %s, want 32.967", got.Total)
	}
}

type totalsRecorder struct {
	deltas map[int]decimal.Decimal
	err    error
}

func (r *totalsRecorder) AddToTableTotal(_ context.Context, tableID int, delta decimal.Decimal) error {
	if r.err != nil {
		return r.err
	}
	if r.deltas == nil {
		r.deltas = make(map[int]decimal.Decimal)
	}
	r.deltas[tableID] = r.deltas[tableID].Add(delta)
	return nil
}

func TestAccumulatorApply(t *testing.T) {
	rec := &totalsRecorder{}
	acc := NewAccumulator(rec, logger.New("test"))

	acc.Apply(context.Background(), 1, d("100"))
	acc.Apply(context.Background(), 1, d("-25.50"))

	if got := rec.deltas[1]; !got.Equal(d("74.50")) {
		t.Errorf("accumulated delta = %s, want 74.50", got)
	}
}

func TestAccumulatorApplyFailureDoesNotPanic(t *testing.T) {
	rec := &totalsRecorder{err: errors.New("store down")}
	acc := NewAccumulator(rec, logger.New("test"))
	acc.Apply(context.Background(), 1, d("10")) // logged, swallowed
}
