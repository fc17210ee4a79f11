package settlement

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCashHappyPath(t *testing.T) {
	s := New(d("275"))

	if err := s.ChooseMethod(MethodCash); err != nil {
		t.Fatalf("ChooseMethod(cash): %v", err)
	}
	if s.State() != StateAmountEntered {
		t.Fatalf("state after choosing cash = %s", s.State())
	}

	if err := s.EnterCash(d("300")); err != nil {
		t.Fatalf("EnterCash(300): %v", err)
	}
	if s.State() != StateChangeComputed {
		t.Fatalf("state after sufficient cash = %s", s.State())
	}
	if !s.Change().Equal(d("25")) {
		t.Errorf("change = %s, want 25", s.Change())
	}

	if err := s.Acknowledge(); err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}
	if s.State() != StateClosed || !s.Finished() {
		t.Errorf("state after acknowledge = %s, finished = %v", s.State(), s.Finished())
	}
	if s.Method() != MethodNone {
		t.Errorf("method not reset on close: %q", s.Method())
	}
}

func TestCashInsufficient(t *testing.T) {
	s := New(d("275"))
	_ = s.ChooseMethod(MethodCash)

	err := s.EnterCash(d("200"))
	if !errors.Is(err, ErrInsufficientCash) {
		t.Fatalf("EnterCash(200) error = %v, want ErrInsufficientCash", err)
	}
	if s.State() != StateAmountEntered {
		t.Errorf("state after insufficient cash = %s, want amount_entered", s.State())
	}

	// no retry limit
	if err := s.EnterCash(d("100")); !errors.Is(err, ErrInsufficientCash) {
		t.Fatalf("second attempt error = %v", err)
	}
	if err := s.EnterCash(d("275")); err != nil {
		t.Fatalf("exact tender rejected: %v", err)
	}
	if !s.Change().IsZero() {
		t.Errorf("change for exact tender = %s, want 0", s.Change())
	}
}

func TestUPISuccess(t *testing.T) {
	s := New(d("100"))
	_ = s.ChooseMethod(MethodUPI)
	if s.State() != StateUPIPending {
		t.Fatalf("state after choosing upi = %s", s.State())
	}

	if err := s.ResolveUPI(true); err != nil {
		t.Fatalf("ResolveUPI(true): %v", err)
	}
	if s.State() != StateCompleted || !s.Finished() {
		t.Errorf("state = %s, finished = %v", s.State(), s.Finished())
	}
	if s.Method() != MethodNone {
		t.Errorf("method not cleared on completion: %q", s.Method())
	}
}

func TestUPIFailureReturnsToIdle(t *testing.T) {
	s := New(d("100"))
	_ = s.ChooseMethod(MethodUPI)

	if err := s.ResolveUPI(false); err != nil {
		t.Fatalf("ResolveUPI(false): %v", err)
	}
	if s.State() != StateIdle || s.Method() != MethodNone {
		t.Fatalf("failed UPI should reset to idle, got state=%s method=%q", s.State(), s.Method())
	}

	// another method can be chosen afterwards
	if err := s.ChooseMethod(MethodCash); err != nil {
		t.Fatalf("ChooseMethod after UPI failure: %v", err)
	}
}

func TestBadTransitions(t *testing.T) {
	s := New(d("50"))

	if err := s.EnterCash(d("60")); !errors.Is(err, ErrBadTransition) {
		t.Errorf("EnterCash from idle error = %v", err)
	}
	if err := s.ResolveUPI(true); !errors.Is(err, ErrBadTransition) {
		t.Errorf("ResolveUPI from idle error = %v", err)
	}
	if err := s.Acknowledge(); !errors.Is(err, ErrBadTransition) {
		t.Errorf("Acknowledge from idle error = %v", err)
	}
	if err := s.ChooseMethod("card"); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("ChooseMethod(card) error = %v", err)
	}

	_ = s.ChooseMethod(MethodCash)
	if err := s.ChooseMethod(MethodUPI); !errors.Is(err, ErrBadTransition) {
		t.Errorf("re-choosing method error = %v", err)
	}
}
