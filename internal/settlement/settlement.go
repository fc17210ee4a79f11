// Package settlement models one table's checkout as a small state
// machine. Instances are transient: created when the checkout opens and
// discarded on completion or dismissal, never persisted. Closing a
// settlement never touches the ledger; table closeout is a separate
// action.
package settlement

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodNone Method = ""
	MethodUPI  Method = "upi"
	MethodCash Method = "cash"
)

type State string

const (
	// StateIdle: checkout open, no payment method chosen yet.
	StateIdle State = "idle"
	// StateUPIPending: UPI chosen, waiting for the transaction outcome.
	StateUPIPending State = "upi_pending"
	// StateAmountEntered: cash chosen, tendered amount being entered.
	StateAmountEntered State = "amount_entered"
	// StateChangeComputed: sufficient cash tendered, change owed.
	StateChangeComputed State = "change_computed"
	// StateCompleted: terminal, UPI transaction confirmed.
	StateCompleted State = "completed"
	// StateClosed: terminal, cash change acknowledged.
	StateClosed State = "closed"
)

var (
	ErrInsufficientCash = errors.New("tendered cash below total")
	ErrBadTransition    = errors.New("transition not allowed in current state")
	ErrUnknownMethod    = errors.New("unknown payment method")
)

type Settlement struct {
	total    decimal.Decimal
	state    State
	method   Method
	tendered decimal.Decimal
	change   decimal.Decimal
}

// New starts a settlement in Idle for the given computed total.
func New(total decimal.Decimal) *Settlement {
	return &Settlement{total: total, state: StateIdle}
}

func (s *Settlement) State() State            { return s.state }
func (s *Settlement) Method() Method          { return s.method }
func (s *Settlement) Total() decimal.Decimal  { return s.total }
func (s *Settlement) Change() decimal.Decimal { return s.change }

// Finished reports a terminal state.
func (s *Settlement) Finished() bool {
	return s.state == StateCompleted || s.state == StateClosed
}

// ChooseMethod leaves Idle. UPI goes straight to awaiting the transaction
// outcome, cash to amount entry.
func (s *Settlement) ChooseMethod(m Method) error {
	if s.state != StateIdle {
		return fmt.Errorf("choose method in %s: %w", s.state, ErrBadTransition)
	}
	switch m {
	case MethodUPI:
		s.method = m
		s.state = StateUPIPending
	case MethodCash:
		s.method = m
		s.state = StateAmountEntered
	default:
		return fmt.Errorf("%q: %w", m, ErrUnknownMethod)
	}
	return nil
}

// ResolveUPI finishes the UPI branch. Success is terminal; failure resets
// the method and returns to Idle so another method can be chosen.
func (s *Settlement) ResolveUPI(success bool) error {
	if s.state != StateUPIPending {
		return fmt.Errorf("resolve upi in %s: %w", s.state, ErrBadTransition)
	}
	if success {
		s.state = StateCompleted
		s.reset()
		return nil
	}
	s.method = MethodNone
	s.state = StateIdle
	return nil
}

// EnterCash validates the tendered amount. Sufficient cash computes the
// change; insufficient cash reports the validation error and stays in
// AmountEntered with no retry limit.
func (s *Settlement) EnterCash(tendered decimal.Decimal) error {
	if s.state != StateAmountEntered {
		return fmt.Errorf("enter cash in %s: %w", s.state, ErrBadTransition)
	}
	if tendered.LessThan(s.total) {
		return ErrInsufficientCash
	}
	s.tendered = tendered
	s.change = tendered.Sub(s.total)
	s.state = StateChangeComputed
	return nil
}

// Acknowledge closes the cash branch after the change has been shown.
func (s *Settlement) Acknowledge() error {
	if s.state != StateChangeComputed {
		return fmt.Errorf("acknowledge in %s: %w", s.state, ErrBadTransition)
	}
	change := s.change
	s.state = StateClosed
	s.reset()
	s.change = change // still displayed on the closing notice
	return nil
}

// reset clears transaction-local fields; terminal states end this way.
func (s *Settlement) reset() {
	s.method = MethodNone
	s.tendered = decimal.Zero
	s.change = decimal.Zero
}
