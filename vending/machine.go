// Package vending is the state-pattern vending machine: four pre-allocated
// states, each handling every action and returning the next state.
package vending

import (
	"errors"
	"fmt"

	"github.com/wfunc/turnsim/state"
)

var (
	ErrUnknownAction = errors.New("unknown vending action")
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Outcome is what one action produced. Wrong-state actions are outcomes
// with only a Message set.
type Outcome struct {
	State     string `json:"state"`
	Message   string `json:"message"`
	Change    int    `json:"change,omitempty"`
	Refund    int    `json:"refund,omitempty"`
	Dispensed bool   `json:"dispensed,omitempty"`
}

// Machine is the entity. It owns the stock, the price and the inserted
// balance, and exactly one current state.
type Machine struct {
	fsm *state.BaseStateMachine

	noCoin     VendingState
	hasCoin    VendingState
	dispensing VendingState
	soldOut    VendingState

	stock    int
	price    int
	balance  int
	reporter state.Reporter
	last     Outcome
}

// NewMachine starts in NO_COIN when there is stock, SOLD_OUT otherwise.
func NewMachine(items, price int, reporter state.Reporter) *Machine {
	if reporter == nil {
		reporter = state.Discard
	}

	m := &Machine{
		noCoin:     &noCoinState{state.Base{ID: NoCoin}},
		hasCoin:    &hasCoinState{state.Base{ID: HasCoin}},
		dispensing: &dispensingState{state.Base{ID: Dispensing}},
		soldOut:    &soldOutState{state.Base{ID: SoldOut}},
		stock:      items,
		price:      price,
		reporter:   reporter,
	}

	initial := m.noCoin
	if items <= 0 {
		initial = m.soldOut
	}
	m.fsm = state.NewBaseStateMachine("vending", initial)
	return m
}

func (m *Machine) current() VendingState {
	return m.fsm.GetCurrentState().(VendingState)
}

func (m *Machine) apply(action string, handle func(VendingState) (VendingState, Outcome)) Outcome {
	next, out := handle(m.current())
	// No guards are registered on this machine, so Fire cannot refuse.
	_ = m.fsm.Fire(action, next)

	out.State = next.GetID()
	m.last = out
	m.reporter.Report("%s", out.Message)
	return out
}

func (m *Machine) InsertCoin(coin int) Outcome {
	return m.apply(string(InsertCoin), func(s VendingState) (VendingState, Outcome) {
		return s.InsertCoin(m, coin)
	})
}

func (m *Machine) SelectItem() Outcome {
	return m.apply(string(SelectItem), func(s VendingState) (VendingState, Outcome) {
		return s.SelectItem(m)
	})
}

func (m *Machine) Dispense() Outcome {
	return m.apply(string(Dispense), func(s VendingState) (VendingState, Outcome) {
		return s.Dispense(m)
	})
}

func (m *Machine) ReturnCoin() Outcome {
	return m.apply(string(ReturnCoin), func(s VendingState) (VendingState, Outcome) {
		return s.ReturnCoin(m)
	})
}

func (m *Machine) Refill(quantity int) Outcome {
	return m.apply(string(Refill), func(s VendingState) (VendingState, Outcome) {
		return s.Refill(m, quantity)
	})
}

// Subscribe forwards transitions to an observer (metrics, logs).
func (m *Machine) Subscribe(o state.Observer) {
	m.fsm.Subscribe(o)
}

func (m *Machine) State() string { return m.current().GetID() }
func (m *Machine) Stock() int    { return m.stock }
func (m *Machine) Price() int    { return m.price }
func (m *Machine) Balance() int  { return m.balance }

// LastOutcome is the result of the most recent action.
func (m *Machine) LastOutcome() Outcome { return m.last }

// Status is a one-line summary of the machine.
func (m *Machine) Status() string {
	return fmt.Sprintf("items=%d balance=Rs %d state=%s", m.stock, m.balance, m.State())
}
