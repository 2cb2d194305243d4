package vending

import "fmt"

type ActionKind string

const (
	InsertCoin ActionKind = "insert_coin"
	SelectItem ActionKind = "select_item"
	Dispense   ActionKind = "dispense"
	ReturnCoin ActionKind = "return_coin"
	Refill     ActionKind = "refill"
)

// Action is one driver-loop input. Amount is the coin value for
// insert_coin and the quantity for refill.
type Action struct {
	Kind   ActionKind `json:"type"`
	Amount int        `json:"amount,omitempty"`
}

// Step applies one action. It only fails on malformed input; every
// well-formed action is handled by the current state.
func (m *Machine) Step(a Action) error {
	switch a.Kind {
	case InsertCoin, Refill:
		if a.Amount <= 0 {
			return fmt.Errorf("%s: %w", a.Kind, ErrInvalidAmount)
		}
	}

	switch a.Kind {
	case InsertCoin:
		m.InsertCoin(a.Amount)
	case SelectItem:
		m.SelectItem()
	case Dispense:
		m.Dispense()
	case ReturnCoin:
		m.ReturnCoin()
	case Refill:
		m.Refill(a.Amount)
	default:
		return fmt.Errorf("%q: %w", a.Kind, ErrUnknownAction)
	}
	return nil
}

// Done is always false: SOLD_OUT recovers through refill.
func (m *Machine) Done() bool {
	return false
}
