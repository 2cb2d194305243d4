package vending

import (
	"fmt"

	"github.com/wfunc/turnsim/state"
)

// State IDs, as printed in status lines.
const (
	NoCoin     = "NO_COIN"
	HasCoin    = "HAS_COIN"
	Dispensing = "DISPENSING"
	SoldOut    = "SOLD_OUT"
)

// VendingState handles every machine action. An action that makes no sense
// in a state returns that same state with an explanatory message.
type VendingState interface {
	state.State
	InsertCoin(m *Machine, coin int) (VendingState, Outcome)
	SelectItem(m *Machine) (VendingState, Outcome)
	Dispense(m *Machine) (VendingState, Outcome)
	ReturnCoin(m *Machine) (VendingState, Outcome)
	Refill(m *Machine, quantity int) (VendingState, Outcome)
}

type noCoinState struct{ state.Base }

func (s *noCoinState) InsertCoin(m *Machine, coin int) (VendingState, Outcome) {
	m.balance = coin
	return m.hasCoin, say("Coin inserted. Current balance: Rs %d", coin)
}

func (s *noCoinState) SelectItem(m *Machine) (VendingState, Outcome) {
	return s, say("Please insert coin first!")
}

func (s *noCoinState) Dispense(m *Machine) (VendingState, Outcome) {
	return s, say("Please insert coin and select item first!")
}

func (s *noCoinState) ReturnCoin(m *Machine) (VendingState, Outcome) {
	return s, say("No coin to return!")
}

func (s *noCoinState) Refill(m *Machine, quantity int) (VendingState, Outcome) {
	if quantity <= 0 {
		return s, say("Refill quantity must be positive")
	}
	m.stock += quantity
	return s, say("Items refilling")
}

type hasCoinState struct{ state.Base }

func (s *hasCoinState) InsertCoin(m *Machine, coin int) (VendingState, Outcome) {
	m.balance += coin
	return s, say("Additional coin inserted. Current balance: Rs %d", m.balance)
}

func (s *hasCoinState) SelectItem(m *Machine) (VendingState, Outcome) {
	if m.balance < m.price {
		return s, say("Insufficient funds. Need Rs %d more.", m.price-m.balance)
	}

	change := m.balance - m.price
	m.balance = 0

	out := say("Item selected. Dispensing...")
	if change > 0 {
		out.Message += fmt.Sprintf(" Change returned: Rs %d", change)
	}
	out.Change = change
	return m.dispensing, out
}

func (s *hasCoinState) Dispense(m *Machine) (VendingState, Outcome) {
	return s, say("Please select an item first!")
}

func (s *hasCoinState) ReturnCoin(m *Machine) (VendingState, Outcome) {
	refund := m.balance
	m.balance = 0
	out := say("Coin returned: Rs %d", refund)
	out.Refund = refund
	return m.noCoin, out
}

func (s *hasCoinState) Refill(m *Machine, quantity int) (VendingState, Outcome) {
	return s, say("Can't refill in this state")
}

type dispensingState struct{ state.Base }

func (s *dispensingState) InsertCoin(m *Machine, coin int) (VendingState, Outcome) {
	out := say("Please wait, already dispensing item. Coin returned: Rs %d", coin)
	out.Refund = coin
	return s, out
}

func (s *dispensingState) SelectItem(m *Machine) (VendingState, Outcome) {
	return s, say("Already dispensing item. Please wait.")
}

func (s *dispensingState) Dispense(m *Machine) (VendingState, Outcome) {
	m.stock--

	out := say("Item dispensed!")
	out.Dispensed = true
	if m.stock > 0 {
		return m.noCoin, out
	}
	out.Message += " Machine is now sold out!"
	return m.soldOut, out
}

func (s *dispensingState) ReturnCoin(m *Machine) (VendingState, Outcome) {
	return s, say("Cannot return coin while dispensing item!")
}

func (s *dispensingState) Refill(m *Machine, quantity int) (VendingState, Outcome) {
	return s, say("Can't refill in this state")
}

type soldOutState struct{ state.Base }

func (s *soldOutState) InsertCoin(m *Machine, coin int) (VendingState, Outcome) {
	out := say("Machine is sold out. Coin returned: Rs %d", coin)
	out.Refund = coin
	return s, out
}

func (s *soldOutState) SelectItem(m *Machine) (VendingState, Outcome) {
	return s, say("Machine is sold out!")
}

func (s *soldOutState) Dispense(m *Machine) (VendingState, Outcome) {
	return s, say("Machine is sold out!")
}

func (s *soldOutState) ReturnCoin(m *Machine) (VendingState, Outcome) {
	return s, say("Machine is sold out. No coin inserted.")
}

func (s *soldOutState) Refill(m *Machine, quantity int) (VendingState, Outcome) {
	if quantity <= 0 {
		return s, say("Refill quantity must be positive")
	}
	m.stock += quantity
	return m.noCoin, say("Items refilling")
}

func say(format string, args ...any) Outcome {
	return Outcome{Message: fmt.Sprintf(format, args...)}
}
