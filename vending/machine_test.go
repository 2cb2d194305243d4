package vending

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/turnsim/state"
)

func TestNewMachine_InitialState(t *testing.T) {
	assert.Equal(t, NoCoin, NewMachine(2, 20, nil).State())
	assert.Equal(t, SoldOut, NewMachine(0, 20, nil).State())
}

func TestMachine_WaterBottleScenario(t *testing.T) {
	rec := &state.Recorder{}
	m := NewMachine(2, 20, rec)

	out := m.SelectItem()
	assert.Equal(t, NoCoin, out.State)
	assert.Equal(t, "Please insert coin first!", out.Message)

	out = m.InsertCoin(10)
	assert.Equal(t, HasCoin, out.State)
	assert.Equal(t, 10, m.Balance())

	out = m.SelectItem()
	assert.Equal(t, HasCoin, out.State)
	assert.Equal(t, "Insufficient funds. Need Rs 10 more.", out.Message)

	out = m.InsertCoin(10)
	assert.Equal(t, HasCoin, out.State)
	assert.Equal(t, 20, m.Balance())

	out = m.SelectItem()
	assert.Equal(t, Dispensing, out.State)
	assert.Equal(t, 0, out.Change)
	assert.Equal(t, 0, m.Balance())

	out = m.Dispense()
	assert.Equal(t, NoCoin, out.State)
	assert.True(t, out.Dispensed)
	assert.Equal(t, 1, m.Stock())

	// Last unit.
	m.InsertCoin(20)
	m.SelectItem()
	out = m.Dispense()
	assert.Equal(t, SoldOut, out.State)
	assert.Equal(t, 0, m.Stock())

	out = m.InsertCoin(5)
	assert.Equal(t, SoldOut, out.State)
	assert.Equal(t, 5, out.Refund)

	out = m.Refill(2)
	assert.Equal(t, NoCoin, out.State)
	assert.Equal(t, 2, m.Stock())

	assert.Len(t, rec.Messages, 11)
}

func TestMachine_ChangeIsBalanceMinusPrice(t *testing.T) {
	m := NewMachine(3, 20, nil)
	m.InsertCoin(50)

	out := m.SelectItem()
	assert.Equal(t, Dispensing, out.State)
	assert.Equal(t, 30, out.Change)
	assert.Equal(t, 0, m.Balance())
}

func TestMachine_ReturnCoin(t *testing.T) {
	m := NewMachine(1, 20, nil)
	m.InsertCoin(10)
	m.InsertCoin(5)

	out := m.ReturnCoin()
	assert.Equal(t, NoCoin, out.State)
	assert.Equal(t, 15, out.Refund)
	assert.Equal(t, 0, m.Balance())
}

// driveTo puts a fresh machine (stock 2, price 20) into the named state.
func driveTo(t *testing.T, id string) *Machine {
	t.Helper()

	switch id {
	case NoCoin:
		return NewMachine(2, 20, nil)
	case HasCoin:
		m := NewMachine(2, 20, nil)
		m.InsertCoin(10)
		return m
	case Dispensing:
		m := NewMachine(2, 20, nil)
		m.InsertCoin(20)
		m.SelectItem()
		return m
	case SoldOut:
		return NewMachine(0, 20, nil)
	}
	t.Fatalf("unknown state %s", id)
	return nil
}

func TestMachine_InvalidActionsAreNoOps(t *testing.T) {
	invalid := map[string][]Action{
		NoCoin:     {{Kind: SelectItem}, {Kind: Dispense}, {Kind: ReturnCoin}},
		HasCoin:    {{Kind: Dispense}, {Kind: Refill, Amount: 3}},
		Dispensing: {{Kind: InsertCoin, Amount: 10}, {Kind: SelectItem}, {Kind: ReturnCoin}, {Kind: Refill, Amount: 3}},
		SoldOut:    {{Kind: InsertCoin, Amount: 10}, {Kind: SelectItem}, {Kind: Dispense}, {Kind: ReturnCoin}},
	}

	for id, actions := range invalid {
		for _, a := range actions {
			t.Run(id+"/"+string(a.Kind), func(t *testing.T) {
				m := driveTo(t, id)
				stock, balance := m.Stock(), m.Balance()

				var seen []state.Transition
				m.Subscribe(state.ObserverFunc(func(tr state.Transition) { seen = append(seen, tr) }))

				require.NoError(t, m.Step(a))
				assert.Equal(t, id, m.State())
				assert.Equal(t, stock, m.Stock())
				assert.Equal(t, balance, m.Balance())
				require.Len(t, seen, 1)
				assert.True(t, seen[0].Stayed())
				assert.NotEmpty(t, m.LastOutcome().Message)
			})
		}
	}
}

func TestMachine_RefillFromNoCoinStays(t *testing.T) {
	m := NewMachine(1, 20, nil)
	out := m.Refill(4)
	assert.Equal(t, NoCoin, out.State)
	assert.Equal(t, 5, m.Stock())
}

func TestMachine_NonPositiveRefillIsNoOp(t *testing.T) {
	m := NewMachine(0, 20, nil)

	out := m.Refill(0)
	assert.Equal(t, SoldOut, out.State)
	assert.Equal(t, "Refill quantity must be positive", out.Message)
	assert.Zero(t, m.Stock())

	out = m.InsertCoin(20)
	assert.Equal(t, SoldOut, out.State)
	assert.Equal(t, 20, out.Refund)
	m.SelectItem()
	m.Dispense()
	assert.Zero(t, m.Stock())

	m = NewMachine(1, 20, nil)
	out = m.Refill(-3)
	assert.Equal(t, NoCoin, out.State)
	assert.Equal(t, 1, m.Stock())
}

func TestMachine_Step(t *testing.T) {
	m := NewMachine(1, 20, nil)

	require.ErrorIs(t, m.Step(Action{Kind: "shake"}), ErrUnknownAction)
	require.ErrorIs(t, m.Step(Action{Kind: InsertCoin}), ErrInvalidAmount)
	require.ErrorIs(t, m.Step(Action{Kind: Refill, Amount: -1}), ErrInvalidAmount)

	steps, err := state.Drive(t.Context(), m, state.NewScript(
		Action{Kind: InsertCoin, Amount: 20},
		Action{Kind: SelectItem},
		Action{Kind: Dispense},
	))
	require.NoError(t, err)
	assert.Equal(t, 3, steps)
	assert.Equal(t, SoldOut, m.State())
	assert.False(t, m.Done())
}
