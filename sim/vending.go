package sim

import (
	"encoding/json"

	"github.com/wfunc/turnsim/state"
	"github.com/wfunc/turnsim/vending"
)

// vendingSim shares one machine between every seated player; there are no
// turns.
type vendingSim struct {
	base
	machine *vending.Machine
}

func newVending(o Options) *vendingSim {
	b := newBase(Vending, o.Seats, o.Reporter)
	return &vendingSim{base: b, machine: vending.NewMachine(o.VendingItems, o.VendingPrice, b.reporter)}
}

func (v *vendingSim) Join(player string) error {
	_, err := v.seat(player)
	return err
}

func (v *vendingSim) Apply(player string, body json.RawMessage) (Result, error) {
	if err := v.requireJoined(player); err != nil {
		return Result{}, err
	}
	var a vending.Action
	if err := decode(body, &a); err != nil {
		return Result{}, err
	}
	v.rec.Drain()
	if err := v.machine.Step(a); err != nil {
		return Result{}, err
	}
	return v.result(player, v.machine.State(), false), nil
}

func (v *vendingSim) Snapshot() Snapshot {
	s := v.snapshot(v.machine.State(), false)
	s.Detail = map[string]any{
		"stock":   v.machine.Stock(),
		"price":   v.machine.Price(),
		"balance": v.machine.Balance(),
	}
	return s
}

func (v *vendingSim) Done() bool { return false }

func (v *vendingSim) Subscribe(o state.Observer) {
	v.machine.Subscribe(o)
}
