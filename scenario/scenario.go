// Package scenario holds the scripted demos, one per simulation. Each demo
// builds its entity, feeds it a fixed list of actions through the driver
// loop and reports every message through the reporter it is given.
package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/wfunc/turnsim/config"
	"github.com/wfunc/turnsim/rng"
	"github.com/wfunc/turnsim/state"
)

var ErrUnknownScenario = errors.New("unknown scenario")

// Env is what every demo runs against.
type Env struct {
	Out    state.Reporter
	Source rng.Source
	Config *config.Config
}

type Scenario struct {
	Name        string
	Description string
	Run         func(ctx context.Context, env Env) error
}

var scenarios = []Scenario{
	{"vending", "vending machine: insufficient funds, dispense, sell out, refill", Vending},
	{"atm", "cash dispenser chain: largest notes first, partial payout", ATM},
	{"splitwise", "hostel expenses: equal and exact splits, simplify, settle", Splitwise},
	{"payment", "payment gateways behind a retrying proxy", Payment},
	{"coupon", "festive cart through the coupon chain", Coupon},
	{"tictactoe", "two players, top row win", TicTacToe},
	{"snakeladder", "standard board, seeded dice", SnakeLadder},
	{"chess", "lobby pairing, chat and fool's mate", Chess},
	{"playlist", "sequential, random and queued playback", Playlist},
	{"delivery", "dark stores: nearest store, split order, replenishment", Delivery},
	{"singleton", "concurrent first access to every shared instance", Singletons},
}

// All returns the demos in presentation order.
func All() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

func Names() []string {
	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	return names
}

func Lookup(name string) (Scenario, error) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
}

// Run executes the named demo with a header line.
func Run(ctx context.Context, name string, env Env) error {
	s, err := Lookup(name)
	if err != nil {
		return err
	}
	env.Out.Report("=== %s: %s ===", s.Name, s.Description)
	return s.Run(ctx, env)
}
