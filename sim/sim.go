// Package sim exposes the turn-based simulations to the network layer.
// Each adapter decodes JSON actions for one simulation kind, enforces whose
// turn it is, and reports the messages an action produced.
package sim

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/wfunc/turnsim/rng"
	"github.com/wfunc/turnsim/state"
)

type Kind string

const (
	Vending     Kind = "vending"
	TicTacToe   Kind = "tictactoe"
	SnakeLadder Kind = "snakeladder"
	Chess       Kind = "chess"
)

// Kinds lists every kind New accepts.
func Kinds() []Kind {
	return []Kind{Vending, TicTacToe, SnakeLadder, Chess}
}

var (
	ErrUnknownKind = errors.New("unknown simulation kind")
	ErrFull        = errors.New("no free seat")
	ErrNotJoined   = errors.New("player has not joined")
	ErrNotStarted  = errors.New("waiting for more players")
	ErrStarted     = errors.New("game already started")
	ErrNotYourTurn = errors.New("not your turn")
	ErrBadAction   = errors.New("malformed action")
)

// Result is what one action produced.
type Result struct {
	Player   string   `json:"player"`
	Messages []string `json:"messages"`
	State    string   `json:"state"`
	Done     bool     `json:"done"`
}

// Snapshot is a read-only view of a simulation for clients that join late
// or ask for a refresh.
type Snapshot struct {
	Kind    Kind           `json:"kind"`
	State   string         `json:"state"`
	Done    bool           `json:"done"`
	Players []string       `json:"players"`
	Turn    string         `json:"turn,omitempty"`
	Board   []string       `json:"board,omitempty"`
	Detail  map[string]any `json:"detail,omitempty"`
}

// Sim is one hosted simulation. Implementations are not safe for
// concurrent use; a room calls them from a single goroutine.
type Sim interface {
	Kind() Kind
	MaxPlayers() int
	// Join seats player. Joining again under the same name is a rejoin and
	// keeps the seat.
	Join(player string) error
	Apply(player string, body json.RawMessage) (Result, error)
	Snapshot() Snapshot
	Done() bool
	Subscribe(o state.Observer)
}

type Options struct {
	Source       rng.Source
	Reporter     state.Reporter
	VendingItems int
	VendingPrice int
	// Seats bounds the players who may share a vending machine.
	Seats int
	// BoardSize is the tic-tac-toe board side.
	BoardSize int
	// Difficulty selects a random snake-and-ladder layout; empty means the
	// standard board.
	Difficulty string
	BoardSide  int
	// Layout, when set, is a YAML snake-and-ladder board and wins over
	// Difficulty.
	Layout []byte
}

func (o Options) withDefaults() Options {
	if o.Source == nil {
		o.Source = rng.New(0)
	}
	if o.VendingItems == 0 {
		o.VendingItems = 2
	}
	if o.VendingPrice == 0 {
		o.VendingPrice = 20
	}
	if o.Seats == 0 {
		o.Seats = 4
	}
	if o.BoardSize == 0 {
		o.BoardSize = 3
	}
	if o.BoardSide == 0 {
		o.BoardSide = 10
	}
	return o
}

// New builds the adapter for kind.
func New(kind Kind, opts Options) (Sim, error) {
	opts = opts.withDefaults()
	switch kind {
	case Vending:
		return newVending(opts), nil
	case TicTacToe:
		return newTicTacToe(opts)
	case SnakeLadder:
		return newSnakeLadder(opts)
	case Chess:
		return newChess(opts), nil
	}
	return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
}

// base holds what every adapter shares: the seated players, the message
// buffer and observers waiting for an entity to exist.
type base struct {
	kind      Kind
	seats     int
	players   []string
	rec       *state.Recorder
	reporter  state.Reporter
	observers []state.Observer
}

func newBase(kind Kind, seats int, extra state.Reporter) base {
	rec := &state.Recorder{}
	return base{kind: kind, seats: seats, rec: rec, reporter: state.Tee(rec, extra)}
}

func (b *base) Kind() Kind      { return b.kind }
func (b *base) MaxPlayers() int { return b.seats }

func (b *base) joined(player string) bool {
	return slices.Contains(b.players, player)
}

// seat adds player and reports whether it is a new seat.
func (b *base) seat(player string) (bool, error) {
	if b.joined(player) {
		return false, nil
	}
	if len(b.players) >= b.seats {
		return false, ErrFull
	}
	b.players = append(b.players, player)
	return true, nil
}

func (b *base) requireJoined(player string) error {
	if !b.joined(player) {
		return fmt.Errorf("%s: %w", player, ErrNotJoined)
	}
	return nil
}

func (b *base) result(player, st string, done bool) Result {
	return Result{Player: player, Messages: b.rec.Drain(), State: st, Done: done}
}

func (b *base) snapshot(st string, done bool) Snapshot {
	return Snapshot{Kind: b.kind, State: st, Done: done, Players: slices.Clone(b.players)}
}

func decode(body json.RawMessage, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadAction, err)
	}
	return nil
}
