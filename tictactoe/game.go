// Package tictactoe plays N×N tic-tac-toe between a rotating queue of players.
package tictactoe

import (
	"errors"
	"fmt"

	"github.com/wfunc/turnsim/state"
)

var (
	ErrInvalidSize      = errors.New("board size must be positive")
	ErrNotEnoughPlayers = errors.New("need at least 2 players")
)

const (
	Waiting = "WAITING"
	Playing = "PLAYING"
	Won     = "WON"
	Drawn   = "DRAW"
)

// MoveResult is what one move did.
type MoveResult int

const (
	Invalid MoveResult = iota
	Placed
	Win
	Draw
)

func (r MoveResult) String() string {
	switch r {
	case Placed:
		return "placed"
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "invalid"
	}
}

type Player struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Mark  Mark   `json:"mark"`
	Score int    `json:"score"`
}

// Notifier receives game announcements.
type Notifier interface {
	Update(msg string)
}

// ReporterNotifier forwards announcements to a reporter.
type ReporterNotifier struct {
	Reporter state.Reporter
}

func (n ReporterNotifier) Update(msg string) {
	n.Reporter.Report("[Notification] %s", msg)
}

// Game is the entity. Players take turns in queue order; a player who makes
// an invalid move stays at the front.
type Game struct {
	board     *Board
	rules     Rules
	players   []*Player
	notifiers []Notifier
	winner    *Player

	fsm     *state.BaseStateMachine
	waiting state.State
	playing state.State
	won     state.State
	drawn   state.State
}

func NewGame(size int, rules Rules) (*Game, error) {
	b, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	if rules == nil {
		rules = StandardRules{}
	}
	g := &Game{
		board:   b,
		rules:   rules,
		waiting: &state.Base{ID: Waiting},
		playing: &state.Base{ID: Playing},
		won:     &state.Base{ID: Won},
		drawn:   &state.Base{ID: Drawn},
	}
	g.fsm = state.NewBaseStateMachine("tictactoe", g.waiting)
	_ = g.fsm.AddTransition(g.waiting, g.playing, func() bool { return len(g.players) >= 2 })
	return g, nil
}

func (g *Game) AddPlayer(p *Player) {
	g.players = append(g.players, p)
}

func (g *Game) AddNotifier(n Notifier) {
	g.notifiers = append(g.notifiers, n)
}

// Subscribe registers a transition observer on the game's state machine.
func (g *Game) Subscribe(o state.Observer) {
	g.fsm.Subscribe(o)
}

func (g *Game) notify(msg string) {
	for _, n := range g.notifiers {
		n.Update(msg)
	}
}

// Start moves the game from WAITING to PLAYING. Playing a move starts the
// game implicitly.
func (g *Game) Start() error {
	if g.State() != Waiting {
		return nil
	}
	if err := g.fsm.Fire("start", g.playing); err != nil {
		return ErrNotEnoughPlayers
	}
	g.notify("Tic Tac Toe Game Started!")
	return nil
}

// Play places the current player's mark. Invalid moves, including any move
// after the game has ended, return Invalid and leave the turn unchanged.
func (g *Game) Play(row, col int) (MoveResult, error) {
	if err := g.Start(); err != nil {
		return Invalid, err
	}
	if g.Over() {
		return Invalid, nil
	}

	p := g.players[0]
	if !g.rules.IsValidMove(g.board, row, col) {
		_ = g.fsm.Fire("move", g.playing)
		return Invalid, nil
	}

	g.board.Place(row, col, p.Mark)
	g.notify(fmt.Sprintf("%s played (%d,%d)", p.Name, row, col))

	switch {
	case g.rules.CheckWin(g.board, p.Mark):
		p.Score++
		g.winner = p
		_ = g.fsm.Fire("move", g.won)
		g.notify(p.Name + " wins!")
		return Win, nil
	case g.rules.CheckDraw(g.board):
		_ = g.fsm.Fire("move", g.drawn)
		g.notify("Game is Draw!")
		return Draw, nil
	default:
		g.players = append(g.players[1:], p)
		_ = g.fsm.Fire("move", g.playing)
		return Placed, nil
	}
}

// CurrentPlayer is the player whose turn it is, or nil before any player joins.
func (g *Game) CurrentPlayer() *Player {
	if len(g.players) == 0 {
		return nil
	}
	return g.players[0]
}

func (g *Game) Winner() *Player { return g.winner }
func (g *Game) Board() *Board   { return g.board }
func (g *Game) State() string   { return g.fsm.GetCurrentState().GetID() }

func (g *Game) Over() bool {
	s := g.State()
	return s == Won || s == Drawn
}

// Players returns the players in turn order.
func (g *Game) Players() []*Player {
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}
