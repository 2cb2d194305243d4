// Package snakeladder plays snakes and ladders on an m×m board with any
// number of players and a seeded die.
package snakeladder

import (
	"errors"
	"fmt"

	"github.com/wfunc/turnsim/rng"
	"github.com/wfunc/turnsim/state"
)

var (
	ErrInvalidBoard     = errors.New("invalid board")
	ErrInvalidEntity    = errors.New("invalid snake or ladder")
	ErrCellTaken        = errors.New("cell already has a snake or ladder")
	ErrPlacement        = errors.New("could not place entity")
	ErrNotEnoughPlayers = errors.New("need at least 2 players")
	ErrInvalidRoll      = errors.New("roll out of range")
)

const (
	Waiting  = "WAITING"
	Playing  = "PLAYING"
	Finished = "FINISHED"
)

// Dice rolls 1..Faces.
type Dice struct {
	Faces  int
	source rng.Source
}

func NewDice(faces int, src rng.Source) *Dice {
	if faces < 1 {
		faces = 6
	}
	return &Dice{Faces: faces, source: src}
}

func (d *Dice) Roll() int {
	return d.source.Intn(d.Faces) + 1
}

// Rules decide how a roll moves a player.
type Rules interface {
	IsValidMove(pos, roll, size int) bool
	NewPosition(pos, roll int, b *Board) int
	CheckWin(pos, size int) bool
}

// StandardRules needs an exact roll to finish.
type StandardRules struct{}

func (StandardRules) IsValidMove(pos, roll, size int) bool {
	return pos+roll <= size
}

func (StandardRules) NewPosition(pos, roll int, b *Board) int {
	next := pos + roll
	if e, ok := b.Entity(next); ok {
		return e.End
	}
	return next
}

func (StandardRules) CheckWin(pos, size int) bool {
	return pos == size
}

type Player struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Score    int    `json:"score"`
}

// Turn describes one roll. Skipped is set when the roll would overshoot the
// last cell; the player stays put and the turn passes.
type Turn struct {
	Player  string  `json:"player"`
	Roll    int     `json:"roll"`
	From    int     `json:"from"`
	To      int     `json:"to"`
	Hit     *Entity `json:"hit,omitempty"`
	Skipped bool    `json:"skipped,omitempty"`
	Won     bool    `json:"won,omitempty"`
}

// Notifier receives game announcements.
type Notifier interface {
	Update(msg string)
}

type ReporterNotifier struct {
	Reporter state.Reporter
}

func (n ReporterNotifier) Update(msg string) {
	n.Reporter.Report("[NOTIFICATION] %s", msg)
}

// Game is the entity.
type Game struct {
	board     *Board
	dice      *Dice
	rules     Rules
	players   []*Player
	notifiers []Notifier
	winner    *Player

	fsm      *state.BaseStateMachine
	waiting  state.State
	playing  state.State
	finished state.State
}

func NewGame(b *Board, d *Dice, rules Rules) *Game {
	if rules == nil {
		rules = StandardRules{}
	}
	g := &Game{
		board:    b,
		dice:     d,
		rules:    rules,
		waiting:  &state.Base{ID: Waiting},
		playing:  &state.Base{ID: Playing},
		finished: &state.Base{ID: Finished},
	}
	g.fsm = state.NewBaseStateMachine("snakeladder", g.waiting)
	_ = g.fsm.AddTransition(g.waiting, g.playing, func() bool { return len(g.players) >= 2 })
	return g
}

// NewStandardGame is the traditional 10×10 board with a six-sided die.
func NewStandardGame(src rng.Source) (*Game, error) {
	return newGame(10, Standard{}, src)
}

// NewRandomGame lays out a side×side board by difficulty.
func NewRandomGame(side int, d Difficulty, src rng.Source) (*Game, error) {
	return newGame(side, Random{Difficulty: d, Source: src}, src)
}

// NewCustomGame lays out a side×side board with setup.
func NewCustomGame(side int, setup Setup, src rng.Source) (*Game, error) {
	return newGame(side, setup, src)
}

func newGame(side int, setup Setup, src rng.Source) (*Game, error) {
	b, err := NewBoard(side)
	if err != nil {
		return nil, err
	}
	if err := setup.Setup(b); err != nil {
		return nil, err
	}
	return NewGame(b, NewDice(6, src), nil), nil
}

func (g *Game) AddPlayer(name string) *Player {
	p := &Player{ID: len(g.players) + 1, Name: name}
	g.players = append(g.players, p)
	return p
}

func (g *Game) AddNotifier(n Notifier) {
	g.notifiers = append(g.notifiers, n)
}

func (g *Game) Subscribe(o state.Observer) {
	g.fsm.Subscribe(o)
}

func (g *Game) notify(msg string) {
	for _, n := range g.notifiers {
		n.Update(msg)
	}
}

func (g *Game) Start() error {
	if g.State() != Waiting {
		return nil
	}
	if err := g.fsm.Fire("start", g.playing); err != nil {
		return ErrNotEnoughPlayers
	}
	g.notify("Game started")
	return nil
}

// Roll plays the current player's turn with a known die value.
func (g *Game) Roll(value int) (Turn, error) {
	if value < 1 || value > g.dice.Faces {
		return Turn{}, fmt.Errorf("%w: %d", ErrInvalidRoll, value)
	}
	if err := g.Start(); err != nil {
		return Turn{}, err
	}
	if g.Over() {
		return Turn{}, nil
	}

	p := g.players[0]
	t := Turn{Player: p.Name, Roll: value, From: p.Position, To: p.Position}
	size := g.board.Size()

	if !g.rules.IsValidMove(p.Position, value, size) {
		t.Skipped = true
		g.rotate()
		_ = g.fsm.Fire("roll", g.playing)
		return t, nil
	}

	landed := p.Position + value
	t.To = g.rules.NewPosition(p.Position, value, g.board)
	p.Position = t.To

	if e, ok := g.board.Entity(landed); ok {
		t.Hit = &e
		if e.Kind == Snake {
			g.notify(fmt.Sprintf("%s encountered snake at %d now going down to %d", p.Name, landed, t.To))
		} else {
			g.notify(fmt.Sprintf("%s encountered ladder at %d now going up to %d", p.Name, landed, t.To))
		}
	}
	g.notify(fmt.Sprintf("%s played. New Position : %d", p.Name, t.To))

	if g.rules.CheckWin(t.To, size) {
		t.Won = true
		p.Score++
		g.winner = p
		_ = g.fsm.Fire("roll", g.finished)
		g.notify("Game Ended. Winner is : " + p.Name)
		return t, nil
	}

	g.rotate()
	_ = g.fsm.Fire("roll", g.playing)
	return t, nil
}

// Turn rolls the die for the current player.
func (g *Game) Turn() (Turn, error) {
	return g.Roll(g.dice.Roll())
}

func (g *Game) rotate() {
	g.players = append(g.players[1:], g.players[0])
}

func (g *Game) CurrentPlayer() *Player {
	if len(g.players) == 0 {
		return nil
	}
	return g.players[0]
}

func (g *Game) Players() []*Player {
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}

func (g *Game) Board() *Board   { return g.board }
func (g *Game) Winner() *Player { return g.winner }
func (g *Game) State() string   { return g.fsm.GetCurrentState().GetID() }
func (g *Game) Over() bool      { return g.State() == Finished }

// RollAction is one driver action. A zero Value rolls the die.
type RollAction struct {
	Value int `json:"value,omitempty"`
}

func (g *Game) Step(a RollAction) error {
	var err error
	if a.Value == 0 {
		_, err = g.Turn()
	} else {
		_, err = g.Roll(a.Value)
	}
	return err
}

func (g *Game) Done() bool {
	return g.Over()
}
