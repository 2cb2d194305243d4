package snakeladder

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/wfunc/turnsim/rng"
)

// Setup places snakes and ladders on a fresh board.
type Setup interface {
	Setup(b *Board) error
}

// Standard is the traditional 10×10 layout.
type Standard struct{}

var (
	standardSnakes  = [][2]int{{99, 54}, {95, 75}, {92, 88}, {89, 68}, {74, 53}, {64, 60}, {62, 19}, {49, 11}, {46, 25}, {16, 6}}
	standardLadders = [][2]int{{2, 38}, {7, 14}, {8, 31}, {15, 26}, {21, 42}, {28, 84}, {36, 44}, {51, 67}, {71, 91}, {78, 98}, {87, 94}}
)

func (Standard) Setup(b *Board) error {
	if b.Size() != 100 {
		return fmt.Errorf("%w: standard setup only works for 10x10 board", ErrInvalidBoard)
	}
	for _, s := range standardSnakes {
		if err := b.Add(Entity{Kind: Snake, Start: s[0], End: s[1]}); err != nil {
			return err
		}
	}
	for _, l := range standardLadders {
		if err := b.Add(Entity{Kind: Ladder, Start: l[0], End: l[1]}); err != nil {
			return err
		}
	}
	return nil
}

// randomSnake and randomLadder draw one candidate the way every random
// layout does. A ladder whose end falls on the last cell is rejected.
func randomSnake(src rng.Source, size int) Entity {
	start := src.Intn(size-10) + 10
	end := src.Intn(start-1) + 1
	return Entity{Kind: Snake, Start: start, End: end}
}

func randomLadder(src rng.Source, size int) (Entity, bool) {
	start := src.Intn(size-10) + 1
	end := src.Intn(size-start) + start + 1
	return Entity{Kind: Ladder, Start: start, End: end}, end < size
}

// tryPlace draws candidates until one fits or attempts run out.
func tryPlace(b *Board, src rng.Source, kind Kind, attempts int) bool {
	for i := 0; i < attempts; i++ {
		var (
			e  Entity
			ok = true
		)
		if kind == Snake {
			e = randomSnake(src, b.Size())
		} else {
			e, ok = randomLadder(src, b.Size())
		}
		if !ok || !b.CanAdd(e.Start) {
			continue
		}
		if err := b.Add(e); err == nil {
			return true
		}
	}
	return false
}

func checkRandomSize(b *Board) error {
	if b.Size() <= 11 {
		return fmt.Errorf("%w: random layouts need more than 11 cells", ErrInvalidBoard)
	}
	return nil
}

// Difficulty sets the share of snakes in a random layout.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) SnakeProbability() float64 {
	switch d {
	case Easy:
		return 0.3
	case Hard:
		return 0.7
	default:
		return 0.5
	}
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	default:
		return "medium"
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return Easy, nil
	case "medium", "":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return Medium, fmt.Errorf("%w: difficulty %q", ErrInvalidBoard, s)
	}
}

// Random places about one entity per ten cells. Each entity is a snake with
// the difficulty's probability, otherwise a ladder, and gets 50 attempts to
// find a free cell before it is dropped.
type Random struct {
	Difficulty Difficulty
	Source     rng.Source
}

const placementAttempts = 50

func (r Random) Setup(b *Board) error {
	if err := checkRandomSize(b); err != nil {
		return err
	}
	p := r.Difficulty.SnakeProbability()
	for i := 0; i < b.Size()/10; i++ {
		kind := Ladder
		if r.Source.Float64() < p {
			kind = Snake
		}
		tryPlace(b, r.Source, kind, placementAttempts)
	}
	return nil
}

// Custom places either the listed entities or, when RandomCounts is set,
// Snakes and Ladders counts of random entities.
type Custom struct {
	SnakePositions  [][2]int
	LadderPositions [][2]int

	RandomCounts bool
	SnakeCount   int
	LadderCount  int
	Source       rng.Source
}

// maxCustomAttempts bounds random placement for a requested count.
const maxCustomAttempts = 10000

func (c Custom) Setup(b *Board) error {
	if c.RandomCounts {
		if err := checkRandomSize(b); err != nil {
			return err
		}
		for i := 0; i < c.SnakeCount; i++ {
			if !tryPlace(b, c.Source, Snake, maxCustomAttempts) {
				return fmt.Errorf("%w: placed %d of %d snakes", ErrPlacement, i, c.SnakeCount)
			}
		}
		for i := 0; i < c.LadderCount; i++ {
			if !tryPlace(b, c.Source, Ladder, maxCustomAttempts) {
				return fmt.Errorf("%w: placed %d of %d ladders", ErrPlacement, i, c.LadderCount)
			}
		}
		return nil
	}

	for _, s := range c.SnakePositions {
		if err := addFirstWins(b, Entity{Kind: Snake, Start: s[0], End: s[1]}); err != nil {
			return err
		}
	}
	for _, l := range c.LadderPositions {
		if err := addFirstWins(b, Entity{Kind: Ladder, Start: l[0], End: l[1]}); err != nil {
			return err
		}
	}
	return nil
}

func addFirstWins(b *Board, e Entity) error {
	if err := b.Add(e); err != nil && !errors.Is(err, ErrCellTaken) {
		return err
	}
	return nil
}

// Layout is a board described in YAML:
//
//	side: 10
//	snakes:
//	  - {start: 99, end: 54}
//	ladders:
//	  - {start: 2, end: 38}
type Layout struct {
	Side    int      `yaml:"side"`
	Snakes  []Entity `yaml:"snakes"`
	Ladders []Entity `yaml:"ladders"`
}

func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBoard, err)
	}
	return &l, nil
}

func (l *Layout) Setup(b *Board) error {
	if l.Side != 0 && l.Side != b.Side() {
		return fmt.Errorf("%w: layout is for side %d, board has %d", ErrInvalidBoard, l.Side, b.Side())
	}
	for _, s := range l.Snakes {
		s.Kind = Snake
		if err := addFirstWins(b, s); err != nil {
			return err
		}
	}
	for _, ld := range l.Ladders {
		ld.Kind = Ladder
		if err := addFirstWins(b, ld); err != nil {
			return err
		}
	}
	return nil
}

// Board builds a board of the layout's side and applies it.
func (l *Layout) Board() (*Board, error) {
	b, err := NewBoard(l.Side)
	if err != nil {
		return nil, err
	}
	if err := l.Setup(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Marshal renders b as a YAML layout.
func Marshal(b *Board) ([]byte, error) {
	return yaml.Marshal(Layout{Side: b.Side(), Snakes: b.Snakes(), Ladders: b.Ladders()})
}
