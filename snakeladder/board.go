package snakeladder

import (
	"fmt"
	"sort"
)

// Kind tells snakes from ladders.
type Kind string

const (
	Snake  Kind = "SNAKE"
	Ladder Kind = "LADDER"
)

// Entity moves a player landing on Start to End.
type Entity struct {
	Kind  Kind `json:"kind" yaml:"-"`
	Start int  `json:"start" yaml:"start"`
	End   int  `json:"end" yaml:"end"`
}

func (e Entity) String() string {
	if e.Kind == Snake {
		return fmt.Sprintf("Snake: %d -> %d", e.Start, e.End)
	}
	return fmt.Sprintf("Ladder: %d -> %d", e.Start, e.End)
}

// Board is a side×side grid of cells numbered 1..Size. At most one entity
// starts on any cell.
type Board struct {
	side     int
	entities []Entity
	byStart  map[int]Entity
}

func NewBoard(side int) (*Board, error) {
	if side < 2 {
		return nil, fmt.Errorf("%w: side %d", ErrInvalidBoard, side)
	}
	return &Board{side: side, byStart: make(map[int]Entity)}, nil
}

func (b *Board) Side() int { return b.side }

// Size is the number of the last cell.
func (b *Board) Size() int { return b.side * b.side }

func (b *Board) CanAdd(start int) bool {
	_, taken := b.byStart[start]
	return !taken
}

// Add places e. A snake must go down and a ladder up, both inside the board.
// When the start cell is already taken the first entity stays and Add
// returns ErrCellTaken.
func (b *Board) Add(e Entity) error {
	switch {
	case e.Start < 1 || e.Start >= b.Size() || e.End < 1 || e.End > b.Size():
		return fmt.Errorf("%w: %s outside 1..%d", ErrInvalidEntity, e, b.Size())
	case e.Kind == Snake && e.End >= e.Start:
		return fmt.Errorf("%w: %s must end below its start", ErrInvalidEntity, e)
	case e.Kind == Ladder && e.End <= e.Start:
		return fmt.Errorf("%w: %s must end above its start", ErrInvalidEntity, e)
	case e.Kind != Snake && e.Kind != Ladder:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEntity, e.Kind)
	}
	if !b.CanAdd(e.Start) {
		return fmt.Errorf("%w: %d", ErrCellTaken, e.Start)
	}
	b.entities = append(b.entities, e)
	b.byStart[e.Start] = e
	return nil
}

func (b *Board) Entity(pos int) (Entity, bool) {
	e, ok := b.byStart[pos]
	return e, ok
}

func (b *Board) filter(k Kind) []Entity {
	var out []Entity
	for _, e := range b.entities {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Snakes lists snakes in the order they were placed.
func (b *Board) Snakes() []Entity { return b.filter(Snake) }

// Ladders lists ladders in the order they were placed.
func (b *Board) Ladders() []Entity { return b.filter(Ladder) }

// Entities lists every entity ordered by start cell.
func (b *Board) Entities() []Entity {
	out := make([]Entity, len(b.entities))
	copy(out, b.entities)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
