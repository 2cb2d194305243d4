package chess

import (
	"fmt"
	"strings"
)

// Position is a square. Row 0 is black's back rank, row 7 white's.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < 8 && p.Col >= 0 && p.Col < 8
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Notation renders the square as e4, f7 and so on.
func (p Position) Notation() string {
	return string([]byte{byte('a' + p.Col), byte('8' - p.Row)})
}

// ParseNotation reads a square such as "e2".
func ParseNotation(s string) (Position, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	p := Position{Row: int('8' - s[1]), Col: int(s[0] - 'a')}
	if !p.Valid() {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return p, nil
}

type Color int

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

type PieceType int

const (
	King PieceType = iota
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

var symbols = map[PieceType]string{King: "K", Queen: "Q", Rook: "R", Bishop: "B", Knight: "N", Pawn: "P"}

func (t PieceType) Symbol() string { return symbols[t] }

// Piece is a chessman. How it moves is looked up by type.
type Piece struct {
	Color Color
	Type  PieceType
	Moved bool
}

func NewPiece(t PieceType, c Color) *Piece {
	return &Piece{Color: c, Type: t}
}

// String renders the piece as WK, BP and so on.
func (p *Piece) String() string {
	if p.Color == White {
		return "W" + p.Type.Symbol()
	}
	return "B" + p.Type.Symbol()
}

// PossibleMoves lists the squares the piece could reach from from, ignoring
// whether the move would leave its own king in check.
func (p *Piece) PossibleMoves(from Position, b *Board) []Position {
	return movers[p.Type](p, from, b)
}

type mover func(p *Piece, from Position, b *Board) []Position

var (
	straight = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonal = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	allDirs  = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	jumps    = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
)

var movers = map[PieceType]mover{
	King:   stepper(allDirs),
	Queen:  slider(allDirs),
	Rook:   slider(straight),
	Bishop: slider(diagonal),
	Knight: stepper(jumps),
	Pawn:   pawnMoves,
}

// stepper moves one offset at a time onto anything but an own piece.
func stepper(offsets [][2]int) mover {
	return func(p *Piece, from Position, b *Board) []Position {
		var moves []Position
		for _, d := range offsets {
			to := Position{from.Row + d[0], from.Col + d[1]}
			if to.Valid() && !b.IsOccupiedBy(to, p.Color) {
				moves = append(moves, to)
			}
		}
		return moves
	}
}

// slider moves along each direction until blocked, capturing the first
// opposing piece it meets.
func slider(dirs [][2]int) mover {
	return func(p *Piece, from Position, b *Board) []Position {
		var moves []Position
		for _, d := range dirs {
			for i := 1; i < 8; i++ {
				to := Position{from.Row + d[0]*i, from.Col + d[1]*i}
				if !to.Valid() || b.IsOccupiedBy(to, p.Color) {
					break
				}
				moves = append(moves, to)
				if b.IsOccupied(to) {
					break
				}
			}
		}
		return moves
	}
}

func pawnMoves(p *Piece, from Position, b *Board) []Position {
	dir := 1
	if p.Color == White {
		dir = -1
	}

	var moves []Position
	one := Position{from.Row + dir, from.Col}
	if one.Valid() && !b.IsOccupied(one) {
		moves = append(moves, one)
		if !p.Moved {
			two := Position{from.Row + 2*dir, from.Col}
			if two.Valid() && !b.IsOccupied(two) {
				moves = append(moves, two)
			}
		}
	}

	for _, dc := range []int{-1, 1} {
		to := Position{from.Row + dir, from.Col + dc}
		if to.Valid() && b.IsOccupied(to) && !b.IsOccupiedBy(to, p.Color) {
			moves = append(moves, to)
		}
	}
	return moves
}
