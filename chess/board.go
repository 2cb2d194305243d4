package chess

import "strings"

// Board holds the pieces and nothing else.
type Board struct {
	squares [8][8]*Piece
}

// NewEmptyBoard is a board with no pieces, for setting up positions.
func NewEmptyBoard() *Board {
	return &Board{}
}

// NewBoard is a board in the starting position.
func NewBoard() *Board {
	b := &Board{}
	back := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, t := range back {
		b.Place(Position{7, col}, NewPiece(t, White))
		b.Place(Position{6, col}, NewPiece(Pawn, White))
		b.Place(Position{0, col}, NewPiece(t, Black))
		b.Place(Position{1, col}, NewPiece(Pawn, Black))
	}
	return b
}

func (b *Board) Place(pos Position, p *Piece) {
	b.squares[pos.Row][pos.Col] = p
}

func (b *Board) Remove(pos Position) {
	b.squares[pos.Row][pos.Col] = nil
}

// Piece returns the piece on pos, or nil.
func (b *Board) Piece(pos Position) *Piece {
	if !pos.Valid() {
		return nil
	}
	return b.squares[pos.Row][pos.Col]
}

func (b *Board) IsOccupied(pos Position) bool {
	return b.Piece(pos) != nil
}

func (b *Board) IsOccupiedBy(pos Position, c Color) bool {
	p := b.Piece(pos)
	return p != nil && p.Color == c
}

// Move relocates the piece on from to to, marks it as moved, and returns
// whatever it captured.
func (b *Board) Move(from, to Position) *Piece {
	p := b.Piece(from)
	if p == nil {
		return nil
	}
	captured := b.Piece(to)
	b.Remove(from)
	b.Place(to, p)
	p.Moved = true
	return captured
}

// FindKing returns the king's square and false when c has no king.
func (b *Board) FindKing(c Color) (Position, bool) {
	for _, pos := range b.PiecesOf(c) {
		if b.Piece(pos).Type == King {
			return pos, true
		}
	}
	return Position{-1, -1}, false
}

// PiecesOf lists the squares holding c's pieces, row by row.
func (b *Board) PiecesOf(c Color) []Position {
	var out []Position
	for r := 0; r < 8; r++ {
		for col := 0; col < 8; col++ {
			if p := b.squares[r][col]; p != nil && p.Color == c {
				out = append(out, Position{r, col})
			}
		}
	}
	return out
}

// Rows renders each rank as eight two-character cells, "  " for empty.
func (b *Board) Rows() []string {
	rows := make([]string, 8)
	for r := 0; r < 8; r++ {
		var sb strings.Builder
		for c := 0; c < 8; c++ {
			if p := b.squares[r][c]; p != nil {
				sb.WriteString(p.String())
			} else {
				sb.WriteString("  ")
			}
		}
		rows[r] = sb.String()
	}
	return rows
}

func (b *Board) String() string {
	const border = "  +---+---+---+---+---+---+---+---+\n"
	const files = "  | a | b | c | d | e | f | g | h |\n"

	var sb strings.Builder
	sb.WriteString(border + files + border)
	for r := 0; r < 8; r++ {
		rank := string(rune('8' - r))
		sb.WriteString(rank + " |")
		for c := 0; c < 8; c++ {
			cell := "  "
			if p := b.squares[r][c]; p != nil {
				cell = p.String()
			}
			sb.WriteString(cell + " |")
		}
		sb.WriteString(" " + rank + "\n" + border)
	}
	sb.WriteString(files + border)
	return sb.String()
}
