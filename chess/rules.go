package chess

import "slices"

// Move is a proposed or played move.
type Move struct {
	From     Position
	To       Position
	Piece    *Piece
	Captured *Piece
}

// Rules is the game's legality oracle.
type Rules interface {
	IsValidMove(m Move, b *Board) bool
	IsInCheck(c Color, b *Board) bool
	IsCheckmate(c Color, b *Board) bool
	IsStalemate(c Color, b *Board) bool
	WouldMoveCauseCheck(m Move, b *Board, king Color) bool
}

type StandardRules struct{}

func (r StandardRules) IsValidMove(m Move, b *Board) bool {
	if m.Piece == nil {
		return false
	}
	if !slices.Contains(m.Piece.PossibleMoves(m.From, b), m.To) {
		return false
	}
	return !r.WouldMoveCauseCheck(m, b, m.Piece.Color)
}

// WouldMoveCauseCheck plays m on b, checks king's safety, then restores b.
// The moved piece's Moved flag is left as it was.
func (r StandardRules) WouldMoveCauseCheck(m Move, b *Board, king Color) bool {
	moving := b.Piece(m.From)
	if moving == nil {
		return true
	}
	captured := b.Piece(m.To)

	b.Remove(m.From)
	b.Place(m.To, moving)
	inCheck := r.IsInCheck(king, b)

	b.Remove(m.To)
	b.Place(m.From, moving)
	if captured != nil {
		b.Place(m.To, captured)
	}
	return inCheck
}

// IsInCheck is false when c has no king on the board.
func (StandardRules) IsInCheck(c Color, b *Board) bool {
	king, ok := b.FindKing(c)
	if !ok {
		return false
	}
	for _, pos := range b.PiecesOf(c.Opponent()) {
		if slices.Contains(b.Piece(pos).PossibleMoves(pos, b), king) {
			return true
		}
	}
	return false
}

func (r StandardRules) hasLegalMove(c Color, b *Board) bool {
	for _, pos := range b.PiecesOf(c) {
		p := b.Piece(pos)
		for _, to := range p.PossibleMoves(pos, b) {
			if r.IsValidMove(Move{From: pos, To: to, Piece: p, Captured: b.Piece(to)}, b) {
				return true
			}
		}
	}
	return false
}

func (r StandardRules) IsCheckmate(c Color, b *Board) bool {
	return r.IsInCheck(c, b) && !r.hasLegalMove(c, b)
}

func (r StandardRules) IsStalemate(c Color, b *Board) bool {
	return !r.IsInCheck(c, b) && !r.hasLegalMove(c, b)
}
