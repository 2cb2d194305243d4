package tictactoe

// Rules decides whether a move is legal and whether the game is over.
type Rules interface {
	IsValidMove(b *Board, row, col int) bool
	CheckWin(b *Board, m Mark) bool
	CheckDraw(b *Board) bool
}

// StandardRules wins on a full row, column or either diagonal.
type StandardRules struct{}

func (StandardRules) IsValidMove(b *Board, row, col int) bool {
	return b.IsCellEmpty(row, col)
}

func (StandardRules) CheckWin(b *Board, m Mark) bool {
	n := b.Size()
	line := func(cell func(i int) Mark) bool {
		for i := 0; i < n; i++ {
			if cell(i) != m {
				return false
			}
		}
		return true
	}

	for k := 0; k < n; k++ {
		if line(func(i int) Mark { return b.Cell(k, i) }) {
			return true
		}
		if line(func(i int) Mark { return b.Cell(i, k) }) {
			return true
		}
	}
	return line(func(i int) Mark { return b.Cell(i, i) }) ||
		line(func(i int) Mark { return b.Cell(i, n-1-i) })
}

// CheckDraw is true once every cell is filled.
func (StandardRules) CheckDraw(b *Board) bool {
	for i := 0; i < b.Size(); i++ {
		for j := 0; j < b.Size(); j++ {
			if b.Cell(i, j) == Empty {
				return false
			}
		}
	}
	return true
}
