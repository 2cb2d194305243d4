package tictactoe

import (
	"strconv"
	"strings"
)

// Mark is the symbol a player places.
type Mark rune

const Empty Mark = '-'

// Board is an N×N grid. It only stores marks; the rules decide what they mean.
type Board struct {
	size int
	grid [][]Mark
}

func NewBoard(size int) (*Board, error) {
	if size < 1 {
		return nil, ErrInvalidSize
	}
	grid := make([][]Mark, size)
	for i := range grid {
		grid[i] = make([]Mark, size)
		for j := range grid[i] {
			grid[i][j] = Empty
		}
	}
	return &Board{size: size, grid: grid}, nil
}

func (b *Board) Size() int { return b.size }

func (b *Board) inside(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// IsCellEmpty is false for cells off the board.
func (b *Board) IsCellEmpty(row, col int) bool {
	return b.inside(row, col) && b.grid[row][col] == Empty
}

func (b *Board) Place(row, col int, m Mark) bool {
	if !b.IsCellEmpty(row, col) {
		return false
	}
	b.grid[row][col] = m
	return true
}

// Cell returns Empty for cells off the board.
func (b *Board) Cell(row, col int) Mark {
	if !b.inside(row, col) {
		return Empty
	}
	return b.grid[row][col]
}

// Rows returns the grid as strings, one per row.
func (b *Board) Rows() []string {
	rows := make([]string, b.size)
	for i, r := range b.grid {
		rows[i] = string(r)
	}
	return rows
}

func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for i := 0; i < b.size; i++ {
		sb.WriteString(strconv.Itoa(i))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	for i, r := range b.grid {
		sb.WriteString(strconv.Itoa(i))
		sb.WriteByte(' ')
		for _, m := range r {
			sb.WriteRune(rune(m))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
