package tictactoe

// Move is one action for the driver loop.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Step applies a move. An invalid move is an outcome, not an error.
func (g *Game) Step(m Move) error {
	_, err := g.Play(m.Row, m.Col)
	return err
}

func (g *Game) Done() bool {
	return g.Over()
}
