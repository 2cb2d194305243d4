package tictactoe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/turnsim/state"
)

func newTwoPlayerGame(t *testing.T, size int) (*Game, *state.Recorder) {
	t.Helper()
	g, err := NewGame(size, nil)
	require.NoError(t, err)
	g.AddPlayer(&Player{ID: 1, Name: "Aditya", Mark: 'X'})
	g.AddPlayer(&Player{ID: 2, Name: "Harshita", Mark: 'O'})

	rec := &state.Recorder{}
	g.AddNotifier(ReporterNotifier{Reporter: rec})
	return g, rec
}

func TestNewGame_InvalidSize(t *testing.T) {
	_, err := NewGame(0, nil)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestPlay_NeedsTwoPlayers(t *testing.T) {
	g, err := NewGame(3, nil)
	require.NoError(t, err)
	g.AddPlayer(&Player{ID: 1, Name: "Solo", Mark: 'X'})

	_, err = g.Play(0, 0)
	require.ErrorIs(t, err, ErrNotEnoughPlayers)
	assert.Equal(t, Waiting, g.State())
}

func TestPlay_RowWin(t *testing.T) {
	g, rec := newTwoPlayerGame(t, 3)

	moves := []Move{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for _, m := range moves {
		res, err := g.Play(m.Row, m.Col)
		require.NoError(t, err)
		require.Equal(t, Placed, res)
	}

	res, err := g.Play(0, 2)
	require.NoError(t, err)
	assert.Equal(t, Win, res)
	assert.Equal(t, Won, g.State())
	assert.Equal(t, "Aditya", g.Winner().Name)
	assert.Equal(t, 1, g.Winner().Score)
	assert.Equal(t, "[Notification] Aditya wins!", rec.Last())
	assert.Equal(t, "[Notification] Tic Tac Toe Game Started!", rec.Messages[0])

	res, err = g.Play(2, 2)
	require.NoError(t, err)
	assert.Equal(t, Invalid, res)
}

func TestPlay_InvalidKeepsPlayer(t *testing.T) {
	g, _ := newTwoPlayerGame(t, 3)

	_, err := g.Play(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Harshita", g.CurrentPlayer().Name)

	for _, m := range []Move{{1, 1}, {3, 0}, {-1, 2}} {
		res, err := g.Play(m.Row, m.Col)
		require.NoError(t, err)
		assert.Equal(t, Invalid, res)
		assert.Equal(t, "Harshita", g.CurrentPlayer().Name)
	}
}

func TestPlay_Draw(t *testing.T) {
	g, rec := newTwoPlayerGame(t, 3)

	// X O X
	// X O O
	// O X X
	moves := []Move{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 0}}
	for _, m := range moves {
		res, err := g.Play(m.Row, m.Col)
		require.NoError(t, err)
		require.Equal(t, Placed, res, "move %v", m)
	}
	res, err := g.Play(2, 2)
	require.NoError(t, err)
	assert.Equal(t, Draw, res)
	assert.Equal(t, Drawn, g.State())
	assert.Nil(t, g.Winner())
	assert.Equal(t, "[Notification] Game is Draw!", rec.Last())
}

func TestRules_Diagonals(t *testing.T) {
	b, err := NewBoard(4)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		b.Place(i, 3-i, 'O')
	}
	assert.True(t, StandardRules{}.CheckWin(b, 'O'))
	assert.False(t, StandardRules{}.CheckWin(b, 'X'))

	b, err = NewBoard(4)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		b.Place(i, i, 'X')
	}
	assert.True(t, StandardRules{}.CheckWin(b, 'X'))
}

func TestBoard_String(t *testing.T) {
	b, err := NewBoard(2)
	require.NoError(t, err)
	b.Place(0, 1, 'X')
	assert.Equal(t, "  0 1 \n0 - X \n1 - - \n", b.String())
	assert.Equal(t, []string{"-X", "--"}, b.Rows())
}

func TestDrive_ColumnWin(t *testing.T) {
	g, _ := newTwoPlayerGame(t, 3)

	var transitions []state.Transition
	g.Subscribe(state.ObserverFunc(func(tr state.Transition) {
		transitions = append(transitions, tr)
	}))

	src := state.NewScript(Move{0, 0}, Move{0, 1}, Move{1, 0}, Move{1, 1}, Move{2, 0}, Move{2, 2})
	steps, err := state.Drive(context.Background(), g, src)
	require.NoError(t, err)
	assert.Equal(t, 5, steps)
	assert.Equal(t, 1, src.Remaining())
	assert.True(t, g.Done())

	require.NotEmpty(t, transitions)
	assert.Equal(t, state.Transition{Machine: "tictactoe", Action: "start", From: Waiting, To: Playing}, transitions[0])
	assert.Equal(t, Won, transitions[len(transitions)-1].To)
}
