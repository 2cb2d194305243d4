package sim

import (
	"encoding/json"
	"fmt"

	"github.com/wfunc/turnsim/state"
	"github.com/wfunc/turnsim/tictactoe"
)

var marks = []tictactoe.Mark{'X', 'O'}

type ticTacToeSim struct {
	base
	game *tictactoe.Game
}

func newTicTacToe(o Options) (*ticTacToeSim, error) {
	g, err := tictactoe.NewGame(o.BoardSize, nil)
	if err != nil {
		return nil, err
	}
	b := newBase(TicTacToe, len(marks), o.Reporter)
	g.AddNotifier(tictactoe.ReporterNotifier{Reporter: b.reporter})
	return &ticTacToeSim{base: b, game: g}, nil
}

func (t *ticTacToeSim) Join(player string) error {
	added, err := t.seat(player)
	if err != nil || !added {
		return err
	}
	n := len(t.players)
	t.game.AddPlayer(&tictactoe.Player{ID: n, Name: player, Mark: marks[n-1]})
	return nil
}

func (t *ticTacToeSim) Apply(player string, body json.RawMessage) (Result, error) {
	if err := t.requireJoined(player); err != nil {
		return Result{}, err
	}
	if len(t.players) < len(marks) {
		return Result{}, ErrNotStarted
	}
	if cur := t.game.CurrentPlayer(); !t.game.Over() && cur.Name != player {
		return Result{}, fmt.Errorf("%s: %w", player, ErrNotYourTurn)
	}

	var m tictactoe.Move
	if err := decode(body, &m); err != nil {
		return Result{}, err
	}
	t.rec.Drain()
	res, err := t.game.Play(m.Row, m.Col)
	if err != nil {
		return Result{}, err
	}
	if res == tictactoe.Invalid {
		t.reporter.Report("Invalid move, try again!")
	}
	return t.result(player, t.game.State(), t.game.Over()), nil
}

func (t *ticTacToeSim) Snapshot() Snapshot {
	s := t.snapshot(t.game.State(), t.game.Over())
	s.Board = t.game.Board().Rows()
	if cur := t.game.CurrentPlayer(); cur != nil && !t.game.Over() {
		s.Turn = cur.Name
	}
	if w := t.game.Winner(); w != nil {
		s.Detail = map[string]any{"winner": w.Name}
	}
	return s
}

func (t *ticTacToeSim) Done() bool { return t.game.Over() }

func (t *ticTacToeSim) Subscribe(o state.Observer) {
	t.game.Subscribe(o)
}
