package sim

import (
	"encoding/json"
	"fmt"

	"github.com/wfunc/turnsim/snakeladder"
	"github.com/wfunc/turnsim/state"
)

const snakeLadderSeats = 4

type snakeLadderSim struct {
	base
	game *snakeladder.Game
}

func newSnakeLadder(o Options) (*snakeLadderSim, error) {
	g, err := snakeLadderGame(o)
	if err != nil {
		return nil, err
	}
	b := newBase(SnakeLadder, snakeLadderSeats, o.Reporter)
	g.AddNotifier(snakeladder.ReporterNotifier{Reporter: b.reporter})
	return &snakeLadderSim{base: b, game: g}, nil
}

func snakeLadderGame(o Options) (*snakeladder.Game, error) {
	switch {
	case len(o.Layout) > 0:
		l, err := snakeladder.ParseLayout(o.Layout)
		if err != nil {
			return nil, err
		}
		b, err := l.Board()
		if err != nil {
			return nil, err
		}
		return snakeladder.NewGame(b, snakeladder.NewDice(6, o.Source), nil), nil
	case o.Difficulty != "":
		d, err := snakeladder.ParseDifficulty(o.Difficulty)
		if err != nil {
			return nil, err
		}
		return snakeladder.NewRandomGame(o.BoardSide, d, o.Source)
	}
	return snakeladder.NewStandardGame(o.Source)
}

// Join seats player. Seats close once the first die is rolled.
func (s *snakeLadderSim) Join(player string) error {
	if s.joined(player) {
		return nil
	}
	if s.game.State() != snakeladder.Waiting {
		return ErrStarted
	}
	if _, err := s.seat(player); err != nil {
		return err
	}
	s.game.AddPlayer(player)
	return nil
}

func (s *snakeLadderSim) Apply(player string, body json.RawMessage) (Result, error) {
	if err := s.requireJoined(player); err != nil {
		return Result{}, err
	}
	if len(s.players) < 2 {
		return Result{}, ErrNotStarted
	}
	if cur := s.game.CurrentPlayer(); !s.game.Over() && cur.Name != player {
		return Result{}, fmt.Errorf("%s: %w", player, ErrNotYourTurn)
	}

	var a snakeladder.RollAction
	if len(body) > 0 {
		if err := decode(body, &a); err != nil {
			return Result{}, err
		}
	}
	s.rec.Drain()
	if err := s.game.Step(a); err != nil {
		return Result{}, err
	}
	return s.result(player, s.game.State(), s.game.Over()), nil
}

func (s *snakeLadderSim) Snapshot() Snapshot {
	snap := s.snapshot(s.game.State(), s.game.Over())
	positions := make(map[string]int, len(s.players))
	for _, p := range s.game.Players() {
		positions[p.Name] = p.Position
	}
	snap.Detail = map[string]any{
		"positions": positions,
		"size":      s.game.Board().Size(),
		"snakes":    len(s.game.Board().Snakes()),
		"ladders":   len(s.game.Board().Ladders()),
	}
	if cur := s.game.CurrentPlayer(); cur != nil && !s.game.Over() {
		snap.Turn = cur.Name
	}
	if w := s.game.Winner(); w != nil {
		snap.Detail["winner"] = w.Name
	}
	return snap
}

func (s *snakeLadderSim) Done() bool { return s.game.Over() }

func (s *snakeLadderSim) Subscribe(o state.Observer) {
	s.game.Subscribe(o)
}
