package sim

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/wfunc/turnsim/chess"
	"github.com/wfunc/turnsim/state"
)

// chessSim seats white first; the match starts when black sits down.
type chessSim struct {
	base
	users []*chess.User
	match *chess.Match
}

func newChess(o Options) *chessSim {
	return &chessSim{base: newBase(Chess, 2, o.Reporter)}
}

func (c *chessSim) Join(player string) error {
	added, err := c.seat(player)
	if err != nil || !added {
		return err
	}
	c.users = append(c.users, chess.NewUser(player, player, c.reporter))
	if len(c.users) == 2 {
		c.match = chess.NewMatch(uuid.NewString(), c.users[0], c.users[1], c.reporter)
		for _, o := range c.observers {
			c.match.Subscribe(o)
		}
	}
	return nil
}

func (c *chessSim) Apply(player string, body json.RawMessage) (Result, error) {
	if err := c.requireJoined(player); err != nil {
		return Result{}, err
	}
	if c.match == nil {
		return Result{}, ErrNotStarted
	}

	var a chess.Action
	if err := decode(body, &a); err != nil {
		return Result{}, err
	}
	a.PlayerID = player

	c.rec.Drain()
	if err := c.match.Step(a); err != nil {
		return Result{}, err
	}
	return c.result(player, c.match.Status(), c.match.Over()), nil
}

func (c *chessSim) Snapshot() Snapshot {
	if c.match == nil {
		return c.snapshot("WAITING", false)
	}
	s := c.snapshot(c.match.Status(), c.match.Over())
	s.Board = c.match.Board().Rows()

	scores := make(map[string]int, len(c.users))
	for _, u := range c.users {
		scores[u.Name] = u.Score
	}
	s.Detail = map[string]any{"match_id": c.match.ID, "scores": scores, "moves": len(c.match.History())}

	if c.match.Over() {
		s.Detail["winner"] = c.match.Winner().Name
		s.Detail["reason"] = c.match.EndReason()
	} else if c.match.Turn() == chess.White {
		s.Turn = c.match.White.Name
	} else {
		s.Turn = c.match.Black.Name
	}
	return s
}

func (c *chessSim) Done() bool {
	return c.match != nil && c.match.Over()
}

// Subscribe attaches o to the match, or holds it until the match starts.
func (c *chessSim) Subscribe(o state.Observer) {
	c.observers = append(c.observers, o)
	if c.match != nil {
		c.match.Subscribe(o)
	}
}
