package chess

import (
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/wfunc/turnsim/lazy"
	"github.com/wfunc/turnsim/state"
)

// MatchingStrategy picks an opponent for user among the waiting players, or
// returns nil.
type MatchingStrategy interface {
	FindMatch(user *User, waiting []*User) *User
}

// ScoreBased pairs players whose scores differ by at most Tolerance,
// preferring the closest.
type ScoreBased struct {
	Tolerance int
}

func (s ScoreBased) FindMatch(user *User, waiting []*User) *User {
	var best *User
	bestDiff := math.MaxInt
	for _, w := range waiting {
		if w.ID == user.ID {
			continue
		}
		diff := user.Score - w.Score
		if diff < 0 {
			diff = -diff
		}
		if diff <= s.Tolerance && diff < bestDiff {
			best, bestDiff = w, diff
		}
	}
	return best
}

// Lobby pairs waiting players into matches and routes actions to them.
// Completed matches are dropped from the active set.
type Lobby struct {
	mu       sync.Mutex
	strategy MatchingStrategy
	waiting  []*User
	active   map[string]*Match
	reporter state.Reporter
}

var lobby = lazy.New(func() *Lobby {
	return NewLobby(nil, nil)
})

// DefaultLobby is the process-wide lobby.
func DefaultLobby() *Lobby {
	return lobby.Get()
}

// NewLobby uses score-based matching with a tolerance of 100 when strategy
// is nil.
func NewLobby(strategy MatchingStrategy, reporter state.Reporter) *Lobby {
	if strategy == nil {
		strategy = ScoreBased{Tolerance: 100}
	}
	if reporter == nil {
		reporter = state.Discard
	}
	return &Lobby{strategy: strategy, active: make(map[string]*Match), reporter: reporter}
}

// RequestMatch pairs user with a waiting opponent, user playing white, or
// adds user to the waiting list and returns nil.
func (l *Lobby) RequestMatch(user *User) *Match {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.reporter.Report("%s is looking for a match...", user.Name)
	opp := l.strategy.FindMatch(user, l.waiting)
	if opp == nil {
		l.waiting = append(l.waiting, user)
		l.reporter.Report("%s added to waiting list.", user.Name)
		return nil
	}

	for i, w := range l.waiting {
		if w == opp {
			l.waiting = append(l.waiting[:i], l.waiting[i+1:]...)
			break
		}
	}
	m := NewMatch(uuid.NewString(), user, opp, l.reporter)
	l.active[m.ID] = m
	l.reporter.Report("Match found! %s vs %s", user.Name, opp.Name)
	return m
}

func (l *Lobby) match(id string) (*Match, error) {
	m, ok := l.active[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

func (l *Lobby) Match(id string) (*Match, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.match(id)
}

func (l *Lobby) Move(matchID string, from, to Position, player *User) (MoveResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, err := l.match(matchID)
	if err != nil {
		return MoveResult{}, err
	}
	res, err := m.Move(from, to, player)
	if m.Over() {
		delete(l.active, matchID)
		l.reporter.Report("Match %s completed and removed from active matches.", matchID)
	}
	return res, err
}

func (l *Lobby) Quit(matchID string, player *User) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, err := l.match(matchID)
	if err != nil {
		return err
	}
	if err := m.Quit(player); err != nil {
		return err
	}
	delete(l.active, matchID)
	return nil
}

func (l *Lobby) Chat(matchID, content string, from *User) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, err := l.match(matchID)
	if err != nil {
		return err
	}
	if _, err := m.colorOf(from); err != nil {
		return err
	}
	from.Say(content)
	return nil
}

// Active lists the active match IDs in sorted order.
func (l *Lobby) Active() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]string, 0, len(l.active))
	for id := range l.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Waiting lists the players waiting for an opponent, oldest first.
func (l *Lobby) Waiting() []*User {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*User, len(l.waiting))
	copy(out, l.waiting)
	return out
}
