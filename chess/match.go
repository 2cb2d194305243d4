// Package chess is a two-player chess match with in-match chat and a
// score-based lobby that pairs waiting players.
package chess

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/wfunc/turnsim/state"
)

var (
	ErrInvalidSquare = errors.New("invalid square")
	ErrNotInMatch    = errors.New("player is not in this match")
	ErrMatchNotFound = errors.New("match not found")
)

const (
	InProgress = "IN_PROGRESS"
	Completed  = "COMPLETED"
)

const (
	StartingScore = 1000
	WinPoints     = 30
	LossPoints    = 20
	QuitPenalty   = 50
)

// Message is one chat line.
type Message struct {
	SenderID string    `json:"sender_id"`
	Content  string    `json:"content"`
	Time     time.Time `json:"time"`
}

func (m Message) String() string {
	return "[" + m.SenderID + "]: " + m.Content
}

// Mediator relays chat between the players it knows.
type Mediator interface {
	Send(m Message, from *User)
}

// User is a player with a rating. Chat goes through whichever match the
// user is currently playing.
type User struct {
	ID    string
	Name  string
	Score int

	mediator Mediator
	inbox    []Message
	reporter state.Reporter
}

func NewUser(id, name string, reporter state.Reporter) *User {
	if reporter == nil {
		reporter = state.Discard
	}
	return &User{ID: id, Name: name, Score: StartingScore, reporter: reporter}
}

func (u *User) String() string {
	return fmt.Sprintf("%s (Score: %d)", u.Name, u.Score)
}

// Say sends content to the user's current opponent. It is dropped when the
// user is not in a match.
func (u *User) Say(content string) {
	if u.mediator == nil {
		return
	}
	u.mediator.Send(Message{SenderID: u.ID, Content: content, Time: time.Now()}, u)
}

func (u *User) receive(m Message) {
	u.inbox = append(u.inbox, m)
	u.reporter.Report("User %s received message from %s: %s", u.Name, m.SenderID, m.Content)
}

// Inbox returns the messages this user has received.
func (u *User) Inbox() []Message {
	out := make([]Message, len(u.inbox))
	copy(out, u.inbox)
	return out
}

// MoveResult is the outcome of one move attempt. Rejected moves carry the
// reason and leave the match unchanged.
type MoveResult struct {
	OK        bool   `json:"ok"`
	Reason    string `json:"reason,omitempty"`
	Check     bool   `json:"check,omitempty"`
	Checkmate bool   `json:"checkmate,omitempty"`
	Stalemate bool   `json:"stalemate,omitempty"`
}

const (
	ReasonNotInProgress = "Game is not in progress!"
	ReasonNotYourTurn   = "It's not your turn!"
	ReasonInvalidPiece  = "Invalid piece selection!"
	ReasonInvalidMove   = "Invalid move!"
)

// Match is the entity: a board, two players, whose turn it is, and the chat
// between them.
type Match struct {
	ID    string
	White *User
	Black *User

	board   *Board
	rules   Rules
	turn    Color
	winner  *User
	reason  string
	history []Move
	chat    []Message

	fsm        *state.BaseStateMachine
	inProgress state.State
	completed  state.State
	reporter   state.Reporter
}

// NewMatch starts a match from the initial position.
func NewMatch(id string, white, black *User, reporter state.Reporter) *Match {
	return NewMatchFromBoard(id, white, black, NewBoard(), reporter)
}

// NewMatchFromBoard starts a match from an arbitrary position, white to move.
func NewMatchFromBoard(id string, white, black *User, b *Board, reporter state.Reporter) *Match {
	if reporter == nil {
		reporter = state.Discard
	}
	m := &Match{
		ID:         id,
		White:      white,
		Black:      black,
		board:      b,
		rules:      StandardRules{},
		turn:       White,
		inProgress: &state.Base{ID: InProgress},
		completed:  &state.Base{ID: Completed},
		reporter:   reporter,
	}
	m.fsm = state.NewBaseStateMachine("chess", m.inProgress)
	white.mediator = m
	black.mediator = m
	reporter.Report("Match started between %s (White) and %s (Black)", white.Name, black.Name)
	return m
}

func (m *Match) Subscribe(o state.Observer) { m.fsm.Subscribe(o) }

func (m *Match) Board() *Board     { return m.board }
func (m *Match) Turn() Color       { return m.turn }
func (m *Match) Winner() *User     { return m.winner }
func (m *Match) EndReason() string { return m.reason }
func (m *Match) Status() string    { return m.fsm.GetCurrentState().GetID() }
func (m *Match) History() []Move   { return slices.Clone(m.history) }
func (m *Match) Chat() []Message   { return slices.Clone(m.chat) }

func (m *Match) colorOf(u *User) (Color, error) {
	switch u {
	case m.White:
		return White, nil
	case m.Black:
		return Black, nil
	default:
		return White, ErrNotInMatch
	}
}

func (m *Match) player(c Color) *User {
	if c == White {
		return m.White
	}
	return m.Black
}

func (m *Match) reject(reason string) MoveResult {
	m.reporter.Report("%s", reason)
	if m.Status() == InProgress {
		_ = m.fsm.Fire("move", m.inProgress)
	}
	return MoveResult{Reason: reason}
}

// Move plays from→to for player. A player who is not in the match is an
// error; every other failure is a rejected MoveResult.
func (m *Match) Move(from, to Position, player *User) (MoveResult, error) {
	c, err := m.colorOf(player)
	if err != nil {
		return MoveResult{}, err
	}
	if m.Status() != InProgress {
		return m.reject(ReasonNotInProgress), nil
	}
	if c != m.turn {
		return m.reject(ReasonNotYourTurn), nil
	}
	p := m.board.Piece(from)
	if p == nil || p.Color != c {
		return m.reject(ReasonInvalidPiece), nil
	}

	mv := Move{From: from, To: to, Piece: p, Captured: m.board.Piece(to)}
	if !to.Valid() || !m.rules.IsValidMove(mv, m.board) {
		return m.reject(ReasonInvalidMove), nil
	}

	m.board.Move(from, to)
	m.history = append(m.history, mv)
	m.reporter.Report("%s moved %s from %s to %s", player.Name, p.Type.Symbol(), from.Notation(), to.Notation())

	opp := c.Opponent()
	switch {
	case m.rules.IsCheckmate(opp, m.board):
		m.end(player, "checkmate")
		return MoveResult{OK: true, Check: true, Checkmate: true}, nil
	case m.rules.IsStalemate(opp, m.board):
		// Stalemate still credits the player who made the last move.
		m.end(player, "stalemate")
		return MoveResult{OK: true, Stalemate: true}, nil
	}

	m.turn = opp
	_ = m.fsm.Fire("move", m.inProgress)
	res := MoveResult{OK: true}
	if m.rules.IsInCheck(opp, m.board) {
		res.Check = true
		m.reporter.Report("%s is in check!", m.player(opp).Name)
	}
	return res, nil
}

// Quit ends the match in the opponent's favour and charges the quitter an
// extra penalty on top of the loss.
func (m *Match) Quit(player *User) error {
	c, err := m.colorOf(player)
	if err != nil {
		return err
	}
	if m.Status() != InProgress {
		return nil
	}
	m.end(m.player(c.Opponent()), "quit")
	player.Score -= QuitPenalty
	m.reporter.Report("%s quit the game. Score decreased by %d.", player.Name, QuitPenalty)
	return nil
}

func (m *Match) end(winner *User, reason string) {
	m.winner = winner
	m.reason = reason
	_ = m.fsm.Fire(reason, m.completed)

	loser := m.White
	if winner == m.White {
		loser = m.Black
	}
	winner.Score += WinPoints
	loser.Score -= LossPoints
	m.reporter.Report("Game ended - %s wins by %s!", winner.Name, reason)
	m.reporter.Report("Score update: %s +%d, %s -%d", winner.Name, WinPoints, loser.Name, LossPoints)

	m.White.mediator = nil
	m.Black.mediator = nil
}

// Send relays a chat message to the other player. Messages from users
// outside the match are dropped.
func (m *Match) Send(msg Message, from *User) {
	c, err := m.colorOf(from)
	if err != nil {
		m.reporter.Report("Chat in match %s dropped: %s is not playing", m.ID, from.Name)
		return
	}
	m.chat = append(m.chat, msg)
	m.player(c.Opponent()).receive(msg)
	m.reporter.Report("Chat in match %s - %s", m.ID, msg.Content)
}

// Over reports whether the match has finished.
func (m *Match) Over() bool {
	return m.Status() == Completed
}

// Action is one driver action: a move in algebraic squares, a quit, or a
// chat line, on behalf of PlayerID.
type Action struct {
	PlayerID string `json:"player_id"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Quit     bool   `json:"quit,omitempty"`
	Say      string `json:"say,omitempty"`
}

func (m *Match) userByID(id string) (*User, error) {
	switch id {
	case m.White.ID:
		return m.White, nil
	case m.Black.ID:
		return m.Black, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotInMatch, id)
	}
}

// Step applies a; malformed squares and unknown players are errors.
func (m *Match) Step(a Action) error {
	u, err := m.userByID(a.PlayerID)
	if err != nil {
		return err
	}
	switch {
	case a.Quit:
		return m.Quit(u)
	case a.Say != "":
		u.Say(a.Say)
		return nil
	}

	from, err := ParseNotation(a.From)
	if err != nil {
		return err
	}
	to, err := ParseNotation(a.To)
	if err != nil {
		return err
	}
	_, err = m.Move(from, to, u)
	return err
}

func (m *Match) Done() bool {
	return m.Over()
}
