// Package splitwise tracks shared expenses between users and inside groups
// and can collapse a group's debts into fewer payments.
package splitwise

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"github.com/wfunc/turnsim/lazy"
	"github.com/wfunc/turnsim/state"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrGroupNotFound  = errors.New("group not found")
	ErrNotMember      = errors.New("user is not a part of this group")
	ErrInvalidSplit   = errors.New("invalid split")
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrNoParticipants = errors.New("no users to split between")
	ErrSelfExpense    = errors.New("payer and other user must differ")
)

// Splitwise is the facade over users, groups and individual expenses.
type Splitwise struct {
	mu       sync.Mutex
	users    map[string]*User
	groups   map[string]*Group
	expenses map[string]*Expense
	reporter state.Reporter

	userSeq    atomic.Int64
	groupSeq   atomic.Int64
	expenseSeq atomic.Int64
}

var instance = lazy.New(func() *Splitwise {
	return New(nil)
})

// Instance returns the process-wide facade.
func Instance() *Splitwise {
	return instance.Get()
}

// New returns an independent facade with its own ID counters.
func New(reporter state.Reporter) *Splitwise {
	if reporter == nil {
		reporter = state.Discard
	}
	return &Splitwise{
		users:    make(map[string]*User),
		groups:   make(map[string]*Group),
		expenses: make(map[string]*Expense),
		reporter: reporter,
	}
}

func (s *Splitwise) nextExpenseID() string {
	return fmt.Sprintf("expense%d", s.expenseSeq.Inc())
}

func (s *Splitwise) CreateUser(name, email string) *User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := newUser(fmt.Sprintf("user%d", s.userSeq.Inc()), name, email, s.reporter)
	s.users[u.ID] = u
	s.reporter.Report("User created: %s (ID: %s)", name, u.ID)
	return u
}

func (s *Splitwise) User(id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user(id)
}

func (s *Splitwise) user(id string) (*User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	return u, nil
}

func (s *Splitwise) CreateGroup(name string) *Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := newGroup(fmt.Sprintf("group%d", s.groupSeq.Inc()), name, s.reporter, s.nextExpenseID)
	s.groups[g.ID] = g
	s.reporter.Report("Group created: %s (ID: %s)", name, g.ID)
	return g
}

func (s *Splitwise) Group(id string) (*Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.group(id)
}

func (s *Splitwise) group(id string) (*Group, error) {
	g, ok := s.groups[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	return g, nil
}

func (s *Splitwise) AddUserToGroup(userID, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(userID)
	if err != nil {
		return err
	}
	g, err := s.group(groupID)
	if err != nil {
		return err
	}
	g.AddMember(u)
	return nil
}

// RemoveUserFromGroup returns false without an error when the user still has
// outstanding balances in the group.
func (s *Splitwise) RemoveUserFromGroup(userID, groupID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.group(groupID)
	if err != nil {
		return false, err
	}
	u, err := s.user(userID)
	if err != nil {
		return false, err
	}

	removed, err := g.RemoveMember(userID)
	if removed {
		s.reporter.Report("%s successfully left %s", u.Name, g.Name)
	}
	return removed, err
}

func (s *Splitwise) AddGroupExpense(groupID, description string, amount float64, paidBy string, involved []string, splitType SplitType, values ...float64) (*Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.group(groupID)
	if err != nil {
		return nil, err
	}
	return g.AddExpense(description, amount, paidBy, involved, splitType, values...)
}

func (s *Splitwise) SettleInGroup(groupID, from, to string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.group(groupID)
	if err != nil {
		return err
	}
	return g.Settle(from, to, amount)
}

func (s *Splitwise) SimplifyGroup(groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.group(groupID)
	if err != nil {
		return err
	}
	g.Simplify()
	return nil
}

// AddIndividualExpense records an expense between two users outside any
// group. The other user ends up owing their share of it to the payer.
func (s *Splitwise) AddIndividualExpense(description string, amount float64, paidBy, other string, splitType SplitType, values ...float64) (*Expense, error) {
	if !(amount > 0) {
		return nil, ErrInvalidAmount
	}
	if paidBy == other {
		return nil, ErrSelfExpense
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	payer, err := s.user(paidBy)
	if err != nil {
		return nil, err
	}
	debtor, err := s.user(other)
	if err != nil {
		return nil, err
	}

	splits, err := StrategyFor(splitType).Calculate(amount, []string{paidBy, other}, values)
	if err != nil {
		return nil, err
	}

	e := &Expense{
		ID:          s.nextExpenseID(),
		Description: description,
		Amount:      amount,
		PaidBy:      paidBy,
		Splits:      splits,
	}
	s.expenses[e.ID] = e

	share := splits[1].Amount
	payer.updateBalance(other, share)
	debtor.updateBalance(paidBy, -share)

	s.reporter.Report("Individual expense added: %s (Rs %.2f) paid by %s for %s", description, amount, payer.Name, debtor.Name)
	return e, nil
}

// SettleIndividual records a direct payment of amount from one user to another.
func (s *Splitwise) SettleIndividual(from, to string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	payer, err := s.user(from)
	if err != nil {
		return err
	}
	payee, err := s.user(to)
	if err != nil {
		return err
	}

	payer.updateBalance(to, amount)
	payee.updateBalance(from, -amount)
	s.reporter.Report("%s settled Rs %.2f with %s", payer.Name, amount, payee.Name)
	return nil
}

// UserBalance summarises a user's individual balances.
type UserBalance struct {
	Owed     float64            `json:"owed"`
	Owing    float64            `json:"owing"`
	Balances map[string]float64 `json:"balances"`
}

func (s *Splitwise) UserBalance(userID string) (UserBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(userID)
	if err != nil {
		return UserBalance{}, err
	}
	return UserBalance{Owed: u.TotalOwed(), Owing: u.TotalOwing(), Balances: u.Balances()}, nil
}
