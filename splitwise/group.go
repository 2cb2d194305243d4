package splitwise

import (
	"fmt"
	"math"

	"github.com/wfunc/turnsim/state"
)

// Expense is one entry in an expense book. GroupID is empty for expenses
// between two users outside any group.
type Expense struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	PaidBy      string  `json:"paid_by"`
	Splits      []Split `json:"splits"`
	GroupID     string  `json:"group_id,omitempty"`
}

// Group owns its members, its expense book and its balance sheet. Members
// are notified of every expense and settlement.
type Group struct {
	ID   string
	Name string

	members  []*User
	expenses map[string]*Expense
	balances Balances
	reporter state.Reporter
	nextID   func() string
}

func newGroup(id, name string, reporter state.Reporter, nextExpenseID func() string) *Group {
	return &Group{
		ID:       id,
		Name:     name,
		expenses: make(map[string]*Expense),
		balances: make(Balances),
		reporter: reporter,
		nextID:   nextExpenseID,
	}
}

func (g *Group) member(id string) *User {
	for _, m := range g.members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (g *Group) IsMember(userID string) bool {
	_, ok := g.balances[userID]
	return ok
}

// Members returns the members in the order they joined.
func (g *Group) Members() []*User {
	out := make([]*User, len(g.members))
	copy(out, g.members)
	return out
}

// Expenses returns the group's expense book keyed by expense ID.
func (g *Group) Expenses() map[string]*Expense {
	out := make(map[string]*Expense, len(g.expenses))
	for k, v := range g.expenses {
		out[k] = v
	}
	return out
}

func (g *Group) AddMember(u *User) {
	if g.IsMember(u.ID) {
		return
	}
	g.members = append(g.members, u)
	g.balances[u.ID] = make(map[string]float64)
	g.reporter.Report("%s added to group %s", u.Name, g.Name)
}

// CanLeave reports whether userID has no outstanding balance in the group.
func (g *Group) CanLeave(userID string) (bool, error) {
	if !g.IsMember(userID) {
		return false, ErrNotMember
	}
	for _, amt := range g.balances[userID] {
		if math.Abs(amt) > epsilon {
			return false, nil
		}
	}
	return true, nil
}

// RemoveMember drops userID from the group. It is refused, with false and no
// error, while the member still owes or is owed anything.
func (g *Group) RemoveMember(userID string) (bool, error) {
	ok, err := g.CanLeave(userID)
	if err != nil {
		return false, err
	}
	if !ok {
		g.reporter.Report("User not allowed to leave group without clearing expenses")
		return false, nil
	}

	for i, m := range g.members {
		if m.ID == userID {
			g.members = append(g.members[:i], g.members[i+1:]...)
			break
		}
	}
	delete(g.balances, userID)
	for _, row := range g.balances {
		delete(row, userID)
	}
	return true, nil
}

func (g *Group) notify(message string) {
	for _, m := range g.members {
		m.Update(message)
	}
}

// updateBalance records that from is owed amount more by to.
func (g *Group) updateBalance(from, to string, amount float64) {
	g.balances[from][to] += amount
	g.balances[to][from] -= amount

	if math.Abs(g.balances[from][to]) < epsilon {
		delete(g.balances[from], to)
	}
	if math.Abs(g.balances[to][from]) < epsilon {
		delete(g.balances[to], from)
	}
}

// AddExpense splits amount between involved using splitType and charges each
// share other than the payer's to the payer's side of the sheet.
func (g *Group) AddExpense(description string, amount float64, paidBy string, involved []string, splitType SplitType, values ...float64) (*Expense, error) {
	// Also rejects NaN.
	if !(amount > 0) {
		return nil, ErrInvalidAmount
	}
	if !g.IsMember(paidBy) {
		return nil, fmt.Errorf("%w: payer %s", ErrNotMember, paidBy)
	}
	for _, id := range involved {
		if !g.IsMember(id) {
			return nil, fmt.Errorf("%w: %s", ErrNotMember, id)
		}
	}

	splits, err := StrategyFor(splitType).Calculate(amount, involved, values)
	if err != nil {
		return nil, err
	}

	e := &Expense{
		ID:          g.nextID(),
		Description: description,
		Amount:      amount,
		PaidBy:      paidBy,
		Splits:      splits,
		GroupID:     g.ID,
	}
	g.expenses[e.ID] = e

	for _, s := range splits {
		if s.UserID != paidBy {
			g.updateBalance(paidBy, s.UserID, s.Amount)
		}
	}

	g.notify(fmt.Sprintf("New expense added: %s (Rs %.2f)", description, amount))
	g.reporter.Report("Expense added to %s: %s (Rs %.2f) paid by %s, split %s between %d people",
		g.Name, description, amount, g.member(paidBy).Name, splitType, len(involved))
	return e, nil
}

// Settle records a payment of amount from one member to another.
func (g *Group) Settle(from, to string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !g.IsMember(from) || !g.IsMember(to) {
		return ErrNotMember
	}

	g.updateBalance(from, to, amount)

	fromName, toName := g.member(from).Name, g.member(to).Name
	g.notify(fmt.Sprintf("Settlement: %s paid %s Rs %.2f", fromName, toName, amount))
	g.reporter.Report("Settlement in %s: %s settled Rs %.2f with %s", g.Name, fromName, amount, toName)
	return nil
}

// MemberBalances returns userID's row of the balance sheet.
func (g *Group) MemberBalances(userID string) (map[string]float64, error) {
	if !g.IsMember(userID) {
		return nil, ErrNotMember
	}
	row := g.balances[userID]
	out := make(map[string]float64, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out, nil
}

// Balances returns a copy of the whole sheet.
func (g *Group) Balances() Balances {
	return g.balances.Clone()
}

// Simplify replaces the balance sheet with its simplified form.
func (g *Group) Simplify() {
	g.balances = SimplifyDebts(g.balances)
	g.reporter.Report("Debts have been simplified for group: %s", g.Name)
}
