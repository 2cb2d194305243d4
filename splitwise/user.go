package splitwise

import (
	"math"

	"github.com/wfunc/turnsim/state"
)

// epsilon is the smallest balance worth keeping. Anything closer to zero is
// treated as settled.
const epsilon = 0.01

// Observer receives group notifications.
type Observer interface {
	Update(message string)
}

// User is a person with balances against other users outside any group.
// A positive balance means the other user owes this one.
type User struct {
	ID    string
	Name  string
	Email string

	balances map[string]float64
	reporter state.Reporter
}

func newUser(id, name, email string, reporter state.Reporter) *User {
	return &User{
		ID:       id,
		Name:     name,
		Email:    email,
		balances: make(map[string]float64),
		reporter: reporter,
	}
}

func (u *User) Update(message string) {
	u.reporter.Report("[NOTIFICATION to %s]: %s", u.Name, message)
}

func (u *User) updateBalance(otherID string, amount float64) {
	u.balances[otherID] += amount
	if math.Abs(u.balances[otherID]) < epsilon {
		delete(u.balances, otherID)
	}
}

// Balances returns a copy of the individual balance sheet.
func (u *User) Balances() map[string]float64 {
	out := make(map[string]float64, len(u.balances))
	for k, v := range u.balances {
		out[k] = v
	}
	return out
}

// TotalOwed is what this user owes everybody else.
func (u *User) TotalOwed() float64 {
	var total float64
	for _, b := range u.balances {
		if b < 0 {
			total += -b
		}
	}
	return total
}

// TotalOwing is what everybody else owes this user.
func (u *User) TotalOwing() float64 {
	var total float64
	for _, b := range u.balances {
		if b > 0 {
			total += b
		}
	}
	return total
}
