package splitwise

import (
	"math"
	"testing"

	"github.com/alitto/pond/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/turnsim/state"
)

type hostel struct {
	sw    *Splitwise
	rec   *state.Recorder
	group *Group

	aditya, rohit, manish, saurav *User
}

func newHostel(t *testing.T) hostel {
	t.Helper()

	rec := &state.Recorder{}
	sw := New(rec)
	h := hostel{sw: sw, rec: rec}
	h.aditya = sw.CreateUser("Aditya", "aditya@gmail.com")
	h.rohit = sw.CreateUser("Rohit", "rohit@gmail.com")
	h.manish = sw.CreateUser("Manish", "manish@gmail.com")
	h.saurav = sw.CreateUser("Saurav", "saurav@gmail.com")

	h.group = sw.CreateGroup("Hostel Expenses")
	for _, u := range []*User{h.aditya, h.rohit, h.manish, h.saurav} {
		require.NoError(t, sw.AddUserToGroup(u.ID, h.group.ID))
	}
	return h
}

func TestSplitwise_IDs(t *testing.T) {
	h := newHostel(t)
	assert.Equal(t, "user1", h.aditya.ID)
	assert.Equal(t, "user4", h.saurav.ID)
	assert.Equal(t, "group1", h.group.ID)
}

func TestSplitwise_HostelScenario(t *testing.T) {
	h := newHostel(t)
	sw, g := h.sw, h.group
	all := []string{h.aditya.ID, h.rohit.ID, h.manish.ID, h.saurav.ID}

	lunch, err := sw.AddGroupExpense(g.ID, "Lunch", 800, h.aditya.ID, all, Equal)
	require.NoError(t, err)
	assert.Equal(t, "expense1", lunch.ID)

	_, err = sw.AddGroupExpense(g.ID, "Dinner", 700, h.manish.ID,
		[]string{h.aditya.ID, h.manish.ID, h.saurav.ID}, Exact, 200, 300, 200)
	require.NoError(t, err)

	row, err := g.MemberBalances(h.aditya.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{h.rohit.ID: 200, h.saurav.ID: 200}, row)

	require.NoError(t, sw.SimplifyGroup(g.ID))
	b := g.Balances()
	assert.InDelta(t, 400.0, b[h.aditya.ID][h.saurav.ID], 1e-9)
	assert.InDelta(t, 200.0, b[h.manish.ID][h.rohit.ID], 1e-9)
	assert.Equal(t, 2, b.Pairs())

	removed, err := sw.RemoveUserFromGroup(h.rohit.ID, g.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Contains(t, h.rec.Messages, "User not allowed to leave group without clearing expenses")

	require.NoError(t, sw.SettleInGroup(g.ID, h.rohit.ID, h.manish.ID, 200))

	removed, err = sw.RemoveUserFromGroup(h.rohit.ID, g.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, g.IsMember(h.rohit.ID))
	assert.Len(t, g.Members(), 3)
	assert.Len(t, g.Expenses(), 2)
}

func TestSplitwise_Notifications(t *testing.T) {
	h := newHostel(t)
	h.rec.Drain()

	_, err := h.sw.AddGroupExpense(h.group.ID, "Snacks", 40, h.rohit.ID, []string{h.rohit.ID, h.saurav.ID}, Equal)
	require.NoError(t, err)
	assert.Contains(t, h.rec.Messages, "[NOTIFICATION to Aditya]: New expense added: Snacks (Rs 40.00)")
	assert.Contains(t, h.rec.Messages, "[NOTIFICATION to Saurav]: New expense added: Snacks (Rs 40.00)")
}

func TestSplitwise_IndividualExpense(t *testing.T) {
	h := newHostel(t)

	_, err := h.sw.AddIndividualExpense("Coffee", 40, h.rohit.ID, h.saurav.ID, Equal)
	require.NoError(t, err)

	rohit, err := h.sw.UserBalance(h.rohit.ID)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, rohit.Owing, 1e-9)
	assert.Zero(t, rohit.Owed)

	saurav, err := h.sw.UserBalance(h.saurav.ID)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, saurav.Owed, 1e-9)

	require.NoError(t, h.sw.SettleIndividual(h.saurav.ID, h.rohit.ID, 20))
	saurav, err = h.sw.UserBalance(h.saurav.ID)
	require.NoError(t, err)
	assert.Empty(t, saurav.Balances)
}

func TestSplitwise_Errors(t *testing.T) {
	h := newHostel(t)
	outsider := h.sw.CreateUser("Outsider", "o@example.com")

	_, err := h.sw.Group("group9")
	require.ErrorIs(t, err, ErrGroupNotFound)

	_, err = h.sw.User("user99")
	require.ErrorIs(t, err, ErrUserNotFound)

	require.ErrorIs(t, h.sw.AddUserToGroup("user99", h.group.ID), ErrUserNotFound)

	_, err = h.sw.AddGroupExpense(h.group.ID, "x", 10, outsider.ID, []string{h.aditya.ID}, Equal)
	require.ErrorIs(t, err, ErrNotMember)

	_, err = h.sw.AddGroupExpense(h.group.ID, "x", 10, h.aditya.ID, []string{outsider.ID}, Equal)
	require.ErrorIs(t, err, ErrNotMember)

	_, err = h.sw.RemoveUserFromGroup(outsider.ID, h.group.ID)
	require.ErrorIs(t, err, ErrNotMember)

	require.ErrorIs(t, h.sw.SettleInGroup(h.group.ID, h.aditya.ID, outsider.ID, 5), ErrNotMember)
	require.ErrorIs(t, h.sw.SettleIndividual(h.aditya.ID, h.rohit.ID, 0), ErrInvalidAmount)
}

func TestSplitwise_RejectsNonPositiveExpenses(t *testing.T) {
	h := newHostel(t)
	pair := []string{h.aditya.ID, h.rohit.ID}

	for _, amount := range []float64{-100, 0, math.NaN()} {
		_, err := h.sw.AddGroupExpense(h.group.ID, "neg", amount, h.aditya.ID, pair, Equal)
		require.ErrorIs(t, err, ErrInvalidAmount)

		_, err = h.sw.AddIndividualExpense("neg", amount, h.aditya.ID, h.rohit.ID, Equal)
		require.ErrorIs(t, err, ErrInvalidAmount)
	}

	assert.Empty(t, h.group.Expenses())
	row, err := h.group.MemberBalances(h.aditya.ID)
	require.NoError(t, err)
	assert.Empty(t, row)

	rohit, err := h.sw.UserBalance(h.rohit.ID)
	require.NoError(t, err)
	assert.Empty(t, rohit.Balances)
}

func TestSplitwise_IndividualExpenseWithSelf(t *testing.T) {
	h := newHostel(t)
	h.rec.Drain()

	_, err := h.sw.AddIndividualExpense("Coffee", 40, h.aditya.ID, h.aditya.ID, Equal)
	require.ErrorIs(t, err, ErrSelfExpense)
	assert.Empty(t, h.rec.Messages)
}

func TestInstance_Singleton(t *testing.T) {
	pool := pond.NewPool(8)
	got := make([]*Splitwise, 64)
	for i := range got {
		pool.Submit(func() {
			got[i] = Instance()
		})
	}
	pool.StopAndWait()

	for _, sw := range got {
		assert.Same(t, got[0], sw)
	}
}
