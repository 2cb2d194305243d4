package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/turnsim/state"
)

func names(stores []*Store) []string {
	out := make([]string, len(stores))
	for i, s := range stores {
		out[i] = s.Name
	}
	return out
}

func newCity(rec state.Reporter) (*Registry, map[string]*Store) {
	a := NewStore("DarkStoreA", 0, 0, rec)
	a.AddStock(101, 5)
	a.AddStock(102, 2)

	b := NewStore("DarkStoreB", 4, 1, rec)
	b.AddStock(101, 3)
	b.AddStock(103, 10)

	c := NewStore("DarkStoreC", 2, 3, rec)
	c.AddStock(102, 5)
	c.AddStock(201, 7)

	r := &Registry{}
	for _, s := range []*Store{a, b, c} {
		s.SetReplenisher(Threshold{Threshold: 3, Reporter: rec})
		r.Register(s)
	}
	return r, map[string]*Store{"A": a, "B": b, "C": c}
}

func TestRegistry_NearbyOrdersByDistance(t *testing.T) {
	r, _ := newCity(nil)

	assert.Equal(t, []string{"DarkStoreA", "DarkStoreC", "DarkStoreB"}, names(r.Nearby(1, 1, 5)))
	assert.Equal(t, []string{"DarkStoreA"}, names(r.Nearby(1, 1, 2)))
	assert.Empty(t, r.Nearby(50, 50, 5))
}

func TestRegistry_NearbyIsStable(t *testing.T) {
	r := &Registry{}
	for _, n := range []string{"east", "north", "west", "south"} {
		var x, y float64
		switch n {
		case "east":
			x = 1
		case "west":
			x = -1
		case "north":
			y = 1
		case "south":
			y = -1
		}
		r.Register(NewStore(n, x, y, nil))
	}
	r.Register(NewStore("centre", 0, 0, nil))

	assert.Equal(t, []string{"centre", "east", "north", "west", "south"}, names(r.Nearby(0, 0, 1)))
}

func TestRegistry_Catalog(t *testing.T) {
	r, _ := newCity(nil)

	var skus []int
	for _, p := range r.Catalog(1, 1, DefaultRadius) {
		skus = append(skus, p.SKU)
	}
	assert.Equal(t, []int{101, 102, 103, 201}, skus)
}

func TestInventory_RemoveDropsEmptySKU(t *testing.T) {
	inv := NewInventory(nil)
	inv.Add(101, 2)
	inv.Remove(101, 5)
	inv.Remove(999, 1)

	assert.Zero(t, inv.Stock(101))
	assert.Empty(t, inv.Available())
}

func TestProductFor(t *testing.T) {
	assert.Equal(t, Product{SKU: 202, Name: "Jeans", Price: 1000}, ProductFor(202))
	assert.Equal(t, Product{SKU: 7, Name: "Item7", Price: 100}, ProductFor(7))
}

func TestOrderManager_SingleStore(t *testing.T) {
	r, stores := newCity(nil)
	m := NewOrderManager(r, nil)

	c := &Customer{Name: "Aditya", X: 1, Y: 1}
	require.NoError(t, c.Cart.Add(101, 2))
	require.NoError(t, c.Cart.Add(102, 1))

	o, err := m.Place(c)
	require.NoError(t, err)
	assert.Equal(t, int64(1), o.ID)
	assert.Equal(t, []string{"Partner1"}, o.Partners)
	assert.False(t, o.Split())
	assert.InDelta(t, 50.0, o.Total, 1e-9)
	assert.Equal(t, 3, stores["A"].Stock(101))
	assert.Equal(t, 1, stores["A"].Stock(102))
}

func TestOrderManager_SplitAcrossStores(t *testing.T) {
	rec := &state.Recorder{}
	r, stores := newCity(rec)
	m := NewOrderManager(r, rec)
	rec.Drain()

	c := &Customer{Name: "Aditya", X: 1, Y: 1}
	require.NoError(t, c.Cart.Add(101, 4))
	require.NoError(t, c.Cart.Add(102, 3))
	require.NoError(t, c.Cart.Add(103, 2))

	o, err := m.Place(c)
	require.NoError(t, err)

	assert.True(t, o.Split())
	assert.Equal(t, []string{"Partner1", "Partner2", "Partner3"}, o.Partners)
	assert.Equal(t, []Line{
		{Product: ProductFor(101), Quantity: 4},
		{Product: ProductFor(102), Quantity: 2},
		{Product: ProductFor(102), Quantity: 1},
		{Product: ProductFor(103), Quantity: 2},
	}, o.Items)
	assert.InDelta(t, 210.0, o.Total, 1e-9)
	assert.Empty(t, o.Unfulfilled)

	assert.Equal(t, 1, stores["A"].Stock(101))
	assert.Zero(t, stores["A"].Stock(102))
	assert.Equal(t, 4, stores["C"].Stock(102))
	assert.Equal(t, 8, stores["B"].Stock(103))

	assert.Contains(t, rec.Messages, "  Splitting order across stores...")
	assert.Contains(t, rec.Messages, "     Assigned: Partner2 for DarkStoreC")
	assert.Len(t, m.Orders(), 1)

	stores["A"].Replenish(map[int]int{101: 5, 102: 5})
	assert.Equal(t, 6, stores["A"].Stock(101))
	assert.Equal(t, 5, stores["A"].Stock(102))
}

func TestOrderManager_Unfulfilled(t *testing.T) {
	r, _ := newCity(nil)
	m := NewOrderManager(r, nil)

	c := &Customer{Name: "Neha", X: 1, Y: 1}
	require.NoError(t, c.Cart.Add(202, 1))
	require.NoError(t, c.Cart.Add(101, 10))

	o, err := m.Place(c)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{101: 2, 202: 1}, o.Unfulfilled)
	assert.Equal(t, []string{"Partner1", "Partner2"}, o.Partners)
	assert.InDelta(t, 160.0, o.Total, 1e-9)
}

func TestOrderManager_Errors(t *testing.T) {
	r, _ := newCity(nil)
	m := NewOrderManager(r, nil)

	_, err := m.Place(&Customer{Name: "empty"})
	require.ErrorIs(t, err, ErrEmptyCart)

	far := &Customer{Name: "far", X: 100, Y: 100}
	require.NoError(t, far.Cart.Add(101, 1))
	_, err = m.Place(far)
	require.ErrorIs(t, err, ErrNoStoreNearby)

	require.ErrorIs(t, far.Cart.Add(101, 0), ErrInvalidQuantity)
}

func TestWeekly_OnlyReports(t *testing.T) {
	rec := &state.Recorder{}
	s := NewStore("w", 0, 0, nil)
	s.AddStock(101, 1)
	s.SetReplenisher(Weekly{Reporter: rec})
	s.Replenish(map[int]int{101: 10})

	assert.Equal(t, 1, s.Stock(101))
	assert.Equal(t, "[WeeklyReplenish] Weekly replenishment triggered for inventory.", rec.Last())
}
