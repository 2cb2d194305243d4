package splitwise

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sheet builds a consistent balance sheet from (creditor, debtor, amount) triples.
func sheet(members []string, debts ...any) Balances {
	b := make(Balances)
	for _, m := range members {
		b[m] = make(map[string]float64)
	}
	for i := 0; i < len(debts); i += 3 {
		c, d, amt := debts[i].(string), debts[i+1].(string), debts[i+2].(float64)
		b[c][d] += amt
		b[d][c] -= amt
	}
	return b
}

func TestSimplifyDebts_Chain(t *testing.T) {
	// a owes b 10, b owes c 10: collapses to a owes c 10.
	in := sheet([]string{"a", "b", "c"}, "b", "a", 10.0, "c", "b", 10.0)
	out := SimplifyDebts(in)

	assert.Equal(t, 1, out.Pairs())
	assert.InDelta(t, 10.0, out["c"]["a"], 1e-9)
	assert.InDelta(t, -10.0, out["a"]["c"], 1e-9)
	assert.Empty(t, out["b"])
}

func TestSimplifyDebts_Empty(t *testing.T) {
	out := SimplifyDebts(sheet([]string{"a", "b"}))
	assert.Len(t, out, 2)
	assert.Equal(t, 0, out.Pairs())
}

func TestSimplifyDebts_NaturalTieOrder(t *testing.T) {
	// Equal creditors: user2 sorts before user10, so it is paired first.
	in := sheet([]string{"user1", "user2", "user10"},
		"user2", "user1", 50.0,
		"user10", "user1", 50.0,
	)
	out := SimplifyDebts(in)
	assert.InDelta(t, 50.0, out["user2"]["user1"], 1e-9)
	assert.InDelta(t, 50.0, out["user10"]["user1"], 1e-9)
}

func TestSimplifyDebts_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		n := 2 + rng.Intn(7)
		members := make([]string, n)
		for i := range members {
			members[i] = fmt.Sprintf("user%d", i+1)
		}

		var debts []any
		count := rng.Intn(15)
		for k := 0; k < count; k++ {
			c, d := rng.Intn(n), rng.Intn(n)
			if c == d {
				continue
			}
			debts = append(debts, members[c], members[d], float64(1+rng.Intn(500)))
		}
		in := sheet(members, debts...)
		before := in.Net()

		out := SimplifyDebts(in)
		after := out.Net()

		creditors, debtors := 0, 0
		for _, id := range members {
			require.InDelta(t, before[id], after[id], 0.05, "net of %s in round %d", id, round)
			switch {
			case before[id] > epsilon:
				creditors++
			case before[id] < -epsilon:
				debtors++
			}
		}

		if creditors+debtors > 0 {
			assert.LessOrEqual(t, out.Pairs(), creditors+debtors-1, "round %d", round)
		} else {
			assert.Equal(t, 0, out.Pairs())
		}

		var total float64
		for _, v := range after {
			total += v
		}
		assert.InDelta(t, 0.0, total, 1e-6)
	}
}
