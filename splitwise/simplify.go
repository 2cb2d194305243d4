package splitwise

import (
	"sort"

	"facette.io/natsort"
)

// Balances is a group balance sheet: Balances[a][b] > 0 means b owes a.
type Balances map[string]map[string]float64

// Clone returns a deep copy.
func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for id, row := range b {
		r := make(map[string]float64, len(row))
		for other, amt := range row {
			r[other] = amt
		}
		out[id] = r
	}
	return out
}

// Net returns each member's net position: positive for creditors.
func (b Balances) Net() map[string]float64 {
	net := make(map[string]float64, len(b))
	for id := range b {
		net[id] = 0
	}
	for creditor, row := range b {
		for debtor, amt := range row {
			// Each debt appears twice with opposite signs; count the positive side.
			if amt > 0 {
				net[creditor] += amt
				net[debtor] -= amt
			}
		}
	}
	return net
}

// Pairs counts the debts in the sheet, one per positive entry.
func (b Balances) Pairs() int {
	n := 0
	for _, row := range b {
		for _, amt := range row {
			if amt > 0 {
				n++
			}
		}
	}
	return n
}

type position struct {
	id     string
	amount float64
}

// SimplifyDebts rewrites a balance sheet so that every member keeps the same
// net position with as few pairwise debts as the greedy pairing finds: the
// largest creditor is matched with the largest debtor until one of them is
// settled. Members present in the input keep an entry in the output even when
// they end up with nothing owed.
func SimplifyDebts(balances Balances) Balances {
	net := balances.Net()

	ids := make([]string, 0, len(net))
	for id := range net {
		ids = append(ids, id)
	}
	// Natural order first so ties in amount resolve the same way every run.
	natsort.Sort(ids)

	var creditors, debtors []position
	for _, id := range ids {
		switch amt := net[id]; {
		case amt > epsilon:
			creditors = append(creditors, position{id, amt})
		case amt < -epsilon:
			debtors = append(debtors, position{id, -amt})
		}
	}
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount > creditors[j].amount })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount > debtors[j].amount })

	simplified := make(Balances, len(balances))
	for id := range balances {
		simplified[id] = make(map[string]float64)
	}

	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		c, d := &creditors[i], &debtors[j]
		amt := min(c.amount, d.amount)

		if simplified[c.id] == nil {
			simplified[c.id] = make(map[string]float64)
		}
		if simplified[d.id] == nil {
			simplified[d.id] = make(map[string]float64)
		}
		simplified[c.id][d.id] = amt
		simplified[d.id][c.id] = -amt

		c.amount -= amt
		d.amount -= amt
		if c.amount < epsilon {
			i++
		}
		if d.amount < epsilon {
			j++
		}
	}
	return simplified
}
