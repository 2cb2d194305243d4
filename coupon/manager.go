package coupon

import (
	"sync"

	"github.com/wfunc/turnsim/lazy"
	"github.com/wfunc/turnsim/state"
)

// Applied records one coupon that took money off.
type Applied struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type link struct {
	coupon Coupon
	next   *link
}

// apply runs the chain from l: an applicable coupon takes its discount, and a
// non-combinable one ends the chain.
func (l *link) apply(c *Cart, applied []Applied, reporter state.Reporter) []Applied {
	for cur := l; cur != nil; cur = cur.next {
		if !cur.coupon.Applicable(c) {
			continue
		}
		d := cur.coupon.Discount(c)
		c.applyDiscount(d)
		applied = append(applied, Applied{Name: cur.coupon.Name(), Amount: d})
		reporter.Report("%s applied: %.2f", cur.coupon.Name(), d)
		if !cur.coupon.Combinable() {
			break
		}
	}
	return applied
}

// Manager owns the registered coupon chain.
type Manager struct {
	mu       sync.Mutex
	head     *link
	tail     *link
	reporter state.Reporter
}

var instance = lazy.New(func() *Manager {
	return NewManager(nil)
})

// Instance returns the process-wide manager.
func Instance() *Manager {
	return instance.Get()
}

func NewManager(reporter state.Reporter) *Manager {
	if reporter == nil {
		reporter = state.Discard
	}
	return &Manager{reporter: reporter}
}

// Register appends coupon to the end of the chain.
func (m *Manager) Register(coupon Coupon) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := &link{coupon: coupon}
	if m.head == nil {
		m.head = l
	} else {
		m.tail.next = l
	}
	m.tail = l
}

// Applicable names every registered coupon whose condition c meets.
func (m *Manager) Applicable(c *Cart) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var names []string
	for cur := m.head; cur != nil; cur = cur.next {
		if cur.coupon.Applicable(c) {
			names = append(names, cur.coupon.Name())
		}
	}
	return names
}

// ApplyAll runs the chain against c and returns the final total.
func (m *Manager) ApplyAll(c *Cart) (float64, []Applied) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var applied []Applied
	if m.head != nil {
		applied = m.head.apply(c, nil, m.reporter)
	}
	return c.CurrentTotal(), applied
}
