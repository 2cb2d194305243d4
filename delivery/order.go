package delivery

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.uber.org/atomic"

	"github.com/wfunc/turnsim/state"
)

var (
	ErrNoStoreNearby   = errors.New("no dark stores in range")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// DefaultRadius is how far, in km, the order manager looks for stores.
const DefaultRadius = 5.0

type Line struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type Cart struct {
	lines []Line
}

func (c *Cart) Add(sku, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("sku %d: %w", sku, ErrInvalidQuantity)
	}
	c.lines = append(c.lines, Line{Product: ProductFor(sku), Quantity: qty})
	return nil
}

func (c *Cart) Lines() []Line {
	return slices.Clone(c.lines)
}

func (c *Cart) Total() float64 {
	var sum float64
	for _, l := range c.lines {
		sum += l.Product.Price * float64(l.Quantity)
	}
	return sum
}

type Customer struct {
	Name string
	X, Y float64
	Cart Cart
}

// Order is a placed cart. Partners holds one delivery partner per store
// that supplied something; Unfulfilled is what no nearby store could
// supply.
type Order struct {
	ID          int64       `json:"id"`
	Customer    string      `json:"customer"`
	Items       []Line      `json:"items"`
	Partners    []string    `json:"partners"`
	Total       float64     `json:"total"`
	Unfulfilled map[int]int `json:"unfulfilled,omitempty"`
}

// Split reports whether the order needed more than one store.
func (o *Order) Split() bool {
	return len(o.Partners) > 1
}

type OrderManager struct {
	registry *Registry
	radius   float64
	seq      atomic.Int64
	reporter state.Reporter

	mu     sync.Mutex
	orders []*Order
}

func NewOrderManager(registry *Registry, reporter state.Reporter) *OrderManager {
	if reporter == nil {
		reporter = state.Discard
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &OrderManager{registry: registry, radius: DefaultRadius, reporter: reporter}
}

// Place fulfils the customer's cart. When the nearest store has every line
// it ships from there with one partner; otherwise stores are visited
// nearest first and each takes what it can of every outstanding SKU.
func (m *OrderManager) Place(c *Customer) (*Order, error) {
	lines := c.Cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	m.reporter.Report("[OrderManager] Placing Order for: %s", c.Name)
	stores := m.registry.Nearby(c.X, c.Y, m.radius)
	if len(stores) == 0 {
		m.reporter.Report("  No dark stores within %g KM. Cannot fulfill order.", m.radius)
		return nil, fmt.Errorf("%s at (%g, %g): %w", c.Name, c.X, c.Y, ErrNoStoreNearby)
	}

	order := &Order{ID: m.seq.Inc(), Customer: c.Name}
	if nearest := stores[0]; hasAll(nearest, lines) {
		m.reporter.Report("  All items at: %s", nearest.Name)
		for _, l := range lines {
			nearest.RemoveStock(l.Product.SKU, l.Quantity)
			order.Items = append(order.Items, l)
		}
		order.Total = c.Cart.Total()
		order.Partners = []string{"Partner1"}
		m.reporter.Report("  Assigned Delivery Partner: Partner1")
	} else {
		m.split(order, stores, lines)
	}

	m.summarise(order)

	m.mu.Lock()
	m.orders = append(m.orders, order)
	m.mu.Unlock()
	return order, nil
}

func hasAll(s *Store, lines []Line) bool {
	for _, l := range lines {
		if s.Stock(l.Product.SKU) < l.Quantity {
			return false
		}
	}
	return true
}

func (m *OrderManager) split(order *Order, stores []*Store, lines []Line) {
	m.reporter.Report("  Splitting order across stores...")

	// A later line for the same SKU replaces the earlier quantity.
	need := make(map[int]int, len(lines))
	for _, l := range lines {
		need[l.Product.SKU] = l.Quantity
	}

	partner := 1
	for _, s := range stores {
		if len(need) == 0 {
			break
		}
		m.reporter.Report("   Checking: %s", s.Name)

		assigned := false
		for _, sku := range slices.Sorted(maps.Keys(need)) {
			available := s.Stock(sku)
			if available <= 0 {
				continue
			}
			taken := min(available, need[sku])
			s.RemoveStock(sku, taken)
			m.reporter.Report("     %s supplies SKU %d x%d", s.Name, sku, taken)
			order.Items = append(order.Items, Line{Product: ProductFor(sku), Quantity: taken})

			if need[sku] > taken {
				need[sku] -= taken
			} else {
				delete(need, sku)
			}
			assigned = true
		}

		if assigned {
			name := fmt.Sprintf("Partner%d", partner)
			partner++
			order.Partners = append(order.Partners, name)
			m.reporter.Report("     Assigned: %s for %s", name, s.Name)
		}
	}

	if len(need) > 0 {
		order.Unfulfilled = need
		m.reporter.Report("  Could not fulfill:")
		for _, sku := range slices.Sorted(maps.Keys(need)) {
			m.reporter.Report("    SKU %d x%d", sku, need[sku])
		}
	}

	for _, l := range order.Items {
		order.Total += l.Product.Price * float64(l.Quantity)
	}
}

func (m *OrderManager) summarise(o *Order) {
	m.reporter.Report("[OrderManager] Order #%d Summary:", o.ID)
	m.reporter.Report("  User: %s", o.Customer)
	for _, l := range o.Items {
		m.reporter.Report("    SKU %d (%s) x%d @ Rs %g", l.Product.SKU, l.Product.Name, l.Quantity, l.Product.Price)
	}
	m.reporter.Report("  Total: Rs %g", o.Total)
	for _, p := range o.Partners {
		m.reporter.Report("    %s", p)
	}
}

func (m *OrderManager) Orders() []*Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.orders)
}
