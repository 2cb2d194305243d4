package delivery

import (
	"math"
	"slices"
	"sync"

	"github.com/wfunc/turnsim/lazy"
	"github.com/wfunc/turnsim/state"
)

// Store is a dark store: a warehouse at a fixed point that serves the
// customers around it.
type Store struct {
	Name string
	X, Y float64

	inventory   *Inventory
	replenisher Replenisher
}

func NewStore(name string, x, y float64, reporter state.Reporter) *Store {
	return &Store{Name: name, X: x, Y: y, inventory: NewInventory(reporter)}
}

func (s *Store) DistanceTo(x, y float64) float64 {
	return math.Hypot(s.X-x, s.Y-y)
}

func (s *Store) Inventory() *Inventory { return s.inventory }

func (s *Store) AddStock(sku, qty int) { s.inventory.Add(sku, qty) }

func (s *Store) RemoveStock(sku, qty int) { s.inventory.Remove(sku, qty) }

func (s *Store) Stock(sku int) int { return s.inventory.Stock(sku) }

func (s *Store) Products() []Product { return s.inventory.Available() }

func (s *Store) SetReplenisher(r Replenisher) { s.replenisher = r }

// Replenish runs the store's replenishment strategy, if it has one.
func (s *Store) Replenish(items map[int]int) {
	if s.replenisher != nil {
		s.replenisher.Replenish(s.inventory, items)
	}
}

// Registry knows every dark store.
type Registry struct {
	mu     sync.RWMutex
	stores []*Store
}

var defaultRegistry = lazy.New(func() *Registry { return &Registry{} })

// DefaultRegistry is the process-wide store registry.
func DefaultRegistry() *Registry {
	return defaultRegistry.Get()
}

func (r *Registry) Register(s *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores = append(r.stores, s)
}

func (r *Registry) Stores() []*Store {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.stores)
}

// Nearby returns the stores within maxDist of (x, y), closest first. Stores at
// the same distance keep their registration order.
func (r *Registry) Nearby(x, y, maxDist float64) []*Store {
	type candidate struct {
		store *Store
		dist  float64
	}

	r.mu.RLock()
	var found []candidate
	for _, s := range r.stores {
		if d := s.DistanceTo(x, y); d <= maxDist {
			found = append(found, candidate{s, d})
		}
	}
	r.mu.RUnlock()

	slices.SortStableFunc(found, func(a, b candidate) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		}
		return 0
	})

	out := make([]*Store, len(found))
	for i, c := range found {
		out[i] = c.store
	}
	return out
}

// Catalog lists every product in stock at a store within maxDist of (x, y),
// once per SKU, ordered by SKU.
func (r *Registry) Catalog(x, y, maxDist float64) []Product {
	seen := make(map[int]Product)
	for _, s := range r.Nearby(x, y, maxDist) {
		for _, p := range s.Products() {
			if _, ok := seen[p.SKU]; !ok {
				seen[p.SKU] = p
			}
		}
	}

	out := make([]Product, 0, len(seen))
	for _, p := range seen {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Product) int { return a.SKU - b.SKU })
	return out
}
