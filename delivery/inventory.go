// Package delivery is the quick-commerce backend: dark stores with their
// own inventory, a registry that finds the stores near a customer, and an
// order manager that fulfils a cart from the nearest store or splits it
// across several.
package delivery

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/wfunc/turnsim/state"
)

type Product struct {
	SKU   int     `json:"sku"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ProductFor returns the catalogue entry for sku. Unknown SKUs get a
// generated name and a price of 100.
func ProductFor(sku int) Product {
	switch sku {
	case 101:
		return Product{SKU: sku, Name: "Apple", Price: 20}
	case 102:
		return Product{SKU: sku, Name: "Banana", Price: 10}
	case 103:
		return Product{SKU: sku, Name: "Chocolate", Price: 50}
	case 201:
		return Product{SKU: sku, Name: "T-Shirt", Price: 500}
	case 202:
		return Product{SKU: sku, Name: "Jeans", Price: 1000}
	}
	return Product{SKU: sku, Name: fmt.Sprintf("Item%d", sku), Price: 100}
}

// Inventory is one store's stock, keyed by SKU.
type Inventory struct {
	mu       sync.RWMutex
	stock    map[int]int
	products map[int]Product
	reporter state.Reporter
}

func NewInventory(reporter state.Reporter) *Inventory {
	if reporter == nil {
		reporter = state.Discard
	}
	return &Inventory{
		stock:    make(map[int]int),
		products: make(map[int]Product),
		reporter: reporter,
	}
}

func (i *Inventory) Add(sku, qty int) {
	i.mu.Lock()
	if _, ok := i.products[sku]; !ok {
		i.products[sku] = ProductFor(sku)
	}
	i.stock[sku] += qty
	i.mu.Unlock()

	i.reporter.Report("[InventoryManager] Added SKU %d Qty %d", sku, qty)
}

// Remove takes qty units of sku. Taking the last unit drops the SKU from
// stock; removing an unknown SKU does nothing.
func (i *Inventory) Remove(sku, qty int) {
	i.mu.Lock()
	defer i.mu.Unlock()

	current, ok := i.stock[sku]
	if !ok {
		return
	}
	if left := current - qty; left > 0 {
		i.stock[sku] = left
	} else {
		delete(i.stock, sku)
	}
}

func (i *Inventory) Stock(sku int) int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.stock[sku]
}

// Available lists the products with stock, ordered by SKU.
func (i *Inventory) Available() []Product {
	i.mu.RLock()
	defer i.mu.RUnlock()

	var out []Product
	for _, sku := range slices.Sorted(maps.Keys(i.stock)) {
		if p, ok := i.products[sku]; ok && i.stock[sku] > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Replenisher tops up an inventory from a SKU -> quantity wish list.
type Replenisher interface {
	Replenish(inv *Inventory, items map[int]int)
}

// Threshold adds the requested quantity for every SKU whose stock is below
// the threshold.
type Threshold struct {
	Threshold int
	Reporter  state.Reporter
}

func (t Threshold) Replenish(inv *Inventory, items map[int]int) {
	r := t.Reporter
	if r == nil {
		r = state.Discard
	}
	r.Report("[ThresholdReplenish] Checking threshold...")
	for _, sku := range slices.Sorted(maps.Keys(items)) {
		current := inv.Stock(sku)
		if current < t.Threshold {
			inv.Add(sku, items[sku])
			r.Report("  -> SKU %d was %d, replenished by %d", sku, current, items[sku])
		}
	}
}

// Weekly only announces itself; the weekly restock happens offline.
type Weekly struct {
	Reporter state.Reporter
}

func (w Weekly) Replenish(*Inventory, map[int]int) {
	if w.Reporter != nil {
		w.Reporter.Report("[WeeklyReplenish] Weekly replenishment triggered for inventory.")
	}
}
