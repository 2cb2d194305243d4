package coupon

type Product struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

type Item struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (i Item) Total() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// Cart keeps the total before any discount and the running total after the
// discounts applied so far.
type Cart struct {
	items         []Item
	originalTotal float64
	currentTotal  float64

	LoyaltyMember bool
	PaymentBank   string
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) Add(p Product, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}
	item := Item{Product: p, Quantity: quantity}
	c.items = append(c.items, item)
	c.originalTotal += item.Total()
	c.currentTotal += item.Total()
}

func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) OriginalTotal() float64 { return c.originalTotal }
func (c *Cart) CurrentTotal() float64  { return c.currentTotal }

// CategoryTotal sums the items in category.
func (c *Cart) CategoryTotal(category string) float64 {
	var total float64
	for _, it := range c.items {
		if it.Product.Category == category {
			total += it.Total()
		}
	}
	return total
}

// applyDiscount lowers the running total, stopping at zero.
func (c *Cart) applyDiscount(d float64) {
	c.currentTotal -= d
	if c.currentTotal < 0 {
		c.currentTotal = 0
	}
}
