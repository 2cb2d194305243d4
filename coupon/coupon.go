// Package coupon applies a chain of discount coupons to a shopping cart.
package coupon

import (
	"errors"
	"fmt"
	"slices"
)

var ErrUnknownStrategy = errors.New("unknown discount strategy")

// Coupon is one link of the discount chain.
type Coupon interface {
	Name() string
	Applicable(c *Cart) bool
	Discount(c *Cart) float64
	// Combinable reports whether later coupons may still apply after this one.
	Combinable() bool
}

// Seasonal takes a percentage off every item in one category.
type Seasonal struct {
	Percent  float64
	Category string
}

func (s Seasonal) Name() string {
	return fmt.Sprintf("Seasonal Offer %d %% off %s", int(s.Percent), s.Category)
}

func (s Seasonal) Applicable(c *Cart) bool {
	return slices.ContainsFunc(c.items, func(it Item) bool { return it.Product.Category == s.Category })
}

func (s Seasonal) Discount(c *Cart) float64 {
	return Percent{Percent: s.Percent}.Calculate(c.CategoryTotal(s.Category))
}

func (Seasonal) Combinable() bool { return true }

// Loyalty takes a percentage off the running total for loyalty members.
type Loyalty struct {
	Percent float64
}

func (l Loyalty) Name() string {
	return fmt.Sprintf("Loyalty Discount %d%% off", int(l.Percent))
}

func (l Loyalty) Applicable(c *Cart) bool { return c.LoyaltyMember }

func (l Loyalty) Discount(c *Cart) float64 {
	return Percent{Percent: l.Percent}.Calculate(c.CurrentTotal())
}

func (Loyalty) Combinable() bool { return true }

// BulkPurchase takes a flat amount off once the undiscounted total reaches
// Threshold.
type BulkPurchase struct {
	Threshold float64
	FlatOff   float64
}

func (b BulkPurchase) Name() string {
	return fmt.Sprintf("Bulk Purchase Rs %d off over %d", int(b.FlatOff), int(b.Threshold))
}

func (b BulkPurchase) Applicable(c *Cart) bool { return c.OriginalTotal() >= b.Threshold }

func (b BulkPurchase) Discount(c *Cart) float64 {
	return Flat{Amount: b.FlatOff}.Calculate(c.CurrentTotal())
}

func (BulkPurchase) Combinable() bool { return true }

// Bank takes a capped percentage off when paying with Bank above MinSpend.
type Bank struct {
	Bank     string
	MinSpend float64
	Percent  float64
	Cap      float64
}

func (b Bank) Name() string {
	return fmt.Sprintf("%s Bank Rs %d off upto %d", b.Bank, int(b.Percent), int(b.Cap))
}

func (b Bank) Applicable(c *Cart) bool {
	return c.PaymentBank == b.Bank && c.OriginalTotal() >= b.MinSpend
}

func (b Bank) Discount(c *Cart) float64 {
	return PercentWithCap{Percent: b.Percent, Cap: b.Cap}.Calculate(c.CurrentTotal())
}

func (Bank) Combinable() bool { return true }

// Exclusive wraps a coupon so that nothing after it in the chain applies once
// it has.
type Exclusive struct {
	Coupon
}

func (Exclusive) Combinable() bool { return false }
