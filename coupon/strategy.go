package coupon

import "fmt"

// Strategy computes a discount on a base amount.
type Strategy interface {
	Calculate(base float64) float64
}

// Flat takes a fixed amount off, never more than the base.
type Flat struct {
	Amount float64
}

func (f Flat) Calculate(base float64) float64 {
	return min(f.Amount, base)
}

type Percent struct {
	Percent float64
}

func (p Percent) Calculate(base float64) float64 {
	return p.Percent / 100.0 * base
}

type PercentWithCap struct {
	Percent float64
	Cap     float64
}

func (p PercentWithCap) Calculate(base float64) float64 {
	return min(p.Percent/100.0*base, p.Cap)
}

// StrategyType names a discount strategy.
type StrategyType int

const (
	FlatType StrategyType = iota
	PercentType
	PercentWithCapType
)

// NewStrategy builds a strategy from its type and parameters: the amount for
// Flat, the percentage for Percent, the percentage and cap for PercentWithCap.
func NewStrategy(t StrategyType, param1, param2 float64) (Strategy, error) { //nolint:ireturn
	switch t {
	case FlatType:
		return Flat{Amount: param1}, nil
	case PercentType:
		return Percent{Percent: param1}, nil
	case PercentWithCapType:
		return PercentWithCap{Percent: param1, Cap: param2}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(t))
	}
}
