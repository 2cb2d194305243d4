package splitwise

import (
	"fmt"
	"math"
)

// SplitType selects how an expense is divided between the people involved.
type SplitType int

const (
	Equal SplitType = iota
	Exact
	Percentage
)

func (t SplitType) String() string {
	switch t {
	case Equal:
		return "EQUAL"
	case Exact:
		return "EXACT"
	case Percentage:
		return "PERCENTAGE"
	default:
		return fmt.Sprintf("SplitType(%d)", int(t))
	}
}

// Split is one person's share of an expense.
type Split struct {
	UserID string  `json:"user_id"`
	Amount float64 `json:"amount"`
}

// Strategy turns an amount and the people involved into shares. values is
// ignored by Equal; for Exact it holds amounts and for Percentage percentages,
// one per user.
type Strategy interface {
	Calculate(total float64, userIDs []string, values []float64) ([]Split, error)
}

type EqualSplit struct{}

func (EqualSplit) Calculate(total float64, userIDs []string, _ []float64) ([]Split, error) {
	if len(userIDs) == 0 {
		return nil, ErrNoParticipants
	}
	share := total / float64(len(userIDs))
	splits := make([]Split, 0, len(userIDs))
	for _, id := range userIDs {
		splits = append(splits, Split{UserID: id, Amount: share})
	}
	return splits, nil
}

type ExactSplit struct{}

func (ExactSplit) Calculate(total float64, userIDs []string, values []float64) ([]Split, error) {
	if err := checkValues(userIDs, values); err != nil {
		return nil, err
	}
	var sum float64
	splits := make([]Split, 0, len(userIDs))
	for i, id := range userIDs {
		sum += values[i]
		splits = append(splits, Split{UserID: id, Amount: values[i]})
	}
	if math.Abs(sum-total) > epsilon {
		return nil, fmt.Errorf("%w: exact amounts sum to %.2f, expected %.2f", ErrInvalidSplit, sum, total)
	}
	return splits, nil
}

type PercentageSplit struct{}

func (PercentageSplit) Calculate(total float64, userIDs []string, values []float64) ([]Split, error) {
	if err := checkValues(userIDs, values); err != nil {
		return nil, err
	}
	var sum float64
	splits := make([]Split, 0, len(userIDs))
	for i, id := range userIDs {
		sum += values[i]
		splits = append(splits, Split{UserID: id, Amount: total * values[i] / 100.0})
	}
	if math.Abs(sum-100) > epsilon {
		return nil, fmt.Errorf("%w: percentages sum to %.2f", ErrInvalidSplit, sum)
	}
	return splits, nil
}

func checkValues(userIDs []string, values []float64) error {
	if len(userIDs) == 0 {
		return ErrNoParticipants
	}
	if len(values) != len(userIDs) {
		return fmt.Errorf("%w: %d values for %d users", ErrInvalidSplit, len(values), len(userIDs))
	}
	for _, v := range values {
		if v < 0 {
			return fmt.Errorf("%w: negative share %.2f", ErrInvalidSplit, v)
		}
	}
	return nil
}

// StrategyFor returns the strategy for t. Unknown types split equally.
func StrategyFor(t SplitType) Strategy { //nolint:ireturn
	switch t {
	case Exact:
		return ExactSplit{}
	case Percentage:
		return PercentageSplit{}
	default:
		return EqualSplit{}
	}
}
