// Package atm dispenses cash through a chain of note handlers ordered from
// the largest denomination down. Each handler pays what it can and forwards
// the remainder.
package atm

import (
	"errors"
	"sort"

	"github.com/wfunc/turnsim/state"
)

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidDenomination = errors.New("denomination must be positive")
)

// Handler is one link of the chain.
type Handler interface {
	Handle(amount int, d *Dispensal)
	SetNext(next Handler)
}

// Dispensal is the result of a withdrawal. Remaining > 0 means the chain ran
// out of notes before the amount was covered.
type Dispensal struct {
	Requested int         `json:"requested"`
	Notes     map[int]int `json:"notes"`
	Remaining int         `json:"remaining"`
}

func (d Dispensal) Fulfilled() bool {
	return d.Remaining == 0
}

// Paid is the amount covered by the notes handed out.
func (d Dispensal) Paid() int {
	return d.Requested - d.Remaining
}

// NoteHandler pays out a single denomination from its own stock.
type NoteHandler struct {
	denomination int
	notes        int
	next         Handler
	reporter     state.Reporter
}

func NewNoteHandler(denomination, notes int, reporter state.Reporter) *NoteHandler {
	if reporter == nil {
		reporter = state.Discard
	}
	return &NoteHandler{denomination: denomination, notes: notes, reporter: reporter}
}

func (h *NoteHandler) SetNext(next Handler) {
	h.next = next
}

func (h *NoteHandler) Handle(amount int, d *Dispensal) {
	needed := amount / h.denomination
	if needed > h.notes {
		needed = h.notes
	}
	h.notes -= needed

	if needed > 0 {
		d.Notes[h.denomination] += needed
		h.reporter.Report("Dispensing %d x %d notes.", needed, h.denomination)
	}

	remaining := amount - needed*h.denomination
	if remaining == 0 {
		return
	}
	if h.next != nil {
		h.next.Handle(remaining, d)
		return
	}

	d.Remaining = remaining
	h.reporter.Report("Remaining amount of %d cannot be fulfilled (insufficient funds in ATM)", remaining)
}

func (h *NoteHandler) Denomination() int { return h.denomination }
func (h *NoteHandler) Notes() int        { return h.notes }

// Chain is the assembled dispenser.
type Chain struct {
	handlers []*NoteHandler
}

// NewChain links one handler per denomination in strictly descending order.
func NewChain(stock map[int]int, reporter state.Reporter) (*Chain, error) {
	denominations := make([]int, 0, len(stock))
	for d := range stock {
		if d <= 0 {
			return nil, ErrInvalidDenomination
		}
		denominations = append(denominations, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(denominations)))

	c := &Chain{}
	var prev *NoteHandler
	for _, d := range denominations {
		h := NewNoteHandler(d, stock[d], reporter)
		if prev != nil {
			prev.SetNext(h)
		}
		c.handlers = append(c.handlers, h)
		prev = h
	}
	return c, nil
}

// Dispense starts the chain at the largest denomination. Notes taken by
// earlier handlers stay taken when the remainder cannot be covered.
func (c *Chain) Dispense(amount int) (Dispensal, error) {
	if amount <= 0 {
		return Dispensal{}, ErrInvalidAmount
	}

	d := Dispensal{Requested: amount, Notes: make(map[int]int)}
	if len(c.handlers) == 0 {
		d.Remaining = amount
		return d, nil
	}
	c.handlers[0].Handle(amount, &d)
	return d, nil
}

// Stock reports the notes left per denomination.
func (c *Chain) Stock() map[int]int {
	out := make(map[int]int, len(c.handlers))
	for _, h := range c.handlers {
		out[h.denomination] = h.notes
	}
	return out
}

// Denominations lists the chain order.
func (c *Chain) Denominations() []int {
	out := make([]int, len(c.handlers))
	for i, h := range c.handlers {
		out[i] = h.denomination
	}
	return out
}
