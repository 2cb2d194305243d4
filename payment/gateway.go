// Package payment processes payments through gateways that share one fixed
// flow (validate, initiate, confirm), wrapped in a retrying proxy.
package payment

import (
	"fmt"

	"github.com/wfunc/turnsim/rng"
	"github.com/wfunc/turnsim/state"
)

// Request is one payment.
type Request struct {
	Sender   string  `json:"sender"`
	Receiver string  `json:"receiver"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// BankingSystem moves the money. It reports success or failure.
type BankingSystem interface {
	Process(amount float64) bool
}

// SimulatedBank succeeds with a fixed percentage chance.
type SimulatedBank struct {
	Name        string
	SuccessRate int
	rng         rng.Source
	reporter    state.Reporter
}

func NewSimulatedBank(name string, successRate int, src rng.Source, reporter state.Reporter) *SimulatedBank {
	if reporter == nil {
		reporter = state.Discard
	}
	return &SimulatedBank{Name: name, SuccessRate: successRate, rng: src, reporter: reporter}
}

func (b *SimulatedBank) Process(amount float64) bool {
	b.reporter.Report("[BankingSystem-%s] Processing payment of %.2f...", b.Name, amount)
	return b.rng.Intn(100) < b.SuccessRate
}

// Gateway processes a request end to end.
type Gateway interface {
	Process(req Request) bool
}

// Steps are the per-gateway parts of the flow.
type Steps interface {
	Name() string
	Validate(req Request) bool
	Initiate(req Request) bool
	Confirm(req Request) bool
}

// Flow runs Steps in order and stops at the first failing one.
type Flow struct {
	Steps    Steps
	reporter state.Reporter
}

func NewFlow(steps Steps, reporter state.Reporter) *Flow {
	if reporter == nil {
		reporter = state.Discard
	}
	return &Flow{Steps: steps, reporter: reporter}
}

func (f *Flow) Process(req Request) bool {
	if !f.Steps.Validate(req) {
		f.reporter.Report("[PaymentGateway] Validation failed for %s.", req.Sender)
		return false
	}
	if !f.Steps.Initiate(req) {
		f.reporter.Report("[PaymentGateway] Initiation failed for %s.", req.Sender)
		return false
	}
	if !f.Steps.Confirm(req) {
		f.reporter.Report("[PaymentGateway] Confirmation failed for %s.", req.Sender)
		return false
	}
	return true
}

// Paytm only accepts INR.
type Paytm struct {
	Bank     BankingSystem
	reporter state.Reporter
}

func (p *Paytm) Name() string { return "Paytm" }

func (p *Paytm) Validate(req Request) bool {
	p.reporter.Report("[Paytm] Validating payment for %s.", req.Sender)
	return req.Amount > 0 && req.Currency == "INR"
}

func (p *Paytm) Initiate(req Request) bool {
	p.reporter.Report("[Paytm] Initiating payment of %.2f %s for %s.", req.Amount, req.Currency, req.Sender)
	return p.Bank.Process(req.Amount)
}

func (p *Paytm) Confirm(req Request) bool {
	p.reporter.Report("[Paytm] Confirming payment for %s.", req.Sender)
	return true
}

// Razorpay accepts any currency.
type Razorpay struct {
	Bank     BankingSystem
	reporter state.Reporter
}

func (r *Razorpay) Name() string { return "Razorpay" }

func (r *Razorpay) Validate(req Request) bool {
	r.reporter.Report("[Razorpay] Validating payment for %s.", req.Sender)
	return req.Amount > 0
}

func (r *Razorpay) Initiate(req Request) bool {
	r.reporter.Report("[Razorpay] Initiating payment of %.2f %s for %s.", req.Amount, req.Currency, req.Sender)
	return r.Bank.Process(req.Amount)
}

func (r *Razorpay) Confirm(req Request) bool {
	r.reporter.Report("[Razorpay] Confirming payment for %s.", req.Sender)
	return true
}

// NewPaytm returns the Paytm flow over bank.
func NewPaytm(bank BankingSystem, reporter state.Reporter) *Flow {
	if reporter == nil {
		reporter = state.Discard
	}
	return NewFlow(&Paytm{Bank: bank, reporter: reporter}, reporter)
}

// NewRazorpay returns the Razorpay flow over bank.
func NewRazorpay(bank BankingSystem, reporter state.Reporter) *Flow {
	if reporter == nil {
		reporter = state.Discard
	}
	return NewFlow(&Razorpay{Bank: bank, reporter: reporter}, reporter)
}

// GatewayType names a supported gateway.
type GatewayType string

const (
	PaytmGateway    GatewayType = "paytm"
	RazorpayGateway GatewayType = "razorpay"
)

func ParseGatewayType(s string) (GatewayType, error) {
	switch t := GatewayType(s); t {
	case PaytmGateway, RazorpayGateway:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGateway, s)
	}
}
