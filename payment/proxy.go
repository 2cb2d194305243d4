package payment

import (
	"go.uber.org/atomic"

	"github.com/wfunc/turnsim/state"
)

// Proxy retries the wrapped gateway a fixed number of times, with no delay
// between attempts, and stops at the first success.
type Proxy struct {
	real     Gateway
	retries  int
	attempts atomic.Int32
	reporter state.Reporter
}

// NewProxy wraps gateway. retries below one are treated as one.
func NewProxy(gateway Gateway, retries int, reporter state.Reporter) *Proxy {
	if retries < 1 {
		retries = 1
	}
	if reporter == nil {
		reporter = state.Discard
	}
	return &Proxy{real: gateway, retries: retries, reporter: reporter}
}

func (p *Proxy) Process(req Request) bool {
	result := false
	attempt := 0
	for attempt < p.retries {
		if attempt > 0 {
			p.reporter.Report("[Proxy] Retrying payment (attempt %d) for %s.", attempt+1, req.Sender)
		}
		attempt++
		if result = p.real.Process(req); result {
			break
		}
	}
	p.attempts.Store(int32(attempt))

	if !result {
		p.reporter.Report("[Proxy] Payment failed after %d attempts for %s.", p.retries, req.Sender)
	}
	return result
}

// Attempts reports how many attempts the last Process call made.
func (p *Proxy) Attempts() int {
	return int(p.attempts.Load())
}

func (p *Proxy) Retries() int {
	return p.retries
}
