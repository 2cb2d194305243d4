package payment

import (
	"errors"
	"fmt"
	"sync"

	"github.com/wfunc/turnsim/lazy"
	"github.com/wfunc/turnsim/logger"
	"github.com/wfunc/turnsim/rng"
	"github.com/wfunc/turnsim/state"
)

var ErrUnknownGateway = errors.New("unknown payment gateway")

// Options configure a Factory.
type Options struct {
	PaytmRetries    int
	RazorpayRetries int
	Source          rng.Source
	Reporter        state.Reporter
}

// Factory builds a retrying gateway per type.
type Factory struct {
	opts Options
}

func NewFactory(opts Options) *Factory {
	if opts.PaytmRetries <= 0 {
		opts.PaytmRetries = 3
	}
	if opts.RazorpayRetries <= 0 {
		opts.RazorpayRetries = 1
	}
	if opts.Source == nil {
		opts.Source = rng.New(0)
	}
	if opts.Reporter == nil {
		opts.Reporter = state.Discard
	}
	return &Factory{opts: opts}
}

func (f *Factory) Gateway(t GatewayType) (*Proxy, error) {
	r := f.opts.Reporter
	switch t {
	case PaytmGateway:
		bank := NewSimulatedBank("Paytm", 80, f.opts.Source, r)
		return NewProxy(NewPaytm(bank, r), f.opts.PaytmRetries, r), nil
	case RazorpayGateway:
		bank := NewSimulatedBank("Razorpay", 90, f.opts.Source, r)
		return NewProxy(NewRazorpay(bank, r), f.opts.RazorpayRetries, r), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGateway, t)
	}
}

// Service processes requests through whichever gateway was set last.
type Service struct {
	mu       sync.Mutex
	gateway  Gateway
	reporter state.Reporter
}

func NewService(reporter state.Reporter) *Service {
	if reporter == nil {
		reporter = state.Discard
	}
	return &Service{reporter: reporter}
}

func (s *Service) SetGateway(g Gateway) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gateway = g
}

// Process returns false when no gateway has been set.
func (s *Service) Process(req Request) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gateway == nil {
		s.reporter.Report("[PaymentService] No payment gateway selected.")
		return false
	}
	return s.gateway.Process(req)
}

// Controller is the entry point for client requests.
type Controller struct {
	factory *Factory
	service *Service
}

func NewController(factory *Factory, service *Service) *Controller {
	return &Controller{factory: factory, service: service}
}

// Handle selects the gateway for t and processes req through it.
func (c *Controller) Handle(t GatewayType, req Request) (bool, error) {
	g, err := c.factory.Gateway(t)
	if err != nil {
		return false, err
	}
	c.service.SetGateway(g)
	ok := c.service.Process(req)
	logger.Log.Debugw("Payment processed", "gateway", t, "sender", req.Sender, "ok", ok, "attempts", g.Attempts())
	return ok, nil
}

var (
	factory = lazy.New(func() *Factory {
		return NewFactory(Options{})
	})
	service = lazy.New(func() *Service {
		return NewService(nil)
	})
	controller = lazy.New(func() *Controller {
		return NewController(factory.Get(), service.Get())
	})
)

// DefaultFactory, DefaultService and DefaultController are the process-wide
// instances, built on first use.
func DefaultFactory() *Factory       { return factory.Get() }
func DefaultService() *Service       { return service.Get() }
func DefaultController() *Controller { return controller.Get() }
