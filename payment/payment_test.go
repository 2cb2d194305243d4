package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/turnsim/rng"
	"github.com/wfunc/turnsim/state"
)

type flaky struct {
	failures int
	calls    int
}

func (f *flaky) Process(Request) bool {
	f.calls++
	return f.calls > f.failures
}

func inr(amount float64) Request {
	return Request{Sender: "Aditya", Receiver: "Shubham", Amount: amount, Currency: "INR"}
}

func TestProxy_StopsAtFirstSuccess(t *testing.T) {
	g := &flaky{failures: 1}
	p := NewProxy(g, 3, nil)

	assert.True(t, p.Process(inr(10)))
	assert.Equal(t, 2, p.Attempts())
	assert.Equal(t, 2, g.calls)
}

func TestProxy_GivesUpAfterRetries(t *testing.T) {
	rec := &state.Recorder{}
	g := &flaky{failures: 10}
	p := NewProxy(g, 3, rec)

	assert.False(t, p.Process(inr(10)))
	assert.Equal(t, 3, p.Attempts())
	assert.Equal(t, []string{
		"[Proxy] Retrying payment (attempt 2) for Aditya.",
		"[Proxy] Retrying payment (attempt 3) for Aditya.",
		"[Proxy] Payment failed after 3 attempts for Aditya.",
	}, rec.Messages)
}

func TestProxy_MinimumOneAttempt(t *testing.T) {
	p := NewProxy(&flaky{}, 0, nil)
	assert.Equal(t, 1, p.Retries())
	assert.True(t, p.Process(inr(1)))
}

func TestPaytm_Validation(t *testing.T) {
	bank := NewSimulatedBank("Paytm", 100, rng.NewSequence(0), nil)
	flow := NewPaytm(bank, nil)

	assert.True(t, flow.Process(inr(100)))
	assert.False(t, flow.Process(Request{Sender: "a", Amount: 100, Currency: "USD"}))
	assert.False(t, flow.Process(inr(0)))
}

func TestRazorpay_Validation(t *testing.T) {
	bank := NewSimulatedBank("Razorpay", 100, rng.NewSequence(0), nil)
	flow := NewRazorpay(bank, nil)

	assert.True(t, flow.Process(Request{Sender: "a", Amount: 5, Currency: "USD"}))
	assert.False(t, flow.Process(Request{Sender: "a", Amount: -5, Currency: "USD"}))
}

func TestFlow_ReportsFailedStep(t *testing.T) {
	rec := &state.Recorder{}
	bank := NewSimulatedBank("Paytm", 80, rng.NewSequence(99), rec)
	flow := NewPaytm(bank, rec)

	assert.False(t, flow.Process(inr(10)))
	assert.Equal(t, "[PaymentGateway] Initiation failed for Aditya.", rec.Last())
}

func TestFactory_RetryCounts(t *testing.T) {
	// 85 and 95 fail both banks, 10 succeeds.
	f := NewFactory(Options{Source: rng.NewSequence(85, 85, 10)})

	paytm, err := f.Gateway(PaytmGateway)
	require.NoError(t, err)
	assert.True(t, paytm.Process(inr(1000)))
	assert.Equal(t, 3, paytm.Attempts())

	f = NewFactory(Options{Source: rng.NewSequence(95)})
	razorpay, err := f.Gateway(RazorpayGateway)
	require.NoError(t, err)
	assert.False(t, razorpay.Process(Request{Sender: "Shubham", Amount: 500, Currency: "USD"}))
	assert.Equal(t, 1, razorpay.Attempts())
}

func TestFactory_Configured(t *testing.T) {
	f := NewFactory(Options{PaytmRetries: 5, Source: rng.NewSequence(99)})
	g, err := f.Gateway(PaytmGateway)
	require.NoError(t, err)
	assert.False(t, g.Process(inr(1)))
	assert.Equal(t, 5, g.Attempts())

	_, err = f.Gateway("upi")
	require.ErrorIs(t, err, ErrUnknownGateway)
}

func TestService_NoGateway(t *testing.T) {
	rec := &state.Recorder{}
	s := NewService(rec)
	assert.False(t, s.Process(inr(1)))
	assert.Equal(t, "[PaymentService] No payment gateway selected.", rec.Last())
}

func TestController_Handle(t *testing.T) {
	c := NewController(NewFactory(Options{Source: rng.NewSequence(0)}), NewService(nil))

	ok, err := c.Handle(PaytmGateway, inr(1000))
	require.NoError(t, err)
	assert.True(t, ok)

	// Paytm refuses USD on every attempt.
	ok, err = c.Handle(PaytmGateway, Request{Sender: "Shubham", Amount: 500, Currency: "USD"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.Handle("upi", inr(1))
	require.ErrorIs(t, err, ErrUnknownGateway)
}

func TestParseGatewayType(t *testing.T) {
	g, err := ParseGatewayType("razorpay")
	require.NoError(t, err)
	assert.Equal(t, RazorpayGateway, g)

	_, err = ParseGatewayType("cash")
	require.ErrorIs(t, err, ErrUnknownGateway)
}

func TestDefaults_AreSingletons(t *testing.T) {
	assert.Same(t, DefaultController(), DefaultController())
	assert.Same(t, DefaultFactory(), DefaultFactory())
	assert.Same(t, DefaultService(), DefaultService())
}
