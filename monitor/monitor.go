// monitor/monitor.go
package monitor

import (
	"errors"
	"expvar"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/atomic"

	"github.com/wfunc/turnsim/logger"
	"github.com/wfunc/turnsim/state"
)

type Metrics struct {
	OnlinePlayers    prometheus.Gauge
	ActiveRooms      prometheus.Gauge
	MessagesReceived prometheus.Counter
	MessageLatency   prometheus.Histogram
	Transitions      *prometheus.CounterVec
	NoOps            *prometheus.CounterVec
	ActionLatency    *prometheus.HistogramVec
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OnlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Number of online players",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of active rooms",
		}),
		MessagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Total number of messages received",
		}),
		MessageLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "message_latency_seconds",
			Help:      "Message processing latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "State transitions by machine, from state and to state",
		}, []string{"machine", "from", "to"}),
		NoOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "noop_actions_total",
			Help:      "Actions that left the machine in the same state, by machine and action",
		}, []string{"machine", "action"}),
		ActionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_duration_seconds",
			Help:      "Time a room takes to apply one action, by simulation kind",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.OnlinePlayers,
		m.ActiveRooms,
		m.MessagesReceived,
		m.MessageLatency,
		m.Transitions,
		m.NoOps,
		m.ActionLatency,
	)

	return m
}

// Monitor records server and simulation metrics. It is a state.Observer,
// so it can be subscribed to any simulation's state machine.
type Monitor struct {
	metrics      *Metrics
	gatherer     prometheus.Gatherer
	startTime    time.Time
	requestCount atomic.Int64
	server       *http.Server
}

// NewMonitor registers its metrics on reg. A nil reg uses the prometheus
// default registry.
func NewMonitor(namespace string, reg *prometheus.Registry) *Monitor {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}
	return &Monitor{
		metrics:   NewMetrics(namespace, registerer),
		gatherer:  gatherer,
		startTime: time.Now(),
	}
}

func (m *Monitor) Metrics() *Metrics {
	return m.metrics
}

var publishOnce sync.Once

// Handler serves /metrics and /debug/vars.
func (m *Monitor) Handler() http.Handler {
	// expvar names are process-global; only the first monitor publishes.
	publishOnce.Do(func() {
		expvar.Publish("uptime", expvar.Func(func() interface{} {
			return time.Since(m.startTime).Seconds()
		}))
		expvar.Publish("requests", expvar.Func(func() interface{} {
			return m.requestCount.Load()
		}))
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/debug/vars", expvar.Handler())
	return mux
}

func (m *Monitor) StartServer(addr string) {
	m.server = &http.Server{Addr: addr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Log.Infof("Metrics server listening on %s", addr)
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("Metrics server stopped: %v", err)
		}
	}()
}

func (m *Monitor) Close() error {
	if m.server == nil {
		return nil
	}
	return m.server.Close()
}

// OnTransition counts every transition, and separately the ones that left
// the machine where it was.
func (m *Monitor) OnTransition(t state.Transition) {
	m.metrics.Transitions.WithLabelValues(t.Machine, t.From, t.To).Inc()
	if t.Stayed() {
		action := t.Action
		if action == "" {
			action = "none"
		}
		m.metrics.NoOps.WithLabelValues(t.Machine, action).Inc()
	}
}

func (m *Monitor) IncOnlinePlayers() {
	m.metrics.OnlinePlayers.Inc()
}

func (m *Monitor) DecOnlinePlayers() {
	m.metrics.OnlinePlayers.Dec()
}

func (m *Monitor) SetActiveRooms(count int) {
	m.metrics.ActiveRooms.Set(float64(count))
}

func (m *Monitor) IncMessagesReceived() {
	m.metrics.MessagesReceived.Inc()
	m.requestCount.Inc()
}

func (m *Monitor) ObserveMessageLatency(duration time.Duration) {
	m.metrics.MessageLatency.Observe(duration.Seconds())
}

func (m *Monitor) ObserveAction(kind string, duration time.Duration) {
	m.metrics.ActionLatency.WithLabelValues(kind).Observe(duration.Seconds())
}
