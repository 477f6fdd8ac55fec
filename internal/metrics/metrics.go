package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Gateway metrics
	snapshotsTotal   *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	quotePrice       *prometheus.GaugeVec
	buySignal        prometheus.Gauge
	marketMissing    prometheus.Counter
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	r.snapshotsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fearwatch_snapshots_total",
			Help: "Total number of gateway snapshot computations by outcome",
		},
		[]string{"outcome"},
	)
	r.providerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fearwatch_provider_request_duration_seconds",
			Help:    "Upstream quote provider request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)
	r.quotePrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fearwatch_quote_price",
			Help: "Last observed regular market price per symbol",
		},
		[]string{"symbol"},
	)
	r.buySignal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fearwatch_buy_signal",
			Help: "1 when the last computed buy signal was true, 0 otherwise",
		},
	)
	r.marketMissing = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fearwatch_market_context_missing_total",
			Help: "Number of snapshots served without market context",
		},
	)

	reg.MustRegister(r.snapshotsTotal)
	reg.MustRegister(r.providerDuration)
	reg.MustRegister(r.quotePrice)
	reg.MustRegister(r.buySignal)
	reg.MustRegister(r.marketMissing)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordSnapshot records the outcome of one gateway computation
// ("ok", "not_found", "validation", "timeout", "missing_vix", "error").
func (r *Registry) RecordSnapshot(outcome string) {
	r.snapshotsTotal.WithLabelValues(outcome).Inc()
}

// RecordProviderCall records upstream latency.
func (r *Registry) RecordProviderCall(provider string, duration float64) {
	r.providerDuration.WithLabelValues(provider).Observe(duration)
}

// SetQuotePrice sets the last seen price for a symbol.
func (r *Registry) SetQuotePrice(symbol string, price float64) {
	r.quotePrice.WithLabelValues(symbol).Set(price)
}

// SetBuySignal records the latest signal state.
func (r *Registry) SetBuySignal(active bool) {
	if active {
		r.buySignal.Set(1)
		return
	}
	r.buySignal.Set(0)
}

// MarketContextMissing counts a degraded response.
func (r *Registry) MarketContextMissing() {
	r.marketMissing.Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
