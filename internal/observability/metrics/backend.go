// Package metrics records back-office client metrics to StatsD and Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
	"github.com/target/mmk-backoffice/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

const defaultNamespace = "backoffice"

// Options configures a Recorder. Nil fields disable that output.
type Options struct {
	Sink      statsd.Sink
	Registry  prometheus.Registerer
	Namespace string
	Buckets   []float64
}

// Recorder fans metrics out to a StatsD sink and Prometheus collectors.
// A nil *Recorder is a no-op.
type Recorder struct {
	sink statsd.Sink

	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	invalidations prometheus.Counter
	authenticated prometheus.Gauge
}

// NewRecorder registers collectors on opts.Registry (when set) and returns a Recorder.
func NewRecorder(opts Options) *Recorder {
	r := &Recorder{sink: opts.Sink}
	if r.sink == nil {
		r.sink = statsd.Discard
	}
	if opts.Registry == nil {
		return r
	}

	ns := opts.Namespace
	if ns == "" {
		ns = defaultNamespace
	}
	buckets := opts.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	factory := promauto.With(opts.Registry)

	r.requests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: "backend",
		Name:      "requests_total",
		Help:      "Backend API calls by endpoint, method and status class.",
	}, []string{"endpoint", "method", "status"})

	r.latency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Backend API call latency in seconds.",
		Buckets:   buckets,
	}, []string{"endpoint"})

	r.invalidations = factory.NewCounter(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: "session",
		Name:      "invalidations_total",
		Help:      "Sessions ended because the backend rejected the credential.",
	})

	r.authenticated = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: ns,
		Subsystem: "session",
		Name:      "authenticated",
		Help:      "1 while a session is held, 0 otherwise.",
	})
	return r
}

// ObserveBackendRequest records one backend call. Status 0 means the transport failed.
func (r *Recorder) ObserveBackendRequest(endpoint, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	class := StatusClass(status)
	result := ResultSuccess
	if status == 0 || status >= 400 {
		result = ResultError
	}

	tags := map[string]string{
		"endpoint": endpoint,
		"method":   method,
		"status":   class,
		"result":   result,
	}
	r.sink.Count("backend.request", 1, tags)
	r.sink.Timing("backend.latency", elapsed, map[string]string{"endpoint": endpoint})

	if r.requests != nil {
		r.requests.WithLabelValues(endpoint, method, class).Inc()
		r.latency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	}
}

// IncSessionInvalidated counts a session ended by a 401.
func (r *Recorder) IncSessionInvalidated() {
	if r == nil {
		return
	}
	r.sink.Count("session.invalidated", 1, nil)
	if r.invalidations != nil {
		r.invalidations.Inc()
	}
}

// ObserveSession tracks whether a session is held. It is meant to be passed to
// SessionStore.Subscribe.
func (r *Recorder) ObserveSession(state domainauth.State) {
	if r == nil {
		return
	}
	v := 0.0
	if state.IsAuthenticated() {
		v = 1
	}
	r.sink.Gauge("session.authenticated", v, nil)
	if r.authenticated != nil {
		r.authenticated.Set(v)
	}
}

// StatusClass buckets an HTTP status into "2xx".."5xx", or "error" for transport failures.
func StatusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
