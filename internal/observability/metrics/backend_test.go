package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
)

type sinkCall struct {
	kind string
	name string
	tags map[string]string
}

type recordingSink struct {
	mu    sync.Mutex
	calls []sinkCall
}

func (s *recordingSink) add(kind, name string, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sinkCall{kind, name, tags})
}

func (s *recordingSink) Count(name string, _ int64, tags map[string]string) { s.add("count", name, tags) }
func (s *recordingSink) Gauge(name string, _ float64, tags map[string]string) {
	s.add("gauge", name, tags)
}
func (s *recordingSink) Timing(name string, _ time.Duration, tags map[string]string) {
	s.add("timing", name, tags)
}

func TestRecorder_ObserveBackendRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := &recordingSink{}
	r := NewRecorder(Options{Sink: sink, Registry: reg})

	r.ObserveBackendRequest("organizations.list", "GET", 200, 20*time.Millisecond)
	r.ObserveBackendRequest("organizations.list", "GET", 401, 5*time.Millisecond)
	r.ObserveBackendRequest("auth.me", "GET", 0, time.Second)

	assert.InDelta(t, 1, testutil.ToFloat64(r.requests.WithLabelValues("organizations.list", "GET", "2xx")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.requests.WithLabelValues("organizations.list", "GET", "4xx")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.requests.WithLabelValues("auth.me", "GET", "error")), 0)

	require.Len(t, sink.calls, 6)
	assert.Equal(t, "backend.request", sink.calls[0].name)
	assert.Equal(t, ResultSuccess, sink.calls[0].tags["result"])
	assert.Equal(t, ResultError, sink.calls[2].tags["result"])
	assert.Equal(t, "error", sink.calls[4].tags["status"])
}

func TestRecorder_SessionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(Options{Registry: reg, Namespace: "test"})

	r.ObserveSession(domainauth.State{Credential: "tok", Principal: &domainauth.Principal{Role: domainauth.RoleSupport}})
	assert.InDelta(t, 1, testutil.ToFloat64(r.authenticated), 0)

	r.ObserveSession(domainauth.State{})
	assert.InDelta(t, 0, testutil.ToFloat64(r.authenticated), 0)

	r.IncSessionInvalidated()
	r.IncSessionInvalidated()
	assert.InDelta(t, 2, testutil.ToFloat64(r.invalidations), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_session_invalidations_total")
	assert.Contains(t, names, "test_session_authenticated")
}

func TestRecorder_NilAndStatsdOnly(t *testing.T) {
	var nilRecorder *Recorder
	nilRecorder.ObserveBackendRequest("x", "GET", 200, time.Millisecond)
	nilRecorder.IncSessionInvalidated()
	nilRecorder.ObserveSession(domainauth.State{})

	sink := &recordingSink{}
	r := NewRecorder(Options{Sink: sink})
	r.ObserveBackendRequest("x", "GET", 500, time.Millisecond)
	r.IncSessionInvalidated()
	assert.Len(t, sink.calls, 3)
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "error", StatusClass(0))
	assert.Equal(t, "2xx", StatusClass(204))
	assert.Equal(t, "5xx", StatusClass(503))
}
