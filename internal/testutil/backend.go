package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/target/mmk-backoffice/internal/domain/model"
)

// BackendBasePath is the API root the fake backend serves under.
const BackendBasePath = "/api/admin"

// RecordedRequest is a request received by FakeBackend.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// FakeBackend is an in-process REST backend that answers with the standard
// response envelope. Routes are matched on method and exact path below BackendBasePath.
type FakeBackend struct {
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewFakeBackend starts a FakeBackend that is closed when the test ends.
func NewFakeBackend(t testing.TB) *FakeBackend {
	t.Helper()
	b := &FakeBackend{routes: make(map[string]http.HandlerFunc)}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the API base URL to configure clients with.
func (b *FakeBackend) URL() string { return b.server.URL + BackendBasePath }

// Handle registers a raw handler for method and path (relative to the API root).
func (b *FakeBackend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = h
}

// RespondData answers with {"success":true,"data":data}.
func (b *FakeBackend) RespondData(method, path string, status int, data any) {
	b.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		WriteEnvelope(w, status, map[string]any{"success": true, "data": data})
	})
}

// RespondPage answers a list endpoint with items and pagination meta.
func (b *FakeBackend) RespondPage(method, path string, items any, p model.Pagination) {
	b.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		WriteEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    items,
			"meta":    map[string]any{"pagination": p},
		})
	})
}

// RespondError answers with a failure envelope.
func (b *FakeBackend) RespondError(method, path string, status int, code, message string) {
	b.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		WriteEnvelope(w, status, map[string]any{
			"success": false,
			"error":   map[string]string{"code": code, "message": message},
		})
	})
}

// Requests returns a copy of every request received so far.
func (b *FakeBackend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

// LastRequest returns the most recent request, or false when none was received.
func (b *FakeBackend) LastRequest() (RecordedRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return RecordedRequest{}, false
	}
	return b.requests[len(b.requests)-1], true
}

func (b *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, BackendBasePath)

	b.mu.Lock()
	b.requests = append(b.requests, RecordedRequest{
		Method: r.Method,
		Path:   path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	h, ok := b.routes[r.Method+" "+path]
	b.mu.Unlock()

	if !ok {
		WriteEnvelope(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error":   map[string]string{"code": "NOT_FOUND", "message": "route not found"},
		})
		return
	}
	h(w, r)
}

// WriteEnvelope writes body as JSON with the given status.
func WriteEnvelope(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
