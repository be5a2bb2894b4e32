package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTestUI(t *testing.T, session *fakeSession) *UIHandlers {
	t.Helper()
	h := CreateUIHandlersForTest(t, session)
	h.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return h
}

// serve runs fn against a request carrying a navigation slot, as the router would.
func serve(fn http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NavigationSlot()(fn).ServeHTTP(rec, req)
	return rec
}

func getReq(target string, pathValues ...string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	setPathValues(req, pathValues)
	return req
}

func postForm(target string, form url.Values, pathValues ...string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	setPathValues(req, pathValues)
	return req
}

func setPathValues(req *http.Request, kv []string) {
	for i := 0; i+1 < len(kv); i += 2 {
		req.SetPathValue(kv[i], kv[i+1])
	}
}

// endSession is what the backend client's navigator does on a 401.
func endSession(ctx context.Context) {
	SlotNavigator{}.Navigate(ctx, "/login")
}
