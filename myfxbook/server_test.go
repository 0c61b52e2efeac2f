package myfxbook

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
)

const (
	testEmail    = "my@email.com"
	testPassword = "my_password"
	testSession  = "abcd1234"

	loginPath = "/api/login.json"
	okReply   = `{"error": false, "message": ""}`
)

// apiCall is one request seen by the fake API.
type apiCall struct {
	Method   string
	Path     string
	RawQuery string
	Query    url.Values
	Body     string
}

// fakeAPI is an httptest server standing in for the Myfxbook API. It records
// every request and answers logins and endpoint calls with swappable handlers.
type fakeAPI struct {
	*httptest.Server

	mu    sync.Mutex
	calls []apiCall

	logins atomic.Int32

	loginHandler http.HandlerFunc
	handler      http.HandlerFunc
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	f := &fakeAPI{
		loginHandler: replyWith(`{"error": false, "message": "", "session": "` + testSession + `"}`),
		handler:      replyWith(okReply),
	}

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		f.mu.Lock()
		f.calls = append(f.calls, apiCall{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Query:    r.URL.Query(),
			Body:     string(body),
		})
		login, handler := f.loginHandler, f.handler
		f.mu.Unlock()

		if r.URL.Path == loginPath {
			f.logins.Add(1)
			login(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(f.Close)

	return f
}

// client returns a client pointed at the fake API with logging discarded.
func (f *fakeAPI) client(opts ...ClientOption) *Client {
	base := []ClientOption{
		WithBaseURL(f.URL + "/api"),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return NewClient(testEmail, testPassword, append(base, opts...)...)
}

func (f *fakeAPI) setLoginHandler(h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginHandler = h
}

func (f *fakeAPI) setHandler(h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = h
}

func (f *fakeAPI) recorded() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

// reset forgets recorded calls.
func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
	f.logins.Store(0)
}

func replyWith(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}
