package myfxbook

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"
)

// TestEnsureSession_SingleLogin runs several authenticated calls at once on a
// fresh client while the login reply is held back.
func TestEnsureSession_SingleLogin(t *testing.T) {
	api := newFakeAPI(t)

	release := make(chan struct{})
	api.setLoginHandler(func(w http.ResponseWriter, r *http.Request) {
		<-release
		replyWith(`{"error": false, "message": "", "session": "` + testSession + `"}`)(w, r)
	})

	c := api.client()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	calls := []func() error{
		func() error { _, err := c.GetMyAccounts(ctx); return err },
		func() error { _, err := c.GetWatchedAccounts(ctx); return err },
		func() error { _, err := c.GetCommunityOutlook(ctx); return err },
		func() error { _, err := c.GetOpenTrades(ctx, 8888); return err },
		func() error { _, err := c.GetGain(ctx, 5555, "2019-03-01", "2019-03-07"); return err },
	}

	var wg sync.WaitGroup
	errs := make([]error, len(calls))
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call func() error) {
			defer wg.Done()
			errs[i] = call()
		}(i, call)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
	}

	got := api.recorded()
	if len(got) != len(calls)+1 {
		t.Fatalf("requests = %d, want %d", len(got), len(calls)+1)
	}
	if got[0].Path != loginPath {
		t.Errorf("first request = %q, want %q", got[0].Path, loginPath)
	}
	if n := api.logins.Load(); n != 1 {
		t.Errorf("logins = %d, want 1", n)
	}

	login := got[0]
	if login.RawQuery != "email=my%40email.com&password=my_password" {
		t.Errorf("login query = %q", login.RawQuery)
	}
	if login.Query.Get("email") != testEmail || login.Query.Get("password") != testPassword {
		t.Errorf("login credentials = %v", login.Query)
	}
	if len(login.Query) != 2 {
		t.Errorf("login query keys = %d, want 2", len(login.Query))
	}

	for _, call := range got[1:] {
		if call.Path == loginPath {
			t.Errorf("unexpected second login")
		}
		if call.Query.Get("session") != testSession {
			t.Errorf("%s session = %q, want %q", call.Path, call.Query.Get("session"), testSession)
		}
	}
}

func TestEnsureSession_Reuse(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client()
	ctx := context.Background()

	if _, err := c.GetMyAccounts(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	api.reset()

	if _, err := c.GetHistory(ctx, 7777); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := api.recorded()
	if len(got) != 1 {
		t.Fatalf("requests = %d, want 1", len(got))
	}
	if got[0].Path == loginPath {
		t.Error("session was not reused")
	}
	if got[0].Query.Get("session") != testSession {
		t.Errorf("session = %q, want %q", got[0].Query.Get("session"), testSession)
	}
}

func TestEnsureSession_LoginFailureRecovery(t *testing.T) {
	t.Run("application error", func(t *testing.T) {
		api := newFakeAPI(t)
		api.setLoginHandler(replyWith(`{"error": true, "message": "Invalid email or password."}`))
		c := api.client()
		ctx := context.Background()

		_, err := c.GetMyAccounts(ctx)
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		var loginErr *LoginError
		if !errors.As(err, &loginErr) {
			t.Fatalf("expected *LoginError, got %T", err)
		}
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected wrapped *APIError, got %v", err)
		}
		if apiErr.Message != "Invalid email or password." {
			t.Errorf("Message = %q", apiErr.Message)
		}
		if apiErr.Endpoint != "login" {
			t.Errorf("Endpoint = %q, want login", apiErr.Endpoint)
		}

		api.setLoginHandler(replyWith(`{"error": false, "message": "", "session": "` + testSession + `"}`))

		if _, err := c.GetMyAccounts(ctx); err != nil {
			t.Fatalf("retry: unexpected error: %v", err)
		}
		if n := api.logins.Load(); n != 2 {
			t.Errorf("logins = %d, want 2", n)
		}
	})

	t.Run("malformed reply", func(t *testing.T) {
		api := newFakeAPI(t)
		api.setLoginHandler(replyWith(`<html>maintenance</html>`))
		c := api.client()
		ctx := context.Background()

		_, err := c.Login(ctx)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		var respErr *ResponseError
		if !errors.As(err, &respErr) {
			t.Fatalf("expected wrapped *ResponseError, got %T", err)
		}
		if !strings.Contains(err.Error(), "<html>maintenance</html>") {
			t.Errorf("error should contain raw body, got %v", err)
		}

		api.setLoginHandler(replyWith(`{"error": false, "message": "", "session": "` + testSession + `"}`))
		session, err := c.Login(ctx)
		if err != nil {
			t.Fatalf("retry: unexpected error: %v", err)
		}
		if session != testSession {
			t.Errorf("session = %q, want %q", session, testSession)
		}
	})

	t.Run("application error with mistyped session", func(t *testing.T) {
		api := newFakeAPI(t)
		api.setLoginHandler(replyWith(`{"error": true, "message": "Invalid session", "session": 123}`))
		c := api.client()

		_, err := c.Login(context.Background())
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected wrapped *APIError, got %v", err)
		}
		if apiErr.Message != "Invalid session" {
			t.Errorf("Message = %q, want Invalid session", apiErr.Message)
		}
	})

	t.Run("empty session", func(t *testing.T) {
		api := newFakeAPI(t)
		api.setLoginHandler(replyWith(okReply))
		c := api.client()

		_, err := c.Login(context.Background())
		if !errors.Is(err, errEmptySession) {
			t.Errorf("error = %v, want %v", err, errEmptySession)
		}
	})
}

func TestEnsureSession_FailureReachesAllWaiters(t *testing.T) {
	api := newFakeAPI(t)

	release := make(chan struct{})
	api.setLoginHandler(func(w http.ResponseWriter, r *http.Request) {
		<-release
		replyWith(`{"error": true, "message": "Too many logins"}`)(w, r)
	})

	c := api.client()
	ctx := context.Background()

	const n = 4
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.GetWatchedAccounts(ctx)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		var loginErr *LoginError
		if !errors.As(err, &loginErr) {
			t.Errorf("caller %d: expected *LoginError, got %v", i, err)
		}
	}
	if got := api.logins.Load(); got != 1 {
		t.Errorf("logins = %d, want 1", got)
	}
	for _, call := range api.recorded() {
		if call.Path != loginPath {
			t.Errorf("unexpected endpoint call %q after failed login", call.Path)
		}
	}
}

func TestEnsureSession_WaiterCancellation(t *testing.T) {
	api := newFakeAPI(t)

	release := make(chan struct{})
	api.setLoginHandler(func(w http.ResponseWriter, r *http.Request) {
		<-release
		replyWith(`{"error": false, "message": "", "session": "` + testSession + `"}`)(w, r)
	})
	defer close(release)

	c := api.client()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Login(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestEnsureSession_LoginSurvivesFirstCallerCancel(t *testing.T) {
	api := newFakeAPI(t)

	release := make(chan struct{})
	api.setLoginHandler(func(w http.ResponseWriter, r *http.Request) {
		<-release
		replyWith(`{"error": false, "message": "", "session": "` + testSession + `"}`)(w, r)
	})

	c := api.client()

	first, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, err := c.Login(first)
		firstDone <- err
	}()

	time.Sleep(20 * time.Millisecond)

	secondDone := make(chan error, 1)
	go func() {
		_, err := c.Login(context.Background())
		secondDone <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancelFirst()

	if err := <-firstDone; !errors.Is(err, context.Canceled) {
		t.Errorf("first caller error = %v, want %v", err, context.Canceled)
	}

	close(release)

	if err := <-secondDone; err != nil {
		t.Fatalf("second caller: unexpected error: %v", err)
	}
	if got := api.logins.Load(); got != 1 {
		t.Errorf("logins = %d, want 1", got)
	}
}

func TestWithSession(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(WithSession("seeded"))

	if _, err := c.GetCommunityOutlook(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := api.recorded()
	if len(got) != 1 {
		t.Fatalf("requests = %d, want 1", len(got))
	}
	if got[0].Query.Get("session") != "seeded" {
		t.Errorf("session = %q, want %q", got[0].Query.Get("session"), "seeded")
	}
}

func TestSession(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		session, err := c.Session(ctx)
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if session != testSession {
			t.Errorf("call %d: session = %q, want %q", i, session, testSession)
		}
	}
	if n := api.logins.Load(); n != 1 {
		t.Errorf("logins = %d, want 1", n)
	}
}

func TestLogout(t *testing.T) {
	t.Run("without session does nothing", func(t *testing.T) {
		api := newFakeAPI(t)
		c := api.client()

		resp, err := c.Logout(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp == nil || resp.Error {
			t.Errorf("resp = %+v, want empty envelope", resp)
		}
		if n := len(api.recorded()); n != 0 {
			t.Errorf("requests = %d, want 0", n)
		}
	})

	t.Run("forgets session", func(t *testing.T) {
		api := newFakeAPI(t)
		c := api.client()
		ctx := context.Background()

		if _, err := c.Login(ctx); err != nil {
			t.Fatalf("login: %v", err)
		}
		if _, err := c.Logout(ctx); err != nil {
			t.Fatalf("logout: %v", err)
		}

		got := api.recorded()
		if len(got) != 2 {
			t.Fatalf("requests = %d, want 2", len(got))
		}
		if got[1].Path != "/api/logout.json" {
			t.Errorf("path = %q, want /api/logout.json", got[1].Path)
		}
		if got[1].RawQuery != "session="+testSession {
			t.Errorf("query = %q, want session=%s", got[1].RawQuery, testSession)
		}

		if _, err := c.GetMyAccounts(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n := api.logins.Load(); n != 2 {
			t.Errorf("logins = %d, want 2 after logout", n)
		}
	})

	t.Run("waits for in-flight login", func(t *testing.T) {
		api := newFakeAPI(t)

		release := make(chan struct{})
		api.setLoginHandler(func(w http.ResponseWriter, r *http.Request) {
			<-release
			replyWith(`{"error": false, "message": "", "session": "` + testSession + `"}`)(w, r)
		})

		c := api.client()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		loginDone := make(chan error, 1)
		go func() {
			_, err := c.Login(ctx)
			loginDone <- err
		}()

		// Wait until the login request has reached the server.
		for api.logins.Load() == 0 {
			if ctx.Err() != nil {
				t.Fatal("login never started")
			}
			time.Sleep(5 * time.Millisecond)
		}

		logoutDone := make(chan error, 1)
		go func() {
			_, err := c.Logout(ctx)
			logoutDone <- err
		}()

		time.Sleep(20 * time.Millisecond)
		close(release)

		if err := <-loginDone; err != nil {
			t.Fatalf("login: %v", err)
		}
		if err := <-logoutDone; err != nil {
			t.Fatalf("logout: %v", err)
		}

		var loggedOut bool
		for _, call := range api.recorded() {
			if call.Path == "/api/logout.json" && call.RawQuery == "session="+testSession {
				loggedOut = true
			}
		}
		if !loggedOut {
			t.Errorf("logout was not sent for the in-flight session: %v", api.recorded())
		}
		if got := c.cachedSession(); got != "" {
			t.Errorf("session = %q, want cleared", got)
		}
	})

	t.Run("rejected logout keeps session", func(t *testing.T) {
		api := newFakeAPI(t)
		c := api.client()
		ctx := context.Background()

		if _, err := c.Login(ctx); err != nil {
			t.Fatalf("login: %v", err)
		}
		api.setHandler(replyWith(`{"error": true, "message": "Invalid session"}`))

		_, err := c.Logout(ctx)
		if err == nil || err.Error() != "Invalid session" {
			t.Fatalf("error = %v, want Invalid session", err)
		}
		if c.cachedSession() != testSession {
			t.Errorf("session = %q, want %q", c.cachedSession(), testSession)
		}
	})
}
