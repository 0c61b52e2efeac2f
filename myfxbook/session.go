package myfxbook

import (
	"context"
	"errors"
	"fmt"
)

// loginKey is the single singleflight key: one client holds one credential
// pair, so there is never more than one login to share.
const loginKey = "login"

// LoginError wraps the failure of a session login. The inner error is an
// *APIError or a *ResponseError.
type LoginError struct {
	Err error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login failed: %v", e.Err)
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

var errEmptySession = errors.New("empty session in login reply")

// Login returns the session token, logging in only if no session is cached.
// Concurrent callers on a fresh client share one login request. A failed
// login is not remembered; the next call tries again.
func (c *Client) Login(ctx context.Context) (string, error) {
	return c.ensureSession(ctx)
}

// Session returns the current session token, logging in first if none is
// cached. It is the accessor form of Login.
func (c *Client) Session(ctx context.Context) (string, error) {
	return c.ensureSession(ctx)
}

// Logout ends the cached session and forgets it. A login still in flight is
// waited for first, so its token is logged out rather than cached afterwards.
// Without a session it does nothing.
func (c *Client) Logout(ctx context.Context) (*Envelope, error) {
	session, pending := c.sessionState()
	if session == "" && pending != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-pending:
		}
		session = c.cachedSession()
	}
	if session == "" {
		return &Envelope{}, nil
	}

	var resp Envelope
	if err := c.call(ctx, endpointLogout, params{}.add("session", session), &resp); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.session == session {
		c.session = ""
	}
	c.mu.Unlock()

	c.logger.Info("logged out")
	return &resp, nil
}

func (c *Client) cachedSession() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// sessionState returns the cached token and, while a login runs, a channel
// closed when it finishes.
func (c *Client) sessionState() (string, <-chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, c.pending
}

// ensureSession returns the cached session or waits on the one in-flight
// login, starting it if nobody has. The shared login does not inherit the
// caller's cancellation so one caller giving up cannot fail the others; ctx
// only bounds how long this caller waits.
func (c *Client) ensureSession(ctx context.Context) (string, error) {
	if session := c.cachedSession(); session != "" {
		return session, nil
	}

	ch := c.login.DoChan(loginKey, func() (any, error) {
		// A login that finished between the check above and this call has
		// already cached its token.
		c.mu.Lock()
		if c.session != "" {
			session := c.session
			c.mu.Unlock()
			return session, nil
		}
		done := make(chan struct{})
		c.pending = done
		c.mu.Unlock()

		defer func() {
			c.mu.Lock()
			c.pending = nil
			c.mu.Unlock()
			close(done)
		}()

		return c.doLogin(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// doLogin issues the login call and caches the token on success.
func (c *Client) doLogin(ctx context.Context) (string, error) {
	query := params{}.
		add("email", c.email).
		add("password", c.password)

	var resp LoginResponse
	if err := c.call(ctx, endpointLogin, query, &resp); err != nil {
		c.logger.Warn("login failed", "error", err)
		return "", &LoginError{Err: err}
	}
	if resp.Session == "" {
		return "", &LoginError{Err: &ResponseError{Endpoint: endpointLogin, Err: errEmptySession}}
	}

	c.mu.Lock()
	c.session = resp.Session
	c.mu.Unlock()

	c.logger.Info("logged in")
	return resp.Session, nil
}
