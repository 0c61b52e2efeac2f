package myfxbook

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL is the root of the Myfxbook API.
const DefaultBaseURL = "https://www.myfxbook.com/api"

// Client provides access to the Myfxbook API.
type Client struct {
	baseURL    string
	email      string
	password   string
	httpClient *http.Client
	logger     *slog.Logger

	// login de-duplicates concurrent session acquisition.
	login singleflight.Group

	mu      sync.Mutex
	session string
	pending chan struct{} // non-nil while a login runs
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a client for the given account credentials. No network
// call is made until the first method that needs a session.
func NewClient(email, password string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		email:      email,
		password:   password,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithBaseURL overrides the API root (e.g. for a test server).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSession seeds the client with a session obtained elsewhere, so the
// first call skips the login.
func WithSession(session string) ClientOption {
	return func(c *Client) {
		c.session = session
	}
}
