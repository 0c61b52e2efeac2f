package myfxbook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var errNotObject = errors.New("reply is not a JSON object")

// APIError is a well-formed reply whose envelope has error set.
type APIError struct {
	Endpoint string
	Message  string
}

// Error returns the service message verbatim.
func (e *APIError) Error() string {
	return e.Message
}

// ResponseError means the call could not be completed or its body was not
// valid JSON. Body holds the raw reply when one was read.
type ResponseError struct {
	Endpoint string
	Body     []byte
	Err      error
}

func (e *ResponseError) Error() string {
	if e.Body == nil {
		return fmt.Sprintf("%s error: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s error: %v. Original response: %s", e.Endpoint, e.Err, strconv.Quote(string(e.Body)))
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// IsAPIError reports whether err carries an application-level error from the
// service, as opposed to a transport or decode failure.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// Envelope is the part of every reply shared by all endpoints.
type Envelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func (e *Envelope) envelope() *Envelope {
	return e
}

// reply is implemented by every response type through its embedded Envelope.
type reply interface {
	envelope() *Envelope
}

// param is one query parameter. Parameters are kept as a slice so the query
// string preserves the order the caller built it in.
type param struct {
	key   string
	value string
}

type params []param

func (p params) add(key, value string) params {
	return append(p, param{key: key, value: value})
}

// encode form-encodes the parameters in order.
func (p params) encode() string {
	var sb strings.Builder
	for i, kv := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(kv.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv.value))
	}
	return sb.String()
}

// endpointURL builds <baseURL>/<endpoint>.json?<query>.
func (c *Client) endpointURL(endpoint string, query params) string {
	u := strings.TrimRight(c.baseURL, "/") + "/" + endpoint + ".json"
	if len(query) > 0 {
		u += "?" + query.encode()
	}
	return u
}

// doRequest posts to the endpoint and returns the raw body.
func (c *Client) doRequest(ctx context.Context, endpoint string, query params) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(endpoint, query), nil)
	if err != nil {
		return nil, &ResponseError{Endpoint: endpoint, Err: fmt.Errorf("create request: %w", c.redact(endpoint, err))}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ResponseError{Endpoint: endpoint, Err: fmt.Errorf("do request: %w", c.redact(endpoint, err))}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ResponseError{Endpoint: endpoint, Err: fmt.Errorf("read response: %w", err)}
	}

	return body, nil
}

// redact drops the query string from a *url.Error; the query carries the
// password and session token.
func (c *Client) redact(endpoint string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = c.endpointURL(endpoint, nil)
	}
	return err
}

// call performs one API call and decodes the reply into out. The HTTP status
// is not inspected; the envelope decides success.
func (c *Client) call(ctx context.Context, endpoint string, query params, out reply) error {
	start := time.Now()

	body, err := c.doRequest(ctx, endpoint, query)
	if err != nil {
		return err
	}

	// The envelope decides the outcome before the payload is decoded.
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &ResponseError{Endpoint: endpoint, Body: body, Err: err}
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '{' {
		return &ResponseError{Endpoint: endpoint, Body: body, Err: errNotObject}
	}
	if env.Error {
		c.logger.Debug("api call rejected",
			"endpoint", endpoint,
			"message", env.Message,
			"duration", time.Since(start),
		)
		return &APIError{Endpoint: endpoint, Message: env.Message}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ResponseError{Endpoint: endpoint, Body: body, Err: err}
	}

	c.logger.Debug("api call complete",
		"endpoint", endpoint,
		"duration", time.Since(start),
	)

	return nil
}
