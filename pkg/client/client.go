// Package client is a typed Go SDK for the public and customer endpoints.
//
// Callers own the Session value: the bearer token from Login and the cart
// session id the server mints on first contact. Each call updates
// Session.CartSessionID from the X-Cart-Session response header.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resty.dev/v3"

	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
	"github.com/angelmondragon/bistro-backend/pkg/types"
)

const (
	cartSessionHeader = "X-Cart-Session"
	idempotencyHeader = "Idempotency-Key"

	defaultTimeout = 15 * time.Second
	defaultRetries = 2
)

// Session is the caller identity sent with every request. A nil *Session
// makes an anonymous call without a cart.
type Session struct {
	Token         string
	CartSessionID string
}

type Client struct {
	http *resty.Client
}

type Option func(*resty.Client)

func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithRetries sets how often idempotent requests are retried.
func WithRetries(n int) Option {
	return func(c *resty.Client) { c.SetRetryCount(n) }
}

func WithHeader(key, value string) Option {
	return func(c *resty.Client) { c.SetHeader(key, value) }
}

func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(defaultTimeout).
		SetRetryCount(defaultRetries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(rc)
	}
	return &Client{http: rc}
}

func (c *Client) Close() error {
	return c.http.Close()
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Code       pkgerrors.Code
	Message    string
	Details    any
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bistro api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsCode reports whether err is an APIError carrying code.
func IsCode(err error, code pkgerrors.Code) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

func call[T any](ctx context.Context, c *Client, sess *Session, method, path string, configure func(*resty.Request)) (T, error) {
	var (
		out    types.Envelope[T]
		failed types.ErrorEnvelope
		zero   T
	)
	req := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&failed)
	if sess != nil {
		if sess.Token != "" {
			req.SetAuthToken(sess.Token)
		}
		if sess.CartSessionID != "" {
			req.SetHeader(cartSessionHeader, sess.CartSessionID)
		}
	}
	if configure != nil {
		configure(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if sess != nil {
		if id := resp.Header().Get(cartSessionHeader); id != "" {
			sess.CartSessionID = id
		}
	}
	if resp.IsError() {
		apiErr := &APIError{
			StatusCode: resp.StatusCode(),
			Code:       pkgerrors.Code(failed.Error.Code),
			Message:    failed.Error.Message,
			Details:    failed.Error.Details,
			RequestID:  failed.Error.RequestID,
		}
		if apiErr.Code == "" {
			apiErr.Code = pkgerrors.CodeInternal
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		return zero, apiErr
	}
	return out.Data, nil
}

func withBody(body any) func(*resty.Request) {
	return func(r *resty.Request) { r.SetBody(body) }
}
