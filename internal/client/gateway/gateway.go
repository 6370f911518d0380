package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/sanguischat/internal/logging"
)

var ErrUnavailable = errors.New("server unavailable")

const (
	HeaderRequestID = "X-Request-ID"
	ContentTypeJSON = "application/json"
)

// Doer sends a prepared request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Credentials is the part of the session the gateway reads and resets.
type Credentials interface {
	Token() string
	Teardown(ctx context.Context) error
}

// RequestOptions describe a single call. The zero value is a GET without body.
type RequestOptions struct {
	Method string
	Body   []byte
	Header http.Header
}

type Gateway struct {
	baseURL string
	creds   Credentials
	doer    Doer
	timeout time.Duration
	log     logging.Logger
}

type Option func(*Gateway)

// WithDoer replaces the default *http.Client.
func WithDoer(d Doer) Option {
	return func(g *Gateway) { g.doer = d }
}

// WithTimeout bounds each request. Zero waits indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

func New(baseURL string, creds Credentials, log logging.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		doer:    http.DefaultClient,
		log:     log.With("component", "gateway"),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Do issues the request at baseURL+path. opts may be nil.
//
// With a request timeout configured, the deadline covers the call only; the
// caller still reads the body before the context is released, so Do wraps
// the body to cancel on Close.
func (g *Gateway) Do(ctx context.Context, path string, opts *RequestOptions) (*http.Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	cancel := context.CancelFunc(func() {})
	if g.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
	}

	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	for k, vs := range opts.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if token := g.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if opts.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", ContentTypeJSON)
	}
	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}
	reqID := req.Header.Get(HeaderRequestID)

	g.log.Debug(ctx, "request", "method", method, "path", path, "request_id", reqID)

	resp, err := g.doer.Do(req)
	if err != nil {
		cancel()
		g.log.Warn(ctx, "request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}

	g.log.Debug(ctx, "response", "method", method, "path", path, "request_id", reqID, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		g.log.Info(ctx, "credential rejected, signing out", "path", path, "request_id", reqID)
		// teardown must survive a canceled request context
		if terr := g.creds.Teardown(context.WithoutCancel(ctx)); terr != nil {
			g.log.Error(ctx, "session teardown failed", "error", terr)
		}
	}

	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
