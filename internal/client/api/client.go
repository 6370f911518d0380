// Package api maps the backend endpoints to typed Go calls.
//
// Every call goes through the gateway. A non-2xx status becomes *Error with
// the payload's "message" or a per-call default; a 2xx body that does not
// match the agreed schema becomes ErrUnexpectedShape.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/sanguischat/internal/client/gateway"
	"github.com/dmitrijs2005/sanguischat/internal/client/models"
)

// Requester is satisfied by *gateway.Gateway.
type Requester interface {
	Do(ctx context.Context, path string, opts *gateway.RequestOptions) (*http.Response, error)
}

type Client struct {
	gw Requester
}

func New(gw Requester) *Client {
	return &Client{gw: gw}
}

// AuthResult is returned by the sign-in endpoints.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// call sends in as JSON (when non-nil) and decodes a 2xx body into out (when
// non-nil). Other bodies are drained and discarded.
func (c *Client) call(ctx context.Context, method, path string, in, out any, fallback string) error {
	opts := &gateway.RequestOptions{Method: method}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		opts.Body = b
	}

	resp, err := c.gw.Do(ctx, path, opts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readError(resp, fallback)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnexpectedShape, method, path, err)
	}
	return nil
}

func readError(resp *http.Response, fallback string) error {
	var p errorPayload
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(b, &p); err != nil || p.Message == "" {
		p.Message = fallback
	}
	return &Error{Status: resp.StatusCode, Message: p.Message}
}

func shapeErr(what string) error {
	return fmt.Errorf("%w: %s", ErrUnexpectedShape, what)
}

func conversationPath(id string) string {
	return "/conversations/" + url.PathEscape(id)
}
