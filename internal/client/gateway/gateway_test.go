package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sanguischat/internal/client/models"
	"github.com/dmitrijs2005/sanguischat/internal/client/session"
	"github.com/dmitrijs2005/sanguischat/internal/logging"
)

type captured struct {
	mu     sync.Mutex
	method string
	path   string
	query  string
	header http.Header
	body   string
}

func (c *captured) snapshot() captured {
	c.mu.Lock()
	defer c.mu.Unlock()
	return captured{method: c.method, path: c.path, query: c.query, header: c.header, body: c.body}
}

func newServer(t *testing.T, status int, respBody string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.method = r.Method
		c.path = r.URL.Path
		c.query = r.URL.RawQuery
		c.header = r.Header.Clone()
		c.body = string(b)
		c.mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func newSession(t *testing.T, token string) (*session.Session, *session.MemoryStore) {
	t.Helper()
	st := &session.MemoryStore{}
	s := session.New(st, logging.Discard())
	if token != "" {
		require.NoError(t, s.Establish(context.Background(), token, &models.User{ID: "u1", Name: "Ann"}))
	}
	return s, st
}

func TestDo_CredentialNoBody(t *testing.T) {
	srv, c := newServer(t, http.StatusOK, `[]`)
	s, _ := newSession(t, "abc")
	g := New(srv.URL+"/api", s, logging.Discard())

	resp, err := g.Do(context.Background(), "/conversations", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	got := c.snapshot()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/api/conversations", got.path)
	assert.Equal(t, "Bearer abc", got.header.Get("Authorization"))
	assert.Empty(t, got.header.Get("Content-Type"))
	assert.NotEmpty(t, got.header.Get(HeaderRequestID))
}

func TestDo_BodyNoCredential(t *testing.T) {
	srv, c := newServer(t, http.StatusCreated, `{}`)
	s, _ := newSession(t, "")
	g := New(srv.URL, s, logging.Discard())

	resp, err := g.Do(context.Background(), "/conversations", &RequestOptions{
		Method: http.MethodPost,
		Body:   []byte(`{"initialMessage":"hi"}`),
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	got := c.snapshot()

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, ContentTypeJSON, got.header.Get("Content-Type"))
	_, hasAuth := got.header["Authorization"]
	assert.False(t, hasAuth)
	assert.Equal(t, `{"initialMessage":"hi"}`, got.body)
}

func TestDo_ExplicitContentTypeKept(t *testing.T) {
	srv, c := newServer(t, http.StatusOK, ``)
	s, _ := newSession(t, "")
	g := New(srv.URL, s, logging.Discard())

	h := http.Header{}
	h.Set("Content-Type", "text/plain")
	h.Set(HeaderRequestID, "fixed-id")
	resp, err := g.Do(context.Background(), "/echo", &RequestOptions{
		Method: http.MethodPut,
		Body:   []byte("hello"),
		Header: h,
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	got := c.snapshot()

	assert.Equal(t, "text/plain", got.header.Get("Content-Type"))
	assert.Equal(t, "fixed-id", got.header.Get(HeaderRequestID))
}

func TestDo_RawResponseReturned(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadRequest, `{"message":"nope"}`)
	s, _ := newSession(t, "abc")
	g := New(srv.URL, s, logging.Discard())

	resp, err := g.Do(context.Background(), "/auth/login", &RequestOptions{Method: http.MethodPost, Body: []byte(`{}`)})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"nope"}`, string(b))
	assert.True(t, s.HasCredential())
}

func TestDo_UnauthorizedTearsDown(t *testing.T) {
	for _, path := range []string{"/auth/me", "/conversations", "/conversations/42/message"} {
		t.Run(path, func(t *testing.T) {
			srv, _ := newServer(t, http.StatusUnauthorized, `{"message":"expired"}`)
			s, st := newSession(t, "abc")
			g := New(srv.URL, s, logging.Discard())

			resp, err := g.Do(context.Background(), path, nil)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.False(t, s.HasCredential())
			assert.Nil(t, s.User())
			stored, err := st.Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, stored)
		})
	}
}

func TestDo_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s, _ := newSession(t, "abc")
	g := New(url, s, logging.Discard())

	_, err := g.Do(context.Background(), "/conversations", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, s.HasCredential())
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func TestDo_CustomDoer(t *testing.T) {
	boom := errors.New("boom")
	s, _ := newSession(t, "")
	var seen *http.Request
	g := New("http://backend.invalid/api/", s, logging.Discard(), WithDoer(doerFunc(func(r *http.Request) (*http.Response, error) {
		seen = r
		return nil, boom
	})))

	_, err := g.Do(context.Background(), "/auth/me", &RequestOptions{})
	require.ErrorIs(t, err, ErrUnavailable)
	require.NotNil(t, seen)
	assert.Equal(t, "http://backend.invalid/api/auth/me", seen.URL.String())
}

func TestDo_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	s, _ := newSession(t, "")
	g := New(srv.URL, s, logging.Discard(), WithTimeout(50*time.Millisecond))

	_, err := g.Do(context.Background(), "/slow", nil)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorContains(t, err, "deadline")
}
