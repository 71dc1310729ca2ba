package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/goblog/internal/common"
	"github.com/dmitrijs2005/goblog/internal/logging"
	"github.com/google/uuid"
)

// TokenSource is the durable credential the adapter reads before every
// request and clears on 401.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

type Client struct {
	base   *url.URL
	http   *http.Client
	creds  TokenSource
	logger logging.Logger

	mu             sync.RWMutex
	headers        http.Header
	onUnauthorized func(ctx context.Context)
}

type Option func(*Client)

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient replaces the underlying transport. Its Timeout is
// overwritten with the adapter's timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func New(baseURL string, timeout time.Duration, creds TokenSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		base:    u,
		http:    &http.Client{},
		creds:   creds,
		logger:  logging.NewDiscard(),
		headers: http.Header{},
	}
	for _, o := range opts {
		o(c)
	}
	c.http.Timeout = timeout
	return c, nil
}

// OnUnauthorized installs the handler run after a 401 cleared the credential.
// It exists alongside WithUnauthorizedHandler because the navigator is
// usually built after the client.
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// SetDefaultHeader adds a header sent with every request.
func (c *Client) SetDefaultHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers.Set(key, value)
}

// SetBearer attaches token as the default Authorization header.
func (c *Client) SetBearer(token string) {
	c.SetDefaultHeader(common.AuthorizationHeaderName, common.BearerPrefix+token)
}

func (c *Client) ClearBearer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers.Del(common.AuthorizationHeaderName)
}

// CloseIdleConnections releases pooled keep-alive connections.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

// Request sends one call to the API. body may be nil, a *Multipart, or any
// JSON-marshalable value.
func (c *Client) Request(ctx context.Context, method, path string, body any, query url.Values) (*Response, error) {
	req, err := c.newRequest(ctx, method, path, body, query)
	if err != nil {
		return nil, err
	}

	requestID := req.Header.Get(common.RequestIDHeaderName)
	log := c.logger.With("method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error(ctx, "request failed", "error", err)
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error(ctx, "read response body", "error", err)
		return nil, networkError(err)
	}
	log.Debug(ctx, "response received", "status", resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &Response{Status: resp.StatusCode, Header: resp.Header, Body: raw}, nil
	}

	msg := serverMessage(raw)
	if resp.StatusCode == http.StatusUnauthorized {
		log.Warn(ctx, "unauthorized, dropping credential")
		c.handleUnauthorized(ctx)
		return nil, &common.RequestError{Kind: common.KindAuthorization, Status: resp.StatusCode, Message: msg}
	}
	return nil, &common.RequestError{Kind: common.KindApplication, Status: resp.StatusCode, Message: msg}
}

// Get, Post, Put and Delete are Request followed by Response.Decode into out
// (skipped when out is nil).
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, http.MethodGet, path, nil, query, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPost, path, body, nil, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPut, path, body, nil, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) call(ctx context.Context, method, path string, body any, query url.Values, out any) error {
	resp, err := c.Request(ctx, method, path, body, query)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, query url.Values) (*http.Request, error) {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	reader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, &common.RequestError{Kind: common.KindApplication, Message: "invalid request body", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, &common.RequestError{Kind: common.KindApplication, Message: "invalid request", Err: err}
	}

	c.mu.RLock()
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	c.mu.RUnlock()

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	if c.creds != nil {
		token, err := c.creds.Token(ctx)
		if err != nil {
			c.logger.Warn(ctx, "credential lookup failed", "error", err)
		} else if token != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}
	return req, nil
}

func (c *Client) handleUnauthorized(ctx context.Context) {
	c.ClearBearer()
	if c.creds != nil {
		if err := c.creds.Clear(ctx); err != nil {
			c.logger.Error(ctx, "clear credential", "error", err)
		}
	}

	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn(ctx)
	}
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *Multipart:
		return b.encode()
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

func networkError(err error) error {
	msg := "server unavailable"
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		msg = "request timed out"
	}
	return &common.RequestError{Kind: common.KindNetwork, Message: msg, Err: err}
}

// FilePart is one file of a multipart body.
type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Multipart is a form-data request body.
type Multipart struct {
	Fields map[string]string
	Files  []FilePart
}

func (m *Multipart) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.Files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
