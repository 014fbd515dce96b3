package controller

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"sdwan-mcp/internal/config"
	"sdwan-mcp/pkg/logging"
)

// maxResponseSize bounds how much of a data response is read into memory.
const maxResponseSize = 64 << 20

var insecureTLSWarning sync.Once

// Client issues authenticated calls against the controller REST API. It is the
// only component that attaches session credentials to data calls.
type Client struct {
	baseURL       string
	apiPrefix     string
	timeout       time.Duration
	autoReconnect bool
	csrfOnReads   bool

	httpClient *http.Client
	detector   AuthFailureDetector
	now        func() time.Time

	sessions *SessionManager
}

// ClientOption configures the controller client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client. Redirect following is disabled on
// a copy if the client does not set its own CheckRedirect.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		hc := *httpClient
		if hc.CheckRedirect == nil {
			hc.CheckRedirect = noRedirect
		}
		c.httpClient = &hc
	}
}

// WithAuthFailureDetector replaces the configured signal detector.
func WithAuthFailureDetector(d AuthFailureDetector) ClientOption {
	return func(c *Client) {
		c.detector = d
	}
}

// WithClock sets the time source used for session expiry.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a controller client and its session manager.
func NewClient(cfg *config.Config, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		apiPrefix:     strings.TrimSuffix(cfg.Endpoints.APIPrefix, "/"),
		timeout:       cfg.RequestTimeoutDuration(),
		autoReconnect: cfg.AutoReconnect,
		csrfOnReads:   cfg.CSRF.OnReads,
		detector:      NewSignalDetector(cfg.AuthFailure),
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = NewHTTPClient(cfg)
	}

	c.sessions = NewSessionManager(cfg, c.httpClient)
	c.sessions.now = c.now

	return c
}

// NewHTTPClient returns an HTTP client that does not follow redirects and
// verifies TLS according to cfg.VerifySSL.
func NewHTTPClient(cfg *config.Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: !cfg.VerifySSL, //nolint:gosec // controllers commonly use self-signed certificates
	}
	if insecureTLS(cfg) {
		insecureTLSWarning.Do(func() {
			logging.Warn("Controller", "TLS certificate verification is disabled for %s", cfg.BaseURL)
		})
	}
	return &http.Client{
		Transport:     transport,
		CheckRedirect: noRedirect,
	}
}

// insecureTLS reports whether certificate verification is off for a controller
// actually reached over TLS. Plain http base URLs have nothing to verify.
func insecureTLS(cfg *config.Config) bool {
	if cfg.VerifySSL {
		return false
	}
	u, err := url.Parse(cfg.BaseURL)
	return err == nil && u.Scheme == "https"
}

func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// Sessions returns the session manager backing this client.
func (c *Client) Sessions() *SessionManager {
	return c.sessions
}

// BaseURL returns the controller base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call performs method on path with the live session. When the controller
// rejects the session, the client re-authenticates once and retries once.
// params may be nil; body, when non-nil, is sent as JSON.
func (c *Client) Call(ctx context.Context, method, path string, params url.Values, body any) (any, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	session, err := c.acquireSession(ctx)
	if err != nil {
		return nil, &RequestError{Cause: CauseAuth, Method: method, Path: path, Err: err}
	}

	resp, err := c.do(ctx, session, method, path, params, payload)
	if err != nil {
		return nil, err
	}

	if c.detector.IsAuthFailure(resp) {
		logging.Info("Controller", "Session rejected on %s %s (status %d), re-authenticating", method, path, resp.StatusCode)

		session, err = c.sessions.Reauthenticate(ctx, session)
		if err != nil {
			return nil, &RequestError{Cause: CauseAuth, Method: method, Path: path, Err: err}
		}

		resp, err = c.do(ctx, session, method, path, params, payload)
		if err != nil {
			return nil, err
		}
		if c.detector.IsAuthFailure(resp) {
			c.sessions.invalidateIf(session)
			logging.Warn("Controller", "Session rejected again after re-authentication on %s %s", method, path)
			return nil, &RequestError{Cause: CauseAuth, Method: method, Path: path, Status: resp.StatusCode, Exhausted: true}
		}
	}

	return decodeResponse(method, path, resp)
}

// acquireSession returns the session to use for a call, logging in when there
// is none. With autoReconnect, an expired session counts as none.
func (c *Client) acquireSession(ctx context.Context) (*Session, error) {
	var session *Session
	if c.autoReconnect {
		session = c.sessions.Current()
		if session == nil && c.sessions.Existing() != nil {
			logging.Debug("Controller", "Session expired, re-authenticating before call")
		}
	} else {
		session = c.sessions.Existing()
	}

	if session != nil && session.ID != "" && session.Token != "" {
		return session, nil
	}
	return c.sessions.ensure(ctx)
}

func (c *Client) do(ctx context.Context, session *Session, method, path string, params url.Values, payload []byte) (*RawResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &RequestError{Cause: CauseNetwork, Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.ID})
	if c.csrfOnReads || isMutating(method) {
		req.Header.Set(TokenHeader, session.Token)
	}

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Cause: classifyTransportError(err), Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &RequestError{Cause: classifyTransportError(err), Method: method, Path: path, Err: err}
	}

	logging.Debug("Controller", "%s %s -> %d (%s)", method, path, resp.StatusCode, c.now().Sub(start).Round(time.Millisecond))

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		Location:   resp.Header.Get("Location"),
	}, nil
}

func decodeResponse(method, path string, resp *RawResponse) (any, error) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{Cause: CauseHTTP, Method: method, Path: path, Status: resp.StatusCode}
	}

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(resp.Body))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, &RequestError{Cause: CauseParse, Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}
	return out, nil
}

func classifyTransportError(err error) RequestCause {
	if errors.Is(err, context.DeadlineExceeded) {
		return CauseTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CauseTimeout
	}
	return CauseNetwork
}

func isMutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}
