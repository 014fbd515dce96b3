package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"sdwan-mcp/internal/config"
	"sdwan-mcp/pkg/logging"

	"golang.org/x/sync/singleflight"
)

const (
	// SessionCookieName is the cookie the controller issues on form login.
	SessionCookieName = "JSESSIONID"
	// TokenHeader carries the CSRF token on data calls.
	TokenHeader = "X-XSRF-TOKEN"

	// maxAuthBodySize bounds how much of a login/token response is read.
	maxAuthBodySize = 1 << 20
)

// Session is one authenticated context against the controller. It is never
// modified after creation; re-authentication produces a new Session.
type Session struct {
	ID        string // session cookie value
	Token     string // CSRF token
	CreatedAt time.Time
	TTL       time.Duration
}

// ExpiresAt returns when the session's local time-to-live runs out.
func (s *Session) ExpiresAt() time.Time {
	return s.CreatedAt.Add(s.TTL)
}

// Expired reports whether the elapsed time has reached the TTL.
func (s *Session) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) >= s.TTL
}

// Valid reports whether the session carries both tokens and has not expired.
// A session with a cookie but no token is treated as invalid.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.ID != "" && s.Token != "" && !s.Expired(now)
}

// Credentials are the controller account used to log in.
type Credentials struct {
	Username string
	Password string
}

// SessionStatus is a read-only snapshot of the session state.
type SessionStatus struct {
	Authenticated bool       `json:"authenticated"`
	SessionID     string     `json:"session_id,omitempty"`
	TokenPresent  bool       `json:"token_present"`
	BaseURL       string     `json:"base_url"`
	Username      string     `json:"username"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Expired       bool       `json:"expired"`
	TTLSeconds    int        `json:"ttl_seconds"`
	AutoReconnect bool       `json:"auto_reconnect"`
	LastError     string     `json:"last_error,omitempty"`
}

// SessionManager owns the live Session and performs the login protocol.
type SessionManager struct {
	baseURL        string
	endpoints      config.EndpointsConfig
	ttl            time.Duration
	timeout        time.Duration
	autoReconnect  bool
	logAuthDetails bool
	httpClient     *http.Client
	now            func() time.Time

	mu        sync.RWMutex
	session   *Session
	creds     Credentials
	lastError string

	// loginMu serializes login round trips and credential changes so a
	// session is never installed for credentials that were replaced meanwhile.
	loginMu    sync.Mutex
	loginGroup singleflight.Group
}

// NewSessionManager creates a session manager for the configured controller.
// httpClient must not follow redirects (see NewHTTPClient).
func NewSessionManager(cfg *config.Config, httpClient *http.Client) *SessionManager {
	return &SessionManager{
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		endpoints:      cfg.Endpoints,
		ttl:            cfg.SessionTTL(),
		timeout:        cfg.RequestTimeoutDuration(),
		autoReconnect:  cfg.AutoReconnect,
		logAuthDetails: cfg.LogAuthDetails,
		httpClient:     httpClient,
		now:            time.Now,
		creds: Credentials{
			Username: cfg.Username,
			Password: cfg.Password,
		},
	}
}

// Authenticate logs in with the configured credentials and replaces the live
// session on success. Concurrent callers share a single login round trip.
// On failure the previous session, if any, is left untouched.
func (m *SessionManager) Authenticate(ctx context.Context) (*Session, error) {
	result, err, _ := m.loginGroup.Do("login", func() (interface{}, error) {
		m.loginMu.Lock()
		defer m.loginMu.Unlock()

		m.mu.RLock()
		creds := m.creds
		m.mu.RUnlock()
		return m.login(ctx, creds, false)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Session), nil
}

// ensure returns the live session if it is valid and logs in otherwise.
// A caller that saw no session while another login was completing reuses
// that login's result.
func (m *SessionManager) ensure(ctx context.Context) (*Session, error) {
	result, err, _ := m.loginGroup.Do("login", func() (interface{}, error) {
		m.loginMu.Lock()
		defer m.loginMu.Unlock()

		m.mu.RLock()
		current := m.session
		creds := m.creds
		m.mu.RUnlock()

		if current.Valid(m.now()) {
			return current, nil
		}
		return m.login(ctx, creds, false)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Session), nil
}

// AuthenticateWith logs in with explicit credentials. On success they replace
// the configured credentials for later re-authentication, together with the
// live session. It waits for any login already in progress.
func (m *SessionManager) AuthenticateWith(ctx context.Context, creds Credentials) (*Session, error) {
	m.loginMu.Lock()
	defer m.loginMu.Unlock()
	return m.login(ctx, creds, true)
}

// Reauthenticate replaces a session the controller rejected. If another caller
// already replaced stale with a valid session, that session is returned
// without logging in again.
func (m *SessionManager) Reauthenticate(ctx context.Context, stale *Session) (*Session, error) {
	result, err, _ := m.loginGroup.Do("login", func() (interface{}, error) {
		m.loginMu.Lock()
		defer m.loginMu.Unlock()

		m.mu.Lock()
		if m.session != nil && m.session != stale && m.session.Valid(m.now()) {
			current := m.session
			m.mu.Unlock()
			return current, nil
		}
		if m.session == stale {
			m.session = nil
		}
		creds := m.creds
		m.mu.Unlock()

		logging.Audit(logging.AuditEvent{Action: "reauth", Outcome: "started", User: creds.Username, Target: m.baseURL})
		return m.login(ctx, creds, false)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Session), nil
}

// Current returns the live session if present and not expired by elapsed time.
// Local expiry is only a pre-check; the controller's rejection is authoritative.
func (m *SessionManager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil || m.session.Expired(m.now()) {
		return nil
	}
	return m.session
}

// Existing returns the live session regardless of local expiry.
func (m *SessionManager) Existing() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Invalidate clears the live session.
func (m *SessionManager) Invalidate() {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
}

// IsValid reports whether a session exists, carries both tokens and has not expired.
func (m *SessionManager) IsValid() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Valid(m.now())
}

// Credentials returns the credentials used by future logins.
func (m *SessionManager) Credentials() Credentials {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.creds
}

// SetCredentials changes the credentials used by future logins and drops the
// live session so the next call logs in with them. A login already in
// progress finishes first, so its session cannot outlive the change.
func (m *SessionManager) SetCredentials(creds Credentials) {
	m.loginMu.Lock()
	defer m.loginMu.Unlock()

	m.mu.Lock()
	changed := creds != m.creds
	m.creds = creds
	if changed {
		m.session = nil
	}
	m.mu.Unlock()

	if changed {
		logging.Info("Session", "Credentials updated for user %s; session will be re-established on next call", creds.Username)
	}
}

// Status returns a snapshot of the session state. It never changes the state.
func (m *SessionManager) Status() SessionStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	status := SessionStatus{
		Authenticated: m.session.Valid(now),
		BaseURL:       m.baseURL,
		Username:      m.creds.Username,
		TTLSeconds:    int(m.ttl / time.Second),
		AutoReconnect: m.autoReconnect,
		LastError:     m.lastError,
	}
	if s := m.session; s != nil {
		created := s.CreatedAt
		expires := s.ExpiresAt()
		status.SessionID = logging.TruncateSessionID(s.ID)
		status.TokenPresent = s.Token != ""
		status.CreatedAt = &created
		status.ExpiresAt = &expires
		status.Expired = s.Expired(now)
	}
	return status
}

// Logout ends the live session on the controller and clears it locally.
// The local session is cleared even when the logout call fails.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	session := m.session
	m.session = nil
	user := m.creds.Username
	m.mu.Unlock()

	if session == nil || m.endpoints.Logout == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	logoutURL := m.baseURL + m.endpoints.Logout + "?nocache=" + fmt.Sprint(m.now().UnixNano())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, logoutURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create logout request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.ID})

	resp, err := m.httpClient.Do(req)
	if err != nil {
		logging.Audit(logging.AuditEvent{Action: "logout", Outcome: "failure", User: user, Target: m.baseURL, Error: err.Error()})
		return fmt.Errorf("logout request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxAuthBodySize))

	logging.Audit(logging.AuditEvent{Action: "logout", Outcome: "success", User: user, Target: m.baseURL})
	return nil
}

// login runs the two-step protocol: form login for the session cookie, then
// the token endpoint for the CSRF token. Both must succeed. When adopt is set
// creds become the configured credentials in the same step that installs the
// session. Callers hold loginMu.
func (m *SessionManager) login(ctx context.Context, creds Credentials, adopt bool) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	sessionID, err := m.submitCredentials(ctx, creds)
	if err != nil {
		m.recordFailure(creds, "login", err)
		return nil, err
	}

	token, err := m.fetchToken(ctx, sessionID)
	if err != nil {
		m.recordFailure(creds, "token_fetch", err)
		return nil, err
	}

	session := &Session{
		ID:        sessionID,
		Token:     token,
		CreatedAt: m.now(),
		TTL:       m.ttl,
	}

	m.mu.Lock()
	m.session = session
	if adopt {
		m.creds = creds
	}
	m.lastError = ""
	m.mu.Unlock()

	event := logging.AuditEvent{Action: "login", Outcome: "success", User: creds.Username, Target: m.baseURL}
	if m.logAuthDetails {
		event.SessionID = logging.TruncateSessionID(sessionID)
	}
	logging.Audit(event)
	logging.Info("Session", "Authenticated to %s as %s", m.baseURL, creds.Username)

	return session, nil
}

func (m *SessionManager) recordFailure(creds Credentials, action string, err error) {
	m.mu.Lock()
	m.lastError = err.Error()
	m.mu.Unlock()

	logging.Audit(logging.AuditEvent{
		Action:  action,
		Outcome: "failure",
		User:    creds.Username,
		Target:  m.baseURL,
		Error:   err.Error(),
	})
}

// submitCredentials posts the login form and returns the session cookie.
func (m *SessionManager) submitCredentials(ctx context.Context, creds Credentials) (string, error) {
	form := url.Values{
		"j_username": {creds.Username},
		"j_password": {creds.Password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+m.endpoints.Login, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Step: AuthStepNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Step: AuthStepNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAuthBodySize))
	if err != nil {
		return "", &AuthError{Step: AuthStepNetwork, Err: fmt.Errorf("failed to read login response: %w", err)}
	}

	if resp.StatusCode >= 300 {
		return "", &AuthError{Step: AuthStepCredentials, Status: resp.StatusCode}
	}
	// A rejected form login is answered with the login page again.
	if strings.Contains(strings.ToLower(string(body)), "<html") {
		return "", &AuthError{Step: AuthStepCredentials, Status: resp.StatusCode}
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookieName && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", &AuthError{Step: AuthStepParse, Status: resp.StatusCode, Err: errors.New("no " + SessionCookieName + " cookie in login response")}
}

// fetchToken requests the CSRF token using the freshly issued session cookie.
func (m *SessionManager) fetchToken(ctx context.Context, sessionID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+m.endpoints.Token, nil)
	if err != nil {
		return "", &AuthError{Step: AuthStepTokenFetch, Err: err}
	}
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})

	// Transport failures after a successful form login count as token-fetch failures.
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Step: AuthStepTokenFetch, Err: fmt.Errorf("token request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAuthBodySize))
	if err != nil {
		return "", &AuthError{Step: AuthStepTokenFetch, Err: fmt.Errorf("failed to read token response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &AuthError{Step: AuthStepTokenFetch, Status: resp.StatusCode}
	}

	token := strings.TrimSpace(string(body))
	if token == "" {
		return "", &AuthError{Step: AuthStepTokenFetch, Status: resp.StatusCode, Err: errors.New("empty token")}
	}
	if strings.Contains(strings.ToLower(token), "<html") {
		return "", &AuthError{Step: AuthStepTokenFetch, Status: resp.StatusCode, Err: errors.New("token endpoint returned an HTML page")}
	}
	return token, nil
}

// invalidateIf clears the live session only if it is still s, so a rejection
// of an old session cannot discard one established concurrently.
func (m *SessionManager) invalidateIf(s *Session) {
	m.mu.Lock()
	if m.session == s {
		m.session = nil
	}
	m.mu.Unlock()
}
