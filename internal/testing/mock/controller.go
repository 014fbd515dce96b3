package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"sdwan-mcp/internal/config"
)

// Hit counter keys for the authentication endpoints. Data endpoints are
// counted under their path relative to /dataservice, e.g. "/device".
const (
	HitLogin  = "login"
	HitToken  = "token"
	HitLogout = "logout"
)

const (
	loginPath  = "/j_security_check"
	tokenPath  = "/dataservice/client/token"
	logoutPath = "/logout"
	dataPrefix = "/dataservice"

	sessionCookie = "JSESSIONID"
	tokenHeader   = "X-XSRF-TOKEN"

	loginPage = `<html><head><title>Cisco vManage</title></head><body><form method="post" action="j_security_check"><input name="j_username"/><input name="j_password" type="password"/></form></body></html>`
)

// RejectMode selects how the stub signals a rejected session.
type RejectMode int

const (
	// RejectUnauthorized answers 401.
	RejectUnauthorized RejectMode = iota
	// RejectForbidden answers 403.
	RejectForbidden
	// RejectRedirect answers 302 to the login page.
	RejectRedirect
	// RejectLoginPage answers 200 with the HTML login page.
	RejectLoginPage
)

// Controller is a stub SD-WAN controller.
type Controller struct {
	server *httptest.Server

	mu          sync.Mutex
	username    string
	password    string
	sessions    map[string]string // session id -> CSRF token
	seq         int
	hits        map[string]int
	data        map[string]any
	statuses    map[string]int
	rawBodies   map[string]string
	rejectNext  int
	rejectMode  RejectMode
	failToken   bool
	delay       time.Duration
	loginDelay  time.Duration
	lastHeaders map[string]http.Header
	requests    []string
	inFlight    int
	maxInFlight int
}

// NewController starts a stub controller accepting admin/admin.
func NewController() *Controller {
	c := &Controller{
		username:    "admin",
		password:    "admin",
		sessions:    make(map[string]string),
		hits:        make(map[string]int),
		data:        make(map[string]any),
		statuses:    make(map[string]int),
		rawBodies:   make(map[string]string),
		lastHeaders: make(map[string]http.Header),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(loginPath, c.handleLogin)
	mux.HandleFunc(tokenPath, c.handleToken)
	mux.HandleFunc(logoutPath, c.handleLogout)
	mux.HandleFunc(dataPrefix+"/", c.handleData)

	c.server = httptest.NewServer(mux)
	return c
}

// URL returns the stub's base URL.
func (c *Controller) URL() string {
	return c.server.URL
}

// Close shuts the stub down.
func (c *Controller) Close() {
	c.server.Close()
}

// Config returns a valid configuration pointing at the stub with its credentials.
func (c *Controller) Config() *config.Config {
	cfg := config.GetDefaultConfig()
	cfg.BaseURL = c.URL()
	c.mu.Lock()
	cfg.Username = c.username
	cfg.Password = c.password
	c.mu.Unlock()
	cfg.RequestTimeout = 5
	return &cfg
}

// SetCredentials changes the accepted username and password.
func (c *Controller) SetCredentials(username, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.username = username
	c.password = password
}

// SetData sets the payload served inside the data envelope for path
// (relative to /dataservice). Use "path?deviceId=X" for device-scoped data.
func (c *Controller) SetData(path string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[path] = data
}

// SetStatus makes path answer with status and an empty JSON object.
func (c *Controller) SetStatus(path string, status int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[path] = status
}

// SetRawBody makes path answer 200 with body as is.
func (c *Controller) SetRawBody(path, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rawBodies[path] = body
}

// RejectNext makes the next n data calls fail with an auth signal.
func (c *Controller) RejectNext(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejectNext = n
}

// SetRejectMode selects the auth signal used for rejected sessions.
func (c *Controller) SetRejectMode(mode RejectMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejectMode = mode
}

// FailTokenFetch makes the token endpoint answer 500.
func (c *Controller) FailTokenFetch(fail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failToken = fail
}

// SetDelay delays every data response by d.
func (c *Controller) SetDelay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delay = d
}

// SetLoginDelay delays every login response by d.
func (c *Controller) SetLoginDelay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loginDelay = d
}

// ExpireSessions forgets every issued session, as a controller restart would.
func (c *Controller) ExpireSessions() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = make(map[string]string)
}

// Hits returns how often the endpoint key was requested.
func (c *Controller) Hits(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits[key]
}

// ResetHits clears all hit counters.
func (c *Controller) ResetHits() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits = make(map[string]int)
	c.requests = nil
	c.maxInFlight = 0
}

// Requests returns the data calls received so far, in arrival order, as
// path relative to /dataservice plus "?deviceId=X" when present.
func (c *Controller) Requests() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requests...)
}

// MaxInFlight returns the highest number of data calls served concurrently.
func (c *Controller) MaxInFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxInFlight
}

// LastHeaders returns the request headers of the last call to a data path.
func (c *Controller) LastHeaders(path string) http.Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastHeaders[path]
}

// ActiveSessions returns the number of sessions the stub currently accepts.
func (c *Controller) ActiveSessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

func (c *Controller) handleLogin(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	c.hits[HitLogin]++
	delay := c.loginDelay
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	c.mu.Lock()
	ok := r.PostForm.Get("j_username") == c.username && r.PostForm.Get("j_password") == c.password
	var id string
	if ok {
		c.seq++
		id = fmt.Sprintf("session-%06d-0123456789abcdef0123456789abcdef", c.seq)
		c.sessions[id] = ""
	}
	c.mu.Unlock()

	if !ok {
		// The controller answers bad credentials with the login page and a 200.
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(loginPage))
		return
	}

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/"})
	w.WriteHeader(http.StatusOK)
}

func (c *Controller) handleToken(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits[HitToken]++

	if c.failToken {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	id, ok := c.sessionFrom(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	token := fmt.Sprintf("token-%s", strings.TrimPrefix(id, "session-")[:6])
	c.sessions[id] = token
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(token))
}

func (c *Controller) handleLogout(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits[HitLogout]++

	if id, ok := c.sessionFrom(r); ok {
		delete(c.sessions, id)
	}
	w.WriteHeader(http.StatusOK)
}

func (c *Controller) handleData(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, dataPrefix)

	key := path
	if deviceID := r.URL.Query().Get("deviceId"); deviceID != "" {
		key = path + "?deviceId=" + deviceID
	}

	c.mu.Lock()
	c.hits[path]++
	c.lastHeaders[path] = r.Header.Clone()
	c.requests = append(c.requests, key)
	c.inFlight++
	if c.inFlight > c.maxInFlight {
		c.maxInFlight = c.inFlight
	}
	delay := c.delay
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight--
		c.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rejectNext > 0 {
		c.rejectNext--
		c.writeRejection(w)
		return
	}

	id, ok := c.sessionFrom(r)
	if !ok {
		c.writeRejection(w)
		return
	}
	// The token is optional on reads but must match when present.
	header := r.Header.Get(tokenHeader)
	if (header != "" && header != c.sessions[id]) || (header == "" && r.Method != http.MethodGet) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	if status, ok := c.statuses[path]; ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte("{}"))
		return
	}
	if body, ok := c.rawBodies[path]; ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
		return
	}

	data, ok := c.data[key]
	if !ok {
		data, ok = c.data[path]
	}
	if !ok {
		data = []any{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

// writeRejection must be called with c.mu held.
func (c *Controller) writeRejection(w http.ResponseWriter) {
	switch c.rejectMode {
	case RejectForbidden:
		w.WriteHeader(http.StatusForbidden)
	case RejectRedirect:
		w.Header().Set("Location", "/welcome.html?nocache=1")
		w.WriteHeader(http.StatusFound)
	case RejectLoginPage:
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(loginPage))
	default:
		w.WriteHeader(http.StatusUnauthorized)
	}
}

// sessionFrom must be called with c.mu held.
func (c *Controller) sessionFrom(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	_, ok := c.sessions[cookie.Value]
	return cookie.Value, ok
}
