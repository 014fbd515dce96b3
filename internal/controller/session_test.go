package controller

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"sdwan-mcp/internal/testing/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, opts ...ClientOption) (*Client, *mock.Controller) {
	t.Helper()
	stub := mock.NewController()
	t.Cleanup(stub.Close)
	stub.LoadFabric()
	return NewClient(stub.Config(), opts...), stub
}

func TestAuthenticate_Success(t *testing.T) {
	client, stub := newTestClient(t)
	sessions := client.Sessions()

	session, err := sessions.Authenticate(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "token-000001", session.Token)
	assert.Equal(t, time.Hour, session.TTL)
	assert.True(t, sessions.IsValid())
	assert.Same(t, session, sessions.Current())
	assert.Equal(t, 1, stub.Hits(mock.HitLogin))
	assert.Equal(t, 1, stub.Hits(mock.HitToken))
}

func TestAuthenticate_BadCredentialsKeepPriorSession(t *testing.T) {
	client, stub := newTestClient(t)
	sessions := client.Sessions()

	prior, err := sessions.Authenticate(context.Background())
	require.NoError(t, err)

	_, err = sessions.AuthenticateWith(context.Background(), Credentials{Username: "admin", Password: "wrong"})

	authErr, ok := AsAuthError(err)
	require.True(t, ok, "expected AuthError, got %v", err)
	assert.Equal(t, AuthStepCredentials, authErr.Step)
	assert.Contains(t, err.Error(), "credential rejected")
	assert.Same(t, prior, sessions.Existing())
	assert.Equal(t, "admin", sessions.Status().Username)
	assert.Equal(t, 1, stub.Hits(mock.HitToken))
}

func TestAuthenticate_TokenFetchFailureLeavesNoSession(t *testing.T) {
	client, stub := newTestClient(t)
	stub.FailTokenFetch(true)
	sessions := client.Sessions()

	_, err := sessions.Authenticate(context.Background())

	authErr, ok := AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, AuthStepTokenFetch, authErr.Step)
	assert.Equal(t, 500, authErr.Status)
	assert.False(t, sessions.IsValid())
	assert.Nil(t, sessions.Existing())
	assert.NotEmpty(t, sessions.Status().LastError)
}

func TestAuthenticate_NetworkFailurePreservesPriorSession(t *testing.T) {
	client, stub := newTestClient(t)
	sessions := client.Sessions()

	prior, err := sessions.Authenticate(context.Background())
	require.NoError(t, err)

	stub.Close()
	_, err = sessions.Authenticate(context.Background())

	authErr, ok := AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, AuthStepNetwork, authErr.Step)
	assert.Same(t, prior, sessions.Existing())
}

var errTokenTransport = errors.New("connection reset by peer")

// tokenFailingTransport fails the token request at the transport level and
// passes every other request through.
type tokenFailingTransport struct {
	tokenPath string
}

func (t tokenFailingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Path == t.tokenPath {
		return nil, errTokenTransport
	}
	return http.DefaultTransport.RoundTrip(req)
}

func TestAuthenticate_TokenTransportFailureIsTokenFetch(t *testing.T) {
	stub := mock.NewController()
	t.Cleanup(stub.Close)
	cfg := stub.Config()
	client := NewClient(cfg, WithHTTPClient(&http.Client{Transport: tokenFailingTransport{tokenPath: cfg.Endpoints.Token}}))
	sessions := client.Sessions()

	_, err := sessions.Authenticate(context.Background())

	authErr, ok := AsAuthError(err)
	require.True(t, ok, "expected AuthError, got %v", err)
	assert.Equal(t, AuthStepTokenFetch, authErr.Step)
	assert.ErrorIs(t, err, errTokenTransport)
	assert.Contains(t, err.Error(), "token fetch failed")
	assert.Equal(t, 1, stub.Hits(mock.HitLogin))
	assert.Nil(t, sessions.Existing())
}

func TestAuthenticateWith_PersistsCredentials(t *testing.T) {
	client, stub := newTestClient(t)
	stub.SetCredentials("netops", "rotated")
	sessions := client.Sessions()

	_, err := sessions.Authenticate(context.Background())
	require.Error(t, err)

	_, err = sessions.AuthenticateWith(context.Background(), Credentials{Username: "netops", Password: "rotated"})
	require.NoError(t, err)

	sessions.Invalidate()
	_, err = sessions.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "netops", sessions.Status().Username)
}

func TestSetCredentials_InvalidatesOnChange(t *testing.T) {
	client, _ := newTestClient(t)
	sessions := client.Sessions()

	_, err := sessions.Authenticate(context.Background())
	require.NoError(t, err)

	sessions.SetCredentials(Credentials{Username: "admin", Password: "admin"})
	assert.True(t, sessions.IsValid(), "unchanged credentials keep the session")

	sessions.SetCredentials(Credentials{Username: "admin", Password: "new"})
	assert.False(t, sessions.IsValid())
}

func TestSetCredentials_WaitsForLoginInProgress(t *testing.T) {
	client, stub := newTestClient(t)
	stub.SetLoginDelay(200 * time.Millisecond)
	sessions := client.Sessions()

	done := make(chan error, 1)
	go func() {
		_, err := sessions.Authenticate(context.Background())
		done <- err
	}()
	time.Sleep(50 * time.Millisecond)

	sessions.SetCredentials(Credentials{Username: "admin", Password: "new"})

	require.NoError(t, <-done)
	assert.Nil(t, sessions.Existing(), "a session made with replaced credentials must not survive")
	assert.Equal(t, "new", sessions.Credentials().Password)
}

func TestAuthenticateWith_WaitsForLoginInProgress(t *testing.T) {
	client, stub := newTestClient(t)
	stub.SetLoginDelay(200 * time.Millisecond)
	sessions := client.Sessions()

	done := make(chan *Session, 1)
	go func() {
		s, err := sessions.Authenticate(context.Background())
		assert.NoError(t, err)
		done <- s
	}()
	time.Sleep(50 * time.Millisecond)

	creds := Credentials{Username: "admin", Password: "admin"}
	started := time.Now()
	explicit, err := sessions.AuthenticateWith(context.Background(), creds)
	elapsed := time.Since(started)
	require.NoError(t, err)
	configured := <-done

	assert.GreaterOrEqual(t, elapsed, 300*time.Millisecond, "explicit login must start after the running one")
	assert.NotSame(t, configured, explicit)
	assert.Same(t, explicit, sessions.Existing())
	assert.Equal(t, creds, sessions.Credentials())
	assert.Equal(t, 2, stub.Hits(mock.HitLogin))
}

func TestStatus_DoesNotMutate(t *testing.T) {
	clock := mock.NewClock(time.Time{})
	client, stub := newTestClient(t, WithClock(clock.Now))
	sessions := client.Sessions()

	unauthenticated := sessions.Status()
	assert.False(t, unauthenticated.Authenticated)
	assert.Empty(t, unauthenticated.SessionID)

	session, err := sessions.Authenticate(context.Background())
	require.NoError(t, err)

	first := sessions.Status()
	second := sessions.Status()
	assert.Equal(t, first, second)
	assert.True(t, first.Authenticated)
	assert.True(t, first.TokenPresent)
	assert.Equal(t, session.ID[:20]+"...", first.SessionID)
	assert.Equal(t, stub.URL(), first.BaseURL)
	assert.Equal(t, 3600, first.TTLSeconds)

	clock.Advance(2 * time.Hour)
	expired := sessions.Status()
	assert.False(t, expired.Authenticated)
	assert.True(t, expired.Expired)
	assert.Same(t, session, sessions.Existing(), "status must not clear an expired session")
	assert.Equal(t, 1, stub.Hits(mock.HitLogin))
}

func TestCurrent_RespectsExpiry(t *testing.T) {
	clock := mock.NewClock(time.Time{})
	client, _ := newTestClient(t, WithClock(clock.Now))
	sessions := client.Sessions()

	_, err := sessions.Authenticate(context.Background())
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	assert.NotNil(t, sessions.Current())

	clock.Advance(time.Minute)
	assert.Nil(t, sessions.Current())
	assert.NotNil(t, sessions.Existing())
}

func TestLogout(t *testing.T) {
	client, stub := newTestClient(t)
	sessions := client.Sessions()

	_, err := sessions.Authenticate(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stub.ActiveSessions())

	require.NoError(t, sessions.Logout(context.Background()))

	assert.Nil(t, sessions.Existing())
	assert.Equal(t, 1, stub.Hits(mock.HitLogout))
	assert.Equal(t, 0, stub.ActiveSessions())

	require.NoError(t, sessions.Logout(context.Background()))
	assert.Equal(t, 1, stub.Hits(mock.HitLogout), "logout without a session is a no-op")
}

func TestSession_Validity(t *testing.T) {
	now := time.Now()
	var nilSession *Session
	assert.False(t, nilSession.Valid(now))

	s := &Session{ID: "abc", Token: "", CreatedAt: now, TTL: time.Minute}
	assert.False(t, s.Valid(now), "a session without a token is not valid")

	s.Token = "t"
	assert.True(t, s.Valid(now))
	assert.False(t, s.Valid(now.Add(time.Minute)))
	assert.Equal(t, now.Add(time.Minute), s.ExpiresAt())
}
