package controller

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"sdwan-mcp/internal/config"
	"sdwan-mcp/internal/testing/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devicesPath = "/dataservice/device"

func TestCall_AuthenticatesLazily(t *testing.T) {
	client, stub := newTestClient(t)

	result, err := client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)

	require.NoError(t, err)
	envelope, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Len(t, envelope["data"], 4)
	assert.Equal(t, 1, stub.Hits(mock.HitLogin))
	assert.Equal(t, 1, stub.Hits(mock.HitToken))
	assert.Equal(t, 1, stub.Hits("/device"))
}

func TestCall_ReusesValidSession(t *testing.T) {
	client, stub := newTestClient(t)

	for i := 0; i < 3; i++ {
		_, err := client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, stub.Hits(mock.HitLogin))
	assert.Equal(t, 3, stub.Hits("/device"))
}

func TestCall_ReauthenticatesOnceOnRejection(t *testing.T) {
	tests := []struct {
		name string
		mode mock.RejectMode
	}{
		{name: "unauthorized", mode: mock.RejectUnauthorized},
		{name: "forbidden", mode: mock.RejectForbidden},
		{name: "redirect to login", mode: mock.RejectRedirect},
		{name: "login page body", mode: mock.RejectLoginPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, stub := newTestClient(t)
			_, err := client.Sessions().Authenticate(context.Background())
			require.NoError(t, err)
			stub.ResetHits()

			stub.SetRejectMode(tt.mode)
			stub.RejectNext(1)

			result, err := client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)

			require.NoError(t, err)
			assert.NotNil(t, result)
			assert.Equal(t, 2, stub.Hits("/device"))
			assert.Equal(t, 1, stub.Hits(mock.HitLogin))
			assert.Equal(t, 1, stub.Hits(mock.HitToken))
			assert.True(t, client.Sessions().IsValid())
		})
	}
}

func TestCall_RejectedTwiceIsExhausted(t *testing.T) {
	client, stub := newTestClient(t)
	_, err := client.Sessions().Authenticate(context.Background())
	require.NoError(t, err)
	stub.ResetHits()
	stub.RejectNext(2)

	_, err = client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)

	reqErr, ok := AsRequestError(err)
	require.True(t, ok, "expected RequestError, got %v", err)
	assert.Equal(t, CauseAuth, reqErr.Cause)
	assert.True(t, reqErr.Exhausted)
	assert.Contains(t, err.Error(), "session rejected again after re-authentication")
	assert.Equal(t, 2, stub.Hits("/device"))
	assert.Equal(t, 1, stub.Hits(mock.HitLogin))
	assert.Equal(t, 1, stub.Hits(mock.HitToken))
	assert.Nil(t, client.Sessions().Existing())
}

func TestCall_ReauthFailureSurfacesAuthError(t *testing.T) {
	client, stub := newTestClient(t)
	_, err := client.Sessions().Authenticate(context.Background())
	require.NoError(t, err)
	stub.ResetHits()
	stub.ExpireSessions()
	stub.SetCredentials("admin", "rotated")

	_, err = client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)

	reqErr, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, CauseAuth, reqErr.Cause)
	assert.False(t, reqErr.Exhausted)
	authErr, ok := AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, AuthStepCredentials, authErr.Step)
	assert.Equal(t, 1, stub.Hits("/device"), "no retry without a new session")
}

func TestCall_NoDataCallWhenLoginFails(t *testing.T) {
	client, stub := newTestClient(t)
	stub.FailTokenFetch(true)

	_, err := client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)

	authErr, ok := AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, AuthStepTokenFetch, authErr.Step)
	assert.Equal(t, 0, stub.Hits("/device"))
}

func TestCall_TimeoutDoesNotReauthenticate(t *testing.T) {
	client, stub := newTestClient(t)
	_, err := client.Sessions().Authenticate(context.Background())
	require.NoError(t, err)
	stub.SetDelay(2 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = client.Call(ctx, http.MethodGet, devicesPath, nil, nil)

	reqErr, ok := AsRequestError(err)
	require.True(t, ok, "expected RequestError, got %v", err)
	assert.Equal(t, CauseTimeout, reqErr.Cause)
	assert.Contains(t, err.Error(), "request timed out")
	assert.Equal(t, 1, stub.Hits(mock.HitLogin))
	assert.Equal(t, 1, stub.Hits("/device"))
	assert.True(t, client.Sessions().IsValid())
}

func TestCall_HTTPErrorIsNotRetried(t *testing.T) {
	client, stub := newTestClient(t)
	stub.SetStatus("/device", http.StatusInternalServerError)

	_, err := client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)

	reqErr, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, CauseHTTP, reqErr.Cause)
	assert.Equal(t, http.StatusInternalServerError, reqErr.Status)
	assert.Equal(t, 1, stub.Hits("/device"))
	assert.Equal(t, 1, stub.Hits(mock.HitLogin))
}

func TestCall_InvalidJSON(t *testing.T) {
	client, stub := newTestClient(t)
	stub.SetRawBody("/device", "{not json")

	_, err := client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)

	reqErr, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, CauseParse, reqErr.Cause)
}

func TestCall_EmptyBody(t *testing.T) {
	client, stub := newTestClient(t)
	stub.SetRawBody("/device", "")

	result, err := client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)

	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCall_ExpiredSessionWithAutoReconnect(t *testing.T) {
	clock := mock.NewClock(time.Time{})
	client, stub := newTestClient(t, WithClock(clock.Now))

	_, err := client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, stub.Hits(mock.HitLogin))
}

func TestCall_ExpiredSessionWithoutAutoReconnect(t *testing.T) {
	stub := mock.NewController()
	defer stub.Close()
	cfg := stub.Config()
	cfg.AutoReconnect = false
	clock := mock.NewClock(time.Time{})
	client := NewClient(cfg, WithClock(clock.Now))

	_, err := client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, stub.Hits(mock.HitLogin), "the controller still accepts the session")
}

func TestCall_CSRFHeader(t *testing.T) {
	client, stub := newTestClient(t)
	_, err := client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "token-000001", stub.LastHeaders("/device").Get(TokenHeader))

	cfg := stub.Config()
	cfg.CSRF.OnReads = false
	readsWithoutToken := NewClient(cfg)
	_, err = readsWithoutToken.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, stub.LastHeaders("/device").Get(TokenHeader))

	_, err = readsWithoutToken.Call(context.Background(), http.MethodPost, devicesPath, nil, map[string]any{"deviceId": "1"})
	require.NoError(t, err)
	headers := stub.LastHeaders("/device")
	assert.NotEmpty(t, headers.Get(TokenHeader))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
}

func TestCall_ConcurrentCallsShareOneLogin(t *testing.T) {
	client, stub := newTestClient(t)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, stub.Hits(mock.HitLogin))
	assert.Equal(t, 10, stub.Hits("/device"))
}

func TestCall_CustomDetector(t *testing.T) {
	var seen int
	detector := AuthFailureDetectorFunc(func(resp *RawResponse) bool {
		seen++
		return false
	})
	client, stub := newTestClient(t, WithAuthFailureDetector(detector))
	stub.SetStatus("/device", http.StatusUnauthorized)

	_, err := client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)

	reqErr, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, CauseHTTP, reqErr.Cause)
	assert.Equal(t, 1, seen)
	assert.Equal(t, 1, stub.Hits(mock.HitLogin))
}

func TestWithHTTPClient_DisablesRedirects(t *testing.T) {
	client, stub := newTestClient(t, WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	_, err := client.Sessions().Authenticate(context.Background())
	require.NoError(t, err)
	stub.ResetHits()
	stub.SetRejectMode(mock.RejectRedirect)
	stub.RejectNext(1)

	_, err = client.Call(context.Background(), http.MethodGet, devicesPath, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, stub.Hits(mock.HitLogin))
	assert.Equal(t, 0, stub.Hits("/welcome.html"))
}

func TestInsecureTLS_OnlyForHTTPS(t *testing.T) {
	tests := []struct {
		name      string
		baseURL   string
		verifySSL bool
		want      bool
	}{
		{"https without verification", "https://vmanage.example.com:8443", false, true},
		{"https with verification", "https://vmanage.example.com:8443", true, false},
		{"plain http", "http://127.0.0.1:8080", false, false},
		{"unparsable url", "://bad", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.GetDefaultConfig()
			cfg.BaseURL = tt.baseURL
			cfg.VerifySSL = tt.verifySSL
			assert.Equal(t, tt.want, insecureTLS(&cfg))
		})
	}
}
