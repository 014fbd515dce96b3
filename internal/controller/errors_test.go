package controller

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthError_Messages(t *testing.T) {
	tests := []struct {
		err  *AuthError
		want string
	}{
		{&AuthError{Step: AuthStepCredentials, Status: 401}, "authentication failed: credential rejected (status 401)"},
		{&AuthError{Step: AuthStepTokenFetch, Status: 500}, "authentication failed: token fetch failed (status 500)"},
		{&AuthError{Step: AuthStepNetwork, Err: errors.New("connection refused")}, "authentication failed: network error: connection refused"},
		{&AuthError{Step: AuthStepParse, Err: errors.New("no JSESSIONID")}, "authentication failed: malformed login response: no JSESSIONID"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestRequestError_Messages(t *testing.T) {
	tests := []struct {
		err  *RequestError
		want string
	}{
		{&RequestError{Cause: CauseAuth, Method: "GET", Path: "/x", Exhausted: true}, "authentication failed: session rejected again after re-authentication: GET /x"},
		{&RequestError{Cause: CauseHTTP, Method: "GET", Path: "/x", Status: 502}, "controller returned status 502: GET /x"},
		{&RequestError{Cause: CauseTimeout, Method: "GET", Path: "/x"}, "request timed out: GET /x"},
		{&RequestError{Cause: CauseParse, Method: "GET", Path: "/x", Err: errors.New("bad")}, "invalid response from controller: GET /x: bad"},
		{&RequestError{Cause: CauseNetwork, Method: "GET", Path: "/x", Err: errors.New("reset")}, "network error: GET /x: reset"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestAsErrors_ThroughWrapping(t *testing.T) {
	authErr := &AuthError{Step: AuthStepCredentials}
	wrapped := fmt.Errorf("tool failed: %w", &RequestError{Cause: CauseAuth, Method: "GET", Path: "/x", Err: authErr})

	got, ok := AsAuthError(wrapped)
	require.True(t, ok)
	assert.Same(t, authErr, got)

	reqErr, ok := AsRequestError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CauseAuth, reqErr.Cause)
	assert.Equal(t, "authentication failed: credential rejected: GET /x", reqErr.Error())

	_, ok = AsAuthError(errors.New("plain"))
	assert.False(t, ok)
}
