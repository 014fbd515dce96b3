package controller

import (
	"errors"
	"fmt"
)

// AuthStep identifies which part of the login protocol failed.
type AuthStep string

const (
	// AuthStepNetwork covers connection, TLS and timeout failures of the form login.
	AuthStepNetwork AuthStep = "network"
	// AuthStepCredentials means the controller rejected the username/password.
	AuthStepCredentials AuthStep = "credentials"
	// AuthStepTokenFetch means the login succeeded but no CSRF token could be
	// obtained, including transport failures on the token request.
	AuthStepTokenFetch AuthStep = "token-fetch"
	// AuthStepParse means the login response lacked an expected field (the session cookie).
	AuthStepParse AuthStep = "parse"
)

// AuthError is returned when establishing a session fails.
type AuthError struct {
	Step   AuthStep
	Status int // HTTP status of the failing step, when one was received
	Err    error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	var msg string
	switch e.Step {
	case AuthStepNetwork:
		msg = "authentication failed: network error"
	case AuthStepCredentials:
		msg = "authentication failed: credential rejected"
	case AuthStepTokenFetch:
		msg = "authentication failed: token fetch failed"
	case AuthStepParse:
		msg = "authentication failed: malformed login response"
	default:
		msg = "authentication failed"
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// RequestCause classifies why a controller call failed.
type RequestCause string

const (
	CauseAuth    RequestCause = "auth"
	CauseHTTP    RequestCause = "http"
	CauseParse   RequestCause = "parse"
	CauseTimeout RequestCause = "timeout"
	CauseNetwork RequestCause = "network"
)

// RequestError is returned by Client.Call once the single re-authentication
// attempt has been used up or the failure was not auth related.
type RequestError struct {
	Cause  RequestCause
	Method string
	Path   string
	Status int
	// Exhausted is set when the call was rejected again after re-authenticating.
	Exhausted bool
	Err       error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	target := e.Method + " " + e.Path
	switch e.Cause {
	case CauseAuth:
		if e.Exhausted {
			return fmt.Sprintf("authentication failed: session rejected again after re-authentication: %s", target)
		}
		if e.Err != nil {
			return fmt.Sprintf("%v: %s", e.Err, target)
		}
		return "authentication failed: " + target
	case CauseHTTP:
		return fmt.Sprintf("controller returned status %d: %s", e.Status, target)
	case CauseParse:
		return fmt.Sprintf("invalid response from controller: %s: %v", target, e.Err)
	case CauseTimeout:
		return "request timed out: " + target
	case CauseNetwork:
		return fmt.Sprintf("network error: %s: %v", target, e.Err)
	default:
		return fmt.Sprintf("request failed: %s: %v", target, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// AsAuthError extracts an AuthError from err, including one wrapped by a RequestError.
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

// AsRequestError extracts a RequestError from err.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}
