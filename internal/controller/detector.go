package controller

import (
	"net/http"
	"strings"

	"sdwan-mcp/internal/config"
)

// RawResponse is the part of a controller response an AuthFailureDetector sees.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Location   string
}

// AuthFailureDetector decides whether a response means the session was rejected.
type AuthFailureDetector interface {
	IsAuthFailure(resp *RawResponse) bool
}

// AuthFailureDetectorFunc adapts a plain function to AuthFailureDetector.
type AuthFailureDetectorFunc func(resp *RawResponse) bool

// IsAuthFailure calls f(resp).
func (f AuthFailureDetectorFunc) IsAuthFailure(resp *RawResponse) bool {
	return f(resp)
}

// SignalDetector recognises the signals controllers use for an expired or
// rejected session: a status code, a redirect to the login page, or the login
// page itself served with a 2xx status.
type SignalDetector struct {
	statusCodes     map[int]bool
	bodyMarkers     []string
	redirectMarkers []string
}

// NewSignalDetector builds a detector from the authFailure configuration.
func NewSignalDetector(cfg config.AuthFailureConfig) *SignalDetector {
	d := &SignalDetector{statusCodes: make(map[int]bool, len(cfg.StatusCodes))}
	for _, code := range cfg.StatusCodes {
		d.statusCodes[code] = true
	}
	for _, m := range cfg.BodyMarkers {
		if m != "" {
			d.bodyMarkers = append(d.bodyMarkers, strings.ToLower(m))
		}
	}
	for _, m := range cfg.RedirectMarkers {
		if m != "" {
			d.redirectMarkers = append(d.redirectMarkers, strings.ToLower(m))
		}
	}
	return d
}

// IsAuthFailure implements AuthFailureDetector.
func (d *SignalDetector) IsAuthFailure(resp *RawResponse) bool {
	if resp == nil {
		return false
	}
	if d.statusCodes[resp.StatusCode] {
		return true
	}

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		location := strings.ToLower(resp.Location)
		for _, marker := range d.redirectMarkers {
			if strings.Contains(location, marker) {
				return true
			}
		}
		return false
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && !isJSON(resp.Header) {
		body := strings.ToLower(string(resp.Body))
		for _, marker := range d.bodyMarkers {
			if strings.Contains(body, marker) {
				return true
			}
		}
	}
	return false
}

func isJSON(h http.Header) bool {
	if h == nil {
		return false
	}
	return strings.Contains(strings.ToLower(h.Get("Content-Type")), "json")
}
