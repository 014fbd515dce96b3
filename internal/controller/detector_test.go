package controller

import (
	"net/http"
	"testing"

	"sdwan-mcp/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestSignalDetector(t *testing.T) {
	detector := NewSignalDetector(config.GetDefaultConfig().AuthFailure)

	jsonHeader := http.Header{"Content-Type": {"application/json"}}
	htmlHeader := http.Header{"Content-Type": {"text/html;charset=UTF-8"}}

	tests := []struct {
		name string
		resp *RawResponse
		want bool
	}{
		{name: "nil response", resp: nil, want: false},
		{name: "401", resp: &RawResponse{StatusCode: 401}, want: true},
		{name: "403", resp: &RawResponse{StatusCode: 403}, want: true},
		{name: "404", resp: &RawResponse{StatusCode: 404}, want: false},
		{name: "500", resp: &RawResponse{StatusCode: 500}, want: false},
		{name: "redirect to login", resp: &RawResponse{StatusCode: 302, Location: "https://vmanage/Login.html"}, want: true},
		{name: "redirect to welcome", resp: &RawResponse{StatusCode: 302, Location: "/welcome.html?nocache=12"}, want: true},
		{name: "redirect elsewhere", resp: &RawResponse{StatusCode: 301, Location: "/dataservice/device/"}, want: false},
		{name: "login page with 200", resp: &RawResponse{StatusCode: 200, Header: htmlHeader, Body: []byte(`<HTML><form action="j_security_check">`)}, want: true},
		{name: "json mentioning html", resp: &RawResponse{StatusCode: 200, Header: jsonHeader, Body: []byte(`{"data":"<html>"}`)}, want: false},
		{name: "plain json", resp: &RawResponse{StatusCode: 200, Header: jsonHeader, Body: []byte(`{"data":[]}`)}, want: false},
		{name: "no content type json body", resp: &RawResponse{StatusCode: 200, Body: []byte(`{"data":[]}`)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.IsAuthFailure(tt.resp))
		})
	}
}

func TestSignalDetector_CustomSignals(t *testing.T) {
	detector := NewSignalDetector(config.AuthFailureConfig{
		StatusCodes:     []int{419},
		RedirectMarkers: []string{"", "SSO"},
	})

	assert.True(t, detector.IsAuthFailure(&RawResponse{StatusCode: 419}))
	assert.False(t, detector.IsAuthFailure(&RawResponse{StatusCode: 401}))
	assert.True(t, detector.IsAuthFailure(&RawResponse{StatusCode: 307, Location: "https://idp/sso/start"}))
	assert.False(t, detector.IsAuthFailure(&RawResponse{StatusCode: 200, Body: []byte("<html>")}))
}
