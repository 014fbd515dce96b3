package config

import (
	"fmt"
	"net/url"
	"strings"

	"sdwan-mcp/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "is required",
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// Validate checks a fully assembled configuration and returns every problem found.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if err := ValidateRequired("baseURL", cfg.BaseURL); err != nil {
		errs = append(errs, err.(ValidationError))
	} else if u, err := url.Parse(cfg.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs.Add("baseURL", "must be an absolute http(s) URL", cfg.BaseURL)
	}
	if err := ValidateRequired("username", cfg.Username); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if err := ValidateRequired("password", cfg.Password); err != nil {
		errs = append(errs, err.(ValidationError))
	}

	if cfg.SessionTimeout <= 0 {
		errs.Add("sessionTimeout", "must be a positive number of seconds", cfg.SessionTimeout)
	}
	if cfg.RequestTimeout <= 0 {
		errs.Add("requestTimeout", "must be a positive number of seconds", cfg.RequestTimeout)
	}
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		errs.Add("logLevel", "must be one of: debug, info, warn, error", cfg.LogLevel)
	}

	for _, p := range []struct{ field, path string }{
		{"endpoints.login", cfg.Endpoints.Login},
		{"endpoints.token", cfg.Endpoints.Token},
		{"endpoints.apiPrefix", cfg.Endpoints.APIPrefix},
	} {
		if !strings.HasPrefix(p.path, "/") {
			errs.Add(p.field, "must be an absolute path starting with '/'", p.path)
		}
	}

	for _, code := range cfg.AuthFailure.StatusCodes {
		if code < 100 || code > 599 {
			errs.Add("authFailure.statusCodes", "must contain HTTP status codes", code)
		}
	}

	if t := cfg.Analytics.UtilizationThreshold; t < 0 || t > 100 {
		errs.Add("analytics.utilizationThreshold", "must be between 0 and 100", t)
	}
	if cfg.Analytics.LinkCapacityMbps < 0 {
		errs.Add("analytics.linkCapacityMbps", "must not be negative", cfg.Analytics.LinkCapacityMbps)
	}

	if err := ValidateOneOf("server.transport", cfg.Server.Transport,
		[]string{MCPTransportStdio, MCPTransportStreamableHTTP, MCPTransportSSE}); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if cfg.Server.Transport != MCPTransportStdio && (cfg.Server.Port <= 0 || cfg.Server.Port > 65535) {
		errs.Add("server.port", "must be a valid TCP port", cfg.Server.Port)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
