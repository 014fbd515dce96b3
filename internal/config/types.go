package config

import (
	"time"
)

const (
	// MCPTransportStreamableHTTP is the streamable HTTP transport.
	MCPTransportStreamableHTTP = "streamable-http"
	// MCPTransportSSE is the Server-Sent Events transport.
	MCPTransportSSE = "sse"
	// MCPTransportStdio is the standard I/O transport.
	MCPTransportStdio = "stdio"
)

// Config is the top-level configuration structure for sdwan-mcp.
type Config struct {
	BaseURL        string `yaml:"baseURL" toml:"baseURL"`
	Username       string `yaml:"username" toml:"username"`
	Password       string `yaml:"password" toml:"password"`
	VerifySSL      bool   `yaml:"verifySSL" toml:"verifySSL"`
	LogLevel       string `yaml:"logLevel" toml:"logLevel"`
	LogAuthDetails bool   `yaml:"logAuthDetails" toml:"logAuthDetails"`
	SessionTimeout int    `yaml:"sessionTimeout" toml:"sessionTimeout"` // seconds
	AutoReconnect  bool   `yaml:"autoReconnect" toml:"autoReconnect"`
	RequestTimeout int    `yaml:"requestTimeout" toml:"requestTimeout"` // seconds

	Endpoints   EndpointsConfig   `yaml:"endpoints" toml:"endpoints"`
	AuthFailure AuthFailureConfig `yaml:"authFailure" toml:"authFailure"`
	CSRF        CSRFConfig        `yaml:"csrf" toml:"csrf"`
	Analytics   AnalyticsConfig   `yaml:"analytics" toml:"analytics"`
	Server      ServerConfig      `yaml:"server" toml:"server"`
}

// EndpointsConfig holds the controller paths used for authentication and data calls.
type EndpointsConfig struct {
	Login     string `yaml:"login" toml:"login"`         // form login (default: /j_security_check)
	Token     string `yaml:"token" toml:"token"`         // CSRF token (default: /dataservice/client/token)
	Logout    string `yaml:"logout" toml:"logout"`       // session logout (default: /logout)
	APIPrefix string `yaml:"apiPrefix" toml:"apiPrefix"` // prefix of data endpoints (default: /dataservice)
}

// AuthFailureConfig describes how a rejected session shows up on data endpoints.
// Controller versions differ, so every signal is configurable.
type AuthFailureConfig struct {
	StatusCodes     []int    `yaml:"statusCodes" toml:"statusCodes"`
	BodyMarkers     []string `yaml:"bodyMarkers" toml:"bodyMarkers"`
	RedirectMarkers []string `yaml:"redirectMarkers" toml:"redirectMarkers"`
}

// CSRFConfig controls when the X-XSRF-TOKEN header is attached.
type CSRFConfig struct {
	// OnReads sends the token on GET/HEAD requests too. Mutating methods always carry it.
	OnReads bool `yaml:"onReads" toml:"onReads"`
}

// AnalyticsConfig holds thresholds used by the analytics tools.
type AnalyticsConfig struct {
	UtilizationThreshold float64 `yaml:"utilizationThreshold" toml:"utilizationThreshold"` // percent
	LinkCapacityMbps     float64 `yaml:"linkCapacityMbps" toml:"linkCapacityMbps"`         // 0 = unknown
	ErrorThreshold       int64   `yaml:"errorThreshold" toml:"errorThreshold"`             // rx/tx errors considered high
}

// ServerConfig defines how the MCP server is exposed.
type ServerConfig struct {
	Transport string `yaml:"transport" toml:"transport"` // stdio (default), streamable-http or sse
	Host      string `yaml:"host" toml:"host"`
	Port      int    `yaml:"port" toml:"port"`
}

// SessionTTL returns the configured session time-to-live.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTimeout) * time.Second
}

// RequestTimeoutDuration returns the bound applied to every controller call.
func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// String omits the password.
func (c *Config) String() string {
	return "Config(baseURL=" + c.BaseURL + ", username=" + c.Username + ", verifySSL=" + boolString(c.VerifySSL) + ")"
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
