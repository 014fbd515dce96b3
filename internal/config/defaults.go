package config

const (
	DefaultSessionTimeout       = 3600
	DefaultRequestTimeout       = 30
	DefaultUtilizationThreshold = 80.0
	DefaultErrorThreshold       = 100
	DefaultServerPort           = 8090

	DefaultLoginPath  = "/j_security_check"
	DefaultTokenPath  = "/dataservice/client/token"
	DefaultLogoutPath = "/logout"
	DefaultAPIPrefix  = "/dataservice"
)

// GetDefaultConfig returns the built-in defaults. Base URL and credentials have
// no default and must be supplied by a file or the environment.
func GetDefaultConfig() Config {
	return Config{
		VerifySSL:      false,
		LogLevel:       "info",
		SessionTimeout: DefaultSessionTimeout,
		AutoReconnect:  true,
		RequestTimeout: DefaultRequestTimeout,
		Endpoints: EndpointsConfig{
			Login:     DefaultLoginPath,
			Token:     DefaultTokenPath,
			Logout:    DefaultLogoutPath,
			APIPrefix: DefaultAPIPrefix,
		},
		AuthFailure: AuthFailureConfig{
			StatusCodes:     []int{401, 403},
			BodyMarkers:     []string{"j_security_check", "<html"},
			RedirectMarkers: []string{"login", "welcome"},
		},
		CSRF: CSRFConfig{
			OnReads: true,
		},
		Analytics: AnalyticsConfig{
			UtilizationThreshold: DefaultUtilizationThreshold,
			ErrorThreshold:       DefaultErrorThreshold,
		},
		Server: ServerConfig{
			Transport: MCPTransportStdio,
			Host:      "localhost",
			Port:      DefaultServerPort,
		},
	}
}
