package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sdwan-mcp/pkg/logging"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	EnvBaseURL        = "SDWAN_BASE_URL"
	EnvUsername       = "SDWAN_USERNAME"
	EnvPassword       = "SDWAN_PASSWORD"
	EnvVerifySSL      = "VERIFY_SSL"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogAuthDetails = "LOG_AUTH_DETAILS"
	EnvSessionTimeout = "SESSION_TIMEOUT"
	EnvAutoReconnect  = "AUTO_RECONNECT"
	EnvRequestTimeout = "REQUEST_TIMEOUT"
)

// lookupEnv is a package-level variable so tests can provide a fake environment.
var lookupEnv = os.LookupEnv

// LoadConfig builds the configuration from defaults, the optional file at
// configPath and the environment, then validates it.
// An empty configPath skips the file layer. A configPath that does not exist is an error.
func LoadConfig(configPath string) (*Config, error) {
	cfg := GetDefaultConfig()

	if configPath != "" {
		if err := loadFile(configPath, &cfg); err != nil {
			return nil, err
		}
		logging.Info("Config", "Loaded configuration from %s", configPath)
	}

	var errs ValidationErrors
	applyEnv(&cfg, &errs)
	if errs.HasErrors() {
		return nil, errs
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadFile decodes a YAML or TOML file on top of cfg.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist", path)
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("error loading config from %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("error loading config from %s: %w", path, err)
		}
	}
	return nil
}

// applyEnv overrides cfg with any environment variables that are set.
// Unparseable values are recorded in errs.
func applyEnv(cfg *Config, errs *ValidationErrors) {
	if v, ok := lookupEnv(EnvBaseURL); ok {
		cfg.BaseURL = v
	}
	if v, ok := lookupEnv(EnvUsername); ok {
		cfg.Username = v
	}
	if v, ok := lookupEnv(EnvPassword); ok {
		cfg.Password = v
	}
	if v, ok := lookupEnv(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	envBool(EnvVerifySSL, &cfg.VerifySSL, errs)
	envBool(EnvLogAuthDetails, &cfg.LogAuthDetails, errs)
	envBool(EnvAutoReconnect, &cfg.AutoReconnect, errs)
	envInt(EnvSessionTimeout, &cfg.SessionTimeout, errs)
	envInt(EnvRequestTimeout, &cfg.RequestTimeout, errs)
}

func envBool(name string, dst *bool, errs *ValidationErrors) {
	v, ok := lookupEnv(name)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		errs.Add(name, "must be a boolean (true/false)", v)
		return
	}
	*dst = b
}

func envInt(name string, dst *int, errs *ValidationErrors) {
	v, ok := lookupEnv(name)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		errs.Add(name, "must be an integer number of seconds", v)
		return
	}
	*dst = n
}
