// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads client configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tombee/genaws/internal/log"
	"github.com/tombee/genaws/internal/tracing"
	"github.com/tombee/genaws/pkg/endpoint"
	genawserrors "github.com/tombee/genaws/pkg/errors"
	"github.com/tombee/genaws/pkg/httpclient"
	"github.com/tombee/genaws/pkg/retry"
)

// ErrInvalidConfig is returned when configuration validation fails.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Credential sources.
const (
	SourceDefault = "default"
	SourceStatic  = "static"
	SourceKeyring = "keyring"
)

// Config is the complete client configuration.
type Config struct {
	// Region is the default region for calls. Empty defers to the SDK
	// default chain (AWS_REGION, shared config).
	Region string `yaml:"region"`

	// Profile selects a shared config profile or keyring entry.
	Profile string `yaml:"profile,omitempty"`

	// Endpoint overrides endpoint resolution with a fixed host, for VPC
	// endpoints and local emulators.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Retry policy tunables.
	MaxRetries         int           `yaml:"max_retries"`
	BaseDelay          time.Duration `yaml:"base_delay"`
	ThrottledBaseDelay time.Duration `yaml:"throttled_base_delay"`
	MaxBackoff         time.Duration `yaml:"max_backoff"`

	// Timeout bounds one HTTP attempt.
	Timeout time.Duration `yaml:"timeout"`

	// UserAgent replaces the default genaws/<version> user agent.
	UserAgent string `yaml:"user_agent,omitempty"`

	Credentials CredentialsConfig `yaml:"credentials"`
	Log         LogConfig         `yaml:"log"`
	Tracing     tracing.Config    `yaml:"tracing"`
}

// CredentialsConfig selects where credentials come from.
type CredentialsConfig struct {
	// Source is one of default, static or keyring.
	Source string `yaml:"source"`

	// Static keys, used when Source is static.
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
	SessionToken    string `yaml:"session_token,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"add_source,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	rc := retry.DefaultConfig()
	return &Config{
		MaxRetries:         rc.MaxRetries,
		BaseDelay:          rc.BaseDelay,
		ThrottledBaseDelay: rc.ThrottledBaseDelay,
		MaxBackoff:         rc.MaxBackoff,
		Timeout:            httpclient.DefaultConfig().Timeout,
		Credentials:        CredentialsConfig{Source: SourceDefault},
		Log:                LogConfig{Level: "info", Format: "json"},
		Tracing:            tracing.DefaultConfig(),
	}
}

// Load loads configuration from environment variables and optionally from
// a YAML file. Environment variables take precedence over the file. If
// configPath is empty, only environment variables are used.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			return nil, &genawserrors.ConfigurationError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", configPath),
				Cause:  err,
			}
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, &genawserrors.ConfigurationError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults without consulting the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &genawserrors.ConfigurationError{Key: "config_file", Reason: "failed to parse YAML", Cause: err}
	}
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from environment variables. Unparseable
// numeric and duration values are ignored.
func (c *Config) ApplyEnv() {
	if val := os.Getenv("AWS_REGION"); val != "" {
		c.Region = val
	} else if val := os.Getenv("AWS_DEFAULT_REGION"); val != "" && c.Region == "" {
		c.Region = val
	}
	if val := os.Getenv("AWS_PROFILE"); val != "" {
		c.Profile = val
	}

	if val := os.Getenv("GENAWS_ENDPOINT"); val != "" {
		c.Endpoint = val
	}
	if val := os.Getenv("GENAWS_MAX_RETRIES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.MaxRetries = n
		}
	}
	if val := os.Getenv("GENAWS_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.Timeout = d
		}
	}
	if val := os.Getenv("GENAWS_USER_AGENT"); val != "" {
		c.UserAgent = val
	}
	if val := os.Getenv("GENAWS_CREDENTIALS_SOURCE"); val != "" {
		c.Credentials.Source = strings.ToLower(val)
	}

	lc := log.FromEnv(c.LoggerConfig())
	c.Log.Level = lc.Level
	c.Log.Format = string(lc.Format)
	c.Log.AddSource = lc.AddSource

	if val := os.Getenv("GENAWS_TRACING_EXPORTER"); val != "" {
		c.Tracing.Enabled = val != "none"
		c.Tracing.Exporter.Type = val
	}
	if val := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); val != "" {
		c.Tracing.Exporter.Endpoint = val
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.Region != "" && !endpoint.ValidRegion(c.Region) {
		errs = append(errs, fmt.Sprintf("region %q is not a valid region name", c.Region))
	}

	if err := c.RetryConfig().Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if c.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("timeout must be positive, got %v", c.Timeout))
	}

	switch c.Credentials.Source {
	case "", SourceDefault, SourceKeyring:
	case SourceStatic:
		if c.Credentials.AccessKeyID == "" || c.Credentials.SecretAccessKey == "" {
			errs = append(errs, "credentials.access_key_id and credentials.secret_access_key are required for static credentials")
		}
	default:
		errs = append(errs, fmt.Sprintf("credentials.source must be one of [default, static, keyring], got %q", c.Credentials.Source))
	}

	if !log.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Sprintf("log.level must be one of [trace, debug, info, warn, error], got %q", c.Log.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format must be one of [json, text], got %q", c.Log.Format))
	}

	if err := c.Tracing.Validate(); err != nil {
		errs = append(errs, "tracing: "+err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(errs, "\n  - "))
	}

	return nil
}

// RetryConfig returns the retry tunables. Jitter keeps its default.
func (c *Config) RetryConfig() *retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxRetries = c.MaxRetries
	rc.BaseDelay = c.BaseDelay
	rc.ThrottledBaseDelay = c.ThrottledBaseDelay
	rc.MaxBackoff = c.MaxBackoff
	return rc
}

// HTTPConfig returns the HTTP client settings for userAgent.
func (c *Config) HTTPConfig(userAgent string) httpclient.Config {
	hc := httpclient.DefaultConfig()
	hc.Timeout = c.Timeout
	hc.UserAgent = userAgent
	return hc
}

// LoggerConfig returns the logger settings.
func (c *Config) LoggerConfig() *log.Config {
	lc := log.DefaultConfig()
	lc.Level = c.Log.Level
	lc.Format = log.Format(c.Log.Format)
	lc.AddSource = c.Log.AddSource
	return lc
}
