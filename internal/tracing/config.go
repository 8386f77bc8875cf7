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

package tracing

import (
	"fmt"
	"time"
)

// Config holds observability configuration.
type Config struct {
	// Enabled controls whether spans are recorded and exported.
	Enabled bool `yaml:"enabled"`

	// ServiceName identifies this process in traces.
	ServiceName string `yaml:"service_name"`

	// ServiceVersion is the application version.
	ServiceVersion string `yaml:"service_version"`

	// SampleRate is the fraction of traces to sample (0.0 - 1.0).
	SampleRate float64 `yaml:"sample_rate"`

	// AlwaysSampleErrors keeps spans that end with an error status
	// regardless of SampleRate.
	AlwaysSampleErrors bool `yaml:"always_sample_errors"`

	// Exporter configures the span export destination.
	Exporter ExporterConfig `yaml:"exporter"`

	// BatchInterval is how often to flush spans (default: 5s).
	BatchInterval time.Duration `yaml:"batch_interval"`
}

// ExporterConfig defines a span export destination.
type ExporterConfig struct {
	// Type is the exporter type: "otlp", "otlp-http", "console" or "none".
	Type string `yaml:"type"`

	// Endpoint is the OTLP receiver host:port.
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the receiver.
	Insecure bool `yaml:"insecure"`

	// Headers are additional headers for authentication.
	Headers map[string]string `yaml:"headers"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:            false,
		ServiceName:        "genaws",
		ServiceVersion:     "unknown",
		SampleRate:         1.0,
		AlwaysSampleErrors: true,
		Exporter:           ExporterConfig{Type: "none"},
		BatchInterval:      5 * time.Second,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0 and 1, got %v", c.SampleRate)
	}
	switch c.Exporter.Type {
	case "", "none", "console":
	case "otlp", "otlp-http", "otlp_http":
		if c.Exporter.Endpoint == "" {
			return fmt.Errorf("exporter endpoint is required for type %s", c.Exporter.Type)
		}
	default:
		return fmt.Errorf("unknown exporter type: %s", c.Exporter.Type)
	}
	return nil
}
