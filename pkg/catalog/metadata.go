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

package catalog

import (
	"fmt"

	genawserrors "github.com/tombee/genaws/pkg/errors"
)

// Protocol is one of the four supported wire protocol families.
type Protocol string

const (
	ProtocolQuery    Protocol = "query"
	ProtocolEC2      Protocol = "ec2"
	ProtocolJSON     Protocol = "json"
	ProtocolRESTJSON Protocol = "rest-json"
)

// Protocols lists every supported protocol.
var Protocols = []Protocol{ProtocolQuery, ProtocolEC2, ProtocolJSON, ProtocolRESTJSON}

// ParseProtocol validates a protocol name.
func ParseProtocol(s string) (Protocol, error) {
	p := Protocol(s)
	if !p.Valid() {
		return "", UnknownProtocolError(s)
	}
	return p, nil
}

// Valid reports whether p is a supported protocol.
func (p Protocol) Valid() bool {
	switch p {
	case ProtocolQuery, ProtocolEC2, ProtocolJSON, ProtocolRESTJSON:
		return true
	}
	return false
}

// UnknownProtocolError is the configuration error for an unsupported
// protocol name.
func UnknownProtocolError(name string) error {
	return &genawserrors.ConfigurationError{
		Key:    "protocol",
		Reason: fmt.Sprintf("unknown protocol %q", name),
	}
}

// ServiceMetadata is the per-service record that drives request building,
// signing and response decoding.
type ServiceMetadata struct {
	// EndpointPrefix is the host label (e.g., "monitoring" for CloudWatch).
	EndpointPrefix string `yaml:"endpointPrefix"`

	// APIVersion is sent as Version by the query and ec2 protocols.
	APIVersion string `yaml:"apiVersion"`

	Protocol Protocol `yaml:"protocol"`

	// TargetPrefix prefixes the X-Amz-Target header of json services.
	TargetPrefix string `yaml:"targetPrefix,omitempty"`

	// JSONVersion selects the application/x-amz-json-<v> content type.
	JSONVersion string `yaml:"jsonVersion,omitempty"`

	ServiceID string `yaml:"serviceId,omitempty"`

	// SigningName overrides the service name in the credential scope.
	SigningName string `yaml:"signingName,omitempty"`

	// GlobalEndpoint is set for services served from one partition-wide host.
	GlobalEndpoint string `yaml:"globalEndpoint,omitempty"`
}

// SigningService returns the service name used in the credential scope.
func (m ServiceMetadata) SigningService() string {
	if m.SigningName != "" {
		return m.SigningName
	}
	return m.EndpointPrefix
}

// ContentType returns the JSON content type for json and rest-json
// services.
func (m ServiceMetadata) ContentType() string {
	version := m.JSONVersion
	if version == "" {
		version = "1.0"
	}
	return "application/x-amz-json-" + version
}

// Validate checks the fields every protocol depends on.
func (m ServiceMetadata) Validate() error {
	if m.EndpointPrefix == "" {
		return fmt.Errorf("endpointPrefix is required")
	}
	if !m.Protocol.Valid() {
		return UnknownProtocolError(string(m.Protocol))
	}
	switch m.Protocol {
	case ProtocolQuery, ProtocolEC2:
		if m.APIVersion == "" {
			return fmt.Errorf("apiVersion is required for %s protocol", m.Protocol)
		}
	case ProtocolJSON:
		if m.TargetPrefix == "" {
			return fmt.Errorf("targetPrefix is required for json protocol")
		}
	}
	return nil
}
