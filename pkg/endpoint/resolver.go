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

// Package endpoint maps a region and service metadata to the host that
// serves it and the region its requests are signed for.
package endpoint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tombee/genaws/pkg/catalog"
	genawserrors "github.com/tombee/genaws/pkg/errors"
)

// Endpoint is a resolved service location.
type Endpoint struct {
	Host          string
	SigningRegion string
}

// Resolver resolves where a service is reached in a region.
type Resolver interface {
	Resolve(region string, meta catalog.ServiceMetadata) (Endpoint, error)
}

type partition struct {
	id           string
	prefixes     []string
	dnsSuffix    string
	globalRegion string
}

var partitions = []partition{
	{id: "aws-cn", prefixes: []string{"cn-"}, dnsSuffix: "amazonaws.com.cn", globalRegion: "cn-north-1"},
	{id: "aws-us-gov", prefixes: []string{"us-gov-"}, dnsSuffix: "amazonaws.com", globalRegion: "us-gov-west-1"},
	{id: "aws-iso", prefixes: []string{"us-iso-"}, dnsSuffix: "c2s.ic.gov", globalRegion: "us-iso-east-1"},
	{id: "aws-iso-b", prefixes: []string{"us-isob-"}, dnsSuffix: "sc2s.sgov.gov", globalRegion: "us-isob-east-1"},
}

var awsPartition = partition{id: "aws", dnsSuffix: "amazonaws.com", globalRegion: "us-east-1"}

var regionPattern = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d+$`)

func partitionFor(region string) partition {
	for _, p := range partitions {
		for _, prefix := range p.prefixes {
			if strings.HasPrefix(region, prefix) {
				return p
			}
		}
	}
	return awsPartition
}

// Partition returns the partition id ("aws", "aws-cn", ...) of region.
func Partition(region string) string {
	return partitionFor(region).id
}

// ValidRegion reports whether region is shaped like an AWS region name.
func ValidRegion(region string) bool {
	return regionPattern.MatchString(region)
}

// Host returns <endpointPrefix>.<region>.<dnsSuffix>.
func Host(region, endpointPrefix string) (string, error) {
	if err := validate(region, endpointPrefix); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s.%s", endpointPrefix, region, partitionFor(region).dnsSuffix), nil
}

func validate(region, endpointPrefix string) error {
	if region == "" {
		return &genawserrors.ConfigurationError{Key: "region", Reason: "region is required"}
	}
	if !regionPattern.MatchString(region) {
		return &genawserrors.ConfigurationError{Key: "region", Reason: fmt.Sprintf("invalid region %q", region)}
	}
	if endpointPrefix == "" {
		return &genawserrors.ConfigurationError{Key: "endpointPrefix", Reason: "endpoint prefix is required"}
	}
	return nil
}

// DefaultResolver resolves the public regional endpoint. Services with a
// global endpoint in the standard partition use it, signed for us-east-1.
type DefaultResolver struct{}

// Resolve implements Resolver.
func (DefaultResolver) Resolve(region string, meta catalog.ServiceMetadata) (Endpoint, error) {
	host, err := Host(region, meta.EndpointPrefix)
	if err != nil {
		return Endpoint{}, err
	}
	p := partitionFor(region)
	if meta.GlobalEndpoint != "" && p.id == awsPartition.id {
		return Endpoint{Host: meta.GlobalEndpoint, SigningRegion: p.globalRegion}, nil
	}
	return Endpoint{Host: host, SigningRegion: region}, nil
}

// StaticResolver sends every service to one host, for VPC endpoints,
// local emulators and tests. SigningRegion defaults to the request region.
type StaticResolver struct {
	Hostname      string
	SigningRegion string
}

// Resolve implements Resolver.
func (s StaticResolver) Resolve(region string, _ catalog.ServiceMetadata) (Endpoint, error) {
	if s.Hostname == "" {
		return Endpoint{}, &genawserrors.ConfigurationError{Key: "endpoint", Reason: "static endpoint host is required"}
	}
	signingRegion := s.SigningRegion
	if signingRegion == "" {
		signingRegion = region
	}
	return Endpoint{Host: s.Hostname, SigningRegion: signingRegion}, nil
}
