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

package credentials

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"

	genawserrors "github.com/tombee/genaws/pkg/errors"
)

// Static returns a provider for fixed keys.
func Static(accessKeyID, secretAccessKey, sessionToken string) aws.CredentialsProvider {
	return awscreds.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, sessionToken)
}

// LoadDefault resolves configuration through the SDK default chain. An
// empty region or profile leaves the chain's own choice in place.
func LoadDefault(ctx context.Context, region, profile string) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, &genawserrors.ConfigurationError{
			Key:    "credentials",
			Reason: "failed to load AWS configuration",
			Cause:  err,
		}
	}
	return cfg, nil
}

// Snapshot retrieves one set of credentials from p and trims whitespace
// from each part. Empty keys are an error.
func Snapshot(ctx context.Context, p aws.CredentialsProvider) (aws.Credentials, error) {
	if p == nil {
		return aws.Credentials{}, &genawserrors.ConfigurationError{Key: "credentials", Reason: "no credentials provider configured"}
	}

	creds, err := p.Retrieve(ctx)
	if err != nil {
		return aws.Credentials{}, &genawserrors.ConfigurationError{
			Key:    "credentials",
			Reason: "unable to resolve AWS credentials: " + SanitizeError(err.Error()),
			Cause:  err,
		}
	}

	creds.AccessKeyID = strings.TrimSpace(creds.AccessKeyID)
	creds.SecretAccessKey = strings.TrimSpace(creds.SecretAccessKey)
	creds.SessionToken = strings.TrimSpace(creds.SessionToken)
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return aws.Credentials{}, &genawserrors.ConfigurationError{Key: "credentials", Reason: "access key id and secret access key are required"}
	}
	return creds, nil
}
