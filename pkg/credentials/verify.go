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
	"fmt"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/tombee/genaws/internal/log"
	genawserrors "github.com/tombee/genaws/pkg/errors"
)

// Identity is the caller identity STS reports for a set of credentials.
type Identity struct {
	Account string
	Arn     string
	UserID  string
}

// VerifyTimeout bounds the STS call made by Verify.
const VerifyTimeout = 5 * time.Second

// Verify calls STS GetCallerIdentity with cfg and returns who the
// credentials belong to.
func Verify(ctx context.Context, cfg aws.Config, optFns ...func(*sts.Options)) (Identity, error) {
	client := sts.NewFromConfig(cfg, optFns...)

	verifyCtx, cancel := context.WithTimeout(ctx, VerifyTimeout)
	defer cancel()

	out, err := client.GetCallerIdentity(verifyCtx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, &genawserrors.ConfigurationError{
			Key:    "credentials",
			Reason: fmt.Sprintf("AWS credential validation failed: %v", SanitizeError(err.Error())),
			Cause:  err,
		}
	}

	return Identity{
		Account: aws.ToString(out.Account),
		Arn:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}

var accessKeyPattern = regexp.MustCompile(`\b(AKIA|ASIA)[0-9A-Z]{16}\b`)

// SanitizeError redacts access key ids from an error message.
func SanitizeError(msg string) string {
	return accessKeyPattern.ReplaceAllStringFunc(msg, log.SanitizeAccessKey)
}
