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

package endpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/genaws/pkg/catalog"
	genawserrors "github.com/tombee/genaws/pkg/errors"
)

func TestHost(t *testing.T) {
	tests := []struct {
		region  string
		prefix  string
		want    string
		wantErr string
	}{
		{region: "us-east-1", prefix: "sqs", want: "sqs.us-east-1.amazonaws.com"},
		{region: "eu-west-2", prefix: "monitoring", want: "monitoring.eu-west-2.amazonaws.com"},
		{region: "cn-north-1", prefix: "ec2", want: "ec2.cn-north-1.amazonaws.com.cn"},
		{region: "us-gov-west-1", prefix: "kms", want: "kms.us-gov-west-1.amazonaws.com"},
		{region: "ap-southeast-2", prefix: "api.ecr", want: "api.ecr.ap-southeast-2.amazonaws.com"},
		{region: "", prefix: "sqs", wantErr: "region is required"},
		{region: "not a region", prefix: "sqs", wantErr: "invalid region"},
		{region: "us-east-1", prefix: "", wantErr: "endpoint prefix is required"},
	}

	for _, tt := range tests {
		t.Run(tt.region+"/"+tt.prefix, func(t *testing.T) {
			got, err := Host(tt.region, tt.prefix)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				var cfgErr *genawserrors.ConfigurationError
				assert.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultResolver(t *testing.T) {
	iam := catalog.ServiceMetadata{EndpointPrefix: "iam", GlobalEndpoint: "iam.amazonaws.com"}
	sqs := catalog.ServiceMetadata{EndpointPrefix: "sqs"}

	ep, err := DefaultResolver{}.Resolve("eu-central-1", iam)
	require.NoError(t, err)
	assert.Equal(t, Endpoint{Host: "iam.amazonaws.com", SigningRegion: "us-east-1"}, ep)

	ep, err = DefaultResolver{}.Resolve("cn-north-1", iam)
	require.NoError(t, err)
	assert.Equal(t, Endpoint{Host: "iam.cn-north-1.amazonaws.com.cn", SigningRegion: "cn-north-1"}, ep)

	ep, err = DefaultResolver{}.Resolve("us-west-2", sqs)
	require.NoError(t, err)
	assert.Equal(t, Endpoint{Host: "sqs.us-west-2.amazonaws.com", SigningRegion: "us-west-2"}, ep)
}

func TestStaticResolver(t *testing.T) {
	ep, err := StaticResolver{Hostname: "127.0.0.1:4566"}.Resolve("us-east-1", catalog.ServiceMetadata{})
	require.NoError(t, err)
	assert.Equal(t, Endpoint{Host: "127.0.0.1:4566", SigningRegion: "us-east-1"}, ep)

	_, err = StaticResolver{}.Resolve("us-east-1", catalog.ServiceMetadata{})
	assert.Error(t, err)
}

func TestPartition(t *testing.T) {
	assert.Equal(t, "aws", Partition("us-east-1"))
	assert.Equal(t, "aws-cn", Partition("cn-northwest-1"))
	assert.Equal(t, "aws-iso-b", Partition("us-isob-east-1"))
}

func TestValidRegion(t *testing.T) {
	for _, r := range []string{"us-east-1", "eu-central-2", "us-gov-west-1", "ap-southeast-4"} {
		assert.True(t, ValidRegion(r), r)
	}
	for _, r := range []string{"", "us-east", "US-EAST-1", "useast1", "us-east-1a"} {
		assert.False(t, ValidRegion(r), r)
	}
}
