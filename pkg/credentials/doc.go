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

// Package credentials supplies the access key, secret key and optional
// session token the signer needs.
//
// Every provider implements aws.CredentialsProvider so the AWS SDK's own
// providers can be used interchangeably:
//
//   - Static wraps fixed keys.
//   - LoadDefault resolves the SDK default chain (environment, shared
//     config and credentials files, SSO, container and instance roles).
//   - Keyring reads keys stored in the OS keychain.
//   - Cache memoizes any provider and hands out one consistent snapshot
//     per call, refreshing before expiry.
//
// Verify checks a provider against STS GetCallerIdentity.
package credentials
