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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/zalando/go-keyring"
)

// KeyringService is the OS keychain service name entries are stored under.
const KeyringService = "genaws"

// ErrNotFound is returned when the keychain has no entry for a profile.
var ErrNotFound = errors.New("credentials not found in keyring")

// keyringEntry is the JSON document stored per profile.
type keyringEntry struct {
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	SessionToken    string `json:"session_token,omitempty"`
}

// Keyring reads credentials for one profile from the OS keychain.
type Keyring struct {
	Profile string
}

// NewKeyring returns a provider for profile ("default" when empty).
func NewKeyring(profile string) *Keyring {
	if profile == "" {
		profile = "default"
	}
	return &Keyring{Profile: profile}
}

// Retrieve implements aws.CredentialsProvider.
func (k *Keyring) Retrieve(_ context.Context) (aws.Credentials, error) {
	raw, err := keyring.Get(KeyringService, k.Profile)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return aws.Credentials{}, fmt.Errorf("%w: profile %s", ErrNotFound, k.Profile)
		}
		return aws.Credentials{}, fmt.Errorf("keychain error: %w", err)
	}

	var entry keyringEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return aws.Credentials{}, fmt.Errorf("keychain entry for profile %s is malformed: %w", k.Profile, err)
	}

	return aws.Credentials{
		AccessKeyID:     entry.AccessKeyID,
		SecretAccessKey: entry.SecretAccessKey,
		SessionToken:    entry.SessionToken,
		Source:          "Keyring",
	}, nil
}

// Store saves creds for profile in the OS keychain.
func Store(profile string, creds aws.Credentials) error {
	if profile == "" {
		profile = "default"
	}
	data, err := json.Marshal(keyringEntry{
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
		SessionToken:    creds.SessionToken,
	})
	if err != nil {
		return err
	}
	if err := keyring.Set(KeyringService, profile, string(data)); err != nil {
		return fmt.Errorf("keychain error: %w", err)
	}
	return nil
}

// Remove deletes the keychain entry for profile.
func Remove(profile string) error {
	if profile == "" {
		profile = "default"
	}
	if err := keyring.Delete(KeyringService, profile); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w: profile %s", ErrNotFound, profile)
		}
		return fmt.Errorf("keychain error: %w", err)
	}
	return nil
}
