// Package secrets keeps NSO credentials out of settings files. Secrets are
// JSON-encoded Credentials stored under an ID, normally the NSO host, with
// DEFAULT_KEY used when no host-specific entry exists.
package secrets

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

const (
	DEFAULT_KEY    = "default"
	MASTER_KEY_ENV = "MASTER_KEY"
)

type SecretStore interface {
	GetSecretByID(secretID string) (string, error)
	StoreSecretByID(secretID, secret string) error
	ListSecrets() (map[string]string, error)
	RemoveSecretByID(secretID string) error
}

// Credentials is the value stored for every NSO instance.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Marshal() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal credentials: %w", err)
	}
	return string(b), nil
}

// ParseCredentials decodes a stored secret and requires a username.
func ParseCredentials(secret string) (Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal([]byte(secret), &creds); err != nil {
		return creds, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}
	if creds.Username == "" {
		return creds, fmt.Errorf("credentials are missing a username")
	}
	return creds, nil
}

// GetCredentials looks up the credentials stored for id, falling back to
// the DEFAULT_KEY entry when there are none.
func GetCredentials(store SecretStore, id string) (Credentials, error) {
	if id != "" && id != DEFAULT_KEY {
		if secret, err := store.GetSecretByID(id); err == nil {
			log.Debug().Str("id", id).Msg("specific credentials found, using")
			return ParseCredentials(secret)
		}
		log.Debug().Str("id", id).Msg("specific credentials not found, falling back to default")
	}
	secret, err := store.GetSecretByID(DEFAULT_KEY)
	if err != nil {
		return Credentials{}, fmt.Errorf("no credentials for %q and no default credentials: %w", id, err)
	}
	return ParseCredentials(secret)
}

// OpenStore tries to create or open the LocalSecretStore at filename using
// the master key from the MASTER_KEY environment variable.
func OpenStore(filename string) (SecretStore, error) {
	if filename == "" {
		return nil, fmt.Errorf("path to secret store required")
	}

	masterKey := os.Getenv(MASTER_KEY_ENV)
	if masterKey == "" {
		return nil, fmt.Errorf("%s environment variable not set", MASTER_KEY_ENV)
	}

	store, err := NewLocalSecretStore(masterKey, filename, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create new local secret store: %w", err)
	}
	return store, nil
}
