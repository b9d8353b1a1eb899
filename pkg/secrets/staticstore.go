package secrets

import "fmt"

// StaticStore answers every lookup with the same credentials, typically the
// ones given on the command line or in the settings file.
type StaticStore struct {
	Username string
	Password string
}

// NewStaticStore creates a new StaticStore with the given username and password.
func NewStaticStore(username, password string) *StaticStore {
	return &StaticStore{
		Username: username,
		Password: password,
	}
}

func (s *StaticStore) GetSecretByID(secretID string) (string, error) {
	return Credentials{Username: s.Username, Password: s.Password}.Marshal()
}

func (s *StaticStore) StoreSecretByID(secretID, secret string) error {
	return fmt.Errorf("static store is read-only")
}

func (s *StaticStore) ListSecrets() (map[string]string, error) {
	creds, err := s.GetSecretByID(DEFAULT_KEY)
	if err != nil {
		return nil, err
	}
	return map[string]string{DEFAULT_KEY: creds}, nil
}

func (s *StaticStore) RemoveSecretByID(secretID string) error {
	return fmt.Errorf("static store is read-only")
}
