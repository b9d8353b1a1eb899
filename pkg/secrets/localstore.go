package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/OpenCHAMI/nsoinv/internal/util"
)

// Structure to store encrypted secrets in a JSON file
type LocalSecretStore struct {
	mu        sync.RWMutex
	masterKey []byte
	filename  string
	Secrets   map[string]string `json:"secrets"`
}

func NewLocalSecretStore(masterKeyHex, filename string, create bool) (*LocalSecretStore, error) {
	masterKey, err := hex.DecodeString(masterKeyHex)
	if err != nil {
		return nil, fmt.Errorf("unable to decode master key from hex representation: %w", err)
	}
	if len(masterKey) < 16 {
		return nil, fmt.Errorf("master key must be at least 16 bytes, got %d", len(masterKey))
	}

	secrets := map[string]string{}
	if _, exists := util.PathExists(filename); exists {
		secrets, err = loadSecrets(filename)
		if err != nil {
			return nil, fmt.Errorf("unable to load secrets from file: %w", err)
		}
	} else if !create {
		return nil, fmt.Errorf("file %s does not exist", filename)
	} else if err := SaveSecrets(filename, secrets); err != nil {
		return nil, fmt.Errorf("unable to create file %s: %w", filename, err)
	}

	return &LocalSecretStore{
		masterKey: masterKey,
		filename:  filename,
		Secrets:   secrets,
	}, nil
}

// GenerateMasterKey creates a 32-byte random key and returns it as a hex string.
func GenerateMasterKey() (string, error) {
	key := make([]byte, 32) // 32 bytes for AES-256
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

// GetSecretByID decrypts the secret using the master key and returns it
func (l *LocalSecretStore) GetSecretByID(secretID string) (string, error) {
	l.mu.RLock()
	encrypted, exists := l.Secrets[secretID]
	l.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("no secret found for %s", secretID)
	}

	return decryptAESGCM(deriveAESKey(l.masterKey, secretID), encrypted, []byte(secretID))
}

// StoreSecretByID encrypts the secret using the master key and stores it in the JSON file
func (l *LocalSecretStore) StoreSecretByID(secretID, secret string) error {
	encrypted, err := encryptAESGCM(deriveAESKey(l.masterKey, secretID), []byte(secret), []byte(secretID))
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.Secrets[secretID] = encrypted
	return SaveSecrets(l.filename, l.Secrets)
}

// ListSecrets returns a copy of the secret IDs mapped to their encrypted values
func (l *LocalSecretStore) ListSecrets() (map[string]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	secretsCopy := make(map[string]string, len(l.Secrets))
	for key, value := range l.Secrets {
		secretsCopy[key] = value
	}
	return secretsCopy, nil
}

// RemoveSecretByID removes the specified secretID and persists the change
func (l *LocalSecretStore) RemoveSecretByID(secretID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.Secrets[secretID]; !exists {
		return fmt.Errorf("no secret found for %s", secretID)
	}
	delete(l.Secrets, secretID)
	return SaveSecrets(l.filename, l.Secrets)
}

// Saves secrets back to the JSON file, readable by the owner only
func SaveSecrets(jsonFile string, store map[string]string) error {
	b, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal secrets: %w", err)
	}
	return util.WriteFileAtomic(jsonFile, append(b, '\n'), 0o600)
}

// Loads the secrets JSON file
func loadSecrets(jsonFile string) (map[string]string, error) {
	b, err := os.ReadFile(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("unable to open secret file %s: %w", jsonFile, err)
	}
	store := make(map[string]string)
	if len(b) == 0 {
		return store, nil
	}
	if err := json.Unmarshal(b, &store); err != nil {
		return nil, fmt.Errorf("unable to decode secret file %s: %w", jsonFile, err)
	}
	return store, nil
}
