package secrets

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*LocalSecretStore, string, string) {
	t.Helper()
	masterKey, err := GenerateMasterKey()
	require.NoError(t, err)
	filename := filepath.Join(t.TempDir(), "secrets.json")
	store, err := NewLocalSecretStore(masterKey, filename, true)
	require.NoError(t, err)
	return store, masterKey, filename
}

func TestNewLocalSecretStore(t *testing.T) {
	store, masterKey, filename := newTestStore(t)

	assert.Equal(t, filename, store.filename)
	assert.Equal(t, masterKey, hex.EncodeToString(store.masterKey))

	fi, err := os.Stat(filename)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func TestNewLocalSecretStoreWithoutCreate(t *testing.T) {
	masterKey, err := GenerateMasterKey()
	require.NoError(t, err)

	_, err = NewLocalSecretStore(masterKey, filepath.Join(t.TempDir(), "missing.json"), false)
	assert.Error(t, err)

	_, err = NewLocalSecretStore("not-hex", filepath.Join(t.TempDir(), "s.json"), true)
	assert.Error(t, err)
}

func TestGenerateMasterKey(t *testing.T) {
	key, err := GenerateMasterKey()
	require.NoError(t, err)
	assert.Len(t, key, 64) // 32 bytes in hex representation
}

func TestStoreAndReopen(t *testing.T) {
	store, masterKey, filename := newTestStore(t)

	creds := Credentials{Username: "admin", Password: "C1sco12345"}
	secret, err := creds.Marshal()
	require.NoError(t, err)
	require.NoError(t, store.StoreSecretByID("10.10.20.49", secret))

	reopened, err := NewLocalSecretStore(masterKey, filename, false)
	require.NoError(t, err)
	got, err := GetCredentials(reopened, "10.10.20.49")
	require.NoError(t, err)
	assert.Equal(t, creds, got)

	raw, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "C1sco12345")
}

func TestGetCredentialsFallsBackToDefault(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := GetCredentials(store, "nso-1")
	assert.Error(t, err)

	secret, err := Credentials{Username: "ops", Password: "pw"}.Marshal()
	require.NoError(t, err)
	require.NoError(t, store.StoreSecretByID(DEFAULT_KEY, secret))

	got, err := GetCredentials(store, "nso-1")
	require.NoError(t, err)
	assert.Equal(t, "ops", got.Username)
}

func TestListAndRemoveSecrets(t *testing.T) {
	store, _, _ := newTestStore(t)

	require.NoError(t, store.StoreSecretByID("a", `{"username":"a"}`))
	require.NoError(t, store.StoreSecretByID("b", `{"username":"b"}`))

	secrets, err := store.ListSecrets()
	require.NoError(t, err)
	assert.Len(t, secrets, 2)
	assert.Equal(t, store.Secrets["a"], secrets["a"])

	require.NoError(t, store.RemoveSecretByID("a"))
	assert.Error(t, store.RemoveSecretByID("a"))

	_, err = store.GetSecretByID("a")
	assert.Error(t, err)
	got, err := store.GetSecretByID("b")
	require.NoError(t, err)
	assert.Equal(t, `{"username":"b"}`, got)
}

func TestStaticStore(t *testing.T) {
	store := NewStaticStore("admin", "secret")

	creds, err := GetCredentials(store, "anything")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "admin", Password: "secret"}, creds)
	assert.Error(t, store.StoreSecretByID("x", "y"))
}

func TestParseCredentialsRequiresUsername(t *testing.T) {
	_, err := ParseCredentials(`{"password":"x"}`)
	assert.Error(t, err)
	_, err = ParseCredentials(`not json`)
	assert.Error(t, err)
}
