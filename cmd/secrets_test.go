package cmd

import (
	"encoding/base64"
	"testing"

	"github.com/OpenCHAMI/nsoinv/pkg/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSecretInput(t *testing.T) {
	want := secrets.Credentials{Username: "developer", Password: "C1sco:12345"}

	creds, err := parseSecretInput("developer:C1sco:12345", "basic")
	require.NoError(t, err)
	assert.Equal(t, want, creds)

	creds, err = parseSecretInput(`{"username": "developer", "password": "C1sco:12345"}`, "json")
	require.NoError(t, err)
	assert.Equal(t, want, creds)

	encoded := base64.StdEncoding.EncodeToString([]byte(`{"username": "developer", "password": "C1sco:12345"}`))
	creds, err = parseSecretInput(encoded, "base64")
	require.NoError(t, err)
	assert.Equal(t, want, creds)
}

func TestParseSecretInputRejects(t *testing.T) {
	for _, tc := range []struct{ value, format string }{
		{"no-colon", "basic"},
		{":password", "basic"},
		{`{"password": "x"}`, "json"},
		{"not json", "json"},
		{"!!!", "base64"},
		{"a:b", "xml"},
	} {
		_, err := parseSecretInput(tc.value, tc.format)
		assert.Error(t, err, tc)
	}
}
