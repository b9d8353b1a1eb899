package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

var hkdfInfo = []byte("nsoinv secrets v1")

// Derive a unique AES key per secret ID using HKDF
func deriveAESKey(masterKey []byte, secretID string) []byte {
	r := hkdf.New(sha256.New, masterKey, []byte(secretID), hkdfInfo)
	derivedKey := make([]byte, 32) // AES-256 key
	_, _ = io.ReadFull(r, derivedKey)
	return derivedKey
}

// Encrypt data using AES-GCM; additional is authenticated but not stored
func encryptAESGCM(key, plaintext, additional []byte) (string, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := aesGCM.Seal(nonce, nonce, plaintext, additional)
	return hex.EncodeToString(ciphertext), nil
}

// Decrypt data using AES-GCM
func decryptAESGCM(key []byte, encryptedData string, additional []byte) (string, error) {
	data, err := hex.DecodeString(encryptedData)
	if err != nil {
		return "", err
	}

	aesGCM, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonceSize := aesGCM.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, additional)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt secret: %w", err)
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
