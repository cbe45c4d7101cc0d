// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"taskapp/internal/domain/service"
	"taskapp/internal/errors"

	"golang.org/x/crypto/scrypt"
)

// scrypt cost parameters. They are part of the stored credential format: changing
// any of them invalidates every existing password.
const (
	scryptN      = 16384 // CPU/memory cost, 2^14.
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltBytes    = 16

	credentialSeparator = "."
)

// scryptHasher is a concrete implementation of the PasswordHasher interface using scrypt.
// Credentials are stored as "<hex salt>.<hex derived key>".
type scryptHasher struct{}

// NewScryptHasher is the constructor for scryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewScryptHasher() service.PasswordHasher {
	return &scryptHasher{}
}

// Hash generates a fresh random salt and derives a key from the password with it.
func (h *scryptHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "failed to generate salt")
	}
	saltHex := hex.EncodeToString(salt)

	key, err := deriveKey(password, saltHex)
	if err != nil {
		return "", err
	}

	return saltHex + credentialSeparator + hex.EncodeToString(key), nil
}

// Check compares a plaintext password with a stored credential in constant time.
// Malformed credentials never match.
func (h *scryptHasher) Check(password, credential string) bool {
	saltHex, keyHex, ok := strings.Cut(credential, credentialSeparator)
	if !ok || saltHex == "" || keyHex == "" {
		return false
	}

	stored, err := hex.DecodeString(keyHex)
	if err != nil || len(stored) != scryptKeyLen {
		return false
	}

	candidate, err := deriveKey(password, saltHex)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(stored, candidate) == 1
}

// deriveKey uses the hex text of the salt, not its decoded bytes, as the scrypt salt.
func deriveKey(password, saltHex string) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	return key, nil
}
