// Package cryptox wraps password hashing used by local accounts and the
// token server.
package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// SecretCost is the bcrypt work factor for stored secrets.
const SecretCost = 10

// ErrSecretMismatch is returned by CheckSecret when the secret does not match.
var ErrSecretMismatch = errors.New("secret mismatch")

// HashSecret returns a bcrypt hash of secret.
func HashSecret(secret []byte) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword(secret, SecretCost)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}
	return h, nil
}

// CheckSecret compares secret against a hash produced by HashSecret.
func CheckSecret(hash, secret []byte) error {
	err := bcrypt.CompareHashAndPassword(hash, secret)
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrSecretMismatch
	}
	return fmt.Errorf("check secret: %w", err)
}
