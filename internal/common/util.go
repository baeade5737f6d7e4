package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString returns size random bytes, hex-encoded. Used for user
// ids and token ids.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites b with zeros. Used for secrets read from the
// terminal once they have been hashed or sent.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
