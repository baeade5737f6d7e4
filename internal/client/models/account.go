package models

import (
	"strings"
	"time"
)

// Account is a locally registered identity. Key doubles as the owner key of
// the account's media partition.
type Account struct {
	Key        string
	Email      string
	SecretHash []byte
	CreatedAt  time.Time
}

// NormalizeEmail produces the account key for an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
