// Package models holds the token server's persisted types.
package models

import (
	"slices"
	"time"
)

// User is one registered account. Email is stored normalized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Tokens       []string  `json:"tokens"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasToken reports whether token was issued to u and not revoked.
func (u *User) HasToken(token string) bool {
	return slices.Contains(u.Tokens, token)
}

func (u *User) Clone() *User {
	c := *u
	c.Tokens = slices.Clone(u.Tokens)
	return &c
}
