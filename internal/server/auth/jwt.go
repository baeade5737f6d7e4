// Package auth mints and verifies the bearer tokens handed out by the token
// server. Tokens are HS256 JWTs whose subject is the user id; they carry a
// random jti and no expiry, so revocation is done by dropping the token from
// the user's record.
package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const jtiBytes = 16

func GenerateToken(userID string, secretKey []byte) (string, error) {
	jti, err := common.MakeRandHexString(jtiBytes)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  userID,
		ID:       jti,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies the signature and returns the subject. Any
// failure is reported as common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
