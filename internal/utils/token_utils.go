package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySubject is returned when a token would not name an account.
var ErrEmptySubject = errors.New("token subject (account name) is required")

// GenerateJWT signs an HS256 token whose subject is the account name.
func GenerateJWT(accountName string, secret string, expiryDuration time.Duration, issuer string, now time.Time) (string, error) {
	if accountName == "" {
		return "", ErrEmptySubject
	}
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   accountName,
		ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a JWT token string, validates its HMAC signature and standard claims.
// Errors from jwt (jwt.ErrTokenExpired, jwt.ErrTokenNotValidYet, ...) are returned unchanged.
func ParseAndValidateJWT(tokenString string, secretKey string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.Subject == "" {
		return nil, ErrEmptySubject
	}

	return claims, nil
}
