package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/voxdrop/voxdrop/config"
)

var (
	// ErrExpiredToken indicates a structurally valid token past its expiry.
	ErrExpiredToken = errors.New("token expired")
	// ErrMalformedToken indicates a token with invalid structure or signature.
	ErrMalformedToken = errors.New("malformed token")
)

// Claims defines the JWT claims used in the application. The subject carries
// the account email.
type Claims struct {
	jwt.RegisteredClaims
}

// DefaultTokenTTL returns the configured token lifetime.
func DefaultTokenTTL() time.Duration {
	return time.Duration(config.Get().TokenTTLMinutes) * time.Minute
}

// GenerateToken issues an HS256 JWT asserting the given subject for the duration.
func GenerateToken(subject string, duration time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Get().JWTSecret))
}

// ParseToken validates a JWT and returns its subject. Failure is either
// ErrExpiredToken or ErrMalformedToken; the two must not be collapsed here so
// callers can log them apart, even though the HTTP boundary reports both as 401.
func ParseToken(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.Get().JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrMalformedToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrMalformedToken
	}

	return claims.Subject, nil
}
