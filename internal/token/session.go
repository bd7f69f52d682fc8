// Package token implements the Token Service: session JWTs, reversibly
// encoded scoped connection strings, and single-use registration tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session token has expired")
)

// SessionClaims is the payload carried by a Mycelium session JWT. Decode
// trusts only the signature and expiry; no other claim is validated
// against external state by the token service itself.
type SessionClaims struct {
	UserID       uuid.UUID `json:"sub"`
	Email        string    `json:"email"`
	MFARequired  bool      `json:"mfaRequired"`
	jwt.RegisteredClaims
}

// SessionProvider issues and validates HS512-signed session JWTs.
type SessionProvider struct {
	secret   []byte
	duration time.Duration
}

func NewSessionProvider(secret []byte, duration time.Duration) *SessionProvider {
	return &SessionProvider{secret: secret, duration: duration}
}

// Encode mints a signed session token for the given claims, stamping
// issued-at and expiry itself; callers only supply the identity fields.
func (p *SessionProvider) Encode(userID uuid.UUID, email string, mfaRequired bool) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:      userID,
		Email:       email,
		MFARequired: mfaRequired,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Decode validates the signature and expiry of tokenString and returns
// its claims. No other claim is cross-checked here — that's the caller's
// job (e.g. re-fetching the user to confirm it's still active).
func (p *SessionProvider) Decode(tokenString string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
