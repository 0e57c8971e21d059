package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Provider is the hosted authentication backend. SignIn returns the user id
// on success; failures carry a *ProviderError with the provider's native
// code, which callers map through MapProviderError before anything reaches
// the UI.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (string, error)
}

// ErrSessionInvalid is the only error Verify returns; the underlying JWT
// failure stays inside this package.
var ErrSessionInvalid = fmt.Errorf("session invalid")

// SessionManager mints and verifies dashboard session tokens.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionManager(secret []byte, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionManager{secret: secret, ttl: ttl}
}

// Issue creates a signed session token for the given user.
func (s *SessionManager) Issue(user string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   user,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks the token and returns the user it was issued for.
func (s *SessionManager) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrSessionInvalid
	}
	return claims.Subject, nil
}
