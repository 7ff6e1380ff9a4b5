// Package auth provides password hashing and HS256 bearer tokens.
//
// Tokens are self-contained: there is no refresh flow and no revocation list.
// A token is valid until its exp claim passes.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the token lifetime used when TokenIssuer.TTL is zero.
const DefaultTTL = 24 * time.Hour

var (
	ErrMissingHeader   = errors.New("authorization header missing")
	ErrMalformedHeader = errors.New("authorization header is not a bearer token")
	ErrInvalidToken    = errors.New("token is invalid or expired")
	ErrEmptySecret     = errors.New("signing secret is empty")
)

// Claims is the token payload.
type Claims struct {
	UserID  uint `json:"user_id"`
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies tokens with a shared secret.
// Now is optional and only overridden in tests.
type TokenIssuer struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// NewTokenIssuer returns an issuer for secret with the given lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{Secret: []byte(secret), TTL: ttl}
}

func (t *TokenIssuer) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *TokenIssuer) ttl() time.Duration {
	if t.TTL > 0 {
		return t.TTL
	}
	return DefaultTTL
}

// Issue returns a signed token for the user and its expiry time.
func (t *TokenIssuer) Issue(userID uint, isAdmin bool) (string, time.Time, error) {
	if len(t.Secret) == 0 {
		return "", time.Time{}, ErrEmptySecret
	}
	now := t.now().UTC()
	exp := now.Add(t.ttl())
	claims := Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies signature, algorithm and expiry and returns the claims.
// Every verification failure is reported as ErrInvalidToken.
func (t *TokenIssuer) Parse(token string) (*Claims, error) {
	if len(t.Secret) == 0 {
		return nil, ErrEmptySecret
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return t.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingHeader
	}
	scheme, tok, ok := strings.Cut(header, " ")
	tok = strings.TrimSpace(tok)
	if !ok || !strings.EqualFold(scheme, "Bearer") || tok == "" || strings.ContainsRune(tok, ' ') {
		return "", ErrMalformedHeader
	}
	return tok, nil
}
