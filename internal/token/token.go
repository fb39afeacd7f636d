// Package token issues and verifies the signed, expiring identity tokens
// used as bearer credentials. Validity is purely a function of signature
// and expiry; nothing is persisted server-side.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind distinguishes the two token lifetimes
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	ErrMalformed        = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token has expired")
)

// Claims are the decoded contents of an identity token
type Claims struct {
	Kind Kind `json:"kind"`
	jwt.RegisteredClaims
}

// Subject returns the token's subject (the user ID)
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Codec signs and verifies identity tokens with a process-wide symmetric
// secret. The secret must stay stable across restarts for previously
// issued tokens to keep validating.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec creates a new Codec
func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	if accessTTL == 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL == 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Issue creates a signed token of the given kind for the subject
func (c *Codec) Issue(subject string, kind Kind) (string, error) {
	ttl := c.accessTTL
	if kind == KindRefresh {
		ttl = c.refreshTTL
	}

	now := time.Now()
	claims := &Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string. It checks structure,
// signature and expiry only; whether the kind fits the call site is the
// caller's responsibility.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return c.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		default:
			return nil, ErrMalformed
		}
	}

	if !tok.Valid {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}
