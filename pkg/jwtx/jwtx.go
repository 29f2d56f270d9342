// Package jwtx verifies the session tokens presented to this service. The
// primary authentication tier mints them; this service only reads the
// subject (the claimed user id) back out, so verification is HS256 against a
// shared secret and nothing more.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken reports a token that failed signature, issuer or expiry
// validation.
var ErrInvalidToken = errors.New("jwtx: invalid token")

// Claims are the session-token claims this service cares about.
type Claims struct {
	Subject   string
	Issuer    string
	AMR       []string // authentication method references from the primary tier
	ExpiresAt time.Time
}

// Verifier validates a raw compact JWT and returns its claims.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

type sessionClaims struct {
	AMR []string `json:"amr,omitempty"`
	jwt.RegisteredClaims
}

// HS256Verifier validates session tokens signed with a shared secret.
type HS256Verifier struct {
	secret []byte
	issuer string
}

// NewHS256Verifier builds a verifier for tokens issued by issuer and signed
// with secret.
func NewHS256Verifier(secret []byte, issuer string) *HS256Verifier {
	return &HS256Verifier{secret: secret, issuer: issuer}
}

func (v *HS256Verifier) Verify(raw string) (Claims, error) {
	var sc sessionClaims
	token, err := jwt.ParseWithClaims(raw, &sc,
		func(t *jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || sc.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{
		Subject: sc.Subject,
		Issuer:  sc.Issuer,
		AMR:     sc.AMR,
	}
	if sc.ExpiresAt != nil {
		claims.ExpiresAt = sc.ExpiresAt.Time
	}
	return claims, nil
}

// SignHS256 mints a session token. The primary tier owns issuance in
// production; this helper exists for tests and local tooling.
func SignHS256(secret []byte, issuer, subject string, amr []string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		AMR: amr,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(secret)
}
