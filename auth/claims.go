package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims encodes the JWT claims embedded into PawWell access and refresh
// tokens.
//
// This is a DTO matching the server's token contract. The SDK keeps this
// struct local so callers never depend on backend internals.
type Claims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type,omitempty"` // "access" or "refresh"

	jwt.RegisteredClaims
}

// TokenExpiry recovers the expiry claim from an otherwise opaque token
// without verifying its signature. Signature verification is the server's
// job; the client only needs the expiry to decide when a refresh is due.
// Returns the zero time when the token has no parseable expiry.
func TokenExpiry(token string) time.Time {
	var claims Claims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
