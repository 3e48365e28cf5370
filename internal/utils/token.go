package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time" // time utilities for computing expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// ErrInvalidToken is returned when a token fails signature or expiry
// verification, or carries malformed claims.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the fields embedded in a session token. The signature proves
// integrity; liveness is decided separately by the token ledger.
type Claims struct {
	UserID uint64 // subject user id
	Role   string // role at issue time
	Email  string // email at issue time
}

// NewSessionToken builds and signs an HS256 JWT for a user with the given
// validity window in hours. The token carries id, role and email so that
// protected handlers can identify the caller without a user lookup.
func NewSessionToken(secret string, c Claims, ttlHours int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   c.UserID,
		"role":  c.Role,
		"email": c.Email,
		"exp":   now.Add(time.Duration(ttlHours) * time.Hour).Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseSessionToken verifies signature and expiry and extracts the claims.
// Tokens signed with anything but HMAC are rejected.
func ParseSessionToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, ok := mc["sub"].(float64) // numeric claims decode as float64
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	role, _ := mc["role"].(string)
	email, _ := mc["email"].(string)
	return Claims{UserID: uint64(sub), Role: role, Email: email}, nil
}
