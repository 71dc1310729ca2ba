package credentials

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/goblog/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the client can read from a token without the signing key.
type Claims struct {
	UserID    int
	Username  string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that lies before now.
// Tokens without exp never expire locally; the server remains the judge.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

type tokenClaims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Inspect decodes the claims of a JWT without verifying its signature.
// Non-JWT tokens yield common.ErrInvalidToken; callers treat the credential
// as opaque in that case.
func Inspect(token string) (Claims, error) {
	var tc tokenClaims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, &tc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	c := Claims{UserID: tc.UserID, Username: tc.Username}
	if tc.ExpiresAt != nil {
		c.ExpiresAt = tc.ExpiresAt.Time
	}
	if c.Username == "" {
		c.Username = tc.Subject
	}
	return c, nil
}
