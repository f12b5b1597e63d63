// Package token inspects session and file tokens without verifying their
// signature.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var parser = jwt.NewParser()

// nowFn is replaced in tests.
var nowFn = time.Now

// Claims returns the unverified claims of a JWT, or nil when token is not a
// well-formed JWT.
func Claims(token string) jwt.MapClaims {
	if token == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims
}

// Expiry returns the exp claim, ok is false when the token has none.
func Expiry(token string) (time.Time, bool) {
	claims := Claims(token)
	if claims == nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// IsExpired reports whether token is malformed, has no claims, or expires
// within threshold from now. A token with claims but no exp never expires.
func IsExpired(token string, threshold time.Duration) bool {
	claims := Claims(token)
	if len(claims) == 0 {
		return true
	}
	expiry, ok := Expiry(token)
	if !ok {
		if _, has := claims["exp"]; has {
			return true
		}
		return false
	}
	return !expiry.Add(-threshold).After(nowFn())
}
