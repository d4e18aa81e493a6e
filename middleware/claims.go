package middleware

import (
	"github.com/golang-jwt/jwt/v5"

	goThrottle "github.com/MrEthical07/goThrottle"
)

// PrincipalFromClaims maps verified JWT claims to a [goThrottle.Principal].
// It reads the registered "sub" claim for the identifier and the private
// "role" and "type" claims for quota scaling and identity keying.
//
// The claims MUST come from a token the host application has already
// verified; this function performs no signature or expiry checks. It
// returns nil when the claims carry no subject, so the caller can fall
// back to an address identity.
func PrincipalFromClaims(claims jwt.MapClaims) *goThrottle.Principal {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil
	}

	p := &goThrottle.Principal{ID: sub}
	if role, ok := claims["role"].(string); ok {
		p.Role = role
	}
	if principalType, ok := claims["type"].(string); ok {
		p.Type = principalType
	}

	return p
}
