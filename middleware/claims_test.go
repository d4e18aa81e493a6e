package middleware

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestPrincipalFromClaimsMapsSubjectRoleAndType(t *testing.T) {
	p := PrincipalFromClaims(jwt.MapClaims{
		"sub":  "u1",
		"role": "doctor",
		"type": "hospital",
	})
	if p == nil {
		t.Fatal("expected a principal")
	}
	if p.ID != "u1" || p.Role != "doctor" || p.Type != "hospital" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestPrincipalFromClaimsWithoutSubjectIsNil(t *testing.T) {
	if p := PrincipalFromClaims(jwt.MapClaims{"role": "doctor"}); p != nil {
		t.Fatalf("expected nil without a subject, got %+v", p)
	}
	if p := PrincipalFromClaims(jwt.MapClaims{"sub": ""}); p != nil {
		t.Fatalf("expected nil for an empty subject, got %+v", p)
	}
}

func TestPrincipalFromClaimsIgnoresNonStringPrivateClaims(t *testing.T) {
	p := PrincipalFromClaims(jwt.MapClaims{
		"sub":  "u1",
		"role": 42,
		"type": true,
	})
	if p == nil {
		t.Fatal("expected a principal")
	}
	if p.Role != "" || p.Type != "" {
		t.Fatalf("non-string claims must be ignored, got %+v", p)
	}
}
