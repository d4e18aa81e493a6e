package goThrottle

// IdentityKind distinguishes authenticated clients from anonymous ones.
type IdentityKind uint8

const (
	// IdentityIP identifies the client by network address only.
	IdentityIP IdentityKind = iota
	// IdentityUser identifies the client by its authenticated principal.
	IdentityUser
)

// Principal is a decoded, already-verified authenticated caller. Producing
// one (JWT verification, session lookup) is the host application's job;
// goThrottle only consumes it.
type Principal struct {
	// ID is the principal's stable identifier.
	ID string
	// Type is the principal class ("admin", "hospital", "user", ...).
	// It becomes part of the identity key so distinct principal classes
	// never share counters even if their IDs collide.
	Type string
	// Role drives quota scaling via the configured multiplier table.
	Role string
}

// ClientIdentity is the resolved subject of an admission check. Exactly one
// kind applies: user identities are preferred whenever a principal is
// available, address identities are the fallback.
type ClientIdentity struct {
	Kind IdentityKind

	// UserID, PrincipalType, and Role are set for IdentityUser.
	UserID        string
	PrincipalType string
	Role          string

	// Address is the resolved network address. It is set for both kinds:
	// user identities keep it so blocks and brute-force escalation stay
	// address-keyed.
	Address string
}

// Key returns the stable string the identity's counters are keyed by.
func (c ClientIdentity) Key() string {
	if c.Kind == IdentityUser {
		return "user:" + c.PrincipalType + ":" + c.UserID
	}
	return "ip:" + c.Address
}

// ResolveIdentity derives the client identity for one request. A principal
// with a non-empty ID wins over the address; with no principal and no
// address information at all, the identity degrades to the literal address
// "unknown" so the request still lands in some bucket instead of escaping
// accounting.
func ResolveIdentity(principal *Principal, address string) ClientIdentity {
	if address == "" {
		address = "unknown"
	}

	if principal != nil && principal.ID != "" {
		principalType := principal.Type
		if principalType == "" {
			principalType = "user"
		}
		return ClientIdentity{
			Kind:          IdentityUser,
			UserID:        principal.ID,
			PrincipalType: principalType,
			Role:          principal.Role,
			Address:       address,
		}
	}

	return ClientIdentity{Kind: IdentityIP, Address: address}
}
