package auth

// Package auth contains domain-level types for the back-office session.
// It is pure and free of framework/adapter concerns.

import "github.com/target/mmk-backoffice/internal/util"

// Role represents an admin's authorization role as issued by the backend.
// Keep string form for easy persistence.
type Role string

const (
	// RoleSuperAdmin is the elevated role (manages admins and settings).
	RoleSuperAdmin Role = "super_admin"
	// RoleSupport is the standard role.
	RoleSupport Role = "support"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleSupport
}

// IsElevated reports whether r grants elevated permissions.
func (r Role) IsElevated() bool { return r == RoleSuperAdmin }

// Label returns the display label for the role.
func (r Role) Label() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Admin"
	case RoleSupport:
		return "Support"
	default:
		return string(r)
	}
}

// Principal is the authenticated admin record returned by the backend.
// Role is never changed client-side.
type Principal struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Role      Role           `json:"role"`
	CreatedAt util.Timestamp `json:"created_at"`
	UpdatedAt util.Timestamp `json:"updated_at"`
}

// IsElevated reports whether the principal holds the elevated role.
func (p Principal) IsElevated() bool { return p.Role.IsElevated() }

// Credential is the opaque bearer token proving an authenticated session.
type Credential string

// IsZero reports whether the credential is empty.
func (c Credential) IsZero() bool { return c == "" }

// String returns the raw token.
func (c Credential) String() string { return string(c) }

// State is an immutable snapshot of the session pair.
// Credential is non-empty if and only if Principal is non-nil.
type State struct {
	Credential Credential
	Principal  *Principal
}

// IsAuthenticated reports whether a credential is present.
func (s State) IsAuthenticated() bool { return !s.Credential.IsZero() }

// IsElevated reports whether the principal is present and elevated.
func (s State) IsElevated() bool { return s.Principal != nil && s.Principal.IsElevated() }
