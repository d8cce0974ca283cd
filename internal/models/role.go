package models

import "fmt"

// Role is the closed set of roles a session can carry.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	// RoleSuperadmin is never stored. It only appears in tokens issued for the
	// configured superadmin credentials.
	RoleSuperadmin Role = "superadmin"
)

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleSuperadmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
}

// Persistable reports whether the role may be written to a user record.
func (r Role) Persistable() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	case RoleSuperadmin:
		return false
	default:
		return false
	}
}

// Elevated reports whether the role skips the OTP step at login.
func (r Role) Elevated() bool {
	switch r {
	case RoleAdmin, RoleSuperadmin:
		return true
	case RoleUser:
		return false
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
