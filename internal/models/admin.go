package models

import (
	"time"
)

// Stored admin roles. The credential store keeps the two-valued role even
// though no route currently grants super-admin extra privilege.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
)

// SessionRole is the role space embedded in token claims and exposed on the
// API surface. It is deliberately distinct from the stored role.
type SessionRole string

const (
	SessionRoleAdmin SessionRole = "admin"
	SessionRoleUser  SessionRole = "user"
)

// SessionRoleFor maps a stored role onto the session role space. Both stored
// admin roles narrow to the "admin" session role; anything else is "user".
func SessionRoleFor(storedRole string) SessionRole {
	switch storedRole {
	case RoleAdmin, RoleSuperAdmin:
		return SessionRoleAdmin
	default:
		return SessionRoleUser
	}
}

// Admin is the sole identity record. PasswordHash is never serialized to API
// responses. RefreshTokens holds the raw refresh-token strings of every
// currently valid session; membership is checked on refresh for replay
// defense.
type Admin struct {
	ID            string
	Email         string
	PasswordHash  string
	Name          string
	Role          string // "admin" or "super-admin"
	IsActive      bool
	LastLoginAt   *time.Time
	RefreshTokens []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
