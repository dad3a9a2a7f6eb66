// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"

	"guialocal/internal/moderation"
	"guialocal/internal/plans"
)

// Role represents a user's permission level in the platform.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// User is a platform account: an administrator or a business owner
// (client) who manages their own listings.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never serialize the hash
	DisplayName  string     `json:"display_name"`
	Role         Role       `json:"role"`
	PlanTier     plans.Tier `json:"plan_tier"`
	TOTPSecret   *string    `json:"-"` // nil until 2FA setup starts
	TOTPEnabled  bool       `json:"totp_enabled"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Needs2FA reports whether the account must pass a TOTP check after the
// password. Only admins do.
func (u *User) Needs2FA() bool {
	return u.Role == RoleAdmin
}

// Plan returns the presentation variant and limits of the user's tier.
func (u *User) Plan() plans.Variant {
	return plans.For(u.PlanTier)
}

// ModerationRole maps a platform role onto the actor kinds known to the
// moderation rules. Unknown roles map to an actor with no permissions.
func (r Role) ModerationRole() moderation.Role {
	switch r {
	case RoleAdmin:
		return moderation.RoleAdmin
	case RoleClient:
		return moderation.RoleClient
	}
	return moderation.Role(r)
}
