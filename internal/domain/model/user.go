//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"

	"github.com/target/mmk-backoffice/internal/util"
)

// User is an end user of the platform (not a back-office admin).
type User struct {
	ID         string         `json:"id"`
	Email      string         `json:"email"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	Phone      string         `json:"phone,omitempty"`
	IsVerified int            `json:"isVerified"`
	IsActive   *bool          `json:"isActive,omitempty"`
	CreatedAt  util.Timestamp `json:"createdAt"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Verified reports whether the user's email is verified.
func (u User) Verified() bool { return u.IsVerified != 0 }

// Active reports whether the user account is active. Unknown is treated as active.
func (u User) Active() bool { return u.IsActive == nil || *u.IsActive }

// UserMembership is an organization the user belongs to.
type UserMembership struct {
	ID               string         `json:"id"`
	OrganizationID   string         `json:"organizationId"`
	OrganizationName string         `json:"organizationName"`
	OrganizationSlug string         `json:"organizationSlug"`
	Role             MemberRole     `json:"role"`
	IsActive         int            `json:"isActive"`
	CreatedAt        util.Timestamp `json:"createdAt"`
}

// UserDetail is a user plus memberships.
type UserDetail struct {
	User
	Memberships []UserMembership `json:"memberships"`
}

// UpdateUserStatusRequest activates or deactivates a user.
type UpdateUserStatusRequest struct {
	IsActive bool   `json:"isActive"`
	Reason   string `json:"reason,omitempty"`
}

// Impersonation is a short-lived session issued for acting as a user.
type Impersonation struct {
	Token     string         `json:"token"`
	URL       string         `json:"url,omitempty"`
	ExpiresAt util.Timestamp `json:"expiresAt"`
}
