//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"

	"github.com/target/mmk-backoffice/internal/util"
)

// OrganizationStatus is the lifecycle status of a tenant organization.
type OrganizationStatus string

const (
	OrganizationStatusActive    OrganizationStatus = "active"
	OrganizationStatusSuspended OrganizationStatus = "suspended"
	OrganizationStatusBanned    OrganizationStatus = "banned"
)

// OrganizationStatuses lists the statuses in display order.
var OrganizationStatuses = []OrganizationStatus{
	OrganizationStatusActive,
	OrganizationStatusSuspended,
	OrganizationStatusBanned,
}

// Valid reports whether the status is supported.
func (s OrganizationStatus) Valid() bool {
	switch s {
	case OrganizationStatusActive, OrganizationStatusSuspended, OrganizationStatusBanned:
		return true
	default:
		return false
	}
}

// Label returns the display label for the status.
func (s OrganizationStatus) Label() string {
	switch s {
	case OrganizationStatusActive:
		return "Active"
	case OrganizationStatusSuspended:
		return "Suspended"
	case OrganizationStatusBanned:
		return "Banned"
	default:
		return string(s)
	}
}

// ParseOrganizationStatus normalizes a status string and reports whether it is supported.
func ParseOrganizationStatus(value string) (OrganizationStatus, bool) {
	status := OrganizationStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// Organization is a tenant of the platform.
type Organization struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Slug              string             `json:"slug"`
	Description       string             `json:"description,omitempty"`
	Tagline           string             `json:"tagline,omitempty"`
	BookingEnabled    *bool              `json:"bookingEnabled,omitempty"`
	Status            OrganizationStatus `json:"status"`
	CreatedAt         util.Timestamp     `json:"created_at"`
	UpdatedAt         util.Timestamp     `json:"updated_at"`
	Owner             *User              `json:"owner,omitempty"`
	MembersCount      int                `json:"members_count,omitempty"`
	ServicesCount     int                `json:"services_count,omitempty"`
	AppointmentsCount int                `json:"appointments_count,omitempty"`
}

// MemberRole is a user's role within an organization.
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleWorker MemberRole = "worker"
)

// Label returns the display label for the member role.
func (r MemberRole) Label() string {
	switch r {
	case MemberRoleOwner:
		return "Owner"
	case MemberRoleAdmin:
		return "Administrator"
	case MemberRoleWorker:
		return "Worker"
	default:
		return string(r)
	}
}

// OrganizationMember is a user attached to an organization.
type OrganizationMember struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Role      MemberRole     `json:"role"`
	IsActive  int            `json:"isActive"`
	CreatedAt util.Timestamp `json:"createdAt"`
}

// Active reports whether the membership is active.
func (m OrganizationMember) Active() bool { return m.IsActive != 0 }

// StatusHistoryEntry records a past organization status change.
type StatusHistoryEntry struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	Reason    string         `json:"reason,omitempty"`
	ChangedBy string         `json:"changed_by"`
	CreatedAt util.Timestamp `json:"created_at"`
}

// OrganizationStats aggregates activity for a single organization.
type OrganizationStats struct {
	MemberCount           int `json:"memberCount"`
	ServiceCount          int `json:"serviceCount"`
	CustomerCount         int `json:"customerCount"`
	TotalAppointments     int `json:"totalAppointments"`
	CompletedAppointments int `json:"completedAppointments"`
}

// OrganizationDetail is the organization plus its members, history and stats.
type OrganizationDetail struct {
	Organization
	Members       []OrganizationMember `json:"members"`
	StatusHistory []StatusHistoryEntry `json:"statusHistory"`
	Stats         OrganizationStats    `json:"stats"`
}

// UpdateOrganizationStatusRequest changes an organization's status.
type UpdateOrganizationStatusRequest struct {
	Status OrganizationStatus `json:"status"`
	Reason string             `json:"reason,omitempty"`
}

// UpdateOrganizationRequest edits an organization's profile.
type UpdateOrganizationRequest struct {
	Name           string `json:"name"`
	Tagline        string `json:"tagline"`
	BookingEnabled bool   `json:"bookingEnabled"`
}
