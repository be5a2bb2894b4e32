package core

import (
	"context"

	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
	"github.com/target/mmk-backoffice/internal/domain/model"
)

// This file contains the backend API interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and the REST client.
// Service implementations should depend on these interfaces, not on backendapi.Client.

// AuthAPI authenticates operators.
type AuthAPI interface {
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResult, error)
	Me(ctx context.Context) (domainauth.Principal, error)
}

// DashboardAPI reads platform-wide counters.
type DashboardAPI interface {
	DashboardStats(ctx context.Context) (model.DashboardStats, error)
}

// OrganizationAPI manages tenant organizations.
type OrganizationAPI interface {
	ListOrganizations(ctx context.Context, opts model.ListOptions) (model.Page[model.Organization], error)
	GetOrganization(ctx context.Context, id string) (model.OrganizationDetail, error)
	UpdateOrganizationStatus(ctx context.Context, id string, req model.UpdateOrganizationStatusRequest) error
	UpdateOrganization(ctx context.Context, id string, req model.UpdateOrganizationRequest) error
	DeleteOrganization(ctx context.Context, id string) error
}

// UserAPI manages end users.
type UserAPI interface {
	ListUsers(ctx context.Context, opts model.ListOptions) (model.Page[model.User], error)
	GetUser(ctx context.Context, id string) (model.UserDetail, error)
	UpdateUserStatus(ctx context.Context, id string, req model.UpdateUserStatusRequest) error
	ImpersonateUser(ctx context.Context, id string) (model.Impersonation, error)
}

// AdminAPI manages back-office admins. Elevated role only.
type AdminAPI interface {
	ListAdmins(ctx context.Context) ([]domainauth.Principal, error)
	CreateAdmin(ctx context.Context, req model.CreateAdminRequest) (domainauth.Principal, error)
	UpdateAdmin(ctx context.Context, id string, req model.UpdateAdminRequest) (domainauth.Principal, error)
	DeleteAdmin(ctx context.Context, id string) error
}

// SettingsAPI manages system settings. Elevated role only.
type SettingsAPI interface {
	ListSettings(ctx context.Context) ([]model.Setting, error)
	UpdateSetting(ctx context.Context, key, value string) error
}

// AuditLogAPI reads the audit trail.
type AuditLogAPI interface {
	ListAuditLog(ctx context.Context, opts model.ListOptions) (model.Page[model.AuditLogEntry], error)
}

// BackendAPI is the full backend surface.
type BackendAPI interface {
	AuthAPI
	DashboardAPI
	OrganizationAPI
	UserAPI
	AdminAPI
	SettingsAPI
	AuditLogAPI
}
