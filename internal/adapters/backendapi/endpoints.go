package backendapi

import (
	"context"
	"net/http"

	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
	"github.com/target/mmk-backoffice/internal/domain/model"
)

type adminData struct {
	Admin domainauth.Principal `json:"admin"`
}

// Login exchanges email and password for a credential. It does not change the session.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.LoginResult, error) {
	res, _, err := do[model.LoginResult](ctx, c, call{
		endpoint: "auth.login",
		method:   http.MethodPost,
		segments: []string{"login"},
		body:     req,
	})
	return res, err
}

// Me returns the principal the current credential belongs to.
func (c *Client) Me(ctx context.Context) (domainauth.Principal, error) {
	res, _, err := do[adminData](ctx, c, call{
		endpoint: "auth.me",
		method:   http.MethodGet,
		segments: []string{"me"},
	})
	return res.Admin, err
}

// DashboardStats returns platform-wide counters.
func (c *Client) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	res, _, err := do[model.DashboardStats](ctx, c, call{
		endpoint: "dashboard.stats",
		method:   http.MethodGet,
		segments: []string{"dashboard", "stats"},
	})
	return res, err
}

// ListOrganizations returns a page of organizations.
func (c *Client) ListOrganizations(ctx context.Context, opts model.ListOptions) (model.Page[model.Organization], error) {
	return listPage[model.Organization](ctx, c, "organizations.list", opts, "organizations")
}

// GetOrganization returns one organization with members, status history and stats.
func (c *Client) GetOrganization(ctx context.Context, id string) (model.OrganizationDetail, error) {
	res, _, err := do[model.OrganizationDetail](ctx, c, call{
		endpoint: "organizations.get",
		method:   http.MethodGet,
		segments: []string{"organizations", id},
	})
	return res, err
}

// UpdateOrganizationStatus changes an organization's status.
func (c *Client) UpdateOrganizationStatus(ctx context.Context, id string, req model.UpdateOrganizationStatusRequest) error {
	return c.exec(ctx, call{
		endpoint: "organizations.update_status",
		method:   http.MethodPut,
		segments: []string{"organizations", id, "status"},
		body:     req,
	})
}

// UpdateOrganization edits an organization's profile.
func (c *Client) UpdateOrganization(ctx context.Context, id string, req model.UpdateOrganizationRequest) error {
	return c.exec(ctx, call{
		endpoint: "organizations.update",
		method:   http.MethodPut,
		segments: []string{"organizations", id},
		body:     req,
	})
}

// DeleteOrganization removes an organization.
func (c *Client) DeleteOrganization(ctx context.Context, id string) error {
	return c.exec(ctx, call{
		endpoint: "organizations.delete",
		method:   http.MethodDelete,
		segments: []string{"organizations", id},
	})
}

// ListUsers returns a page of end users.
func (c *Client) ListUsers(ctx context.Context, opts model.ListOptions) (model.Page[model.User], error) {
	opts.Status = ""
	return listPage[model.User](ctx, c, "users.list", opts, "users")
}

// GetUser returns one user with memberships.
func (c *Client) GetUser(ctx context.Context, id string) (model.UserDetail, error) {
	res, _, err := do[model.UserDetail](ctx, c, call{
		endpoint: "users.get",
		method:   http.MethodGet,
		segments: []string{"users", id},
	})
	return res, err
}

// UpdateUserStatus activates or deactivates a user.
func (c *Client) UpdateUserStatus(ctx context.Context, id string, req model.UpdateUserStatusRequest) error {
	return c.exec(ctx, call{
		endpoint: "users.update_status",
		method:   http.MethodPut,
		segments: []string{"users", id, "status"},
		body:     req,
	})
}

// ImpersonateUser issues a short-lived session for acting as the user.
func (c *Client) ImpersonateUser(ctx context.Context, id string) (model.Impersonation, error) {
	res, _, err := do[model.Impersonation](ctx, c, call{
		endpoint: "users.impersonate",
		method:   http.MethodPost,
		segments: []string{"users", id, "impersonate"},
	})
	return res, err
}

// ListAdmins returns every back-office admin.
func (c *Client) ListAdmins(ctx context.Context) ([]domainauth.Principal, error) {
	res, _, err := do[[]domainauth.Principal](ctx, c, call{
		endpoint: "admins.list",
		method:   http.MethodGet,
		segments: []string{"admins"},
	})
	return res, err
}

// CreateAdmin creates a back-office admin.
func (c *Client) CreateAdmin(ctx context.Context, req model.CreateAdminRequest) (domainauth.Principal, error) {
	res, _, err := do[adminData](ctx, c, call{
		endpoint: "admins.create",
		method:   http.MethodPost,
		segments: []string{"admins"},
		body:     req,
	})
	return res.Admin, err
}

// UpdateAdmin edits a back-office admin. An empty password is not sent.
func (c *Client) UpdateAdmin(ctx context.Context, id string, req model.UpdateAdminRequest) (domainauth.Principal, error) {
	res, _, err := do[adminData](ctx, c, call{
		endpoint: "admins.update",
		method:   http.MethodPut,
		segments: []string{"admins", id},
		body:     req,
	})
	return res.Admin, err
}

// DeleteAdmin removes a back-office admin.
func (c *Client) DeleteAdmin(ctx context.Context, id string) error {
	return c.exec(ctx, call{
		endpoint: "admins.delete",
		method:   http.MethodDelete,
		segments: []string{"admins", id},
	})
}

// ListSettings returns system settings sorted by key.
func (c *Client) ListSettings(ctx context.Context) ([]model.Setting, error) {
	res, _, err := do[map[string]model.SettingValue](ctx, c, call{
		endpoint: "settings.list",
		method:   http.MethodGet,
		segments: []string{"settings"},
	})
	if err != nil {
		return nil, err
	}
	return model.SettingsFromMap(res), nil
}

// UpdateSetting sets the value of one setting.
func (c *Client) UpdateSetting(ctx context.Context, key, value string) error {
	return c.exec(ctx, call{
		endpoint: "settings.update",
		method:   http.MethodPut,
		segments: []string{"settings", key},
		body:     map[string]string{"value": value},
	})
}

// ListAuditLog returns a page of audit log entries.
func (c *Client) ListAuditLog(ctx context.Context, opts model.ListOptions) (model.Page[model.AuditLogEntry], error) {
	opts.Search = ""
	opts.Status = ""
	return listPage[model.AuditLogEntry](ctx, c, "audit_log.list", opts, "audit-log")
}

func listPage[T any](ctx context.Context, c *Client, endpoint string, opts model.ListOptions, segments ...string) (model.Page[T], error) {
	opts = opts.Normalize()
	items, meta, err := do[[]T](ctx, c, call{
		endpoint: endpoint,
		method:   http.MethodGet,
		segments: segments,
		query:    opts.Values(),
	})
	if err != nil {
		return model.Page[T]{}, err
	}
	if items == nil {
		items = []T{}
	}
	page := model.Page[T]{Items: items}
	if meta != nil && meta.Pagination != nil {
		page.Pagination = *meta.Pagination
	} else {
		page.Pagination = model.Pagination{Page: opts.Page, Limit: opts.Limit, Total: len(items), TotalPages: 1}
	}
	return page, nil
}
