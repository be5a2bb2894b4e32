package service

import (
	"context"
	"sync"

	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
	"github.com/target/mmk-backoffice/internal/domain/model"
)

// fakeBackend implements core.BackendAPI with overridable funcs and records calls.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	loginFunc         func(model.LoginRequest) (model.LoginResult, error)
	meFunc            func() (domainauth.Principal, error)
	statsFunc         func(context.Context) (model.DashboardStats, error)
	listOrgsFunc      func(model.ListOptions) (model.Page[model.Organization], error)
	getOrgFunc        func(string) (model.OrganizationDetail, error)
	updateOrgStatus   func(string, model.UpdateOrganizationStatusRequest) error
	updateOrgFunc     func(string, model.UpdateOrganizationRequest) error
	listUsersFunc     func(model.ListOptions) (model.Page[model.User], error)
	impersonateFunc   func(string) (model.Impersonation, error)
	createAdminFunc   func(model.CreateAdminRequest) (domainauth.Principal, error)
	updateAdminFunc   func(string, model.UpdateAdminRequest) (domainauth.Principal, error)
	updateSettingFunc func(string, string) error
	auditFunc         func(context.Context, model.ListOptions) (model.Page[model.AuditLogEntry], error)
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) Login(_ context.Context, req model.LoginRequest) (model.LoginResult, error) {
	f.record("Login")
	if f.loginFunc != nil {
		return f.loginFunc(req)
	}
	return model.LoginResult{}, nil
}

func (f *fakeBackend) Me(context.Context) (domainauth.Principal, error) {
	f.record("Me")
	if f.meFunc != nil {
		return f.meFunc()
	}
	return domainauth.Principal{}, nil
}

func (f *fakeBackend) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	f.record("DashboardStats")
	if f.statsFunc != nil {
		return f.statsFunc(ctx)
	}
	return model.DashboardStats{}, nil
}

func (f *fakeBackend) ListOrganizations(_ context.Context, opts model.ListOptions) (model.Page[model.Organization], error) {
	f.record("ListOrganizations")
	if f.listOrgsFunc != nil {
		return f.listOrgsFunc(opts)
	}
	return model.Page[model.Organization]{}, nil
}

func (f *fakeBackend) GetOrganization(_ context.Context, id string) (model.OrganizationDetail, error) {
	f.record("GetOrganization")
	if f.getOrgFunc != nil {
		return f.getOrgFunc(id)
	}
	return model.OrganizationDetail{}, nil
}

func (f *fakeBackend) UpdateOrganizationStatus(_ context.Context, id string, req model.UpdateOrganizationStatusRequest) error {
	f.record("UpdateOrganizationStatus")
	if f.updateOrgStatus != nil {
		return f.updateOrgStatus(id, req)
	}
	return nil
}

func (f *fakeBackend) UpdateOrganization(_ context.Context, id string, req model.UpdateOrganizationRequest) error {
	f.record("UpdateOrganization")
	if f.updateOrgFunc != nil {
		return f.updateOrgFunc(id, req)
	}
	return nil
}

func (f *fakeBackend) DeleteOrganization(context.Context, string) error {
	f.record("DeleteOrganization")
	return nil
}

func (f *fakeBackend) ListUsers(_ context.Context, opts model.ListOptions) (model.Page[model.User], error) {
	f.record("ListUsers")
	if f.listUsersFunc != nil {
		return f.listUsersFunc(opts)
	}
	return model.Page[model.User]{}, nil
}

func (f *fakeBackend) GetUser(context.Context, string) (model.UserDetail, error) {
	f.record("GetUser")
	return model.UserDetail{}, nil
}

func (f *fakeBackend) UpdateUserStatus(context.Context, string, model.UpdateUserStatusRequest) error {
	f.record("UpdateUserStatus")
	return nil
}

func (f *fakeBackend) ImpersonateUser(_ context.Context, id string) (model.Impersonation, error) {
	f.record("ImpersonateUser")
	if f.impersonateFunc != nil {
		return f.impersonateFunc(id)
	}
	return model.Impersonation{}, nil
}

func (f *fakeBackend) ListAdmins(context.Context) ([]domainauth.Principal, error) {
	f.record("ListAdmins")
	return nil, nil
}

func (f *fakeBackend) CreateAdmin(_ context.Context, req model.CreateAdminRequest) (domainauth.Principal, error) {
	f.record("CreateAdmin")
	if f.createAdminFunc != nil {
		return f.createAdminFunc(req)
	}
	return domainauth.Principal{}, nil
}

func (f *fakeBackend) UpdateAdmin(_ context.Context, id string, req model.UpdateAdminRequest) (domainauth.Principal, error) {
	f.record("UpdateAdmin")
	if f.updateAdminFunc != nil {
		return f.updateAdminFunc(id, req)
	}
	return domainauth.Principal{}, nil
}

func (f *fakeBackend) DeleteAdmin(context.Context, string) error {
	f.record("DeleteAdmin")
	return nil
}

func (f *fakeBackend) ListSettings(context.Context) ([]model.Setting, error) {
	f.record("ListSettings")
	return nil, nil
}

func (f *fakeBackend) UpdateSetting(_ context.Context, key, value string) error {
	f.record("UpdateSetting")
	if f.updateSettingFunc != nil {
		return f.updateSettingFunc(key, value)
	}
	return nil
}

func (f *fakeBackend) ListAuditLog(ctx context.Context, opts model.ListOptions) (model.Page[model.AuditLogEntry], error) {
	f.record("ListAuditLog")
	if f.auditFunc != nil {
		return f.auditFunc(ctx, opts)
	}
	return model.Page[model.AuditLogEntry]{}, nil
}
