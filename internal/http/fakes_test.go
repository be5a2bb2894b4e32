package httpx

import (
	"context"
	"errors"

	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
	"github.com/target/mmk-backoffice/internal/domain/model"
	"github.com/target/mmk-backoffice/internal/service"
)

var errNotStubbed = errors.New("not stubbed")

type fakeSession struct {
	authenticated bool
	elevated      bool
	interactive   bool
	principal     *domainauth.Principal
}

func (s *fakeSession) IsAuthenticated() bool            { return s.authenticated }
func (s *fakeSession) IsElevated() bool                 { return s.elevated }
func (s *fakeSession) Interactive() bool                { return s.interactive }
func (s *fakeSession) Principal() *domainauth.Principal { return s.principal }

func guestSession() *fakeSession { return &fakeSession{interactive: true} }

func supportSession() *fakeSession {
	return &fakeSession{
		authenticated: true,
		interactive:   true,
		principal:     &domainauth.Principal{ID: "adm-2", Name: "Sam Support", Email: "sam@example.com", Role: domainauth.RoleSupport},
	}
}

func superAdminSession() *fakeSession {
	return &fakeSession{
		authenticated: true,
		elevated:      true,
		interactive:   true,
		principal:     &domainauth.Principal{ID: "adm-1", Name: "Ana Admin", Email: "ana@example.com", Role: domainauth.RoleSuperAdmin},
	}
}

type fakeAuth struct {
	login  func(ctx context.Context, email, password string) (*domainauth.Principal, error)
	logout func(ctx context.Context) error
	calls  int
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*domainauth.Principal, error) {
	f.calls++
	if f.login == nil {
		return nil, errNotStubbed
	}
	return f.login(ctx, email, password)
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	if f.logout == nil {
		return nil
	}
	return f.logout(ctx)
}

type fakeDashboard struct {
	load func(ctx context.Context) (service.Dashboard, error)
}

func (f *fakeDashboard) Load(ctx context.Context) (service.Dashboard, error) {
	if f.load == nil {
		return service.Dashboard{}, errNotStubbed
	}
	return f.load(ctx)
}

type fakeOrgs struct {
	list         func(ctx context.Context, f service.OrganizationFilter) (model.Page[model.Organization], error)
	get          func(ctx context.Context, id string) (model.OrganizationDetail, error)
	changeStatus func(ctx context.Context, in service.ChangeStatusInput) (bool, error)
	update       func(ctx context.Context, id string, req model.UpdateOrganizationRequest) error
	del          func(ctx context.Context, id string) error
}

func (f *fakeOrgs) List(ctx context.Context, filter service.OrganizationFilter) (model.Page[model.Organization], error) {
	if f.list == nil {
		return model.Page[model.Organization]{}, errNotStubbed
	}
	return f.list(ctx, filter)
}

func (f *fakeOrgs) Get(ctx context.Context, id string) (model.OrganizationDetail, error) {
	if f.get == nil {
		return model.OrganizationDetail{}, errNotStubbed
	}
	return f.get(ctx, id)
}

func (f *fakeOrgs) ChangeStatus(ctx context.Context, in service.ChangeStatusInput) (bool, error) {
	if f.changeStatus == nil {
		return false, errNotStubbed
	}
	return f.changeStatus(ctx, in)
}

func (f *fakeOrgs) Update(ctx context.Context, id string, req model.UpdateOrganizationRequest) error {
	if f.update == nil {
		return errNotStubbed
	}
	return f.update(ctx, id, req)
}

func (f *fakeOrgs) Delete(ctx context.Context, id string) error {
	if f.del == nil {
		return errNotStubbed
	}
	return f.del(ctx, id)
}

type fakeUsers struct {
	list        func(ctx context.Context, page int, search string) (model.Page[model.User], error)
	get         func(ctx context.Context, id string) (model.UserDetail, error)
	setActive   func(ctx context.Context, id string, active bool, reason string) error
	impersonate func(ctx context.Context, id string) (model.Impersonation, error)
}

func (f *fakeUsers) List(ctx context.Context, page int, search string) (model.Page[model.User], error) {
	if f.list == nil {
		return model.Page[model.User]{}, errNotStubbed
	}
	return f.list(ctx, page, search)
}

func (f *fakeUsers) Get(ctx context.Context, id string) (model.UserDetail, error) {
	if f.get == nil {
		return model.UserDetail{}, errNotStubbed
	}
	return f.get(ctx, id)
}

func (f *fakeUsers) SetActive(ctx context.Context, id string, active bool, reason string) error {
	if f.setActive == nil {
		return errNotStubbed
	}
	return f.setActive(ctx, id, active, reason)
}

func (f *fakeUsers) Impersonate(ctx context.Context, id string) (model.Impersonation, error) {
	if f.impersonate == nil {
		return model.Impersonation{}, errNotStubbed
	}
	return f.impersonate(ctx, id)
}

type fakeAdmins struct {
	list   func(ctx context.Context) ([]domainauth.Principal, error)
	create func(ctx context.Context, req model.CreateAdminRequest) (domainauth.Principal, error)
	update func(ctx context.Context, id string, req model.UpdateAdminRequest) (domainauth.Principal, error)
	del    func(ctx context.Context, id string) error
	writes int
}

func (f *fakeAdmins) List(ctx context.Context) ([]domainauth.Principal, error) {
	if f.list == nil {
		return nil, nil
	}
	return f.list(ctx)
}

func (f *fakeAdmins) Create(ctx context.Context, req model.CreateAdminRequest) (domainauth.Principal, error) {
	f.writes++
	if f.create == nil {
		return domainauth.Principal{}, errNotStubbed
	}
	return f.create(ctx, req)
}

func (f *fakeAdmins) Update(ctx context.Context, id string, req model.UpdateAdminRequest) (domainauth.Principal, error) {
	f.writes++
	if f.update == nil {
		return domainauth.Principal{}, errNotStubbed
	}
	return f.update(ctx, id, req)
}

func (f *fakeAdmins) Delete(ctx context.Context, id string) error {
	f.writes++
	if f.del == nil {
		return errNotStubbed
	}
	return f.del(ctx, id)
}

type fakeSettings struct {
	settings []model.Setting
	updated  map[string]string
	fail     error
}

func (f *fakeSettings) List(context.Context) ([]model.Setting, error) {
	return f.settings, nil
}

func (f *fakeSettings) Update(_ context.Context, current []model.Setting, key, value string) ([]model.Setting, error) {
	if f.fail != nil {
		return current, f.fail
	}
	if f.updated == nil {
		f.updated = map[string]string{}
	}
	f.updated[key] = value
	out := make([]model.Setting, len(current))
	copy(out, current)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
		}
	}
	return out, nil
}

type fakeAuditLog struct {
	entries []model.AuditLogEntry
	page    int
}

func (f *fakeAuditLog) List(_ context.Context, page int) (model.Page[model.AuditLogEntry], error) {
	f.page = page
	return model.Page[model.AuditLogEntry]{
		Items:      f.entries,
		Pagination: model.Pagination{Page: page, Limit: model.AuditLogPageSize, Total: len(f.entries), TotalPages: 1},
	}, nil
}
