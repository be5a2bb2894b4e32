package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
	"github.com/target/mmk-backoffice/internal/domain/model"
	apperrors "github.com/target/mmk-backoffice/internal/errors"
)

func TestOrganizationService_List(t *testing.T) {
	tests := []struct {
		name       string
		filter     OrganizationFilter
		wantOpts   model.ListOptions
		wantErr    bool
		wantCalled bool
	}{
		{
			name:       "defaults",
			filter:     OrganizationFilter{},
			wantOpts:   model.ListOptions{Limit: 20},
			wantCalled: true,
		},
		{
			name:       "search and status",
			filter:     OrganizationFilter{Page: 2, Search: "acme", Status: "Suspended"},
			wantOpts:   model.ListOptions{Page: 2, Limit: 20, Search: "acme", Status: "suspended"},
			wantCalled: true,
		},
		{
			name:    "unknown status",
			filter:  OrganizationFilter{Status: "archived"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeBackend{}
			var got model.ListOptions
			api.listOrgsFunc = func(opts model.ListOptions) (model.Page[model.Organization], error) {
				got = opts
				return model.Page[model.Organization]{}, nil
			}
			svc := NewOrganizationService(OrganizationServiceOptions{API: api})

			_, err := svc.List(context.Background(), tt.filter)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				assert.Empty(t, api.Calls())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOpts, got)
		})
	}
}

func TestOrganizationService_ChangeStatus(t *testing.T) {
	api := &fakeBackend{}
	var sent model.UpdateOrganizationStatusRequest
	api.updateOrgStatus = func(id string, req model.UpdateOrganizationStatusRequest) error {
		assert.Equal(t, "org-1", id)
		sent = req
		return nil
	}
	svc := NewOrganizationService(OrganizationServiceOptions{API: api})
	ctx := context.Background()

	changed, err := svc.ChangeStatus(ctx, ChangeStatusInput{ID: "org-1", Current: model.OrganizationStatusActive, Status: "active"})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, api.Calls())

	changed, err = svc.ChangeStatus(ctx, ChangeStatusInput{ID: "org-1", Current: model.OrganizationStatusActive, Status: "banned", Reason: " spam "})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.UpdateOrganizationStatusRequest{Status: model.OrganizationStatusBanned, Reason: "spam"}, sent)

	_, err = svc.ChangeStatus(ctx, ChangeStatusInput{ID: "org-1", Status: "gone"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestOrganizationService_Update_RequiresName(t *testing.T) {
	api := &fakeBackend{}
	svc := NewOrganizationService(OrganizationServiceOptions{API: api})

	err := svc.Update(context.Background(), "org-1", model.UpdateOrganizationRequest{Name: "  "})
	require.Error(t, err)
	assert.Equal(t, "name", apperrors.GetField(err))
	assert.Empty(t, api.Calls())

	var sent model.UpdateOrganizationRequest
	api.updateOrgFunc = func(_ string, req model.UpdateOrganizationRequest) error { sent = req; return nil }
	require.NoError(t, svc.Update(context.Background(), "org-1", model.UpdateOrganizationRequest{Name: " Acme ", Tagline: " Fast ", BookingEnabled: true}))
	assert.Equal(t, model.UpdateOrganizationRequest{Name: "Acme", Tagline: "Fast", BookingEnabled: true}, sent)
}

func TestUserService_List_UsesDefaultPageSize(t *testing.T) {
	api := &fakeBackend{}
	var got model.ListOptions
	api.listUsersFunc = func(opts model.ListOptions) (model.Page[model.User], error) {
		got = opts
		return model.Page[model.User]{}, nil
	}
	svc := NewUserService(UserServiceOptions{API: api})

	_, err := svc.List(context.Background(), 3, "bob")
	require.NoError(t, err)
	assert.Equal(t, model.ListOptions{Page: 3, Limit: 20, Search: "bob"}, got)
}

func TestUserService_Impersonate_ValidatesLink(t *testing.T) {
	tests := []struct {
		name      string
		appDomain string
		link      string
		wantErr   bool
	}{
		{"no link", "app.example.com", "", false},
		{"exact domain", "app.example.com", "https://app.example.com/impersonate?t=1", false},
		{"tenant subdomain", "app.example.com", "https://acme.app.example.com/x", false},
		{"http rejected", "app.example.com", "http://app.example.com/x", true},
		{"other domain", "app.example.com", "https://evil.com/x", true},
		{"lookalike suffix", "app.example.com", "https://evilapp.example.com/x", true},
		{"public suffix app domain", "github.io", "https://evil.github.io/x", true},
		{"no app domain requires https only", "", "https://anything.example.org/", false},
		{"no app domain http", "", "http://anything.example.org/", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeBackend{}
			api.impersonateFunc = func(string) (model.Impersonation, error) {
				return model.Impersonation{Token: "imp", URL: tt.link}, nil
			}
			svc := NewUserService(UserServiceOptions{API: api, AppDomain: tt.appDomain})

			imp, err := svc.Impersonate(context.Background(), "u1")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "imp", imp.Token)
		})
	}
}

func TestAdminService_Create(t *testing.T) {
	api := &fakeBackend{}
	var sent model.CreateAdminRequest
	api.createAdminFunc = func(req model.CreateAdminRequest) (domainauth.Principal, error) {
		sent = req
		return domainauth.Principal{ID: "a2", Role: req.Role}, nil
	}
	svc := NewAdminService(AdminServiceOptions{API: api})
	ctx := context.Background()

	_, err := svc.Create(ctx, model.CreateAdminRequest{Name: "New", Email: "new@example.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, api.Calls())

	created, err := svc.Create(ctx, model.CreateAdminRequest{Name: " New ", Email: "new@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleSupport, created.Role)
	assert.Equal(t, "New", sent.Name)
}

func TestAdminService_Update_RequiresNameAndEmail(t *testing.T) {
	api := &fakeBackend{}
	var sent model.UpdateAdminRequest
	api.updateAdminFunc = func(_ string, req model.UpdateAdminRequest) (domainauth.Principal, error) {
		sent = req
		return domainauth.Principal{}, nil
	}
	svc := NewAdminService(AdminServiceOptions{API: api})

	_, err := svc.Update(context.Background(), "a2", model.UpdateAdminRequest{Email: "x@example.com", Role: domainauth.RoleSupport})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Update(context.Background(), "a2", model.UpdateAdminRequest{Name: "X", Email: "x@example.com", Role: domainauth.RoleSuperAdmin})
	require.NoError(t, err)
	assert.Empty(t, sent.Password)
}

func TestAdminService_Delete_RefusesSelf(t *testing.T) {
	store := NewSessionStore(SessionStoreOptions{})
	require.NoError(t, store.SetSession(context.Background(), "tok", testPrincipal(domainauth.RoleSuperAdmin)))
	api := &fakeBackend{}
	svc := NewAdminService(AdminServiceOptions{API: api, Session: store})

	err := svc.Delete(context.Background(), "adm-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Empty(t, api.Calls())

	require.NoError(t, svc.Delete(context.Background(), "adm-2"))
	assert.Equal(t, []string{"DeleteAdmin"}, api.Calls())
}

func TestSettingsService_Update_PatchesLocalValue(t *testing.T) {
	api := &fakeBackend{}
	svc := NewSettingsService(api)
	current := []model.Setting{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}

	next, err := svc.Update(context.Background(), current, "b", "3")
	require.NoError(t, err)
	assert.Equal(t, "3", next[1].Value)
	assert.Equal(t, "2", current[1].Value, "input slice must not be modified")

	api.updateSettingFunc = func(string, string) error { return errors.New("read-only") }
	same, err := svc.Update(context.Background(), next, "a", "9")
	require.Error(t, err)
	assert.Equal(t, next, same)

	_, err = svc.Update(context.Background(), next, " ", "9")
	assert.True(t, apperrors.IsValidation(err))
}

func TestAuditLogService_PageSize(t *testing.T) {
	api := &fakeBackend{}
	var got model.ListOptions
	api.auditFunc = func(_ context.Context, opts model.ListOptions) (model.Page[model.AuditLogEntry], error) {
		got = opts
		return model.Page[model.AuditLogEntry]{Items: make([]model.AuditLogEntry, 8)}, nil
	}
	svc := NewAuditLogService(api)

	_, err := svc.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, model.ListOptions{Page: 2, Limit: 50}, got)

	recent, err := svc.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, recent, 5)
	assert.Equal(t, 5, got.Limit)
}

func TestDashboardService_Load(t *testing.T) {
	api := &fakeBackend{}
	api.statsFunc = func(context.Context) (model.DashboardStats, error) {
		var s model.DashboardStats
		s.Organizations.Total = 7
		return s, nil
	}
	api.auditFunc = func(context.Context, model.ListOptions) (model.Page[model.AuditLogEntry], error) {
		return model.Page[model.AuditLogEntry]{Items: []model.AuditLogEntry{{Action: "login"}}}, nil
	}
	svc := NewDashboardService(DashboardServiceOptions{Stats: api, AuditLog: NewAuditLogService(api)})

	d, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, d.Stats.Organizations.Total)
	assert.Len(t, d.Recent, 1)
	assert.False(t, d.RecentUnavailable)
}

func TestDashboardService_Load_RecentFailureIsSoft(t *testing.T) {
	api := &fakeBackend{}
	api.auditFunc = func(context.Context, model.ListOptions) (model.Page[model.AuditLogEntry], error) {
		return model.Page[model.AuditLogEntry]{}, errors.New("audit down")
	}
	svc := NewDashboardService(DashboardServiceOptions{Stats: api, AuditLog: NewAuditLogService(api)})

	d, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, d.RecentUnavailable)
}

func TestDashboardService_Load_StatsFailureFailsPage(t *testing.T) {
	boom := errors.New("stats down")
	api := &fakeBackend{}
	api.statsFunc = func(context.Context) (model.DashboardStats, error) { return model.DashboardStats{}, boom }
	svc := NewDashboardService(DashboardServiceOptions{Stats: api, AuditLog: NewAuditLogService(api)})

	_, err := svc.Load(context.Background())
	require.ErrorIs(t, err, boom)
}
