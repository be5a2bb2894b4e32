package service

import (
	"context"
	"fmt"

	"github.com/target/mmk-backoffice/internal/core"
	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
	"github.com/target/mmk-backoffice/internal/domain/model"
	apperrors "github.com/target/mmk-backoffice/internal/errors"
)

// PrincipalSource exposes the signed-in principal.
type PrincipalSource interface {
	Principal() *domainauth.Principal
}

// AdminServiceOptions groups dependencies for AdminService.
type AdminServiceOptions struct {
	API     core.AdminAPI
	Session PrincipalSource
}

// AdminService implements the admin management page.
type AdminService struct {
	api     core.AdminAPI
	session PrincipalSource
}

// NewAdminService constructs a new AdminService.
func NewAdminService(opts AdminServiceOptions) *AdminService {
	return &AdminService{api: opts.API, session: opts.Session}
}

// List returns every admin.
func (s *AdminService) List(ctx context.Context) ([]domainauth.Principal, error) {
	return s.api.ListAdmins(ctx)
}

// Create creates an admin. Name, email and password are required.
func (s *AdminService) Create(ctx context.Context, req model.CreateAdminRequest) (domainauth.Principal, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return domainauth.Principal{}, apperrors.Validation(err.Error())
	}
	admin, err := s.api.CreateAdmin(ctx, req)
	if err != nil {
		return domainauth.Principal{}, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

// Update edits an admin. The password is only changed when a new one is given.
func (s *AdminService) Update(ctx context.Context, id string, req model.UpdateAdminRequest) (domainauth.Principal, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return domainauth.Principal{}, apperrors.Validation(err.Error())
	}
	admin, err := s.api.UpdateAdmin(ctx, id, req)
	if err != nil {
		return domainauth.Principal{}, fmt.Errorf("update admin: %w", err)
	}
	return admin, nil
}

// Delete removes an admin. Operators cannot delete their own account.
func (s *AdminService) Delete(ctx context.Context, id string) error {
	if s.session != nil {
		if me := s.session.Principal(); me != nil && me.ID == id {
			return apperrors.Forbidden("you cannot delete your own account")
		}
	}
	if err := s.api.DeleteAdmin(ctx, id); err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	return nil
}
