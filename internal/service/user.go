package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/target/mmk-backoffice/internal/core"
	"github.com/target/mmk-backoffice/internal/domain/model"
	apperrors "github.com/target/mmk-backoffice/internal/errors"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	API core.UserAPI
	// AppDomain is the tenant application's domain. Impersonation links must point at it.
	AppDomain string
}

// UserService implements the user list and detail pages.
type UserService struct {
	api       core.UserAPI
	appDomain string
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	return &UserService{
		api:       opts.API,
		appDomain: strings.ToLower(strings.TrimSuffix(strings.TrimSpace(opts.AppDomain), ".")),
	}
}

// List returns a page of users matching search.
func (s *UserService) List(ctx context.Context, page int, search string) (model.Page[model.User], error) {
	return s.api.ListUsers(ctx, model.ListOptions{Page: page, Limit: model.DefaultPageSize, Search: search})
}

// Get returns a user's detail.
func (s *UserService) Get(ctx context.Context, id string) (model.UserDetail, error) {
	if strings.TrimSpace(id) == "" {
		return model.UserDetail{}, apperrors.NotFound("user not found")
	}
	return s.api.GetUser(ctx, id)
}

// SetActive activates or deactivates a user.
func (s *UserService) SetActive(ctx context.Context, id string, active bool, reason string) error {
	req := model.UpdateUserStatusRequest{IsActive: active, Reason: strings.TrimSpace(reason)}
	if err := s.api.UpdateUserStatus(ctx, id, req); err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	return nil
}

// Impersonate requests an impersonation session. A returned link must be https and
// belong to the configured application domain.
func (s *UserService) Impersonate(ctx context.Context, id string) (model.Impersonation, error) {
	imp, err := s.api.ImpersonateUser(ctx, id)
	if err != nil {
		return model.Impersonation{}, fmt.Errorf("impersonate user: %w", err)
	}
	if imp.URL != "" {
		if checkErr := s.checkAppURL(imp.URL); checkErr != nil {
			return model.Impersonation{}, checkErr
		}
	}
	return imp, nil
}

func (s *UserService) checkAppURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "impersonation link is not a valid URL")
	}
	if u.Scheme != "https" {
		return apperrors.Validation("impersonation link must use https")
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return apperrors.Validation("impersonation link has no host")
	}
	if s.appDomain == "" {
		return nil
	}
	if host != s.appDomain && !strings.HasSuffix(host, "."+s.appDomain) {
		return apperrors.Validationf("impersonation link host %q is outside %s", host, s.appDomain)
	}
	hostSite, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "impersonation link host is not registrable")
	}
	appSite, err := publicsuffix.EffectiveTLDPlusOne(s.appDomain)
	if err != nil || hostSite != appSite {
		return apperrors.Validationf("impersonation link host %q is outside %s", host, s.appDomain)
	}
	return nil
}
