package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/target/mmk-backoffice/internal/core"
	"github.com/target/mmk-backoffice/internal/domain/model"
	apperrors "github.com/target/mmk-backoffice/internal/errors"
)

// OrganizationServiceOptions groups dependencies for OrganizationService.
type OrganizationServiceOptions struct {
	API core.OrganizationAPI
}

// OrganizationService implements the organization list and detail pages.
type OrganizationService struct {
	api core.OrganizationAPI
}

// NewOrganizationService constructs a new OrganizationService.
func NewOrganizationService(opts OrganizationServiceOptions) *OrganizationService {
	return &OrganizationService{api: opts.API}
}

// OrganizationFilter is the list page's query state.
type OrganizationFilter struct {
	Page   int
	Search string
	Status string
}

// List returns a page of organizations. An unknown status filter is a validation error.
func (s *OrganizationService) List(ctx context.Context, f OrganizationFilter) (model.Page[model.Organization], error) {
	opts := model.ListOptions{Page: f.Page, Limit: model.DefaultPageSize, Search: f.Search}
	if strings.TrimSpace(f.Status) != "" {
		status, ok := model.ParseOrganizationStatus(f.Status)
		if !ok {
			return model.Page[model.Organization]{}, apperrors.ValidationField("status", "unknown organization status")
		}
		opts.Status = string(status)
	}
	return s.api.ListOrganizations(ctx, opts)
}

// Get returns an organization's detail.
func (s *OrganizationService) Get(ctx context.Context, id string) (model.OrganizationDetail, error) {
	if strings.TrimSpace(id) == "" {
		return model.OrganizationDetail{}, apperrors.NotFound("organization not found")
	}
	return s.api.GetOrganization(ctx, id)
}

// ChangeStatusInput describes a status change from the detail page.
type ChangeStatusInput struct {
	ID      string
	Current model.OrganizationStatus
	Status  string
	Reason  string
}

// ChangeStatus applies a status change. It reports false without calling the
// backend when the requested status equals the current one.
func (s *OrganizationService) ChangeStatus(ctx context.Context, in ChangeStatusInput) (bool, error) {
	status, ok := model.ParseOrganizationStatus(in.Status)
	if !ok {
		return false, apperrors.ValidationField("status", "unknown organization status")
	}
	if status == in.Current {
		return false, nil
	}
	req := model.UpdateOrganizationStatusRequest{Status: status, Reason: strings.TrimSpace(in.Reason)}
	if err := s.api.UpdateOrganizationStatus(ctx, in.ID, req); err != nil {
		return false, fmt.Errorf("update organization status: %w", err)
	}
	return true, nil
}

// Update edits the organization's profile. Name is required.
func (s *OrganizationService) Update(ctx context.Context, id string, req model.UpdateOrganizationRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Tagline = strings.TrimSpace(req.Tagline)
	if req.Name == "" {
		return apperrors.ValidationField("name", "name is required")
	}
	if err := s.api.UpdateOrganization(ctx, id, req); err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	return nil
}

// Delete removes the organization.
func (s *OrganizationService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteOrganization(ctx, id); err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}
	return nil
}
