package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/target/mmk-backoffice/internal/domain/model"
	"github.com/target/mmk-backoffice/internal/http/validation"
	"github.com/target/mmk-backoffice/internal/service"
)

const organizationsPath = "/organizations"

func organizationPath(id string) string {
	return organizationsPath + "/" + url.PathEscape(id)
}

// Organizations serves the organization list with search and status filters.
func (h *UIHandlers) Organizations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.OrganizationFilter{
		Page:   parsePage(q),
		Search: strings.TrimSpace(q.Get("search")),
		Status: strings.TrimSpace(q.Get("status")),
	}
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Organizations", PageTitle: "Organizations", CurrentPage: PageOrganizations},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Search"] = filter.Search
			data["Status"] = filter.Status
			page, err := h.OrgSvc.List(ctx, filter)
			if err != nil {
				return err
			}
			data["Organizations"] = page.Items
			data["Pagination"] = paginationView(r, organizationsPath, page.Pagination)
			return nil
		},
	})
}

// Organization serves an organization's detail page.
func (h *UIHandlers) Organization(w http.ResponseWriter, r *http.Request) {
	h.organizationPage(w, r, nil)
}

func (h *UIHandlers) organizationPage(w http.ResponseWriter, r *http.Request, extra map[string]any) {
	id := r.PathValue("id")
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Organization", PageTitle: "Organization", CurrentPage: PageOrganization},
		Fetch: func(ctx context.Context, data map[string]any) error {
			org, err := h.OrgSvc.Get(ctx, id)
			if err != nil {
				return err
			}
			data["Org"] = org
			data["PageTitle"] = org.Name
			data["Title"] = org.Name
			return nil
		},
		Extra: extra,
	})
}

// ChangeOrganizationStatus applies the status form. An unchanged status is a no-op.
func (h *UIHandlers) ChangeOrganizationStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in := service.ChangeStatusInput{
		ID:      id,
		Current: model.OrganizationStatus(r.PostFormValue("current")),
		Status:  r.PostFormValue("status"),
		Reason:  r.PostFormValue("reason"),
	}
	if fv := validation.New().Validate("reason", in.Reason, validation.Optional("Reason", maxReasonLen)); !fv.Valid() {
		h.organizationPage(w, r, invalidForm(fv.Errors()))
		return
	}
	changed, err := h.OrgSvc.ChangeStatus(r.Context(), in)
	if err != nil {
		h.actionFailed(w, r, err, msgSaveFailed, func(extra map[string]any) {
			h.organizationPage(w, r, extra)
		})
		return
	}
	notice := noticeUnchanged
	if changed {
		notice = noticeStatusChanged
	}
	completeAction(w, r, organizationPath(id), notice)
}

// UpdateOrganization saves the organization's profile form.
func (h *UIHandlers) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	req := model.UpdateOrganizationRequest{
		Name:           r.PostFormValue("name"),
		Tagline:        r.PostFormValue("tagline"),
		BookingEnabled: formBool(r.PostFormValue("booking_enabled")),
	}
	fv := validation.New().
		Validate("name", req.Name, validation.Required("Name", maxNameLen)).
		Validate("tagline", req.Tagline, validation.Optional("Tagline", maxTaglineLen))
	if !fv.Valid() {
		h.organizationPage(w, r, invalidForm(fv.Errors()))
		return
	}
	if err := h.OrgSvc.Update(r.Context(), id, req); err != nil {
		h.actionFailed(w, r, err, msgSaveFailed, func(extra map[string]any) {
			h.organizationPage(w, r, extra)
		})
		return
	}
	completeAction(w, r, organizationPath(id), noticeSaved)
}

// DeleteOrganization removes the organization and returns to the list.
func (h *UIHandlers) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.OrgSvc.Delete(r.Context(), id); err != nil {
		h.actionFailed(w, r, err, msgDeleteFailed, func(extra map[string]any) {
			h.organizationPage(w, r, extra)
		})
		return
	}
	completeAction(w, r, organizationsPath, noticeDeleted)
}

// formBool reads an HTML checkbox or boolean select value.
func formBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}
