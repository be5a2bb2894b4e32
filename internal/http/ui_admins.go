package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
	"github.com/target/mmk-backoffice/internal/domain/model"
	"github.com/target/mmk-backoffice/internal/http/validation"
)

const adminsPath = "/admins"

// validateAdminForm checks the shared admin form fields. The password is required on create only.
func validateAdminForm(name, email, password, role string, creating bool) *validation.FieldValidator {
	passwordRule := validation.Optional("Password", maxPasswordLen)
	if creating {
		passwordRule = validation.Required("Password", maxPasswordLen)
	}
	return validation.New().
		Validate("name", name, validation.Required("Name", maxNameLen)).
		Validate("email", email, validation.Required("Email", maxEmailLen), validation.Email("Email")).
		Validate("password", password, passwordRule).
		Validate("role", role, validation.OneOf("Role", string(domainauth.RoleSuperAdmin), string(domainauth.RoleSupport)))
}

func (h *UIHandlers) adminsPage(w http.ResponseWriter, r *http.Request, extra map[string]any) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Admins", PageTitle: "Admins", CurrentPage: PageAdmins},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Roles"] = []domainauth.Role{domainauth.RoleSupport, domainauth.RoleSuperAdmin}
			admins, err := h.AdminSvc.List(ctx)
			if err != nil {
				return err
			}
			data["Admins"] = admins
			if h.Session != nil {
				if me := h.Session.Principal(); me != nil {
					data["SelfID"] = me.ID
				}
			}
			return nil
		},
		Extra: extra,
	})
}

// Admins serves the admin management page.
func (h *UIHandlers) Admins(w http.ResponseWriter, r *http.Request) {
	h.adminsPage(w, r, nil)
}

// CreateAdmin creates an admin from the form. The form is kept on failure.
func (h *UIHandlers) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	req := model.CreateAdminRequest{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Role:     domainauth.Role(r.PostFormValue("role")),
	}
	if fv := validateAdminForm(req.Name, req.Email, req.Password, string(req.Role), true); !fv.Valid() {
		extra := invalidForm(fv.Errors())
		req.Password = ""
		extra["Form"] = req
		h.adminsPage(w, r, extra)
		return
	}
	if _, err := h.AdminSvc.Create(r.Context(), req); err != nil {
		h.actionFailed(w, r, err, msgSaveFailed, func(extra map[string]any) {
			req.Password = ""
			extra["Form"] = req
			h.adminsPage(w, r, extra)
		})
		return
	}
	completeAction(w, r, adminsPath, noticeCreated)
}

// UpdateAdmin edits an admin. An empty password leaves it unchanged.
func (h *UIHandlers) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	req := model.UpdateAdminRequest{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Role:     domainauth.Role(r.PostFormValue("role")),
		Password: r.PostFormValue("password"),
	}
	if fv := validateAdminForm(req.Name, req.Email, req.Password, string(req.Role), false); !fv.Valid() {
		extra := invalidForm(fv.Errors())
		extra["EditID"] = r.PathValue("id")
		h.adminsPage(w, r, extra)
		return
	}
	if _, err := h.AdminSvc.Update(r.Context(), r.PathValue("id"), req); err != nil {
		h.actionFailed(w, r, err, msgSaveFailed, func(extra map[string]any) {
			extra["EditID"] = r.PathValue("id")
			h.adminsPage(w, r, extra)
		})
		return
	}
	completeAction(w, r, adminsPath, noticeSaved)
}

// DeleteAdmin removes an admin. Deleting the signed-in admin is refused.
func (h *UIHandlers) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.AdminSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.actionFailed(w, r, err, msgDeleteFailed, func(extra map[string]any) {
			h.adminsPage(w, r, extra)
		})
		return
	}
	completeAction(w, r, adminsPath, noticeDeleted)
}
