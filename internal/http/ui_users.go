package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/target/mmk-backoffice/internal/http/validation"
)

const usersPath = "/users"

func userPath(id string) string {
	return usersPath + "/" + url.PathEscape(id)
}

// Users serves the user list with search.
func (h *UIHandlers) Users(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parsePage(q)
	search := strings.TrimSpace(q.Get("search"))
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Users", PageTitle: "Users", CurrentPage: PageUsers},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Search"] = search
			res, err := h.UserSvc.List(ctx, page, search)
			if err != nil {
				return err
			}
			data["Users"] = res.Items
			data["Pagination"] = paginationView(r, usersPath, res.Pagination)
			return nil
		},
	})
}

// User serves a user's detail page.
func (h *UIHandlers) User(w http.ResponseWriter, r *http.Request) {
	h.userPage(w, r, nil)
}

func (h *UIHandlers) userPage(w http.ResponseWriter, r *http.Request, extra map[string]any) {
	id := r.PathValue("id")
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "User", PageTitle: "User", CurrentPage: PageUser},
		Fetch: func(ctx context.Context, data map[string]any) error {
			u, err := h.UserSvc.Get(ctx, id)
			if err != nil {
				return err
			}
			data["Person"] = u
			if name := u.FullName(); name != "" {
				data["PageTitle"] = name
				data["Title"] = name
			}
			return nil
		},
		Extra: extra,
	})
}

// SetUserStatus activates or deactivates the user.
func (h *UIHandlers) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	active := formBool(r.PostFormValue("active"))
	reason := r.PostFormValue("reason")
	if fv := validation.New().Validate("reason", reason, validation.Optional("Reason", maxReasonLen)); !fv.Valid() {
		h.userPage(w, r, invalidForm(fv.Errors()))
		return
	}
	if err := h.UserSvc.SetActive(r.Context(), id, active, reason); err != nil {
		h.actionFailed(w, r, err, msgSaveFailed, func(extra map[string]any) {
			h.userPage(w, r, extra)
		})
		return
	}
	completeAction(w, r, userPath(id), noticeStatusChanged)
}

// ImpersonateUser requests an impersonation session and shows its link on the detail page.
func (h *UIHandlers) ImpersonateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	imp, err := h.UserSvc.Impersonate(r.Context(), id)
	if err != nil {
		h.actionFailed(w, r, err, "Unable to impersonate this user.", func(extra map[string]any) {
			h.userPage(w, r, extra)
		})
		return
	}
	h.logger().InfoContext(r.Context(), "impersonation issued", "user_id", id)
	h.userPage(w, r, map[string]any{"Impersonation": imp})
}
