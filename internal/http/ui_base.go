package httpx

import (
	"bytes"
	"context"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/target/mmk-backoffice/internal/domain/access"
	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
	"github.com/target/mmk-backoffice/internal/domain/model"
	"github.com/target/mmk-backoffice/internal/http/ui/viewmodel"
	"github.com/target/mmk-backoffice/internal/service"
)

// SessionView is the read side of the session the console needs: guard state plus
// the principal shown in the layout.
type SessionView interface {
	access.State
	Principal() *domainauth.Principal
}

// AuthService is a minimal interface for the sign-in and sign-out handlers.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domainauth.Principal, error)
	Logout(ctx context.Context) error
}

// DashboardLoader loads the dashboard page data.
type DashboardLoader interface {
	Load(ctx context.Context) (service.Dashboard, error)
}

// OrganizationsService is a minimal interface for the organization pages.
type OrganizationsService interface {
	List(ctx context.Context, f service.OrganizationFilter) (model.Page[model.Organization], error)
	Get(ctx context.Context, id string) (model.OrganizationDetail, error)
	ChangeStatus(ctx context.Context, in service.ChangeStatusInput) (bool, error)
	Update(ctx context.Context, id string, req model.UpdateOrganizationRequest) error
	Delete(ctx context.Context, id string) error
}

// UsersService is a minimal interface for the user pages.
type UsersService interface {
	List(ctx context.Context, page int, search string) (model.Page[model.User], error)
	Get(ctx context.Context, id string) (model.UserDetail, error)
	SetActive(ctx context.Context, id string, active bool, reason string) error
	Impersonate(ctx context.Context, id string) (model.Impersonation, error)
}

// AdminsService is a minimal interface for the admin management page.
type AdminsService interface {
	List(ctx context.Context) ([]domainauth.Principal, error)
	Create(ctx context.Context, req model.CreateAdminRequest) (domainauth.Principal, error)
	Update(ctx context.Context, id string, req model.UpdateAdminRequest) (domainauth.Principal, error)
	Delete(ctx context.Context, id string) error
}

// SettingsService is a minimal interface for the settings page.
type SettingsService interface {
	List(ctx context.Context) ([]model.Setting, error)
	Update(ctx context.Context, current []model.Setting, key, value string) ([]model.Setting, error)
}

// AuditLogService is a minimal interface for the audit log page.
type AuditLogService interface {
	List(ctx context.Context, page int) (model.Page[model.AuditLogEntry], error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ SessionView          = (*service.SessionStore)(nil)
	_ AuthService          = (*service.AuthService)(nil)
	_ DashboardLoader      = (*service.DashboardService)(nil)
	_ OrganizationsService = (*service.OrganizationService)(nil)
	_ UsersService         = (*service.UserService)(nil)
	_ AdminsService        = (*service.AdminService)(nil)
	_ SettingsService      = (*service.SettingsService)(nil)
	_ AuditLogService      = (*service.AuditLogService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T            *TemplateRenderer
	Session      SessionView
	AuthSvc      AuthService
	DashboardSvc DashboardLoader
	OrgSvc       OrganizationsService
	UserSvc      UsersService
	AdminSvc     AdminsService
	SettingsSvc  SettingsService
	AuditSvc     AuditLogService
	IsDev        bool // Development mode flag for enhanced error reporting
	Logger       *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request and the session.
func (h *UIHandlers) buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}
	if h.Session == nil || !h.Session.IsAuthenticated() {
		return layout
	}
	layout.IsAuthenticated = true
	layout.IsElevated = h.Session.IsElevated()
	if p := h.Session.Principal(); p != nil {
		layout.User = &viewmodel.User{
			Name:      p.Name,
			Email:     p.Email,
			Role:      string(p.Role),
			RoleLabel: p.Role.Label(),
		}
	}
	return layout
}

// basePageData constructs the common page data map with session context.
func (h *UIHandlers) basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := h.buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"CSRFToken":       layout.CSRFToken,
		"IsAuthenticated": layout.IsAuthenticated,
		"IsElevated":      layout.IsElevated,
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	if notice := noticeFor(r.URL.Query().Get("notice")); notice != "" {
		data["Notice"] = notice
	}
	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
	// Extra is merged into the page data after Fetch, e.g. an action error.
	Extra map[string]any
}

// Page builds base data, fetches content data, and renders. A fetch failure keeps
// the page on screen with an error message, unless the failure ended the session.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := h.basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			if h.followNavigation(w, r) {
				return
			}
			h.logger().WarnContext(r.Context(), "page data unavailable",
				"page", spec.Meta.CurrentPage, "error", err)
			setPageError(data, errorMessage(err, msgLoadFailed))
		}
	}
	for k, v := range spec.Extra {
		data[k] = v
	}
	h.render(w, r, data)
}

// followNavigation applies a forced navigation recorded while serving r.
func (h *UIHandlers) followNavigation(w http.ResponseWriter, r *http.Request) bool {
	target := NavigationTarget(r.Context())
	if target == "" {
		return false
	}
	h.logger().InfoContext(r.Context(), "session ended by backend; redirecting", "target", target)
	redirect(w, r, target)
	return true
}

func setPageError(data map[string]any, msg string) {
	data["Error"] = true
	data["ErrorMessage"] = msg
}

// render writes the full page, or for htmx requests the content plus out-of-band header updates.
func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	page, _ := data["CurrentPage"].(string)
	title, _ := data["Title"].(string)
	pageTitle, _ := data["PageTitle"].(string)

	var buf bytes.Buffer
	// Include a <title> element so htmx updates document.title on partial swaps.
	buf.WriteString(`<title>` + html.EscapeString(title) + `</title>`)
	buf.WriteString(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` +
		html.EscapeString(pageTitle) + `</h1>`)
	if err := h.T.RenderContent(&buf, page, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to write partial response", "error", err)
	}
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, phase string) {
	h.logger().ErrorContext(r.Context(), "template rendering failed",
		"error", err,
		"phase", phase,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if !h.IsDev {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	body := `<div class="template-error"><h2>Template Rendering Error</h2>` +
		`<p><strong>Phase:</strong> ` + html.EscapeString(phase) + `</p>` +
		`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
		`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`
	if _, writeErr := w.Write([]byte(body)); writeErr != nil {
		h.logger().ErrorContext(r.Context(), "failed to write template error response", "error", writeErr)
	}
}

// completeAction finishes a successful mutation by redirecting to target with a notice.
func completeAction(w http.ResponseWriter, r *http.Request, target, notice string) {
	if notice != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + "notice=" + url.QueryEscape(notice)
	}
	redirect(w, r, target)
}

// Notice keys carried across a post-redirect-get.
const (
	noticeSaved         = "saved"
	noticeStatusChanged = "status-changed"
	noticeUnchanged     = "unchanged"
	noticeDeleted       = "deleted"
	noticeCreated       = "created"
)

//nolint:gochecknoglobals // static read-only lookup
var noticeMessages = map[string]string{
	noticeSaved:         "Changes saved.",
	noticeStatusChanged: "Status updated.",
	noticeUnchanged:     "Status unchanged.",
	noticeDeleted:       "Deleted.",
	noticeCreated:       "Created.",
}

// noticeFor maps a notice key to its message; unknown keys render nothing.
func noticeFor(key string) string {
	return noticeMessages[key]
}

// parsePage reads a 1-based page number from the query, defaulting to 1.
func parsePage(q url.Values) int {
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		return n
	}
	return 1
}

// buildPageURL returns basePath with page set, preserving other non-empty query params.
func buildPageURL(basePath string, q url.Values, page int) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if k == "notice" || strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") {
			continue
		}
		tmp := make([]string, 0, len(v))
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				tmp = append(tmp, s)
			}
		}
		if len(tmp) > 0 {
			qq[k] = tmp
		}
	}
	qq.Set("page", strconv.Itoa(page))
	return basePath + "?" + qq.Encode()
}

// paginationView converts backend pagination into template data with prev/next links.
func paginationView(r *http.Request, basePath string, p model.Pagination) viewmodel.Pagination {
	v := viewmodel.Pagination{
		Page:       p.Page,
		TotalPages: p.TotalPages,
		HasPrev:    p.HasPrev(),
		HasNext:    p.HasNext(),
		StartIndex: p.StartIndex(),
		EndIndex:   p.EndIndex(),
		TotalCount: p.Total,
	}
	q := r.URL.Query()
	if v.HasPrev {
		v.PrevURL = buildPageURL(basePath, q, p.Page-1)
	}
	if v.HasNext {
		v.NextURL = buildPageURL(basePath, q, p.Page+1)
	}
	return v
}

// NotFound sends unknown paths to the sign-in entry point. Guards take it from there.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, access.LoginPath)
}
