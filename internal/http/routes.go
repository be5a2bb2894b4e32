package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	backoffice "github.com/target/mmk-backoffice"
	"github.com/target/mmk-backoffice/internal/domain/access"
	"github.com/target/mmk-backoffice/internal/ports"
)

// RouterServices holds everything the console router needs.
type RouterServices struct {
	Session       SessionView
	Storage       ports.SessionStorage // Optional: probed by /readyz
	Auth          AuthService
	Dashboard     DashboardLoader
	Organizations OrganizationsService
	Users         UsersService
	Admins        AdminsService
	Settings      SettingsService
	AuditLog      AuditLogService
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Compression is applied when non-nil.
	Compression  *CompressionConfig
	CookieSecure bool
	IsDev        bool         // Serve templates and static files from disk
	TemplateFS   fs.FS        // Optional: overrides the template source (tests)
	Logger       *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates the console router wrapped in its middleware chain.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Session == nil {
		return nil, errors.New("router requires a session")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ui, err := setupUIHandlers(services, logger)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler)) // also answers HEAD
	mux.Handle("GET /readyz", readyHandler(services.Storage, services.Session))
	if services.Metrics != nil {
		mux.Handle("GET /metrics", services.Metrics)
	}
	mux.Handle("GET /static/", staticHandler(services.IsDev, logger))
	registerUIRoutes(mux, ui, services.Session)

	var handler http.Handler = mux
	if services.Compression != nil {
		handler = Compression(*services.Compression)(handler)
	}
	handler = CSRFProtection(CSRFConfig{Secure: services.CookieSecure})(handler)
	handler = NavigationSlot()(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler, nil
}

// registerUIRoutes wires every page behind its guards. Guards are evaluated per request.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, session access.State) {
	guest := Gate(session, access.RequireGuest)
	authed := Gate(session, access.RequireAuthenticated)
	elevated := Gate(session, access.RequireAuthenticated, access.RequireElevated)

	handle := func(pattern string, gate func(http.Handler) http.Handler, fn http.HandlerFunc) {
		mux.Handle(pattern, gate(fn))
	}

	handle("GET "+access.LoginPath, guest, h.LoginPage)
	handle("POST "+access.LoginPath, guest, h.Login)
	mux.HandleFunc("POST /logout", h.Logout)

	handle("GET /{$}", authed, h.Home)
	handle("GET "+access.DashboardPath, authed, h.Dashboard)

	handle("GET "+organizationsPath, authed, h.Organizations)
	handle("GET "+organizationsPath+"/{id}", authed, h.Organization)
	handle("POST "+organizationsPath+"/{id}", authed, h.UpdateOrganization)
	handle("POST "+organizationsPath+"/{id}/status", authed, h.ChangeOrganizationStatus)
	handle("POST "+organizationsPath+"/{id}/delete", authed, h.DeleteOrganization)

	handle("GET "+usersPath, authed, h.Users)
	handle("GET "+usersPath+"/{id}", authed, h.User)
	handle("POST "+usersPath+"/{id}/status", authed, h.SetUserStatus)
	handle("POST "+usersPath+"/{id}/impersonate", authed, h.ImpersonateUser)

	handle("GET "+auditLogPath, authed, h.AuditLog)

	handle("GET "+adminsPath, elevated, h.Admins)
	handle("POST "+adminsPath, elevated, h.CreateAdmin)
	handle("POST "+adminsPath+"/{id}", elevated, h.UpdateAdmin)
	handle("POST "+adminsPath+"/{id}/delete", elevated, h.DeleteAdmin)

	handle("GET "+settingsPath, elevated, h.Settings)
	handle("POST "+settingsPath+"/{key}", elevated, h.UpdateSetting)

	mux.HandleFunc("/", h.NotFound)
}

// setupUIHandlers creates UI handlers with a template renderer.
// In dev mode templates are read from disk on startup; otherwise from the embedded FS.
func setupUIHandlers(services RouterServices, logger *slog.Logger) (*UIHandlers, error) {
	templateFS := services.TemplateFS
	if templateFS == nil {
		var err error
		templateFS, err = templateSource(services.IsDev)
		if err != nil {
			return nil, err
		}
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	return &UIHandlers{
		T:            tr,
		Session:      services.Session,
		AuthSvc:      services.Auth,
		DashboardSvc: services.Dashboard,
		OrgSvc:       services.Organizations,
		UserSvc:      services.Users,
		AdminSvc:     services.Admins,
		SettingsSvc:  services.Settings,
		AuditSvc:     services.AuditLog,
		IsDev:        services.IsDev,
		Logger:       logger,
	}, nil
}

func templateSource(isDev bool) (fs.FS, error) {
	if isDev {
		return os.DirFS(TemplatePathFromRoot), nil
	}
	sub, err := fs.Sub(backoffice.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		return nil, fmt.Errorf("open embedded templates: %w", err)
	}
	return sub, nil
}

// staticHandler serves /static/* from disk in dev mode and from the embedded FS otherwise.
func staticHandler(isDev bool, logger *slog.Logger) http.Handler {
	if isDev {
		return withCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))), false)
	}
	sub, err := fs.Sub(backoffice.StaticFS, "frontend/static")
	if err != nil {
		logger.Error("failed to create sub-filesystem for static assets", "error", err)
		return http.NotFoundHandler()
	}
	return withCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(sub))), true)
}

// withCacheHeaders marks embedded assets cacheable for an hour and disables caching in dev.
func withCacheHeaders(handler http.Handler, cacheable bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cacheable {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		handler.ServeHTTP(w, r)
	})
}
