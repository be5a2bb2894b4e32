package httpx

// CurrentPage constants identify pages in templates and navigation.
const (
	PageLogin         = "login"
	PageDashboard     = "dashboard"
	PageOrganizations = "organizations"
	PageOrganization  = "organization"
	PageUsers         = "users"
	PageUser          = "user"
	PageAdmins        = "admins"
	PageSettings      = "settings"
	PageAuditLog      = "audit-log"
)

// Template paths used for loading templates in tests and development.
const (
	TemplatePathFromRoot = "frontend/templates"
	TemplatePathFromTest = "../../frontend/templates"
)

// Messages shown when the backend gives no usable message or the form is rejected locally.
const (
	msgLoadFailed   = "Unable to load data. Please try again."
	msgSaveFailed   = "Unable to save changes. Please try again."
	msgDeleteFailed = "Unable to delete. Please try again."
	msgLoginFailed  = "Sign-in failed. Check your email and password."
	msgInvalidForm  = "Please correct the highlighted fields."
)

// Form field limits.
const (
	maxNameLen     = 100
	maxEmailLen    = 254
	maxPasswordLen = 256
	maxTaglineLen  = 200
	maxReasonLen   = 500
	maxSettingLen  = 1000
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageLogin:         "login-content",
	PageDashboard:     "dashboard-content",
	PageOrganizations: "organizations-content",
	PageOrganization:  "organization-content",
	PageUsers:         "users-content",
	PageUser:          "user-content",
	PageAdmins:        "admins-content",
	PageSettings:      "settings-content",
	PageAuditLog:      "audit-log-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to dashboard-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}
