//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "github.com/target/mmk-backoffice/internal/util"

// AuditLogPageSize is the page size used when browsing the audit log.
const AuditLogPageSize = 50

// AuditLogEntry records an action performed by a back-office admin.
type AuditLogEntry struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityId,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  string         `json:"ipAddress,omitempty"`
	AdminName  string         `json:"adminName"`
	AdminEmail string         `json:"adminEmail"`
	CreatedAt  util.Timestamp `json:"createdAt"`
}

var auditActionLabels = map[string]string{
	"login":                      "Signed in",
	"organization.status_change": "Organization status changed",
	"admin.create":               "Admin created",
	"admin.update":               "Admin updated",
	"setting.update":             "Setting updated",
}

// ActionLabel returns a readable label for known actions, or the raw action.
func (e AuditLogEntry) ActionLabel() string {
	if label, ok := auditActionLabels[e.Action]; ok {
		return label
	}
	return e.Action
}
