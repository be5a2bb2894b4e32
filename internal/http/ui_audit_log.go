package httpx

import (
	"context"
	"net/http"
)

const auditLogPath = "/audit-log"

// AuditLog serves the paginated audit log.
func (h *UIHandlers) AuditLog(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r.URL.Query())
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Audit log", PageTitle: "Audit log", CurrentPage: PageAuditLog},
		Fetch: func(ctx context.Context, data map[string]any) error {
			res, err := h.AuditSvc.List(ctx, page)
			if err != nil {
				return err
			}
			data["Entries"] = res.Items
			data["Pagination"] = paginationView(r, auditLogPath, res.Pagination)
			return nil
		},
	})
}
