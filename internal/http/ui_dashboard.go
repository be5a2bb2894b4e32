package httpx

import (
	"context"
	"net/http"
)

// Dashboard serves the landing page: platform stats plus recent activity.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Dashboard", PageTitle: "Dashboard", CurrentPage: PageDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			dash, err := h.DashboardSvc.Load(ctx)
			if err != nil {
				return err
			}
			data["Stats"] = dash.Stats
			data["Recent"] = dash.Recent
			data["RecentUnavailable"] = dash.RecentUnavailable
			return nil
		},
	})
}
