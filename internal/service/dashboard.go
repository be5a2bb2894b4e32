package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/target/mmk-backoffice/internal/core"
	"github.com/target/mmk-backoffice/internal/domain/model"
)

// RecentActivityLimit is the number of audit entries shown on the dashboard.
const RecentActivityLimit = 5

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Stats    core.DashboardAPI
	AuditLog *AuditLogService
	Logger   *slog.Logger
}

// DashboardService loads the dashboard page.
type DashboardService struct {
	stats  core.DashboardAPI
	audit  *AuditLogService
	logger *slog.Logger
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{stats: opts.Stats, audit: opts.AuditLog, logger: logger}
}

// Dashboard is the data behind the dashboard page.
type Dashboard struct {
	Stats  model.DashboardStats
	Recent []model.AuditLogEntry
	// RecentUnavailable is set when recent activity could not be loaded.
	RecentUnavailable bool
}

// Load fetches stats and recent activity concurrently. Only a stats failure fails the page.
func (s *DashboardService) Load(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.stats.DashboardStats(gctx)
		if err != nil {
			return err
		}
		out.Stats = stats
		return nil
	})

	if s.audit != nil {
		g.Go(func() error {
			recent, err := s.audit.Recent(gctx, RecentActivityLimit)
			if err != nil {
				s.logger.WarnContext(ctx, "load recent activity", "error", err)
				out.RecentUnavailable = true
				return nil
			}
			out.Recent = recent
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}
