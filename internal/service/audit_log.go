package service

import (
	"context"

	"github.com/target/mmk-backoffice/internal/core"
	"github.com/target/mmk-backoffice/internal/domain/model"
)

// AuditLogService implements the audit log page.
type AuditLogService struct {
	api core.AuditLogAPI
}

// NewAuditLogService constructs a new AuditLogService.
func NewAuditLogService(api core.AuditLogAPI) *AuditLogService {
	return &AuditLogService{api: api}
}

// List returns a page of audit entries.
func (s *AuditLogService) List(ctx context.Context, page int) (model.Page[model.AuditLogEntry], error) {
	return s.api.ListAuditLog(ctx, model.ListOptions{Page: page, Limit: model.AuditLogPageSize})
}

// Recent returns up to n of the newest audit entries.
func (s *AuditLogService) Recent(ctx context.Context, n int) ([]model.AuditLogEntry, error) {
	page, err := s.api.ListAuditLog(ctx, model.ListOptions{Page: 1, Limit: n})
	if err != nil {
		return nil, err
	}
	items := page.Items
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}
