package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/target/mmk-backoffice/internal/core"
	"github.com/target/mmk-backoffice/internal/domain/model"
	apperrors "github.com/target/mmk-backoffice/internal/errors"
)

// SettingsService implements the system settings page.
type SettingsService struct {
	api core.SettingsAPI
}

// NewSettingsService constructs a new SettingsService.
func NewSettingsService(api core.SettingsAPI) *SettingsService {
	return &SettingsService{api: api}
}

// List returns settings sorted by key.
func (s *SettingsService) List(ctx context.Context) ([]model.Setting, error) {
	return s.api.ListSettings(ctx)
}

// Update sets one setting and returns the list with the new value patched in.
func (s *SettingsService) Update(ctx context.Context, current []model.Setting, key, value string) ([]model.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return current, apperrors.ValidationField("key", "setting key is required")
	}
	if err := s.api.UpdateSetting(ctx, key, value); err != nil {
		return current, fmt.Errorf("update setting %s: %w", key, err)
	}
	out := make([]model.Setting, len(current))
	copy(out, current)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
		}
	}
	return out, nil
}
