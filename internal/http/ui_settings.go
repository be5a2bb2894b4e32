package httpx

import (
	"context"
	"net/http"

	"github.com/target/mmk-backoffice/internal/http/validation"
)

const settingsPath = "/settings"

// Settings serves the system settings page.
func (h *UIHandlers) Settings(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: settingsMeta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			settings, err := h.SettingsSvc.List(ctx)
			if err != nil {
				return err
			}
			data["Settings"] = settings
			return nil
		},
	})
}

func settingsMeta() PageMeta {
	return PageMeta{Title: "Settings", PageTitle: "Settings", CurrentPage: PageSettings}
}

// UpdateSetting saves one setting and renders the list with the new value patched in.
func (h *UIHandlers) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	value := r.PostFormValue("value")

	ctx := r.Context()
	current, err := h.SettingsSvc.List(ctx)
	if err == nil {
		if fv := validation.New().Validate(key, value, validation.Optional("Value", maxSettingLen)); !fv.Valid() {
			extra := invalidForm(fv.Errors())
			extra["Settings"] = current
			h.Page(w, r, PageSpec{Meta: settingsMeta(), Extra: extra})
			return
		}
		current, err = h.SettingsSvc.Update(ctx, current, key, value)
	}
	if err != nil {
		h.actionFailed(w, r, err, msgSaveFailed, func(extra map[string]any) {
			extra["Settings"] = current
			h.Page(w, r, PageSpec{Meta: settingsMeta(), Extra: extra})
		})
		return
	}
	h.Page(w, r, PageSpec{Meta: settingsMeta(), Extra: map[string]any{
		"Settings": current,
		"Notice":   noticeFor(noticeSaved),
	}})
}
