package httpx

import (
	"os"
	"strings"
	"testing"
	"time"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
// now pins the clock used for relative times; nil uses time.Now.
func RequireTemplateRenderer(t *testing.T, now func() time.Time) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Now:        now,
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// SkipIfNoTemplates checks if templates are available and skips the test if not.
func SkipIfNoTemplates(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("Templates not available, skipping integration test")
	}
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// CreateUIHandlersForTest creates UIHandlers with a template renderer and the given session.
// Services are left for the caller to set.
func CreateUIHandlersForTest(t *testing.T, session SessionView) *UIHandlers {
	t.Helper()
	tr := RequireTemplateRenderer(t, nil)
	if tr == nil {
		return nil
	}
	return &UIHandlers{T: tr, Session: session}
}
