// Package core holds the template helpers shared by every console page.
package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/target/mmk-backoffice/internal/domain/model"
	"github.com/target/mmk-backoffice/internal/util"
)

// Deps holds dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	// Now defaults to time.Now. Tests pin it for relative times.
	Now func() time.Time
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"date":         util.FormatDate,
		"dateTime":     util.FormatDateTime,
		"relTime":      func(ts util.Timestamp) string { return util.RelativeTime(ts, now()) },
		"initials":     util.Initials,
		"truncate":     util.Truncate,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"formatNumber": FormatNumber,
		"statusClass":  func(v any) string { return StatusClass(fmt.Sprint(v)) },
		"orgStatuses":  func() []model.OrganizationStatus { return model.OrganizationStatuses },
		"selected":     func(a, b any) bool { return fmt.Sprint(a) == fmt.Sprint(b) },
		"isTrue":       func(b *bool) bool { return b != nil && *b },
	}

	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped during execution.
		return template.HTML(buf.String()), nil
	}
	return funcs
}

// FormatNumber formats an integer with comma separators for thousands.
func FormatNumber(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + (len(s)-1)/3 + 1)
	if neg {
		b.WriteByte('-')
	}
	prefix := len(s) % 3
	if prefix == 0 {
		prefix = 3
	}
	b.WriteString(s[:prefix])
	for i := prefix; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// StatusClass maps organization and account statuses to badge classes.
func StatusClass(status string) string {
	switch strings.ToLower(status) {
	case string(model.OrganizationStatusActive), "verified":
		return "badge-success"
	case string(model.OrganizationStatusSuspended), "inactive":
		return "badge-warning"
	case string(model.OrganizationStatusBanned):
		return "badge-danger"
	default:
		return "badge-light"
	}
}
