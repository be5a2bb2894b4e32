// Package backoffice provides embedded console assets for production builds.
package backoffice

import "embed"

// In dev mode (IsDev=true) the console reads assets from disk instead.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
