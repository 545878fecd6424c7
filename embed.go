// Package portal provides embedded assets for the Samprabha portal.
package portal

import "embed"

// TemplateFS holds the server-rendered HTML templates. Pages are rendered
// from this embedded filesystem in all modes; there is no separate frontend
// build step.
//
//go:embed all:templates
var TemplateFS embed.FS
