package httpx

import (
	"net/http"

	"github.com/samprabha/portal/internal/catalog"
	domainauth "github.com/samprabha/portal/internal/domain/auth"
)

// PageMeta describes the page being rendered.
type PageMeta struct {
	Title       string
	CurrentPage string
}

// TemplateData accumulates the data passed to page templates. Every page gets
// the session, navigation, contact details, and CSRF token; handlers add their
// own entries with With.
type TemplateData struct {
	data map[string]any
}

// NewTemplateData builds the base template data for a request.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateData {
	session := sessionFrom(r.Context())
	return &TemplateData{data: map[string]any{
		"Title":       meta.Title,
		"CurrentPage": meta.CurrentPage,
		"Session":     session,
		"IsAdmin":     session != nil && session.IsAdmin(),
		"Nav":         catalog.NavItems(),
		"Contact":     catalog.Contact(),
		"CSRFToken":   GetCSRFToken(r),
	}}
}

// With adds a key/value pair to the template data.
func (d *TemplateData) With(key string, value any) *TemplateData {
	d.data[key] = value
	return d
}

// WithError adds a general error message.
func (d *TemplateData) WithError(msg string) *TemplateData {
	return d.With("Error", msg)
}

// WithSuccess adds a success banner message.
func (d *TemplateData) WithSuccess(msg string) *TemplateData {
	return d.With("Success", msg)
}

// Build returns the underlying map for template execution.
func (d *TemplateData) Build() map[string]any {
	return d.data
}

// SessionOrNil returns the session stored in the data, if any.
func (d *TemplateData) SessionOrNil() *domainauth.Session {
	if s, ok := d.data["Session"].(*domainauth.Session); ok {
		return s
	}
	return nil
}
