package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/samprabha/portal/internal/domain/model"
)

// TemplateRenderer renders HTML templates for UI responses. Every page file
// defines a template named after the page; partials define "header" and
// "footer". All files are parsed into a single set so pages can include the
// shared partials.
type TemplateRenderer struct {
	t       *template.Template
	fsys    fs.FS
	devMode bool
	logger  *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates (required)
	DevMode    bool         // Reparse templates on every render
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer by parsing templates from the
// provided config. In dev mode, TemplateFS should be os.DirFS("templates")
// so edits are picked up per request; in production it is the embedded tree.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}

	r := &TemplateRenderer{
		fsys:    cfg.TemplateFS,
		devMode: cfg.DevMode,
		logger:  cfg.Logger,
	}

	t, err := parseTemplates(cfg.TemplateFS)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("template parsing failed",
				slog.Any("error", err),
				slog.String("phase", "initialization"),
			)
		}
		return nil, err
	}
	r.t = t
	return r, nil
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	return template.New("root").Funcs(templateFuncs()).ParseFS(fsys,
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"year":        func() int { return time.Now().Year() },
		"statusLabel": func(s model.DocumentStatus) string { return s.Label() },
		"navActive": func(currentPage, path string) bool {
			if path == "/" {
				return currentPage == "home"
			}
			return "/"+currentPage == path
		},
	}
}

// RenderPage renders the named page template.
func (r *TemplateRenderer) RenderPage(w http.ResponseWriter, page string, data any) error {
	return r.renderTemplate(w, page, data)
}

// RenderError renders the error page.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, data any) error {
	return r.renderTemplate(w, "error", data)
}

func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, templateName string, data any) error {
	t := r.t
	if r.devMode {
		reparsed, err := parseTemplates(r.fsys)
		if err != nil {
			r.logTemplateError(templateName, err)
			return err
		}
		t = reparsed
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, templateName, data); err != nil {
		r.logTemplateError(templateName, err)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		r.logTemplateError(templateName, err)
		return err
	}

	return nil
}

func (r *TemplateRenderer) logTemplateError(templateName string, err error) {
	if r.logger == nil || err == nil {
		return
	}
	r.logger.Error("template execution failed",
		slog.String("template", templateName),
		slog.Any("error", err),
	)
}
