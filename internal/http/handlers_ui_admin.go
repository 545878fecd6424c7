package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/samprabha/portal/internal/domain/model"
	apperrors "github.com/samprabha/portal/internal/errors"
	"github.com/samprabha/portal/internal/observability/metrics"
)

// AdminHandlers serves the document management pages. Routes are registered
// behind RequireRoleBrowser(admin), so every request here carries an admin
// session.
type AdminHandlers struct {
	Renderer  *TemplateRenderer
	Documents DocumentServiceInterface
	Metrics   *metrics.Collector
	Logger    *slog.Logger
}

func (h *AdminHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Dashboard renders the admin document list with optional search filters.
// GET /admin?q=&status=.
func (h *AdminHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	query := r.URL.Query()

	opts := model.DocumentsListOptions{Q: strings.TrimSpace(query.Get("q"))}
	if raw := query.Get("status"); raw != "" {
		if status, ok := model.ParseDocumentStatus(raw); ok {
			opts.Status = status
		}
	}

	docs, err := h.Documents.Search(r.Context(), session, opts)
	data := h.baseData(r, opts)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "admin document search failed", "error", err)
		data.WithError("Could not load documents. Please try again.")
	} else {
		data.With("Documents", docs)
	}
	h.render(w, r, data.Build())
}

// CreateDocument registers a new document for a client from the admin form.
// POST /admin/documents.
func (h *AdminHandlers) CreateDocument(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	req := &model.CreateDocumentRequest{
		UserEmail: strings.TrimSpace(r.PostFormValue("user_email")),
		Name:      strings.TrimSpace(r.PostFormValue("document_name")),
		URL:       strings.TrimSpace(r.PostFormValue("document_url")),
		Status:    model.DocumentStatus(r.PostFormValue("status")),
	}

	if err := req.Validate(); err != nil {
		h.renderWithError(w, r, err.Error(), req)
		return
	}

	_, err := h.Documents.Create(r.Context(), session, req)
	h.record("create", err)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "admin document create failed", "error", err)
		h.renderWithError(w, r, "Could not create the document. Please try again.", req)
		return
	}

	redirectWithFlash(w, r, "/admin", "Document created.")
}

// UpdateDocumentStatus changes a document status from the admin list.
// POST /admin/documents/{id}/status.
func (h *AdminHandlers) UpdateDocumentStatus(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	id := r.PathValue("id")

	req := model.UpdateDocumentStatusRequest{Status: model.DocumentStatus(r.PostFormValue("status"))}
	if err := req.Validate(); err != nil {
		h.renderWithError(w, r, err.Error(), nil)
		return
	}

	_, err := h.Documents.UpdateStatus(r.Context(), session, id, req)
	h.record("update_status", err)
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.renderWithError(w, r, "That document no longer exists.", nil)
			return
		}
		h.logger().ErrorContext(r.Context(), "admin status update failed", "error", err, "document_id", id)
		h.renderWithError(w, r, "Could not update the document. Please try again.", nil)
		return
	}

	redirectWithFlash(w, r, "/admin", "Status updated.")
}

// DeleteDocument removes a document from the admin list.
// POST /admin/documents/{id}/delete.
func (h *AdminHandlers) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	id := r.PathValue("id")

	err := h.Documents.Delete(r.Context(), session, id)
	h.record("delete", err)
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.renderWithError(w, r, "That document no longer exists.", nil)
			return
		}
		h.logger().ErrorContext(r.Context(), "admin document delete failed", "error", err, "document_id", id)
		h.renderWithError(w, r, "Could not delete the document. Please try again.", nil)
		return
	}

	redirectWithFlash(w, r, "/admin", "Document deleted.")
}

func (h *AdminHandlers) baseData(r *http.Request, opts model.DocumentsListOptions) *TemplateData {
	data := NewTemplateData(r, PageMeta{Title: "Manage Documents", CurrentPage: "admin"}).
		With("Query", opts.Q).
		With("StatusFilter", string(opts.Status)).
		With("Statuses", []model.DocumentStatus{
			model.DocumentStatusPending,
			model.DocumentStatusInProgress,
			model.DocumentStatusCompleted,
		})
	if flash := r.URL.Query().Get("flash"); flash != "" {
		data.WithSuccess(flash)
	}
	return data
}

// renderWithError re-renders the admin dashboard with an error banner,
// reloading the document list so the page stays usable.
func (h *AdminHandlers) renderWithError(
	w http.ResponseWriter,
	r *http.Request,
	msg string,
	form *model.CreateDocumentRequest,
) {
	session := sessionFrom(r.Context())
	data := h.baseData(r, model.DocumentsListOptions{}).WithError(msg)
	if form != nil {
		data.With("Form", form)
	}
	if docs, err := h.Documents.ListAll(r.Context(), session); err == nil {
		data.With("Documents", docs)
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	h.render(w, r, data.Build())
}

func (h *AdminHandlers) render(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if err := h.Renderer.RenderPage(w, "admin", data); err != nil {
		h.logger().ErrorContext(r.Context(), "page render failed", "page", "admin", "error", err)
	}
}

func (h *AdminHandlers) record(operation string, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	h.Metrics.RecordDocumentOperation(operation, result)
}

// redirectWithFlash redirects with a one-shot banner message in the query
// string.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, path, msg string) {
	u := url.URL{Path: path}
	q := url.Values{}
	q.Set("flash", msg)
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}
