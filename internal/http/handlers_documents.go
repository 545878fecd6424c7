package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	domainauth "github.com/samprabha/portal/internal/domain/auth"
	"github.com/samprabha/portal/internal/domain/model"
	"github.com/samprabha/portal/internal/observability/metrics"
)

// DocumentServiceInterface defines the interface for document service operations.
type DocumentServiceInterface interface {
	ListOwn(ctx context.Context, session *domainauth.Session) ([]*model.Document, error)
	ListAll(ctx context.Context, session *domainauth.Session) ([]*model.Document, error)
	Search(ctx context.Context, session *domainauth.Session, opts model.DocumentsListOptions) ([]*model.Document, error)
	Create(ctx context.Context, session *domainauth.Session, req *model.CreateDocumentRequest) (*model.Document, error)
	UpdateStatus(
		ctx context.Context,
		session *domainauth.Session,
		id string,
		req model.UpdateDocumentStatusRequest,
	) (*model.Document, error)
	Delete(ctx context.Context, session *domainauth.Session, id string) error
}

const maxDocumentListLimit = 200

// DocumentHandlers provides JSON handlers for document operations. The
// service layer enforces the access policy; handlers only shape requests and
// responses. Routes are registered behind RequireAuth so a session is always
// present in the context.
type DocumentHandlers struct {
	Svc     DocumentServiceInterface
	Metrics *metrics.Collector
}

// ListMine handles listing the caller's own documents.
// GET /api/documents/mine.
func (h *DocumentHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	docs, err := h.Svc.ListOwn(r.Context(), session)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// List handles the admin document listing with optional search parameters.
// GET /api/documents?q=&status=&limit=&offset=.
func (h *DocumentHandlers) List(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	q := r.URL.Query()

	opts := model.DocumentsListOptions{Q: strings.TrimSpace(q.Get("q"))}
	if raw := q.Get("status"); raw != "" {
		status, ok := model.ParseDocumentStatus(raw)
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_status",
				Err:     errors.New("status must be pending, in_progress, or completed"),
			})
			return
		}
		opts.Status = status
	}
	opts.Limit, opts.Offset = ParseLimitOffset(r, 50, maxDocumentListLimit)

	docs, err := h.Svc.Search(r.Context(), session, opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"limit":     opts.Limit,
		"offset":    opts.Offset,
	})
}

// Create handles registering a new document for a client.
// POST /api/documents.
func (h *DocumentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var req model.CreateDocumentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		return
	}

	doc, err := h.Svc.Create(r.Context(), session, &req)
	h.record("create", err)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, doc)
}

// UpdateStatus handles changing a document's status.
// PATCH /api/documents/{id}/status.
func (h *DocumentHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("document id is required"),
		})
		return
	}

	var req model.UpdateDocumentStatusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		return
	}

	doc, err := h.Svc.UpdateStatus(r.Context(), session, id, req)
	h.record("update_status", err)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, doc)
}

// Delete handles removing a document.
// DELETE /api/documents/{id}.
func (h *DocumentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("document id is required"),
		})
		return
	}

	err := h.Svc.Delete(r.Context(), session, id)
	h.record("delete", err)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *DocumentHandlers) record(operation string, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	h.Metrics.RecordDocumentOperation(operation, result)
}

// ParseLimitOffset extracts pagination parameters from the query string,
// clamping them to sane bounds.
func ParseLimitOffset(r *http.Request, defaultLimit, maxLimit int) (limit, offset int) {
	limit = defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
