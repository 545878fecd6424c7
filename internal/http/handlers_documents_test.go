package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/samprabha/portal/internal/domain/auth"
	"github.com/samprabha/portal/internal/domain/model"
	apperrors "github.com/samprabha/portal/internal/errors"
)

// stubDocumentService satisfies DocumentServiceInterface with per-test funcs.
type stubDocumentService struct {
	listOwnFunc      func(ctx context.Context, session *domainauth.Session) ([]*model.Document, error)
	searchFunc       func(ctx context.Context, session *domainauth.Session, opts model.DocumentsListOptions) ([]*model.Document, error)
	createFunc       func(ctx context.Context, session *domainauth.Session, req *model.CreateDocumentRequest) (*model.Document, error)
	updateStatusFunc func(ctx context.Context, session *domainauth.Session, id string, req model.UpdateDocumentStatusRequest) (*model.Document, error)
	deleteFunc       func(ctx context.Context, session *domainauth.Session, id string) error
}

func (s *stubDocumentService) ListOwn(ctx context.Context, session *domainauth.Session) ([]*model.Document, error) {
	return s.listOwnFunc(ctx, session)
}

func (s *stubDocumentService) ListAll(context.Context, *domainauth.Session) ([]*model.Document, error) {
	return nil, nil
}

func (s *stubDocumentService) Search(
	ctx context.Context,
	session *domainauth.Session,
	opts model.DocumentsListOptions,
) ([]*model.Document, error) {
	return s.searchFunc(ctx, session, opts)
}

func (s *stubDocumentService) Create(
	ctx context.Context,
	session *domainauth.Session,
	req *model.CreateDocumentRequest,
) (*model.Document, error) {
	return s.createFunc(ctx, session, req)
}

func (s *stubDocumentService) UpdateStatus(
	ctx context.Context,
	session *domainauth.Session,
	id string,
	req model.UpdateDocumentStatusRequest,
) (*model.Document, error) {
	return s.updateStatusFunc(ctx, session, id, req)
}

func (s *stubDocumentService) Delete(ctx context.Context, session *domainauth.Session, id string) error {
	return s.deleteFunc(ctx, session, id)
}

func userSession() *domainauth.Session {
	return &domainauth.Session{
		ID:        "sess-user",
		UserID:    "user-1",
		Email:     "priya@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func adminSession() *domainauth.Session {
	return &domainauth.Session{
		ID:        "sess-admin",
		UserID:    "admin-1",
		Email:     "admin@samprabha.com",
		Role:      domainauth.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func requestWithSession(method, target, body string, session *domainauth.Session) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(withSession(req.Context(), session))
}

func TestDocumentsListMine(t *testing.T) {
	svc := &stubDocumentService{
		listOwnFunc: func(_ context.Context, session *domainauth.Session) ([]*model.Document, error) {
			require.Equal(t, "priya@example.com", session.Email)
			return []*model.Document{
				{ID: "doc-1", UserEmail: session.Email, Name: "Water Analysis", Status: model.DocumentStatusCompleted},
			}, nil
		},
	}
	h := &DocumentHandlers{Svc: svc}

	w := httptest.NewRecorder()
	h.ListMine(w, requestWithSession(http.MethodGet, "/api/documents/mine", "", userSession()))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "doc-1")
	assert.Contains(t, w.Body.String(), "Water Analysis")
}

func TestDocumentsListPassesSearchOptions(t *testing.T) {
	var got model.DocumentsListOptions
	svc := &stubDocumentService{
		searchFunc: func(_ context.Context, _ *domainauth.Session, opts model.DocumentsListOptions) ([]*model.Document, error) {
			got = opts
			return nil, nil
		},
	}
	h := &DocumentHandlers{Svc: svc}

	w := httptest.NewRecorder()
	h.List(w, requestWithSession(http.MethodGet,
		"/api/documents?q=water&status=in_progress&limit=10&offset=20", "", adminSession()))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "water", got.Q)
	assert.Equal(t, model.DocumentStatusInProgress, got.Status)
	assert.Equal(t, 10, got.Limit)
	assert.Equal(t, 20, got.Offset)
}

func TestDocumentsListRejectsUnknownStatus(t *testing.T) {
	h := &DocumentHandlers{Svc: &stubDocumentService{}}

	w := httptest.NewRecorder()
	h.List(w, requestWithSession(http.MethodGet, "/api/documents?status=archived", "", adminSession()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_status")
}

func TestDocumentsCreate(t *testing.T) {
	svc := &stubDocumentService{
		createFunc: func(_ context.Context, _ *domainauth.Session, req *model.CreateDocumentRequest) (*model.Document, error) {
			return &model.Document{
				ID:        "doc-9",
				UserEmail: req.UserEmail,
				Name:      req.Name,
				URL:       req.URL,
				Status:    model.DocumentStatusPending,
			}, nil
		},
	}
	h := &DocumentHandlers{Svc: svc}

	body := `{"user_email":"priya@example.com","document_name":"Soil Report","document_url":"https://files.example/soil.pdf"}`
	w := httptest.NewRecorder()
	h.Create(w, requestWithSession(http.MethodPost, "/api/documents", body, adminSession()))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "doc-9")
	assert.Contains(t, w.Body.String(), "pending")
}

func TestDocumentsCreateValidationFailure(t *testing.T) {
	h := &DocumentHandlers{Svc: &stubDocumentService{}}

	body := `{"user_email":"","document_name":"Soil Report","document_url":"https://files.example/soil.pdf"}`
	w := httptest.NewRecorder()
	h.Create(w, requestWithSession(http.MethodPost, "/api/documents", body, adminSession()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_failed")
}

func TestDocumentsCreateForbiddenForNonAdmin(t *testing.T) {
	svc := &stubDocumentService{
		createFunc: func(context.Context, *domainauth.Session, *model.CreateDocumentRequest) (*model.Document, error) {
			return nil, apperrors.Forbidden("admin role required")
		},
	}
	h := &DocumentHandlers{Svc: svc}

	body := `{"user_email":"priya@example.com","document_name":"Soil Report","document_url":"https://files.example/soil.pdf"}`
	w := httptest.NewRecorder()
	h.Create(w, requestWithSession(http.MethodPost, "/api/documents", body, userSession()))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDocumentsUpdateStatus(t *testing.T) {
	svc := &stubDocumentService{
		updateStatusFunc: func(
			_ context.Context,
			_ *domainauth.Session,
			id string,
			req model.UpdateDocumentStatusRequest,
		) (*model.Document, error) {
			return &model.Document{ID: id, Status: req.Status}, nil
		},
	}
	h := &DocumentHandlers{Svc: svc}

	req := requestWithSession(http.MethodPatch, "/api/documents/doc-3/status", `{"status":"completed"}`, adminSession())
	req.SetPathValue("id", "doc-3")
	w := httptest.NewRecorder()
	h.UpdateStatus(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "completed")
}

func TestDocumentsUpdateStatusMissingID(t *testing.T) {
	h := &DocumentHandlers{Svc: &stubDocumentService{}}

	req := requestWithSession(http.MethodPatch, "/api/documents//status", `{"status":"completed"}`, adminSession())
	w := httptest.NewRecorder()
	h.UpdateStatus(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_path")
}

func TestDocumentsDelete(t *testing.T) {
	var deletedID string
	svc := &stubDocumentService{
		deleteFunc: func(_ context.Context, _ *domainauth.Session, id string) error {
			deletedID = id
			return nil
		},
	}
	h := &DocumentHandlers{Svc: svc}

	req := requestWithSession(http.MethodDelete, "/api/documents/doc-4", "", adminSession())
	req.SetPathValue("id", "doc-4")
	w := httptest.NewRecorder()
	h.Delete(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "doc-4", deletedID)
}

func TestDocumentsDeleteNotFound(t *testing.T) {
	svc := &stubDocumentService{
		deleteFunc: func(context.Context, *domainauth.Session, string) error {
			return apperrors.NotFound("Document not found")
		},
	}
	h := &DocumentHandlers{Svc: svc}

	req := requestWithSession(http.MethodDelete, "/api/documents/missing", "", adminSession())
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	h.Delete(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
