package service

import (
	"context"
	"errors"

	"github.com/samprabha/portal/internal/core"
	"github.com/samprabha/portal/internal/data"
	domainauth "github.com/samprabha/portal/internal/domain/auth"
	"github.com/samprabha/portal/internal/domain/model"
	apperrors "github.com/samprabha/portal/internal/errors"
)

// DocumentServiceOptions groups dependencies for DocumentService.
type DocumentServiceOptions struct {
	Documents core.DocumentRepository
}

// DocumentService enforces the document access policy: administrators manage
// every document, everyone else reads only documents owned by their session
// email.
type DocumentService struct {
	documents core.DocumentRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(opts DocumentServiceOptions) *DocumentService {
	return &DocumentService{documents: opts.Documents}
}

// ListOwn returns the documents owned by the session email, newest first.
func (s *DocumentService) ListOwn(ctx context.Context, session *domainauth.Session) ([]*model.Document, error) {
	if session == nil {
		return nil, apperrors.Unauthorized("Sign in required")
	}
	return s.documents.ListByEmail(ctx, session.Email)
}

// ListAll returns every document. Admin only.
func (s *DocumentService) ListAll(ctx context.Context, session *domainauth.Session) ([]*model.Document, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.documents.ListAll(ctx)
}

// Search returns documents matching the admin search options. Admin only.
func (s *DocumentService) Search(
	ctx context.Context,
	session *domainauth.Session,
	opts model.DocumentsListOptions,
) ([]*model.Document, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.documents.ListWithOptions(ctx, opts)
}

// Create registers a new document for a client. Admin only.
func (s *DocumentService) Create(
	ctx context.Context,
	session *domainauth.Session,
	req *model.CreateDocumentRequest,
) (*model.Document, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.documents.Create(ctx, req)
}

// UpdateStatus changes a document status. Admin only.
func (s *DocumentService) UpdateStatus(
	ctx context.Context,
	session *domainauth.Session,
	id string,
	req model.UpdateDocumentStatusRequest,
) (*model.Document, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	doc, err := s.documents.UpdateStatus(ctx, id, req)
	if err != nil {
		if errors.Is(err, data.ErrDocumentNotFound) {
			return nil, apperrors.NotFound("Document not found")
		}
		return nil, err
	}
	return doc, nil
}

// Delete removes a document. Admin only.
func (s *DocumentService) Delete(ctx context.Context, session *domainauth.Session, id string) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	deleted, err := s.documents.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound("Document not found")
	}
	return nil
}

func requireAdmin(session *domainauth.Session) error {
	if session == nil {
		return apperrors.Unauthorized("Sign in required")
	}
	if !session.IsAdmin() {
		return apperrors.Forbidden("Admin access required")
	}
	return nil
}
