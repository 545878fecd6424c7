package testutil

import (
	"time"

	"github.com/samprabha/portal/internal/domain/model"
)

// DocumentRequestBuilder provides a fluent interface for building CreateDocumentRequest objects for testing.
type DocumentRequestBuilder struct {
	req *model.CreateDocumentRequest
}

// NewDocumentRequest creates a new DocumentRequestBuilder with sensible defaults.
func NewDocumentRequest() *DocumentRequestBuilder {
	return &DocumentRequestBuilder{
		req: &model.CreateDocumentRequest{
			UserEmail: "user@example.com",
			Name:      "Test Report",
			URL:       "https://files.example.com/test-report.pdf",
			Status:    model.DocumentStatusPending,
		},
	}
}

// WithUserEmail sets the owner email.
func (b *DocumentRequestBuilder) WithUserEmail(email string) *DocumentRequestBuilder {
	b.req.UserEmail = email
	return b
}

// WithName sets the document name.
func (b *DocumentRequestBuilder) WithName(name string) *DocumentRequestBuilder {
	b.req.Name = name
	return b
}

// WithURL sets the document URL.
func (b *DocumentRequestBuilder) WithURL(url string) *DocumentRequestBuilder {
	b.req.URL = url
	return b
}

// WithStatus sets the document status.
func (b *DocumentRequestBuilder) WithStatus(status model.DocumentStatus) *DocumentRequestBuilder {
	b.req.Status = status
	return b
}

// Build returns the constructed CreateDocumentRequest.
func (b *DocumentRequestBuilder) Build() model.CreateDocumentRequest {
	return *b.req
}

// AccountRequestBuilder provides a fluent interface for building CreateAccountRequest objects for testing.
type AccountRequestBuilder struct {
	req *model.CreateAccountRequest
}

// NewAccountRequest creates a new AccountRequestBuilder with sensible defaults.
func NewAccountRequest() *AccountRequestBuilder {
	return &AccountRequestBuilder{
		req: &model.CreateAccountRequest{
			Email:       "user@example.com",
			Password:    "correct-horse-battery",
			DisplayName: "Test User",
		},
	}
}

// WithEmail sets the account email.
func (b *AccountRequestBuilder) WithEmail(email string) *AccountRequestBuilder {
	b.req.Email = email
	return b
}

// WithPassword sets the account password.
func (b *AccountRequestBuilder) WithPassword(password string) *AccountRequestBuilder {
	b.req.Password = password
	return b
}

// WithDisplayName sets the account display name.
func (b *AccountRequestBuilder) WithDisplayName(name string) *AccountRequestBuilder {
	b.req.DisplayName = name
	return b
}

// Build returns the constructed CreateAccountRequest.
func (b *AccountRequestBuilder) Build() model.CreateAccountRequest {
	return *b.req
}

// DocumentBuilder builds model.Document values directly for tests that bypass the repository.
type DocumentBuilder struct {
	doc model.Document
}

// NewDocument creates a new DocumentBuilder with sensible defaults.
func NewDocument() *DocumentBuilder {
	now := TestTime()
	return &DocumentBuilder{
		doc: model.Document{
			ID:        "00000000-0000-0000-0000-000000000001",
			UserEmail: "user@example.com",
			Name:      "Test Report",
			URL:       "https://files.example.com/test-report.pdf",
			Status:    model.DocumentStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// WithID sets the document ID.
func (b *DocumentBuilder) WithID(id string) *DocumentBuilder {
	b.doc.ID = id
	return b
}

// WithUserEmail sets the owner email.
func (b *DocumentBuilder) WithUserEmail(email string) *DocumentBuilder {
	b.doc.UserEmail = email
	return b
}

// WithName sets the document name.
func (b *DocumentBuilder) WithName(name string) *DocumentBuilder {
	b.doc.Name = name
	return b
}

// WithStatus sets the document status.
func (b *DocumentBuilder) WithStatus(status model.DocumentStatus) *DocumentBuilder {
	b.doc.Status = status
	return b
}

// WithCreatedAt sets the creation timestamp.
func (b *DocumentBuilder) WithCreatedAt(t time.Time) *DocumentBuilder {
	b.doc.CreatedAt = t
	return b
}

// Build returns the constructed Document.
func (b *DocumentBuilder) Build() *model.Document {
	doc := b.doc
	return &doc
}
