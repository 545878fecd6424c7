//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxDocumentNameLen = 255
	maxEmailLen        = 320
)

// DocumentStatus tracks where a client deliverable is in its lifecycle.
// Transitions are unrestricted: an administrator may set any status at any
// time, in any order.
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusInProgress DocumentStatus = "in_progress"
	DocumentStatusCompleted  DocumentStatus = "completed"
)

// Valid reports whether the document status is supported.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusInProgress, DocumentStatusCompleted:
		return true
	default:
		return false
	}
}

// ParseDocumentStatus normalizes a status string and reports whether it is supported.
func ParseDocumentStatus(value string) (DocumentStatus, bool) {
	status := DocumentStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// Label returns a human-friendly form for UI display.
func (s DocumentStatus) Label() string {
	switch s {
	case DocumentStatusInProgress:
		return "In Progress"
	case DocumentStatusCompleted:
		return "Completed"
	case DocumentStatusPending:
		return "Pending"
	default:
		return string(s)
	}
}

// Document represents a tracked client deliverable. The artifact itself is
// stored elsewhere; URL points at it. UserEmail identifies the owner, and is
// deliberately not checked against the accounts table so documents can be
// provisioned before the client registers.
type Document struct {
	ID        string         `json:"id"            db:"id"`
	UserID    string         `json:"user_id"       db:"user_id"`
	UserEmail string         `json:"user_email"    db:"user_email"`
	Name      string         `json:"document_name" db:"document_name"`
	URL       string         `json:"document_url"  db:"document_url"`
	Status    DocumentStatus `json:"status"        db:"status"`
	CreatedAt time.Time      `json:"created_at"    db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"    db:"updated_at"`
}

// CreateDocumentRequest represents parameters to create a Document.
type CreateDocumentRequest struct {
	UserEmail string         `json:"user_email"`
	Name      string         `json:"document_name"`
	URL       string         `json:"document_url"`
	Status    DocumentStatus `json:"status,omitempty"`
}

// Validate validates CreateDocumentRequest and normalizes the status,
// defaulting it to pending when empty.
func (r *CreateDocumentRequest) Validate() error {
	email := strings.TrimSpace(r.UserEmail)
	if email == "" {
		return errors.New("user_email is required and cannot be empty")
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return errors.New("user_email cannot exceed 320 characters")
	}
	if !strings.Contains(email, "@") {
		return errors.New("user_email must be an email address")
	}

	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("document_name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxDocumentNameLen {
		return errors.New("document_name cannot exceed 255 characters")
	}

	rawURL := strings.TrimSpace(r.URL)
	if rawURL == "" {
		return errors.New("document_url is required and cannot be empty")
	}
	if u, err := url.Parse(rawURL); err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("document_url must be an absolute URL")
	}

	if r.Status == "" {
		r.Status = DocumentStatusPending
	}
	status, ok := ParseDocumentStatus(string(r.Status))
	if !ok {
		return errors.New("invalid status")
	}
	r.Status = status
	return nil
}

// UpdateDocumentStatusRequest represents parameters to change a Document status.
type UpdateDocumentStatusRequest struct {
	Status DocumentStatus `json:"status"`
}

// Validate validates UpdateDocumentStatusRequest and normalizes the status.
func (r *UpdateDocumentStatusRequest) Validate() error {
	status, ok := ParseDocumentStatus(string(r.Status))
	if !ok {
		return errors.New("invalid status")
	}
	r.Status = status
	return nil
}

// DocumentsListOptions carries optional search and pagination parameters for
// admin document listings.
type DocumentsListOptions struct {
	Q      string
	Status DocumentStatus
	Limit  int
	Offset int
}

// FilterDocuments returns the documents whose owner email or name contains
// the query, case-insensitively. An empty query returns the input unchanged.
// Purely local; recomputed on every search request.
func FilterDocuments(docs []*Document, query string) []*Document {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return docs
	}
	out := make([]*Document, 0, len(docs))
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.UserEmail), q) ||
			strings.Contains(strings.ToLower(d.Name), q) {
			out = append(out, d)
		}
	}
	return out
}
