// Package core provides the business logic contracts for the portal.
package core

import (
	"context"

	"github.com/samprabha/portal/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// UpsertOAuthParams holds the identity fields carried over from Google sign-in.
type UpsertOAuthParams struct {
	Email       string
	DisplayName string
	AvatarURL   string
}

// AccountRepository defines the interface for account data operations.
type AccountRepository interface {
	Create(ctx context.Context, req *model.CreateAccountRequest) (*model.Account, error)
	UpsertOAuth(ctx context.Context, params UpsertOAuthParams) (*model.Account, error)
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	Authenticate(ctx context.Context, email, password string) (*model.Account, error)
	List(ctx context.Context, limit, offset int) ([]*model.Account, error)
	UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.Account, error)
}

// DocumentRepository defines the interface for user document data operations.
type DocumentRepository interface {
	Create(ctx context.Context, req *model.CreateDocumentRequest) (*model.Document, error)
	GetByID(ctx context.Context, id string) (*model.Document, error)
	ListAll(ctx context.Context) ([]*model.Document, error)
	ListByEmail(ctx context.Context, email string) ([]*model.Document, error)
	ListWithOptions(ctx context.Context, opts model.DocumentsListOptions) ([]*model.Document, error)
	UpdateStatus(ctx context.Context, id string, req model.UpdateDocumentStatusRequest) (*model.Document, error)
	Delete(ctx context.Context, id string) (bool, error)
}
