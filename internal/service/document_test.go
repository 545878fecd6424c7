package service

import (
	"context"
	"testing"
	"time"

	"github.com/samprabha/portal/internal/data"
	domainauth "github.com/samprabha/portal/internal/domain/auth"
	"github.com/samprabha/portal/internal/domain/model"
	apperrors "github.com/samprabha/portal/internal/errors"
	"github.com/samprabha/portal/internal/mocks"
	"github.com/samprabha/portal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func adminSession() *domainauth.Session {
	return &domainauth.Session{
		ID:        "sess-admin",
		UserID:    "acct-admin",
		Email:     "admin@example.com",
		Role:      domainauth.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func userSession(email string) *domainauth.Session {
	return &domainauth.Session{
		ID:        "sess-user",
		UserID:    "acct-user",
		Email:     email,
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func newDocumentFixture(t *testing.T) (*mocks.MockDocumentRepository, *DocumentService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDocumentRepository(ctrl)
	return repo, NewDocumentService(DocumentServiceOptions{Documents: repo})
}

func TestDocumentService_ListOwn(t *testing.T) {
	repo, svc := newDocumentFixture(t)

	own := []*model.Document{
		testutil.NewDocument().WithUserEmail("client@example.com").WithName("Soil Report").Build(),
	}
	repo.EXPECT().ListByEmail(gomock.Any(), "client@example.com").Return(own, nil)

	docs, err := svc.ListOwn(context.Background(), userSession("client@example.com"))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Soil Report", docs[0].Name)
}

func TestDocumentService_ListOwn_RequiresSession(t *testing.T) {
	_, svc := newDocumentFixture(t)

	_, err := svc.ListOwn(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestDocumentService_ListOwn_ScopedToSessionEmail(t *testing.T) {
	repo, svc := newDocumentFixture(t)

	// The repository is only ever asked for the caller's own email, so one
	// client can never see another client's documents.
	repo.EXPECT().ListByEmail(gomock.Any(), "a@example.com").Return(nil, nil)

	docs, err := svc.ListOwn(context.Background(), userSession("a@example.com"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentService_ListAll(t *testing.T) {
	repo, svc := newDocumentFixture(t)

	all := []*model.Document{
		testutil.NewDocument().WithUserEmail("a@example.com").Build(),
		testutil.NewDocument().WithUserEmail("b@example.com").Build(),
	}
	repo.EXPECT().ListAll(gomock.Any()).Return(all, nil)

	docs, err := svc.ListAll(context.Background(), adminSession())
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentService_AdminGate(t *testing.T) {
	_, svc := newDocumentFixture(t)
	ctx := context.Background()
	req := testutil.NewDocumentRequest().Build()

	tests := []struct {
		name    string
		session *domainauth.Session
		check   func(error) bool
	}{
		{"nil session", nil, apperrors.IsUnauthorized},
		{"non-admin", userSession("user@example.com"), apperrors.IsForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListAll(ctx, tt.session)
			assert.True(t, tt.check(err), "ListAll: %v", err)

			_, err = svc.Search(ctx, tt.session, model.DocumentsListOptions{})
			assert.True(t, tt.check(err), "Search: %v", err)

			_, err = svc.Create(ctx, tt.session, &req)
			assert.True(t, tt.check(err), "Create: %v", err)

			_, err = svc.UpdateStatus(ctx, tt.session, "doc-1", model.UpdateDocumentStatusRequest{
				Status: model.DocumentStatusCompleted,
			})
			assert.True(t, tt.check(err), "UpdateStatus: %v", err)

			err = svc.Delete(ctx, tt.session, "doc-1")
			assert.True(t, tt.check(err), "Delete: %v", err)
		})
	}
}

func TestDocumentService_Search(t *testing.T) {
	repo, svc := newDocumentFixture(t)

	opts := model.DocumentsListOptions{Q: "thesis", Status: model.DocumentStatusPending}
	repo.EXPECT().ListWithOptions(gomock.Any(), opts).Return([]*model.Document{
		testutil.NewDocument().WithName("Thesis Draft").Build(),
	}, nil)

	docs, err := svc.Search(context.Background(), adminSession(), opts)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Thesis Draft", docs[0].Name)
}

func TestDocumentService_Create(t *testing.T) {
	repo, svc := newDocumentFixture(t)

	req := testutil.NewDocumentRequest().
		WithUserEmail("client@example.com").
		WithName("Water Analysis").
		Build()
	repo.EXPECT().Create(gomock.Any(), &req).Return(&model.Document{
		ID:        "doc-1",
		UserEmail: "client@example.com",
		Name:      "Water Analysis",
		Status:    model.DocumentStatusPending,
	}, nil)

	doc, err := svc.Create(context.Background(), adminSession(), &req)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, model.DocumentStatusPending, doc.Status)
}

func TestDocumentService_UpdateStatus(t *testing.T) {
	repo, svc := newDocumentFixture(t)

	req := model.UpdateDocumentStatusRequest{Status: model.DocumentStatusCompleted}
	repo.EXPECT().UpdateStatus(gomock.Any(), "doc-1", req).Return(&model.Document{
		ID:     "doc-1",
		Status: model.DocumentStatusCompleted,
	}, nil)

	doc, err := svc.UpdateStatus(context.Background(), adminSession(), "doc-1", req)
	require.NoError(t, err)
	assert.Equal(t, model.DocumentStatusCompleted, doc.Status)
}

func TestDocumentService_UpdateStatus_NotFound(t *testing.T) {
	repo, svc := newDocumentFixture(t)

	repo.EXPECT().
		UpdateStatus(gomock.Any(), "missing", gomock.Any()).
		Return(nil, data.ErrDocumentNotFound)

	_, err := svc.UpdateStatus(context.Background(), adminSession(), "missing", model.UpdateDocumentStatusRequest{
		Status: model.DocumentStatusCompleted,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDocumentService_Delete(t *testing.T) {
	repo, svc := newDocumentFixture(t)

	repo.EXPECT().Delete(gomock.Any(), "doc-1").Return(true, nil)
	require.NoError(t, svc.Delete(context.Background(), adminSession(), "doc-1"))
}

func TestDocumentService_Delete_NotFound(t *testing.T) {
	repo, svc := newDocumentFixture(t)

	repo.EXPECT().Delete(gomock.Any(), "missing").Return(false, nil)

	err := svc.Delete(context.Background(), adminSession(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
