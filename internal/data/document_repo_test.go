package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/samprabha/portal/internal/domain/model"
	"github.com/samprabha/portal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDocument(t *testing.T, db *sql.DB, email, name string) *model.Document {
	t.Helper()
	repo := NewDocumentRepo(db)
	req := testutil.NewDocumentRequest().WithUserEmail(email).WithName(name).Build()
	doc, err := repo.Create(context.Background(), &req)
	require.NoError(t, err)
	return doc
}

func TestDocumentRepo_Create_Get_List_UpdateStatus_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewDocumentRepo(db)

		email := uniqueEmail("docs")
		req := testutil.NewDocumentRequest().
			WithUserEmail(email).
			WithName("Thesis Draft").
			WithURL("https://files.example.com/thesis.pdf").
			Build()

		doc, err := repo.Create(ctx, &req)
		require.NoError(t, err)
		require.NotEmpty(t, doc.ID)
		assert.Equal(t, email, doc.UserEmail)
		assert.Equal(t, "Thesis Draft", doc.Name)
		assert.Equal(t, model.DocumentStatusPending, doc.Status)
		assert.NotZero(t, doc.CreatedAt)
		assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)
		// No account with this email yet, so user_id falls back to the email
		assert.Equal(t, email, doc.UserID)

		// get by id
		got, err := repo.GetByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, doc.Name, got.Name)

		// list by email
		owned, err := repo.ListByEmail(ctx, email)
		require.NoError(t, err)
		require.Len(t, owned, 1)
		assert.Equal(t, doc.ID, owned[0].ID)

		// list all
		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), 1)

		// update status stamps updated_at
		updated, err := repo.UpdateStatus(ctx, doc.ID, model.UpdateDocumentStatusRequest{
			Status: model.DocumentStatusCompleted,
		})
		require.NoError(t, err)
		assert.Equal(t, model.DocumentStatusCompleted, updated.Status)
		assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

		// delete
		deleted, err := repo.Delete(ctx, doc.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = repo.GetByID(ctx, doc.ID)
		assert.ErrorIs(t, err, ErrDocumentNotFound)

		// deleting again reports false
		deleted, err = repo.Delete(ctx, doc.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestDocumentRepo_Create_ResolvesAccountID(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()

		email := uniqueEmail("owner")
		acctReq := testutil.NewAccountRequest().WithEmail(email).Build()
		acct, err := NewAccountRepo(db).Create(ctx, &acctReq)
		require.NoError(t, err)

		doc := createTestDocument(t, db, email, "Lab Results")
		assert.Equal(t, acct.ID, doc.UserID)
	})
}

func TestDocumentRepo_Create_Validation(t *testing.T) {
	repo := NewDocumentRepo(nil)
	ctx := context.Background()

	_, err := repo.Create(ctx, nil)
	assert.Error(t, err)

	req := testutil.NewDocumentRequest().WithUserEmail("").Build()
	_, err = repo.Create(ctx, &req)
	assert.ErrorContains(t, err, "user_email is required")

	req = testutil.NewDocumentRequest().WithURL("not-a-url").Build()
	_, err = repo.Create(ctx, &req)
	assert.ErrorContains(t, err, "absolute URL")
}

func TestDocumentRepo_ListByEmail_NewestFirst(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()

		tp := NewFixedTimeProvider(testutil.TestTime())
		repo := NewDocumentRepoWithTimeProvider(db, tp)

		email := uniqueEmail("order")
		for i, name := range []string{"First", "Second", "Third"} {
			tp.SetTime(testutil.TestTime().Add(time.Duration(i) * time.Hour))
			req := testutil.NewDocumentRequest().WithUserEmail(email).WithName(name).Build()
			_, err := repo.Create(ctx, &req)
			require.NoError(t, err)
		}

		docs, err := repo.ListByEmail(ctx, email)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "Third", docs[0].Name)
		assert.Equal(t, "First", docs[2].Name)
	})
}

func TestDocumentRepo_ListByEmail_DoesNotLeakOthers(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewDocumentRepo(db)

		mine := uniqueEmail("mine")
		other := uniqueEmail("other")
		createTestDocument(t, db, mine, "Mine")
		createTestDocument(t, db, other, "Theirs")

		docs, err := repo.ListByEmail(ctx, mine)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Mine", docs[0].Name)
	})
}

func TestDocumentRepo_ListWithOptions(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewDocumentRepo(db)

		email := uniqueEmail("search")
		createTestDocument(t, db, email, "Thesis Draft")
		createTestDocument(t, db, email, "Patent Form")

		// substring search on document name, case-insensitive
		docs, err := repo.ListWithOptions(ctx, model.DocumentsListOptions{Q: "thesis"})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Thesis Draft", docs[0].Name)

		// search on owner email matches both
		docs, err = repo.ListWithOptions(ctx, model.DocumentsListOptions{Q: email})
		require.NoError(t, err)
		assert.Len(t, docs, 2)

		// status filter
		_, err = repo.UpdateStatus(ctx, docs[0].ID, model.UpdateDocumentStatusRequest{
			Status: model.DocumentStatusInProgress,
		})
		require.NoError(t, err)

		docs, err = repo.ListWithOptions(ctx, model.DocumentsListOptions{
			Q:      email,
			Status: model.DocumentStatusInProgress,
		})
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})
}

func TestDocumentRepo_UpdateStatus_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewDocumentRepo(db)
		_, err := repo.UpdateStatus(
			context.Background(),
			"00000000-0000-0000-0000-000000000000",
			model.UpdateDocumentStatusRequest{Status: model.DocumentStatusCompleted},
		)
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})
}

func TestDocumentRepo_UpdateStatus_InvalidStatus(t *testing.T) {
	repo := NewDocumentRepo(nil)
	_, err := repo.UpdateStatus(
		context.Background(),
		"some-id",
		model.UpdateDocumentStatusRequest{Status: "archived"},
	)
	assert.ErrorContains(t, err, "invalid status")
}
