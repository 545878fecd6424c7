package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/samprabha/portal/internal/core"
	"github.com/samprabha/portal/internal/domain/model"
	"github.com/samprabha/portal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func TestAccountRepo_Create_Get_Authenticate(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountRepo(db)

		email := uniqueEmail("create")
		req := testutil.NewAccountRequest().
			WithEmail(email).
			WithPassword("hunter2hunter2").
			WithDisplayName("Create Test").
			Build()

		acct, err := repo.Create(ctx, &req)
		require.NoError(t, err)
		require.NotEmpty(t, acct.ID)
		assert.Equal(t, email, acct.Email)
		assert.Equal(t, "Create Test", acct.DisplayName)
		assert.Equal(t, "password", acct.Provider)
		require.NotNil(t, acct.PasswordHash)
		assert.NotEqual(t, "hunter2hunter2", *acct.PasswordHash)
		assert.NotZero(t, acct.CreatedAt)

		// get by id
		got, err := repo.GetByID(ctx, acct.ID)
		require.NoError(t, err)
		assert.Equal(t, acct.Email, got.Email)

		// get by email normalizes case
		byEmail, err := repo.GetByEmail(ctx, "  "+email+"  ")
		require.NoError(t, err)
		assert.Equal(t, acct.ID, byEmail.ID)

		// authenticate
		authed, err := repo.Authenticate(ctx, email, "hunter2hunter2")
		require.NoError(t, err)
		assert.Equal(t, acct.ID, authed.ID)

		// wrong password
		_, err = repo.Authenticate(ctx, email, "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		// unknown email gets the same error
		_, err = repo.Authenticate(ctx, uniqueEmail("ghost"), "hunter2hunter2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAccountRepo_Create_DuplicateEmail(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountRepo(db)

		email := uniqueEmail("dup")
		req := testutil.NewAccountRequest().WithEmail(email).Build()

		_, err := repo.Create(ctx, &req)
		require.NoError(t, err)

		_, err = repo.Create(ctx, &req)
		assert.ErrorIs(t, err, ErrAccountEmailExists)
	})
}

func TestAccountRepo_Create_Validation(t *testing.T) {
	repo := NewAccountRepo(nil)

	_, err := repo.Create(context.Background(), nil)
	assert.Error(t, err)

	req := testutil.NewAccountRequest().WithPassword("short").Build()
	_, err = repo.Create(context.Background(), &req)
	assert.ErrorContains(t, err, "at least 8 characters")
}

func TestAccountRepo_UpsertOAuth(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountRepo(db)

		email := uniqueEmail("oauth")
		acct, err := repo.UpsertOAuth(ctx, core.UpsertOAuthParams{
			Email:       email,
			DisplayName: "OAuth User",
			AvatarURL:   "https://lh3.googleusercontent.com/a/photo",
		})
		require.NoError(t, err)
		assert.Equal(t, "google", acct.Provider)
		assert.Nil(t, acct.PasswordHash)
		require.NotNil(t, acct.AvatarURL)

		// Second sign-in refreshes profile fields but keeps the row
		again, err := repo.UpsertOAuth(ctx, core.UpsertOAuthParams{
			Email:       email,
			DisplayName: "Renamed User",
		})
		require.NoError(t, err)
		assert.Equal(t, acct.ID, again.ID)
		assert.Equal(t, "Renamed User", again.DisplayName)
		// Avatar survives a sign-in that carries none
		require.NotNil(t, again.AvatarURL)
	})
}

func TestAccountRepo_UpsertOAuth_KeepsPasswordHash(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountRepo(db)

		email := uniqueEmail("mixed")
		req := testutil.NewAccountRequest().WithEmail(email).WithPassword("hunter2hunter2").Build()
		created, err := repo.Create(ctx, &req)
		require.NoError(t, err)

		upserted, err := repo.UpsertOAuth(ctx, core.UpsertOAuthParams{Email: email, DisplayName: "Via Google"})
		require.NoError(t, err)
		assert.Equal(t, created.ID, upserted.ID)
		require.NotNil(t, upserted.PasswordHash)
		assert.Equal(t, "password", upserted.Provider)

		// Password sign-in still works after the Google sign-in
		_, err = repo.Authenticate(ctx, email, "hunter2hunter2")
		require.NoError(t, err)
	})
}

func TestAccountRepo_UpdateProfile(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountRepo(db)

		req := testutil.NewAccountRequest().WithEmail(uniqueEmail("profile")).Build()
		acct, err := repo.Create(ctx, &req)
		require.NoError(t, err)

		updated, err := repo.UpdateProfile(ctx, acct.ID, model.UpdateProfileRequest{
			DisplayName: testutil.StringPtr("New Name"),
			AvatarURL:   testutil.StringPtr("https://cdn.example.com/a.png"),
		})
		require.NoError(t, err)
		assert.Equal(t, "New Name", updated.DisplayName)
		require.NotNil(t, updated.AvatarURL)
		assert.Equal(t, "https://cdn.example.com/a.png", *updated.AvatarURL)

		// Empty avatar clears the field
		cleared, err := repo.UpdateProfile(ctx, acct.ID, model.UpdateProfileRequest{
			AvatarURL: testutil.StringPtr(""),
		})
		require.NoError(t, err)
		assert.Nil(t, cleared.AvatarURL)

		// No fields is a validation error
		_, err = repo.UpdateProfile(ctx, acct.ID, model.UpdateProfileRequest{})
		assert.Error(t, err)

		// Unknown account
		_, err = repo.UpdateProfile(ctx, "00000000-0000-0000-0000-000000000000", model.UpdateProfileRequest{
			DisplayName: testutil.StringPtr("Nobody"),
		})
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestAccountRepo_List(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountRepo(db)

		for i := range 3 {
			req := testutil.NewAccountRequest().WithEmail(uniqueEmail(fmt.Sprintf("list%d", i))).Build()
			_, err := repo.Create(ctx, &req)
			require.NoError(t, err)
		}

		accounts, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(accounts), 3)
	})
}
