package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samprabha/portal/internal/core"
	apperrors "github.com/samprabha/portal/internal/errors"
	"github.com/samprabha/portal/internal/data/pgxutil"
	"github.com/samprabha/portal/internal/domain/model"
	"golang.org/x/crypto/bcrypt"
)

// AccountRepo provides database operations for accounts.
type AccountRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAccountRepo creates a new AccountRepo with real time provider.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewAccountRepoWithTimeProvider creates a new AccountRepo with a custom time provider (useful for tests).
func NewAccountRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *AccountRepo {
	return &AccountRepo{DB: db, timeProvider: tp}
}

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	accountGetByIDQuery = `
		SELECT id, email, password_hash, display_name, avatar_url, provider, created_at
		FROM accounts
		WHERE id = $1`

	accountGetByEmailQuery = `
		SELECT id, email, password_hash, display_name, avatar_url, provider, created_at
		FROM accounts
		WHERE email = $1`

	accountListQuery = `
		SELECT id, email, password_hash, display_name, avatar_url, provider, created_at
		FROM accounts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
)

// Create registers a new email/password account. The password is hashed with
// bcrypt before it is stored.
func (r *AccountRepo) Create(ctx context.Context, req *model.CreateAccountRequest) (*model.Account, error) {
	if req == nil {
		return nil, errors.New("create account request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Account
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, `
			INSERT INTO accounts (
				email, password_hash, display_name, provider, created_at
			) VALUES (
				$1, $2, $3, 'password', $4
			) RETURNING id, email, password_hash, display_name, avatar_url, provider, created_at
		`,
			strings.ToLower(strings.TrimSpace(req.Email)),
			string(hash),
			strings.TrimSpace(req.DisplayName),
			createdAt,
		)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return qErr
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// UpsertOAuth creates or refreshes an account from a Google identity. An
// existing account keeps its password hash and provider; profile fields are
// refreshed only when the identity carries them.
func (r *AccountRepo) UpsertOAuth(ctx context.Context, params core.UpsertOAuthParams) (*model.Account, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return nil, errors.New("email is required")
	}

	var avatar *string
	if params.AvatarURL != "" {
		avatar = &params.AvatarURL
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Account
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, `
			INSERT INTO accounts (
				email, display_name, avatar_url, provider, created_at
			) VALUES (
				$1, $2, $3, 'google', $4
			)
			ON CONFLICT (email) DO UPDATE SET
				display_name = CASE WHEN EXCLUDED.display_name <> '' THEN EXCLUDED.display_name ELSE accounts.display_name END,
				avatar_url = COALESCE(EXCLUDED.avatar_url, accounts.avatar_url)
			RETURNING id, email, password_hash, display_name, avatar_url, provider, created_at
		`,
			email,
			strings.TrimSpace(params.DisplayName),
			avatar,
			createdAt,
		)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return qErr
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return r.getByQuery(ctx, accountGetByIDQuery, "failed to get account by ID", id)
}

// GetByEmail retrieves an account by email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.getByQuery(
		ctx,
		accountGetByEmailQuery,
		"failed to get account by email",
		strings.ToLower(strings.TrimSpace(email)),
	)
}

// Authenticate verifies an email/password pair. It returns
// ErrInvalidCredentials for unknown emails, Google-only accounts, and
// password mismatches alike so callers cannot probe which emails exist.
func (r *AccountRepo) Authenticate(ctx context.Context, email, password string) (*model.Account, error) {
	account, err := r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if account.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// List retrieves accounts with pagination, newest first.
func (r *AccountRepo) List(ctx context.Context, limit, offset int) ([]*model.Account, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.Account
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, accountListQuery, limit, offset)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		rowsOut, qErr = pgx.CollectRows(rows, pgx.RowToStructByName[model.Account])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	res := make([]*model.Account, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// UpdateProfile updates the mutable profile fields of an account.
func (r *AccountRepo) UpdateProfile(
	ctx context.Context,
	id string,
	req model.UpdateProfileRequest,
) (*model.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Account
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildProfileUpdateClause(req)
		args = append(args, id)
		query := "UPDATE accounts SET " + setClause + " WHERE id = $" + strconv.Itoa(len(args)) +
			" RETURNING id, email, password_hash, display_name, avatar_url, provider, created_at"
		rows, qErr := conn.Query(ctx, query, args...)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return qErr
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// buildProfileUpdateClause builds the SQL SET clause and args for a profile update.
func (r *AccountRepo) buildProfileUpdateClause(req model.UpdateProfileRequest) (string, []any) {
	setParts := make([]string, 0, 2)
	args := make([]any, 0, 3)
	nextIdx := func() int { return len(args) + 1 }

	if req.DisplayName != nil {
		setParts = append(setParts, fmt.Sprintf("display_name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.DisplayName))
	}
	if req.AvatarURL != nil {
		if strings.TrimSpace(*req.AvatarURL) == "" {
			setParts = append(setParts, "avatar_url = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("avatar_url = $%d", nextIdx()))
			args = append(args, *req.AvatarURL)
		}
	}
	return strings.Join(setParts, ", "), args
}

// getByQuery is a helper function to execute a query and return a single account.
func (r *AccountRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.Account, error) {
	var account model.Account
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, q, args...)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		account, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return qErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &account, nil
}

// mapWriteErr maps the constraint failures callers branch on to sentinel
// errors. Everything else goes through apperrors.MapDBError so handlers still
// get a coded error for unexpected database failures.
func (r *AccountRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrAccountNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrAccountEmailExists
	}
	return apperrors.MapDBError(err)
}
