package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/samprabha/portal/internal/data/database"
	"github.com/samprabha/portal/internal/data/pgxutil"
	"github.com/samprabha/portal/internal/domain/model"
	apperrors "github.com/samprabha/portal/internal/errors"
)

const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"
)

// DocumentRepo provides database operations for user documents.
type DocumentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewDocumentRepo creates a new DocumentRepo with real time provider.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewDocumentRepoWithTimeProvider creates a new DocumentRepo with a custom time provider (useful for tests).
func NewDocumentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *DocumentRepo {
	return &DocumentRepo{DB: db, timeProvider: tp}
}

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	documentGetByIDQuery = `
		SELECT id, user_id, user_email, document_name, document_url, status, created_at, updated_at
		FROM user_documents
		WHERE id = $1`

	documentListAllQuery = `
		SELECT id, user_id, user_email, document_name, document_url, status, created_at, updated_at
		FROM user_documents
		ORDER BY created_at DESC`

	documentListByEmailQuery = `
		SELECT id, user_id, user_email, document_name, document_url, status, created_at, updated_at
		FROM user_documents
		WHERE user_email = $1
		ORDER BY created_at DESC`
)

// Create inserts a new document. user_id is resolved to the matching account
// ID when one exists, and falls back to the owner email so documents can be
// provisioned before the client registers.
func (r *DocumentRepo) Create(ctx context.Context, req *model.CreateDocumentRequest) (*model.Document, error) {
	if req == nil {
		return nil, errors.New("create document request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.UserEmail)
	userID := r.resolveUserID(ctx, email)

	now := r.timeProvider.Now().UTC()
	var out model.Document
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, `
			INSERT INTO user_documents (
				user_id, user_email, document_name, document_url, status, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $6
			) RETURNING id, user_id, user_email, document_name, document_url, status, created_at, updated_at
		`,
			userID,
			email,
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.URL),
			req.Status,
			now,
		)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Document])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// resolveUserID returns the account ID for the given email, or the email
// itself when no account exists yet. Lookup failures also fall back to the
// email; the document remains reachable through user_email either way.
func (r *DocumentRepo) resolveUserID(ctx context.Context, email string) string {
	var id string
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `SELECT id FROM accounts WHERE email = $1`, strings.ToLower(email)).Scan(&id)
	})
	if err != nil {
		return email
	}
	return id
}

// GetByID retrieves a document by ID.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, documentGetByIDQuery, id)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		doc, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Document])
		return qErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document by ID: %w", err)
	}
	return &doc, nil
}

// ListAll retrieves every document, newest first.
func (r *DocumentRepo) ListAll(ctx context.Context) ([]*model.Document, error) {
	return r.listByQuery(ctx, documentListAllQuery, "failed to list documents")
}

// ListByEmail retrieves the documents owned by the given email, newest first.
func (r *DocumentRepo) ListByEmail(ctx context.Context, email string) ([]*model.Document, error) {
	return r.listByQuery(
		ctx,
		documentListByEmailQuery,
		"failed to list documents by email",
		strings.TrimSpace(email),
	)
}

// ListWithOptions retrieves documents with optional search and pagination for
// the admin views.
func (r *DocumentRepo) ListWithOptions(
	ctx context.Context,
	opts model.DocumentsListOptions,
) ([]*model.Document, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(documentColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithOrderBy("created_at", sortDirDesc),
	}
	if q := strings.TrimSpace(opts.Q); q != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereRawCond("(user_email ILIKE $1 OR document_name ILIKE $1)", "%"+q+"%"),
		))
	}
	if opts.Status != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, string(opts.Status)),
		))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("user_documents", queryOpts...))

	var rowsOut []model.Document
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, query, args...)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		rowsOut, qErr = pgx.CollectRows(rows, pgx.RowToStructByName[model.Document])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to list documents with options: %w", err)
	}
	res := make([]*model.Document, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// UpdateStatus changes a document status and stamps updated_at.
func (r *DocumentRepo) UpdateStatus(
	ctx context.Context,
	id string,
	req model.UpdateDocumentStatusRequest,
) (*model.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.Document
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, `
			UPDATE user_documents
			SET status = $1, updated_at = $2
			WHERE id = $3
			RETURNING id, user_id, user_email, document_name, document_url, status, created_at, updated_at
		`, req.Status, now, id)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Document])
		return qErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to update document status: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// Delete deletes a document by ID.
func (r *DocumentRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, execErr := conn.Exec(ctx, `DELETE FROM user_documents WHERE id = $1`, id)
		if execErr != nil {
			return execErr
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

// documentColumns returns the standard column list for document queries.
func documentColumns() []string {
	return []string{
		"id",
		"user_id",
		"user_email",
		"document_name",
		"document_url",
		"status",
		"created_at",
		"updated_at",
	}
}

func (r *DocumentRepo) listByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) ([]*model.Document, error) {
	var rowsOut []model.Document
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, q, args...)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		rowsOut, qErr = pgx.CollectRows(rows, pgx.RowToStructByName[model.Document])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	res := make([]*model.Document, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
