package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Patterns for pulling structure out of PgError.Detail text.
var (
	// "Key (field)=(value) already exists."
	reDetailKey = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// "... is still referenced from table "x"."
	reStillReferenced = regexp.MustCompile(`is still referenced from table "?([^"]+)"?`)
	// "... is not present in table "x"."
	reMissingParent = regexp.MustCompile(`is not present in table "?([^"]+)"?`)
)

// friendlyTableNames maps schema tables to the nouns shown to users.
var friendlyTableNames = map[string]string{
	"accounts":       "Account",
	"user_documents": "Document",
}

// MapDBError translates database failures into AppError values with stable
// codes:
//
//	pgx.ErrNoRows                  NotFound
//	unique_violation               Conflict
//	foreign_key_violation          ForeignKey
//	check / not_null violations    Validation
//	context deadline / cancel      Timeout / Canceled
//
// Anything else passes through unchanged.
func MapDBError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return &AppError{Code: ErrCodeTimeout, Message: "Request timed out. Please try again.", Cause: err}
	case errors.Is(err, context.Canceled):
		return &AppError{Code: ErrCodeCanceled, Message: "Request was canceled.", Cause: err}
	case errors.Is(err, pgx.ErrNoRows):
		return &AppError{Code: ErrCodeNotFound, Message: "Resource not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return conflictFromUnique(pgErr)
	case pgerrcode.ForeignKeyViolation:
		return foreignKeyViolation(pgErr)
	case pgerrcode.NotNullViolation:
		return validationViolation(pgErr, "This field is required.", "Required field is missing. Please check your input.")
	case pgerrcode.CheckViolation:
		return validationViolation(pgErr, "This field has an invalid value.", "Invalid data. Please check your input.")
	default:
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred. Please try again.",
			Cause:   pgErr,
		}
	}
}

// conflictFromUnique builds a Conflict error, attaching the violating field
// when it can be determined. ColumnName is authoritative when Postgres sets
// it; the Detail text and finally the constraint name serve as fallbacks.
func conflictFromUnique(pgErr *pgconn.PgError) error {
	field := pgErr.ColumnName
	if field == "" && pgErr.Detail != "" {
		if m := reDetailKey.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			field = m[1]
		}
	}
	if field == "" {
		field = fieldFromConstraint(pgErr.ConstraintName)
	}

	return &AppError{
		Code:    ErrCodeConflict,
		Message: "This value already exists. Please choose a different one.",
		Field:   field,
		Cause:   pgErr,
	}
}

func validationViolation(pgErr *pgconn.PgError, fieldMessage, genericMessage string) error {
	if pgErr.ColumnName != "" {
		return &AppError{
			Code:    ErrCodeValidation,
			Message: fieldMessage,
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	}
	return &AppError{
		Code:    ErrCodeValidation,
		Message: genericMessage,
		Cause:   pgErr,
	}
}

// foreignKeyViolation distinguishes deleting a still-referenced parent from
// inserting a child whose parent is missing, based on the Detail text.
func foreignKeyViolation(pgErr *pgconn.PgError) error {
	var message string

	if pgErr.Detail != "" {
		if m := reStillReferenced.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			message = "Cannot delete because this item is in use by " + friendlyTableName(m[1]) + "."
		} else if m := reMissingParent.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			message = "Cannot complete operation because the referenced " + friendlyTableName(m[1]) + " does not exist."
		}
	}
	if message == "" && pgErr.TableName != "" {
		message = "Cannot complete operation because this item is in use by " + friendlyTableName(pgErr.TableName) + "."
	}
	if message == "" {
		message = foreignKeyFallbackMessage(pgErr.ConstraintName)
	}

	return &AppError{
		Code:    ErrCodeForeignKey,
		Message: message,
		Cause:   pgErr,
	}
}

// fieldFromConstraint guesses the column behind a single-column constraint
// name such as "accounts_email_key". Multi-column and expression-index names
// are ambiguous, so those return "".
func fieldFromConstraint(constraintName string) string {
	parts := strings.Split(constraintName, "_")
	if len(parts) != 3 {
		return ""
	}
	candidate := parts[1]
	if isSQLFunctionName(candidate) {
		// Expression index like "accounts_lower_key".
		return ""
	}
	return candidate
}

func foreignKeyFallbackMessage(constraintName string) string {
	name := strings.ToLower(constraintName)
	switch {
	case strings.Contains(name, "document"):
		return "Cannot complete operation because it is in use by a Document."
	case strings.Contains(name, "account"):
		return "Cannot complete operation because it is in use by an Account."
	default:
		return "Cannot complete operation because this item is in use."
	}
}

// friendlyTableName returns the user-facing noun for a schema table, falling
// back to title-casing the raw name for tables outside the known set.
func friendlyTableName(tableName string) string {
	tableName = strings.ToLower(strings.TrimSpace(tableName))
	if name, ok := friendlyTableNames[tableName]; ok {
		return name
	}
	return titleWords(strings.ReplaceAll(tableName, "_", " "))
}

func titleWords(s string) string {
	words := strings.Split(s, " ")
	for i, word := range words {
		if len(word) > 0 && word[0] >= 'a' && word[0] <= 'z' {
			words[i] = string(word[0]-'a'+'A') + word[1:]
		}
	}
	return strings.Join(words, " ")
}

var sqlFunctionNames = map[string]struct{}{
	"lower": {}, "upper": {}, "trim": {}, "ltrim": {}, "rtrim": {},
	"md5": {}, "sha1": {}, "sha256": {}, "encode": {}, "decode": {},
}

func isSQLFunctionName(s string) bool {
	_, ok := sqlFunctionNames[strings.ToLower(s)]
	return ok
}
