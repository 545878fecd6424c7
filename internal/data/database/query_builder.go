// Package database builds parameterized list queries for the portal's
// Postgres repositories. Identifiers are sanitized with pgx so callers can
// pass column and table names without hand-quoting them.
package database

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ConditionType string

const (
	Equal    ConditionType = "="
	NotEqual ConditionType = "!="
	ILike    ConditionType = "ILIKE"
	In       ConditionType = "IN"
	Custom   ConditionType = "CUSTOM"

	// Sentinel meaning "not set"; WithLimit/WithOffset only accept >= 0.
	unsetLimit  = -1
	unsetOffset = -1
)

// Condition is a single WHERE predicate. Build it with WhereCond or
// WhereRawCond rather than constructing the struct directly.
type Condition struct {
	Field    string
	Type     ConditionType
	Value    any
	rawQuery *string
}

// WhereCond builds a predicate on a single sanitized column.
func WhereCond(field string, condType ConditionType, value any) Condition {
	if condType == Custom {
		//nolint:forbidigo // panic prevents misuse; custom conditions must provide raw SQL via WhereRawCond.
		panic("use WhereRawCond for Custom conditions")
	}
	return Condition{Field: field, Type: condType, Value: value}
}

// WhereRawCond builds a predicate from raw SQL with $n placeholders.
// The SQL text is used verbatim; placeholders are renumbered when the
// final query is assembled, so callers always start counting at $1.
func WhereRawCond(rawQuery string, params ...any) Condition {
	var value any = params
	if len(params) == 0 {
		value = nil
	} else if len(params) == 1 {
		value = params[0]
	}
	return Condition{Type: Custom, rawQuery: &rawQuery, Value: value}
}

type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

type ListQueryOption func(*ListQueryOptions)

func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  unsetLimit,
		Offset: unsetOffset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns selects the given columns instead of *.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition appends one predicate to the WHERE clause.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithConditions replaces the WHERE predicates wholesale.
func WithConditions(conds ...Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = conds }
}

// WithOrderBy adds an ORDER BY on column in the given direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = direction
	}
}

// WithLimit adds a LIMIT. Zero is a valid limit; negatives are ignored.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset adds an OFFSET. Zero is valid; negatives are ignored.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// WithCountOnly turns the statement into a SELECT COUNT(*).
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) { o.CountOnly = true }
}

// BuildListQuery assembles the SQL text and positional arguments from options.
//
// Example:
//
//	options := NewListQueryOptions("user_documents",
//		WithColumns("id", "document_name", "status"),
//		WithCondition(WhereCond("status", Equal, "pending")),
//		WithCondition(WhereRawCond("(user_email ILIKE $1 OR document_name ILIKE $1)", "%water%")),
//		WithOrderBy("created_at", "DESC"),
//		WithLimit(20),
//		WithOffset(0),
//	)
//	query, args := BuildListQuery(options)
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder
	query.WriteString(selectClause(options))
	query.WriteString("FROM ")
	query.WriteString(sanitizeIdentifier(options.Table))

	whereClause, whereArgs, nextParam := buildWhereClause(options.Conditions, 1)
	if whereClause != "" {
		query.WriteString(" ")
		query.WriteString(whereClause)
	}

	if options.CountOnly {
		return query.String(), whereArgs
	}

	tail, finalArgs := orderAndPageClause(options, nextParam, whereArgs)
	query.WriteString(tail)

	return query.String(), finalArgs
}

func selectClause(options *ListQueryOptions) string {
	if options.CountOnly {
		return "SELECT COUNT(*) "
	}
	if len(options.Columns) == 0 {
		return "SELECT * "
	}

	cols := make([]string, len(options.Columns))
	for i, col := range options.Columns {
		cols[i] = sanitizeColumnSpec(col)
	}
	return fmt.Sprintf("SELECT %s ", strings.Join(cols, ", "))
}

func orderAndPageClause(options *ListQueryOptions, startParam int, args []any) (string, []any) {
	var clause strings.Builder
	param := startParam

	if options.OrderBy != "" {
		clause.WriteString(" ORDER BY ")
		clause.WriteString(sanitizeQualifiedIdentifier(options.OrderBy))
		dir := strings.ToUpper(options.OrderDir)
		if dir == "ASC" || dir == "DESC" {
			clause.WriteString(" ")
			clause.WriteString(dir)
		}
	}

	if options.Limit != unsetLimit {
		clause.WriteString(fmt.Sprintf(" LIMIT $%d", param))
		args = append(args, options.Limit)
		param++
	}
	if options.Offset != unsetOffset {
		clause.WriteString(fmt.Sprintf(" OFFSET $%d", param))
		args = append(args, options.Offset)
	}

	return clause.String(), args
}

func sanitizeIdentifier(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

// sanitizeQualifiedIdentifier handles dotted identifiers like "table.column".
func sanitizeQualifiedIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

var columnAliasRegex = regexp.MustCompile(`(?i)\s+AS\s+`)

// sanitizeColumnSpec quotes a column reference, preserving an "expr AS alias" form.
func sanitizeColumnSpec(spec string) string {
	if parts := columnAliasRegex.Split(spec, 2); len(parts) == 2 {
		return fmt.Sprintf("%s AS %s",
			sanitizeQualifiedIdentifier(strings.TrimSpace(parts[0])),
			sanitizeIdentifier(strings.TrimSpace(parts[1])))
	}
	return sanitizeQualifiedIdentifier(spec)
}

func buildWhereClause(inputConditions []Condition, startParam int) (string, []any, int) {
	conditions := make([]string, 0, len(inputConditions))
	args := []any{}
	param := startParam

	for _, cond := range inputConditions {
		sql, condArgs, nextParam := renderCondition(cond, param)
		if sql == "" {
			continue
		}
		conditions = append(conditions, sql)
		args = append(args, condArgs...)
		param = nextParam
	}

	if len(conditions) == 0 {
		return "", args, param
	}
	return "WHERE " + strings.Join(conditions, " AND "), args, param
}

func renderCondition(cond Condition, param int) (string, []any, int) {
	switch cond.Type {
	case Custom:
		return renderCustomCondition(cond, param)
	case In:
		return renderInCondition(cond, param)
	case Equal, NotEqual, ILike:
		if cond.Field == "" {
			return "", nil, param
		}
		sql := fmt.Sprintf("%s %s $%d", sanitizeIdentifier(cond.Field), cond.Type, param)
		return sql, []any{cond.Value}, param + 1
	}
	return "", nil, param
}

func renderInCondition(cond Condition, param int) (string, []any, int) {
	if cond.Field == "" {
		return "", nil, param
	}

	// Accept any slice type via reflection.
	rv := reflect.ValueOf(cond.Value)
	if rv.Kind() != reflect.Slice || rv.Len() == 0 {
		return "", nil, param
	}

	placeholders := make([]string, rv.Len())
	args := make([]any, rv.Len())
	for i := range rv.Len() {
		placeholders[i] = fmt.Sprintf("$%d", param)
		args[i] = rv.Index(i).Interface()
		param++
	}
	sql := fmt.Sprintf("%s IN (%s)", sanitizeIdentifier(cond.Field), strings.Join(placeholders, ", "))
	return sql, args, param
}

var placeholderRegex = regexp.MustCompile(`\$(\d+)`)

// renderCustomCondition renumbers $n placeholders in the raw SQL so they slot
// into the assembled query. Repeated placeholders map to the same argument.
func renderCustomCondition(cond Condition, param int) (string, []any, int) {
	if cond.rawQuery == nil || *cond.rawQuery == "" {
		return "", nil, param
	}

	var params []any
	switch v := cond.Value.(type) {
	case nil:
	case []any:
		params = v
	default:
		params = []any{v}
	}
	if len(params) == 0 {
		return *cond.rawQuery, []any{}, param
	}

	args := []any{}
	seen := make(map[int]int)
	sql := placeholderRegex.ReplaceAllStringFunc(*cond.rawQuery, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(params) {
			return m
		}
		if _, ok := seen[n]; !ok {
			seen[n] = param
			args = append(args, params[n-1])
			param++
		}
		return fmt.Sprintf("$%d", seen[n])
	})

	return sql, args, param
}
