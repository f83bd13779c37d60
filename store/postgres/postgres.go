package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/slugkit/store"
)

// Store persists slug records in the slug_records table.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a PostgreSQL-backed store over an established pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get fetches a record by root type and ID.
func (s *Store) Get(ctx context.Context, rootType, id string) (*store.Record, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, type, parent_id, refs, fields, slug_attr, COALESCE(slug, ''), slug_history
		FROM slug_records
		WHERE root_type = $1 AND id = $2`,
		rootType, id,
	)
	rec, err := scanRecord(row, rootType)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return rec, err
}

// Save upserts a record. A rejection by a scoped unique slug index is
// reported as store.ErrDuplicateSlug.
func (s *Store) Save(ctx context.Context, rec *store.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.RootType == "" {
		rec.RootType = rec.Type
	}

	refs, err := json.Marshal(orEmpty(rec.Refs))
	if err != nil {
		return err
	}
	fields, err := json.Marshal(orEmptyAny(rec.Fields))
	if err != nil {
		return err
	}

	var slug *string
	if rec.Slug != "" {
		slug = &rec.Slug
	}
	history := rec.SlugHistory
	if history == nil {
		history = []string{}
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO slug_records (id, root_type, type, parent_id, refs, fields, slug_attr, slug, slug_history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			parent_id = EXCLUDED.parent_id,
			refs = EXCLUDED.refs,
			fields = EXCLUDED.fields,
			slug_attr = EXCLUDED.slug_attr,
			slug = EXCLUDED.slug,
			slug_history = EXCLUDED.slug_history,
			updated_at = now()`,
		rec.ID, rec.RootType, rec.Type, rec.ParentID, refs, fields, rec.SlugAttr(), slug, history,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName != "slug_records_pkey" {
		return errors.Join(store.ErrDuplicateSlug, err)
	}
	return err
}

// Delete removes a record. Missing records are ignored.
func (s *Store) Delete(ctx context.Context, rootType, id string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM slug_records WHERE root_type = $1 AND id = $2`,
		rootType, id,
	)
	return err
}

// Claims returns every slug value held within the filtered scope.
func (s *Store) Claims(ctx context.Context, f store.Filter, includeHistory bool) ([]store.Claim, error) {
	where, args := scopeWhere(f)
	rows, err := s.pool.Query(ctx,
		`SELECT id, COALESCE(slug, ''), slug_history FROM slug_records WHERE `+where,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []store.Claim
	for rows.Next() {
		var id, slug string
		var history []string
		if err := rows.Scan(&id, &slug, &history); err != nil {
			return nil, err
		}
		if slug != "" {
			claims = append(claims, store.Claim{EntityID: id, Value: slug})
		}
		if includeHistory {
			for _, v := range history {
				claims = append(claims, store.Claim{EntityID: id, Value: v, FromHistory: true})
			}
		}
	}
	return claims, rows.Err()
}

// PullHistory removes value from the slug history of every record in scope.
func (s *Store) PullHistory(ctx context.Context, f store.Filter, value string) (int, error) {
	where, args := scopeWhere(f)
	args = append(args, value)
	n := len(args)

	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE slug_records
		SET slug_history = array_remove(slug_history, $%d), updated_at = now()
		WHERE %s AND $%d = ANY(slug_history)`, n, where, n),
		args...,
	)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// FindBySlug returns the records in scope holding value as their current slug
// or, when includeHistory is set, in their history.
func (s *Store) FindBySlug(ctx context.Context, f store.Filter, value string, includeHistory bool) ([]*store.Record, error) {
	where, args := scopeWhere(f)
	args = append(args, value)
	n := len(args)

	cond := fmt.Sprintf("slug = $%d", n)
	if includeHistory {
		cond = fmt.Sprintf("(slug = $%d OR $%d = ANY(slug_history))", n, n)
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, type, parent_id, refs, fields, slug_attr, COALESCE(slug, ''), slug_history
		FROM slug_records
		WHERE %s AND %s`, where, cond),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*store.Record
	for rows.Next() {
		rec, err := scanRecord(rows, f.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// EnsureIndex creates the scoped unique index for one root type. Scope fields
// become index expressions over the jsonb columns; the partial predicate pins
// the index to the root type and keeps slug-less records out of the
// constraint.
func (s *Store) EnsureIndex(ctx context.Context, rootType string, spec store.IndexSpec) error {
	exprs := make([]string, 0, len(spec.ScopeFields)+1)
	for _, field := range spec.ScopeFields {
		expr, err := scopeExpr(field)
		if err != nil {
			return err
		}
		exprs = append(exprs, expr)
	}
	exprs = append(exprs, "slug")

	unique := ""
	if spec.Unique {
		unique = "UNIQUE "
	}
	stmt := fmt.Sprintf(
		`CREATE %sINDEX IF NOT EXISTS %s ON slug_records (%s) WHERE root_type = %s AND slug_attr = %s AND slug IS NOT NULL`,
		unique,
		indexName(rootType, spec.Attr),
		strings.Join(exprs, ", "),
		quoteLiteral(rootType),
		quoteLiteral(spec.Attr),
	)
	_, err := s.pool.Exec(ctx, stmt)
	return err
}

// scopeWhere translates the filter's scope predicates into a WHERE clause
// with numbered arguments.
func scopeWhere(f store.Filter) (string, []any) {
	args := []any{f.Type, f.SlugAttr()}
	conds := []string{"root_type = $1", "slug_attr = $2"}

	if f.ParentID != nil {
		args = append(args, *f.ParentID)
		conds = append(conds, fmt.Sprintf("parent_id = $%d", len(args)))
	}
	for name, target := range f.Refs {
		args = append(args, name, target)
		conds = append(conds, fmt.Sprintf("refs->>$%d = $%d", len(args)-1, len(args)))
	}
	for name, val := range f.Fields {
		args = append(args, name, fmt.Sprint(val))
		conds = append(conds, fmt.Sprintf("fields->>$%d = $%d", len(args)-1, len(args)))
	}
	if f.ExcludeID != "" {
		args = append(args, f.ExcludeID)
		conds = append(conds, fmt.Sprintf("id <> $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

// scopeExpr maps a scope field path to an index expression.
func scopeExpr(field string) (string, error) {
	switch {
	case field == "parent_id":
		return "parent_id", nil
	case strings.HasPrefix(field, "refs."):
		return fmt.Sprintf("(refs->>%s)", quoteLiteral(field[5:])), nil
	case strings.HasPrefix(field, "fields."):
		return fmt.Sprintf("(fields->>%s)", quoteLiteral(field[7:])), nil
	default:
		return "", fmt.Errorf("postgres: unsupported scope field %q", field)
	}
}

// indexName derives a stable identifier from the root type and attribute,
// reduced to characters valid in unquoted identifiers.
func indexName(rootType, attr string) string {
	sanitize := func(s string) string {
		var b strings.Builder
		for _, r := range strings.ToLower(s) {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			} else {
				b.WriteByte('_')
			}
		}
		return b.String()
	}
	return fmt.Sprintf("slug_records_%s_%s_uniq", sanitize(rootType), sanitize(attr))
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func orEmptyAny(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// scanRecord reads one slug_records row.
func scanRecord(row pgx.Row, rootType string) (*store.Record, error) {
	var (
		rec          store.Record
		refs, fields []byte
	)
	if err := row.Scan(&rec.ID, &rec.Type, &rec.ParentID, &refs, &fields, &rec.Attr, &rec.Slug, &rec.SlugHistory); err != nil {
		return nil, err
	}
	rec.RootType = rootType

	if len(refs) > 0 {
		if err := json.Unmarshal(refs, &rec.Refs); err != nil {
			return nil, err
		}
	}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &rec.Fields); err != nil {
			return nil, err
		}
	}
	if len(rec.Refs) == 0 {
		rec.Refs = nil
	}
	if len(rec.Fields) == 0 {
		rec.Fields = nil
	}
	return &rec, nil
}

var _ store.Store = (*Store)(nil)
