package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"kindergarten/internal/database"
	"kindergarten/internal/listing"
)

// buildWhere turns the non-empty filter values into AND-ed predicates
func buildWhere(dialect database.Dialect, kind *listing.Kind, filter listing.Filter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	for _, field := range kind.Filters {
		value := filter.Value(field.Name)
		if value == "" {
			continue
		}
		switch field.Mode {
		case listing.MatchEquals:
			n, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			clauses = append(clauses, field.Expr+" = ?")
			args = append(args, n)
		default:
			clauses = append(clauses, dialect.ContainsPredicate(field.Expr))
			args = append(args, "%"+value+"%")
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// buildOrderBy returns the ORDER BY clause for key, or nothing for unknown keys
func buildOrderBy(kind *listing.Kind, key listing.SortKey) string {
	o, ok := kind.Sorts.Lookup(key)
	if !ok {
		return ""
	}
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", o.Expr, dir)
}

// listView is a filtered, ordered SELECT that is counted and paged on demand
type listView[T any] struct {
	db      database.DBTX
	spec    selectSpec[T]
	where   string
	args    []interface{}
	orderBy string
}

func newListView[T any](db database.DBTX, spec selectSpec[T], kind *listing.Kind, sort listing.SortKey, filter listing.Filter) *listView[T] {
	where, args := buildWhere(db.GetDialect(), kind, filter)
	return &listView[T]{
		db:      db,
		spec:    spec,
		where:   where,
		args:    args,
		orderBy: buildOrderBy(kind, sort),
	}
}

func (v *listView[T]) Count(ctx context.Context) (int, error) {
	query := "SELECT COUNT(*) " + v.spec.from + v.where
	var count int
	if err := v.db.QueryRowContext(ctx, query, v.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}

func (v *listView[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	query := "SELECT " + v.spec.columns + " " + v.spec.from + v.where + v.orderBy + " LIMIT ? OFFSET ?"
	args := append(append([]interface{}{}, v.args...), limit, offset)

	rows, err := v.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := v.spec.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
