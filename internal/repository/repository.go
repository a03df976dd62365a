package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kindergarten/internal/database"
)

var (
	// ErrNotFound is returned when a row addressed by id does not exist
	ErrNotFound = errors.New("record not found")
	// ErrConcurrencyConflict is returned when an UPDATE matched no row
	ErrConcurrencyConflict = errors.New("concurrency conflict: row changed or removed")
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// reference is a nullable foreign key column pointing at another table
type reference struct {
	table  string
	column string
}

// selectSpec describes how to read one entity together with its eager joins
type selectSpec[T any] struct {
	columns string
	from    string
	idExpr  string
	scan    func(rowScanner) (T, error)
}

func (s selectSpec[T]) getByID(ctx context.Context, db database.DBTX, id int64) (*T, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE %s = ?", s.columns, s.from, s.idExpr)
	item, err := s.scan(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s selectSpec[T]) all(ctx context.Context, db database.DBTX, orderBy string) ([]T, error) {
	query := fmt.Sprintf("SELECT %s %s ORDER BY %s", s.columns, s.from, orderBy)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// updateOne runs an UPDATE expected to touch exactly one row
func updateOne(ctx context.Context, db database.DBTX, query string, args ...interface{}) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConcurrencyConflict
	}
	return nil
}

// exists reports whether table has a row with the id
func exists(ctx context.Context, db database.DBTX, table string, id int64) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// deleteNullingReferences clears every reference to the row, then deletes it, in one transaction
func deleteNullingReferences(ctx context.Context, db *database.DB, table string, id int64, refs ...reference) error {
	return db.WithTx(ctx, func(tx *database.Tx) error {
		for _, ref := range refs {
			query := fmt.Sprintf("UPDATE %s SET %s = NULL WHERE %s = ?", ref.table, ref.column, ref.column)
			if _, err := tx.ExecContext(ctx, query, id); err != nil {
				return fmt.Errorf("failed to clear %s.%s: %w", ref.table, ref.column, err)
			}
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// nullable turns a nil pointer into SQL NULL and dereferences the rest
func nullable[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
