package repository

import (
	"context"
	"fmt"

	"kindergarten/internal/database"
	"kindergarten/internal/listing"
	"kindergarten/internal/models"
)

var parentSelect = selectSpec[models.Parent]{
	columns: "pa.id, pa.mother_name, pa.father_name",
	from:    "FROM parents pa",
	idExpr:  "pa.id",
	scan: func(row rowScanner) (models.Parent, error) {
		var p models.Parent
		err := row.Scan(&p.ID, &p.MotherName, &p.FatherName)
		return p, err
	},
}

// ParentRepository handles database operations for parents
type ParentRepository struct {
	db *database.DB
}

// NewParentRepository creates a new parent repository
func NewParentRepository(db *database.DB) *ParentRepository {
	return &ParentRepository{db: db}
}

// GetByID retrieves a parent record, nil if it does not exist
func (r *ParentRepository) GetByID(ctx context.Context, id int64) (*models.Parent, error) {
	p, err := parentSelect.getByID(ctx, r.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get parent: %w", err)
	}
	return p, nil
}

// All returns every parent record ordered by mother's name
func (r *ParentRepository) All(ctx context.Context) ([]models.Parent, error) {
	parents, err := parentSelect.all(ctx, r.db, "pa.mother_name, pa.father_name, pa.id")
	if err != nil {
		return nil, fmt.Errorf("failed to query parents: %w", err)
	}
	return parents, nil
}

// Query builds the filtered, ordered list view
func (r *ParentRepository) Query(_ context.Context, sort listing.SortKey, filter listing.Filter) (listing.View[models.Parent], error) {
	return newListView(r.db, parentSelect, listing.ParentKind, sort, filter), nil
}

// Create inserts a parent record and returns its id
func (r *ParentRepository) Create(ctx context.Context, p *models.Parent) (int64, error) {
	id, err := r.db.ExecReturningID(ctx,
		"INSERT INTO parents (mother_name, father_name) VALUES (?, ?)", p.MotherName, p.FatherName)
	if err != nil {
		return 0, fmt.Errorf("failed to create parent: %w", err)
	}
	return id, nil
}

// Update saves a parent record; ErrConcurrencyConflict when no row matched
func (r *ParentRepository) Update(ctx context.Context, p *models.Parent) error {
	err := updateOne(ctx, r.db,
		"UPDATE parents SET mother_name = ?, father_name = ? WHERE id = ?", p.MotherName, p.FatherName, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update parent: %w", err)
	}
	return nil
}

// Delete removes a parent record; their children keep a NULL parent
func (r *ParentRepository) Delete(ctx context.Context, id int64) error {
	err := deleteNullingReferences(ctx, r.db, "parents", id, reference{table: "children", column: "parent_id"})
	if err != nil {
		return fmt.Errorf("failed to delete parent: %w", err)
	}
	return nil
}

// Exists checks whether a parent record with the id exists
func (r *ParentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := exists(ctx, r.db, "parents", id)
	if err != nil {
		return false, fmt.Errorf("failed to check parent: %w", err)
	}
	return ok, nil
}
