package repository

import (
	"context"
	"fmt"

	"kindergarten/internal/database"
	"kindergarten/internal/listing"
	"kindergarten/internal/models"
)

var groupTypeSelect = selectSpec[models.GroupType]{
	columns: "gt.id, gt.name_of_type, COALESCE(gt.note, '')",
	from:    "FROM group_types gt",
	idExpr:  "gt.id",
	scan: func(row rowScanner) (models.GroupType, error) {
		var g models.GroupType
		err := row.Scan(&g.ID, &g.Name, &g.Note)
		return g, err
	},
}

// GroupTypeRepository handles database operations for group types
type GroupTypeRepository struct {
	db *database.DB
}

// NewGroupTypeRepository creates a new group type repository
func NewGroupTypeRepository(db *database.DB) *GroupTypeRepository {
	return &GroupTypeRepository{db: db}
}

// GetByID retrieves a group type, nil if it does not exist
func (r *GroupTypeRepository) GetByID(ctx context.Context, id int64) (*models.GroupType, error) {
	g, err := groupTypeSelect.getByID(ctx, r.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get group type: %w", err)
	}
	return g, nil
}

// All returns every group type ordered by name
func (r *GroupTypeRepository) All(ctx context.Context) ([]models.GroupType, error) {
	types, err := groupTypeSelect.all(ctx, r.db, "gt.name_of_type, gt.id")
	if err != nil {
		return nil, fmt.Errorf("failed to query group types: %w", err)
	}
	return types, nil
}

// Query builds the filtered, ordered list view
func (r *GroupTypeRepository) Query(_ context.Context, sort listing.SortKey, filter listing.Filter) (listing.View[models.GroupType], error) {
	return newListView(r.db, groupTypeSelect, listing.GroupTypeKind, sort, filter), nil
}

// Create inserts a group type and returns its id
func (r *GroupTypeRepository) Create(ctx context.Context, g *models.GroupType) (int64, error) {
	id, err := r.db.ExecReturningID(ctx, "INSERT INTO group_types (name_of_type, note) VALUES (?, ?)", g.Name, g.Note)
	if err != nil {
		return 0, fmt.Errorf("failed to create group type: %w", err)
	}
	return id, nil
}

// Update saves a group type; ErrConcurrencyConflict when no row matched
func (r *GroupTypeRepository) Update(ctx context.Context, g *models.GroupType) error {
	err := updateOne(ctx, r.db, "UPDATE group_types SET name_of_type = ?, note = ? WHERE id = ?", g.Name, g.Note, g.ID)
	if err != nil {
		return fmt.Errorf("failed to update group type: %w", err)
	}
	return nil
}

// Delete removes a group type; groups of that type keep a NULL type
func (r *GroupTypeRepository) Delete(ctx context.Context, id int64) error {
	err := deleteNullingReferences(ctx, r.db, "group_types", id, reference{table: "study_groups", column: "type_id"})
	if err != nil {
		return fmt.Errorf("failed to delete group type: %w", err)
	}
	return nil
}

// Exists checks whether a group type with the id exists
func (r *GroupTypeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := exists(ctx, r.db, "group_types", id)
	if err != nil {
		return false, fmt.Errorf("failed to check group type: %w", err)
	}
	return ok, nil
}
