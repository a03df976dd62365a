package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kindergarten/internal/database"
	"kindergarten/internal/listing"
	"kindergarten/internal/models"
)

var groupSelect = selectSpec[models.Group]{
	columns: `g.id, g.group_name, g.staff_id, g.child_count, g.year_of_creation, g.type_id,
		s.id, s.full_name, gt.id, gt.name_of_type`,
	from: `FROM study_groups g
		LEFT JOIN staff s ON s.id = g.staff_id
		LEFT JOIN group_types gt ON gt.id = g.type_id`,
	idExpr: "g.id",
	scan: func(row rowScanner) (models.Group, error) {
		var g models.Group
		var staffID, childCount, year, typeID, joinedStaffID, joinedTypeID sql.NullInt64
		var staffName, typeName sql.NullString
		if err := row.Scan(
			&g.ID,
			&g.Name,
			&staffID,
			&childCount,
			&year,
			&typeID,
			&joinedStaffID,
			&staffName,
			&joinedTypeID,
			&typeName,
		); err != nil {
			return g, err
		}
		g.StaffID = int64Ptr(staffID)
		g.ChildCount = intPtr(childCount)
		g.YearOfCreation = intPtr(year)
		g.TypeID = int64Ptr(typeID)
		if joinedStaffID.Valid {
			g.Staff = &models.Staff{ID: joinedStaffID.Int64, FullName: staffName.String}
		}
		if joinedTypeID.Valid {
			g.Type = &models.GroupType{ID: joinedTypeID.Int64, Name: typeName.String}
		}
		return g, nil
	},
}

// GroupRepository handles database operations for groups
type GroupRepository struct {
	db *database.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *database.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// GetByID retrieves a group with its supervisor and type, nil if absent
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	g, err := groupSelect.getByID(ctx, r.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

// All returns every group ordered by name
func (r *GroupRepository) All(ctx context.Context) ([]models.Group, error) {
	groups, err := groupSelect.all(ctx, r.db, "g.group_name, g.id")
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	return groups, nil
}

// Query builds the filtered, ordered list view
func (r *GroupRepository) Query(_ context.Context, sort listing.SortKey, filter listing.Filter) (listing.View[models.Group], error) {
	return newListView(r.db, groupSelect, listing.GroupKind, sort, filter), nil
}

// Create inserts a group and returns its id
func (r *GroupRepository) Create(ctx context.Context, g *models.Group) (int64, error) {
	query := `
		INSERT INTO study_groups (group_name, staff_id, child_count, year_of_creation, type_id)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		g.Name, nullable(g.StaffID), nullable(g.ChildCount), nullable(g.YearOfCreation), nullable(g.TypeID))
	if err != nil {
		return 0, fmt.Errorf("failed to create group: %w", err)
	}
	return id, nil
}

// Update saves a group; ErrConcurrencyConflict when no row matched
func (r *GroupRepository) Update(ctx context.Context, g *models.Group) error {
	query := `
		UPDATE study_groups
		SET group_name = ?, staff_id = ?, child_count = ?, year_of_creation = ?, type_id = ?
		WHERE id = ?
	`
	err := updateOne(ctx, r.db, query,
		g.Name, nullable(g.StaffID), nullable(g.ChildCount), nullable(g.YearOfCreation), nullable(g.TypeID), g.ID)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}

// Delete removes a group; its children keep a NULL group
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	err := deleteNullingReferences(ctx, r.db, "study_groups", id, reference{table: "children", column: "group_id"})
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

// Exists checks whether a group with the id exists
func (r *GroupRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := exists(ctx, r.db, "study_groups", id)
	if err != nil {
		return false, fmt.Errorf("failed to check group: %w", err)
	}
	return ok, nil
}
