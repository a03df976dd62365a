package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kindergarten/internal/database"
	"kindergarten/internal/listing"
	"kindergarten/internal/models"
)

var childSelect = selectSpec[models.Child]{
	columns: `c.id, c.full_name, c.birth_date, c.gender, c.parent_id, c.address, c.group_id,
		COALESCE(c.note, ''), c.other_group,
		pa.id, pa.mother_name, pa.father_name, g.id, g.group_name`,
	from: `FROM children c
		LEFT JOIN parents pa ON pa.id = c.parent_id
		LEFT JOIN study_groups g ON g.id = c.group_id`,
	idExpr: "c.id",
	scan: func(row rowScanner) (models.Child, error) {
		var c models.Child
		var birthDate sql.NullTime
		var parentID, groupID, joinedParentID, joinedGroupID sql.NullInt64
		var motherName, fatherName, groupName sql.NullString
		if err := row.Scan(
			&c.ID,
			&c.FullName,
			&birthDate,
			&c.Gender,
			&parentID,
			&c.Address,
			&groupID,
			&c.Note,
			&c.OtherGroup,
			&joinedParentID,
			&motherName,
			&fatherName,
			&joinedGroupID,
			&groupName,
		); err != nil {
			return c, err
		}
		c.BirthDate = timePtr(birthDate)
		c.ParentID = int64Ptr(parentID)
		c.GroupID = int64Ptr(groupID)
		if joinedParentID.Valid {
			c.Parent = &models.Parent{ID: joinedParentID.Int64, MotherName: motherName.String, FatherName: fatherName.String}
		}
		if joinedGroupID.Valid {
			c.Group = &models.Group{ID: joinedGroupID.Int64, Name: groupName.String}
		}
		return c, nil
	},
}

// ChildRepository handles database operations for children
type ChildRepository struct {
	db *database.DB
}

// NewChildRepository creates a new child repository
func NewChildRepository(db *database.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

// GetByID retrieves a child with parent and group, nil if absent
func (r *ChildRepository) GetByID(ctx context.Context, id int64) (*models.Child, error) {
	c, err := childSelect.getByID(ctx, r.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	return c, nil
}

// All returns every child ordered by name
func (r *ChildRepository) All(ctx context.Context) ([]models.Child, error) {
	children, err := childSelect.all(ctx, r.db, "c.full_name, c.id")
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	return children, nil
}

// Query builds the filtered, ordered list view
func (r *ChildRepository) Query(_ context.Context, sort listing.SortKey, filter listing.Filter) (listing.View[models.Child], error) {
	return newListView(r.db, childSelect, listing.ChildKind, sort, filter), nil
}

// Create inserts a child and returns the id
func (r *ChildRepository) Create(ctx context.Context, c *models.Child) (int64, error) {
	query := `
		INSERT INTO children (full_name, birth_date, gender, parent_id, address, group_id, note, other_group)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		c.FullName, nullable(c.BirthDate), c.Gender, nullable(c.ParentID), c.Address, nullable(c.GroupID), c.Note, c.OtherGroup)
	if err != nil {
		return 0, fmt.Errorf("failed to create child: %w", err)
	}
	return id, nil
}

// Update saves a child; ErrConcurrencyConflict when no row matched
func (r *ChildRepository) Update(ctx context.Context, c *models.Child) error {
	query := `
		UPDATE children
		SET full_name = ?, birth_date = ?, gender = ?, parent_id = ?, address = ?, group_id = ?, note = ?, other_group = ?
		WHERE id = ?
	`
	err := updateOne(ctx, r.db, query,
		c.FullName, nullable(c.BirthDate), c.Gender, nullable(c.ParentID), c.Address, nullable(c.GroupID), c.Note, c.OtherGroup, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update child: %w", err)
	}
	return nil
}

// Delete removes a child
func (r *ChildRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteNullingReferences(ctx, r.db, "children", id); err != nil {
		return fmt.Errorf("failed to delete child: %w", err)
	}
	return nil
}

// Exists checks whether a child with the id exists
func (r *ChildRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := exists(ctx, r.db, "children", id)
	if err != nil {
		return false, fmt.Errorf("failed to check child: %w", err)
	}
	return ok, nil
}
