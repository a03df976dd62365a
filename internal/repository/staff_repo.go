package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kindergarten/internal/database"
	"kindergarten/internal/listing"
	"kindergarten/internal/models"
)

var staffSelect = selectSpec[models.Staff]{
	columns: `s.id, s.full_name, s.address, s.phone, s.position_id, COALESCE(s.info, ''), COALESCE(s.reward, ''),
		p.id, p.position_name`,
	from:   "FROM staff s LEFT JOIN positions p ON p.id = s.position_id",
	idExpr: "s.id",
	scan: func(row rowScanner) (models.Staff, error) {
		var s models.Staff
		var phone, positionID, joinedID sql.NullInt64
		var positionName sql.NullString
		if err := row.Scan(
			&s.ID,
			&s.FullName,
			&s.Address,
			&phone,
			&positionID,
			&s.Info,
			&s.Reward,
			&joinedID,
			&positionName,
		); err != nil {
			return s, err
		}
		s.Phone = intPtr(phone)
		s.PositionID = int64Ptr(positionID)
		if joinedID.Valid {
			s.Position = &models.Position{ID: joinedID.Int64, Name: positionName.String}
		}
		return s, nil
	},
}

// StaffRepository handles database operations for staff members
type StaffRepository struct {
	db *database.DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *database.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// GetByID retrieves a staff member with their position, nil if absent
func (r *StaffRepository) GetByID(ctx context.Context, id int64) (*models.Staff, error) {
	s, err := staffSelect.getByID(ctx, r.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return s, nil
}

// All returns every staff member ordered by name
func (r *StaffRepository) All(ctx context.Context) ([]models.Staff, error) {
	staff, err := staffSelect.all(ctx, r.db, "s.full_name, s.id")
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	return staff, nil
}

// Query builds the filtered, ordered list view
func (r *StaffRepository) Query(_ context.Context, sort listing.SortKey, filter listing.Filter) (listing.View[models.Staff], error) {
	return newListView(r.db, staffSelect, listing.StaffKind, sort, filter), nil
}

// Create inserts a staff member and returns the id
func (r *StaffRepository) Create(ctx context.Context, s *models.Staff) (int64, error) {
	query := `
		INSERT INTO staff (full_name, address, phone, position_id, info, reward)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		s.FullName, s.Address, nullable(s.Phone), nullable(s.PositionID), s.Info, s.Reward)
	if err != nil {
		return 0, fmt.Errorf("failed to create staff: %w", err)
	}
	return id, nil
}

// Update saves a staff member; ErrConcurrencyConflict when no row matched
func (r *StaffRepository) Update(ctx context.Context, s *models.Staff) error {
	query := `
		UPDATE staff
		SET full_name = ?, address = ?, phone = ?, position_id = ?, info = ?, reward = ?
		WHERE id = ?
	`
	err := updateOne(ctx, r.db, query,
		s.FullName, s.Address, nullable(s.Phone), nullable(s.PositionID), s.Info, s.Reward, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update staff: %w", err)
	}
	return nil
}

// Delete removes a staff member; groups they supervised keep a NULL supervisor
func (r *StaffRepository) Delete(ctx context.Context, id int64) error {
	err := deleteNullingReferences(ctx, r.db, "staff", id, reference{table: "study_groups", column: "staff_id"})
	if err != nil {
		return fmt.Errorf("failed to delete staff: %w", err)
	}
	return nil
}

// Exists checks whether a staff member with the id exists
func (r *StaffRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := exists(ctx, r.db, "staff", id)
	if err != nil {
		return false, fmt.Errorf("failed to check staff: %w", err)
	}
	return ok, nil
}
