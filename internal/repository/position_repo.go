package repository

import (
	"context"
	"fmt"

	"kindergarten/internal/database"
	"kindergarten/internal/listing"
	"kindergarten/internal/models"
)

var positionSelect = selectSpec[models.Position]{
	columns: "p.id, p.position_name",
	from:    "FROM positions p",
	idExpr:  "p.id",
	scan: func(row rowScanner) (models.Position, error) {
		var p models.Position
		err := row.Scan(&p.ID, &p.Name)
		return p, err
	},
}

// PositionRepository handles database operations for positions
type PositionRepository struct {
	db *database.DB
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *database.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// GetByID retrieves a position, nil if it does not exist
func (r *PositionRepository) GetByID(ctx context.Context, id int64) (*models.Position, error) {
	p, err := positionSelect.getByID(ctx, r.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	return p, nil
}

// All returns every position ordered by name
func (r *PositionRepository) All(ctx context.Context) ([]models.Position, error) {
	positions, err := positionSelect.all(ctx, r.db, "p.position_name, p.id")
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	return positions, nil
}

// Query builds the filtered, ordered list view
func (r *PositionRepository) Query(_ context.Context, sort listing.SortKey, filter listing.Filter) (listing.View[models.Position], error) {
	return newListView(r.db, positionSelect, listing.PositionKind, sort, filter), nil
}

// Create inserts a position and returns its id
func (r *PositionRepository) Create(ctx context.Context, p *models.Position) (int64, error) {
	id, err := r.db.ExecReturningID(ctx, "INSERT INTO positions (position_name) VALUES (?)", p.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to create position: %w", err)
	}
	return id, nil
}

// Update saves a position; ErrConcurrencyConflict when no row matched
func (r *PositionRepository) Update(ctx context.Context, p *models.Position) error {
	if err := updateOne(ctx, r.db, "UPDATE positions SET position_name = ? WHERE id = ?", p.Name, p.ID); err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}
	return nil
}

// Delete removes a position; staff holding it keep a NULL position
func (r *PositionRepository) Delete(ctx context.Context, id int64) error {
	err := deleteNullingReferences(ctx, r.db, "positions", id, reference{table: "staff", column: "position_id"})
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	return nil
}

// Exists checks whether a position with the id exists
func (r *PositionRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := exists(ctx, r.db, "positions", id)
	if err != nil {
		return false, fmt.Errorf("failed to check position: %w", err)
	}
	return ok, nil
}
