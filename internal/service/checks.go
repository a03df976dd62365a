package service

import (
	"context"
	"fmt"

	"kindergarten/internal/models"
	"kindergarten/internal/validation"
)

// ExistsFunc reports whether a record with id is stored, usually a repository's Exists
type ExistsFunc func(ctx context.Context, id int64) (bool, error)

// Reference is an optional link from a record to another table, named by its form field
type Reference[T any] struct {
	Field  string
	ID     func(*T) *int64
	Exists ExistsFunc
}

// ReferencesExist fails with a field error for every set reference whose target is gone
func ReferencesExist[T any](refs ...Reference[T]) Check[T] {
	return func(ctx context.Context, entity *T) error {
		errs := validation.Errors{}
		for _, ref := range refs {
			id := ref.ID(entity)
			if id == nil {
				continue
			}
			ok, err := ref.Exists(ctx, *id)
			if err != nil {
				return fmt.Errorf("failed to check %s: %w", ref.Field, err)
			}
			if !ok {
				errs.Add(ref.Field, "refers to a record that no longer exists")
			}
		}
		return errs.Err()
	}
}

func StaffReferences(positions ExistsFunc) Check[models.Staff] {
	return ReferencesExist(
		Reference[models.Staff]{Field: "position_id", ID: func(s *models.Staff) *int64 { return s.PositionID }, Exists: positions},
	)
}

func GroupReferences(staff, types ExistsFunc) Check[models.Group] {
	return ReferencesExist(
		Reference[models.Group]{Field: "staff_id", ID: func(g *models.Group) *int64 { return g.StaffID }, Exists: staff},
		Reference[models.Group]{Field: "type_id", ID: func(g *models.Group) *int64 { return g.TypeID }, Exists: types},
	)
}

func ChildReferences(parents, groups ExistsFunc) Check[models.Child] {
	return ReferencesExist(
		Reference[models.Child]{Field: "parent_id", ID: func(c *models.Child) *int64 { return c.ParentID }, Exists: parents},
		Reference[models.Child]{Field: "group_id", ID: func(c *models.Child) *int64 { return c.GroupID }, Exists: groups},
	)
}

// EmailAvailable fails when another account already uses the email
func EmailAvailable(lookup func(ctx context.Context, email string) (*models.User, error)) Check[models.User] {
	return func(ctx context.Context, u *models.User) error {
		existing, err := lookup(ctx, u.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if existing != nil && existing.ID != u.ID {
			return validation.Errors{"email": "is already registered"}
		}
		return nil
	}
}
