package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"kindergarten/internal/listing"
	"kindergarten/internal/models"
	"kindergarten/internal/repository"
	"kindergarten/internal/validation"
)

// Repository is the storage contract shared by every entity repository
type Repository[T models.Entity] interface {
	listing.Source[T]
	GetByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, entity *T) (int64, error)
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// EntityService composes listing and CRUD for one entity kind.
// Every successful write clears the whole list cache.
type EntityService[T models.Entity] struct {
	kind     *listing.Kind
	repo     Repository[T]
	lister   *listing.Lister[T]
	cache    listing.Cache
	validate func(*T) error
	checks   []Check[T]
	logger   *zap.Logger
}

// Check is a rule that needs storage, such as a referenced record existing.
// It reports rule violations as validation.Errors.
type Check[T any] func(ctx context.Context, entity *T) error

// NewEntityService wires a repository, validator and the shared list cache
func NewEntityService[T models.Entity](
	kind *listing.Kind,
	repo Repository[T],
	validate func(*T) error,
	cache listing.Cache,
	pageSize int,
	logger *zap.Logger,
) *EntityService[T] {
	return &EntityService[T]{
		kind:     kind,
		repo:     repo,
		lister:   listing.NewLister[T](kind, repo, cache, pageSize, logger),
		cache:    cache,
		validate: validate,
		logger:   logger.With(zap.String("kind", kind.Name)),
	}
}

// CheckWith adds storage-backed rules run after validation on create and update
func (s *EntityService[T]) CheckWith(checks ...Check[T]) *EntityService[T] {
	s.checks = append(s.checks, checks...)
	return s
}

func (s *EntityService[T]) check(ctx context.Context, entity *T) error {
	errs := validation.Errors{}
	for _, check := range s.checks {
		err := check(ctx, entity)
		if err == nil {
			continue
		}
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			return err
		}
		for field, msg := range verrs {
			errs.Add(field, msg)
		}
	}
	return errs.Err()
}

// Kind returns the list kind served by this service
func (s *EntityService[T]) Kind() *listing.Kind {
	return s.kind
}

// List returns one page of the filtered, sorted list
func (s *EntityService[T]) List(ctx context.Context, page int, sort listing.SortKey, filter listing.Filter) (*listing.Bundle[T], error) {
	return s.lister.List(ctx, page, sort, filter)
}

// Get loads one record with its related records
func (s *EntityService[T]) Get(ctx context.Context, id int64) (*T, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrNotFound
	}
	return entity, nil
}

// Validate runs the entity's field rules without touching storage
func (s *EntityService[T]) Validate(entity *T) error {
	if s.validate == nil {
		return nil
	}
	return s.validate(entity)
}

// Create validates and stores a new record, returning its id
func (s *EntityService[T]) Create(ctx context.Context, entity *T) (int64, error) {
	if err := s.Validate(entity); err != nil {
		return 0, err
	}
	if err := s.check(ctx, entity); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, entity)
	if err != nil {
		return 0, err
	}

	s.invalidate(ctx, "create", id)
	return id, nil
}

// Update saves a record addressed by routeID.
// A record whose own id differs from routeID is treated as not found and nothing is written.
func (s *EntityService[T]) Update(ctx context.Context, routeID int64, entity *T) error {
	if (*entity).GetID() != routeID {
		return ErrNotFound
	}
	if err := s.Validate(entity); err != nil {
		return err
	}
	if err := s.check(ctx, entity); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, entity); err != nil {
		if !errors.Is(err, repository.ErrConcurrencyConflict) {
			return err
		}
		exists, existsErr := s.repo.Exists(ctx, routeID)
		if existsErr != nil {
			return fmt.Errorf("failed to resolve update conflict: %w", existsErr)
		}
		if !exists {
			return ErrNotFound
		}
		return err
	}

	s.invalidate(ctx, "update", routeID)
	return nil
}

// Delete removes a record; references to it in other records are cleared
func (s *EntityService[T]) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.invalidate(ctx, "delete", id)
	return nil
}

// invalidate drops every cached list page of every kind.
// The write has already been committed, so a failed clear is logged rather than returned.
func (s *EntityService[T]) invalidate(ctx context.Context, op string, id int64) {
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Error("failed to clear list cache after write",
			zap.String("operation", op), zap.Int64("id", id), zap.Error(err))
	}
}
