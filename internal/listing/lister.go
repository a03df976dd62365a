package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// View is a filtered, ordered query that has not been materialized yet
type View[T any] interface {
	Count(ctx context.Context) (int, error)
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
}

// Source builds views over one entity kind
type Source[T any] interface {
	Query(ctx context.Context, sort SortKey, filter Filter) (View[T], error)
}

// Bundle is one rendered list page and everything needed to draw its controls
type Bundle[T any] struct {
	Rows    []T       `json:"rows"`
	Page    Page      `json:"page"`
	SortKey SortKey   `json:"sort_key"`
	Sort    SortState `json:"sort"`
	Filter  Filter    `json:"filter"`
}

// Lister produces list bundles for one kind, consulting the cache first
type Lister[T any] struct {
	kind     *Kind
	source   Source[T]
	cache    Cache
	pageSize int
	logger   *zap.Logger
}

// NewLister creates a Lister; a non-positive pageSize uses DefaultPageSize
func NewLister[T any](kind *Kind, source Source[T], cache Cache, pageSize int, logger *zap.Logger) *Lister[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Lister[T]{
		kind:     kind,
		source:   source,
		cache:    cache,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Kind returns the kind this lister serves
func (l *Lister[T]) Kind() *Kind {
	return l.kind
}

// List returns the requested page. Cache failures are logged and fall through to storage.
func (l *Lister[T]) List(ctx context.Context, page int, sort SortKey, filter Filter) (*Bundle[T], error) {
	filter = l.kind.Normalize(filter)
	key := l.kind.CacheKey(page, sort, filter)

	raw, err := l.cache.Get(ctx, key)
	if err == nil {
		var cached Bundle[T]
		decodeErr := json.Unmarshal(raw, &cached)
		if decodeErr == nil {
			return &cached, nil
		}
		l.logger.Warn("discarding undecodable list cache entry", zap.String("key", key), zap.Error(decodeErr))
	} else if !errors.Is(err, ErrCacheMiss) {
		l.logger.Warn("list cache lookup failed", zap.String("key", key), zap.Error(err))
	}

	bundle, err := l.compute(ctx, page, sort, filter)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s list: %w", l.kind.Name, err)
	}
	if err := l.cache.Set(ctx, key, encoded); err != nil {
		l.logger.Warn("list cache store failed", zap.String("key", key), zap.Error(err))
	}
	return bundle, nil
}

func (l *Lister[T]) compute(ctx context.Context, page int, sort SortKey, filter Filter) (*Bundle[T], error) {
	view, err := l.source.Query(ctx, sort, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s list: %w", l.kind.Name, err)
	}

	total, err := view.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count %s list: %w", l.kind.Name, err)
	}

	p := ComputePage(page, total, l.pageSize)
	rows := []T{}
	if p.Count > 0 {
		rows, err = view.Fetch(ctx, p.Offset(l.pageSize), l.pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s list: %w", l.kind.Name, err)
		}
	}

	return &Bundle[T]{
		Rows:    rows,
		Page:    p,
		SortKey: sort,
		Sort:    l.kind.Sorts.Resolve(sort),
		Filter:  filter,
	}, nil
}
