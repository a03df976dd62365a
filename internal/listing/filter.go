package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"kindergarten/internal/session"
)

// MatchMode selects how a filter value is compared to its column
type MatchMode int

const (
	// MatchContains is a substring match for text columns
	MatchContains MatchMode = iota
	// MatchEquals compares numeric columns; values that don't parse are ignored
	MatchEquals
)

// FilterField is one input of a list's filter form
type FilterField struct {
	Name  string
	Label string
	Expr  string
	Mode  MatchMode
}

// Filter holds the submitted value of every filter field by name
type Filter map[string]string

// Value returns the trimmed value of a field, empty when unset
func (f Filter) Value(name string) string {
	return strings.TrimSpace(f[name])
}

// Kind is the static list definition of one entity type
type Kind struct {
	Name    string
	Sorts   *SortTable
	Filters []FilterField
}

// DefaultFilter returns a filter with every field empty
func (k *Kind) DefaultFilter() Filter {
	f := make(Filter, len(k.Filters))
	for _, field := range k.Filters {
		f[field.Name] = ""
	}
	return f
}

// Normalize keeps only the declared fields, trimmed, filling missing ones with empty values
func (k *Kind) Normalize(f Filter) Filter {
	out := k.DefaultFilter()
	for _, field := range k.Filters {
		out[field.Name] = f.Value(field.Name)
	}
	return out
}

// CacheKey builds the composite list cache key. Filter values follow declaration order.
func (k *Kind) CacheKey(page int, sort SortKey, f Filter) string {
	values := make([]string, len(k.Filters))
	for i, field := range k.Filters {
		values[i] = f.Value(field.Name)
	}
	return Key(k.Name, page, sort, values...)
}

// FilterStore keeps the filter of every list per session
type FilterStore struct {
	store session.Store
}

// NewFilterStore creates a filter store on top of a session store
func NewFilterStore(store session.Store) *FilterStore {
	return &FilterStore{store: store}
}

func filterKey(kind *Kind) string {
	return "filter:" + kind.Name
}

// Get returns the stored filter for the kind, ok is false if none was stored
func (s *FilterStore) Get(ctx context.Context, sessionID string, kind *Kind) (Filter, bool, error) {
	raw, ok, err := s.store.Get(ctx, sessionID, filterKey(kind))
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s filter: %w", kind.Name, err)
	}
	if !ok {
		return nil, false, nil
	}

	var f Filter
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s filter: %w", kind.Name, err)
	}
	return kind.Normalize(f), true, nil
}

// Set replaces the stored filter; fields absent from f are stored empty
func (s *FilterStore) Set(ctx context.Context, sessionID string, kind *Kind, f Filter) error {
	raw, err := json.Marshal(kind.Normalize(f))
	if err != nil {
		return fmt.Errorf("failed to encode %s filter: %w", kind.Name, err)
	}
	if err := s.store.Set(ctx, sessionID, filterKey(kind), string(raw)); err != nil {
		return fmt.Errorf("failed to save %s filter: %w", kind.Name, err)
	}
	return nil
}

// Clear forgets the stored filter for the kind
func (s *FilterStore) Clear(ctx context.Context, sessionID string, kind *Kind) error {
	if err := s.store.Remove(ctx, sessionID, filterKey(kind)); err != nil {
		return fmt.Errorf("failed to clear %s filter: %w", kind.Name, err)
	}
	return nil
}

// Resolve returns the stored filter, creating and storing the default on first use
func (s *FilterStore) Resolve(ctx context.Context, sessionID string, kind *Kind) (Filter, error) {
	f, ok, err := s.Get(ctx, sessionID, kind)
	if err != nil {
		return nil, err
	}
	if ok {
		return f, nil
	}

	f = kind.DefaultFilter()
	if err := s.Set(ctx, sessionID, kind, f); err != nil {
		return nil, err
	}
	return f, nil
}
