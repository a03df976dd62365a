package session

import "context"

// Store keeps small string values per client session.
// A missing session or key is reported as ok == false, not as an error.
type Store interface {
	Get(ctx context.Context, sessionID, key string) (value string, ok bool, err error)
	Set(ctx context.Context, sessionID, key, value string) error
	Remove(ctx context.Context, sessionID, key string) error
	// Drop forgets every value held for the session
	Drop(ctx context.Context, sessionID string) error
	Close() error
}
