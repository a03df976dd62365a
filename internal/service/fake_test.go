package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"kindergarten/internal/listing"
	"kindergarten/internal/models"
	"kindergarten/internal/repository"
)

// fakeGroupTypes is an in-memory group type repository that counts list queries
type fakeGroupTypes struct {
	mu      sync.Mutex
	rows    map[int64]models.GroupType
	nextID  int64
	queries int
	writes  int
	// conflict makes Update report a concurrency conflict even for present rows
	conflict bool
}

func newFakeGroupTypes() *fakeGroupTypes {
	return &fakeGroupTypes{rows: make(map[int64]models.GroupType)}
}

func (f *fakeGroupTypes) GetByID(_ context.Context, id int64) (*models.GroupType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (f *fakeGroupTypes) Create(_ context.Context, g *models.GroupType) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	row := *g
	row.ID = f.nextID
	f.rows[row.ID] = row
	f.writes++
	return row.ID, nil
}

func (f *fakeGroupTypes) Update(_ context.Context, g *models.GroupType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[g.ID]; !ok || f.conflict {
		return repository.ErrConcurrencyConflict
	}
	f.rows[g.ID] = *g
	f.writes++
	return nil
}

func (f *fakeGroupTypes) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	f.writes++
	return nil
}

func (f *fakeGroupTypes) Exists(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[id]
	return ok, nil
}

func (f *fakeGroupTypes) All(ctx context.Context) ([]models.GroupType, error) {
	v, _ := f.Query(ctx, listing.NoSort, nil)
	return v.Fetch(ctx, 0, len(f.rows))
}

func (f *fakeGroupTypes) Query(_ context.Context, key listing.SortKey, filter listing.Filter) (listing.View[models.GroupType], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++

	name := strings.ToLower(filter.Value("name"))
	var rows []models.GroupType
	for _, g := range f.rows {
		if name == "" || strings.Contains(strings.ToLower(g.Name), name) {
			rows = append(rows, g)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		switch key {
		case listing.AscKey("name"):
			return rows[i].Name < rows[j].Name
		case listing.DescKey("name"):
			return rows[i].Name > rows[j].Name
		}
		return rows[i].ID < rows[j].ID
	})
	return sliceView[models.GroupType](rows), nil
}

type sliceView[T any] []T

func (v sliceView[T]) Count(context.Context) (int, error) { return len(v), nil }

func (v sliceView[T]) Fetch(_ context.Context, offset, limit int) ([]T, error) {
	if offset >= len(v) {
		return []T{}, nil
	}
	end := offset + limit
	if end > len(v) {
		end = len(v)
	}
	return append([]T{}, v[offset:end]...), nil
}

// fakeUsers is an in-memory user store
type fakeUsers struct {
	mu       sync.Mutex
	users    map[int64]*models.User
	sessions map[string]*models.Session
	nextID   int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[int64]*models.User), sessions: make(map[string]*models.Session)}
}

func (f *fakeUsers) CreateUser(_ context.Context, email, passwordHash, name, role string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u := &models.User{ID: f.nextID, Email: email, PasswordHash: passwordHash, Name: name, Role: role, CreatedAt: time.Now()}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeUsers) CountUsers(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

func (f *fakeUsers) CreateSession(_ context.Context, sessionID string, userID int64, expiresAt time.Time) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &models.Session{ID: sessionID, UserID: userID, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	f.sessions[sessionID] = s
	return s, nil
}

func (f *fakeUsers) GetSession(_ context.Context, sessionID string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[sessionID], nil
}

func (f *fakeUsers) DeleteSession(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeUsers) DeleteExpiredSessions(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id, s := range f.sessions {
		if s.IsExpired() {
			delete(f.sessions, id)
			ids = append(ids, id)
		}
	}
	return ids, nil
}
