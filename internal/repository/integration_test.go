package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindergarten/internal/database"
	"kindergarten/internal/listing"
	"kindergarten/internal/models"
)

func openSQLite(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db, err := database.Initialize(filepath.Join(t.TempDir(), "kg.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.RunMigrations(context.Background(), "../../migrations")
	require.NoError(t, err)
	return db
}

func TestDeletePositionStillReferencedByStaff(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	positions := NewPositionRepository(db)
	staff := NewStaffRepository(db)

	posID, err := positions.Create(ctx, &models.Position{Name: "Teacher"})
	require.NoError(t, err)
	staffID, err := staff.Create(ctx, &models.Staff{FullName: "Anna", PositionID: &posID})
	require.NoError(t, err)

	require.NoError(t, positions.Delete(ctx, posID))

	s, err := staff.GetByID(ctx, staffID)
	require.NoError(t, err)
	require.NotNil(t, s, "staff row survives")
	assert.Nil(t, s.PositionID, "reference is nulled out")
	assert.Nil(t, s.Position)

	err = positions.Delete(ctx, posID)
	assert.ErrorIs(t, err, ErrNotFound, "second delete reports missing row")
}

func TestUpdateMissingRowIsConflict(t *testing.T) {
	db := openSQLite(t)
	err := NewGroupTypeRepository(db).Update(context.Background(), &models.GroupType{ID: 404, Name: "Ghost"})
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
}

func TestUpdateWithUnchangedValuesMatches(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	repo := NewGroupTypeRepository(db)

	id, err := repo.Create(ctx, &models.GroupType{Name: "Senior"})
	require.NoError(t, err)
	assert.NoError(t, repo.Update(ctx, &models.GroupType{ID: id, Name: "Senior"}))
}

func TestGroupTypeListPagesAndFilters(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	repo := NewGroupTypeRepository(db)

	for i := 1; i <= 25; i++ {
		_, err := repo.Create(ctx, &models.GroupType{Name: fmt.Sprintf("Type %02d", i)})
		require.NoError(t, err)
	}

	view, err := repo.Query(ctx, "name_asc", nil)
	require.NoError(t, err)
	total, err := view.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, total)

	rows, err := view.Fetch(ctx, 20, 10)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Type 21", rows[0].Name)
	assert.Equal(t, "Type 25", rows[4].Name)

	view, err = repo.Query(ctx, "name_desc", listing.Filter{"name": "Type 1"})
	require.NoError(t, err)
	total, err = view.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, total, "Type 10 through Type 19")

	rows, err = view.Fetch(ctx, 0, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Type 19", rows[0].Name)
}

func TestChildEagerJoins(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	parentID, err := NewParentRepository(db).Create(ctx, &models.Parent{MotherName: "Maria", FatherName: "Ivan"})
	require.NoError(t, err)
	groupID, err := NewGroupRepository(db).Create(ctx, &models.Group{Name: "Sun"})
	require.NoError(t, err)

	born := time.Date(2020, 5, 17, 0, 0, 0, 0, time.UTC)
	children := NewChildRepository(db)
	childID, err := children.Create(ctx, &models.Child{
		FullName:  "Sasha",
		BirthDate: &born,
		Gender:    "F",
		ParentID:  &parentID,
		GroupID:   &groupID,
	})
	require.NoError(t, err)

	c, err := children.GetByID(ctx, childID)
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NotNil(t, c.Parent)
	assert.Equal(t, "Maria", c.Parent.MotherName)
	require.NotNil(t, c.Group)
	assert.Equal(t, "Sun", c.Group.Name)
	require.NotNil(t, c.BirthDate)
	assert.True(t, born.Equal(*c.BirthDate))

	view, err := children.Query(ctx, listing.NoSort, listing.Filter{"group": "Su"})
	require.NoError(t, err)
	total, err := view.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	require.NoError(t, NewGroupRepository(db).Delete(ctx, groupID))
	c, err = children.GetByID(ctx, childID)
	require.NoError(t, err)
	assert.Nil(t, c.Group)
	assert.Nil(t, c.GroupID)
}

func TestUserSessions(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	u, err := users.CreateUser(ctx, "admin@example.com", "hash", "Admin", models.RoleAdmin)
	require.NoError(t, err)

	got, err := users.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.RoleAdmin, got.Role)

	missing, err := users.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = users.CreateSession(ctx, "live", u.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = users.CreateSession(ctx, "stale", u.ID, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	ids, err := users.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"stale"}, ids)

	ids, err = users.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	s, err := users.GetSession(ctx, "live")
	require.NoError(t, err)
	assert.NotNil(t, s)
}
