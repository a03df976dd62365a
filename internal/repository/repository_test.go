package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindergarten/internal/database"
	"kindergarten/internal/listing"
	"kindergarten/internal/models"
)

func newMockDB(t *testing.T, dialect database.Dialect) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return database.New(db, dialect), mock
}

func TestPositionRepository_Update(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "row updated", affected: 1},
		{name: "no row matched", affected: 0, wantErr: ErrConcurrencyConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t, database.NewSQLiteDialect())
			mock.ExpectExec(regexp.QuoteMeta("UPDATE positions SET position_name = ? WHERE id = ?")).
				WithArgs("Cook", int64(3)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := NewPositionRepository(db).Update(context.Background(), &models.Position{ID: 3, Name: "Cook"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPositionRepository_DeleteNullsReferences(t *testing.T) {
	db, mock := newMockDB(t, database.NewSQLiteDialect())
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE staff SET position_id = NULL WHERE position_id = ?")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM positions WHERE id = ?")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewPositionRepository(db).Delete(context.Background(), 2))
}

func TestGroupRepository_DeleteMissingRollsBack(t *testing.T) {
	db, mock := newMockDB(t, database.NewSQLiteDialect())
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE children SET group_id = NULL WHERE group_id = ?")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM study_groups WHERE id = ?")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := NewGroupRepository(db).Delete(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaffRepository_GetByID(t *testing.T) {
	columns := []string{"id", "full_name", "address", "phone", "position_id", "info", "reward", "pid", "position_name"}

	t.Run("with position", func(t *testing.T) {
		db, mock := newMockDB(t, database.NewSQLiteDialect())
		mock.ExpectQuery("FROM staff s LEFT JOIN positions p ON p.id = s.position_id WHERE s.id = ?").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(1), "Anna", "Main st", int64(5551234), int64(4), "", "", int64(4), "Teacher"))

		s, err := NewStaffRepository(db).GetByID(context.Background(), 1)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, "Anna", s.FullName)
		require.NotNil(t, s.Phone)
		assert.Equal(t, 5551234, *s.Phone)
		require.NotNil(t, s.Position)
		assert.Equal(t, "Teacher", s.Position.Name)
	})

	t.Run("dangling position", func(t *testing.T) {
		db, mock := newMockDB(t, database.NewSQLiteDialect())
		mock.ExpectQuery("FROM staff s").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(1), "Anna", "", nil, nil, "", "", nil, nil))

		s, err := NewStaffRepository(db).GetByID(context.Background(), 1)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Nil(t, s.Phone)
		assert.Nil(t, s.PositionID)
		assert.Nil(t, s.Position)
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMockDB(t, database.NewSQLiteDialect())
		mock.ExpectQuery("FROM staff s").
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(columns))

		s, err := NewStaffRepository(db).GetByID(context.Background(), 42)
		require.NoError(t, err)
		assert.Nil(t, s)
	})
}

func TestStaffRepository_QueryView(t *testing.T) {
	db, mock := newMockDB(t, database.NewSQLiteDialect())
	repo := NewStaffRepository(db)
	ctx := context.Background()

	view, err := repo.Query(ctx, "name_desc", listing.Filter{"name": "An"})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM staff s LEFT JOIN positions p ON p.id = s.position_id WHERE s.full_name LIKE ?")).
		WithArgs("%An%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	count, err := view.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, count)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.full_name LIKE ? ORDER BY s.full_name DESC LIMIT ? OFFSET ?")).
		WithArgs("%An%", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "address", "phone", "position_id", "info", "reward", "pid", "position_name"}).
			AddRow(int64(7), "Anton", "", nil, nil, "", "", nil, nil))
	rows, err := view.Fetch(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Anton", rows[0].FullName)
}

func TestPositionRepository_CreatePostgresUsesReturning(t *testing.T) {
	db, mock := newMockDB(t, database.NewPostgresDialect())
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO positions (position_name) VALUES ($1) RETURNING id")).
		WithArgs("Cook").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := NewPositionRepository(db).Create(context.Background(), &models.Position{Name: "Cook"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestGroupRepository_CreateWritesNulls(t *testing.T) {
	db, mock := newMockDB(t, database.NewSQLiteDialect())
	year := 2020
	mock.ExpectExec("INSERT INTO study_groups").
		WithArgs("Sun", nil, nil, 2020, nil).
		WillReturnResult(sqlmock.NewResult(5, 1))

	id, err := NewGroupRepository(db).Create(context.Background(), &models.Group{Name: "Sun", YearOfCreation: &year})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
}

func TestChildRepository_Exists(t *testing.T) {
	db, mock := newMockDB(t, database.NewSQLiteDialect())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM children WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := NewChildRepository(db).Exists(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserRepository_UpdateKeepsPasswordWhenBlank(t *testing.T) {
	db, mock := newMockDB(t, database.NewSQLiteDialect())
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET email = ?, name = ?, role = ? WHERE id = ?")).
		WithArgs("a@kg.test", "Alla", models.RoleUser, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET email = ?, name = ?, role = ?, password_hash = ? WHERE id = ?")).
		WithArgs("a@kg.test", "Alla", models.RoleUser, "hash", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewUserRepository(db)
	u := &models.User{ID: 5, Email: "a@kg.test", Name: "Alla", Role: models.RoleUser}
	require.NoError(t, repo.Update(context.Background(), u))
	u.PasswordHash = "hash"
	require.NoError(t, repo.Update(context.Background(), u))
}

func TestUserRepository_DeleteRemovesSessions(t *testing.T) {
	db, mock := newMockDB(t, database.NewSQLiteDialect())
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE user_id = ?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = ?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewUserRepository(db).Delete(context.Background(), 5))
}
