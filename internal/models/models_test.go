package models

import (
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "future expiration",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "just expired",
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      true,
		},
		{
			name:      "expired yesterday",
			expiresAt: time.Now().Add(-24 * time.Hour),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := Session{
				ID:        "test-session",
				UserID:    1,
				ExpiresAt: tt.expiresAt,
				CreatedAt: time.Now().Add(-1 * time.Hour),
			}
			result := session.IsExpired()
			if result != tt.want {
				t.Errorf("Session.IsExpired() = %v, want %v", result, tt.want)
			}
		})
	}
}

func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleAdmin, true},
		{RoleUser, false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			u := User{Role: tt.role}
			if got := u.IsAdmin(); got != tt.want {
				t.Errorf("User.IsAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParentDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		parent Parent
		want   string
	}{
		{
			name:   "both names",
			parent: Parent{MotherName: "Maria Ivanova", FatherName: "Ivan Ivanov"},
			want:   "Maria Ivanova / Ivan Ivanov",
		},
		{
			name:   "mother only",
			parent: Parent{MotherName: "Maria Ivanova"},
			want:   "Maria Ivanova",
		},
		{
			name:   "father only",
			parent: Parent{FatherName: "Ivan Ivanov"},
			want:   "Ivan Ivanov",
		},
		{
			name:   "no names",
			parent: Parent{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.parent.DisplayName(); got != tt.want {
				t.Errorf("Parent.DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEntitiesExposeID(t *testing.T) {
	entities := []Entity{
		Position{ID: 1},
		GroupType{ID: 2},
		Staff{ID: 3},
		Parent{ID: 4},
		Group{ID: 5},
		Child{ID: 6},
	}
	for i, e := range entities {
		if got := e.GetID(); got != int64(i+1) {
			t.Errorf("%T.GetID() = %d, want %d", e, got, i+1)
		}
	}
}
