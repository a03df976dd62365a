package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kindergarten/internal/models"
	"kindergarten/internal/security"
	"kindergarten/internal/validation"
)

// userStore is the subset of the user repository the auth service needs
type userStore interface {
	CreateUser(ctx context.Context, email, passwordHash, name, role string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CountUsers(ctx context.Context) (int, error)
	CreateSession(ctx context.Context, sessionID string, userID int64, expiresAt time.Time) (*models.Session, error)
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteExpiredSessions(ctx context.Context) ([]string, error)
}

// sessionState holds per-session values kept outside the database, such as list filters
type sessionState interface {
	Drop(ctx context.Context, sessionID string) error
}

// AuthService handles authentication business logic
type AuthService struct {
	users           userStore
	tokens          *security.TokenIssuer
	sessionDuration time.Duration
	state           sessionState
}

// NewAuthService creates a new auth service
func NewAuthService(users userStore, tokens *security.TokenIssuer, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		users:           users,
		tokens:          tokens,
		sessionDuration: sessionDuration,
	}
}

// DropStateWith makes logout and session expiry also forget the session's stored values
func (s *AuthService) DropStateWith(state sessionState) {
	s.state = state
}

func (s *AuthService) dropState(ctx context.Context, sessionID string) error {
	if s.state == nil {
		return nil
	}
	if err := s.state.Drop(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to drop session state: %w", err)
	}
	return nil
}

// Register creates a new user account with the given role
func (s *AuthService) Register(ctx context.Context, email, password, name, role string) (*models.User, error) {
	if err := validation.Credentials(email, name, password, role); err != nil {
		return nil, err
	}

	existingUser, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, email, passwordHash, name, role)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// HasUsers reports whether any account exists yet
func (s *AuthService) HasUsers(ctx context.Context) (bool, error) {
	n, err := s.users.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	return n > 0, nil
}

// Login authenticates a user and creates a session
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Session, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.users.CreateSession(ctx, sessionID, user.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, user, nil
}

// ValidateSession checks if a session is valid and returns the associated user
func (s *AuthService) ValidateSession(ctx context.Context, sessionID string) (*models.User, error) {
	session, err := s.users.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.users.DeleteSession(ctx, sessionID)
		_ = s.dropState(ctx, sessionID)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}
	return user, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.users.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return s.dropState(ctx, sessionID)
}

// CleanupExpiredSessions removes expired sessions with their stored values and reports how many went.
// A failure to drop stored values does not stop the sweep; the failures are returned joined.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	ids, err := s.users.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	var errs []error
	for _, id := range ids {
		if err := s.dropState(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return int64(len(ids)), errors.Join(errs...)
}

// IssueToken mints an API token for the account with the given email
func (s *AuthService) IssueToken(ctx context.Context, email string, ttl time.Duration) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", ErrNotFound
	}
	return s.tokens.Issue(user.ID, user.Role, ttl)
}

// ValidateToken resolves a bearer token to its user.
// The role comes from the stored account, so demotions apply to tokens already issued.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, security.ErrInvalidToken
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, security.ErrInvalidToken
	}
	return user, nil
}
