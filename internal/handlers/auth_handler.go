package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"kindergarten/internal/models"
	"kindergarten/internal/security"
	"kindergarten/internal/service"
)

// loginService is the part of the auth service used by the login pages
type loginService interface {
	Login(ctx context.Context, email, password string) (*models.Session, *models.User, error)
	ValidateSession(ctx context.Context, sessionID string) (*models.User, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth     loginService
	renderer Renderer
	home     string
	logger   *zap.Logger
}

// NewAuthHandler creates a new auth handler; home is where logged-in users land
func NewAuthHandler(auth loginService, renderer Renderer, home string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		renderer: renderer,
		home:     home,
		logger:   logger,
	}
}

func (h *AuthHandler) loggedIn(r *http.Request) bool {
	cookie, err := r.Cookie(security.SessionCookieName)
	if err != nil {
		return false
	}
	_, err = h.auth.ValidateSession(r.Context(), cookie.Value)
	return err == nil
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if h.loggedIn(r) {
		http.Redirect(w, r, h.home, http.StatusSeeOther)
		return
	}
	render(w, h.renderer, h.logger, http.StatusOK, "login.tmpl", LoginViewData{PageData: PageData{Title: "Login - " + appName}})
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	session, user, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "login failed", err)
			return
		}
		h.logger.Info("failed login attempt", zap.String("client_ip", security.GetClientIP(r)))
		data := LoginViewData{
			PageData: PageData{Title: "Login - " + appName},
			Error:    "Invalid email or password",
			Email:    email,
		}
		render(w, h.renderer, h.logger, http.StatusUnauthorized, "login.tmpl", data)
		return
	}

	h.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	http.SetCookie(w, security.CreateSessionCookie(r, session.ID, session.ExpiresAt))
	http.Redirect(w, r, h.home, http.StatusSeeOther)
}

// Logout handles logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("failed to delete session", zap.Error(err))
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r))
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// Home sends visitors to the first list or to the login page
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if h.loggedIn(r) {
		http.Redirect(w, r, h.home, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}
