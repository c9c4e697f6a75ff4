package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_shop/internal/auth"
	"github.com/fjod/go_shop/internal/domain"
	"github.com/fjod/go_shop/internal/session"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

type AuthHandler struct {
	auth     AuthService
	sessions *session.Manager
}

func NewAuthHandler(auth AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
	}
}

type RegisterRequestDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidInput) {
		respondError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}
	if errors.Is(err, auth.ErrUsernameTaken) {
		respondError(w, http.StatusConflict, "username_taken", "username already taken")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "registration_failed", "could not create account")
		return
	}

	// The original flow logs the user in right after registering.
	if errLogin := h.setSessionUser(r.Context(), user.ID); errLogin != nil {
		respondError(w, http.StatusInternalServerError, "session_unavailable", "could not start session")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "login_failed", "could not log in")
		return
	}

	if errSess := h.setSessionUser(r.Context(), user.ID); errSess != nil {
		respondError(w, http.StatusInternalServerError, "session_unavailable", "could not start session")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Logout clears the user from the session but keeps the cart, matching the
// original store where logging out did not empty the cart.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.sessions.Update(r.Context(), getSessionID(r.Context()), func(sess *session.Session) error {
		sess.UserID = 0
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_unavailable", "could not log out")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "not logged in")
		return
	}

	user, err := h.auth.GetUser(r.Context(), userID)
	if errors.Is(err, auth.ErrUserNotFound) {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "not logged in")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "auth_unavailable", "could not load user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) setSessionUser(ctx context.Context, userID int64) error {
	return h.sessions.Update(ctx, getSessionID(ctx), func(sess *session.Session) error {
		sess.UserID = userID
		return nil
	})
}
