package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/openpool/purseledger/internal/auth"
	"github.com/openpool/purseledger/internal/models"
)

// AuthService exposes registration and login.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Register attaches the auth routes to mux. They are unauthenticated.
func (s *AuthService) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/auth/register", s.register)
	mux.HandleFunc("POST /v1/auth/login", s.login)
}

// userJSON is the wire form of a user account.
type userJSON struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

type authResponse struct {
	User  userJSON `json:"user"`
	Token string   `json:"token"`
}

func toUserJSON(u *models.User) userJSON {
	return userJSON{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

func (s *AuthService) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Email == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email and name required"})
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		slog.Warn("Registration failed", "email", req.Email, "error", err)
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, auth.ErrEmailExists), errors.Is(err, auth.ErrNameExists):
			status = http.StatusConflict
		case errors.Is(err, auth.ErrWeakPassword):
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to generate token"})
		return
	}

	slog.Info("User registered", "user_id", user.ID, "account", user.Name)
	writeJSON(w, http.StatusCreated, authResponse{User: toUserJSON(user), Token: token})
}

func (s *AuthService) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: auth.ErrInvalidCredentials.Error()})
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email, "error", err)
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: auth.ErrInvalidCredentials.Error()})
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to generate token"})
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: toUserJSON(user), Token: token})
}
