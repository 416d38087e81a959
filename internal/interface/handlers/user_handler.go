package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"crewroster-service/internal/domain/entity"
	"crewroster-service/internal/usecase"
	"crewroster-service/pkg/logger"
)

// UserHandler serves registration and login.
type UserHandler struct {
	users  *usecase.UserService
	logger logger.Logger
}

func NewUserHandler(users *usecase.UserService, logger logger.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Token string `json:"token,omitempty"`
}

// Register creates a new user account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	user, err := h.users.Register(req.Email, req.Password)
	if errors.Is(err, entity.ErrUserExists) {
		writeError(w, http.StatusConflict, "user already exists")
		return
	}
	if err != nil {
		h.logger.Error("Registration failed", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Email: user.Email})
}

// Logout ends the session. Session tokens are stateless, so the contract
// is that the client discards its token on a 204; tokens stay verifiable
// until they expire.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("User logged out", "userId", userIDFrom(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// Login verifies credentials and returns a session token.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	user, token, err := h.users.Login(req.Email, req.Password)
	if errors.Is(err, entity.ErrUserNotFound) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		h.logger.Error("Login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Email: user.Email, Token: token})
}
