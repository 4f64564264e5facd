package handler

import (
	"encoding/json"
	"net/http"

	"github.com/spoedpakketjes/backend/internal/domain"
)

// registerRequest is the client payload for POST /api/register.
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Register handles POST /api/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "request body is not valid JSON")
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Password, req.FullName, req.Email, req.Phone)
	if err != nil {
		respondServiceError(w, r, err, "user not found")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// loginRequest is the client payload for POST /api/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse carries the authenticated user and their session token.
type loginResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Login handles POST /api/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "request body is not valid JSON")
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(w, r, err, "user not found")
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{User: user, Token: token})
}
