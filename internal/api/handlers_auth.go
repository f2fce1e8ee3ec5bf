package api

import (
	"net/http"

	"stayhub/internal/models"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone" validate:"omitempty,min=5,max=20"`
	Address  string `json:"address" validate:"omitempty,max=255"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user := &models.User{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	token, err := s.users.Register(r.Context(), user, req.Password)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, authResponse{User: user, Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, authResponse{User: user, Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	if err := s.users.Logout(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Logged out")
}

// handleVerify lets clients probe whether their token is still good
// without fetching the whole profile.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	writeData(w, http.StatusOK, map[string]any{
		"valid":   true,
		"user_id": id.UserID,
		"role":    id.Role,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	user, err := s.users.GetUser(r.Context(), id.UserID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, user)
}
