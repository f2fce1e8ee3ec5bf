package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"stayhub/internal/models"
	"stayhub/internal/service"
)

type updateProfileRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Phone   string `json:"phone" validate:"omitempty,min=5,max=20"`
	Address string `json:"address" validate:"omitempty,max=255"`
	Avatar  string `json:"avatar" validate:"omitempty,max=500"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	userID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if !id.Owns(userID) {
		s.handleError(w, r, service.ErrForbidden)
		return
	}

	user, err := s.users.GetUser(r.Context(), userID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	userID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req updateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user := &models.User{
		ID:      userID,
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Avatar:  req.Avatar,
	}
	if err := s.users.UpdateProfile(r.Context(), id, user); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Profile updated")
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	userID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if userID != id.UserID {
		s.handleError(w, r, service.ErrForbidden)
		return
	}

	var req changePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.users.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password changed")
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	userID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if err := s.users.DeleteUser(r.Context(), id, userID); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Account deleted")
}

func (s *Server) handleUserStatistics(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	userID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	stats, err := s.users.GetUserStatistics(r.Context(), id, userID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}
