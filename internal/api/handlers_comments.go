package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"stayhub/internal/database"
	"stayhub/internal/models"
)

type createCommentRequest struct {
	PropertyID int64  `json:"property_id" validate:"required,gt=0"`
	Comment    string `json:"comment" validate:"required,min=3,max=1000"`
}

type updateCommentRequest struct {
	Comment string `json:"comment" validate:"required,min=3,max=1000"`
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)

	var req createCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comment := &models.Comment{
		PropertyID: req.PropertyID,
		Comment:    req.Comment,
	}
	if err := s.comments.CreateComment(r.Context(), id, comment); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, comment)
}

func (s *Server) handlePropertyComments(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	propertyID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid property id")
		return
	}

	filter := database.CommentFilter{
		PropertyID: propertyID,
		Page:       parsePage(r),
	}
	comments, total, err := s.comments.ListPropertyComments(r.Context(), id, filter)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, comments, filter.Page, total)
}

func (s *Server) handleMyComments(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	page := parsePage(r)
	comments, total, err := s.comments.ListUserComments(r.Context(), id, id.UserID, page)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, comments, page, total)
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	commentID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid comment id")
		return
	}

	var req updateCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.comments.UpdateComment(r.Context(), id, commentID, req.Comment); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Comment updated and resubmitted for moderation")
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	commentID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid comment id")
		return
	}
	if err := s.comments.DeleteComment(r.Context(), id, commentID); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Comment deleted")
}
