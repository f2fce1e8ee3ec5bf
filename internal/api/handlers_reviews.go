package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"stayhub/internal/database"
	"stayhub/internal/models"
)

type createReviewRequest struct {
	PropertyID     int64  `json:"property_id" validate:"required,gt=0"`
	BookingID      int64  `json:"booking_id" validate:"required,gt=0"`
	Rating         int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title          string `json:"title" validate:"omitempty,max=150"`
	Comment        string `json:"comment" validate:"required,min=10,max=2000"`
	Cleanliness    int    `json:"cleanliness" validate:"omitempty,gte=1,lte=5"`
	Communication  int    `json:"communication" validate:"omitempty,gte=1,lte=5"`
	Location       int    `json:"location" validate:"omitempty,gte=1,lte=5"`
	Value          int    `json:"value" validate:"omitempty,gte=1,lte=5"`
	WouldRecommend bool   `json:"would_recommend"`
}

type updateReviewRequest struct {
	Rating         int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title          string `json:"title" validate:"omitempty,max=150"`
	Comment        string `json:"comment" validate:"required,min=10,max=2000"`
	Cleanliness    int    `json:"cleanliness" validate:"omitempty,gte=1,lte=5"`
	Communication  int    `json:"communication" validate:"omitempty,gte=1,lte=5"`
	Location       int    `json:"location" validate:"omitempty,gte=1,lte=5"`
	Value          int    `json:"value" validate:"omitempty,gte=1,lte=5"`
	WouldRecommend bool   `json:"would_recommend"`
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)

	var req createReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	review := &models.Review{
		PropertyID:     req.PropertyID,
		BookingID:      req.BookingID,
		Rating:         req.Rating,
		Title:          req.Title,
		Comment:        req.Comment,
		Cleanliness:    req.Cleanliness,
		Communication:  req.Communication,
		LocationRating: req.Location,
		ValueRating:    req.Value,
		WouldRecommend: req.WouldRecommend,
	}
	if err := s.reviews.CreateReview(r.Context(), id, review); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, review)
}

// handlePropertyReviews serves the public review listing for a
// property; admins also see unmoderated entries.
func (s *Server) handlePropertyReviews(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	propertyID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid property id")
		return
	}

	filter := database.ReviewFilter{
		PropertyID: propertyID,
		Sort:       r.URL.Query().Get("sort"),
		Page:       parsePage(r),
	}
	if raw := r.URL.Query().Get("min_rating"); raw != "" {
		filter.MinRating, _ = strconv.Atoi(raw)
	}

	reviews, total, err := s.reviews.ListPropertyReviews(r.Context(), id, filter)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, reviews, filter.Page, total)
}

func (s *Server) handleMyReviews(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	page := parsePage(r)
	reviews, total, err := s.reviews.ListUserReviews(r.Context(), id, id.UserID, page)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, reviews, page, total)
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	reviewID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid review id")
		return
	}

	var req updateReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	review := &models.Review{
		ID:             reviewID,
		Rating:         req.Rating,
		Title:          req.Title,
		Comment:        req.Comment,
		Cleanliness:    req.Cleanliness,
		Communication:  req.Communication,
		LocationRating: req.Location,
		ValueRating:    req.Value,
		WouldRecommend: req.WouldRecommend,
	}
	if err := s.reviews.UpdateReview(r.Context(), id, review); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Review updated and resubmitted for moderation")
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	reviewID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid review id")
		return
	}
	if err := s.reviews.DeleteReview(r.Context(), id, reviewID); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Review deleted")
}

func (s *Server) handleMarkHelpful(w http.ResponseWriter, r *http.Request) {
	reviewID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid review id")
		return
	}
	if err := s.reviews.MarkHelpful(r.Context(), reviewID); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Marked as helpful")
}
