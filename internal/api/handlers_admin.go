package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"stayhub/internal/database"
	"stayhub/internal/models"
)

type propertyRequest struct {
	Title             string   `json:"title" validate:"required,min=3,max=200"`
	Description       string   `json:"description" validate:"required,min=10"`
	Location          string   `json:"location" validate:"required,min=2,max=200"`
	Address           string   `json:"address" validate:"omitempty,max=300"`
	Price             float64  `json:"price" validate:"required,gt=0"`
	PricePerRoom      float64  `json:"price_per_room" validate:"omitempty,gt=0"`
	PropertyType      string   `json:"property_type" validate:"required,oneof=Apartment Villa House Condo Studio Mansion Penthouse"`
	AccommodationType string   `json:"accommodation_type" validate:"required,oneof=whole_house whole_apartment whole_flat single_room multiple_rooms"`
	Bedrooms          int      `json:"bedrooms" validate:"gte=0,lte=50"`
	Bathrooms         int      `json:"bathrooms" validate:"gte=0,lte=50"`
	MaxOccupancy      int      `json:"max_occupancy" validate:"required,gte=1,lte=50"`
	Images            []string `json:"images" validate:"omitempty,dive,max=500"`
	Amenities         []string `json:"amenities" validate:"omitempty,dive,max=100"`
	HouseRules        []string `json:"house_rules" validate:"omitempty,dive,max=200"`
	IsAvailable       *bool    `json:"is_available"`
	IsFeatured        bool     `json:"is_featured"`
}

type userStatusRequest struct {
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	Verified *bool   `json:"verified"`
}

type bookingStatusRequest struct {
	Status     string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	AdminNotes string `json:"admin_notes" validate:"omitempty,max=1000"`
}

type moderationRequest struct {
	Status        string `json:"status" validate:"required,oneof=approved rejected"`
	AdminResponse string `json:"admin_response" validate:"omitempty,max=1000"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	stats, err := s.admin.GetDashboardStats(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	top, err := s.admin.GetTopProperties(r.Context(), id, 5)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	recent, err := s.admin.GetRecentBookings(r.Context(), id, 10)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"stats":           stats,
		"top_properties":  top,
		"recent_bookings": recent,
	})
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	q := r.URL.Query()
	filter := database.UserFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Role:   q.Get("role"),
		Page:   parsePage(r),
	}
	users, total, err := s.users.ListUsers(r.Context(), id, filter)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, users, filter.Page, total)
}

func (s *Server) handleAdminUserStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	userID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req userStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status == nil && req.Verified == nil {
		writeError(w, http.StatusBadRequest, "Nothing to update")
		return
	}
	if err := s.users.UpdateUserStatus(r.Context(), id, userID, req.Status, req.Verified); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "User updated")
}

func (s *Server) handleAdminCreateAdmin(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)

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
	if err := s.users.CreateAdmin(r.Context(), id, user, req.Password); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, user)
}

func (s *Server) handleAdminCreateProperty(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)

	var req propertyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	property := propertyFromRequest(&req)
	if err := s.properties.CreateProperty(r.Context(), id, property); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, property)
}

func (s *Server) handleAdminUpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	propertyID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid property id")
		return
	}

	var req propertyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	property := propertyFromRequest(&req)
	property.ID = propertyID
	if err := s.properties.UpdateProperty(r.Context(), id, property); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Property updated")
}

func (s *Server) handleAdminDeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	propertyID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid property id")
		return
	}
	if err := s.properties.DeleteProperty(r.Context(), id, propertyID); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Property deleted")
}

func (s *Server) handleAdminPropertyStats(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	propertyID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid property id")
		return
	}
	stats, err := s.properties.GetPropertyStats(r.Context(), id, propertyID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (s *Server) handleAdminListBookings(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	q := r.URL.Query()
	filter := database.BookingFilter{
		Status: q.Get("status"),
		Page:   parsePage(r),
	}
	if raw := q.Get("user_id"); raw != "" {
		filter.UserID, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw := q.Get("property_id"); raw != "" {
		filter.PropertyID, _ = strconv.ParseInt(raw, 10, 64)
	}

	bookings, total, err := s.bookings.ListBookings(r.Context(), id, filter)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, bookings, filter.Page, total)
}

func (s *Server) handleAdminBookingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.bookings.GetBookingStats(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (s *Server) handleAdminBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	bookingID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid booking id")
		return
	}

	var req bookingStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.bookings.UpdateBookingStatus(r.Context(), id, bookingID, req.Status, req.AdminNotes); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Booking status updated")
}

// handleAdminExportBookings streams the XLSX export for a period.
func (s *Server) handleAdminExportBookings(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)

	start, err := parseDate(r.URL.Query().Get("start_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be a date in YYYY-MM-DD format")
		return
	}
	end, err := parseDate(r.URL.Query().Get("end_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date must be a date in YYYY-MM-DD format")
		return
	}
	if !end.After(start) || end.Sub(start) > 366*24*time.Hour {
		writeError(w, http.StatusBadRequest, "Export period must be positive and at most one year")
		return
	}

	filePath, err := s.admin.ExportBookings(r.Context(), id, start, end)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=bookings.xlsx")
	http.ServeFile(w, r, filePath)
}

func (s *Server) handleAdminListReviews(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	filter := database.ReviewFilter{
		Status: r.URL.Query().Get("status"),
		Page:   parsePage(r),
	}
	reviews, total, err := s.reviews.ListAllReviews(r.Context(), id, filter)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, reviews, filter.Page, total)
}

func (s *Server) handleAdminReviewStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.reviews.GetReviewStats(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (s *Server) handleAdminCommentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.comments.GetCommentStats(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (s *Server) handleAdminReviewStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	reviewID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid review id")
		return
	}

	var req moderationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.reviews.ModerateReview(r.Context(), id, reviewID, req.Status, req.AdminResponse); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Review moderated")
}

func (s *Server) handleAdminCommentStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	commentID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid comment id")
		return
	}

	var req moderationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.comments.ModerateComment(r.Context(), id, commentID, req.Status, req.AdminResponse); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Comment moderated")
}

func (s *Server) handleAdminHealth(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	health, err := s.admin.SystemHealth(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, health)
}

func (s *Server) handleAdminBackup(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	filePath, err := s.admin.Backup(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"backup_path": filePath})
}

func propertyFromRequest(req *propertyRequest) *models.Property {
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	return &models.Property{
		Title:             req.Title,
		Description:       req.Description,
		Location:          req.Location,
		Address:           req.Address,
		Price:             req.Price,
		PricePerRoom:      req.PricePerRoom,
		PropertyType:      req.PropertyType,
		AccommodationType: req.AccommodationType,
		Bedrooms:          req.Bedrooms,
		Bathrooms:         req.Bathrooms,
		MaxOccupancy:      req.MaxOccupancy,
		Images:            req.Images,
		Amenities:         req.Amenities,
		HouseRules:        req.HouseRules,
		IsAvailable:       available,
		IsFeatured:        req.IsFeatured,
	}
}
