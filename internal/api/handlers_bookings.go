package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"stayhub/internal/database"
	"stayhub/internal/models"
)

type createBookingRequest struct {
	PropertyID      int64  `json:"property_id" validate:"required,gt=0"`
	StartDate       string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Guests          int    `json:"guests" validate:"required,gte=1,lte=50"`
	Rooms           int    `json:"rooms" validate:"omitempty,gte=1,lte=20"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=1000"`
	ContactPhone    string `json:"contact_phone" validate:"omitempty,min=5,max=20"`
	ContactEmail    string `json:"contact_email" validate:"omitempty,email"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)

	var req createBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start, _ := parseDate(req.StartDate)
	end, _ := parseDate(req.EndDate)
	booking := &models.Booking{
		PropertyID:      req.PropertyID,
		StartDate:       start,
		EndDate:         end,
		Guests:          req.Guests,
		Rooms:           req.Rooms,
		SpecialRequests: req.SpecialRequests,
		ContactPhone:    req.ContactPhone,
		ContactEmail:    req.ContactEmail,
	}

	if err := s.bookings.CreateBooking(r.Context(), id, booking); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, booking)
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	filter := database.BookingFilter{
		Status: r.URL.Query().Get("status"),
		Page:   parsePage(r),
	}

	bookings, total, err := s.bookings.ListBookings(r.Context(), id, filter)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, bookings, filter.Page, total)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	bookingID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid booking id")
		return
	}

	booking, err := s.bookings.GetBooking(r.Context(), id, bookingID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, booking)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	bookingID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid booking id")
		return
	}

	var req cancelBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.bookings.CancelBooking(r.Context(), id, bookingID, req.Reason); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Booking cancelled")
}
