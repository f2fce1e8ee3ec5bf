package api

import (
	"errors"
	"net/http"

	"stayhub/internal/auth"
	"stayhub/internal/database"
	"stayhub/internal/service"
)

// handleError maps service and store errors onto the HTTP taxonomy.
// Anything unrecognized is a 500 with a generic message; the real
// error has already been logged by the middleware chain.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrTooManyAttempts):
		writeError(w, http.StatusTooManyRequests, "Too many failed login attempts, try again later")
	case errors.Is(err, service.ErrAccountInactive):
		writeError(w, http.StatusForbidden, "Account is not active")
	case errors.Is(err, auth.ErrWrongPassword):
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
	case errors.Is(err, database.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "Email is already registered")
	case errors.Is(err, database.ErrDateConflict):
		writeError(w, http.StatusConflict, "Property is already booked for the selected dates")
	case errors.Is(err, database.ErrPropertyUnavailable):
		writeError(w, http.StatusBadRequest, "Property is not available for booking")
	case errors.Is(err, database.ErrOccupancyExceeded):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrInvalidDateRange):
		writeError(w, http.StatusBadRequest, "End date must be after start date")
	case errors.Is(err, database.ErrPastStartDate):
		writeError(w, http.StatusBadRequest, "Start date cannot be in the past")
	case errors.Is(err, database.ErrAlreadyCancelled):
		writeError(w, http.StatusBadRequest, "Booking is already cancelled")
	case errors.Is(err, database.ErrCancelCompleted):
		writeError(w, http.StatusBadRequest, "Completed bookings cannot be cancelled")
	case errors.Is(err, database.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "Invalid status")
	case errors.Is(err, database.ErrReviewNotEligible):
		writeError(w, http.StatusBadRequest, "Reviews require a completed booking for this property")
	case errors.Is(err, database.ErrAlreadyReviewed):
		writeError(w, http.StatusConflict, "You have already reviewed this booking")
	case errors.Is(err, database.ErrAlreadySaved):
		writeError(w, http.StatusConflict, "Property is already saved")
	case errors.Is(err, database.ErrActiveBookings):
		writeError(w, http.StatusBadRequest, "Cannot delete while pending or confirmed bookings exist")
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
