package database

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Sentinel errors returned by the store. Handlers map these onto the
// HTTP error taxonomy; each must stay distinct so clients can tell a
// date conflict from, say, an occupancy violation.
var (
	ErrNotFound = errors.New("record not found")

	ErrDuplicateEmail = errors.New("email already registered")

	// Booking creation failures.
	ErrPropertyUnavailable = errors.New("property is not available for booking")
	ErrOccupancyExceeded   = errors.New("guest count exceeds property occupancy")
	ErrInvalidDateRange    = errors.New("end date must be after start date")
	ErrPastStartDate       = errors.New("start date cannot be in the past")
	ErrDateConflict        = errors.New("property is already booked for the selected dates")

	// Booking transitions.
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrCancelCompleted  = errors.New("cannot cancel completed booking")
	ErrInvalidStatus    = errors.New("invalid booking status")

	// Review eligibility.
	ErrReviewNotEligible = errors.New("review requires a completed booking for this property")
	ErrAlreadyReviewed   = errors.New("booking has already been reviewed")

	// Saved properties.
	ErrAlreadySaved = errors.New("property is already saved")

	// Deletion guards.
	ErrActiveBookings = errors.New("record has active bookings")
)

// OccupancyError carries the property's limit so handlers can report
// it to the client. It matches ErrOccupancyExceeded under errors.Is.
type OccupancyError struct {
	Max int
}

func (e *OccupancyError) Error() string {
	return fmt.Sprintf("Property can accommodate maximum %d guests", e.Max)
}

func (e *OccupancyError) Is(target error) bool {
	return target == ErrOccupancyExceeded
}

// isUniqueViolation reports whether err is a sqlite unique-constraint
// failure, so duplicate saves/reviews surface as their own error kind
// even when two requests race past the application check.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
