package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"stayhub/internal/database"
	"stayhub/internal/domain"
	"stayhub/internal/events"
	"stayhub/internal/metrics"
	"stayhub/internal/models"
)

// ErrForbidden is returned when an identity tries to act on a
// resource it does not own.
var ErrForbidden = errors.New("forbidden")

type BookingService struct {
	bookings   domain.BookingStore
	properties domain.PropertyStore
	eventBus   domain.EventPublisher
	logger     *zerolog.Logger
}

func NewBookingService(bookings domain.BookingStore, properties domain.PropertyStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		bookings:   bookings,
		properties: properties,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// ValidateStayRange checks date ordering and that the stay does not
// start in the past. Dates are compared at day granularity.
func (s *BookingService) ValidateStayRange(start, end time.Time) error {
	if !end.After(start) {
		return database.ErrInvalidDateRange
	}
	today := time.Now().Truncate(24 * time.Hour)
	if start.Before(today) {
		return database.ErrPastStartDate
	}
	return nil
}

// CreateBooking prices the stay server-side and delegates the
// conflict check to the transactional insert.
func (s *BookingService) CreateBooking(ctx context.Context, id models.Identity, booking *models.Booking) error {
	booking.UserID = id.UserID

	if err := s.ValidateStayRange(booking.StartDate, booking.EndDate); err != nil {
		return err
	}

	property, err := s.properties.GetProperty(ctx, booking.PropertyID)
	if err != nil {
		return err
	}

	nights := int(booking.EndDate.Sub(booking.StartDate).Hours() / 24)
	if booking.Rooms > 0 && property.PricePerRoom > 0 {
		booking.TotalAmount = property.PricePerRoom * float64(booking.Rooms) * float64(nights)
	} else {
		booking.TotalAmount = property.Price * float64(nights)
	}

	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		if errors.Is(err, database.ErrDateConflict) {
			metrics.IncBookingConflict()
		}
		return err
	}

	metrics.IncBookingCreated()
	s.publishEvent(events.EventBookingCreated, booking, id.UserID)
	return nil
}

// CheckAvailability answers the read-only availability probe.
func (s *BookingService) CheckAvailability(ctx context.Context, propertyID int64, start, end time.Time) (bool, error) {
	if err := s.ValidateStayRange(start, end); err != nil {
		return false, err
	}
	property, err := s.properties.GetProperty(ctx, propertyID)
	if err != nil {
		return false, err
	}
	if !property.IsAvailable {
		return false, database.ErrPropertyUnavailable
	}
	conflict, err := s.bookings.HasDateConflict(ctx, propertyID, start, end)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id models.Identity, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !id.Owns(booking.UserID) {
		return nil, ErrForbidden
	}
	return booking, nil
}

// ListBookings returns the caller's own bookings; admins may list
// across all users.
func (s *BookingService) ListBookings(ctx context.Context, id models.Identity, filter database.BookingFilter) ([]*models.Booking, int, error) {
	if !id.IsAdmin() {
		filter.UserID = id.UserID
	}
	return s.bookings.ListBookings(ctx, filter)
}

// CancelBooking lets the owner (or an admin) cancel a booking that is
// still pending or confirmed.
func (s *BookingService) CancelBooking(ctx context.Context, id models.Identity, bookingID int64, reason string) error {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if !id.Owns(booking.UserID) {
		return ErrForbidden
	}
	switch booking.Status {
	case models.StatusCancelled:
		return database.ErrAlreadyCancelled
	case models.StatusCompleted:
		return database.ErrCancelCompleted
	}

	if err := s.bookings.CancelBooking(ctx, bookingID, reason); err != nil {
		return err
	}
	booking.Status = models.StatusCancelled
	s.publishEvent(events.EventBookingCancelled, booking, id.UserID)
	return nil
}

// UpdateBookingStatus is the admin override: any of the four lifecycle
// states may be set regardless of the current one.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id models.Identity, bookingID int64, status, adminNotes string) error {
	if !id.IsAdmin() {
		return ErrForbidden
	}
	if !validBookingStatus(status) {
		return database.ErrInvalidStatus
	}

	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := s.bookings.UpdateBookingStatus(ctx, bookingID, status, adminNotes); err != nil {
		return err
	}
	booking.Status = status

	switch status {
	case models.StatusConfirmed:
		s.publishEvent(events.EventBookingConfirmed, booking, id.UserID)
	case models.StatusCancelled:
		s.publishEvent(events.EventBookingCancelled, booking, id.UserID)
	case models.StatusCompleted:
		s.publishEvent(events.EventBookingCompleted, booking, id.UserID)
	}
	return nil
}

func (s *BookingService) GetBookingStats(ctx context.Context) (*models.BookingStats, error) {
	return s.bookings.GetBookingStats(ctx)
}

func (s *BookingService) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	return s.bookings.GetBookingsByDateRange(ctx, start, end)
}

func validBookingStatus(status string) bool {
	for _, s := range models.BookingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, changedByID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		PropertyID:    booking.PropertyID,
		PropertyTitle: booking.PropertyTitle,
		Status:        booking.Status,
		StartDate:     booking.StartDate,
		EndDate:       booking.EndDate,
		ChangedByID:   changedByID,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
