package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
	PaymentFailed   = "failed"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	UserActive    = "active"
	UserInactive  = "inactive"
	UserSuspended = "suspended"
)

// Moderation lifecycle for reviews and comments.
const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)

var PropertyTypes = []string{
	"Apartment", "Villa", "House", "Condo", "Studio", "Mansion", "Penthouse",
}

var AccommodationTypes = []string{
	"whole_house", "whole_apartment", "whole_flat", "single_room", "multiple_rooms",
}

const (
	// DateLayout is the wire and storage format for stay dates.
	// Ranges are half-open: the end date is checkout day and is not
	// itself occupied.
	DateLayout = "2006-01-02"

	// DefaultPageSize applies when the client omits a limit.
	DefaultPageSize = 10

	// MaxPageSize caps the limit query parameter.
	MaxPageSize = 100
)

// BookingStatuses lists the valid booking lifecycle states.
var BookingStatuses = []string{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// ModerationStatuses lists the valid review/comment moderation states.
var ModerationStatuses = []string{ModerationPending, ModerationApproved, ModerationRejected}

// UserStatuses lists the valid account states.
var UserStatuses = []string{UserActive, UserInactive, UserSuspended}
