package domain

import (
	"context"
	"time"

	"stayhub/internal/database"
	"stayhub/internal/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, user *models.User) error
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
	UpdateUserStatus(ctx context.Context, id int64, status *string, verified *bool) error
	UpdateUserLastActive(ctx context.Context, id int64) error
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context, filter database.UserFilter) ([]*models.User, int, error)
	CountActiveBookingsForUser(ctx context.Context, userID int64) (int, error)
	GetUserStatistics(ctx context.Context, userID int64) (*models.UserStatistics, error)
}

type PropertyStore interface {
	CreateProperty(ctx context.Context, p *models.Property) error
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
	UpdateProperty(ctx context.Context, p *models.Property) error
	DeleteProperty(ctx context.Context, id int64) error
	IncrementViewCount(ctx context.Context, id int64) error
	CountActiveBookingsForProperty(ctx context.Context, propertyID int64) (int, error)
	ListProperties(ctx context.Context, filter database.PropertyFilter) ([]*models.Property, int, error)
	GetFeaturedProperties(ctx context.Context, limit int) ([]*models.Property, error)
	GetTopProperties(ctx context.Context, limit int) ([]*models.Property, error)
	GetPropertyStats(ctx context.Context, propertyID int64) (*models.PropertyStats, error)
}

type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	HasDateConflict(ctx context.Context, propertyID int64, start, end time.Time) (bool, error)
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context, filter database.BookingFilter) ([]*models.Booking, int, error)
	UpdateBookingStatus(ctx context.Context, id int64, status, adminNotes string) error
	CancelBooking(ctx context.Context, id int64, reason string) error
	GetBookingStats(ctx context.Context) (*models.BookingStats, error)
	GetMonthlyBookingStats(ctx context.Context) ([]models.MonthlyBookingStats, error)
	GetRecentBookings(ctx context.Context, limit int) ([]*models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
}

type ReviewStore interface {
	CreateReview(ctx context.Context, review *models.Review) error
	GetReview(ctx context.Context, id int64) (*models.Review, error)
	ListReviews(ctx context.Context, filter database.ReviewFilter) ([]*models.Review, int, error)
	UpdateReview(ctx context.Context, review *models.Review) error
	UpdateReviewStatus(ctx context.Context, id int64, status, adminResponse string) error
	MarkReviewHelpful(ctx context.Context, id int64) error
	DeleteReview(ctx context.Context, id int64) error
	GetPropertyRatingStats(ctx context.Context, propertyID int64) (*models.PropertyRatingStats, error)
	GetReviewStats(ctx context.Context) (*models.ReviewStats, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	ListComments(ctx context.Context, filter database.CommentFilter) ([]*models.Comment, int, error)
	UpdateComment(ctx context.Context, id int64, text string) error
	UpdateCommentStatus(ctx context.Context, id int64, status, adminResponse string) error
	DeleteComment(ctx context.Context, id int64) error
	GetCommentStats(ctx context.Context) (*models.CommentStats, error)
}

type SavedPropertyStore interface {
	SaveProperty(ctx context.Context, saved *models.SavedProperty) error
	ListSavedProperties(ctx context.Context, userID int64, page models.Page) ([]*models.SavedProperty, int, error)
	GetSavedProperty(ctx context.Context, userID, propertyID int64) (*models.SavedProperty, error)
	UpdateSavedPropertyNotes(ctx context.Context, userID, propertyID int64, notes string) error
	UnsaveProperty(ctx context.Context, userID, propertyID int64) error
	CountSavedForUser(ctx context.Context, userID int64) (int, error)
}

type StatsStore interface {
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
	Ping(ctx context.Context) error
}

// Backuper snapshots the datastore on demand and returns the path of
// the snapshot file.
type Backuper interface {
	Backup(ctx context.Context) (string, error)
}

// StateRepository keeps short-lived auth state: failed login counters
// and revoked token IDs. Implementations may degrade to memory when
// redis is down.
type StateRepository interface {
	RecordLoginFailure(ctx context.Context, email string, window time.Duration) (int, error)
	ClearLoginFailures(ctx context.Context, email string) error
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
