package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	Verified     bool      `json:"verified"`
	LastActive   time.Time `json:"last_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is the acting principal attached to a request after the
// bearer token has been verified. It is threaded explicitly through
// handlers and services instead of living on shared request state.
type Identity struct {
	UserID  int64
	Role    string
	TokenID string
}

func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}

// Owns reports whether a resource owned by userID is accessible to
// this identity under the ownership rule: admins see everything,
// everyone else only their own rows.
func (id Identity) Owns(userID int64) bool {
	return id.IsAdmin() || id.UserID == userID
}

// UserStatistics is the per-user rollup shown in admin views.
type UserStatistics struct {
	TotalBookings     int     `json:"total_bookings"`
	CompletedBookings int     `json:"completed_bookings"`
	CancelledBookings int     `json:"cancelled_bookings"`
	TotalSpent        float64 `json:"total_spent"`
	AvgRating         float64 `json:"avg_rating"`
	TotalReviews      int     `json:"total_reviews"`
	SavedProperties   int     `json:"saved_properties_count"`
}
