package models

import "time"

// Review is tied to exactly one completed booking; at most one review
// may exist per (user, booking) pair.
type Review struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	PropertyID     int64     `json:"property_id"`
	BookingID      int64     `json:"booking_id"`
	Rating         int       `json:"rating"`
	Title          string    `json:"title,omitempty"`
	Comment        string    `json:"comment"`
	Cleanliness    int       `json:"cleanliness,omitempty"`
	Communication  int       `json:"communication,omitempty"`
	LocationRating int       `json:"location,omitempty"`
	ValueRating    int       `json:"value,omitempty"`
	WouldRecommend bool      `json:"would_recommend"`
	Status         string    `json:"status"`
	AdminResponse  string    `json:"admin_response,omitempty"`
	HelpfulCount   int       `json:"helpful_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Denormalized fields filled by list queries.
	UserName         string `json:"user_name,omitempty"`
	PropertyTitle    string `json:"property_title,omitempty"`
	PropertyLocation string `json:"property_location,omitempty"`
}

// ReviewStats aggregates review counts by moderation status.
type ReviewStats struct {
	Total     int     `json:"total"`
	Pending   int     `json:"pending"`
	Approved  int     `json:"approved"`
	Rejected  int     `json:"rejected"`
	AvgRating float64 `json:"avg_rating"`
}

// PropertyRatingStats summarizes approved reviews for one property.
type PropertyRatingStats struct {
	AvgRating    float64         `json:"avg_rating"`
	TotalReviews int             `json:"total_reviews"`
	Breakdown    RatingBreakdown `json:"rating_breakdown"`
}
