package models

import "time"

type Property struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	Location          string    `json:"location"`
	Address           string    `json:"address,omitempty"`
	Price             float64   `json:"price"`
	PricePerRoom      float64   `json:"price_per_room,omitempty"`
	PropertyType      string    `json:"property_type"`
	AccommodationType string    `json:"accommodation_type"`
	Bedrooms          int       `json:"bedrooms"`
	Bathrooms         int       `json:"bathrooms"`
	MaxOccupancy      int       `json:"max_occupancy"`
	Images            []string  `json:"images"`
	Amenities         []string  `json:"amenities"`
	HouseRules        []string  `json:"house_rules"`
	IsAvailable       bool      `json:"is_available"`
	IsFeatured        bool      `json:"is_featured"`
	ViewCount         int64     `json:"view_count"`
	BookingCount      int64     `json:"booking_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Aggregates filled by list/detail queries.
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int     `json:"review_count"`
}

// RatingBreakdown counts approved reviews per star value.
type RatingBreakdown map[int]int

// PropertyStats is the admin per-property rollup.
type PropertyStats struct {
	TotalBookings     int     `json:"total_bookings"`
	ConfirmedBookings int     `json:"confirmed_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
	AvgRating         float64 `json:"avg_rating"`
	TotalReviews      int     `json:"total_reviews"`
	ViewCount         int64   `json:"view_count"`
}
