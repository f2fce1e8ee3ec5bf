package models

import "time"

// Booking reserves one property for one user over the half-open date
// range [StartDate, EndDate).
type Booking struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	PropertyID         int64     `json:"property_id"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	Guests             int       `json:"guests"`
	Rooms              int       `json:"rooms,omitempty"`
	TotalAmount        float64   `json:"total_amount"`
	Status             string    `json:"status"`
	PaymentStatus      string    `json:"payment_status"`
	SpecialRequests    string    `json:"special_requests,omitempty"`
	ContactPhone       string    `json:"contact_phone,omitempty"`
	ContactEmail       string    `json:"contact_email,omitempty"`
	CancellationReason string    `json:"cancellation_reason,omitempty"`
	AdminNotes         string    `json:"admin_notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Denormalized fields filled by list queries.
	PropertyTitle    string `json:"property_title,omitempty"`
	PropertyLocation string `json:"property_location,omitempty"`
	UserName         string `json:"user_name,omitempty"`
	UserEmail        string `json:"user_email,omitempty"`
}

// Overlaps reports whether two half-open ranges intersect:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && start.Before(b.EndDate)
}

// BookingStats aggregates counts and revenue across bookings.
type BookingStats struct {
	Total        int     `json:"total"`
	Pending      int     `json:"pending"`
	Confirmed    int     `json:"confirmed"`
	Cancelled    int     `json:"cancelled"`
	Completed    int     `json:"completed"`
	TotalRevenue float64 `json:"total_revenue"`
}

// MonthlyBookingStats groups bookings of the current year by month.
type MonthlyBookingStats struct {
	Month    string  `json:"month"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}
