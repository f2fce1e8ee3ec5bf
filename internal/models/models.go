package models

import "time"

// Page describes a validated pagination request: Page >= 1 and
// 1 <= Limit <= MaxPageSize.
type Page struct {
	Page  int
	Limit int
}

// Offset returns the row offset for SQL queries.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the envelope echoed back with every list response.
type Pagination struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalItems   int `json:"total_items"`
	ItemsPerPage int `json:"items_per_page"`
}

// NewPagination derives the response envelope from a request page and
// a total row count.
func NewPagination(p Page, total int) Pagination {
	pages := total / p.Limit
	if total%p.Limit != 0 {
		pages++
	}
	return Pagination{
		CurrentPage:  p.Page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: p.Limit,
	}
}

// DashboardStats is the admin landing rollup.
type DashboardStats struct {
	TotalUsers       int                   `json:"total_users"`
	ActiveUsers      int                   `json:"active_users"`
	TotalProperties  int                   `json:"total_properties"`
	ActiveProperties int                   `json:"active_properties"`
	TotalBookings    int                   `json:"total_bookings"`
	PendingBookings  int                   `json:"pending_bookings"`
	TotalReviews     int                   `json:"total_reviews"`
	PendingReviews   int                   `json:"pending_reviews"`
	TotalRevenue     float64               `json:"total_revenue"`
	MonthlyRevenue   []MonthlyBookingStats `json:"monthly_revenue"`
}

// SystemHealth is the admin health probe result.
type SystemHealth struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	CheckedAt time.Time `json:"checked_at"`
}
