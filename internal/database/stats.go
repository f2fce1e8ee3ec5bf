package database

import (
	"context"
	"fmt"

	"stayhub/internal/models"
)

// GetDashboardStats builds the admin landing rollup with a handful of
// aggregate queries.
func (db *DB) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) FROM users`,
		models.UserActive).Scan(&stats.TotalUsers, &stats.ActiveUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to get user counts: %w", err)
	}

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_available = 1 THEN 1 ELSE 0 END), 0) FROM properties`).
		Scan(&stats.TotalProperties, &stats.ActiveProperties)
	if err != nil {
		return nil, fmt.Errorf("failed to get property counts: %w", err)
	}

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status IN (?, ?) THEN total_amount ELSE 0 END), 0)
		 FROM bookings`,
		models.StatusPending, models.StatusConfirmed, models.StatusCompleted,
	).Scan(&stats.TotalBookings, &stats.PendingBookings, &stats.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking counts: %w", err)
	}

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) FROM reviews`,
		models.ModerationPending).Scan(&stats.TotalReviews, &stats.PendingReviews)
	if err != nil {
		return nil, fmt.Errorf("failed to get review counts: %w", err)
	}

	monthly, err := db.GetMonthlyBookingStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.MonthlyRevenue = monthly

	return &stats, nil
}
