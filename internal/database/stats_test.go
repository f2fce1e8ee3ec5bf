package database

import (
	"context"
	"testing"

	"stayhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	b := &models.Booking{
		UserID: user.ID, PropertyID: property.ID,
		StartDate: date(2026, 3, 1), EndDate: date(2026, 3, 5),
		Guests: 2, TotalAmount: 480,
	}
	require.NoError(t, db.CreateBooking(ctx, b))
	require.NoError(t, db.UpdateBookingStatus(ctx, b.ID, models.StatusCompleted, ""))

	require.NoError(t, db.CreateReview(ctx, &models.Review{
		UserID: user.ID, PropertyID: property.ID, BookingID: b.ID,
		Rating: 5, Comment: "A comment long enough to pass checks.",
	}))

	stats, err := db.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Equal(t, 1, stats.ActiveUsers)
	assert.Equal(t, 1, stats.TotalProperties)
	assert.Equal(t, 1, stats.ActiveProperties)
	assert.Equal(t, 1, stats.TotalBookings)
	assert.Equal(t, 0, stats.PendingBookings)
	assert.Equal(t, 1, stats.TotalReviews)
	assert.Equal(t, 1, stats.PendingReviews)
	assert.Equal(t, 480.0, stats.TotalRevenue)
}
