package database

import (
	"context"
	"testing"

	"stayhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCompletedBooking(t *testing.T, db *DB, userID, propertyID int64) *models.Booking {
	t.Helper()
	ctx := context.Background()
	b := &models.Booking{
		UserID:     userID,
		PropertyID: propertyID,
		StartDate:  date(2026, 1, 5),
		EndDate:    date(2026, 1, 10),
		Guests:     2,
	}
	require.NoError(t, db.CreateBooking(ctx, b))
	require.NoError(t, db.UpdateBookingStatus(ctx, b.ID, models.StatusCompleted, ""))
	return b
}

func TestCreateReview(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)
	booking := createCompletedBooking(t, db, user.ID, property.ID)

	review := &models.Review{
		UserID:     user.ID,
		PropertyID: property.ID,
		BookingID:  booking.ID,
		Rating:     5,
		Comment:    "Wonderful stay, spotless apartment.",
	}
	require.NoError(t, db.CreateReview(ctx, review))
	assert.NotZero(t, review.ID)
	assert.Equal(t, models.ModerationPending, review.Status)

	got, err := db.GetReview(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, property.Title, got.PropertyTitle)
	assert.Equal(t, user.Name, got.UserName)
}

func TestCreateReview_Eligibility(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")
	property := createTestProperty(t, db, 4)
	other := createTestProperty(t, db, 4)
	booking := createCompletedBooking(t, db, user.ID, property.ID)

	t.Run("missing booking", func(t *testing.T) {
		err := db.CreateReview(ctx, &models.Review{
			UserID: user.ID, PropertyID: property.ID, BookingID: 9999,
			Rating: 4, Comment: "Nice place overall for the price.",
		})
		assert.ErrorIs(t, err, ErrReviewNotEligible)
	})

	t.Run("booking belongs to someone else", func(t *testing.T) {
		err := db.CreateReview(ctx, &models.Review{
			UserID: stranger.ID, PropertyID: property.ID, BookingID: booking.ID,
			Rating: 4, Comment: "Nice place overall for the price.",
		})
		assert.ErrorIs(t, err, ErrReviewNotEligible)
	})

	t.Run("booking for a different property", func(t *testing.T) {
		err := db.CreateReview(ctx, &models.Review{
			UserID: user.ID, PropertyID: other.ID, BookingID: booking.ID,
			Rating: 4, Comment: "Nice place overall for the price.",
		})
		assert.ErrorIs(t, err, ErrReviewNotEligible)
	})

	t.Run("booking not completed", func(t *testing.T) {
		pending := &models.Booking{
			UserID:     user.ID,
			PropertyID: property.ID,
			StartDate:  date(2026, 8, 1),
			EndDate:    date(2026, 8, 5),
			Guests:     2,
		}
		require.NoError(t, db.CreateBooking(ctx, pending))

		err := db.CreateReview(ctx, &models.Review{
			UserID: user.ID, PropertyID: property.ID, BookingID: pending.ID,
			Rating: 4, Comment: "Nice place overall for the price.",
		})
		assert.ErrorIs(t, err, ErrReviewNotEligible)
	})

	t.Run("duplicate review", func(t *testing.T) {
		first := &models.Review{
			UserID: user.ID, PropertyID: property.ID, BookingID: booking.ID,
			Rating: 5, Comment: "Wonderful stay, spotless apartment.",
		}
		require.NoError(t, db.CreateReview(ctx, first))

		err := db.CreateReview(ctx, &models.Review{
			UserID: user.ID, PropertyID: property.ID, BookingID: booking.ID,
			Rating: 3, Comment: "Trying to review the same stay twice.",
		})
		assert.ErrorIs(t, err, ErrAlreadyReviewed)
	})
}

func TestListReviews(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	ratings := []int{5, 3, 4}
	for i, rating := range ratings {
		b := &models.Booking{
			UserID:     user.ID,
			PropertyID: property.ID,
			StartDate:  date(2026, 1, 1+i*10),
			EndDate:    date(2026, 1, 5+i*10),
			Guests:     2,
		}
		require.NoError(t, db.CreateBooking(ctx, b))
		require.NoError(t, db.UpdateBookingStatus(ctx, b.ID, models.StatusCompleted, ""))
		require.NoError(t, db.CreateReview(ctx, &models.Review{
			UserID: user.ID, PropertyID: property.ID, BookingID: b.ID,
			Rating: rating, Comment: "A comment long enough to pass checks.",
		}))
	}

	page := models.Page{Page: 1, Limit: 10}

	reviews, total, err := db.ListReviews(ctx, ReviewFilter{PropertyID: property.ID, Page: page})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, reviews, 3)

	reviews, total, err = db.ListReviews(ctx, ReviewFilter{PropertyID: property.ID, MinRating: 4, Page: page})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	reviews, _, err = db.ListReviews(ctx, ReviewFilter{PropertyID: property.ID, Sort: "rating_high", Page: page})
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, 3, reviews[2].Rating)
}

func TestUpdateReviewStatusAndRatingStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	var reviewIDs []int64
	for i, rating := range []int{5, 4} {
		b := &models.Booking{
			UserID:     user.ID,
			PropertyID: property.ID,
			StartDate:  date(2026, 2, 1+i*10),
			EndDate:    date(2026, 2, 5+i*10),
			Guests:     2,
		}
		require.NoError(t, db.CreateBooking(ctx, b))
		require.NoError(t, db.UpdateBookingStatus(ctx, b.ID, models.StatusCompleted, ""))
		r := &models.Review{
			UserID: user.ID, PropertyID: property.ID, BookingID: b.ID,
			Rating: rating, Comment: "A comment long enough to pass checks.",
		}
		require.NoError(t, db.CreateReview(ctx, r))
		reviewIDs = append(reviewIDs, r.ID)
	}

	// Pending reviews are invisible to the rating rollup.
	stats, err := db.GetPropertyRatingStats(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalReviews)

	require.NoError(t, db.UpdateReviewStatus(ctx, reviewIDs[0], models.ModerationApproved, "thanks!"))
	require.NoError(t, db.UpdateReviewStatus(ctx, reviewIDs[1], models.ModerationApproved, ""))

	stats, err = db.GetPropertyRatingStats(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalReviews)
	assert.Equal(t, 4.5, stats.AvgRating)
	assert.Equal(t, 1, stats.Breakdown[5])
	assert.Equal(t, 1, stats.Breakdown[4])

	got, err := db.GetReview(ctx, reviewIDs[0])
	require.NoError(t, err)
	assert.Equal(t, models.ModerationApproved, got.Status)
	assert.Equal(t, "thanks!", got.AdminResponse)
}

func TestMarkReviewHelpful(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)
	booking := createCompletedBooking(t, db, user.ID, property.ID)

	review := &models.Review{
		UserID: user.ID, PropertyID: property.ID, BookingID: booking.ID,
		Rating: 5, Comment: "Wonderful stay, spotless apartment.",
	}
	require.NoError(t, db.CreateReview(ctx, review))

	require.NoError(t, db.MarkReviewHelpful(ctx, review.ID))
	require.NoError(t, db.MarkReviewHelpful(ctx, review.ID))

	got, err := db.GetReview(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.HelpfulCount)

	assert.ErrorIs(t, db.MarkReviewHelpful(ctx, 9999), ErrNotFound)
}
