package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"stayhub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.New(os.Stdout)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hash",
	}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func createTestProperty(t *testing.T, db *DB, maxOccupancy int) *models.Property {
	t.Helper()
	p := &models.Property{
		Title:             "Seaside Apartment",
		Description:       "Two bedrooms with a view",
		Location:          "Lisbon",
		Price:             120,
		PropertyType:      "Apartment",
		AccommodationType: "whole_apartment",
		Bedrooms:          2,
		Bathrooms:         1,
		MaxOccupancy:      maxOccupancy,
		IsAvailable:       true,
	}
	require.NoError(t, db.CreateProperty(context.Background(), p))
	return p
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	booking := &models.Booking{
		UserID:      user.ID,
		PropertyID:  property.ID,
		StartDate:   date(2026, 2, 10),
		EndDate:     date(2026, 2, 20),
		Guests:      2,
		TotalAmount: 1200,
	}
	require.NoError(t, db.CreateBooking(ctx, booking))
	assert.NotZero(t, booking.ID)
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, models.PaymentPending, booking.PaymentStatus)

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, property.Title, got.PropertyTitle)

	// The denormalized counter moves with the insert.
	p, err := db.GetProperty(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.BookingCount)
}

func TestCreateBooking_DateConflict(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	first := &models.Booking{
		UserID:     user.ID,
		PropertyID: property.ID,
		StartDate:  date(2026, 2, 10),
		EndDate:    date(2026, 2, 20),
		Guests:     2,
	}
	require.NoError(t, db.CreateBooking(ctx, first))

	tests := []struct {
		name       string
		start, end time.Time
		wantErr    error
	}{
		{"identical range", date(2026, 2, 10), date(2026, 2, 20), ErrDateConflict},
		{"overlap at start", date(2026, 2, 5), date(2026, 2, 12), ErrDateConflict},
		{"overlap at end", date(2026, 2, 18), date(2026, 2, 25), ErrDateConflict},
		{"contained", date(2026, 2, 12), date(2026, 2, 15), ErrDateConflict},
		{"containing", date(2026, 2, 1), date(2026, 2, 28), ErrDateConflict},
		{"adjacent after checkout", date(2026, 2, 20), date(2026, 2, 25), nil},
		{"adjacent before checkin", date(2026, 2, 5), date(2026, 2, 10), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &models.Booking{
				UserID:     user.ID,
				PropertyID: property.ID,
				StartDate:  tt.start,
				EndDate:    tt.end,
				Guests:     2,
			}
			err := db.CreateBooking(ctx, b)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateBooking_ConcurrentRequestsBookOnce(t *testing.T) {
	// A file-backed db so every goroutine's connection sees the same
	// data, unlike :memory:.
	logger := zerolog.New(os.Stdout)
	db, err := NewDB(filepath.Join(t.TempDir(), "concurrent.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := &models.Booking{
				UserID:     user.ID,
				PropertyID: property.ID,
				StartDate:  date(2026, 6, 10),
				EndDate:    date(2026, 6, 15),
				Guests:     2,
			}
			errs <- db.CreateBooking(ctx, b)
		}()
	}
	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDateConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	var rows int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE property_id = ?`, property.ID).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestCreateBooking_CancelledBookingDoesNotBlock(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	first := &models.Booking{
		UserID:     user.ID,
		PropertyID: property.ID,
		StartDate:  date(2026, 3, 1),
		EndDate:    date(2026, 3, 10),
		Guests:     2,
	}
	require.NoError(t, db.CreateBooking(ctx, first))
	require.NoError(t, db.CancelBooking(ctx, first.ID, "changed plans"))

	second := &models.Booking{
		UserID:     user.ID,
		PropertyID: property.ID,
		StartDate:  date(2026, 3, 1),
		EndDate:    date(2026, 3, 10),
		Guests:     2,
	}
	assert.NoError(t, db.CreateBooking(ctx, second))
}

func TestCreateBooking_OccupancyExceeded(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	booking := &models.Booking{
		UserID:     user.ID,
		PropertyID: property.ID,
		StartDate:  date(2026, 2, 10),
		EndDate:    date(2026, 2, 12),
		Guests:     6,
	}
	err := db.CreateBooking(ctx, booking)
	assert.ErrorIs(t, err, ErrOccupancyExceeded)
	assert.Equal(t, "Property can accommodate maximum 4 guests", err.Error())

	var occErr *OccupancyError
	require.True(t, errors.As(err, &occErr))
	assert.Equal(t, 4, occErr.Max)
}

func TestCreateBooking_UnavailableProperty(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)
	property.IsAvailable = false
	require.NoError(t, db.UpdateProperty(ctx, property))

	booking := &models.Booking{
		UserID:     user.ID,
		PropertyID: property.ID,
		StartDate:  date(2026, 2, 10),
		EndDate:    date(2026, 2, 12),
		Guests:     2,
	}
	assert.ErrorIs(t, db.CreateBooking(ctx, booking), ErrPropertyUnavailable)
}

func TestCreateBooking_MissingProperty(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "guest@example.com")
	booking := &models.Booking{
		UserID:     user.ID,
		PropertyID: 9999,
		StartDate:  date(2026, 2, 10),
		EndDate:    date(2026, 2, 12),
		Guests:     2,
	}
	assert.ErrorIs(t, db.CreateBooking(context.Background(), booking), ErrNotFound)
}

func TestHasDateConflict(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	booking := &models.Booking{
		UserID:     user.ID,
		PropertyID: property.ID,
		StartDate:  date(2026, 4, 10),
		EndDate:    date(2026, 4, 15),
		Guests:     2,
	}
	require.NoError(t, db.CreateBooking(ctx, booking))

	conflict, err := db.HasDateConflict(ctx, property.ID, date(2026, 4, 12), date(2026, 4, 18))
	require.NoError(t, err)
	assert.True(t, conflict)

	conflict, err = db.HasDateConflict(ctx, property.ID, date(2026, 4, 15), date(2026, 4, 18))
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestListBookings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	property := createTestProperty(t, db, 4)

	for i, user := range []*models.User{alice, alice, bob} {
		b := &models.Booking{
			UserID:     user.ID,
			PropertyID: property.ID,
			StartDate:  date(2026, 5, 1+i*10),
			EndDate:    date(2026, 5, 5+i*10),
			Guests:     2,
		}
		require.NoError(t, db.CreateBooking(ctx, b))
	}

	page := models.Page{Page: 1, Limit: 10}

	bookings, total, err := db.ListBookings(ctx, BookingFilter{UserID: alice.ID, Page: page})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, bookings, 2)

	bookings, total, err = db.ListBookings(ctx, BookingFilter{Status: models.StatusPending, Page: page})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.NotEmpty(t, bookings)
	assert.NotEmpty(t, bookings[0].PropertyTitle)
}

func TestUpdateBookingStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)
	booking := &models.Booking{
		UserID:     user.ID,
		PropertyID: property.ID,
		StartDate:  date(2026, 6, 1),
		EndDate:    date(2026, 6, 5),
		Guests:     2,
	}
	require.NoError(t, db.CreateBooking(ctx, booking))

	require.NoError(t, db.UpdateBookingStatus(ctx, booking.ID, models.StatusConfirmed, "paid in full"))

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Equal(t, "paid in full", got.AdminNotes)

	assert.ErrorIs(t, db.UpdateBookingStatus(ctx, 9999, models.StatusConfirmed, ""), ErrNotFound)
}

func TestCancelBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)
	booking := &models.Booking{
		UserID:     user.ID,
		PropertyID: property.ID,
		StartDate:  date(2026, 6, 1),
		EndDate:    date(2026, 6, 5),
		Guests:     2,
	}
	require.NoError(t, db.CreateBooking(ctx, booking))
	require.NoError(t, db.CancelBooking(ctx, booking.ID, "change of plans"))

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
	assert.Equal(t, "change of plans", got.CancellationReason)
}

func TestGetBookingStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	b1 := &models.Booking{UserID: user.ID, PropertyID: property.ID,
		StartDate: date(2026, 7, 1), EndDate: date(2026, 7, 5), Guests: 2, TotalAmount: 400}
	require.NoError(t, db.CreateBooking(ctx, b1))
	require.NoError(t, db.UpdateBookingStatus(ctx, b1.ID, models.StatusConfirmed, ""))

	b2 := &models.Booking{UserID: user.ID, PropertyID: property.ID,
		StartDate: date(2026, 7, 10), EndDate: date(2026, 7, 12), Guests: 2, TotalAmount: 200}
	require.NoError(t, db.CreateBooking(ctx, b2))

	stats, err := db.GetBookingStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Confirmed)
	assert.Equal(t, 1, stats.Pending)
	// Only confirmed and completed bookings count toward revenue.
	assert.Equal(t, 400.0, stats.TotalRevenue)
}
