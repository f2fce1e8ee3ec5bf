package service

import (
	"context"
	"os"
	"testing"
	"time"

	"stayhub/internal/auth"
	"stayhub/internal/config"
	"stayhub/internal/database"
	"stayhub/internal/events"
	"stayhub/internal/models"
	"stayhub/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// testEnv wires services against an in-memory database, the way the
// binary wires them against the real one.
type testEnv struct {
	db     *database.DB
	tokens *auth.TokenManager
	state  *repository.MemoryStateRepository
	bus    *events.EventBus

	users      *UserService
	properties *PropertyService
	bookings   *BookingService
	reviews    *ReviewService
	comments   *CommentService
	saved      *SavedPropertyService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.New(os.Stdout)

	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	state := repository.NewMemoryStateRepository()
	bus := events.NewEventBus()
	authCfg := config.AuthConfig{MaxLoginFailures: 3, LockoutMinutes: 15}

	return &testEnv{
		db:         db,
		tokens:     tokens,
		state:      state,
		bus:        bus,
		users:      NewUserService(db, tokens, state, bus, authCfg, &logger),
		properties: NewPropertyService(db, &logger),
		bookings:   NewBookingService(db, db, bus, &logger),
		reviews:    NewReviewService(db, bus, &logger),
		comments:   NewCommentService(db, &logger),
		saved:      NewSavedPropertyService(db, &logger),
	}
}

func (e *testEnv) registerUser(t *testing.T, email string) (*models.User, models.Identity) {
	t.Helper()
	user := &models.User{Name: "Test User", Email: email}
	_, err := e.users.Register(context.Background(), user, "password123")
	require.NoError(t, err)
	return user, models.Identity{UserID: user.ID, Role: user.Role}
}

func (e *testEnv) makeAdmin(t *testing.T, user *models.User) models.Identity {
	t.Helper()
	_, err := e.db.ExecContext(context.Background(),
		`UPDATE users SET role = ? WHERE id = ?`, models.RoleAdmin, user.ID)
	require.NoError(t, err)
	user.Role = models.RoleAdmin
	return models.Identity{UserID: user.ID, Role: models.RoleAdmin}
}

func (e *testEnv) addProperty(t *testing.T, price float64, maxOccupancy int) *models.Property {
	t.Helper()
	p := &models.Property{
		Title:             "Test Property",
		Description:       "A fine place to stay",
		Location:          "Lisbon",
		Price:             price,
		PropertyType:      "Apartment",
		AccommodationType: "whole_apartment",
		Bedrooms:          2,
		Bathrooms:         1,
		MaxOccupancy:      maxOccupancy,
		IsAvailable:       true,
	}
	require.NoError(t, e.db.CreateProperty(context.Background(), p))
	return p
}

// futureStay builds a stay range starting daysFromNow days ahead.
func futureStay(daysFromNow, nights int) (time.Time, time.Time) {
	start := time.Now().Truncate(24 * time.Hour).AddDate(0, 0, daysFromNow)
	return start, start.AddDate(0, 0, nights)
}
