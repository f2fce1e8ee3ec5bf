package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"stayhub/internal/auth"
	"stayhub/internal/config"
	"stayhub/internal/database"
	"stayhub/internal/domain"
	"stayhub/internal/events"
	"stayhub/internal/metrics"
	"stayhub/internal/models"
)

var (
	// ErrInvalidCredentials hides whether the email or the password
	// was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTooManyAttempts is returned while a login lockout is active.
	ErrTooManyAttempts = errors.New("too many failed login attempts")

	// ErrAccountInactive blocks suspended and deactivated accounts.
	ErrAccountInactive = errors.New("account is not active")
)

type UserService struct {
	users    domain.UserStore
	tokens   *auth.TokenManager
	state    domain.StateRepository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger

	maxLoginFailures int
	lockoutWindow    time.Duration
}

func NewUserService(users domain.UserStore, tokens *auth.TokenManager, state domain.StateRepository, eventBus domain.EventPublisher, cfg config.AuthConfig, logger *zerolog.Logger) *UserService {
	return &UserService{
		users:            users,
		tokens:           tokens,
		state:            state,
		eventBus:         eventBus,
		logger:           logger,
		maxLoginFailures: cfg.MaxLoginFailures,
		lockoutWindow:    time.Duration(cfg.LockoutMinutes) * time.Minute,
	}
}

// Register creates an account and returns it with a fresh token.
func (s *UserService) Register(ctx context.Context, user *models.User, password string) (string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	user.PasswordHash = hash
	user.Role = models.RoleUser
	user.Status = models.UserActive

	if err := s.users.CreateUser(ctx, user); err != nil {
		return "", err
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventUserRegistered, events.UserEventPayload{
			UserID: user.ID, Email: user.Email, Role: user.Role,
		})
	}

	token, _, err := s.tokens.Issue(user)
	return token, err
}

// CreateAdmin lets an existing admin provision another admin account. No
// token is issued; the new admin logs in themselves.
func (s *UserService) CreateAdmin(ctx context.Context, id models.Identity, user *models.User, password string) error {
	if !id.IsAdmin() {
		return ErrForbidden
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.Role = models.RoleAdmin
	user.Status = models.UserActive
	user.Verified = true

	if err := s.users.CreateUser(ctx, user); err != nil {
		return err
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventUserRegistered, events.UserEventPayload{
			UserID: user.ID, Email: user.Email, Role: user.Role,
		})
	}
	s.logger.Info().Int64("user_id", user.ID).Int64("created_by", id.UserID).Msg("admin account created")
	return nil
}

// Login verifies credentials, enforcing the failed-attempt lockout.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.recordFailure(ctx, email)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if user.Status != models.UserActive {
		return nil, "", ErrAccountInactive
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrWrongPassword) {
			if locked := s.recordFailure(ctx, email); locked {
				return nil, "", ErrTooManyAttempts
			}
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.state.ClearLoginFailures(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear login failures")
	}
	if err := s.users.UpdateUserLastActive(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to update last active")
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// recordFailure bumps the failure counter and reports whether the
// lockout threshold has been reached.
func (s *UserService) recordFailure(ctx context.Context, email string) bool {
	metrics.IncLoginFailure()
	count, err := s.state.RecordLoginFailure(ctx, email, s.lockoutWindow)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to record login failure")
		return false
	}
	return count > s.maxLoginFailures
}

// Logout revokes the presented token for the remainder of its
// lifetime.
func (s *UserService) Logout(ctx context.Context, id models.Identity) error {
	if id.TokenID == "" {
		return nil
	}
	return s.state.RevokeToken(ctx, id.TokenID, s.tokens.TTL())
}

// IsTokenRevoked is consulted by the auth middleware on every request.
func (s *UserService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return s.state.IsTokenRevoked(ctx, tokenID)
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// UpdateProfile lets a user edit their own profile; admins may edit
// anyone except other admins.
func (s *UserService) UpdateProfile(ctx context.Context, id models.Identity, user *models.User) error {
	target, err := s.users.GetUserByID(ctx, user.ID)
	if err != nil {
		return err
	}
	if !id.Owns(target.ID) {
		return ErrForbidden
	}
	if id.IsAdmin() && target.IsAdmin() && target.ID != id.UserID {
		return ErrForbidden
	}
	return s.users.UpdateUserProfile(ctx, user)
}

func (s *UserService) ChangePassword(ctx context.Context, id models.Identity, current, next string) error {
	user, err := s.users.GetUserByID(ctx, id.UserID)
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(user.PasswordHash, current); err != nil {
		return err
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	return s.users.UpdateUserPassword(ctx, user.ID, hash)
}

// UpdateUserStatus is the admin account toggle. Admin accounts cannot
// be modified by other admins.
func (s *UserService) UpdateUserStatus(ctx context.Context, id models.Identity, userID int64, status *string, verified *bool) error {
	if !id.IsAdmin() {
		return ErrForbidden
	}
	target, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if target.IsAdmin() && target.ID != id.UserID {
		return ErrForbidden
	}
	if status != nil && !validUserStatus(*status) {
		return database.ErrInvalidStatus
	}
	return s.users.UpdateUserStatus(ctx, userID, status, verified)
}

// DeleteUser removes an account. Admin accounts are never deletable,
// and accounts holding pending or confirmed bookings are protected.
func (s *UserService) DeleteUser(ctx context.Context, id models.Identity, userID int64) error {
	if !id.Owns(userID) {
		return ErrForbidden
	}
	target, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return ErrForbidden
	}

	active, err := s.users.CountActiveBookingsForUser(ctx, userID)
	if err != nil {
		return err
	}
	if active > 0 {
		return database.ErrActiveBookings
	}

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return err
	}
	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventUserDeleted, events.UserEventPayload{
			UserID: target.ID, Email: target.Email, Role: target.Role,
		})
	}
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, id models.Identity, filter database.UserFilter) ([]*models.User, int, error) {
	if !id.IsAdmin() {
		return nil, 0, ErrForbidden
	}
	return s.users.ListUsers(ctx, filter)
}

func (s *UserService) GetUserStatistics(ctx context.Context, id models.Identity, userID int64) (*models.UserStatistics, error) {
	if !id.Owns(userID) {
		return nil, ErrForbidden
	}
	return s.users.GetUserStatistics(ctx, userID)
}

func validUserStatus(status string) bool {
	for _, s := range models.UserStatuses {
		if s == status {
			return true
		}
	}
	return false
}
