package service

import (
	"context"

	"github.com/rs/zerolog"

	"stayhub/internal/database"
	"stayhub/internal/domain"
	"stayhub/internal/events"
	"stayhub/internal/models"
)

type ReviewService struct {
	reviews  domain.ReviewStore
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewReviewService(reviews domain.ReviewStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, eventBus: eventBus, logger: logger}
}

// CreateReview submits a review for moderation. Eligibility (a
// completed booking of the same property by the same user) is
// enforced by the store inside its transaction.
func (s *ReviewService) CreateReview(ctx context.Context, id models.Identity, review *models.Review) error {
	review.UserID = id.UserID
	review.Status = models.ModerationPending

	if err := s.reviews.CreateReview(ctx, review); err != nil {
		return err
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventReviewSubmitted, events.ReviewEventPayload{
			ReviewID: review.ID, UserID: review.UserID,
			PropertyID: review.PropertyID, Rating: review.Rating, Status: review.Status,
		})
	}
	return nil
}

// ListPropertyReviews is the public listing: only approved reviews
// are visible to non-admins.
func (s *ReviewService) ListPropertyReviews(ctx context.Context, id models.Identity, filter database.ReviewFilter) ([]*models.Review, int, error) {
	if !id.IsAdmin() {
		filter.Status = models.ModerationApproved
	}
	return s.reviews.ListReviews(ctx, filter)
}

func (s *ReviewService) ListUserReviews(ctx context.Context, id models.Identity, userID int64, page models.Page) ([]*models.Review, int, error) {
	if !id.Owns(userID) {
		return nil, 0, ErrForbidden
	}
	return s.reviews.ListReviews(ctx, database.ReviewFilter{UserID: userID, Page: page})
}

func (s *ReviewService) ListAllReviews(ctx context.Context, id models.Identity, filter database.ReviewFilter) ([]*models.Review, int, error) {
	if !id.IsAdmin() {
		return nil, 0, ErrForbidden
	}
	return s.reviews.ListReviews(ctx, filter)
}

// UpdateReview lets the author edit their review; edits go back to
// moderation.
func (s *ReviewService) UpdateReview(ctx context.Context, id models.Identity, review *models.Review) error {
	existing, err := s.reviews.GetReview(ctx, review.ID)
	if err != nil {
		return err
	}
	if existing.UserID != id.UserID {
		return ErrForbidden
	}
	review.Status = models.ModerationPending
	return s.reviews.UpdateReview(ctx, review)
}

// ModerateReview approves or rejects a pending review.
func (s *ReviewService) ModerateReview(ctx context.Context, id models.Identity, reviewID int64, status, adminResponse string) error {
	if !id.IsAdmin() {
		return ErrForbidden
	}
	if !validModerationStatus(status) {
		return database.ErrInvalidStatus
	}

	review, err := s.reviews.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if err := s.reviews.UpdateReviewStatus(ctx, reviewID, status, adminResponse); err != nil {
		return err
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventReviewModerated, events.ReviewEventPayload{
			ReviewID: review.ID, UserID: review.UserID,
			PropertyID: review.PropertyID, Rating: review.Rating, Status: status,
		})
	}
	return nil
}

func (s *ReviewService) MarkHelpful(ctx context.Context, reviewID int64) error {
	return s.reviews.MarkReviewHelpful(ctx, reviewID)
}

// DeleteReview is allowed for the author and for admins.
func (s *ReviewService) DeleteReview(ctx context.Context, id models.Identity, reviewID int64) error {
	review, err := s.reviews.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if !id.Owns(review.UserID) {
		return ErrForbidden
	}
	return s.reviews.DeleteReview(ctx, reviewID)
}

func (s *ReviewService) GetPropertyRatingStats(ctx context.Context, propertyID int64) (*models.PropertyRatingStats, error) {
	return s.reviews.GetPropertyRatingStats(ctx, propertyID)
}

func (s *ReviewService) GetReviewStats(ctx context.Context) (*models.ReviewStats, error) {
	return s.reviews.GetReviewStats(ctx)
}

func validModerationStatus(status string) bool {
	for _, s := range models.ModerationStatuses {
		if s == status {
			return true
		}
	}
	return false
}
