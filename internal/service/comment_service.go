package service

import (
	"context"

	"github.com/rs/zerolog"

	"stayhub/internal/database"
	"stayhub/internal/domain"
	"stayhub/internal/models"
)

type CommentService struct {
	comments domain.CommentStore
	logger   *zerolog.Logger
}

func NewCommentService(comments domain.CommentStore, logger *zerolog.Logger) *CommentService {
	return &CommentService{comments: comments, logger: logger}
}

func (s *CommentService) CreateComment(ctx context.Context, id models.Identity, comment *models.Comment) error {
	comment.UserID = id.UserID
	comment.Status = models.ModerationPending
	return s.comments.CreateComment(ctx, comment)
}

// ListPropertyComments shows approved comments publicly; admins see
// all moderation states.
func (s *CommentService) ListPropertyComments(ctx context.Context, id models.Identity, filter database.CommentFilter) ([]*models.Comment, int, error) {
	if !id.IsAdmin() {
		filter.Status = models.ModerationApproved
	}
	return s.comments.ListComments(ctx, filter)
}

func (s *CommentService) ListUserComments(ctx context.Context, id models.Identity, userID int64, page models.Page) ([]*models.Comment, int, error) {
	if !id.Owns(userID) {
		return nil, 0, ErrForbidden
	}
	return s.comments.ListComments(ctx, database.CommentFilter{UserID: userID, Page: page})
}

// UpdateComment lets the author edit; the edit returns to moderation.
func (s *CommentService) UpdateComment(ctx context.Context, id models.Identity, commentID int64, text string) error {
	existing, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if existing.UserID != id.UserID {
		return ErrForbidden
	}
	return s.comments.UpdateComment(ctx, commentID, text)
}

func (s *CommentService) ModerateComment(ctx context.Context, id models.Identity, commentID int64, status, adminResponse string) error {
	if !id.IsAdmin() {
		return ErrForbidden
	}
	if !validModerationStatus(status) {
		return database.ErrInvalidStatus
	}
	return s.comments.UpdateCommentStatus(ctx, commentID, status, adminResponse)
}

func (s *CommentService) DeleteComment(ctx context.Context, id models.Identity, commentID int64) error {
	comment, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if !id.Owns(comment.UserID) {
		return ErrForbidden
	}
	return s.comments.DeleteComment(ctx, commentID)
}

func (s *CommentService) GetCommentStats(ctx context.Context) (*models.CommentStats, error) {
	return s.comments.GetCommentStats(ctx)
}
